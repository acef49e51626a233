package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/apperr"
	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/middleware"
	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/service"
	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/utils"
)

type AuthHTTP struct {
	svc      *service.AuthService
	validate *validator.Validate
}

func NewAuthHTTP(svc *service.AuthService) *AuthHTTP {
	return &AuthHTTP{svc: svc, validate: validator.New()}
}

// POST /api/auth/register
func (h *AuthHTTP) Register() http.HandlerFunc {
	type inDTO struct {
		Name       string `json:"name" validate:"required,min=2,max=100"`
		Email      string `json:"email" validate:"required,email"`
		Password   string `json:"password" validate:"required,min=8"`
		Department string `json:"department" validate:"required,uuid4"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Fail(w, apperr.Validation("invalid json"))
			return
		}
		if appErr := validateStruct(h.validate, &in); appErr != nil {
			utils.Fail(w, appErr)
			return
		}

		u, err := h.svc.Register(r.Context(), in.Name, in.Email, in.Password, in.Department)
		if err != nil {
			utils.Fail(w, err)
			return
		}
		utils.OK(w, http.StatusCreated, "registered", u)
	}
}

// POST /api/auth/login
func (h *AuthHTTP) Login() http.HandlerFunc {
	type inDTO struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Fail(w, apperr.Validation("invalid json"))
			return
		}
		if appErr := validateStruct(h.validate, &in); appErr != nil {
			utils.Fail(w, appErr)
			return
		}

		token, u, err := h.svc.Login(r.Context(), in.Email, in.Password)
		if err != nil {
			if errors.Is(err, service.ErrInvalidCredentials) {
				utils.Fail(w, apperr.Unauthorized("invalid credentials"))
				return
			}
			utils.Fail(w, err)
			return
		}
		utils.OK(w, http.StatusOK, "logged in", map[string]any{
			"token": token,
			"user":  u,
		})
	}
}

// GET /api/auth/me
func (h *AuthHTTP) Me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := middleware.Actor(r.Context())
		if !ok {
			utils.Fail(w, apperr.Unauthorized("authentication required"))
			return
		}
		utils.OK(w, http.StatusOK, "profile", u)
	}
}
