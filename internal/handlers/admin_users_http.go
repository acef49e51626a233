package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/apperr"
	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/listquery"
	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/models"
	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/repository"
	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/utils"
)

// AdminUsersHTTP is the admin-console surface for user accounts. Password
// values are hashed before persistence, never stored or echoed raw.
type AdminUsersHTTP struct {
	users    repository.UserRepository
	validate *validator.Validate
}

func NewAdminUsersHTTP(users repository.UserRepository) *AdminUsersHTTP {
	return &AdminUsersHTTP{users: users, validate: validator.New()}
}

var userSearchFields = []string{"name", "email"}

// GET /api/admin/users
func (h *AdminUsersHTTP) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts := listquery.Parse(r.URL.Query(), userSearchFields)
		users, pagination, err := h.users.List(r.Context(), opts)
		if err != nil {
			utils.Fail(w, err)
			return
		}
		utils.OK(w, http.StatusOK, "user list", map[string]any{
			"documents":  users,
			"pagination": pagination,
		})
	}
}

// GET /api/admin/users/{id}
func (h *AdminUsersHTTP) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := h.users.GetByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			utils.Fail(w, err)
			return
		}
		if u == nil {
			utils.Fail(w, apperr.NotFound("user"))
			return
		}
		utils.OK(w, http.StatusOK, "user", u)
	}
}

// POST /api/admin/users
func (h *AdminUsersHTTP) Create() http.HandlerFunc {
	type inDTO struct {
		Name       string `json:"name" validate:"required,min=2,max=100"`
		Email      string `json:"email" validate:"required,email"`
		Password   string `json:"password" validate:"required,min=8"`
		Role       string `json:"role" validate:"required,oneof=user manager admin"`
		Department string `json:"department" validate:"omitempty,uuid4"`
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
		// department is required unless the account is an admin
		if in.Role != models.RoleAdmin && in.Department == "" {
			utils.Fail(w, apperr.Validation("validation failed",
				apperr.Detail{Key: "department", Message: "department is required for non-admin users"}))
			return
		}

		hash, err := utils.HashPassword(in.Password)
		if err != nil {
			utils.Fail(w, err)
			return
		}
		u := &models.User{Name: in.Name, Email: in.Email, Role: in.Role}
		if in.Department != "" {
			u.DepartmentID = &in.Department
		}
		if err := h.users.Create(r.Context(), u, hash); err != nil {
			utils.Fail(w, err)
			return
		}
		utils.OK(w, http.StatusCreated, "user created", u)
	}
}

// PATCH /api/admin/users/{id}
func (h *AdminUsersHTTP) Update() http.HandlerFunc {
	type inDTO struct {
		Name       *string `json:"name" validate:"omitempty,min=2,max=100"`
		Email      *string `json:"email" validate:"omitempty,email"`
		Password   *string `json:"password" validate:"omitempty,min=8"`
		Role       *string `json:"role" validate:"omitempty,oneof=user manager admin"`
		Department *string `json:"department" validate:"omitempty,uuid4"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := h.users.GetByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			utils.Fail(w, err)
			return
		}
		if u == nil {
			utils.Fail(w, apperr.NotFound("user"))
			return
		}

		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Fail(w, apperr.Validation("invalid json"))
			return
		}
		if appErr := validateStruct(h.validate, &in); appErr != nil {
			utils.Fail(w, appErr)
			return
		}

		if in.Name != nil {
			u.Name = *in.Name
		}
		if in.Email != nil {
			u.Email = *in.Email
		}
		if in.Role != nil {
			u.Role = *in.Role
		}
		if in.Department != nil {
			u.DepartmentID = in.Department
		}
		if u.Role != models.RoleAdmin && (u.DepartmentID == nil || *u.DepartmentID == "") {
			utils.Fail(w, apperr.Validation("validation failed",
				apperr.Detail{Key: "department", Message: "department is required for non-admin users"}))
			return
		}

		hash := ""
		if in.Password != nil {
			hash, err = utils.HashPassword(*in.Password)
			if err != nil {
				utils.Fail(w, err)
				return
			}
		}
		if err := h.users.Update(r.Context(), u, hash); err != nil {
			utils.Fail(w, err)
			return
		}
		utils.OK(w, http.StatusOK, "user updated", u)
	}
}

// DELETE /api/admin/users/{id}
func (h *AdminUsersHTTP) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ok, err := h.users.Delete(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			utils.Fail(w, err)
			return
		}
		if !ok {
			utils.Fail(w, apperr.NotFound("user"))
			return
		}
		utils.OK(w, http.StatusOK, "user deleted", nil)
	}
}
