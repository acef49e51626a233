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

type AdminDepartmentsHTTP struct {
	depts    repository.DepartmentRepository
	users    repository.UserRepository
	validate *validator.Validate
}

func NewAdminDepartmentsHTTP(depts repository.DepartmentRepository, users repository.UserRepository) *AdminDepartmentsHTTP {
	return &AdminDepartmentsHTTP{depts: depts, users: users, validate: validator.New()}
}

var departmentSearchFields = []string{"name"}

// GET /api/admin/departments
func (h *AdminDepartmentsHTTP) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts := listquery.Parse(r.URL.Query(), departmentSearchFields)
		depts, pagination, err := h.depts.List(r.Context(), opts)
		if err != nil {
			utils.Fail(w, err)
			return
		}
		utils.OK(w, http.StatusOK, "department list", map[string]any{
			"documents":  depts,
			"pagination": pagination,
		})
	}
}

// GET /api/admin/departments/{id}
func (h *AdminDepartmentsHTTP) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := h.depts.GetByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			utils.Fail(w, err)
			return
		}
		if d == nil {
			utils.Fail(w, apperr.NotFound("department"))
			return
		}
		utils.OK(w, http.StatusOK, "department", d)
	}
}

// POST /api/admin/departments
func (h *AdminDepartmentsHTTP) Create() http.HandlerFunc {
	type inDTO struct {
		Name    string `json:"name" validate:"required,min=2,max=200"`
		Manager string `json:"manager" validate:"omitempty,uuid4"`
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

		exists, err := h.depts.ExistsByName(r.Context(), in.Name, "")
		if err != nil {
			utils.Fail(w, err)
			return
		}
		if exists {
			utils.Fail(w, apperr.Conflict("name", "department name already exists"))
			return
		}

		d := &models.Department{Name: in.Name}
		if in.Manager != "" {
			if appErr := h.checkManager(r, in.Manager); appErr != nil {
				utils.Fail(w, appErr)
				return
			}
			d.ManagerID = &in.Manager
		}
		if err := h.depts.Create(r.Context(), d); err != nil {
			utils.Fail(w, err)
			return
		}
		utils.OK(w, http.StatusCreated, "department created", d)
	}
}

// PATCH /api/admin/departments/{id}
func (h *AdminDepartmentsHTTP) Update() http.HandlerFunc {
	type inDTO struct {
		Name    *string `json:"name" validate:"omitempty,min=2,max=200"`
		Manager *string `json:"manager" validate:"omitempty,uuid4"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := h.depts.GetByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			utils.Fail(w, err)
			return
		}
		if d == nil {
			utils.Fail(w, apperr.NotFound("department"))
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

		if in.Name != nil && *in.Name != d.Name {
			exists, err := h.depts.ExistsByName(r.Context(), *in.Name, d.ID)
			if err != nil {
				utils.Fail(w, err)
				return
			}
			if exists {
				utils.Fail(w, apperr.Conflict("name", "department name already exists"))
				return
			}
			d.Name = *in.Name
		}
		if in.Manager != nil {
			if *in.Manager != "" {
				if appErr := h.checkManager(r, *in.Manager); appErr != nil {
					utils.Fail(w, appErr)
					return
				}
				d.ManagerID = in.Manager
			} else {
				d.ManagerID = nil
			}
		}

		if err := h.depts.Update(r.Context(), d); err != nil {
			utils.Fail(w, err)
			return
		}
		utils.OK(w, http.StatusOK, "department updated", d)
	}
}

// DELETE /api/admin/departments/{id}
func (h *AdminDepartmentsHTTP) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ok, err := h.depts.Delete(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			utils.Fail(w, err)
			return
		}
		if !ok {
			utils.Fail(w, apperr.NotFound("department"))
			return
		}
		utils.OK(w, http.StatusOK, "department deleted", nil)
	}
}

// checkManager enforces that a department manager reference points at a user
// whose role is manager.
func (h *AdminDepartmentsHTTP) checkManager(r *http.Request, managerID string) *apperr.Error {
	u, err := h.users.GetByID(r.Context(), managerID)
	if err != nil {
		return apperr.From(err)
	}
	if u == nil {
		return apperr.Validation("validation failed",
			apperr.Detail{Key: "manager", Message: "manager not found"})
	}
	if u.Role != models.RoleManager {
		return apperr.Validation("validation failed",
			apperr.Detail{Key: "manager", Message: "manager must be a user with the manager role"})
	}
	return nil
}
