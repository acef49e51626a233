package repository

import (
	"context"

	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/authz"
	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/listquery"
	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, u *models.User, passwordHash string) error
	GetByEmail(ctx context.Context, email string) (*models.User, string /*passwordHash*/, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, opts listquery.Options) ([]models.User, listquery.Pagination, error)
	Update(ctx context.Context, u *models.User, passwordHash string) error // empty hash keeps the current one
	Delete(ctx context.Context, id string) (bool, error)                   // soft delete
	IDsByDepartment(ctx context.Context, departmentID string) ([]string, error)
}

type DepartmentRepository interface {
	Create(ctx context.Context, d *models.Department) error
	GetByID(ctx context.Context, id string) (*models.Department, error)
	List(ctx context.Context, opts listquery.Options) ([]models.Department, listquery.Pagination, error)
	Update(ctx context.Context, d *models.Department) error
	Delete(ctx context.Context, id string) (bool, error) // soft delete
	ExistsByName(ctx context.Context, name, excludeID string) (bool, error)
	ManagerEmails(ctx context.Context, departmentID string) ([]string, error)
}

// RecordRepository is the uniform storage surface for all six domain record
// collections. One implementation is instantiated per table.
type RecordRepository interface {
	List(ctx context.Context, scope authz.Predicate, opts listquery.Options) ([]models.Record, listquery.Pagination, error)
	Get(ctx context.Context, id string) (*models.Record, error)
	Create(ctx context.Context, rec *models.Record) error
	Update(ctx context.Context, id string, doc map[string]any) (*models.Record, error)
	SetArtifact(ctx context.Context, id, url, status string) error
	ExistsByKey(ctx context.Context, value, excludeID string) (bool, error)
	Delete(ctx context.Context, id string) (bool, error) // hard delete
}
