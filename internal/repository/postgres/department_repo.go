package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/apperr"
	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/listquery"
	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/models"
)

type DepartmentRepo struct{ db *pgxpool.Pool }

func NewDepartmentRepo(db *pgxpool.Pool) *DepartmentRepo { return &DepartmentRepo{db: db} }

func departmentField(f string) (string, bool) {
	switch f {
	case "name":
		return "name", true
	case "createdAt":
		return "created_at", true
	case "updatedAt":
		return "updated_at", true
	default:
		return "", false
	}
}

func (r *DepartmentRepo) Create(ctx context.Context, d *models.Department) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO departments (name, manager_id) VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`, d.Name, d.ManagerID).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if IsUniqueViolation(err) {
		return apperr.Conflict("name", "department name already exists")
	}
	return err
}

func (r *DepartmentRepo) GetByID(ctx context.Context, id string) (*models.Department, error) {
	var d models.Department
	err := r.db.QueryRow(ctx, `
		SELECT id, name, manager_id, is_deleted, created_at, updated_at
		FROM departments WHERE id = $1 AND NOT is_deleted
	`, id).Scan(&d.ID, &d.Name, &d.ManagerID, &d.IsDeleted, &d.CreatedAt, &d.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DepartmentRepo) List(ctx context.Context, opts listquery.Options) ([]models.Department, listquery.Pagination, error) {
	var args []any
	conds := []string{"NOT is_deleted"}
	qconds, qargs := opts.Where(departmentField, 0)
	conds = append(conds, qconds...)
	args = append(args, qargs...)
	whereSQL := "WHERE " + strings.Join(conds, " AND ")

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM departments "+whereSQL, args...).Scan(&total); err != nil {
		return nil, listquery.Pagination{}, err
	}

	sql := `SELECT id, name, manager_id, is_deleted, created_at, updated_at FROM departments ` + whereSQL
	if ob := opts.OrderBy(departmentField); ob != "" {
		sql += " " + ob
	}
	if limit, offset, paged := opts.LimitOffset(); paged {
		args = append(args, limit, offset)
		sql += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, listquery.Pagination{}, err
	}
	defer rows.Close()

	var out []models.Department
	for rows.Next() {
		var d models.Department
		if err := rows.Scan(&d.ID, &d.Name, &d.ManagerID, &d.IsDeleted, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, listquery.Pagination{}, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, listquery.Pagination{}, err
	}
	return out, listquery.Paginate(total, opts), nil
}

func (r *DepartmentRepo) Update(ctx context.Context, d *models.Department) error {
	err := r.db.QueryRow(ctx, `
		UPDATE departments SET name = $2, manager_id = $3, updated_at = now()
		WHERE id = $1 AND NOT is_deleted
		RETURNING updated_at
	`, d.ID, d.Name, d.ManagerID).Scan(&d.UpdatedAt)
	if IsUniqueViolation(err) {
		return apperr.Conflict("name", "department name already exists")
	}
	return err
}

func (r *DepartmentRepo) Delete(ctx context.Context, id string) (bool, error) {
	ct, err := r.db.Exec(ctx, `
		UPDATE departments SET is_deleted = TRUE, updated_at = now()
		WHERE id = $1 AND NOT is_deleted
	`, id)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r *DepartmentRepo) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	var n int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM departments
		WHERE lower(name) = lower($1) AND NOT is_deleted AND ($2 = '' OR id::text <> $2)
	`, name, excludeID).Scan(&n)
	return n > 0, err
}

// ManagerEmails resolves notification recipients for a department.
func (r *DepartmentRepo) ManagerEmails(ctx context.Context, departmentID string) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT u.email
		FROM departments d
		JOIN users u ON u.id = d.manager_id AND NOT u.is_deleted
		WHERE d.id = $1 AND NOT d.is_deleted
	`, departmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var e string
		if err := rows.Scan(&e); err != nil {
			return nil, err
		}
		emails = append(emails, e)
	}
	return emails, rows.Err()
}
