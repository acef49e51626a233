package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/apperr"
	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/listquery"
	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/models"
)

type UserRepo struct{ db *pgxpool.Pool }

func NewUserRepo(db *pgxpool.Pool) *UserRepo { return &UserRepo{db: db} }

// IsUniqueViolation reports whether err is a unique-constraint violation,
// the storage-layer backstop behind read-then-write uniqueness checks.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func userField(f string) (string, bool) {
	switch f {
	case "name":
		return "name", true
	case "email":
		return "email", true
	case "role":
		return "role", true
	case "createdAt":
		return "created_at", true
	case "updatedAt":
		return "updated_at", true
	default:
		return "", false
	}
}

func (r *UserRepo) Create(ctx context.Context, u *models.User, passwordHash string) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, role, department_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, u.Name, u.Email, passwordHash, u.Role, u.DepartmentID).
		Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if IsUniqueViolation(err) {
		return apperr.Conflict("email", "email already in use")
	}
	return err
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, string, error) {
	var u models.User
	var hash string
	err := r.db.QueryRow(ctx, `
		SELECT id, name, email, password_hash, role, department_id, is_deleted, created_at, updated_at
		FROM users WHERE email = $1 AND NOT is_deleted
	`, email).Scan(&u.ID, &u.Name, &u.Email, &hash, &u.Role, &u.DepartmentID, &u.IsDeleted, &u.CreatedAt, &u.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}
	return &u, hash, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := r.db.QueryRow(ctx, `
		SELECT id, name, email, role, department_id, is_deleted, created_at, updated_at
		FROM users WHERE id = $1 AND NOT is_deleted
	`, id).Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.DepartmentID, &u.IsDeleted, &u.CreatedAt, &u.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) List(ctx context.Context, opts listquery.Options) ([]models.User, listquery.Pagination, error) {
	var args []any
	conds := []string{"NOT is_deleted"}
	qconds, qargs := opts.Where(userField, 0)
	conds = append(conds, qconds...)
	args = append(args, qargs...)
	whereSQL := "WHERE " + strings.Join(conds, " AND ")

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM users "+whereSQL, args...).Scan(&total); err != nil {
		return nil, listquery.Pagination{}, err
	}

	sql := `SELECT id, name, email, role, department_id, is_deleted, created_at, updated_at FROM users ` + whereSQL
	if ob := opts.OrderBy(userField); ob != "" {
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

	var out []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.DepartmentID, &u.IsDeleted, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, listquery.Pagination{}, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, listquery.Pagination{}, err
	}
	return out, listquery.Paginate(total, opts), nil
}

func (r *UserRepo) Update(ctx context.Context, u *models.User, passwordHash string) error {
	err := r.db.QueryRow(ctx, `
		UPDATE users
		SET name = $2, email = $3, role = $4, department_id = $5,
		    password_hash = CASE WHEN $6 = '' THEN password_hash ELSE $6 END,
		    updated_at = now()
		WHERE id = $1 AND NOT is_deleted
		RETURNING updated_at
	`, u.ID, u.Name, u.Email, u.Role, u.DepartmentID, passwordHash).Scan(&u.UpdatedAt)
	if IsUniqueViolation(err) {
		return apperr.Conflict("email", "email already in use")
	}
	return err
}

func (r *UserRepo) Delete(ctx context.Context, id string) (bool, error) {
	ct, err := r.db.Exec(ctx, `
		UPDATE users SET is_deleted = TRUE, updated_at = now()
		WHERE id = $1 AND NOT is_deleted
	`, id)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r *UserRepo) IDsByDepartment(ctx context.Context, departmentID string) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id::text FROM users WHERE department_id = $1 AND NOT is_deleted
	`, departmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
