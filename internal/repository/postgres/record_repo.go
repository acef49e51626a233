package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/apperr"
	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/authz"
	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/listquery"
	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/models"
)

// RecordRepo stores one domain record collection in a table with the shared
// layout (common columns + JSONB payload). uniqueKey names the payload field
// mirrored into the business_key column, empty when the collection has none.
type RecordRepo struct {
	db        *pgxpool.Pool
	table     string
	uniqueKey string
}

func NewRecordRepo(db *pgxpool.Pool, table, uniqueKey string) *RecordRepo {
	return &RecordRepo{db: db, table: table, uniqueKey: uniqueKey}
}

// recordField maps API field names onto SQL expressions. Unmapped names read
// from the JSONB payload; field names are identifier-safe by the time they
// arrive here (listquery drops anything else).
func recordField(f string) (string, bool) {
	switch f {
	case "createdAt":
		return "created_at", true
	case "updatedAt":
		return "updated_at", true
	case "createdBy":
		return "created_by::text", true
	case "ticket":
		return "ticket_url", true
	case "artifactStatus":
		return "artifact_status", true
	case "id":
		return "id::text", true
	default:
		return "doc->>'" + f + "'", true
	}
}

func scopeCond(p authz.Predicate, args *[]any) string {
	switch {
	case p.All:
		return ""
	case p.None:
		return "FALSE"
	default:
		*args = append(*args, p.CreatorIDs)
		return fmt.Sprintf("created_by::text = ANY($%d)", len(*args))
	}
}

func (r *RecordRepo) List(ctx context.Context, scope authz.Predicate, opts listquery.Options) ([]models.Record, listquery.Pagination, error) {
	var args []any
	conds := []string{"TRUE"}
	if c := scopeCond(scope, &args); c != "" {
		conds = append(conds, c)
	}
	qconds, qargs := opts.Where(recordField, len(args))
	conds = append(conds, qconds...)
	args = append(args, qargs...)

	whereSQL := "WHERE " + strings.Join(conds, " AND ")

	// totalItems reflects the filter with pagination not applied.
	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM "+r.table+" "+whereSQL, args...).Scan(&total); err != nil {
		return nil, listquery.Pagination{}, err
	}

	sql := "SELECT id, created_by, doc, ticket_url, artifact_status, created_at, updated_at FROM " +
		r.table + " " + whereSQL
	if ob := opts.OrderBy(recordField); ob != "" {
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

	var out []models.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, listquery.Pagination{}, err
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, listquery.Pagination{}, err
	}
	return out, listquery.Paginate(total, opts), nil
}

func (r *RecordRepo) Get(ctx context.Context, id string) (*models.Record, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, created_by, doc, ticket_url, artifact_status, created_at, updated_at
		FROM `+r.table+` WHERE id = $1
	`, id)
	rec, err := scanRecord(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return rec, err
}

func (r *RecordRepo) Create(ctx context.Context, rec *models.Record) error {
	docJSON, err := json.Marshal(rec.Doc)
	if err != nil {
		return err
	}
	err = r.db.QueryRow(ctx, `
		INSERT INTO `+r.table+` (created_by, doc, business_key, artifact_status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, rec.CreatedBy, docJSON, r.businessKey(rec.Doc), models.ArtifactPending).
		Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if IsUniqueViolation(err) {
		return apperr.Conflict(r.uniqueKey, r.uniqueKey+" already exists")
	}
	return err
}

func (r *RecordRepo) Update(ctx context.Context, id string, doc map[string]any) (*models.Record, error) {
	docJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	row := r.db.QueryRow(ctx, `
		UPDATE `+r.table+`
		SET doc = $2, business_key = $3, updated_at = now()
		WHERE id = $1
		RETURNING id, created_by, doc, ticket_url, artifact_status, created_at, updated_at
	`, id, docJSON, r.businessKey(doc))
	rec, err := scanRecord(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if IsUniqueViolation(err) {
		return nil, apperr.Conflict(r.uniqueKey, r.uniqueKey+" already exists")
	}
	return rec, err
}

func (r *RecordRepo) SetArtifact(ctx context.Context, id, url, status string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE `+r.table+` SET ticket_url = $2, artifact_status = $3, updated_at = now()
		WHERE id = $1
	`, id, url, status)
	return err
}

func (r *RecordRepo) ExistsByKey(ctx context.Context, value, excludeID string) (bool, error) {
	if r.uniqueKey == "" {
		return false, nil
	}
	var n int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM `+r.table+`
		WHERE business_key = $1 AND ($2 = '' OR id::text <> $2)
	`, value, excludeID).Scan(&n)
	return n > 0, err
}

func (r *RecordRepo) Delete(ctx context.Context, id string) (bool, error) {
	ct, err := r.db.Exec(ctx, "DELETE FROM "+r.table+" WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r *RecordRepo) businessKey(doc map[string]any) *string {
	if r.uniqueKey == "" {
		return nil
	}
	if v, ok := doc[r.uniqueKey].(string); ok && v != "" {
		return &v
	}
	return nil
}

func scanRecord(row pgx.Row) (*models.Record, error) {
	var rec models.Record
	var docJSON []byte
	if err := row.Scan(&rec.ID, &rec.CreatedBy, &docJSON, &rec.Ticket, &rec.ArtifactStatus, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(docJSON, &rec.Doc); err != nil {
		return nil, err
	}
	return &rec, nil
}
