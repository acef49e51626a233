package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/apperr"
	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/authz"
	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/listquery"
	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/mailer"
	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/middleware"
	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/models"
	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/repository"
	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/utils"
)

// ArtifactPipeline is the document side of record creation; satisfied by
// render.Pipeline and by test fakes.
type ArtifactPipeline interface {
	Generate(ctx context.Context, templateName, title string, rec *models.Record) (key, url string, err error)
}

// RecordHTTP serves one domain record collection. The same handler backs all
// six resources; behavior differences live in the Resource value.
type RecordHTTP struct {
	res      Resource
	repo     repository.RecordRepository
	users    repository.UserRepository
	depts    repository.DepartmentRepository
	pipeline ArtifactPipeline
	notifier mailer.Notifier
	log      zerolog.Logger
}

func NewRecordHTTP(
	res Resource,
	repo repository.RecordRepository,
	users repository.UserRepository,
	depts repository.DepartmentRepository,
	pipeline ArtifactPipeline,
	notifier mailer.Notifier,
	log zerolog.Logger,
) *RecordHTTP {
	return &RecordHTTP{res: res, repo: repo, users: users, depts: depts, pipeline: pipeline, notifier: notifier, log: log}
}

// reserved top-level fields callers may not set through the payload.
var reservedFields = []string{"id", "createdBy", "ticket", "artifactStatus", "createdAt", "updatedAt"}

// GET /api/{resource}
func (h *RecordHTTP) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := middleware.Actor(r.Context())

		deptParam := ""
		if actor.Role == models.RoleAdmin {
			deptParam = r.URL.Query().Get("department")
		}
		scope, err := authz.ScopeFilter(r.Context(), actor, deptParam, h.users)
		if err != nil {
			h.fail(w, err, "scope filter failed")
			return
		}

		opts := listquery.Parse(r.URL.Query(), h.res.SearchFields)
		records, pagination, err := h.repo.List(r.Context(), scope, opts)
		if err != nil {
			h.fail(w, err, "list failed")
			return
		}

		documents := make([]map[string]any, 0, len(records))
		for i := range records {
			documents = append(documents, records[i].Flatten(opts.Fields))
		}
		utils.OK(w, http.StatusOK, h.res.Title+" list", map[string]any{
			"documents":  documents,
			"pagination": pagination,
		})
	}
}

// GET /api/{resource}/{id}
func (h *RecordHTTP) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := h.visibleRecord(r)
		if err != nil {
			h.fail(w, err, "get failed")
			return
		}
		utils.OK(w, http.StatusOK, h.res.Title, rec.Flatten(nil))
	}
}

// POST /api/{resource}
// The record is persisted first; document generation is best effort and a
// failure degrades to a warning on an otherwise successful response.
func (h *RecordHTTP) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := middleware.Actor(r.Context())

		doc, appErr := h.decodeDoc(r)
		if appErr != nil {
			utils.Fail(w, appErr)
			return
		}

		if h.res.UniqueKey != "" {
			if appErr := h.checkUnique(r.Context(), doc, ""); appErr != nil {
				utils.Fail(w, appErr)
				return
			}
		}

		rec := &models.Record{
			CreatedBy:      actor.ID,
			Doc:            doc,
			ArtifactStatus: models.ArtifactPending,
		}
		if err := h.repo.Create(r.Context(), rec); err != nil {
			h.fail(w, err, "create failed")
			return
		}

		if warning := h.generateArtifact(r.Context(), rec, actor); warning != "" {
			utils.Warn(w, http.StatusCreated, h.res.Title+" created", rec.Flatten(nil), warning)
			return
		}
		utils.OK(w, http.StatusCreated, h.res.Title+" created", rec.Flatten(nil))
	}
}

// PATCH /api/{resource}/{id}
// A successful update regenerates the document; the previous artifact stays
// in storage, only the reference moves.
func (h *RecordHTTP) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := middleware.Actor(r.Context())

		existing, err := h.visibleRecord(r)
		if err != nil {
			h.fail(w, err, "update failed")
			return
		}

		doc, appErr := h.decodeDoc(r)
		if appErr != nil {
			utils.Fail(w, appErr)
			return
		}

		if h.res.UniqueKey != "" {
			if appErr := h.checkUnique(r.Context(), doc, existing.ID); appErr != nil {
				utils.Fail(w, appErr)
				return
			}
		}

		rec, err := h.repo.Update(r.Context(), existing.ID, doc)
		if err != nil {
			h.fail(w, err, "update failed")
			return
		}
		if rec == nil {
			utils.Fail(w, apperr.NotFound(h.res.Title))
			return
		}

		if warning := h.generateArtifact(r.Context(), rec, actor); warning != "" {
			utils.Warn(w, http.StatusOK, h.res.Title+" updated", rec.Flatten(nil), warning)
			return
		}
		utils.OK(w, http.StatusOK, h.res.Title+" updated", rec.Flatten(nil))
	}
}

// POST /api/{resource}/{id}/render
// Reconciliation path for records whose document generation failed.
func (h *RecordHTTP) Render() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := middleware.Actor(r.Context())

		rec, err := h.visibleRecord(r)
		if err != nil {
			h.fail(w, err, "render failed")
			return
		}

		if warning := h.generateArtifact(r.Context(), rec, actor); warning != "" {
			utils.Warn(w, http.StatusOK, h.res.Title+" render retried", rec.Flatten(nil), warning)
			return
		}
		utils.OK(w, http.StatusOK, h.res.Title+" rendered", rec.Flatten(nil))
	}
}

// DELETE /api/{resource}/{id}
func (h *RecordHTTP) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := h.visibleRecord(r)
		if err != nil {
			h.fail(w, err, "delete failed")
			return
		}
		ok, err := h.repo.Delete(r.Context(), rec.ID)
		if err != nil {
			h.fail(w, err, "delete failed")
			return
		}
		if !ok {
			utils.Fail(w, apperr.NotFound(h.res.Title))
			return
		}
		utils.OK(w, http.StatusOK, h.res.Title+" deleted", nil)
	}
}

// visibleRecord loads the {id} record and verifies the actor's scope admits
// it, so direct fetches obey the same policy as listings.
func (h *RecordHTTP) visibleRecord(r *http.Request) (*models.Record, error) {
	id := chi.URLParam(r, "id")
	if id == "" {
		return nil, apperr.Validation("missing id")
	}
	// ids are uuids; anything else can't exist, and must not reach the
	// uuid-typed query as a cast error.
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperr.NotFound(h.res.Title)
	}
	actor, _ := middleware.Actor(r.Context())

	rec, err := h.repo.Get(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, apperr.NotFound(h.res.Title)
	}

	scope, err := authz.ScopeFilter(r.Context(), actor, "", h.users)
	if err != nil {
		return nil, err
	}
	if !scope.All {
		if scope.None {
			return nil, apperr.NotFound(h.res.Title)
		}
		allowed := false
		for _, id := range scope.CreatorIDs {
			if id == rec.CreatedBy {
				allowed = true
				break
			}
		}
		if !allowed {
			return nil, apperr.NotFound(h.res.Title)
		}
	}
	return rec, nil
}

func (h *RecordHTTP) decodeDoc(r *http.Request) (map[string]any, *apperr.Error) {
	var doc map[string]any
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		return nil, apperr.Validation("invalid json")
	}
	for _, f := range reservedFields {
		delete(doc, f)
	}

	var details []apperr.Detail
	for _, req := range h.res.Required {
		if s, ok := doc[req].(string); !ok || s == "" {
			details = append(details, apperr.Detail{Key: req, Message: req + " is required"})
		}
	}
	if len(details) > 0 {
		return nil, apperr.Validation("validation failed", details...)
	}
	return doc, nil
}

// checkUnique is the read side of the read-then-write uniqueness check; the
// database constraint remains the backstop under concurrent submission.
func (h *RecordHTTP) checkUnique(ctx context.Context, doc map[string]any, excludeID string) *apperr.Error {
	value, _ := doc[h.res.UniqueKey].(string)
	if value == "" {
		return nil
	}
	exists, err := h.repo.ExistsByKey(ctx, value, excludeID)
	if err != nil {
		h.log.Error().Err(err).Msg("uniqueness check failed")
		return apperr.From(err)
	}
	if exists {
		return apperr.Conflict(h.res.UniqueKey, h.res.UniqueKey+" already exists")
	}
	return nil
}

// generateArtifact runs the rendering pipeline for rec and records the
// outcome. Returns a warning message when generation failed; the record
// itself is already durable either way.
func (h *RecordHTTP) generateArtifact(ctx context.Context, rec *models.Record, actor *models.User) string {
	key, url, err := h.pipeline.Generate(ctx, h.res.Template, h.res.Title, rec)
	if err != nil {
		h.log.Error().Err(err).Str("resource", h.res.Name).Str("id", rec.ID).Msg("document generation failed")
		rec.ArtifactStatus = models.ArtifactFailed
		if serr := h.repo.SetArtifact(ctx, rec.ID, rec.Ticket, models.ArtifactFailed); serr != nil {
			h.log.Error().Err(serr).Str("id", rec.ID).Msg("artifact status update failed")
		}
		return "document generation failed; record saved without an updated ticket"
	}

	rec.Ticket = url
	rec.ArtifactStatus = models.ArtifactReady
	if err := h.repo.SetArtifact(ctx, rec.ID, url, models.ArtifactReady); err != nil {
		h.log.Error().Err(err).Str("id", rec.ID).Msg("ticket update failed")
		return "document generated but the record could not be updated with its ticket"
	}

	h.notify(ctx, actor, key)
	return ""
}

// notify mails the fresh artifact to the actor's department managers.
// Fire and forget.
func (h *RecordHTTP) notify(ctx context.Context, actor *models.User, artifactKey string) {
	if actor.DepartmentID == nil || *actor.DepartmentID == "" {
		return
	}
	deptID := *actor.DepartmentID
	bg := context.WithoutCancel(ctx)
	go func() {
		emails, err := h.depts.ManagerEmails(bg, deptID)
		if err != nil {
			h.log.Error().Err(err).Str("department", deptID).Msg("manager email lookup failed")
			return
		}
		h.notifier.NotifyArtifact(bg, emails, h.res.Title, artifactKey)
	}()
}

func (h *RecordHTTP) fail(w http.ResponseWriter, err error, msg string) {
	if ae := apperr.From(err); ae.Status >= 500 {
		h.log.Error().Err(err).Str("resource", h.res.Name).Msg(msg)
	}
	utils.Fail(w, err)
}
