package render

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/models"
	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/storage"
)

// Pipeline turns a persisted record into a stored PDF artifact: resolve
// signature image keys to signed URLs, execute the entity template, print to
// PDF, upload, return the artifact URL. Sequential, one shot, no retry; the
// caller decides what a failure means.
type Pipeline struct {
	engine  PDFEngine
	store   storage.ObjectStore
	signTTL time.Duration
	log     zerolog.Logger
}

func NewPipeline(engine PDFEngine, store storage.ObjectStore, signTTL time.Duration, log zerolog.Logger) *Pipeline {
	return &Pipeline{engine: engine, store: store, signTTL: signTTL, log: log}
}

// Generate renders rec through the named template and uploads the PDF. The
// returned key is the storage key, the URL is what the record's ticket field
// should reference.
func (p *Pipeline) Generate(ctx context.Context, templateName, title string, rec *models.Record) (key, url string, err error) {
	doc := p.resolveSignatures(ctx, rec.Doc)

	html, err := ExecuteHTML(templateName, DocumentData{
		Title:       title,
		Doc:         doc,
		CreatedBy:   rec.CreatedBy,
		GeneratedAt: time.Now(),
	})
	if err != nil {
		return "", "", err
	}

	pdf, err := p.engine.RenderPDF(ctx, html)
	if err != nil {
		return "", "", err
	}

	key = storage.TicketKey(rec.ID, time.Now())
	if err := p.store.Put(ctx, key, bytes.NewReader(pdf), "application/pdf"); err != nil {
		return "", "", err
	}
	return key, p.store.PublicURL(key), nil
}

// resolveSignatures swaps stored signature image keys for short-lived signed
// URLs so the headless browser can fetch them. A failed presign leaves the
// field blank rather than failing the document.
func (p *Pipeline) resolveSignatures(ctx context.Context, doc map[string]any) map[string]any {
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		s, isStr := v.(string)
		if isStr && strings.HasSuffix(k, "Signature") && strings.HasPrefix(s, storage.SignaturePrefix) {
			url, err := p.store.PresignGet(ctx, s, p.signTTL)
			if err != nil {
				p.log.Warn().Err(err).Str("key", s).Msg("signature presign failed")
				out[k] = ""
				continue
			}
			out[k] = url
			continue
		}
		out[k] = v
	}
	return out
}
