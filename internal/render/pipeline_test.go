package render

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/models"
	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/storage"
)

type stubEngine struct {
	fail     bool
	lastHTML string
}

func (s *stubEngine) RenderPDF(_ context.Context, html string) ([]byte, error) {
	if s.fail {
		return nil, fmt.Errorf("browser crashed")
	}
	s.lastHTML = html
	return []byte("%PDF-1.4 stub"), nil
}

func testRecord() *models.Record {
	return &models.Record{
		ID:        "r1",
		CreatedBy: "u1",
		Doc: map[string]any{
			"jobNumber":    "WO-9",
			"customerName": "Acme Mills",
		},
	}
}

func TestGenerateUploadsTicket(t *testing.T) {
	store := storage.NewMemory()
	p := NewPipeline(&stubEngine{}, store, time.Minute, zerolog.Nop())

	key, url, err := p.Generate(context.Background(), "work_order.html", "Work Order", testRecord())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(key, storage.TicketPrefix+"r1-"))
	assert.True(t, strings.HasSuffix(key, ".pdf"))
	assert.Equal(t, store.PublicURL(key), url)

	obj, err := store.Get(context.Background(), key)
	require.NoError(t, err)
	defer obj.Close()
	pdf, err := io.ReadAll(obj)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(pdf), "%PDF"))
}

func TestGenerateRendersPayloadIntoHTML(t *testing.T) {
	engine := &stubEngine{}
	p := NewPipeline(engine, storage.NewMemory(), time.Minute, zerolog.Nop())

	_, _, err := p.Generate(context.Background(), "work_order.html", "Work Order", testRecord())
	require.NoError(t, err)

	assert.Contains(t, engine.lastHTML, "WO-9")
	assert.Contains(t, engine.lastHTML, "Acme Mills")
}

func TestGenerateEngineFailurePropagates(t *testing.T) {
	store := storage.NewMemory()
	p := NewPipeline(&stubEngine{fail: true}, store, time.Minute, zerolog.Nop())

	_, _, err := p.Generate(context.Background(), "work_order.html", "Work Order", testRecord())
	require.Error(t, err)
	assert.Empty(t, store.Keys(), "nothing should be uploaded on failure")
}

func TestGenerateUnknownTemplateFails(t *testing.T) {
	p := NewPipeline(&stubEngine{}, storage.NewMemory(), time.Minute, zerolog.Nop())

	_, _, err := p.Generate(context.Background(), "no_such.html", "Nope", testRecord())
	require.Error(t, err)
}

func TestRegenerationKeepsPreviousArtifact(t *testing.T) {
	store := storage.NewMemory()
	p := NewPipeline(&stubEngine{}, store, time.Minute, zerolog.Nop())
	rec := testRecord()

	first, _, err := p.Generate(context.Background(), "work_order.html", "Work Order", rec)
	require.NoError(t, err)

	// artifact keys carry a unix timestamp, one second granularity
	time.Sleep(1100 * time.Millisecond)

	second, _, err := p.Generate(context.Background(), "work_order.html", "Work Order", rec)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.ElementsMatch(t, []string{first, second}, store.Keys())
}

func TestResolveSignaturesPresignsStoredKeys(t *testing.T) {
	store := storage.NewMemory()
	p := NewPipeline(&stubEngine{}, store, time.Minute, zerolog.Nop())

	doc := map[string]any{
		"inspectorSignature": "signatures/abc.png",
		"customerSignature":  "https://elsewhere.example/sig.png", // not a stored key
		"propertyName":       "Mill Complex",
	}
	out := p.resolveSignatures(context.Background(), doc)

	assert.Contains(t, out["inspectorSignature"], "memory://signatures/abc.png")
	assert.Equal(t, "https://elsewhere.example/sig.png", out["customerSignature"])
	assert.Equal(t, "Mill Complex", out["propertyName"])
}

func TestExecuteHTMLEscapesPayload(t *testing.T) {
	html, err := ExecuteHTML("work_order.html", DocumentData{
		Title:       "Work Order",
		Doc:         map[string]any{"jobNumber": "<script>alert(1)</script>"},
		CreatedBy:   "u1",
		GeneratedAt: time.Now(),
	})
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.Contains(t, html, "&lt;script&gt;")
}
