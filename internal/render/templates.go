package render

import (
	"bytes"
	"embed"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// DocumentData is what every record template receives. Doc is the record
// payload with signature image keys already resolved to signed URLs.
type DocumentData struct {
	Title       string
	Doc         map[string]any
	CreatedBy   string
	GeneratedAt time.Time
}

// ExecuteHTML renders the named record template to an HTML string.
func ExecuteHTML(name string, data DocumentData) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
