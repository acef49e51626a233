package utils

import (
	"encoding/json"
	"net/http"

	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/apperr"
)

// Uniform response envelope: {success, message, data} on success (plus an
// optional warning when document generation degraded), {success, message,
// errors} on failure.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    any             `json:"data,omitempty"`
	Warning string          `json:"warning,omitempty"`
	Errors  []apperr.Detail `json:"errors,omitempty"`
}

func write(w http.ResponseWriter, status int, e envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(e)
}

func OK(w http.ResponseWriter, status int, message string, data any) {
	write(w, status, envelope{Success: true, Message: message, Data: data})
}

// Warn reports a successful operation whose document artifact step failed.
func Warn(w http.ResponseWriter, status int, message string, data any, warning string) {
	write(w, status, envelope{Success: true, Message: message, Data: data, Warning: warning})
}

func Fail(w http.ResponseWriter, err error) {
	ae := apperr.From(err)
	write(w, ae.Status, envelope{Success: false, Message: ae.Message, Errors: ae.Details})
}

func FailStatus(w http.ResponseWriter, status int, message string, details ...apperr.Detail) {
	write(w, status, envelope{Success: false, Message: message, Errors: details})
}
