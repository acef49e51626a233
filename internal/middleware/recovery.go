package middleware

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/utils"
)

func Recoverer(l zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					l.Error().Interface("panic", rec).Str("path", r.URL.Path).Msg("panic")
					utils.FailStatus(w, http.StatusInternalServerError, "internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
