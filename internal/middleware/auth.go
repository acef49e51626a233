package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/config"
	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/models"
	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/repository"
	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/utils"
)

type ctxKey string

const CtxUser ctxKey = "user"

// Actor returns the authenticated user placed in the context by WithAuth.
func Actor(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(CtxUser).(*models.User)
	return u, ok
}

// WithAuth validates a bearer credential and loads the acting user. A missing
// credential passes through unauthenticated (RequireAuth rejects later); a
// present but bad credential is rejected immediately with a distinct reason.
func WithAuth(log zerolog.Logger, cfg config.Config, users repository.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if !strings.HasPrefix(h, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}
			tok := strings.TrimPrefix(h, "Bearer ")

			claims, err := utils.ParseJWT(cfg.SessionSecret, tok)
			if err != nil {
				utils.FailStatus(w, http.StatusUnauthorized, err.Error())
				return
			}

			u, err := users.GetByID(r.Context(), claims.UserID)
			if err != nil {
				log.Error().Err(err).Msg("auth user lookup failed")
				utils.FailStatus(w, http.StatusInternalServerError, "internal server error")
				return
			}
			if u == nil {
				utils.FailStatus(w, http.StatusUnauthorized, "token invalid")
				return
			}

			ctx := context.WithValue(r.Context(), CtxUser, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth blocks when no user is present in context (set by WithAuth).
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := Actor(r.Context()); !ok {
			utils.FailStatus(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRoles allows the request only if the acting user's role is in the
// allowed set. Failure is terminal for the request.
func RequireRoles(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := Actor(r.Context())
			if !ok {
				utils.FailStatus(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if _, ok := allowed[u.Role]; !ok {
				utils.FailStatus(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
