package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/config"
	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/listquery"
	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/models"
	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/utils"
)

type stubUserRepo struct {
	users map[string]*models.User
}

func (s *stubUserRepo) Create(context.Context, *models.User, string) error { return nil }
func (s *stubUserRepo) GetByEmail(context.Context, string) (*models.User, string, error) {
	return nil, "", nil
}
func (s *stubUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	return s.users[id], nil
}
func (s *stubUserRepo) List(context.Context, listquery.Options) ([]models.User, listquery.Pagination, error) {
	return nil, listquery.Pagination{}, nil
}
func (s *stubUserRepo) Update(context.Context, *models.User, string) error { return nil }
func (s *stubUserRepo) Delete(context.Context, string) (bool, error)       { return false, nil }
func (s *stubUserRepo) IDsByDepartment(context.Context, string) ([]string, error) {
	return nil, nil
}

const testSecret = "test-secret"

func authStack(t *testing.T, users *stubUserRepo, inner http.Handler) http.Handler {
	t.Helper()
	cfg := config.Config{SessionSecret: testSecret}
	return WithAuth(zerolog.Nop(), cfg, users)(inner)
}

func failureMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.False(t, body.Success)
	return body.Message
}

func TestMissingCredentialPassesThroughToRequireAuth(t *testing.T) {
	h := authStack(t, &stubUserRepo{}, RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/customers", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "authentication required", failureMessage(t, w))
}

func TestValidTokenLoadsActor(t *testing.T) {
	users := &stubUserRepo{users: map[string]*models.User{
		"u1": {ID: "u1", Role: models.RoleUser},
	}}
	var seen *models.User
	h := authStack(t, users, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = Actor(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tok, err := utils.SignJWT(testSecret, "u1", models.RoleUser, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "u1", seen.ID)
}

func TestExpiredTokenIsRejectedWithDistinctReason(t *testing.T) {
	h := authStack(t, &stubUserRepo{}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	tok, err := utils.SignJWT(testSecret, "u1", models.RoleUser, -time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "token expired", failureMessage(t, w))
}

func TestMalformedTokenIsRejectedWithDistinctReason(t *testing.T) {
	h := authStack(t, &stubUserRepo{}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
	req.Header.Set("Authorization", "Bearer not.a.jwt")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "token malformed", failureMessage(t, w))
}

func TestWrongSecretTokenIsRejected(t *testing.T) {
	h := authStack(t, &stubUserRepo{}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	tok, err := utils.SignJWT("some-other-secret", "u1", models.RoleUser, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "token invalid", failureMessage(t, w))
}

func TestTokenForUnknownUserIsRejected(t *testing.T) {
	h := authStack(t, &stubUserRepo{}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	tok, err := utils.SignJWT(testSecret, "gone", models.RoleUser, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "token invalid", failureMessage(t, w))
}

func TestRequireRoles(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := RequireRoles(models.RoleManager, models.RoleAdmin)(next)

	req := httptest.NewRequest(http.MethodDelete, "/api/customers/c1", nil)
	req = req.WithContext(context.WithValue(req.Context(), CtxUser, &models.User{ID: "u1", Role: models.RoleUser}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/customers/c1", nil)
	req = req.WithContext(context.WithValue(req.Context(), CtxUser, &models.User{ID: "m1", Role: models.RoleManager}))
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
