package service

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/listquery"
	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/models"
	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/utils"
)

type memUserRepo struct {
	users  map[string]*models.User // by email
	hashes map[string]string
	nextID int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*models.User{}, hashes: map[string]string{}}
}

func (m *memUserRepo) Create(_ context.Context, u *models.User, passwordHash string) error {
	m.nextID++
	u.ID = "u" + strconv.Itoa(m.nextID)
	m.users[u.Email] = u
	m.hashes[u.Email] = passwordHash
	return nil
}
func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*models.User, string, error) {
	return m.users[email], m.hashes[email], nil
}
func (m *memUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}
func (m *memUserRepo) List(context.Context, listquery.Options) ([]models.User, listquery.Pagination, error) {
	return nil, listquery.Pagination{}, nil
}
func (m *memUserRepo) Update(context.Context, *models.User, string) error { return nil }
func (m *memUserRepo) Delete(context.Context, string) (bool, error)       { return false, nil }
func (m *memUserRepo) IDsByDepartment(context.Context, string) ([]string, error) {
	return nil, nil
}

func TestRegisterForcesBaseRole(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	u, err := svc.Register(context.Background(), "  Dana Reed ", " Dana@Example.COM ", "hunter22", "d1")
	require.NoError(t, err)

	assert.Equal(t, models.RoleUser, u.Role)
	assert.Equal(t, "dana@example.com", u.Email)
	assert.Equal(t, "Dana Reed", u.Name)
	require.NotNil(t, u.DepartmentID)
	assert.Equal(t, "d1", *u.DepartmentID)
}

func TestRegisterStoresHashNotPassword(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	_, err := svc.Register(context.Background(), "Dana", "dana@example.com", "hunter22", "")
	require.NoError(t, err)

	hash := repo.hashes["dana@example.com"]
	assert.NotEqual(t, "hunter22", hash)
	assert.True(t, utils.CheckPassword(hash, "hunter22"))
}

func TestLoginIssuesToken(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour)
	_, err := svc.Register(context.Background(), "Dana", "dana@example.com", "hunter22", "")
	require.NoError(t, err)

	tok, u, err := svc.Login(context.Background(), "Dana@Example.com", "hunter22")
	require.NoError(t, err)
	require.NotNil(t, u)

	claims, err := utils.ParseJWT("secret", tok)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, models.RoleUser, claims.Role)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour)
	_, err := svc.Register(context.Background(), "Dana", "dana@example.com", "hunter22", "")
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "dana@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownUserIsIndistinguishable(t *testing.T) {
	svc := NewAuthService(newMemUserRepo(), "secret", time.Hour)
	_, _, err := svc.Login(context.Background(), "ghost@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
