package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/models"
	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/repository"
	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/utils"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService struct {
	users         repository.UserRepository
	sessionSecret string
	sessionTTL    time.Duration
}

func NewAuthService(users repository.UserRepository, sessionSecret string, sessionTTL time.Duration) *AuthService {
	return &AuthService{users: users, sessionSecret: sessionSecret, sessionTTL: sessionTTL}
}

// Register creates a self-registered technician account. Self-registration is
// only allowed for the base role; managers and admins come from the admin
// console.
func (a *AuthService) Register(ctx context.Context, name, email, password, departmentID string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &models.User{Name: name, Email: email, Role: models.RoleUser}
	if departmentID != "" {
		u.DepartmentID = &departmentID
	}
	if err := a.users.Create(ctx, u, hash); err != nil {
		return nil, err
	}
	return u, nil
}

func (a *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	u, hash, err := a.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", nil, err
	}
	if u == nil || !utils.CheckPassword(hash, password) {
		return "", nil, ErrInvalidCredentials
	}
	tok, err := utils.SignJWT(a.sessionSecret, u.ID, u.Role, a.sessionTTL)
	if err != nil {
		return "", nil, err
	}
	return tok, u, nil
}
