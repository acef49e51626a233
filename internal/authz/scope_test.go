package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/models"
)

type fakeDeptUsers struct {
	byDept map[string][]string
}

func (f *fakeDeptUsers) IDsByDepartment(_ context.Context, departmentID string) ([]string, error) {
	return f.byDept[departmentID], nil
}

func dept(id string) *string { return &id }

func TestAdminSeesEverything(t *testing.T) {
	p, err := ScopeFilter(context.Background(), &models.User{Role: models.RoleAdmin}, "", &fakeDeptUsers{})
	require.NoError(t, err)
	assert.True(t, p.All)
}

func TestAdminNarrowsToDepartment(t *testing.T) {
	users := &fakeDeptUsers{byDept: map[string][]string{"d1": {"u1", "u2"}}}
	p, err := ScopeFilter(context.Background(), &models.User{Role: models.RoleAdmin}, "d1", users)
	require.NoError(t, err)
	assert.False(t, p.All)
	assert.Equal(t, []string{"u1", "u2"}, p.CreatorIDs)
}

func TestAdminFilterOnEmptyDepartmentMatchesNothing(t *testing.T) {
	p, err := ScopeFilter(context.Background(), &models.User{Role: models.RoleAdmin}, "ghost", &fakeDeptUsers{})
	require.NoError(t, err)
	assert.True(t, p.None)
}

func TestNonAdminScopedToOwnDepartment(t *testing.T) {
	users := &fakeDeptUsers{byDept: map[string][]string{"d1": {"u1", "u3"}}}
	actor := &models.User{ID: "u1", Role: models.RoleUser, DepartmentID: dept("d1")}
	p, err := ScopeFilter(context.Background(), actor, "", users)
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u3"}, p.CreatorIDs)
}

func TestNonAdminWithoutDepartmentSeesNothing(t *testing.T) {
	p, err := ScopeFilter(context.Background(), &models.User{Role: models.RoleManager}, "", &fakeDeptUsers{})
	require.NoError(t, err)
	assert.True(t, p.None)
	assert.False(t, p.All)
}
