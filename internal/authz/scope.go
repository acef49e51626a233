// Package authz holds the single ownership-scoping policy applied to every
// record listing: who created the records a caller is allowed to see.
package authz

import (
	"context"

	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/models"
)

// Predicate is the visibility restriction on a collection read.
type Predicate struct {
	All        bool     // unrestricted (admin)
	None       bool     // always empty (safe default, not an error)
	CreatorIDs []string // createdBy must be one of these
}

// DepartmentUsers resolves the members of a department.
type DepartmentUsers interface {
	IDsByDepartment(ctx context.Context, departmentID string) ([]string, error)
}

// ScopeFilter computes the visibility predicate for actor. An admin sees
// everything, or narrows to one department via the admin-only department
// query parameter. A non-admin sees records created within their own
// department; a non-admin without a department sees nothing.
func ScopeFilter(ctx context.Context, actor *models.User, departmentParam string, users DepartmentUsers) (Predicate, error) {
	if actor.Role == models.RoleAdmin {
		if departmentParam == "" {
			return Predicate{All: true}, nil
		}
		ids, err := users.IDsByDepartment(ctx, departmentParam)
		if err != nil {
			return Predicate{}, err
		}
		if len(ids) == 0 {
			return Predicate{None: true}, nil
		}
		return Predicate{CreatorIDs: ids}, nil
	}

	if actor.DepartmentID == nil || *actor.DepartmentID == "" {
		return Predicate{None: true}, nil
	}
	ids, err := users.IDsByDepartment(ctx, *actor.DepartmentID)
	if err != nil {
		return Predicate{}, err
	}
	if len(ids) == 0 {
		return Predicate{None: true}, nil
	}
	return Predicate{CreatorIDs: ids}, nil
}
