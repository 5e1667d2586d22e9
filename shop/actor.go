package shop

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// Role of an authenticated user.
type Role string

const (
	RoleCustomer      Role = "CUSTOMER"
	RoleManager       Role = "MANAGER"
	RoleAdministrator Role = "ADMINISTRATOR"
)

// ParseRole accepts a role name in any letter case.
func ParseRole(raw string) (Role, error) {
	role := Role(strings.ToUpper(strings.TrimSpace(raw)))

	switch role {
	case RoleCustomer, RoleManager, RoleAdministrator:
		return role, nil
	default:
		return "", NewBadRequestError("Unknown role: %s", raw)
	}
}

// IsStaff reports whether the role may act on any customer's orders.
func (r Role) IsStaff() bool {
	return r == RoleManager || r == RoleAdministrator
}

// Actor is the resolved identity behind a request.
type Actor struct {
	UserID uuid.UUID
	Role   Role
}

// IsStaff reports whether the actor is a manager or an administrator.
func (a Actor) IsStaff() bool {
	return a.Role.IsStaff()
}

// MayActOnBehalfOf is the single capability check of this module: the owner or staff.
func (a Actor) MayActOnBehalfOf(ownerID uuid.UUID) bool {
	return a.UserID == ownerID || a.IsStaff()
}

// IdentityResolver maps a user ID to an Actor. It fails with ErrNotFound for unknown users.
type IdentityResolver interface {
	ResolveActor(ctx context.Context, userID uuid.UUID) (Actor, error)
}
