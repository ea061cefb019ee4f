package model

import "github.com/google/uuid"

type UserRole string

const (
	UserRoleCitizen UserRole = "CITIZEN"
	UserRoleAdmin   UserRole = "ADMIN"
)

// Principal is the authenticated caller. The service never
// authenticates itself; it trusts the identity carried by the token.
type Principal struct {
	UserID        uuid.UUID
	Role          UserRole
	LicenseNumber string
}

func (p Principal) IsAdmin() bool {
	return p.Role == UserRoleAdmin
}

func (p Principal) IsCitizen() bool {
	return p.Role == UserRoleCitizen
}

// Owns reports whether the principal is the owner of a record keyed by
// ownerID. Admins are never owners implicitly; ownership checks and
// role checks stay separate.
func (p Principal) Owns(ownerID uuid.UUID) bool {
	return p.UserID == ownerID
}
