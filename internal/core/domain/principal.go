package domain

import "time"

// PrincipalKind partitions the identity space. Admins and users live in
// separate storage partitions and may reuse the same email across kinds.
type PrincipalKind string

const (
	KindAdmin PrincipalKind = "admin"
	KindUser  PrincipalKind = "user"
)

// Role is the closed set of authorization roles. Authorization is a
// set-membership check against an operation's allowed roles; there is no
// implicit hierarchy between them.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleUser       Role = "user"
	RoleTester     Role = "tester"
)

// ParseRole maps a raw string onto the closed Role set.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleSuperAdmin, RoleAdmin, RoleUser, RoleTester:
		return Role(s), nil
	}
	return "", ErrUnknownRole
}

// Kind reports the storage partition a role's principals belong to.
func (r Role) Kind() PrincipalKind {
	if r == RoleSuperAdmin || r == RoleAdmin {
		return KindAdmin
	}
	return KindUser
}

// Principal models an authenticated actor: an admin or a user.
type Principal struct {
	ID             string        `json:"id"`
	Kind           PrincipalKind `json:"-"`
	Email          string        `json:"email"`
	FullName       string        `json:"full_name"`
	HashedPassword string        `json:"-"`
	Role           Role          `json:"role"`
	CreatedAt      time.Time     `json:"created_at"`
}
