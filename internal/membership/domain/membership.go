package domain

import (
	"fmt"
	"time"
)

// Membership links a user to an organization with exactly one role. It is the
// unit of authorization: every org-scoped decision starts from the caller's
// membership row for the target organization.
type Membership struct {
	ID       string
	UserID   string
	OrgID    string
	Role     Role
	JoinedAt time.Time
}

type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

// ParseRole returns the Role for s, defaulting to MEMBER when s is empty.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleMember, "":
		return RoleMember, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Member is a membership joined with the user's identity fields, as returned
// by member listings. It never carries the credential digest.
type Member struct {
	UserID   string
	Username string
	Email    string
	Role     Role
	IsActive bool
	JoinedAt time.Time
}

// OrgRole is an organization joined with the caller's role in it, as returned
// by per-user organization listings.
type OrgRole struct {
	OrgID     string
	OrgName   string
	Role      Role
	JoinedAt  time.Time
	CreatedAt time.Time
}
