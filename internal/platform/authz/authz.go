// Package authz is the authorization engine: pure decision logic over a
// caller-supplied membership snapshot. It never touches storage; the
// membership lifecycle service owns the transactional invariants (last-admin,
// uniqueness) that require reading current state.
package authz

import (
	"context"

	membershipdomain "orghub/backend/internal/membership/domain"
	"orghub/backend/internal/platform/apperr"
)

// Action is an operation a principal may attempt against an organization.
type Action string

const (
	ActionViewOrgResource   Action = "view_org_resource"
	ActionCreateOrgResource Action = "create_org_resource"
	ActionUpdateOrgResource Action = "update_org_resource"
	ActionDeleteOrgResource Action = "delete_org_resource"
	ActionUpdateOrgDetails  Action = "update_org_details"
	ActionInviteMember      Action = "invite_member"
	ActionChangeMemberRole  Action = "change_member_role"
	ActionRemoveMember      Action = "remove_member"
	ActionDeleteOrg         Action = "delete_org"
)

// Deny reasons. Not-member and role-insufficiency map to the same client
// status class but stay distinct for observability, and callers present
// cross-org resource access as absence rather than denial.
const (
	ReasonNotMember     = "not a member of this organization"
	ReasonAdminRequired = "organization admin required"
)

// ResourcePolicy tunes member-level permissions on org-scoped resources.
// Admins are unaffected: they may always update and delete.
type ResourcePolicy struct {
	// UpdateRequiresCreatorOrAdmin restricts updates to the resource creator
	// and admins. When false any member of the org may update.
	UpdateRequiresCreatorOrAdmin bool
	// CreatorMayDelete additionally allows the resource creator to delete.
	// When false deletion is admin-only.
	CreatorMayDelete bool
}

// Input is one authorization question: may this principal perform this action
// in the organization the membership belongs to.
type Input struct {
	// Membership is the principal's membership row in the target organization,
	// or nil when the principal is not a member.
	Membership *membershipdomain.Membership
	Action     Action
	// PrincipalID is the acting user. Must match Membership.UserID when
	// Membership is non-nil.
	PrincipalID string
	// ResourceOwnerID is the creator of the target resource, or empty when the
	// action has no single resource (listing, creation, org-level actions).
	ResourceOwnerID string
	Policy         ResourcePolicy
}

// Engine decides allow or deny for a single authorization input. A nil return
// is an allow; a deny is an apperr.Forbidden carrying the deny reason.
type Engine interface {
	Decide(ctx context.Context, in Input) error
}

// IsNotMember reports whether err is the engine's not-a-member denial.
// Resource operations translate it into absence so tenant existence never
// leaks to outsiders.
func IsNotMember(err error) bool {
	e := apperr.AsError(err)
	return e != nil && e.Kind == apperr.KindForbidden && e.Reason == ReasonNotMember
}
