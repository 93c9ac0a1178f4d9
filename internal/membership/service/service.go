// Package service implements the membership lifecycle: organization creation,
// invites, role changes, and removals. It is the only writer of membership
// rows, so the uniqueness and last-admin invariants are enforced at this single
// choke point, inside the same transaction as the corresponding write.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	membershipdomain "orghub/backend/internal/membership/domain"
	orgdomain "orghub/backend/internal/organization/domain"
	"orghub/backend/internal/platform/apperr"
	"orghub/backend/internal/platform/authz"
	"orghub/backend/internal/security"
	userdomain "orghub/backend/internal/user/domain"
)

// UserRepo is the minimal user repository needed by the lifecycle service.
type UserRepo interface {
	GetByID(ctx context.Context, id string) (*userdomain.User, error)
	GetByUsername(ctx context.Context, username string) (*userdomain.User, error)
	GetByEmail(ctx context.Context, email string) (*userdomain.User, error)
	Create(ctx context.Context, u *userdomain.User) error
	SetActive(ctx context.Context, id string, active bool) error
}

// OrgRepo is the minimal organization repository needed by the lifecycle service.
type OrgRepo interface {
	GetByID(ctx context.Context, id string) (*orgdomain.Org, error)
	GetByName(ctx context.Context, name string) (*orgdomain.Org, error)
	Create(ctx context.Context, o *orgdomain.Org) error
	UpdateName(ctx context.Context, id, name string) error
	Delete(ctx context.Context, id string) error
}

// MembershipRepo is the minimal membership repository needed by the lifecycle service.
type MembershipRepo interface {
	GetByUserAndOrg(ctx context.Context, userID, orgID string) (*membershipdomain.Membership, error)
	ListMembersByOrg(ctx context.Context, orgID string) ([]*membershipdomain.Member, error)
	ListOrgsByUser(ctx context.Context, userID string) ([]*membershipdomain.OrgRole, error)
	Create(ctx context.Context, m *membershipdomain.Membership) error
	DeleteByUserAndOrg(ctx context.Context, userID, orgID string) error
	UpdateRole(ctx context.Context, userID, orgID string, role membershipdomain.Role) (*membershipdomain.Membership, error)
	CountAdminsByOrg(ctx context.Context, orgID string) (int64, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
}

// Repos bundles the stores as seen by one unit of work. The same bundle is
// used for plain reads (over the pool) and inside Tx.Run (over a transaction).
type Repos struct {
	Users       UserRepo
	Orgs        OrgRepo
	Memberships MembershipRepo
}

// Tx runs fn with a transactional view of the stores: every read fn performs
// sees the state its writes will commit against. Check-and-act sequences
// (name uniqueness, membership uniqueness, admin counting) must go through it.
type Tx interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}

// Service orchestrates membership lifecycle operations.
type Service struct {
	repos  Repos
	tx     Tx
	engine authz.Engine
	hasher *security.Hasher
}

// NewService returns a Service with the given dependencies.
func NewService(repos Repos, tx Tx, engine authz.Engine, hasher *security.Hasher) *Service {
	return &Service{repos: repos, tx: tx, engine: engine, hasher: hasher}
}

// requireOrg returns the org or a NotFound error.
func (s *Service) requireOrg(ctx context.Context, orgID string) (*orgdomain.Org, error) {
	org, err := s.repos.Orgs.GetByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, apperr.NotFound("organization")
	}
	return org, nil
}

// authorize resolves the caller's membership for the org and asks the engine.
func (s *Service) authorize(ctx context.Context, orgID, callerID string, action authz.Action) error {
	m, err := s.repos.Memberships.GetByUserAndOrg(ctx, callerID, orgID)
	if err != nil {
		return err
	}
	return s.engine.Decide(ctx, authz.Input{
		Membership:  m,
		Action:      action,
		PrincipalID: callerID,
	})
}

// CreateOrganization creates the organization and grants the creator an ADMIN
// membership in the same transaction. Fails with Conflict when the name is taken.
func (s *Service) CreateOrganization(ctx context.Context, name, creatorID string) (*orgdomain.Org, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("organization name is required")
	}
	now := time.Now().UTC()
	org := &orgdomain.Org{ID: uuid.New().String(), Name: name, CreatedAt: now}
	if err := org.Validate(); err != nil {
		return nil, apperr.Validation(err.Error())
	}

	err := s.tx.Run(ctx, func(r Repos) error {
		existing, err := r.Orgs.GetByName(ctx, name)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperr.Conflict("organization name already taken")
		}
		if err := r.Orgs.Create(ctx, org); err != nil {
			return err
		}
		return r.Memberships.Create(ctx, &membershipdomain.Membership{
			ID:       uuid.New().String(),
			UserID:   creatorID,
			OrgID:    org.ID,
			Role:     membershipdomain.RoleAdmin,
			JoinedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	return org, nil
}

// MyOrganizations returns the principal's organizations with their role in each.
func (s *Service) MyOrganizations(ctx context.Context, principalID string) ([]*membershipdomain.OrgRole, error) {
	return s.repos.Memberships.ListOrgsByUser(ctx, principalID)
}

// OrgDetail is an organization with the caller's role and the member list.
type OrgDetail struct {
	Org        *orgdomain.Org
	CallerRole membershipdomain.Role
	Members    []*membershipdomain.Member
}

// GetOrganization returns the org with members for a caller holding any membership.
func (s *Service) GetOrganization(ctx context.Context, orgID, callerID string) (*OrgDetail, error) {
	org, err := s.requireOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}
	m, err := s.repos.Memberships.GetByUserAndOrg(ctx, callerID, orgID)
	if err != nil {
		return nil, err
	}
	if err := s.engine.Decide(ctx, authz.Input{
		Membership: m, Action: authz.ActionViewOrgResource, PrincipalID: callerID,
	}); err != nil {
		return nil, err
	}
	members, err := s.repos.Memberships.ListMembersByOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return &OrgDetail{Org: org, CallerRole: m.Role, Members: members}, nil
}

// UpdateOrganization renames the organization. Admin only.
func (s *Service) UpdateOrganization(ctx context.Context, orgID, name, callerID string) (*orgdomain.Org, error) {
	org, err := s.requireOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, orgID, callerID, authz.ActionUpdateOrgDetails); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("organization name is required")
	}

	err = s.tx.Run(ctx, func(r Repos) error {
		existing, err := r.Orgs.GetByName(ctx, name)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != orgID {
			return apperr.Conflict("organization name already taken")
		}
		return r.Orgs.UpdateName(ctx, orgID, name)
	})
	if err != nil {
		return nil, err
	}
	org.Name = name
	return org, nil
}

// Invite identifies the user to invite or add and the role to grant.
type Invite struct {
	Username string
	Email    string
	Role     membershipdomain.Role
}

// InviteResult is the outcome of InviteOrAdd. TempPassword is set only when a
// new user was created; it is the single time the plaintext is available.
type InviteResult struct {
	User         *userdomain.User
	Membership   *membershipdomain.Membership
	TempPassword string
}

// InviteOrAdd grants a membership in the org to an existing user matched by
// email or username, or creates a new user with a generated temporary
// credential. Admin only. Fails with Conflict when the target is already a member.
func (s *Service) InviteOrAdd(ctx context.Context, orgID string, invite Invite, callerID string) (*InviteResult, error) {
	if _, err := s.requireOrg(ctx, orgID); err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, orgID, callerID, authz.ActionInviteMember); err != nil {
		return nil, err
	}

	invite.Username = strings.TrimSpace(invite.Username)
	invite.Email = userdomain.NormalizeEmail(invite.Email)
	role, err := membershipdomain.ParseRole(string(invite.Role))
	if err != nil {
		return nil, apperr.Validation(err.Error())
	}
	candidate := &userdomain.User{Username: invite.Username, Email: invite.Email}
	if err := candidate.Validate(); err != nil {
		return nil, apperr.Validation(err.Error())
	}

	var result InviteResult
	err = s.tx.Run(ctx, func(r Repos) error {
		now := time.Now().UTC()
		byUsername, err := r.Users.GetByUsername(ctx, invite.Username)
		if err != nil {
			return err
		}
		byEmail, err := r.Users.GetByEmail(ctx, invite.Email)
		if err != nil {
			return err
		}
		// Username and email each resolving to a different account is
		// ambiguous; picking either one would bind the invite to the wrong
		// person.
		if byUsername != nil && byEmail != nil && byUsername.ID != byEmail.ID {
			return apperr.Conflict("username and email belong to different users")
		}
		existing := byUsername
		if existing == nil {
			existing = byEmail
		}
		if existing != nil {
			m, err := r.Memberships.GetByUserAndOrg(ctx, existing.ID, orgID)
			if err != nil {
				return err
			}
			if m != nil {
				return apperr.Conflict("user is already a member of this organization")
			}
			membership := &membershipdomain.Membership{
				ID: uuid.New().String(), UserID: existing.ID, OrgID: orgID, Role: role, JoinedAt: now,
			}
			if err := r.Memberships.Create(ctx, membership); err != nil {
				return err
			}
			if !existing.IsActive {
				if err := r.Users.SetActive(ctx, existing.ID, true); err != nil {
					return err
				}
				existing.IsActive = true
			}
			result = InviteResult{User: existing, Membership: membership}
			return nil
		}

		temp, err := security.GenerateTempPassword(security.TempPasswordLength)
		if err != nil {
			return err
		}
		digest, err := s.hasher.Hash(temp)
		if err != nil {
			return err
		}
		user := &userdomain.User{
			ID:           uuid.New().String(),
			Username:     invite.Username,
			Email:        invite.Email,
			PasswordHash: digest,
			IsActive:     true,
			CreatedAt:    now,
		}
		if err := r.Users.Create(ctx, user); err != nil {
			return err
		}
		membership := &membershipdomain.Membership{
			ID: uuid.New().String(), UserID: user.ID, OrgID: orgID, Role: role, JoinedAt: now,
		}
		if err := r.Memberships.Create(ctx, membership); err != nil {
			return err
		}
		result = InviteResult{User: user, Membership: membership, TempPassword: temp}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ChangeRole sets the target member's role. Admin only. Demoting the last
// active admin fails with Conflict; the admin count is re-read inside the
// transaction so concurrent demotions cannot both pass.
func (s *Service) ChangeRole(ctx context.Context, orgID, targetUserID string, newRole membershipdomain.Role, callerID string) (*membershipdomain.Membership, error) {
	if _, err := s.requireOrg(ctx, orgID); err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, orgID, callerID, authz.ActionChangeMemberRole); err != nil {
		return nil, err
	}
	role, err := membershipdomain.ParseRole(string(newRole))
	if err != nil {
		return nil, apperr.Validation(err.Error())
	}

	var updated *membershipdomain.Membership
	err = s.tx.Run(ctx, func(r Repos) error {
		target, err := r.Memberships.GetByUserAndOrg(ctx, targetUserID, orgID)
		if err != nil {
			return err
		}
		if target == nil {
			return apperr.NotFound("membership")
		}
		if target.Role == membershipdomain.RoleAdmin && role != membershipdomain.RoleAdmin {
			admins, err := r.Memberships.CountAdminsByOrg(ctx, orgID)
			if err != nil {
				return err
			}
			if admins <= 1 {
				return apperr.Conflict("last admin: organization must keep at least one admin")
			}
		}
		updated, err = r.Memberships.UpdateRole(ctx, targetUserID, orgID, role)
		if err != nil {
			return err
		}
		if updated == nil {
			return apperr.NotFound("membership")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// RemoveMember deletes the target's membership. Admin only. Removing the last
// active admin fails with Conflict. A user left with zero memberships across
// all organizations is deactivated. Returns the removed user's snapshot.
func (s *Service) RemoveMember(ctx context.Context, orgID, targetUserID, callerID string) (*userdomain.User, error) {
	if _, err := s.requireOrg(ctx, orgID); err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, orgID, callerID, authz.ActionRemoveMember); err != nil {
		return nil, err
	}

	var removed *userdomain.User
	err := s.tx.Run(ctx, func(r Repos) error {
		target, err := r.Memberships.GetByUserAndOrg(ctx, targetUserID, orgID)
		if err != nil {
			return err
		}
		if target == nil {
			return apperr.NotFound("membership")
		}
		if target.Role == membershipdomain.RoleAdmin {
			admins, err := r.Memberships.CountAdminsByOrg(ctx, orgID)
			if err != nil {
				return err
			}
			if admins <= 1 {
				return apperr.Conflict("last admin: organization must keep at least one admin")
			}
		}
		if err := r.Memberships.DeleteByUserAndOrg(ctx, targetUserID, orgID); err != nil {
			return err
		}
		remaining, err := r.Memberships.CountByUser(ctx, targetUserID)
		if err != nil {
			return err
		}
		user, err := r.Users.GetByID(ctx, targetUserID)
		if err != nil {
			return err
		}
		if user == nil {
			return apperr.NotFound("user")
		}
		if remaining == 0 {
			if err := r.Users.SetActive(ctx, targetUserID, false); err != nil {
				return err
			}
			user.IsActive = false
		}
		removed = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

// DeleteOrganization deletes the org; memberships and org-scoped resources
// cascade with it. Admin only.
func (s *Service) DeleteOrganization(ctx context.Context, orgID, callerID string) (*orgdomain.Org, error) {
	org, err := s.requireOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, orgID, callerID, authz.ActionDeleteOrg); err != nil {
		return nil, err
	}
	err = s.tx.Run(ctx, func(r Repos) error {
		return r.Orgs.Delete(ctx, orgID)
	})
	if err != nil {
		return nil, err
	}
	return org, nil
}

// ListMembers returns the org's members for a caller holding any membership.
func (s *Service) ListMembers(ctx context.Context, orgID, callerID string) ([]*membershipdomain.Member, error) {
	if _, err := s.requireOrg(ctx, orgID); err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, orgID, callerID, authz.ActionViewOrgResource); err != nil {
		return nil, err
	}
	return s.repos.Memberships.ListMembersByOrg(ctx, orgID)
}
