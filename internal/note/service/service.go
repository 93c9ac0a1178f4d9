// Package service implements org-scoped note operations. Authorization runs
// before every operation, and a note outside the caller's org is reported as
// missing rather than forbidden so its existence is not leaked.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	membershipdomain "orghub/backend/internal/membership/domain"
	"orghub/backend/internal/note/domain"
	orgdomain "orghub/backend/internal/organization/domain"
	"orghub/backend/internal/platform/apperr"
	"orghub/backend/internal/platform/authz"
)

// NoteRepo is the note store as needed by this service.
type NoteRepo interface {
	GetByIDInOrg(ctx context.Context, orgID, id string) (*domain.Note, error)
	ListByOrg(ctx context.Context, orgID string) ([]*domain.Note, error)
	Create(ctx context.Context, n *domain.Note) error
	Update(ctx context.Context, n *domain.Note) error
	DeleteInOrg(ctx context.Context, orgID, id string) error
}

// MembershipRepo resolves the caller's membership for authorization.
type MembershipRepo interface {
	GetByUserAndOrg(ctx context.Context, userID, orgID string) (*membershipdomain.Membership, error)
}

// OrgRepo checks that the target org exists.
type OrgRepo interface {
	GetByID(ctx context.Context, id string) (*orgdomain.Org, error)
}

// Service orchestrates note CRUD inside one organization at a time.
type Service struct {
	notes       NoteRepo
	memberships MembershipRepo
	orgs        OrgRepo
	engine      authz.Engine
	policy      authz.ResourcePolicy
}

// NewService returns a note Service. Notes follow the default resource policy:
// any member may update, only an admin may delete.
func NewService(notes NoteRepo, memberships MembershipRepo, orgs OrgRepo, engine authz.Engine) *Service {
	return &Service{
		notes:       notes,
		memberships: memberships,
		orgs:        orgs,
		engine:      engine,
		policy:      authz.ResourcePolicy{},
	}
}

// member resolves the caller's membership after confirming the org exists.
// A caller without a membership is answered as if the org did not exist: the
// engine's not-a-member denial is translated into NotFound before any note is
// looked up, so outsiders cannot distinguish a real org from an absent one.
func (s *Service) member(ctx context.Context, orgID, callerID string, action authz.Action) (*membershipdomain.Membership, error) {
	org, err := s.orgs.GetByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, apperr.NotFound("organization")
	}
	m, err := s.memberships.GetByUserAndOrg(ctx, callerID, orgID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		err := s.engine.Decide(ctx, authz.Input{Action: action, PrincipalID: callerID, Policy: s.policy})
		if err != nil && !authz.IsNotMember(err) {
			return nil, err
		}
		return nil, apperr.NotFound("organization")
	}
	return m, nil
}

func (s *Service) authorize(ctx context.Context, orgID, callerID string, action authz.Action) error {
	m, err := s.member(ctx, orgID, callerID, action)
	if err != nil {
		return err
	}
	return s.engine.Decide(ctx, authz.Input{
		Membership:  m,
		Action:      action,
		PrincipalID: callerID,
		Policy:      s.policy,
	})
}

// requireNote loads the note inside orgID or reports NotFound. The org scope
// in the query is what collapses cross-org IDs into NotFound.
func (s *Service) requireNote(ctx context.Context, orgID, id string) (*domain.Note, error) {
	n, err := s.notes.GetByIDInOrg(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, apperr.NotFound("note")
	}
	return n, nil
}

// List returns the org's notes for any member.
func (s *Service) List(ctx context.Context, orgID, callerID string) ([]*domain.Note, error) {
	if err := s.authorize(ctx, orgID, callerID, authz.ActionViewOrgResource); err != nil {
		return nil, err
	}
	return s.notes.ListByOrg(ctx, orgID)
}

// Get returns one note for any member.
func (s *Service) Get(ctx context.Context, orgID, id, callerID string) (*domain.Note, error) {
	if err := s.authorize(ctx, orgID, callerID, authz.ActionViewOrgResource); err != nil {
		return nil, err
	}
	return s.requireNote(ctx, orgID, id)
}

// Create adds a note owned by the caller. Any member may create.
func (s *Service) Create(ctx context.Context, orgID, title, body, callerID string) (*domain.Note, error) {
	if err := s.authorize(ctx, orgID, callerID, authz.ActionCreateOrgResource); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	n := &domain.Note{
		ID:        uuid.New().String(),
		OrgID:     orgID,
		CreatedBy: callerID,
		Title:     strings.TrimSpace(title),
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := n.Validate(); err != nil {
		return nil, apperr.Validation(err.Error())
	}
	if err := s.notes.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// Update rewrites title and body. Any member may update, creator or not.
func (s *Service) Update(ctx context.Context, orgID, id, title, body, callerID string) (*domain.Note, error) {
	m, err := s.member(ctx, orgID, callerID, authz.ActionUpdateOrgResource)
	if err != nil {
		return nil, err
	}
	n, err := s.requireNote(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if err := s.engine.Decide(ctx, authz.Input{
		Membership:      m,
		Action:          authz.ActionUpdateOrgResource,
		PrincipalID:     callerID,
		ResourceOwnerID: n.CreatedBy,
		Policy:          s.policy,
	}); err != nil {
		return nil, err
	}
	n.Title = strings.TrimSpace(title)
	n.Body = body
	n.UpdatedAt = time.Now().UTC()
	if err := n.Validate(); err != nil {
		return nil, apperr.Validation(err.Error())
	}
	if err := s.notes.Update(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// Delete removes the note. Admin only under the note policy.
func (s *Service) Delete(ctx context.Context, orgID, id, callerID string) error {
	m, err := s.member(ctx, orgID, callerID, authz.ActionDeleteOrgResource)
	if err != nil {
		return err
	}
	n, err := s.requireNote(ctx, orgID, id)
	if err != nil {
		return err
	}
	if err := s.engine.Decide(ctx, authz.Input{
		Membership:      m,
		Action:          authz.ActionDeleteOrgResource,
		PrincipalID:     callerID,
		ResourceOwnerID: n.CreatedBy,
		Policy:          s.policy,
	}); err != nil {
		return err
	}
	return s.notes.DeleteInOrg(ctx, orgID, id)
}
