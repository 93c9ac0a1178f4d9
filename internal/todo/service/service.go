// Package service implements org-scoped todo operations. Todos follow the
// note rules with one difference: the creator may delete their own todo.
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
	"orghub/backend/internal/todo/domain"
)

// TodoRepo is the todo store as needed by this service.
type TodoRepo interface {
	GetByIDInOrg(ctx context.Context, orgID, id string) (*domain.Todo, error)
	ListByOrg(ctx context.Context, orgID string) ([]*domain.Todo, error)
	Create(ctx context.Context, t *domain.Todo) error
	Update(ctx context.Context, t *domain.Todo) error
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

// Service orchestrates todo CRUD inside one organization at a time.
type Service struct {
	todos       TodoRepo
	memberships MembershipRepo
	orgs        OrgRepo
	engine      authz.Engine
	policy      authz.ResourcePolicy
}

// NewService returns a todo Service. Any member may update; delete is open to
// the creator as well as admins.
func NewService(todos TodoRepo, memberships MembershipRepo, orgs OrgRepo, engine authz.Engine) *Service {
	return &Service{
		todos:       todos,
		memberships: memberships,
		orgs:        orgs,
		engine:      engine,
		policy:      authz.ResourcePolicy{CreatorMayDelete: true},
	}
}

// member resolves the caller's membership, reporting NotFound both for a
// missing org and for a caller who is not a member so tenant existence does
// not leak across org boundaries.
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

func (s *Service) requireTodo(ctx context.Context, orgID, id string) (*domain.Todo, error) {
	t, err := s.todos.GetByIDInOrg(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apperr.NotFound("todo")
	}
	return t, nil
}

// List returns the org's todos for any member.
func (s *Service) List(ctx context.Context, orgID, callerID string) ([]*domain.Todo, error) {
	if err := s.authorize(ctx, orgID, callerID, authz.ActionViewOrgResource); err != nil {
		return nil, err
	}
	return s.todos.ListByOrg(ctx, orgID)
}

// Get returns one todo for any member.
func (s *Service) Get(ctx context.Context, orgID, id, callerID string) (*domain.Todo, error) {
	if err := s.authorize(ctx, orgID, callerID, authz.ActionViewOrgResource); err != nil {
		return nil, err
	}
	return s.requireTodo(ctx, orgID, id)
}

// Create adds a todo owned by the caller. Any member may create.
func (s *Service) Create(ctx context.Context, orgID, title, body, callerID string) (*domain.Todo, error) {
	if err := s.authorize(ctx, orgID, callerID, authz.ActionCreateOrgResource); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	t := &domain.Todo{
		ID:        uuid.New().String(),
		OrgID:     orgID,
		CreatedBy: callerID,
		Title:     strings.TrimSpace(title),
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := t.Validate(); err != nil {
		return nil, apperr.Validation(err.Error())
	}
	if err := s.todos.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Patch carries the fields Update may change. Nil fields are left as they are,
// so completion can be toggled without resending title and body.
type Patch struct {
	Title     *string
	Body      *string
	Completed *bool
}

// Update applies the patch. Any member may update, creator or not.
func (s *Service) Update(ctx context.Context, orgID, id string, patch Patch, callerID string) (*domain.Todo, error) {
	m, err := s.member(ctx, orgID, callerID, authz.ActionUpdateOrgResource)
	if err != nil {
		return nil, err
	}
	t, err := s.requireTodo(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if err := s.engine.Decide(ctx, authz.Input{
		Membership:      m,
		Action:          authz.ActionUpdateOrgResource,
		PrincipalID:     callerID,
		ResourceOwnerID: t.CreatedBy,
		Policy:          s.policy,
	}); err != nil {
		return nil, err
	}
	if patch.Title != nil {
		t.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Body != nil {
		t.Body = *patch.Body
	}
	if patch.Completed != nil {
		t.Completed = *patch.Completed
	}
	t.UpdatedAt = time.Now().UTC()
	if err := t.Validate(); err != nil {
		return nil, apperr.Validation(err.Error())
	}
	if err := s.todos.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Delete removes the todo. Allowed for admins and for the todo's creator.
func (s *Service) Delete(ctx context.Context, orgID, id, callerID string) error {
	m, err := s.member(ctx, orgID, callerID, authz.ActionDeleteOrgResource)
	if err != nil {
		return err
	}
	t, err := s.requireTodo(ctx, orgID, id)
	if err != nil {
		return err
	}
	if err := s.engine.Decide(ctx, authz.Input{
		Membership:      m,
		Action:          authz.ActionDeleteOrgResource,
		PrincipalID:     callerID,
		ResourceOwnerID: t.CreatedBy,
		Policy:          s.policy,
	}); err != nil {
		return err
	}
	return s.todos.DeleteInOrg(ctx, orgID, id)
}
