package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	membershipdomain "orghub/backend/internal/membership/domain"
	orgdomain "orghub/backend/internal/organization/domain"
	"orghub/backend/internal/platform/apperr"
	"orghub/backend/internal/platform/authz"
	"orghub/backend/internal/todo/domain"
)

type memTodoRepo struct {
	todos map[string]*domain.Todo
}

func (r *memTodoRepo) GetByIDInOrg(ctx context.Context, orgID, id string) (*domain.Todo, error) {
	t, ok := r.todos[id]
	if !ok || t.OrgID != orgID {
		return nil, nil
	}
	return t, nil
}

func (r *memTodoRepo) ListByOrg(ctx context.Context, orgID string) ([]*domain.Todo, error) {
	var out []*domain.Todo
	for _, t := range r.todos {
		if t.OrgID == orgID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *memTodoRepo) Create(ctx context.Context, t *domain.Todo) error {
	r.todos[t.ID] = t
	return nil
}

func (r *memTodoRepo) Update(ctx context.Context, t *domain.Todo) error {
	if cur, ok := r.todos[t.ID]; ok && cur.OrgID == t.OrgID {
		r.todos[t.ID] = t
	}
	return nil
}

func (r *memTodoRepo) DeleteInOrg(ctx context.Context, orgID, id string) error {
	if t, ok := r.todos[id]; ok && t.OrgID == orgID {
		delete(r.todos, id)
	}
	return nil
}

type memMembershipRepo struct {
	byUserOrg map[string]*membershipdomain.Membership
}

func (r *memMembershipRepo) GetByUserAndOrg(ctx context.Context, userID, orgID string) (*membershipdomain.Membership, error) {
	return r.byUserOrg[userID+"/"+orgID], nil
}

type memOrgRepo struct {
	orgs map[string]*orgdomain.Org
}

func (r *memOrgRepo) GetByID(ctx context.Context, id string) (*orgdomain.Org, error) {
	return r.orgs[id], nil
}

type fixture struct {
	svc         *Service
	todos       *memTodoRepo
	memberships *memMembershipRepo
	orgs        *memOrgRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	todos := &memTodoRepo{todos: map[string]*domain.Todo{}}
	memberships := &memMembershipRepo{byUserOrg: map[string]*membershipdomain.Membership{}}
	orgs := &memOrgRepo{orgs: map[string]*orgdomain.Org{}}
	engine, err := authz.NewRegoEngine()
	if err != nil {
		t.Fatalf("NewRegoEngine: %v", err)
	}
	return &fixture{
		svc:         NewService(todos, memberships, orgs, engine),
		todos:       todos,
		memberships: memberships,
		orgs:        orgs,
	}
}

func (f *fixture) addOrg(name string) string {
	id := uuid.New().String()
	f.orgs.orgs[id] = &orgdomain.Org{ID: id, Name: name, CreatedAt: time.Now().UTC()}
	return id
}

func (f *fixture) addMember(userID, orgID string, role membershipdomain.Role) {
	f.memberships.byUserOrg[userID+"/"+orgID] = &membershipdomain.Membership{
		ID: uuid.New().String(), UserID: userID, OrgID: orgID, Role: role, JoinedAt: time.Now().UTC(),
	}
}

func (f *fixture) addTodo(orgID, createdBy, title string) *domain.Todo {
	now := time.Now().UTC()
	t := &domain.Todo{
		ID: uuid.New().String(), OrgID: orgID, CreatedBy: createdBy,
		Title: title, CreatedAt: now, UpdatedAt: now,
	}
	f.todos.todos[t.ID] = t
	return t
}

func strp(s string) *string { return &s }
func boolp(b bool) *bool    { return &b }

func TestCreate_RequiresTitle(t *testing.T) {
	f := newFixture(t)
	org := f.addOrg("Acme")
	f.addMember("alice", org, membershipdomain.RoleMember)

	if _, err := f.svc.Create(context.Background(), org, "", "body", "alice"); !apperr.IsValidation(err) {
		t.Errorf("blank title: want ValidationError, got %v", err)
	}
}

func TestUpdate_ToggleCompletionOnly(t *testing.T) {
	f := newFixture(t)
	org := f.addOrg("Acme")
	f.addMember("alice", org, membershipdomain.RoleMember)
	todo := f.addTodo(org, "alice", "ship release")

	updated, err := f.svc.Update(context.Background(), org, todo.ID, Patch{Completed: boolp(true)}, "alice")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !updated.Completed {
		t.Error("todo should be completed")
	}
	if updated.Title != "ship release" {
		t.Errorf("title = %q, want unchanged", updated.Title)
	}
}

func TestUpdate_NonCreatorMemberAllowed(t *testing.T) {
	f := newFixture(t)
	org := f.addOrg("Acme")
	f.addMember("alice", org, membershipdomain.RoleMember)
	f.addMember("bob", org, membershipdomain.RoleMember)
	todo := f.addTodo(org, "alice", "triage bugs")

	updated, err := f.svc.Update(context.Background(), org, todo.ID,
		Patch{Title: strp("triage and assign bugs")}, "bob")
	if err != nil {
		t.Fatalf("Update by non-creator member: %v", err)
	}
	if updated.Title != "triage and assign bugs" {
		t.Errorf("title = %q, want rewritten", updated.Title)
	}
}

func TestUpdate_BlankTitlePatchRejected(t *testing.T) {
	f := newFixture(t)
	org := f.addOrg("Acme")
	f.addMember("alice", org, membershipdomain.RoleMember)
	todo := f.addTodo(org, "alice", "keep me")

	if _, err := f.svc.Update(context.Background(), org, todo.ID, Patch{Title: strp("  ")}, "alice"); !apperr.IsValidation(err) {
		t.Errorf("blank title patch: want ValidationError, got %v", err)
	}
}

func TestDelete_CreatorMayDelete(t *testing.T) {
	f := newFixture(t)
	org := f.addOrg("Acme")
	f.addMember("alice", org, membershipdomain.RoleAdmin)
	f.addMember("bob", org, membershipdomain.RoleMember)
	f.addMember("carol", org, membershipdomain.RoleMember)
	todo := f.addTodo(org, "bob", "bob's task")

	// A member who is not the creator cannot delete.
	if err := f.svc.Delete(context.Background(), org, todo.ID, "carol"); !apperr.IsForbidden(err) {
		t.Fatalf("non-creator member delete: want Forbidden, got %v", err)
	}
	// The creator can, without being an admin.
	if err := f.svc.Delete(context.Background(), org, todo.ID, "bob"); err != nil {
		t.Fatalf("creator delete: %v", err)
	}

	other := f.addTodo(org, "bob", "another task")
	if err := f.svc.Delete(context.Background(), org, other.ID, "alice"); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
}

func TestGet_CrossOrgReportsNotFound(t *testing.T) {
	f := newFixture(t)
	orgA := f.addOrg("Acme")
	orgB := f.addOrg("Globex")
	f.addMember("alice", orgA, membershipdomain.RoleAdmin)
	f.addMember("bob", orgB, membershipdomain.RoleAdmin)
	todo := f.addTodo(orgB, "bob", "internal")

	_, err := f.svc.Get(context.Background(), orgA, todo.ID, "alice")
	if !apperr.IsNotFound(err) {
		t.Errorf("cross-org get: want NotFound, got %v", err)
	}
}

func TestList_OutsiderReportsNotFound(t *testing.T) {
	f := newFixture(t)
	org := f.addOrg("Acme")
	f.addMember("alice", org, membershipdomain.RoleAdmin)

	// A non-member listing an org's todos learns nothing: the org is
	// reported missing, never forbidden.
	_, err := f.svc.List(context.Background(), org, "mallory")
	if !apperr.IsNotFound(err) {
		t.Errorf("outsider list: want NotFound, got %v", err)
	}
	if apperr.IsForbidden(err) {
		t.Error("outsider list must not reveal the org via Forbidden")
	}
}

func TestDelete_OutsiderReportsNotFound(t *testing.T) {
	f := newFixture(t)
	org := f.addOrg("Acme")
	f.addMember("alice", org, membershipdomain.RoleAdmin)
	todo := f.addTodo(org, "alice", "internal")

	if err := f.svc.Delete(context.Background(), org, todo.ID, "mallory"); !apperr.IsNotFound(err) {
		t.Errorf("outsider delete: want NotFound, got %v", err)
	}
}
