package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	membershipdomain "orghub/backend/internal/membership/domain"
	"orghub/backend/internal/note/domain"
	orgdomain "orghub/backend/internal/organization/domain"
	"orghub/backend/internal/platform/apperr"
	"orghub/backend/internal/platform/authz"
)

type memNoteRepo struct {
	notes map[string]*domain.Note
}

func (r *memNoteRepo) GetByIDInOrg(ctx context.Context, orgID, id string) (*domain.Note, error) {
	n, ok := r.notes[id]
	if !ok || n.OrgID != orgID {
		return nil, nil
	}
	return n, nil
}

func (r *memNoteRepo) ListByOrg(ctx context.Context, orgID string) ([]*domain.Note, error) {
	var out []*domain.Note
	for _, n := range r.notes {
		if n.OrgID == orgID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *memNoteRepo) Create(ctx context.Context, n *domain.Note) error {
	r.notes[n.ID] = n
	return nil
}

func (r *memNoteRepo) Update(ctx context.Context, n *domain.Note) error {
	if cur, ok := r.notes[n.ID]; ok && cur.OrgID == n.OrgID {
		r.notes[n.ID] = n
	}
	return nil
}

func (r *memNoteRepo) DeleteInOrg(ctx context.Context, orgID, id string) error {
	if n, ok := r.notes[id]; ok && n.OrgID == orgID {
		delete(r.notes, id)
	}
	return nil
}

type memMembershipRepo struct {
	byUserOrg map[string]*membershipdomain.Membership // key userID + "/" + orgID
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
	notes       *memNoteRepo
	memberships *memMembershipRepo
	orgs        *memOrgRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	notes := &memNoteRepo{notes: map[string]*domain.Note{}}
	memberships := &memMembershipRepo{byUserOrg: map[string]*membershipdomain.Membership{}}
	orgs := &memOrgRepo{orgs: map[string]*orgdomain.Org{}}
	engine, err := authz.NewRegoEngine()
	if err != nil {
		t.Fatalf("NewRegoEngine: %v", err)
	}
	return &fixture{
		svc:         NewService(notes, memberships, orgs, engine),
		notes:       notes,
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

func (f *fixture) addNote(orgID, createdBy, title string) *domain.Note {
	now := time.Now().UTC()
	n := &domain.Note{
		ID: uuid.New().String(), OrgID: orgID, CreatedBy: createdBy,
		Title: title, Body: "body", CreatedAt: now, UpdatedAt: now,
	}
	f.notes.notes[n.ID] = n
	return n
}

func TestCreate_RequiresTitle(t *testing.T) {
	f := newFixture(t)
	org := f.addOrg("Acme")
	f.addMember("alice", org, membershipdomain.RoleMember)

	if _, err := f.svc.Create(context.Background(), org, "   ", "body", "alice"); !apperr.IsValidation(err) {
		t.Errorf("blank title: want ValidationError, got %v", err)
	}
}

func TestCreate_MemberAllowed(t *testing.T) {
	f := newFixture(t)
	org := f.addOrg("Acme")
	f.addMember("alice", org, membershipdomain.RoleMember)

	n, err := f.svc.Create(context.Background(), org, "standup", "notes from standup", "alice")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if n.CreatedBy != "alice" || n.OrgID != org {
		t.Errorf("note = %+v, want created by alice in %s", n, org)
	}
}

func TestGet_CrossOrgReportsNotFound(t *testing.T) {
	f := newFixture(t)
	orgA := f.addOrg("Acme")
	orgB := f.addOrg("Globex")
	f.addMember("alice", orgA, membershipdomain.RoleAdmin)
	f.addMember("bob", orgB, membershipdomain.RoleAdmin)
	n := f.addNote(orgB, "bob", "secret")

	// Alice asks within her own org for a note that lives in another org.
	// The answer must be indistinguishable from a nonexistent ID.
	_, err := f.svc.Get(context.Background(), orgA, n.ID, "alice")
	if !apperr.IsNotFound(err) {
		t.Errorf("cross-org get: want NotFound, got %v", err)
	}
	if apperr.IsForbidden(err) {
		t.Error("cross-org get must not reveal existence via Forbidden")
	}
}

func TestGet_OutsiderReportsNotFound(t *testing.T) {
	f := newFixture(t)
	orgA := f.addOrg("Acme")
	orgB := f.addOrg("Globex")
	f.addMember("alice", orgA, membershipdomain.RoleAdmin)
	f.addMember("bob", orgB, membershipdomain.RoleAdmin)
	n := f.addNote(orgB, "bob", "plan")

	// Alice addresses orgB directly. She is not a member there, and the
	// answer must not differ from asking about an org that does not exist.
	_, err := f.svc.Get(context.Background(), orgB, n.ID, "alice")
	if !apperr.IsNotFound(err) {
		t.Errorf("non-member get: want NotFound, got %v", err)
	}
	if apperr.IsForbidden(err) {
		t.Error("non-member get must not reveal the org via Forbidden")
	}
}

func TestUpdateDelete_OutsiderReportsNotFound(t *testing.T) {
	f := newFixture(t)
	org := f.addOrg("Acme")
	f.addMember("alice", org, membershipdomain.RoleAdmin)
	n := f.addNote(org, "alice", "plan")

	if _, err := f.svc.Update(context.Background(), org, n.ID, "t", "b", "mallory"); !apperr.IsNotFound(err) {
		t.Errorf("non-member update: want NotFound, got %v", err)
	}
	if err := f.svc.Delete(context.Background(), org, n.ID, "mallory"); !apperr.IsNotFound(err) {
		t.Errorf("non-member delete: want NotFound, got %v", err)
	}
	if got, _ := f.notes.GetByIDInOrg(context.Background(), org, n.ID); got == nil {
		t.Error("note must survive an outsider's delete attempt")
	}
}

func TestUpdate_AnyMemberMayEdit(t *testing.T) {
	f := newFixture(t)
	org := f.addOrg("Acme")
	f.addMember("alice", org, membershipdomain.RoleMember)
	f.addMember("bob", org, membershipdomain.RoleMember)
	n := f.addNote(org, "alice", "draft")

	updated, err := f.svc.Update(context.Background(), org, n.ID, "final", "reviewed", "bob")
	if err != nil {
		t.Fatalf("Update by non-creator member: %v", err)
	}
	if updated.Title != "final" || updated.Body != "reviewed" {
		t.Errorf("updated = %+v, want title/body rewritten", updated)
	}
}

func TestDelete_MemberForbiddenAdminAllowed(t *testing.T) {
	f := newFixture(t)
	org := f.addOrg("Acme")
	f.addMember("alice", org, membershipdomain.RoleAdmin)
	f.addMember("bob", org, membershipdomain.RoleMember)
	n := f.addNote(org, "bob", "scratch")

	// Even the creator cannot delete a note as a plain member.
	if err := f.svc.Delete(context.Background(), org, n.ID, "bob"); !apperr.IsForbidden(err) {
		t.Fatalf("member delete: want Forbidden, got %v", err)
	}
	if err := f.svc.Delete(context.Background(), org, n.ID, "alice"); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if got, _ := f.notes.GetByIDInOrg(context.Background(), org, n.ID); got != nil {
		t.Error("note should be gone after admin delete")
	}
}

func TestList_ScopedToOrg(t *testing.T) {
	f := newFixture(t)
	orgA := f.addOrg("Acme")
	orgB := f.addOrg("Globex")
	f.addMember("alice", orgA, membershipdomain.RoleMember)
	f.addMember("alice", orgB, membershipdomain.RoleMember)
	f.addNote(orgA, "alice", "a1")
	f.addNote(orgA, "alice", "a2")
	f.addNote(orgB, "alice", "b1")

	got, err := f.svc.List(context.Background(), orgA, "alice")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("len(notes) = %d, want 2", len(got))
	}
	for _, n := range got {
		if n.OrgID != orgA {
			t.Errorf("note %s leaked from org %s", n.ID, n.OrgID)
		}
	}
}

func TestUpdate_MissingOrgReportsNotFound(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.Update(context.Background(), uuid.New().String(), uuid.New().String(), "t", "b", "alice"); !apperr.IsNotFound(err) {
		t.Errorf("missing org: want NotFound, got %v", err)
	}
}
