package service

import (
	"context"
	"errors"
	"testing"

	membershipdomain "orghub/backend/internal/membership/domain"
	"orghub/backend/internal/platform/apperr"
	"orghub/backend/internal/security"
	userdomain "orghub/backend/internal/user/domain"
)

type memUserRepo struct {
	users map[string]*userdomain.User
	// createErr, when set, is returned by Create to simulate insert failures.
	createErr error
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*userdomain.User, error) {
	return r.users[id], nil
}

func (r *memUserRepo) GetByUsername(ctx context.Context, username string) (*userdomain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*userdomain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) Create(ctx context.Context, u *userdomain.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.users[u.ID] = u
	return nil
}

type memMembershipRepo struct {
	orgsByUser map[string][]*membershipdomain.OrgRole
}

func (r *memMembershipRepo) ListOrgsByUser(ctx context.Context, userID string) ([]*membershipdomain.OrgRole, error) {
	return r.orgsByUser[userID], nil
}

func newTestService(t *testing.T) (*Service, *memUserRepo, *memMembershipRepo) {
	t.Helper()
	users := &memUserRepo{users: map[string]*userdomain.User{}}
	memberships := &memMembershipRepo{orgsByUser: map[string][]*membershipdomain.OrgRole{}}
	tokens, err := security.NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	svc := NewService(users, memberships, security.NewHasher(4), tokens)
	return svc, users, memberships
}

func TestSignupAndLogin(t *testing.T) {
	svc, _, _ := newTestService(t)

	user, err := svc.Signup(context.Background(), "alice", "alice@example.com", "correct horse")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if !user.IsActive {
		t.Error("new user should be active")
	}
	if user.PasswordHash == "correct horse" {
		t.Error("plaintext stored as credential")
	}

	sess, err := svc.Login(context.Background(), "alice", "correct horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if sess.Token == "" {
		t.Error("login should issue a token")
	}
}

func TestSignup_DuplicateUsernameOrEmail(t *testing.T) {
	svc, _, _ := newTestService(t)
	if _, err := svc.Signup(context.Background(), "alice", "alice@example.com", "password1"); err != nil {
		t.Fatalf("Signup: %v", err)
	}

	if _, err := svc.Signup(context.Background(), "alice", "other@example.com", "password1"); !apperr.IsConflict(err) {
		t.Errorf("duplicate username: want Conflict, got %v", err)
	}
	if _, err := svc.Signup(context.Background(), "bob", "alice@example.com", "password1"); !apperr.IsConflict(err) {
		t.Errorf("duplicate email: want Conflict, got %v", err)
	}
}

func TestSignup_InsertConflictSurfacesAsConflict(t *testing.T) {
	// A concurrent signup can slip between the duplicate lookup and the
	// insert; the store's unique constraint then rejects the insert and the
	// repository reports Conflict. The service must pass that through rather
	// than let it surface as an internal error.
	svc, users, _ := newTestService(t)
	users.createErr = apperr.Conflict("username or email already in use")

	if _, err := svc.Signup(context.Background(), "alice", "alice@example.com", "password1"); !apperr.IsConflict(err) {
		t.Errorf("lost duplicate race: want Conflict, got %v", err)
	}
}

func TestSignup_Validation(t *testing.T) {
	svc, _, _ := newTestService(t)
	cases := []struct {
		name               string
		username, email, p string
	}{
		{"missing username", "", "a@example.com", "password1"},
		{"bad email", "alice", "not-an-email", "password1"},
		{"short password", "alice", "a@example.com", "short"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Signup(context.Background(), tc.username, tc.email, tc.p); !apperr.IsValidation(err) {
				t.Errorf("want ValidationError, got %v", err)
			}
		})
	}
}

func TestLogin_Failures(t *testing.T) {
	svc, users, _ := newTestService(t)
	if _, err := svc.Signup(context.Background(), "alice", "alice@example.com", "password1"); err != nil {
		t.Fatalf("Signup: %v", err)
	}

	if _, err := svc.Login(context.Background(), "alice", "wrong password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: want ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "nobody", "password1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown username: want ErrInvalidCredentials, got %v", err)
	}

	for _, u := range users.users {
		u.IsActive = false
	}
	if _, err := svc.Login(context.Background(), "alice", "password1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("deactivated user: want ErrInvalidCredentials, got %v", err)
	}
}

func TestMe(t *testing.T) {
	svc, _, memberships := newTestService(t)
	user, err := svc.Signup(context.Background(), "alice", "alice@example.com", "password1")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	memberships.orgsByUser[user.ID] = []*membershipdomain.OrgRole{
		{OrgID: "org-1", OrgName: "Acme", Role: membershipdomain.RoleAdmin},
	}

	profile, err := svc.Me(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if profile.User.Username != "alice" || len(profile.Orgs) != 1 {
		t.Errorf("profile = %+v, want alice with one org", profile)
	}

	if _, err := svc.Me(context.Background(), "missing"); !apperr.IsNotFound(err) {
		t.Errorf("unknown user: want NotFound, got %v", err)
	}
}
