// Package service implements signup, login, and current-user lookup.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	membershipdomain "orghub/backend/internal/membership/domain"
	"orghub/backend/internal/platform/apperr"
	"orghub/backend/internal/security"
	userdomain "orghub/backend/internal/user/domain"
)

// ErrInvalidCredentials is returned for every login failure: unknown username,
// wrong password, or deactivated account. Callers must not be able to tell
// which one it was; the handler maps it to an unauthorized response.
var ErrInvalidCredentials = errors.New("invalid credentials")

const minPasswordLength = 8

// UserRepo is the minimal user repository needed by the auth service.
type UserRepo interface {
	GetByID(ctx context.Context, id string) (*userdomain.User, error)
	GetByUsername(ctx context.Context, username string) (*userdomain.User, error)
	GetByEmail(ctx context.Context, email string) (*userdomain.User, error)
	Create(ctx context.Context, u *userdomain.User) error
}

// MembershipRepo lists the caller's organizations for the profile endpoint.
type MembershipRepo interface {
	ListOrgsByUser(ctx context.Context, userID string) ([]*membershipdomain.OrgRole, error)
}

// Session is an issued access token with its expiry.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// Profile is the current user together with their org memberships.
type Profile struct {
	User *userdomain.User
	Orgs []*membershipdomain.OrgRole
}

// Service implements password signup and login.
type Service struct {
	users       UserRepo
	memberships MembershipRepo
	hasher      *security.Hasher
	tokens      *security.TokenProvider
}

// NewService returns an auth Service with the given dependencies.
func NewService(users UserRepo, memberships MembershipRepo, hasher *security.Hasher, tokens *security.TokenProvider) *Service {
	return &Service{users: users, memberships: memberships, hasher: hasher, tokens: tokens}
}

// Signup creates an active user with the given credentials. Fails with
// Conflict when the username or the email is already registered.
func (s *Service) Signup(ctx context.Context, username, email, password string) (*userdomain.User, error) {
	username = strings.TrimSpace(username)
	email = userdomain.NormalizeEmail(email)
	candidate := &userdomain.User{Username: username, Email: email}
	if err := candidate.Validate(); err != nil {
		return nil, apperr.Validation(err.Error())
	}
	if len(password) < minPasswordLength {
		return nil, apperr.Validation("password must be at least 8 characters")
	}

	if existing, err := s.users.GetByUsername(ctx, username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, apperr.Conflict("username already registered")
	}
	if existing, err := s.users.GetByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, apperr.Conflict("email already registered")
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	user := &userdomain.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: digest,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login authenticates by username and password and issues an access token.
// A user deactivated by losing their last membership cannot log in until they
// are re-added to an organization.
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: expiresAt}, nil
}

// Me returns the user's profile with their organizations and role in each.
func (s *Service) Me(ctx context.Context, userID string) (*Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("user")
	}
	orgs, err := s.memberships.ListOrgsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Profile{User: user, Orgs: orgs}, nil
}
