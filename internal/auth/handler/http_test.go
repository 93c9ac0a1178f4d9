package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"orghub/backend/internal/auth/service"
	membershipdomain "orghub/backend/internal/membership/domain"
	"orghub/backend/internal/security"
	"orghub/backend/internal/server/httpx"
	userdomain "orghub/backend/internal/user/domain"
)

type memUserRepo struct {
	users map[string]*userdomain.User
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
	r.users[u.ID] = u
	return nil
}

type memMembershipRepo struct{}

func (memMembershipRepo) ListOrgsByUser(ctx context.Context, userID string) ([]*membershipdomain.OrgRole, error) {
	return nil, nil
}

type env struct {
	router *gin.Engine
	users  *memUserRepo
	caller string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)
	users := &memUserRepo{users: map[string]*userdomain.User{}}
	tokens, err := security.NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	h := NewHandler(service.NewService(users, memMembershipRepo{}, security.NewHasher(4), tokens))

	e := &env{users: users}
	r := gin.New()
	r.POST("/api/auth/signup", h.Signup)
	r.POST("/api/auth/login", h.Login)
	r.GET("/api/auth/me", func(c *gin.Context) { httpx.SetUserID(c, e.caller) }, h.Me)
	e.router = r
	return e
}

func (e *env) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestSignupLoginMe(t *testing.T) {
	e := newEnv(t)

	w := e.do("POST", "/api/auth/signup", `{"username":"alice","email":"alice@example.com","password":"password1"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("signup: status = %d, want 201; body %s", w.Code, w.Body.String())
	}
	if strings.Contains(w.Body.String(), "password") {
		t.Error("signup response must not echo any credential field")
	}

	w = e.do("POST", "/api/auth/login", `{"username":"alice","password":"password1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("login: status = %d, want 200; body %s", w.Code, w.Body.String())
	}
	var sess map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &sess); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if sess["access_token"] == "" || sess["token_type"] != "bearer" {
		t.Errorf("login body = %v", sess)
	}

	for id := range e.users.users {
		e.caller = id
	}
	if w := e.do("GET", "/api/auth/me", ""); w.Code != http.StatusOK {
		t.Errorf("me: status = %d, want 200; body %s", w.Code, w.Body.String())
	}
}

func TestSignup_Conflict(t *testing.T) {
	e := newEnv(t)
	if w := e.do("POST", "/api/auth/signup", `{"username":"alice","email":"alice@example.com","password":"password1"}`); w.Code != http.StatusCreated {
		t.Fatalf("signup: status = %d", w.Code)
	}
	if w := e.do("POST", "/api/auth/signup", `{"username":"alice","email":"other@example.com","password":"password1"}`); w.Code != http.StatusConflict {
		t.Errorf("duplicate username: status = %d, want 409", w.Code)
	}
}

func TestLogin_Unauthorized(t *testing.T) {
	e := newEnv(t)
	if w := e.do("POST", "/api/auth/signup", `{"username":"alice","email":"alice@example.com","password":"password1"}`); w.Code != http.StatusCreated {
		t.Fatalf("signup: status = %d", w.Code)
	}
	if w := e.do("POST", "/api/auth/login", `{"username":"alice","password":"wrong password"}`); w.Code != http.StatusUnauthorized {
		t.Errorf("wrong password: status = %d, want 401", w.Code)
	}
	if w := e.do("POST", "/api/auth/login", `{"username":"ghost","password":"password1"}`); w.Code != http.StatusUnauthorized {
		t.Errorf("unknown user: status = %d, want 401", w.Code)
	}
}
