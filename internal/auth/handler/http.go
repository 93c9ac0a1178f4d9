// Package handler exposes signup, login, and the current-user profile over HTTP.
package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"orghub/backend/internal/auth/service"
	membershipdomain "orghub/backend/internal/membership/domain"
	"orghub/backend/internal/server/httpx"
	userdomain "orghub/backend/internal/user/domain"
)

// Handler serves the /api/auth routes.
type Handler struct {
	auth *service.Service
}

// NewHandler returns an auth Handler.
func NewHandler(auth *service.Service) *Handler {
	return &Handler{auth: auth}
}

type signupRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u *userdomain.User) userResponse {
	return userResponse{
		ID: u.ID, Username: u.Username, Email: u.Email,
		IsActive: u.IsActive, CreatedAt: u.CreatedAt,
	}
}

type orgRoleResponse struct {
	OrgID    string    `json:"org_id"`
	OrgName  string    `json:"org_name"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// Signup creates a new account.
func (h *Handler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	user, err := h.auth.Signup(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, toUserResponse(user))
}

// Login exchanges credentials for a bearer token.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	sess, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token": sess.Token,
		"token_type":   "bearer",
		"expires_at":   sess.ExpiresAt,
	})
}

// Me returns the authenticated user's profile with their organizations.
func (h *Handler) Me(c *gin.Context) {
	profile, err := h.auth.Me(c.Request.Context(), httpx.UserID(c))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	orgs := make([]orgRoleResponse, 0, len(profile.Orgs))
	for _, o := range profile.Orgs {
		orgs = append(orgs, toOrgRoleResponse(o))
	}
	c.JSON(http.StatusOK, gin.H{
		"user": toUserResponse(profile.User),
		"orgs": orgs,
	})
}

func toOrgRoleResponse(o *membershipdomain.OrgRole) orgRoleResponse {
	return orgRoleResponse{OrgID: o.OrgID, OrgName: o.OrgName, Role: string(o.Role), JoinedAt: o.JoinedAt}
}
