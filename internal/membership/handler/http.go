// Package handler exposes the member management routes under an organization:
// listing, invite-or-add, role changes, and removal.
package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	membershipdomain "orghub/backend/internal/membership/domain"
	"orghub/backend/internal/membership/service"
	"orghub/backend/internal/platform/apperr"
	"orghub/backend/internal/server/httpx"
)

// Handler serves the /api/orgs/:org_id/members routes.
type Handler struct {
	memberships *service.Service
}

// NewHandler returns a membership Handler.
func NewHandler(memberships *service.Service) *Handler {
	return &Handler{memberships: memberships}
}

type inviteRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Role     string `json:"role"`
}

type changeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

type memberResponse struct {
	UserID   string    `json:"user_id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	IsActive bool      `json:"is_active"`
	JoinedAt time.Time `json:"joined_at"`
}

func toMemberResponse(m *membershipdomain.Member) memberResponse {
	return memberResponse{
		UserID: m.UserID, Username: m.Username, Email: m.Email,
		Role: string(m.Role), IsActive: m.IsActive, JoinedAt: m.JoinedAt,
	}
}

// List returns the org's members. Any member may list.
func (h *Handler) List(c *gin.Context) {
	members, err := h.memberships.ListMembers(c.Request.Context(), c.Param("org_id"), httpx.UserID(c))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	out := make([]memberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, toMemberResponse(m))
	}
	c.JSON(http.StatusOK, gin.H{"members": out})
}

// Invite adds an existing user to the org or creates a new one with a
// temporary password. The plaintext appears in this response and nowhere else.
func (h *Handler) Invite(c *gin.Context) {
	var req inviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	res, err := h.memberships.InviteOrAdd(c.Request.Context(), c.Param("org_id"), service.Invite{
		Username: req.Username,
		Email:    req.Email,
		Role:     membershipdomain.Role(req.Role),
	}, httpx.UserID(c))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	body := gin.H{
		"user_id":  res.User.ID,
		"username": res.User.Username,
		"email":    res.User.Email,
		"role":     string(res.Membership.Role),
	}
	if res.TempPassword != "" {
		body["temp_password"] = res.TempPassword
	}
	c.JSON(http.StatusCreated, body)
}

// ChangeRole sets a member's role. Admin only, last-admin protected.
func (h *Handler) ChangeRole(c *gin.Context) {
	var req changeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	role, err := membershipdomain.ParseRole(req.Role)
	if err != nil {
		httpx.Error(c, apperr.Validation(err.Error()))
		return
	}
	updated, err := h.memberships.ChangeRole(c.Request.Context(), c.Param("org_id"), c.Param("user_id"), role, httpx.UserID(c))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user_id": updated.UserID,
		"role":    string(updated.Role),
	})
}

// Remove deletes a member from the org. Admin only, last-admin protected.
// The response says whether the removal deactivated the user entirely.
func (h *Handler) Remove(c *gin.Context) {
	removed, err := h.memberships.RemoveMember(c.Request.Context(), c.Param("org_id"), c.Param("user_id"), httpx.UserID(c))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user_id":   removed.ID,
		"is_active": removed.IsActive,
	})
}
