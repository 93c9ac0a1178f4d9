// Package handler exposes organization CRUD over HTTP. The operations live on
// the membership lifecycle service because creating or deleting an org also
// creates or removes memberships.
package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	membershipdomain "orghub/backend/internal/membership/domain"
	"orghub/backend/internal/membership/service"
	orgdomain "orghub/backend/internal/organization/domain"
	"orghub/backend/internal/server/httpx"
)

// Handler serves the /api/orgs routes.
type Handler struct {
	memberships *service.Service
}

// NewHandler returns an organization Handler.
func NewHandler(memberships *service.Service) *Handler {
	return &Handler{memberships: memberships}
}

type orgRequest struct {
	Name string `json:"name" binding:"required"`
}

type orgResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func toOrgResponse(o *orgdomain.Org) orgResponse {
	return orgResponse{ID: o.ID, Name: o.Name, CreatedAt: o.CreatedAt}
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

// Create makes a new organization with the caller as its first admin.
func (h *Handler) Create(c *gin.Context) {
	var req orgRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	org, err := h.memberships.CreateOrganization(c.Request.Context(), req.Name, httpx.UserID(c))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrgResponse(org))
}

// List returns the caller's organizations with their role in each.
func (h *Handler) List(c *gin.Context) {
	orgs, err := h.memberships.MyOrganizations(c.Request.Context(), httpx.UserID(c))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	out := make([]gin.H, 0, len(orgs))
	for _, o := range orgs {
		out = append(out, gin.H{
			"id":         o.OrgID,
			"name":       o.OrgName,
			"role":       string(o.Role),
			"joined_at":  o.JoinedAt,
			"created_at": o.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"orgs": out})
}

// Get returns one organization with the caller's role and the member list.
func (h *Handler) Get(c *gin.Context) {
	detail, err := h.memberships.GetOrganization(c.Request.Context(), c.Param("org_id"), httpx.UserID(c))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	members := make([]memberResponse, 0, len(detail.Members))
	for _, m := range detail.Members {
		members = append(members, toMemberResponse(m))
	}
	c.JSON(http.StatusOK, gin.H{
		"org":     toOrgResponse(detail.Org),
		"role":    string(detail.CallerRole),
		"members": members,
	})
}

// Update renames the organization. Admin only.
func (h *Handler) Update(c *gin.Context) {
	var req orgRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	org, err := h.memberships.UpdateOrganization(c.Request.Context(), c.Param("org_id"), req.Name, httpx.UserID(c))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrgResponse(org))
}

// Delete removes the organization and everything scoped to it. Admin only.
func (h *Handler) Delete(c *gin.Context) {
	org, err := h.memberships.DeleteOrganization(c.Request.Context(), c.Param("org_id"), httpx.UserID(c))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": org.ID})
}
