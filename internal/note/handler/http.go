// Package handler exposes org-scoped note CRUD over HTTP.
package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"orghub/backend/internal/note/domain"
	"orghub/backend/internal/note/service"
	"orghub/backend/internal/server/httpx"
)

// Handler serves the /api/orgs/:org_id/notes routes.
type Handler struct {
	notes *service.Service
}

// NewHandler returns a note Handler.
func NewHandler(notes *service.Service) *Handler {
	return &Handler{notes: notes}
}

type noteRequest struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body"`
}

type noteResponse struct {
	ID        string    `json:"id"`
	OrgID     string    `json:"org_id"`
	CreatedBy string    `json:"created_by"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toNoteResponse(n *domain.Note) noteResponse {
	return noteResponse{
		ID: n.ID, OrgID: n.OrgID, CreatedBy: n.CreatedBy,
		Title: n.Title, Body: n.Body, CreatedAt: n.CreatedAt, UpdatedAt: n.UpdatedAt,
	}
}

// List returns the org's notes.
func (h *Handler) List(c *gin.Context) {
	notes, err := h.notes.List(c.Request.Context(), c.Param("org_id"), httpx.UserID(c))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	out := make([]noteResponse, 0, len(notes))
	for _, n := range notes {
		out = append(out, toNoteResponse(n))
	}
	c.JSON(http.StatusOK, gin.H{"notes": out})
}

// Get returns one note.
func (h *Handler) Get(c *gin.Context) {
	n, err := h.notes.Get(c.Request.Context(), c.Param("org_id"), c.Param("id"), httpx.UserID(c))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, toNoteResponse(n))
}

// Create adds a note.
func (h *Handler) Create(c *gin.Context) {
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	n, err := h.notes.Create(c.Request.Context(), c.Param("org_id"), req.Title, req.Body, httpx.UserID(c))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, toNoteResponse(n))
}

// Update rewrites a note.
func (h *Handler) Update(c *gin.Context) {
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	n, err := h.notes.Update(c.Request.Context(), c.Param("org_id"), c.Param("id"), req.Title, req.Body, httpx.UserID(c))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, toNoteResponse(n))
}

// Delete removes a note.
func (h *Handler) Delete(c *gin.Context) {
	if err := h.notes.Delete(c.Request.Context(), c.Param("org_id"), c.Param("id"), httpx.UserID(c)); err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
}
