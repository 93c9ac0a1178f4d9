// Package handler exposes org-scoped todo CRUD over HTTP.
package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"orghub/backend/internal/server/httpx"
	"orghub/backend/internal/todo/domain"
	"orghub/backend/internal/todo/service"
)

// Handler serves the /api/orgs/:org_id/todos routes.
type Handler struct {
	todos *service.Service
}

// NewHandler returns a todo Handler.
func NewHandler(todos *service.Service) *Handler {
	return &Handler{todos: todos}
}

type createTodoRequest struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body"`
}

type updateTodoRequest struct {
	Title     *string `json:"title"`
	Body      *string `json:"body"`
	Completed *bool   `json:"completed"`
}

type todoResponse struct {
	ID        string    `json:"id"`
	OrgID     string    `json:"org_id"`
	CreatedBy string    `json:"created_by"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toTodoResponse(t *domain.Todo) todoResponse {
	return todoResponse{
		ID: t.ID, OrgID: t.OrgID, CreatedBy: t.CreatedBy,
		Title: t.Title, Body: t.Body, Completed: t.Completed,
		CreatedAt: t.CreatedAt, UpdatedAt: t.UpdatedAt,
	}
}

// List returns the org's todos.
func (h *Handler) List(c *gin.Context) {
	todos, err := h.todos.List(c.Request.Context(), c.Param("org_id"), httpx.UserID(c))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	out := make([]todoResponse, 0, len(todos))
	for _, t := range todos {
		out = append(out, toTodoResponse(t))
	}
	c.JSON(http.StatusOK, gin.H{"todos": out})
}

// Get returns one todo.
func (h *Handler) Get(c *gin.Context) {
	t, err := h.todos.Get(c.Request.Context(), c.Param("org_id"), c.Param("id"), httpx.UserID(c))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, toTodoResponse(t))
}

// Create adds a todo.
func (h *Handler) Create(c *gin.Context) {
	var req createTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	t, err := h.todos.Create(c.Request.Context(), c.Param("org_id"), req.Title, req.Body, httpx.UserID(c))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTodoResponse(t))
}

// Update patches a todo; omitted fields keep their values, so a completion
// toggle does not need to resend the title.
func (h *Handler) Update(c *gin.Context) {
	var req updateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	t, err := h.todos.Update(c.Request.Context(), c.Param("org_id"), c.Param("id"), service.Patch{
		Title:     req.Title,
		Body:      req.Body,
		Completed: req.Completed,
	}, httpx.UserID(c))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, toTodoResponse(t))
}

// Delete removes a todo.
func (h *Handler) Delete(c *gin.Context) {
	if err := h.todos.Delete(c.Request.Context(), c.Param("org_id"), c.Param("id"), httpx.UserID(c)); err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
}
