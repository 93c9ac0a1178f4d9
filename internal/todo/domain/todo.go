// Package domain holds the Todo entity.
package domain

import (
	"errors"
	"strings"
	"time"
)

// Todo is an org-scoped task with a completion flag. Like notes, the org ID is
// part of every lookup so tasks never cross organization boundaries.
type Todo struct {
	ID        string
	OrgID     string
	CreatedBy string
	Title     string
	Body      string
	Completed bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the fields a caller may set.
func (t *Todo) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("title is required")
	}
	return nil
}
