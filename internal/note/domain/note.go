// Package domain holds the Note entity.
package domain

import (
	"errors"
	"strings"
	"time"
)

// Note is an org-scoped text record. OrgID is the tenancy key; every lookup
// must carry it so records are invisible outside their organization.
type Note struct {
	ID        string
	OrgID     string
	CreatedBy string
	Title     string
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the fields a caller may set.
func (n *Note) Validate() error {
	if strings.TrimSpace(n.Title) == "" {
		return errors.New("title is required")
	}
	return nil
}
