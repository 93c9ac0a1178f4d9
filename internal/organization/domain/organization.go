package domain

import (
	"errors"
	"strings"
	"time"
)

// Org represents an organization: the tenant boundary for memberships and
// org-scoped resources.
type Org struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Validate validates the organization for persistence. Returns an error describing the first validation failure.
func (o *Org) Validate() error {
	if strings.TrimSpace(o.Name) == "" {
		return errors.New("name is required")
	}
	return nil
}
