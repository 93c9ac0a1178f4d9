// Package audit records who did what, where, after the fact. Writes are
// best-effort so an audit failure never breaks the request that caused it.
package audit

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"orghub/backend/internal/audit/domain"
	auditrepo "orghub/backend/internal/audit/repository"
	"orghub/backend/internal/telemetry"
)

// SentinelOrgID is the org_id used for audit events outside any org, such as
// signup and login.
const SentinelOrgID = "_system"

// AuditLogger writes a single audit event. LogEvent is best-effort: failures
// are logged and do not affect the caller.
type AuditLogger interface {
	LogEvent(ctx context.Context, orgID, userID, action, resource, ip string)
}

// Logger implements AuditLogger using the audit repository. Each recorded
// entry is also forwarded as a telemetry event when an emitter is configured.
type Logger struct {
	repo   auditrepo.Repository
	events telemetry.EventEmitter
}

// NewLogger returns an AuditLogger that persists to repo and forwards entries
// to events. A nil events disables forwarding.
func NewLogger(repo auditrepo.Repository, events telemetry.EventEmitter) *Logger {
	return &Logger{repo: repo, events: events}
}

// LogEvent writes one audit log entry. Best-effort: errors are logged and not returned.
func (l *Logger) LogEvent(ctx context.Context, orgID, userID, action, resource, ip string) {
	if l.repo == nil {
		return
	}
	if orgID == "" {
		orgID = SentinelOrgID
	}
	entry := &domain.AuditLog{
		ID:        uuid.New().String(),
		OrgID:     orgID,
		UserID:    userID,
		Action:    action,
		Resource:  resource,
		IP:        ip,
		CreatedAt: time.Now().UTC(),
	}
	if err := l.repo.Create(ctx, entry); err != nil {
		log.Printf("audit: failed to log event %s/%s: %v", action, resource, err)
		return
	}
	if l.events == nil {
		return
	}
	if err := l.events.Emit(ctx, telemetry.Event{
		OrgID:    entry.OrgID,
		UserID:   entry.UserID,
		Action:   entry.Action,
		Resource: entry.Resource,
		IP:       entry.IP,
		At:       entry.CreatedAt,
	}); err != nil {
		log.Printf("audit: failed to emit event %s/%s: %v", action, resource, err)
	}
}
