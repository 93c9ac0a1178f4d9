package telemetry

import (
	"context"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// Event is one application event forwarded to the telemetry backend. It is
// shaped after the audit trail's rows, which are its only producer today.
type Event struct {
	OrgID    string
	UserID   string
	Action   string
	Resource string
	IP       string
	At       time.Time
}

// EventEmitter sends application events as OTel log records.
type EventEmitter interface {
	Emit(ctx context.Context, e Event) error
}

// NewEventEmitter returns an EventEmitter over the given LoggerProvider.
// If provider is nil, returns a no-op emitter.
func NewEventEmitter(provider *sdklog.LoggerProvider) EventEmitter {
	if provider == nil {
		return noopEmitter{}
	}
	return &otelEmitter{logger: provider.Logger("orghub.audit")}
}

// logEmitter is the subset of otellog.Logger the emitter uses.
type logEmitter interface {
	Emit(ctx context.Context, rec otellog.Record)
}

// NewEventEmitterWithLogger returns an EventEmitter over a raw record sink.
func NewEventEmitterWithLogger(l logEmitter) EventEmitter {
	return &otelEmitter{logger: l}
}

type noopEmitter struct{}

func (noopEmitter) Emit(context.Context, Event) error { return nil }

type otelEmitter struct {
	logger logEmitter
}

// Emit converts the event to an OTel log record and emits it.
func (e *otelEmitter) Emit(ctx context.Context, ev Event) error {
	rec := otellog.Record{}
	if !ev.At.IsZero() {
		rec.SetTimestamp(ev.At)
	} else {
		rec.SetTimestamp(time.Now().UTC())
	}
	rec.SetSeverity(otellog.SeverityInfo)
	if ev.Action != "" {
		rec.SetBody(otellog.StringValue(ev.Action))
	}
	if ev.OrgID != "" {
		rec.AddAttributes(otellog.String("org_id", ev.OrgID))
	}
	if ev.UserID != "" {
		rec.AddAttributes(otellog.String("user_id", ev.UserID))
	}
	if ev.Resource != "" {
		rec.AddAttributes(otellog.String("resource", ev.Resource))
	}
	if ev.IP != "" {
		rec.AddAttributes(otellog.String("ip", ev.IP))
	}
	e.logger.Emit(ctx, rec)
	return nil
}
