package credgate

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Audit actions recorded by the engine.
const (
	AuditLoginSuccess          = "login_success"
	AuditLoginFailed           = "login_failed"
	AuditRefreshSuccess        = "refresh_success"
	AuditRefreshFailed         = "refresh_failed"
	AuditLogout                = "logout"
	AuditLogoutAll             = "logout_all"
	AuditRegister              = "register"
	AuditChangePasswordSuccess = "change_password_success"
	AuditChangePasswordFailed  = "change_password_failed"
)

// AuditEvent is one recorded security-relevant action.
type AuditEvent struct {
	Timestamp time.Time         `json:"timestamp"`
	Action    string            `json:"action"`
	Resource  string            `json:"resource"`
	ActorID   string            `json:"actor_id,omitempty"`
	IP        string            `json:"ip,omitempty"`
	UserAgent string            `json:"user_agent,omitempty"`
	Success   bool              `json:"success"`
	Error     string            `json:"error,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// AuditSink receives audit events. Emit never returns an error: audit is
// fire-and-forget and a sink failure must never reach the caller of the
// primary operation.
type AuditSink interface {
	Emit(ctx context.Context, event AuditEvent)
}

// NoOpSink discards every event.
type NoOpSink struct{}

func (NoOpSink) Emit(context.Context, AuditEvent) {}

// ChannelSink forwards events to a channel for custom consumers. A full
// channel drops the event: Emit is called from the dispatcher's worker
// goroutine, and a consumer that stops draining must not be able to wedge
// the dispatcher or Engine.Close.
type ChannelSink struct {
	events chan AuditEvent
}

func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{
		events: make(chan AuditEvent, buffer),
	}
}

func (s *ChannelSink) Emit(_ context.Context, event AuditEvent) {
	select {
	case s.events <- event:
	default:
	}
}

func (s *ChannelSink) Events() <-chan AuditEvent {
	return s.events
}

// JSONWriterSink writes one JSON line per event.
type JSONWriterSink struct {
	writer io.Writer
	mu     sync.Mutex
}

func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{
		writer: w,
	}
}

func (s *JSONWriterSink) Emit(_ context.Context, event AuditEvent) {
	if s == nil || s.writer == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = s.writer.Write(data)
	_, _ = s.writer.Write([]byte("\n"))
}

// ZapSink logs events through a zap logger at info level.
type ZapSink struct {
	logger *zap.Logger
}

func NewZapSink(logger *zap.Logger) *ZapSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapSink{logger: logger}
}

func (s *ZapSink) Emit(_ context.Context, event AuditEvent) {
	s.logger.Info("audit",
		zap.Time("timestamp", event.Timestamp),
		zap.String("action", event.Action),
		zap.String("resource", event.Resource),
		zap.String("actor_id", event.ActorID),
		zap.String("ip", event.IP),
		zap.Bool("success", event.Success),
		zap.String("error", event.Error),
	)
}
