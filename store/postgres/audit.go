package postgres

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/credgate/credgate"
)

// AuditSink persists audit events into the audit_log table. Insert failures
// are logged and swallowed: audit must never fail the operation it records.
type AuditSink struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewAuditSink wraps an existing pool. A nil logger is replaced with a nop
// logger.
func NewAuditSink(pool *pgxpool.Pool, logger *zap.Logger) *AuditSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditSink{
		pool:   pool,
		logger: logger,
	}
}

func (s *AuditSink) Emit(ctx context.Context, event credgate.AuditEvent) {
	metadata, err := json.Marshal(event.Metadata)
	if err != nil {
		metadata = nil
	}

	query := `
		INSERT INTO audit_log (id, actor_id, action, resource, ip, user_agent, success, error, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err = s.pool.Exec(ctx, query,
		uuid.NewString(),
		nullable(event.ActorID),
		event.Action,
		event.Resource,
		nullable(event.IP),
		nullable(event.UserAgent),
		event.Success,
		nullable(event.Error),
		metadata,
		event.Timestamp,
	)
	if err != nil {
		s.logger.Warn("audit insert failed", zap.Error(err))
	}
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
