package credgate

import (
	"context"
	"time"
)

// emitAudit hands an event to the dispatcher. Best effort only: a full
// buffer or closed dispatcher drops the event, and nothing here can fail
// the operation being audited.
func (e *Engine) emitAudit(ctx context.Context, action, actorID, resource string, success bool, errMsg string, metadata map[string]string) {
	if e == nil || e.audit == nil {
		return
	}

	e.audit.Emit(ctx, AuditEvent{
		Timestamp: time.Now(),
		Action:    action,
		Resource:  resource,
		ActorID:   actorID,
		IP:        clientIPFromContext(ctx),
		UserAgent: userAgentFromContext(ctx),
		Success:   success,
		Error:     errMsg,
		Metadata:  metadata,
	})
}
