package ports

import (
	"context"

	"github.com/notekeep/notes-system/internal/core/domain"
)

// AuditRepository persists audit events.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.AuditEvent) error
}

// AuditRecorder accepts audit events without blocking the caller.
type AuditRecorder interface {
	Record(event domain.AuditEvent)
}

// AuditService processes a single audit event.
type AuditService interface {
	Process(ctx context.Context, event domain.AuditEvent) error
}
