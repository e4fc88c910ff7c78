package domain

import "time"

// AuditAction names a security-relevant operation.
type AuditAction string

const (
	AuditRegister       AuditAction = "register"
	AuditLogin          AuditAction = "login"
	AuditLogout         AuditAction = "logout"
	AuditChangePassword AuditAction = "change_password"
	AuditUserCreated    AuditAction = "user_created"
	AuditUserUpdated    AuditAction = "user_updated"
	AuditUserDisabled   AuditAction = "user_deactivated"
)

// AuditEvent records the outcome of a security-relevant operation.
type AuditEvent struct {
	ID         string
	Action     AuditAction
	UserID     string // empty when the actor could not be resolved
	Username   string
	ActorID    string // admin performing the change, if any
	Success    bool
	Reason     string
	OccurredAt time.Time
}
