package bootstrap

import "context"

// AuditLog is one audit trail entry. The typed fields match what the
// employee lifecycle events carry; Meta holds anything extra, like the old
// and new status of a transition or the shutdown signal.
type AuditLog struct {
	Action     string
	Message    string
	RequestID  string
	EmployeeID string
	Meta       map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
