package events

import "time"

const EmployeeLifecycleTopic = "staffdir.employee.lifecycle.v1"

const (
	EmployeeCreatedType       = "employee_created"
	EmployeeDeletedType       = "employee_deleted"
	EmployeeStatusChangedType = "employee_status_changed"
)

type EmployeeLifecycleEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	EmployeeID string    `json:"employee_id"`
	OldStatus  string    `json:"old_status,omitempty"`
	NewStatus  string    `json:"new_status,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
