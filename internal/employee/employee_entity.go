package employee

import (
	"strings"
	"time"
)

const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

const dateLayout = "2006-01-02"

// StatusChange is one entry of the append-only status history, newest first.
type StatusChange struct {
	Date      string `json:"date"`
	OldStatus string `json:"oldStatus"`
	NewStatus string `json:"newStatus"`
}

// Employee is the persisted record shape. The json tags mirror the legacy
// blob format, so collections written by older clients load unchanged.
// Position supersedes the legacy Role field; Status may be blank on old
// records and then counts as Active.
type Employee struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Email         string         `json:"email"`
	Position      string         `json:"position,omitempty"`
	Role          string         `json:"role,omitempty"`
	Status        string         `json:"status,omitempty"`
	Salary        float64        `json:"salary"`
	DateJoined    string         `json:"dateJoined,omitempty"`
	EmployeeCode  string         `json:"employeeCode,omitempty"`
	Deleted       bool           `json:"deleted"`
	DeletedAt     *time.Time     `json:"deletedAt,omitempty"`
	StatusHistory []StatusChange `json:"statusHistory,omitempty"`
}

// EffectiveStatus normalizes the stored status: anything that is not
// explicitly Inactive counts as Active, including blank legacy values.
func (e Employee) EffectiveStatus() string {
	if strings.EqualFold(strings.TrimSpace(e.Status), StatusInactive) {
		return StatusInactive
	}
	return StatusActive
}

// EffectivePosition prefers Position and falls back to the legacy Role field.
func (e Employee) EffectivePosition() string {
	if pos := strings.TrimSpace(e.Position); pos != "" {
		return pos
	}
	return strings.TrimSpace(e.Role)
}

// JoinedAt parses DateJoined. The second return is false when the date is
// missing or unparsable; callers decide the fallback (epoch for sorting,
// zero tenure for display).
func (e Employee) JoinedAt() (time.Time, bool) {
	raw := strings.TrimSpace(e.DateJoined)
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// TenureYears computes tenure relative to now, rounded to two decimals.
func (e Employee) TenureYears(now time.Time) float64 {
	joined, ok := e.JoinedAt()
	if !ok {
		return 0
	}
	days := now.Sub(joined).Hours() / 24
	years := days / 365.25
	return float64(int(years*100+0.5)) / 100
}

// Clone returns a deep copy, including the status history slice, so captured
// prior records are immune to later in-place mutation.
func (e Employee) Clone() Employee {
	out := e
	if e.DeletedAt != nil {
		at := *e.DeletedAt
		out.DeletedAt = &at
	}
	if e.StatusHistory != nil {
		out.StatusHistory = make([]StatusChange, len(e.StatusHistory))
		copy(out.StatusHistory, e.StatusHistory)
	}
	return out
}

func cloneCollection(in []Employee) []Employee {
	out := make([]Employee, len(in))
	for i, e := range in {
		out[i] = e.Clone()
	}
	return out
}
