package setting

import "time"

// Setting is a typed key/value policy entry. Read-mostly; written only by
// administrators.
type Setting struct {
	Key       string
	Value     string
	Category  string
	IsPublic  bool
	UpdatedBy *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Known policy keys consumed by the attendance engine.
const (
	KeyLateTimeHour         = "late_time_hour"
	KeyLateTimeMinute       = "late_time_minute"
	KeyStandardWorkingHours = "standard_working_hours"
	KeyRequireApproval      = "require_approval"
)

// Policy is the resolved settings snapshot injected into each attendance
// transition. Behavior is reproducible given identical snapshots.
type Policy struct {
	LateHour        int
	LateMinute      int
	StandardHours   float64
	RequireApproval bool
}

// DefaultPolicy returns the documented fallbacks used when the store has no
// entry or a value is unparseable. Defaults are a policy decision, not an
// error condition.
func DefaultPolicy() Policy {
	return Policy{
		LateHour:        9,
		LateMinute:      0,
		StandardHours:   8,
		RequireApproval: true,
	}
}
