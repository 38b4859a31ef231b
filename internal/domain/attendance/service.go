package attendance

import (
	"context"
)

// Service defines the attendance state machine. Transitions are synchronous
// and deterministic: a failed transition is a caller/input problem and is
// never retried internally.
type Service interface {
	// ClockIn records the first clock event of the day, evaluating lateness
	// and geofence containment against current policy.
	ClockIn(ctx context.Context, req ClockInRequest) (AttendanceResponse, error)

	// ClockOut closes the day's record and derives working/overtime hours.
	ClockOut(ctx context.Context, req ClockOutRequest) (AttendanceResponse, error)

	// CreateManualEntry records attendance on behalf of a user, bypassing
	// lateness and geofence evaluation (admin only).
	CreateManualEntry(ctx context.Context, req ManualEntryRequest) (AttendanceResponse, error)

	// Decide approves or rejects a submission (admin only).
	Decide(ctx context.Context, req DecisionRequest) (AttendanceResponse, error)

	// Get retrieves a single record by ID.
	Get(ctx context.Context, id string) (AttendanceResponse, error)

	// ListMy retrieves records for the authenticated user.
	ListMy(ctx context.Context, filter Filter) (ListAttendanceResponse, error)

	// List retrieves records across users (admin only).
	List(ctx context.Context, filter Filter) (ListAttendanceResponse, error)

	// Update fixes record data and rederives hours (admin only).
	Update(ctx context.Context, req UpdateRequest) (AttendanceResponse, error)

	// Delete soft deletes a record (admin only).
	Delete(ctx context.Context, id string) error
}
