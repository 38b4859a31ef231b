package attendance

import (
	"context"
	"time"
)

// Repository defines data access for attendance records.
//
// Concurrency contract: the attendances table carries a unique index on
// (user_id, date) for rows that are not soft-deleted. Create relies on that
// index and returns ErrDuplicateRecord when a concurrent writer won; callers
// that need read-modify-write (clock-out, decisions) are expected to
// serialize per user record via WithTransaction before invoking transitions.
type Repository interface {
	// Create inserts a new record. Returns ErrDuplicateRecord when a record
	// for the same (user, date) already exists.
	Create(ctx context.Context, att Attendance) (Attendance, error)

	// GetByID retrieves a record by ID. Soft-deleted rows are excluded.
	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetByUserAndDate retrieves the record for a user on a calendar date,
	// or nil when none exists.
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*Attendance, error)

	// Update persists mutated fields of an existing record.
	Update(ctx context.Context, att Attendance) error

	// List retrieves records with filters and pagination. When userID is
	// non-empty the listing is scoped to that user.
	List(ctx context.Context, userID string, filter Filter) ([]Attendance, int64, error)

	// SoftDelete flags a record inactive, preserving audit history.
	SoftDelete(ctx context.Context, id string) error

	// ListUserIDsWithoutRecord returns active user IDs with no attendance
	// record on the given date. Used by the absent-marking job.
	ListUserIDsWithoutRecord(ctx context.Context, date time.Time) ([]string, error)
}
