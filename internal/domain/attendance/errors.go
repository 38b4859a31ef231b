package attendance

import "errors"

// Attendance domain errors
var (
	// Clock-in/out preconditions
	ErrAlreadyClockedIn  = errors.New("you have already clocked in today")
	ErrNotClockedIn      = errors.New("you have not clocked in yet")
	ErrAlreadyClockedOut = errors.New("you have already clocked out")

	// Derived-value errors
	ErrInvalidTimeOrder = errors.New("clock-out time is before clock-in time")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrDuplicateRecord    = errors.New("attendance record already exists for this date")
	ErrUnknownStatus      = errors.New("unknown persisted status value")
)
