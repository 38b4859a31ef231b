package attendance

import (
	"fmt"
	"time"
)

// Status is the attendance classification persisted on a record.
type Status string

const (
	StatusPresent Status = "present"
	StatusLate    Status = "late"
	StatusAbsent  Status = "absent"
	StatusRemote  Status = "remote"
	StatusInvalid Status = "invalid"
)

var StatusValues = []string{
	string(StatusPresent),
	string(StatusLate),
	string(StatusAbsent),
	string(StatusRemote),
	string(StatusInvalid),
}

// ParseStatus rejects values outside the persisted enumeration. Consumers
// must treat unknown stored values as a data-integrity error, never default
// them.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPresent, StatusLate, StatusAbsent, StatusRemote, StatusInvalid:
		return Status(s), nil
	}
	return "", fmt.Errorf("%w: attendance status %q", ErrUnknownStatus, s)
}

// LocationStatus classifies the geography of a clock event.
type LocationStatus string

const (
	LocationValid   LocationStatus = "valid"
	LocationInvalid LocationStatus = "invalid"
	LocationRemote  LocationStatus = "remote"
)

func ParseLocationStatus(s string) (LocationStatus, error) {
	switch LocationStatus(s) {
	case LocationValid, LocationInvalid, LocationRemote:
		return LocationStatus(s), nil
	}
	return "", fmt.Errorf("%w: location status %q", ErrUnknownStatus, s)
}

// ApprovalStatus is the administrative review sub-state.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

func ParseApprovalStatus(s string) (ApprovalStatus, error) {
	switch ApprovalStatus(s) {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return ApprovalStatus(s), nil
	}
	return "", fmt.Errorf("%w: approval status %q", ErrUnknownStatus, s)
}

// Attendance is one record per (user, calendar date). The date is a
// calendar day, not a timestamp; clock-in/out are absolute UTC instants.
type Attendance struct {
	ID                string
	UserID            string
	Date              time.Time
	ClockIn           *time.Time
	ClockOut          *time.Time
	ClockInLatitude   *float64
	ClockInLongitude  *float64
	ClockInPhotoRef   *string
	ClockOutLatitude  *float64
	ClockOutLongitude *float64
	ClockOutPhotoRef  *string
	Status            Status
	LocationStatus    LocationStatus
	ApprovalStatus    ApprovalStatus
	ApprovedBy        *string
	ApprovedAt        *time.Time
	ApprovalNotes     *string
	GeofenceID        *string
	WorkingHours      *float64
	OvertimeHours     *float64
	Notes             *string
	IsManualEntry     bool
	ManualReason      *string
	DeletedAt         *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time

	// DTO
	UserName *string
}

func (a *Attendance) HasClockedIn() bool {
	return a != nil && a.ClockIn != nil
}

func (a *Attendance) HasClockedOut() bool {
	return a != nil && a.ClockOut != nil
}
