package response

import (
	"errors"
	"net/http"

	"github.com/hadirly/hadirly-backend-go/internal/domain/attendance"
	"github.com/hadirly/hadirly-backend-go/internal/domain/geofence"
	"github.com/hadirly/hadirly-backend-go/internal/domain/setting"
	"github.com/hadirly/hadirly-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses. State preconditions
// (double clock-in, clock-out before clock-in exists) are conflicts; time
// ordering is a validation problem with the submitted data.
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Attendance state preconditions
	case errors.Is(err, attendance.ErrAlreadyClockedIn):
		Conflict(w, "You have already clocked in today")
	case errors.Is(err, attendance.ErrNotClockedIn):
		Conflict(w, "You have not clocked in today")
	case errors.Is(err, attendance.ErrAlreadyClockedOut):
		Conflict(w, "You have already clocked out today")
	case errors.Is(err, attendance.ErrDuplicateRecord):
		Conflict(w, "An attendance record already exists for this user and date")

	// Data problems
	case errors.Is(err, attendance.ErrInvalidTimeOrder):
		ValidationError(w, map[string]string{
			"clock_out_time": "clock-out time is before clock-in time",
		})
	case errors.Is(err, attendance.ErrUnknownStatus):
		ValidationError(w, map[string]string{
			"status": err.Error(),
		})

	// Not found
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, geofence.ErrGeofenceNotFound):
		NotFound(w, "Geofence not found")
	case errors.Is(err, setting.ErrSettingNotFound):
		NotFound(w, "Setting not found")

	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
