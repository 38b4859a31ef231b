package attendance

import (
	"math"
	"time"

	"github.com/hadirly/hadirly-backend-go/internal/domain/attendance"
	"github.com/hadirly/hadirly-backend-go/internal/domain/geofence"
)

// The rules in this file are pure: plain data in, plain data out, no I/O.
// The state machine calls them explicitly before any write, so they stay
// unit-testable without a database.

// IsLate reports whether the local wall-clock time is strictly later than
// the policy threshold. Exactly on the threshold is on time.
func IsLate(local time.Time, lateHour, lateMinute int) bool {
	threshold := time.Date(local.Year(), local.Month(), local.Day(),
		lateHour, lateMinute, 0, 0, local.Location())
	return local.After(threshold)
}

// ClassifyLocation resolves the location status of a clock event:
// no coordinates or no configured geofence means remote, inside any active
// geofence means valid, otherwise invalid. Returns the first matching
// geofence when the status is valid.
func ClassifyLocation(coords *attendance.Coordinates, fences []geofence.Geofence) (attendance.LocationStatus, *geofence.Geofence) {
	if coords == nil {
		return attendance.LocationRemote, nil
	}
	if len(fences) == 0 {
		return attendance.LocationRemote, nil
	}

	for i := range fences {
		if fences[i].Contains(coords.Latitude, coords.Longitude) {
			return attendance.LocationValid, &fences[i]
		}
	}

	return attendance.LocationInvalid, nil
}

// ComputeWorkingHours derives working and overtime hours from a closed
// clock-in/clock-out pair, both rounded to 2 decimal places. A clock-out
// before the clock-in fails with ErrInvalidTimeOrder instead of producing a
// negative duration.
func ComputeWorkingHours(clockIn, clockOut time.Time, standardHours float64) (working, overtime float64, err error) {
	if clockOut.Before(clockIn) {
		return 0, 0, attendance.ErrInvalidTimeOrder
	}

	working = round2(clockOut.Sub(clockIn).Hours())
	overtime = round2(math.Max(0, working-standardHours))
	return working, overtime, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
