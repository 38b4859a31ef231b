package attendance

import (
	"errors"
	"testing"
	"time"

	"github.com/hadirly/hadirly-backend-go/internal/domain/attendance"
	"github.com/hadirly/hadirly-backend-go/internal/domain/geofence"
	"github.com/hadirly/hadirly-backend-go/internal/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clockAt(hour, minute, second int) time.Time {
	return time.Date(2026, 3, 10, hour, minute, second, 0, time.UTC)
}

func TestIsLate_DefaultPolicy(t *testing.T) {
	// Threshold 09:00: arriving exactly on the threshold is on time,
	// one second past is late.
	assert.False(t, IsLate(clockAt(8, 59, 59), 9, 0))
	assert.False(t, IsLate(clockAt(9, 0, 0), 9, 0))
	assert.True(t, IsLate(clockAt(9, 0, 1), 9, 0))
	assert.True(t, IsLate(clockAt(9, 5, 0), 9, 0))
}

func TestIsLate_CustomThreshold(t *testing.T) {
	assert.False(t, IsLate(clockAt(9, 30, 0), 9, 30))
	assert.True(t, IsLate(clockAt(9, 30, 1), 9, 30))
	assert.False(t, IsLate(clockAt(9, 15, 0), 9, 30))
}

func TestIsLate_TimezoneAware(t *testing.T) {
	jakarta, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	// 02:05 UTC is 09:05 in Jakarta (UTC+7).
	instant := time.Date(2026, 3, 10, 2, 5, 0, 0, time.UTC)
	assert.True(t, IsLate(instant.In(jakarta), 9, 0))
	assert.False(t, IsLate(instant, 9, 0))
}

func circleFence(id string, lat, lon, radius float64, active bool) geofence.Geofence {
	return geofence.Geofence{
		ID:              id,
		Name:            "fence-" + id,
		Type:            geofence.TypeCircle,
		CenterLatitude:  &lat,
		CenterLongitude: &lon,
		RadiusMeters:    &radius,
		IsActive:        active,
	}
}

func TestClassifyLocation_NoCoordinates(t *testing.T) {
	fences := []geofence.Geofence{circleFence("a", -6.2, 106.8, 100, true)}

	status, matched := ClassifyLocation(nil, fences)

	assert.Equal(t, attendance.LocationRemote, status)
	assert.Nil(t, matched)
}

func TestClassifyLocation_NoFencesConfigured(t *testing.T) {
	coords := &attendance.Coordinates{Latitude: -6.2, Longitude: 106.8}

	status, matched := ClassifyLocation(coords, nil)

	assert.Equal(t, attendance.LocationRemote, status)
	assert.Nil(t, matched)
}

func TestClassifyLocation_InsideCircle(t *testing.T) {
	fences := []geofence.Geofence{circleFence("office", -6.2, 106.8, 100, true)}
	coords := &attendance.Coordinates{Latitude: -6.2001, Longitude: 106.8}

	status, matched := ClassifyLocation(coords, fences)

	assert.Equal(t, attendance.LocationValid, status)
	require.NotNil(t, matched)
	assert.Equal(t, "office", matched.ID)
}

func TestClassifyLocation_OutsideAllFences(t *testing.T) {
	fences := []geofence.Geofence{circleFence("office", -6.2, 106.8, 100, true)}
	coords := &attendance.Coordinates{Latitude: -6.3, Longitude: 106.9}

	status, matched := ClassifyLocation(coords, fences)

	assert.Equal(t, attendance.LocationInvalid, status)
	assert.Nil(t, matched)
}

func TestClassifyLocation_InactiveFenceNeverMatches(t *testing.T) {
	fences := []geofence.Geofence{circleFence("office", -6.2, 106.8, 100, false)}
	coords := &attendance.Coordinates{Latitude: -6.2, Longitude: 106.8}

	status, matched := ClassifyLocation(coords, fences)

	assert.Equal(t, attendance.LocationInvalid, status)
	assert.Nil(t, matched)
}

func TestClassifyLocation_FirstMatchWins(t *testing.T) {
	fences := []geofence.Geofence{
		circleFence("hq", -6.2, 106.8, 200, true),
		circleFence("warehouse", -6.2, 106.8, 500, true),
	}
	coords := &attendance.Coordinates{Latitude: -6.2, Longitude: 106.8}

	status, matched := ClassifyLocation(coords, fences)

	assert.Equal(t, attendance.LocationValid, status)
	require.NotNil(t, matched)
	assert.Equal(t, "hq", matched.ID)
}

func TestClassifyLocation_Polygon(t *testing.T) {
	fence := geofence.Geofence{
		ID:       "yard",
		Type:     geofence.TypePolygon,
		IsActive: true,
		Vertices: []utils.Point{
			{Latitude: 0, Longitude: 0},
			{Latitude: 0, Longitude: 1},
			{Latitude: 1, Longitude: 1},
			{Latitude: 1, Longitude: 0},
		},
	}

	inside := &attendance.Coordinates{Latitude: 0.5, Longitude: 0.5}
	status, matched := ClassifyLocation(inside, []geofence.Geofence{fence})
	assert.Equal(t, attendance.LocationValid, status)
	require.NotNil(t, matched)

	outside := &attendance.Coordinates{Latitude: 1.5, Longitude: 0.5}
	status, matched = ClassifyLocation(outside, []geofence.Geofence{fence})
	assert.Equal(t, attendance.LocationInvalid, status)
	assert.Nil(t, matched)
}

func TestComputeWorkingHours(t *testing.T) {
	tests := []struct {
		name          string
		clockIn       time.Time
		clockOut      time.Time
		standardHours float64
		wantWorking   float64
		wantOvertime  float64
	}{
		{
			name:          "standard day no overtime",
			clockIn:       clockAt(9, 0, 0),
			clockOut:      clockAt(17, 0, 0),
			standardHours: 8,
			wantWorking:   8,
			wantOvertime:  0,
		},
		{
			name:          "half hour overtime",
			clockIn:       clockAt(9, 0, 0),
			clockOut:      clockAt(17, 30, 0),
			standardHours: 8,
			wantWorking:   8.5,
			wantOvertime:  0.5,
		},
		{
			name:          "late start long day rounds to two decimals",
			clockIn:       clockAt(9, 5, 0),
			clockOut:      clockAt(18, 0, 0),
			standardHours: 8,
			wantWorking:   8.92,
			wantOvertime:  0.92,
		},
		{
			name:          "short day clamps overtime at zero",
			clockIn:       clockAt(9, 0, 0),
			clockOut:      clockAt(13, 0, 0),
			standardHours: 8,
			wantWorking:   4,
			wantOvertime:  0,
		},
		{
			name:          "zero duration",
			clockIn:       clockAt(9, 0, 0),
			clockOut:      clockAt(9, 0, 0),
			standardHours: 8,
			wantWorking:   0,
			wantOvertime:  0,
		},
		{
			name:          "geofence override shortens the standard",
			clockIn:       clockAt(9, 0, 0),
			clockOut:      clockAt(16, 0, 0),
			standardHours: 6,
			wantWorking:   7,
			wantOvertime:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			working, overtime, err := ComputeWorkingHours(tt.clockIn, tt.clockOut, tt.standardHours)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantWorking, working, 1e-9)
			assert.InDelta(t, tt.wantOvertime, overtime, 1e-9)
		})
	}
}

func TestComputeWorkingHours_InvalidOrder(t *testing.T) {
	_, _, err := ComputeWorkingHours(clockAt(18, 0, 0), clockAt(9, 0, 0), 8)
	assert.True(t, errors.Is(err, attendance.ErrInvalidTimeOrder))
}
