package geofence

import (
	"time"

	"github.com/hadirly/hadirly-backend-go/internal/pkg/utils"
)

type Type string

const (
	TypeCircle  Type = "circle"
	TypePolygon Type = "polygon"
)

var TypeValues = []string{string(TypeCircle), string(TypePolygon)}

// Geofence is an administrator-defined work zone. It is read-only input to
// attendance processing; only the admin write path mutates it.
type Geofence struct {
	ID              string
	Name            string
	Type            Type
	CenterLatitude  *float64
	CenterLongitude *float64
	RadiusMeters    *float64
	Vertices        []utils.Point
	IsActive        bool

	// Per-geofence policy overrides; nil means the global setting applies.
	WorkingHoursOverride *float64
	TimezoneOverride     *string

	CreatedBy string
	DeletedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Contains reports whether the coordinate lies inside the geofence.
// Inactive geofences never match, regardless of geometry.
func (g Geofence) Contains(lat, lon float64) bool {
	if !g.IsActive {
		return false
	}

	switch g.Type {
	case TypeCircle:
		if g.CenterLatitude == nil || g.CenterLongitude == nil || g.RadiusMeters == nil {
			return false
		}
		d := utils.HaversineDistance(*g.CenterLatitude, *g.CenterLongitude, lat, lon)
		return d <= *g.RadiusMeters
	case TypePolygon:
		return utils.PointInPolygon(lat, lon, g.Vertices)
	}

	return false
}

// DistanceFrom returns the distance in meters from the geofence's reference
// point to the coordinate. Polygons have no single reference point, so the
// result is nil for them.
func (g Geofence) DistanceFrom(lat, lon float64) *float64 {
	if g.Type != TypeCircle || g.CenterLatitude == nil || g.CenterLongitude == nil {
		return nil
	}
	d := utils.HaversineDistance(*g.CenterLatitude, *g.CenterLongitude, lat, lon)
	return &d
}
