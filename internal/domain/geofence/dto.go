package geofence

import (
	"strings"

	"github.com/hadirly/hadirly-backend-go/internal/pkg/utils"
	"github.com/hadirly/hadirly-backend-go/internal/pkg/validator"
)

// ========================================
// GEOFENCE DTOs
// ========================================

type CreateRequest struct {
	Name            string        `json:"name"`
	Type            string        `json:"type"` // circle | polygon
	CenterLatitude  *float64      `json:"center_latitude,omitempty"`
	CenterLongitude *float64      `json:"center_longitude,omitempty"`
	RadiusMeters    *float64      `json:"radius_meters,omitempty"`
	Vertices        []utils.Point `json:"vertices,omitempty"`
	IsActive        *bool         `json:"is_active,omitempty"`

	WorkingHoursOverride *float64 `json:"working_hours_override,omitempty"`
	TimezoneOverride     *string  `json:"timezone_override,omitempty"`
}

func (r *CreateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if !validator.IsInSlice(r.Type, TypeValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be one of: " + strings.Join(TypeValues, ", "),
		})
		if len(errs) > 0 {
			return errs
		}
	}

	switch Type(r.Type) {
	case TypeCircle:
		// A circle always has both center and radius.
		if r.CenterLatitude == nil || r.CenterLongitude == nil {
			errs = append(errs, validator.ValidationError{
				Field:   "center",
				Message: "circle geofence requires center_latitude and center_longitude",
			})
		}
		if r.RadiusMeters == nil || *r.RadiusMeters <= 0 {
			errs = append(errs, validator.ValidationError{
				Field:   "radius_meters",
				Message: "circle geofence requires a positive radius_meters",
			})
		}
		if r.CenterLatitude != nil && (*r.CenterLatitude < -90 || *r.CenterLatitude > 90) {
			errs = append(errs, validator.ValidationError{
				Field:   "center_latitude",
				Message: "center_latitude must be between -90 and 90",
			})
		}
		if r.CenterLongitude != nil && (*r.CenterLongitude < -180 || *r.CenterLongitude > 180) {
			errs = append(errs, validator.ValidationError{
				Field:   "center_longitude",
				Message: "center_longitude must be between -180 and 180",
			})
		}
	case TypePolygon:
		// A polygon always has at least 3 ordered vertices.
		if len(r.Vertices) < 3 {
			errs = append(errs, validator.ValidationError{
				Field:   "vertices",
				Message: "polygon geofence requires at least 3 vertices",
			})
		}
		for _, v := range r.Vertices {
			if v.Latitude < -90 || v.Latitude > 90 || v.Longitude < -180 || v.Longitude > 180 {
				errs = append(errs, validator.ValidationError{
					Field:   "vertices",
					Message: "vertex coordinates out of range",
				})
				break
			}
		}
	}

	if r.WorkingHoursOverride != nil && (*r.WorkingHoursOverride <= 0 || *r.WorkingHoursOverride > 24) {
		errs = append(errs, validator.ValidationError{
			Field:   "working_hours_override",
			Message: "working_hours_override must be between 0 and 24",
		})
	}

	if r.TimezoneOverride != nil && !validator.IsValidTimezone(*r.TimezoneOverride) {
		errs = append(errs, validator.ValidationError{
			Field:   "timezone_override",
			Message: "timezone_override must be a valid IANA timezone name",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateRequest struct {
	ID              string        `json:"-"`
	Name            *string       `json:"name,omitempty"`
	CenterLatitude  *float64      `json:"center_latitude,omitempty"`
	CenterLongitude *float64      `json:"center_longitude,omitempty"`
	RadiusMeters    *float64      `json:"radius_meters,omitempty"`
	Vertices        []utils.Point `json:"vertices,omitempty"`
	IsActive        *bool         `json:"is_active,omitempty"`

	WorkingHoursOverride *float64 `json:"working_hours_override,omitempty"`
	TimezoneOverride     *string  `json:"timezone_override,omitempty"`
}

func (r *UpdateRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not be empty",
		})
	}
	if r.RadiusMeters != nil && *r.RadiusMeters <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "radius_meters",
			Message: "radius_meters must be positive",
		})
	}
	if r.CenterLatitude != nil && (*r.CenterLatitude < -90 || *r.CenterLatitude > 90) {
		errs = append(errs, validator.ValidationError{
			Field:   "center_latitude",
			Message: "center_latitude must be between -90 and 90",
		})
	}
	if r.CenterLongitude != nil && (*r.CenterLongitude < -180 || *r.CenterLongitude > 180) {
		errs = append(errs, validator.ValidationError{
			Field:   "center_longitude",
			Message: "center_longitude must be between -180 and 180",
		})
	}
	if r.Vertices != nil && len(r.Vertices) < 3 {
		errs = append(errs, validator.ValidationError{
			Field:   "vertices",
			Message: "polygon geofence requires at least 3 vertices",
		})
	}
	if r.TimezoneOverride != nil && !validator.IsValidTimezone(*r.TimezoneOverride) {
		errs = append(errs, validator.ValidationError{
			Field:   "timezone_override",
			Message: "timezone_override must be a valid IANA timezone name",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// TestPointRequest is the administrative containment probe.
type TestPointRequest struct {
	ID        string  `json:"-"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

func (r *TestPointRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Latitude < -90 || r.Latitude > 90 {
		errs = append(errs, validator.ValidationError{
			Field:   "lat",
			Message: "lat must be between -90 and 90",
		})
	}
	if r.Longitude < -180 || r.Longitude > 180 {
		errs = append(errs, validator.ValidationError{
			Field:   "lon",
			Message: "lon must be between -180 and 180",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type TestPointResponse struct {
	IsInside       bool     `json:"is_inside"`
	DistanceMeters *float64 `json:"distance_meters"` // null for polygons
}

type GeofenceResponse struct {
	ID                   string        `json:"id"`
	Name                 string        `json:"name"`
	Type                 string        `json:"type"`
	CenterLatitude       *float64      `json:"center_latitude,omitempty"`
	CenterLongitude      *float64      `json:"center_longitude,omitempty"`
	RadiusMeters         *float64      `json:"radius_meters,omitempty"`
	Vertices             []utils.Point `json:"vertices,omitempty"`
	IsActive             bool          `json:"is_active"`
	WorkingHoursOverride *float64      `json:"working_hours_override,omitempty"`
	TimezoneOverride     *string       `json:"timezone_override,omitempty"`
	CreatedBy            string        `json:"created_by"`
	CreatedAt            string        `json:"created_at"`
	UpdatedAt            string        `json:"updated_at"`
}
