package attendance

import (
	"mime/multipart"
	"strings"

	"github.com/hadirly/hadirly-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

// Coordinates is an optional GPS fix supplied with a clock event. A missing
// fix is a valid remote-work submission, not an error.
type Coordinates struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

type ClockInRequest struct {
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	Notes       *string      `json:"notes,omitempty"`

	PhotoRef   *string               `json:"-"`
	File       multipart.File        `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`
}

func (r *ClockInRequest) Validate() error {
	errs := validateClockEvent(r.Coordinates, r.FileHeader)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ClockOutRequest struct {
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	Notes       *string      `json:"notes,omitempty"`

	PhotoRef   *string               `json:"-"`
	File       multipart.File        `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`
}

func (r *ClockOutRequest) Validate() error {
	errs := validateClockEvent(r.Coordinates, r.FileHeader)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateClockEvent(coords *Coordinates, fileHeader *multipart.FileHeader) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if coords != nil {
		if coords.Latitude < -90 || coords.Latitude > 90 {
			errs = append(errs, validator.ValidationError{
				Field:   "coordinates.lat",
				Message: "latitude must be between -90 and 90",
			})
		}
		if coords.Longitude < -180 || coords.Longitude > 180 {
			errs = append(errs, validator.ValidationError{
				Field:   "coordinates.lon",
				Message: "longitude must be between -180 and 180",
			})
		}
	}

	if fileHeader == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "photo",
			Message: "attendance proof photo is required",
		})
		return errs
	}

	ext := strings.ToLower(fileHeader.Filename)
	if idx := strings.LastIndex(ext, "."); idx >= 0 {
		ext = ext[idx:]
	} else {
		ext = ""
	}

	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		errs = append(errs, validator.ValidationError{
			Field:   "photo",
			Message: "invalid file type: only jpg, jpeg, png allowed",
		})
	} else if fileHeader.Size > 10<<20 { // 10MB
		errs = append(errs, validator.ValidationError{
			Field:   "photo",
			Message: "attendance proof photo size must not exceed 10MB",
		})
	}

	return errs
}

// ManualEntryRequest lets an administrator record attendance directly,
// bypassing lateness and geofence evaluation. The reason is mandatory.
type ManualEntryRequest struct {
	UserID       string  `json:"user_id"`
	Date         string  `json:"date"`                     // YYYY-MM-DD
	ClockInTime  *string `json:"clock_in_time,omitempty"`  // HH:MM:SS
	ClockOutTime *string `json:"clock_out_time,omitempty"` // HH:MM:SS
	Status       string  `json:"status"`
	Reason       string  `json:"reason"`
	Notes        *string `json:"notes,omitempty"`
}

func (r *ManualEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}

	if _, valid := validator.IsValidDate(r.Date); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if !validator.IsInSlice(r.Status, StatusValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: " + strings.Join(StatusValues, ", "),
		})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "manual entry reason is required",
		})
	}

	if r.ClockInTime != nil && !validator.IsValidClockTime(*r.ClockInTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "clock_in_time",
			Message: "clock_in_time must be in HH:MM:SS format",
		})
	}
	if r.ClockOutTime != nil && !validator.IsValidClockTime(*r.ClockOutTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "clock_out_time",
			Message: "clock_out_time must be in HH:MM:SS format",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// DecisionRequest approves or rejects a submission. Re-deciding an already
// decided record overwrites the approver and notes.
type DecisionRequest struct {
	ID       string  `json:"-"`
	Decision string  `json:"decision"` // approved | rejected
	Notes    *string `json:"notes,omitempty"`
}

func (r *DecisionRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Decision != string(ApprovalApproved) && r.Decision != string(ApprovalRejected) {
		errs = append(errs, validator.ValidationError{
			Field:   "decision",
			Message: "decision must be one of: approved, rejected",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateRequest is the admin fix-up path for wrong clock times and the like.
type UpdateRequest struct {
	ID                string   `json:"-"`
	ClockInTime       *string  `json:"clock_in_time,omitempty"`  // HH:MM:SS, combined with the record date
	ClockOutTime      *string  `json:"clock_out_time,omitempty"` // HH:MM:SS
	ClockInLatitude   *float64 `json:"clock_in_latitude,omitempty"`
	ClockInLongitude  *float64 `json:"clock_in_longitude,omitempty"`
	ClockOutLatitude  *float64 `json:"clock_out_latitude,omitempty"`
	ClockOutLongitude *float64 `json:"clock_out_longitude,omitempty"`
	Status            *string  `json:"status,omitempty"`
	Notes             *string  `json:"notes,omitempty"`
}

func (r *UpdateRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Status != nil && !validator.IsInSlice(*r.Status, StatusValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: " + strings.Join(StatusValues, ", "),
		})
	}

	if r.ClockInTime != nil && !validator.IsValidClockTime(*r.ClockInTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "clock_in_time",
			Message: "clock_in_time must be in HH:MM:SS format",
		})
	}
	if r.ClockOutTime != nil && !validator.IsValidClockTime(*r.ClockOutTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "clock_out_time",
			Message: "clock_out_time must be in HH:MM:SS format",
		})
	}

	if r.ClockInLatitude != nil && (*r.ClockInLatitude < -90 || *r.ClockInLatitude > 90) {
		errs = append(errs, validator.ValidationError{
			Field:   "clock_in_latitude",
			Message: "clock_in_latitude must be between -90 and 90",
		})
	}
	if r.ClockInLongitude != nil && (*r.ClockInLongitude < -180 || *r.ClockInLongitude > 180) {
		errs = append(errs, validator.ValidationError{
			Field:   "clock_in_longitude",
			Message: "clock_in_longitude must be between -180 and 180",
		})
	}
	if r.ClockOutLatitude != nil && (*r.ClockOutLatitude < -90 || *r.ClockOutLatitude > 90) {
		errs = append(errs, validator.ValidationError{
			Field:   "clock_out_latitude",
			Message: "clock_out_latitude must be between -90 and 90",
		})
	}
	if r.ClockOutLongitude != nil && (*r.ClockOutLongitude < -180 || *r.ClockOutLongitude > 180) {
		errs = append(errs, validator.ValidationError{
			Field:   "clock_out_longitude",
			Message: "clock_out_longitude must be between -180 and 180",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========================================
// FILTERS
// ========================================

type Filter struct {
	UserID         *string `json:"user_id,omitempty"`
	Date           *string `json:"date,omitempty"`       // YYYY-MM-DD
	StartDate      *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate        *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status         *string `json:"status,omitempty"`
	ApprovalStatus *string `json:"approval_status,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`

	SortBy    string `json:"sort_by"`    // date, clock_in_time, clock_out_time, status
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *Filter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.Status != nil && !validator.IsInSlice(*f.Status, StatusValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: " + strings.Join(StatusValues, ", "),
		})
	}

	if f.ApprovalStatus != nil {
		valid := []string{string(ApprovalPending), string(ApprovalApproved), string(ApprovalRejected)}
		if !validator.IsInSlice(*f.ApprovalStatus, valid) {
			errs = append(errs, validator.ValidationError{
				Field:   "approval_status",
				Message: "approval_status must be one of: pending, approved, rejected",
			})
		}
	}

	for field, value := range map[string]*string{
		"date":       f.Date,
		"start_date": f.StartDate,
		"end_date":   f.EndDate,
	} {
		if value != nil && *value != "" {
			if _, valid := validator.IsValidDate(*value); !valid {
				errs = append(errs, validator.ValidationError{
					Field:   field,
					Message: field + " must be in YYYY-MM-DD format",
				})
			}
		}
	}

	if f.SortBy != "" {
		validSortFields := []string{"date", "clock_in_time", "clock_out_time", "status"}
		if !validator.IsInSlice(f.SortBy, validSortFields) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_by",
				Message: "sort_by must be one of: date, clock_in_time, clock_out_time, status",
			})
		}
	} else {
		f.SortBy = "date"
	}

	if f.SortOrder != "" {
		if !validator.IsInSlice(strings.ToLower(f.SortOrder), []string{"asc", "desc"}) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_order",
				Message: "sort_order must be one of: asc, desc",
			})
		}
	} else {
		f.SortOrder = "desc"
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========================================
// RESPONSES
// ========================================

type AttendanceResponse struct {
	ID                string   `json:"id"`
	UserID            string   `json:"user_id"`
	UserName          *string  `json:"user_name,omitempty"`
	Date              string   `json:"date"`
	ClockInTime       *string  `json:"clock_in_time,omitempty"`
	ClockOutTime      *string  `json:"clock_out_time,omitempty"`
	ClockInLatitude   *float64 `json:"clock_in_latitude,omitempty"`
	ClockInLongitude  *float64 `json:"clock_in_longitude,omitempty"`
	ClockOutLatitude  *float64 `json:"clock_out_latitude,omitempty"`
	ClockOutLongitude *float64 `json:"clock_out_longitude,omitempty"`
	ClockInPhotoRef   *string  `json:"clock_in_photo_ref,omitempty"`
	ClockOutPhotoRef  *string  `json:"clock_out_photo_ref,omitempty"`

	// Browsable proof URLs, populated on the single-record view only.
	ClockInPhotoURL  *string `json:"clock_in_photo_url,omitempty"`
	ClockOutPhotoURL *string `json:"clock_out_photo_url,omitempty"`
	Status            string   `json:"status"`
	LocationStatus    string   `json:"location_status"`
	ApprovalStatus    string   `json:"approval_status"`
	ApprovedBy        *string  `json:"approved_by,omitempty"`
	ApprovedAt        *string  `json:"approved_at,omitempty"`
	ApprovalNotes     *string  `json:"approval_notes,omitempty"`
	GeofenceID        *string  `json:"geofence_id,omitempty"`
	WorkingHours      *float64 `json:"working_hours,omitempty"`
	OvertimeHours     *float64 `json:"overtime_hours,omitempty"`
	Notes             *string  `json:"notes,omitempty"`
	IsManualEntry     bool     `json:"is_manual_entry"`
	ManualReason      *string  `json:"manual_reason,omitempty"`
	CreatedAt         string   `json:"created_at"`
	UpdatedAt         string   `json:"updated_at"`
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Showing     string               `json:"showing"`
	Attendances []AttendanceResponse `json:"attendances"`
}
