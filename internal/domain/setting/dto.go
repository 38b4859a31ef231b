package setting

import (
	"github.com/hadirly/hadirly-backend-go/internal/pkg/validator"
)

// ========================================
// SETTING DTOs
// ========================================

type UpsertRequest struct {
	Key      string  `json:"key"`
	Value    string  `json:"value"`
	Category *string `json:"category,omitempty"`
	IsPublic *bool   `json:"is_public,omitempty"`
}

func (r *UpsertRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Key) {
		errs = append(errs, validator.ValidationError{
			Field:   "key",
			Message: "key is required",
		})
	}
	if validator.IsEmpty(r.Value) {
		errs = append(errs, validator.ValidationError{
			Field:   "value",
			Message: "value is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SettingResponse struct {
	Key       string  `json:"key"`
	Value     string  `json:"value"`
	Category  string  `json:"category"`
	IsPublic  bool    `json:"is_public"`
	UpdatedBy *string `json:"updated_by,omitempty"`
	UpdatedAt string  `json:"updated_at"`
}

type PolicyResponse struct {
	LateHour        int     `json:"late_time_hour"`
	LateMinute      int     `json:"late_time_minute"`
	StandardHours   float64 `json:"standard_working_hours"`
	RequireApproval bool    `json:"require_approval"`
}
