package setting

import "errors"

// Setting domain errors
var (
	ErrSettingNotFound = errors.New("setting not found")
)
