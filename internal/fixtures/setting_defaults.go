package fixtures

import (
	"context"
	"fmt"

	"github.com/hadirly/hadirly-backend-go/internal/domain/setting"
)

// DefaultSettings returns the seed rows for a fresh installation. Values
// mirror setting.DefaultPolicy; seeding them makes the policy visible and
// editable in the admin settings list from day one.
func DefaultSettings() []setting.Setting {
	return []setting.Setting{
		{
			Key:      setting.KeyLateTimeHour,
			Value:    "9",
			Category: "attendance",
			IsPublic: true,
		},
		{
			Key:      setting.KeyLateTimeMinute,
			Value:    "0",
			Category: "attendance",
			IsPublic: true,
		},
		{
			Key:      setting.KeyStandardWorkingHours,
			Value:    "8",
			Category: "attendance",
			IsPublic: true,
		},
		{
			Key:      setting.KeyRequireApproval,
			Value:    "true",
			Category: "attendance",
			IsPublic: false,
		},
	}
}

// SeedDefaultSettings writes missing default settings. Existing entries are
// left untouched so operator edits survive restarts.
func SeedDefaultSettings(ctx context.Context, repo setting.Repository) error {
	for _, entry := range DefaultSettings() {
		if _, err := repo.GetByKey(ctx, entry.Key); err == nil {
			continue
		}
		if _, err := repo.Upsert(ctx, entry); err != nil {
			return fmt.Errorf("failed to seed setting %s: %w", entry.Key, err)
		}
	}
	return nil
}
