package postgresql

import (
	"context"
	"fmt"

	"github.com/hadirly/hadirly-backend-go/internal/domain/setting"
	"github.com/hadirly/hadirly-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type settingRepository struct {
	db *database.DB
}

func NewSettingRepository(db *database.DB) setting.Repository {
	return &settingRepository{db: db}
}

// GetByKey implements setting.Repository.
func (s *settingRepository) GetByKey(ctx context.Context, key string) (setting.Setting, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT key, value, category, is_public, updated_by, created_at, updated_at
		FROM settings
		WHERE key = $1
	`

	var entry setting.Setting
	err := q.QueryRow(ctx, query, key).Scan(
		&entry.Key, &entry.Value, &entry.Category, &entry.IsPublic,
		&entry.UpdatedBy, &entry.CreatedAt, &entry.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return setting.Setting{}, setting.ErrSettingNotFound
		}
		return setting.Setting{}, fmt.Errorf("failed to get setting: %w", err)
	}

	return entry, nil
}

// GetMany implements setting.Repository.
func (s *settingRepository) GetMany(ctx context.Context, keys []string) (map[string]setting.Setting, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT key, value, category, is_public, updated_by, created_at, updated_at
		FROM settings
		WHERE key = ANY($1)
	`

	rows, err := q.Query(ctx, query, keys)
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	entries := make(map[string]setting.Setting)
	for rows.Next() {
		var entry setting.Setting
		err := rows.Scan(
			&entry.Key, &entry.Value, &entry.Category, &entry.IsPublic,
			&entry.UpdatedBy, &entry.CreatedAt, &entry.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		entries[entry.Key] = entry
	}

	return entries, nil
}

// List implements setting.Repository.
func (s *settingRepository) List(ctx context.Context) ([]setting.Setting, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT key, value, category, is_public, updated_by, created_at, updated_at
		FROM settings
		ORDER BY category, key
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	var entries []setting.Setting
	for rows.Next() {
		var entry setting.Setting
		err := rows.Scan(
			&entry.Key, &entry.Value, &entry.Category, &entry.IsPublic,
			&entry.UpdatedBy, &entry.CreatedAt, &entry.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// Upsert implements setting.Repository.
func (s *settingRepository) Upsert(ctx context.Context, entry setting.Setting) (setting.Setting, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		INSERT INTO settings (key, value, category, is_public, updated_by)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			category = EXCLUDED.category,
			is_public = EXCLUDED.is_public,
			updated_by = EXCLUDED.updated_by,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		entry.Key, entry.Value, entry.Category, entry.IsPublic, entry.UpdatedBy,
	).Scan(&entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		return setting.Setting{}, fmt.Errorf("failed to upsert setting: %w", err)
	}

	return entry, nil
}
