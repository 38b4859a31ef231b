package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hadirly/hadirly-backend-go/internal/domain/geofence"
	"github.com/hadirly/hadirly-backend-go/internal/pkg/database"
	"github.com/hadirly/hadirly-backend-go/internal/pkg/utils"
	"github.com/jackc/pgx/v5"
)

type geofenceRepository struct {
	db *database.DB
}

func NewGeofenceRepository(db *database.DB) geofence.Repository {
	return &geofenceRepository{db: db}
}

const geofenceColumns = `
	g.id, g.name, g.type,
	g.center_latitude, g.center_longitude, g.radius_meters, g.vertices,
	g.is_active, g.working_hours_override, g.timezone_override,
	g.created_by, g.deleted_at, g.created_at, g.updated_at`

// vertices are stored as a jsonb array of {latitude, longitude} objects.
func scanGeofence(row pgx.Row, fence *geofence.Geofence) error {
	var vertices []byte
	err := row.Scan(
		&fence.ID, &fence.Name, &fence.Type,
		&fence.CenterLatitude, &fence.CenterLongitude, &fence.RadiusMeters, &vertices,
		&fence.IsActive, &fence.WorkingHoursOverride, &fence.TimezoneOverride,
		&fence.CreatedBy, &fence.DeletedAt, &fence.CreatedAt, &fence.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if len(vertices) > 0 {
		if err := json.Unmarshal(vertices, &fence.Vertices); err != nil {
			return fmt.Errorf("failed to decode geofence vertices: %w", err)
		}
	}
	return nil
}

func encodeVertices(vertices []utils.Point) ([]byte, error) {
	if len(vertices) == 0 {
		return nil, nil
	}
	return json.Marshal(vertices)
}

// Create implements geofence.Repository.
func (g *geofenceRepository) Create(ctx context.Context, fence geofence.Geofence) (geofence.Geofence, error) {
	q := GetQuerier(ctx, g.db)

	vertices, err := encodeVertices(fence.Vertices)
	if err != nil {
		return geofence.Geofence{}, fmt.Errorf("failed to encode geofence vertices: %w", err)
	}

	query := `
		INSERT INTO geofences (
			name, type, center_latitude, center_longitude, radius_meters, vertices,
			is_active, working_hours_override, timezone_override, created_by
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		) RETURNING id, created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		fence.Name,
		fence.Type,
		fence.CenterLatitude,
		fence.CenterLongitude,
		fence.RadiusMeters,
		vertices,
		fence.IsActive,
		fence.WorkingHoursOverride,
		fence.TimezoneOverride,
		fence.CreatedBy,
	).Scan(&fence.ID, &fence.CreatedAt, &fence.UpdatedAt)

	if err != nil {
		return geofence.Geofence{}, fmt.Errorf("failed to create geofence: %w", err)
	}

	return fence, nil
}

// GetByID implements geofence.Repository.
func (g *geofenceRepository) GetByID(ctx context.Context, id string) (geofence.Geofence, error) {
	q := GetQuerier(ctx, g.db)

	query := `
		SELECT ` + geofenceColumns + `
		FROM geofences g
		WHERE g.id = $1 AND g.deleted_at IS NULL
	`

	var fence geofence.Geofence
	err := scanGeofence(q.QueryRow(ctx, query, id), &fence)
	if err != nil {
		if err == pgx.ErrNoRows {
			return geofence.Geofence{}, geofence.ErrGeofenceNotFound
		}
		return geofence.Geofence{}, fmt.Errorf("failed to get geofence by ID: %w", err)
	}

	return fence, nil
}

// ListActive implements geofence.Repository.
func (g *geofenceRepository) ListActive(ctx context.Context) ([]geofence.Geofence, error) {
	return g.list(ctx, true)
}

// List implements geofence.Repository.
func (g *geofenceRepository) List(ctx context.Context) ([]geofence.Geofence, error) {
	return g.list(ctx, false)
}

func (g *geofenceRepository) list(ctx context.Context, activeOnly bool) ([]geofence.Geofence, error) {
	q := GetQuerier(ctx, g.db)

	query := `
		SELECT ` + geofenceColumns + `
		FROM geofences g
		WHERE g.deleted_at IS NULL
	`
	if activeOnly {
		query += " AND g.is_active = TRUE"
	}
	query += " ORDER BY g.created_at ASC"

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query geofences: %w", err)
	}
	defer rows.Close()

	var fences []geofence.Geofence
	for rows.Next() {
		var fence geofence.Geofence
		if err := scanGeofence(rows, &fence); err != nil {
			return nil, fmt.Errorf("failed to scan geofence: %w", err)
		}
		fences = append(fences, fence)
	}

	return fences, nil
}

// Update implements geofence.Repository.
func (g *geofenceRepository) Update(ctx context.Context, fence geofence.Geofence) error {
	q := GetQuerier(ctx, g.db)

	vertices, err := encodeVertices(fence.Vertices)
	if err != nil {
		return fmt.Errorf("failed to encode geofence vertices: %w", err)
	}

	query := `
		UPDATE geofences SET
			name = $2,
			center_latitude = $3,
			center_longitude = $4,
			radius_meters = $5,
			vertices = $6,
			is_active = $7,
			working_hours_override = $8,
			timezone_override = $9,
			updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	tag, err := q.Exec(ctx, query,
		fence.ID,
		fence.Name,
		fence.CenterLatitude,
		fence.CenterLongitude,
		fence.RadiusMeters,
		vertices,
		fence.IsActive,
		fence.WorkingHoursOverride,
		fence.TimezoneOverride,
	)
	if err != nil {
		return fmt.Errorf("failed to update geofence: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return geofence.ErrGeofenceNotFound
	}

	return nil
}

// SoftDelete implements geofence.Repository.
func (g *geofenceRepository) SoftDelete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, g.db)

	query := `
		UPDATE geofences
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	tag, err := q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete geofence: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return geofence.ErrGeofenceNotFound
	}

	return nil
}
