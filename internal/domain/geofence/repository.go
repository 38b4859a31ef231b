package geofence

import "context"

// Repository defines data access for geofences.
type Repository interface {
	Create(ctx context.Context, g Geofence) (Geofence, error)

	// GetByID retrieves a geofence by ID. Soft-deleted rows are excluded;
	// inactive geofences are still returned (deactivation is not deletion).
	GetByID(ctx context.Context, id string) (Geofence, error)

	// ListActive returns all active, non-deleted geofences. This is the set
	// attendance processing evaluates clock events against.
	ListActive(ctx context.Context) ([]Geofence, error)

	// List returns all non-deleted geofences, active or not.
	List(ctx context.Context) ([]Geofence, error)

	Update(ctx context.Context, g Geofence) error

	// SoftDelete flags a geofence deleted while preserving history.
	SoftDelete(ctx context.Context, id string) error
}
