package geofence

import "context"

// Service defines geofence administration and the containment probe.
// All mutating operations are admin-only; attendance processing never
// writes geofences.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (GeofenceResponse, error)
	Get(ctx context.Context, id string) (GeofenceResponse, error)
	List(ctx context.Context) ([]GeofenceResponse, error)
	Update(ctx context.Context, req UpdateRequest) (GeofenceResponse, error)
	Delete(ctx context.Context, id string) error

	// TestPoint answers whether a coordinate is inside the geofence and how
	// far it is from the reference point (nil for polygons).
	TestPoint(ctx context.Context, req TestPointRequest) (TestPointResponse, error)
}
