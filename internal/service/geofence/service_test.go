package geofence

import (
	"context"
	"errors"
	"testing"

	"github.com/hadirly/hadirly-backend-go/internal/domain/geofence"
	"github.com/hadirly/hadirly-backend-go/internal/pkg/jwt"
	"github.com/hadirly/hadirly-backend-go/internal/pkg/utils"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGeofenceRepo struct {
	fences map[string]geofence.Geofence
}

func newFakeGeofenceRepo() *fakeGeofenceRepo {
	return &fakeGeofenceRepo{fences: make(map[string]geofence.Geofence)}
}

func (r *fakeGeofenceRepo) Create(_ context.Context, g geofence.Geofence) (geofence.Geofence, error) {
	g.ID = uuid.New().String()
	r.fences[g.ID] = g
	return g, nil
}

func (r *fakeGeofenceRepo) GetByID(_ context.Context, id string) (geofence.Geofence, error) {
	g, ok := r.fences[id]
	if !ok || g.DeletedAt != nil {
		return geofence.Geofence{}, geofence.ErrGeofenceNotFound
	}
	return g, nil
}

func (r *fakeGeofenceRepo) ListActive(_ context.Context) ([]geofence.Geofence, error) {
	var out []geofence.Geofence
	for _, g := range r.fences {
		if g.IsActive && g.DeletedAt == nil {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *fakeGeofenceRepo) List(_ context.Context) ([]geofence.Geofence, error) {
	var out []geofence.Geofence
	for _, g := range r.fences {
		if g.DeletedAt == nil {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *fakeGeofenceRepo) Update(_ context.Context, g geofence.Geofence) error {
	if _, ok := r.fences[g.ID]; !ok {
		return geofence.ErrGeofenceNotFound
	}
	r.fences[g.ID] = g
	return nil
}

func (r *fakeGeofenceRepo) SoftDelete(_ context.Context, id string) error {
	g, ok := r.fences[id]
	if !ok {
		return geofence.ErrGeofenceNotFound
	}
	now := g.CreatedAt
	g.DeletedAt = &now
	r.fences[id] = g
	return nil
}

func adminContext(t *testing.T) context.Context {
	t.Helper()

	jwtService := jwt.NewJWTService("test-secret", "1h")
	tokenString, _, err := jwtService.GenerateAccessToken("admin-1", true)
	require.NoError(t, err)

	token, err := jwtauth.VerifyToken(jwtService.JWTAuth(), tokenString)
	require.NoError(t, err)

	return jwtauth.NewContext(context.Background(), token, nil)
}

func floatPtr(v float64) *float64 { return &v }

func circleRequest() geofence.CreateRequest {
	return geofence.CreateRequest{
		Name:            "Head Office",
		Type:            "circle",
		CenterLatitude:  floatPtr(-6.2),
		CenterLongitude: floatPtr(106.8),
		RadiusMeters:    floatPtr(100),
	}
}

func TestCreate_Circle(t *testing.T) {
	repo := newFakeGeofenceRepo()
	svc := NewService(repo)
	ctx := adminContext(t)

	resp, err := svc.Create(ctx, circleRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "circle", resp.Type)
	assert.True(t, resp.IsActive)
	assert.Equal(t, "admin-1", resp.CreatedBy)
}

func TestCreate_CircleMissingRadius(t *testing.T) {
	repo := newFakeGeofenceRepo()
	svc := NewService(repo)
	ctx := adminContext(t)

	req := circleRequest()
	req.RadiusMeters = nil
	_, err := svc.Create(ctx, req)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "radius_meters")
}

func TestCreate_PolygonTooFewVertices(t *testing.T) {
	repo := newFakeGeofenceRepo()
	svc := NewService(repo)
	ctx := adminContext(t)

	_, err := svc.Create(ctx, geofence.CreateRequest{
		Name: "Yard",
		Type: "polygon",
		Vertices: []utils.Point{
			{Latitude: 0, Longitude: 0},
			{Latitude: 0, Longitude: 1},
		},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "vertices")
}

func TestUpdate_DeactivateFence(t *testing.T) {
	repo := newFakeGeofenceRepo()
	svc := NewService(repo)
	ctx := adminContext(t)

	created, err := svc.Create(ctx, circleRequest())
	require.NoError(t, err)

	inactive := false
	updated, err := svc.Update(ctx, geofence.UpdateRequest{ID: created.ID, IsActive: &inactive})
	require.NoError(t, err)

	assert.False(t, updated.IsActive)

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestUpdate_RejectsVerticesOnCircle(t *testing.T) {
	repo := newFakeGeofenceRepo()
	svc := NewService(repo)
	ctx := adminContext(t)

	created, err := svc.Create(ctx, circleRequest())
	require.NoError(t, err)

	_, err = svc.Update(ctx, geofence.UpdateRequest{
		ID: created.ID,
		Vertices: []utils.Point{
			{Latitude: 0, Longitude: 0},
			{Latitude: 0, Longitude: 1},
			{Latitude: 1, Longitude: 1},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vertices")

	// The stored shape is untouched.
	stored, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Vertices)
	require.NotNil(t, stored.RadiusMeters)
}

func TestUpdate_RejectsRadiusOnPolygon(t *testing.T) {
	repo := newFakeGeofenceRepo()
	svc := NewService(repo)
	ctx := adminContext(t)

	created, err := svc.Create(ctx, geofence.CreateRequest{
		Name: "Yard",
		Type: "polygon",
		Vertices: []utils.Point{
			{Latitude: 0, Longitude: 0},
			{Latitude: 0, Longitude: 1},
			{Latitude: 1, Longitude: 1},
		},
	})
	require.NoError(t, err)

	_, err = svc.Update(ctx, geofence.UpdateRequest{ID: created.ID, RadiusMeters: floatPtr(50)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "polygon")

	stored, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.RadiusMeters)
}

func TestTestPoint_Circle(t *testing.T) {
	repo := newFakeGeofenceRepo()
	svc := NewService(repo)
	ctx := adminContext(t)

	created, err := svc.Create(ctx, circleRequest())
	require.NoError(t, err)

	inside, err := svc.TestPoint(ctx, geofence.TestPointRequest{ID: created.ID, Latitude: -6.2, Longitude: 106.8})
	require.NoError(t, err)
	assert.True(t, inside.IsInside)
	require.NotNil(t, inside.DistanceMeters)
	assert.InDelta(t, 0, *inside.DistanceMeters, 0.001)

	outside, err := svc.TestPoint(ctx, geofence.TestPointRequest{ID: created.ID, Latitude: -6.3, Longitude: 106.8})
	require.NoError(t, err)
	assert.False(t, outside.IsInside)
	require.NotNil(t, outside.DistanceMeters)
	assert.Greater(t, *outside.DistanceMeters, 100.0)
}

func TestTestPoint_PolygonHasNoDistance(t *testing.T) {
	repo := newFakeGeofenceRepo()
	svc := NewService(repo)
	ctx := adminContext(t)

	created, err := svc.Create(ctx, geofence.CreateRequest{
		Name: "Yard",
		Type: "polygon",
		Vertices: []utils.Point{
			{Latitude: 0, Longitude: 0},
			{Latitude: 0, Longitude: 1},
			{Latitude: 1, Longitude: 1},
			{Latitude: 1, Longitude: 0},
		},
	})
	require.NoError(t, err)

	resp, err := svc.TestPoint(ctx, geofence.TestPointRequest{ID: created.ID, Latitude: 0.5, Longitude: 0.5})
	require.NoError(t, err)

	assert.True(t, resp.IsInside)
	assert.Nil(t, resp.DistanceMeters)
}

func TestTestPoint_InactiveFence(t *testing.T) {
	repo := newFakeGeofenceRepo()
	svc := NewService(repo)
	ctx := adminContext(t)

	inactive := false
	req := circleRequest()
	req.IsActive = &inactive
	created, err := svc.Create(ctx, req)
	require.NoError(t, err)

	resp, err := svc.TestPoint(ctx, geofence.TestPointRequest{ID: created.ID, Latitude: -6.2, Longitude: 106.8})
	require.NoError(t, err)

	assert.False(t, resp.IsInside)
}

func TestGet_NotFound(t *testing.T) {
	repo := newFakeGeofenceRepo()
	svc := NewService(repo)

	_, err := svc.Get(context.Background(), uuid.New().String())
	assert.True(t, errors.Is(err, geofence.ErrGeofenceNotFound))
}

func TestDelete_RemovesFromListing(t *testing.T) {
	repo := newFakeGeofenceRepo()
	svc := NewService(repo)
	ctx := adminContext(t)

	created, err := svc.Create(ctx, circleRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	listed, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, listed)
}
