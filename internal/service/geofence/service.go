package geofence

import (
	"context"
	"errors"
	"fmt"

	"github.com/hadirly/hadirly-backend-go/internal/domain/geofence"
	"github.com/hadirly/hadirly-backend-go/internal/pkg/validator"
	"github.com/go-chi/jwtauth/v5"
)

type ServiceImpl struct {
	geofenceRepo geofence.Repository
}

func NewService(geofenceRepo geofence.Repository) geofence.Service {
	return &ServiceImpl{
		geofenceRepo: geofenceRepo,
	}
}

func userIDFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user_id claim is missing or invalid")
	}

	return userID, nil
}

// Create implements geofence.Service.
func (s *ServiceImpl) Create(ctx context.Context, req geofence.CreateRequest) (geofence.GeofenceResponse, error) {
	if err := req.Validate(); err != nil {
		return geofence.GeofenceResponse{}, err
	}

	adminID, err := userIDFromContext(ctx)
	if err != nil {
		return geofence.GeofenceResponse{}, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	fence := geofence.Geofence{
		Name:                 req.Name,
		Type:                 geofence.Type(req.Type),
		CenterLatitude:       req.CenterLatitude,
		CenterLongitude:      req.CenterLongitude,
		RadiusMeters:         req.RadiusMeters,
		Vertices:             req.Vertices,
		IsActive:             isActive,
		WorkingHoursOverride: req.WorkingHoursOverride,
		TimezoneOverride:     req.TimezoneOverride,
		CreatedBy:            adminID,
	}

	created, err := s.geofenceRepo.Create(ctx, fence)
	if err != nil {
		return geofence.GeofenceResponse{}, fmt.Errorf("failed to create geofence: %w", err)
	}

	return mapGeofenceToResponse(created), nil
}

// Get implements geofence.Service.
func (s *ServiceImpl) Get(ctx context.Context, id string) (geofence.GeofenceResponse, error) {
	fence, err := s.geofenceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, geofence.ErrGeofenceNotFound) {
			return geofence.GeofenceResponse{}, geofence.ErrGeofenceNotFound
		}
		return geofence.GeofenceResponse{}, fmt.Errorf("failed to get geofence: %w", err)
	}

	return mapGeofenceToResponse(fence), nil
}

// List implements geofence.Service.
func (s *ServiceImpl) List(ctx context.Context) ([]geofence.GeofenceResponse, error) {
	fences, err := s.geofenceRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list geofences: %w", err)
	}

	responses := make([]geofence.GeofenceResponse, 0, len(fences))
	for _, fence := range fences {
		responses = append(responses, mapGeofenceToResponse(fence))
	}

	return responses, nil
}

// Update implements geofence.Service. Geometry fields are patched
// individually; a circle stays a circle and a polygon stays a polygon.
func (s *ServiceImpl) Update(ctx context.Context, req geofence.UpdateRequest) (geofence.GeofenceResponse, error) {
	if err := req.Validate(); err != nil {
		return geofence.GeofenceResponse{}, err
	}

	fence, err := s.geofenceRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, geofence.ErrGeofenceNotFound) {
			return geofence.GeofenceResponse{}, geofence.ErrGeofenceNotFound
		}
		return geofence.GeofenceResponse{}, fmt.Errorf("failed to get geofence: %w", err)
	}

	// Geometry patches must match the stored shape; a circle never carries
	// vertices and a polygon never carries a center or radius.
	switch fence.Type {
	case geofence.TypeCircle:
		if req.Vertices != nil {
			return geofence.GeofenceResponse{}, validator.ValidationErrors{{
				Field:   "vertices",
				Message: "vertices do not apply to a circle geofence",
			}}
		}
	case geofence.TypePolygon:
		if req.CenterLatitude != nil || req.CenterLongitude != nil || req.RadiusMeters != nil {
			return geofence.GeofenceResponse{}, validator.ValidationErrors{{
				Field:   "type",
				Message: "center and radius do not apply to a polygon geofence",
			}}
		}
	}

	if req.Name != nil {
		fence.Name = *req.Name
	}
	if req.CenterLatitude != nil {
		fence.CenterLatitude = req.CenterLatitude
	}
	if req.CenterLongitude != nil {
		fence.CenterLongitude = req.CenterLongitude
	}
	if req.RadiusMeters != nil {
		fence.RadiusMeters = req.RadiusMeters
	}
	if req.Vertices != nil {
		fence.Vertices = req.Vertices
	}
	if req.IsActive != nil {
		fence.IsActive = *req.IsActive
	}
	if req.WorkingHoursOverride != nil {
		fence.WorkingHoursOverride = req.WorkingHoursOverride
	}
	if req.TimezoneOverride != nil {
		fence.TimezoneOverride = req.TimezoneOverride
	}

	if err := s.geofenceRepo.Update(ctx, fence); err != nil {
		return geofence.GeofenceResponse{}, fmt.Errorf("failed to update geofence: %w", err)
	}

	return mapGeofenceToResponse(fence), nil
}

// Delete implements geofence.Service.
func (s *ServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.geofenceRepo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, geofence.ErrGeofenceNotFound) {
			return geofence.ErrGeofenceNotFound
		}
		return fmt.Errorf("failed to delete geofence: %w", err)
	}
	return nil
}

// TestPoint implements geofence.Service. The probe goes through the same
// containment path attendance uses, so an inactive geofence reports
// is_inside=false even when the point lies within its geometry.
func (s *ServiceImpl) TestPoint(ctx context.Context, req geofence.TestPointRequest) (geofence.TestPointResponse, error) {
	if err := req.Validate(); err != nil {
		return geofence.TestPointResponse{}, err
	}

	fence, err := s.geofenceRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, geofence.ErrGeofenceNotFound) {
			return geofence.TestPointResponse{}, geofence.ErrGeofenceNotFound
		}
		return geofence.TestPointResponse{}, fmt.Errorf("failed to get geofence: %w", err)
	}

	return geofence.TestPointResponse{
		IsInside:       fence.Contains(req.Latitude, req.Longitude),
		DistanceMeters: fence.DistanceFrom(req.Latitude, req.Longitude),
	}, nil
}

func mapGeofenceToResponse(fence geofence.Geofence) geofence.GeofenceResponse {
	return geofence.GeofenceResponse{
		ID:                   fence.ID,
		Name:                 fence.Name,
		Type:                 string(fence.Type),
		CenterLatitude:       fence.CenterLatitude,
		CenterLongitude:      fence.CenterLongitude,
		RadiusMeters:         fence.RadiusMeters,
		Vertices:             fence.Vertices,
		IsActive:             fence.IsActive,
		WorkingHoursOverride: fence.WorkingHoursOverride,
		TimezoneOverride:     fence.TimezoneOverride,
		CreatedBy:            fence.CreatedBy,
		CreatedAt:            fence.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:            fence.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}
