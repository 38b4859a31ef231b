package http

import (
	"encoding/json"
	"net/http"

	"github.com/hadirly/hadirly-backend-go/internal/domain/geofence"
	"github.com/hadirly/hadirly-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type GeofenceHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	TestPoint(w http.ResponseWriter, r *http.Request)
}

type geofenceHandlerImpl struct {
	geofenceService geofence.Service
}

func NewGeofenceHandler(geofenceService geofence.Service) GeofenceHandler {
	return &geofenceHandlerImpl{
		geofenceService: geofenceService,
	}
}

// Create implements GeofenceHandler.
func (h *geofenceHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req geofence.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.geofenceService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Geofence created", result)
}

// Get implements GeofenceHandler.
func (h *geofenceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.geofenceService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List implements GeofenceHandler.
func (h *geofenceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	results, err := h.geofenceService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// Update implements GeofenceHandler.
func (h *geofenceHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req geofence.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.geofenceService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Geofence updated successfully", result)
}

// Delete implements GeofenceHandler.
func (h *geofenceHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.geofenceService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Geofence deleted successfully", nil)
}

// TestPoint implements GeofenceHandler.
func (h *geofenceHandlerImpl) TestPoint(w http.ResponseWriter, r *http.Request) {
	var req geofence.TestPointRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.geofenceService.TestPoint(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
