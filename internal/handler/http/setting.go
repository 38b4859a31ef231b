package http

import (
	"encoding/json"
	"net/http"

	"github.com/hadirly/hadirly-backend-go/internal/domain/setting"
	"github.com/hadirly/hadirly-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type SettingHandler interface {
	GetPolicy(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Upsert(w http.ResponseWriter, r *http.Request)
}

type settingHandlerImpl struct {
	settingService setting.Service
}

func NewSettingHandler(settingService setting.Service) SettingHandler {
	return &settingHandlerImpl{
		settingService: settingService,
	}
}

// GetPolicy returns the resolved attendance policy, defaults filled in.
func (h *settingHandlerImpl) GetPolicy(w http.ResponseWriter, r *http.Request) {
	policy, err := h.settingService.Snapshot(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, setting.PolicyResponse{
		LateHour:        policy.LateHour,
		LateMinute:      policy.LateMinute,
		StandardHours:   policy.StandardHours,
		RequireApproval: policy.RequireApproval,
	})
}

// Get implements SettingHandler.
func (h *settingHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	result, err := h.settingService.Get(r.Context(), key)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List implements SettingHandler.
func (h *settingHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	results, err := h.settingService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// Upsert implements SettingHandler.
func (h *settingHandlerImpl) Upsert(w http.ResponseWriter, r *http.Request) {
	var req setting.UpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.settingService.Upsert(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Setting saved", result)
}
