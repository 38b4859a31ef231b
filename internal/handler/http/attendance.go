package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/hadirly/hadirly-backend-go/internal/domain/attendance"
	"github.com/hadirly/hadirly-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	ClockIn(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	CreateManualEntry(w http.ResponseWriter, r *http.Request)
	Decide(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	GetMyAttendance(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.Service
}

func NewAttendanceHandler(attendanceService attendance.Service) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// parseClockForm extracts the 'data' JSON field and the proof photo from a
// multipart clock event submission.
func parseClockForm(w http.ResponseWriter, r *http.Request, dst interface{}) (ok bool, cleanup func()) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return false, nil
	}

	if dataJSON := r.FormValue("data"); dataJSON != "" {
		if err := json.Unmarshal([]byte(dataJSON), dst); err != nil {
			slog.Error("Failed to unmarshal JSON data", "error", err)
			response.BadRequest(w, "Invalid request format", nil)
			return false, nil
		}
	}

	file, fileHeader, err := r.FormFile("photo")
	if err != nil {
		if err == http.ErrMissingFile {
			response.BadRequest(w, "Attendance proof photo is required", nil)
			return false, nil
		}
		slog.Error("Failed to get file from form", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return false, nil
	}

	switch req := dst.(type) {
	case *attendance.ClockInRequest:
		req.File = file
		req.FileHeader = fileHeader
	case *attendance.ClockOutRequest:
		req.File = file
		req.FileHeader = fileHeader
	}

	return true, func() { file.Close() }
}

// ClockIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	var req attendance.ClockInRequest

	ok, cleanup := parseClockForm(w, r, &req)
	if !ok {
		return
	}
	defer cleanup()

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.ClockIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Clock in successful", result)
}

// ClockOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	var req attendance.ClockOutRequest

	ok, cleanup := parseClockForm(w, r, &req)
	if !ok {
		return
	}
	defer cleanup()

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.ClockOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Clock out successful", result)
}

// CreateManualEntry implements AttendanceHandler.
func (h *attendanceHandlerImpl) CreateManualEntry(w http.ResponseWriter, r *http.Request) {
	var req attendance.ManualEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.CreateManualEntry(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Manual attendance entry created", result)
}

// Decide implements AttendanceHandler.
func (h *attendanceHandlerImpl) Decide(w http.ResponseWriter, r *http.Request) {
	var req attendance.DecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.attendanceService.Decide(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Decision recorded", result)
}

// Get implements AttendanceHandler.
func (h *attendanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.attendanceService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func parseAttendanceFilter(r *http.Request) attendance.Filter {
	filter := attendance.Filter{}
	query := r.URL.Query()

	if userID := query.Get("user_id"); userID != "" {
		filter.UserID = &userID
	}
	if date := query.Get("date"); date != "" {
		filter.Date = &date
	}
	if startDate := query.Get("start_date"); startDate != "" {
		filter.StartDate = &startDate
	}
	if endDate := query.Get("end_date"); endDate != "" {
		filter.EndDate = &endDate
	}
	if status := query.Get("status"); status != "" {
		filter.Status = &status
	}
	if approvalStatus := query.Get("approval_status"); approvalStatus != "" {
		filter.ApprovalStatus = &approvalStatus
	}

	filter.Page = 1
	if p := query.Get("page"); p != "" {
		if pageNum, err := strconv.Atoi(p); err == nil && pageNum > 0 {
			filter.Page = pageNum
		}
	}

	filter.Limit = 20
	if l := query.Get("limit"); l != "" {
		if limitNum, err := strconv.Atoi(l); err == nil && limitNum > 0 {
			filter.Limit = limitNum
		}
	}

	filter.SortBy = query.Get("sort_by")
	filter.SortOrder = query.Get("sort_order")

	return filter
}

// GetMyAttendance implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMyAttendance(w http.ResponseWriter, r *http.Request) {
	filter := parseAttendanceFilter(r)
	filter.UserID = nil // always scoped to the caller

	results, err := h.attendanceService.ListMy(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := parseAttendanceFilter(r)

	results, err := h.attendanceService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// Update implements AttendanceHandler.
func (h *attendanceHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req attendance.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.attendanceService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance updated successfully", result)
}

// Delete implements AttendanceHandler.
func (h *attendanceHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.attendanceService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance deleted successfully", nil)
}
