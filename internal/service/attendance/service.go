package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/hadirly/hadirly-backend-go/internal/domain/attendance"
	"github.com/hadirly/hadirly-backend-go/internal/domain/geofence"
	"github.com/hadirly/hadirly-backend-go/internal/domain/setting"
	"github.com/hadirly/hadirly-backend-go/internal/pkg/database"
	"github.com/hadirly/hadirly-backend-go/internal/repository/postgresql"
	"github.com/hadirly/hadirly-backend-go/internal/service/file"
	"github.com/go-chi/jwtauth/v5"
	"github.com/jackc/pgx/v5"
)

type ServiceImpl struct {
	db             *database.DB
	attendanceRepo attendance.Repository
	geofenceRepo   geofence.Repository
	settings       setting.Provider
	fileService    file.FileService
	appLocation    *time.Location

	// now is swapped out in tests to pin wall-clock time.
	now func() time.Time
}

func NewService(
	db *database.DB,
	attendanceRepo attendance.Repository,
	geofenceRepo geofence.Repository,
	settings setting.Provider,
	fileService file.FileService,
	appLocation *time.Location,
) attendance.Service {
	if appLocation == nil {
		appLocation = time.UTC
	}
	return &ServiceImpl{
		db:             db,
		attendanceRepo: attendanceRepo,
		geofenceRepo:   geofenceRepo,
		settings:       settings,
		fileService:    fileService,
		appLocation:    appLocation,
		now:            time.Now,
	}
}

// inTransaction serializes a read-modify-write sequence against the pool;
// the repositories pick the transaction up from the context. A service
// constructed without a pool runs fn directly.
func (s *ServiceImpl) inTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.db == nil {
		return fn(ctx)
	}
	return postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		return fn(context.WithValue(ctx, "tx", tx))
	})
}

// userIDFromContext extracts the authenticated user from JWT claims.
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

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format("2006-01-02 15:04:05")
	return &format
}

// localDay truncates an instant to its calendar date in the given location.
func localDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// ClockIn implements attendance.Service.
func (s *ServiceImpl) ClockIn(ctx context.Context, req attendance.ClockInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	policy, err := s.settings.Snapshot(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to resolve policy snapshot: %w", err)
	}

	fences, err := s.geofenceRepo.ListActive(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to list active geofences: %w", err)
	}

	locationStatus, matched := ClassifyLocation(req.Coordinates, fences)

	// Lateness is judged in the matched geofence's timezone when it carries
	// an override, otherwise in the configured application timezone.
	loc := s.appLocation
	if matched != nil && matched.TimezoneOverride != nil {
		if override, err := time.LoadLocation(*matched.TimezoneOverride); err == nil {
			loc = override
		}
	}

	nowUTC := s.now().UTC()
	dateLocal := localDay(nowUTC, s.appLocation)

	// Cheap rejection before paying for the proof upload; the transaction
	// below re-checks under serialization.
	existing, err := s.attendanceRepo.GetByUserAndDate(ctx, userID, dateLocal)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance for today: %w", err)
	}
	if existing.HasClockedIn() {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyClockedIn
	}

	status := attendance.StatusPresent
	if IsLate(nowUTC.In(loc), policy.LateHour, policy.LateMinute) {
		status = attendance.StatusLate
	}

	approvalStatus := attendance.ApprovalApproved
	if policy.RequireApproval {
		approvalStatus = attendance.ApprovalPending
	}

	photoRef, err := s.fileService.UploadAttendanceProof(ctx, userID, dateLocal, req.File, req.FileHeader.Filename, "clock_in")
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to upload attendance proof: %w", err)
	}
	req.PhotoRef = &photoRef

	var matchedID *string
	if matched != nil {
		matchedID = &matched.ID
	}

	record := attendance.Attendance{
		UserID: userID,

		// Date is the working day, not a timestamp.
		Date: dateLocal,

		// Absolute instant, stored UTC.
		ClockIn: &nowUTC,

		ClockInPhotoRef: req.PhotoRef,
		Status:          status,
		LocationStatus:  locationStatus,
		ApprovalStatus:  approvalStatus,
		GeofenceID:      matchedID,
		Notes:           req.Notes,
	}
	if req.Coordinates != nil {
		record.ClockInLatitude = &req.Coordinates.Latitude
		record.ClockInLongitude = &req.Coordinates.Longitude
	}

	var stored attendance.Attendance
	err = s.inTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.attendanceRepo.GetByUserAndDate(ctx, userID, dateLocal)
		if err != nil {
			return fmt.Errorf("failed to get attendance for today: %w", err)
		}
		if existing.HasClockedIn() {
			return attendance.ErrAlreadyClockedIn
		}

		if existing != nil {
			// A record without a clock-in can pre-exist (absent marking); the
			// clock-in claims it instead of inserting a duplicate day.
			record.ID = existing.ID
			record.CreatedAt = existing.CreatedAt
			if err := s.attendanceRepo.Update(ctx, record); err != nil {
				return fmt.Errorf("failed to update attendance record: %w", err)
			}
			stored, err = s.attendanceRepo.GetByID(ctx, record.ID)
			if err != nil {
				return fmt.Errorf("failed to get updated attendance: %w", err)
			}
			return nil
		}

		stored, err = s.attendanceRepo.Create(ctx, record)
		if err != nil {
			if errors.Is(err, attendance.ErrDuplicateRecord) {
				// A concurrent clock-in won the unique-index race.
				return attendance.ErrAlreadyClockedIn
			}
			return fmt.Errorf("failed to create attendance record: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyClockedIn) {
			// The proof was already stored; remove it so the loser of the
			// race leaves nothing behind.
			if delErr := s.fileService.DeleteFile(ctx, photoRef); delErr != nil {
				slog.Warn("Failed to remove orphaned attendance proof", "path", photoRef, "error", delErr)
			}
		}
		return attendance.AttendanceResponse{}, err
	}

	return mapAttendanceToResponse(stored), nil
}

// ClockOut implements attendance.Service.
func (s *ServiceImpl) ClockOut(ctx context.Context, req attendance.ClockOutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	policy, err := s.settings.Snapshot(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to resolve policy snapshot: %w", err)
	}

	nowUTC := s.now().UTC()
	dateLocal := localDay(nowUTC, s.appLocation)

	var stored attendance.Attendance
	err = s.inTransaction(ctx, func(ctx context.Context) error {
		record, err := s.attendanceRepo.GetByUserAndDate(ctx, userID, dateLocal)
		if err != nil {
			return fmt.Errorf("failed to get attendance for today: %w", err)
		}
		if !record.HasClockedIn() {
			return attendance.ErrNotClockedIn
		}
		if record.HasClockedOut() {
			return attendance.ErrAlreadyClockedOut
		}

		standardHours := policy.StandardHours
		if record.GeofenceID != nil {
			fence, err := s.geofenceRepo.GetByID(ctx, *record.GeofenceID)
			if err == nil && fence.WorkingHoursOverride != nil {
				standardHours = *fence.WorkingHoursOverride
			}
		}

		working, overtime, err := ComputeWorkingHours(*record.ClockIn, nowUTC, standardHours)
		if err != nil {
			return err
		}

		photoRef, err := s.fileService.UploadAttendanceProof(ctx, userID, dateLocal, req.File, req.FileHeader.Filename, "clock_out")
		if err != nil {
			return fmt.Errorf("failed to upload attendance proof: %w", err)
		}

		record.ClockOut = &nowUTC
		record.ClockOutPhotoRef = &photoRef
		if req.Coordinates != nil {
			record.ClockOutLatitude = &req.Coordinates.Latitude
			record.ClockOutLongitude = &req.Coordinates.Longitude
		}
		record.WorkingHours = &working
		record.OvertimeHours = &overtime
		if req.Notes != nil {
			record.Notes = req.Notes
		}

		// A clock-out is a new fact requiring re-review, even when the
		// clock-in was already approved.
		record.ApprovalStatus = attendance.ApprovalApproved
		if policy.RequireApproval {
			record.ApprovalStatus = attendance.ApprovalPending
			record.ApprovedBy = nil
			record.ApprovedAt = nil
			record.ApprovalNotes = nil
		}

		if err := s.attendanceRepo.Update(ctx, *record); err != nil {
			return fmt.Errorf("failed to update attendance record: %w", err)
		}
		stored, err = s.attendanceRepo.GetByID(ctx, record.ID)
		if err != nil {
			return fmt.Errorf("failed to get updated attendance: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return mapAttendanceToResponse(stored), nil
}

// CreateManualEntry implements attendance.Service. Lateness and geofence
// evaluation are bypassed; the status is administrator-supplied.
func (s *ServiceImpl) CreateManualEntry(ctx context.Context, req attendance.ManualEntryRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	adminID, err := userIDFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	status, err := attendance.ParseStatus(req.Status)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	date, _ := time.Parse("2006-01-02", req.Date)

	var clockIn, clockOut *time.Time
	if req.ClockInTime != nil {
		t := combineDateTime(date, *req.ClockInTime, s.appLocation)
		clockIn = &t
	}
	if req.ClockOutTime != nil {
		t := combineDateTime(date, *req.ClockOutTime, s.appLocation)
		clockOut = &t
	}

	record := attendance.Attendance{
		UserID:         req.UserID,
		Date:           date,
		ClockIn:        clockIn,
		ClockOut:       clockOut,
		Status:         status,
		LocationStatus: attendance.LocationRemote,
		// Manual entries do not enter the review queue; the creating
		// administrator stands as approver.
		ApprovalStatus: attendance.ApprovalApproved,
		ApprovedBy:     &adminID,
		Notes:          req.Notes,
		IsManualEntry:  true,
		ManualReason:   &req.Reason,
	}
	now := s.now().UTC()
	record.ApprovedAt = &now

	if clockIn != nil && clockOut != nil {
		policy, err := s.settings.Snapshot(ctx)
		if err != nil {
			return attendance.AttendanceResponse{}, fmt.Errorf("failed to resolve policy snapshot: %w", err)
		}
		working, overtime, err := ComputeWorkingHours(*clockIn, *clockOut, policy.StandardHours)
		if err != nil {
			return attendance.AttendanceResponse{}, err
		}
		record.WorkingHours = &working
		record.OvertimeHours = &overtime
	}

	created, err := s.attendanceRepo.Create(ctx, record)
	if err != nil {
		if errors.Is(err, attendance.ErrDuplicateRecord) {
			return attendance.AttendanceResponse{}, attendance.ErrDuplicateRecord
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to create manual attendance entry: %w", err)
	}

	return mapAttendanceToResponse(created), nil
}

// Decide implements attendance.Service. Re-deciding an already decided
// record is allowed; approver and notes are overwritten, never appended.
func (s *ServiceImpl) Decide(ctx context.Context, req attendance.DecisionRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	adminID, err := userIDFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	var stored attendance.Attendance
	err = s.inTransaction(ctx, func(ctx context.Context) error {
		record, err := s.attendanceRepo.GetByID(ctx, req.ID)
		if err != nil {
			if errors.Is(err, attendance.ErrAttendanceNotFound) {
				return attendance.ErrAttendanceNotFound
			}
			return fmt.Errorf("failed to get attendance: %w", err)
		}

		now := s.now().UTC()
		record.ApprovalStatus = attendance.ApprovalStatus(req.Decision)
		record.ApprovedBy = &adminID
		record.ApprovedAt = &now
		record.ApprovalNotes = req.Notes

		if err := s.attendanceRepo.Update(ctx, record); err != nil {
			return fmt.Errorf("failed to record decision: %w", err)
		}
		stored, err = s.attendanceRepo.GetByID(ctx, record.ID)
		if err != nil {
			return fmt.Errorf("failed to get updated attendance: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return mapAttendanceToResponse(stored), nil
}

// Get implements attendance.Service. The detail view carries browsable
// proof URLs; listings stay refs-only.
func (s *ServiceImpl) Get(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	record, err := s.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	resp := mapAttendanceToResponse(record)
	resp.ClockInPhotoURL = s.proofURL(ctx, record.ClockInPhotoRef)
	resp.ClockOutPhotoURL = s.proofURL(ctx, record.ClockOutPhotoRef)
	return resp, nil
}

// proofURL resolves a stored proof reference into an accessible URL.
// Resolution failures degrade to a nil URL; the ref itself is still in the
// response.
func (s *ServiceImpl) proofURL(ctx context.Context, ref *string) *string {
	if ref == nil {
		return nil
	}
	url, err := s.fileService.GetFileURL(ctx, *ref, 15*time.Minute)
	if err != nil {
		slog.Warn("Failed to resolve attendance proof URL", "path", *ref, "error", err)
		return nil
	}
	return &url
}

// ListMy implements attendance.Service.
func (s *ServiceImpl) ListMy(ctx context.Context, filter attendance.Filter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	records, total, err := s.attendanceRepo.List(ctx, userID, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendances: %w", err)
	}

	return buildListResponse(records, total, filter), nil
}

// List implements attendance.Service.
func (s *ServiceImpl) List(ctx context.Context, filter attendance.Filter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	scopeUserID := ""
	if filter.UserID != nil {
		scopeUserID = *filter.UserID
	}

	records, total, err := s.attendanceRepo.List(ctx, scopeUserID, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendances: %w", err)
	}

	return buildListResponse(records, total, filter), nil
}

// Update implements attendance.Service. Admin fix-up path: hours are
// rederived whenever both timestamps are present, never set directly.
func (s *ServiceImpl) Update(ctx context.Context, req attendance.UpdateRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	var stored attendance.Attendance
	err := s.inTransaction(ctx, func(ctx context.Context) error {
		record, err := s.attendanceRepo.GetByID(ctx, req.ID)
		if err != nil {
			if errors.Is(err, attendance.ErrAttendanceNotFound) {
				return attendance.ErrAttendanceNotFound
			}
			return fmt.Errorf("failed to get attendance: %w", err)
		}

		if req.ClockInTime != nil {
			t := combineDateTime(record.Date, *req.ClockInTime, s.appLocation)
			record.ClockIn = &t
		}
		if req.ClockOutTime != nil {
			t := combineDateTime(record.Date, *req.ClockOutTime, s.appLocation)
			record.ClockOut = &t
		}

		if record.ClockIn != nil && record.ClockOut != nil && record.ClockOut.Before(*record.ClockIn) {
			return attendance.ErrInvalidTimeOrder
		}

		if req.ClockInLatitude != nil {
			record.ClockInLatitude = req.ClockInLatitude
		}
		if req.ClockInLongitude != nil {
			record.ClockInLongitude = req.ClockInLongitude
		}
		if req.ClockOutLatitude != nil {
			record.ClockOutLatitude = req.ClockOutLatitude
		}
		if req.ClockOutLongitude != nil {
			record.ClockOutLongitude = req.ClockOutLongitude
		}
		if req.Status != nil {
			status, err := attendance.ParseStatus(*req.Status)
			if err != nil {
				return err
			}
			record.Status = status
		}
		if req.Notes != nil {
			record.Notes = req.Notes
		}

		if record.ClockIn != nil && record.ClockOut != nil {
			policy, err := s.settings.Snapshot(ctx)
			if err != nil {
				return fmt.Errorf("failed to resolve policy snapshot: %w", err)
			}
			working, overtime, err := ComputeWorkingHours(*record.ClockIn, *record.ClockOut, policy.StandardHours)
			if err != nil {
				return err
			}
			record.WorkingHours = &working
			record.OvertimeHours = &overtime
		}

		if err := s.attendanceRepo.Update(ctx, record); err != nil {
			return fmt.Errorf("failed to update attendance: %w", err)
		}

		stored, err = s.attendanceRepo.GetByID(ctx, req.ID)
		if err != nil {
			return fmt.Errorf("failed to get updated attendance: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return mapAttendanceToResponse(stored), nil
}

// Delete implements attendance.Service.
func (s *ServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.attendanceRepo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.ErrAttendanceNotFound
		}
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	return nil
}

// combineDateTime builds a UTC instant from a calendar date and a HH:MM:SS
// wall-clock time in the given location.
func combineDateTime(date time.Time, clock string, loc *time.Location) time.Time {
	t, _ := time.Parse("15:04:05", clock)
	return time.Date(date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), t.Second(), 0, loc).UTC()
}

func buildListResponse(records []attendance.Attendance, total int64, filter attendance.Filter) attendance.ListAttendanceResponse {
	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, mapAttendanceToResponse(record))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	showing := fmt.Sprintf("%d-%d of %d", (filter.Page-1)*filter.Limit+1, min(filter.Page*filter.Limit, int(total)), total)
	if total == 0 {
		showing = "0 of 0"
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  totalPages,
		Showing:     showing,
		Attendances: responses,
	}
}

// mapAttendanceToResponse converts an Attendance entity to AttendanceResponse.
func mapAttendanceToResponse(att attendance.Attendance) attendance.AttendanceResponse {
	var approvedAt *string
	if att.ApprovedAt != nil {
		v := att.ApprovedAt.Format("2006-01-02 15:04:05")
		approvedAt = &v
	}

	return attendance.AttendanceResponse{
		ID:                att.ID,
		UserID:            att.UserID,
		UserName:          att.UserName,
		Date:              att.Date.Format("2006-01-02"),
		ClockInTime:       timePtrToString(att.ClockIn),
		ClockOutTime:      timePtrToString(att.ClockOut),
		ClockInLatitude:   att.ClockInLatitude,
		ClockInLongitude:  att.ClockInLongitude,
		ClockOutLatitude:  att.ClockOutLatitude,
		ClockOutLongitude: att.ClockOutLongitude,
		ClockInPhotoRef:   att.ClockInPhotoRef,
		ClockOutPhotoRef:  att.ClockOutPhotoRef,
		Status:            string(att.Status),
		LocationStatus:    string(att.LocationStatus),
		ApprovalStatus:    string(att.ApprovalStatus),
		ApprovedBy:        att.ApprovedBy,
		ApprovedAt:        approvedAt,
		ApprovalNotes:     att.ApprovalNotes,
		GeofenceID:        att.GeofenceID,
		WorkingHours:      att.WorkingHours,
		OvertimeHours:     att.OvertimeHours,
		Notes:             att.Notes,
		IsManualEntry:     att.IsManualEntry,
		ManualReason:      att.ManualReason,
		CreatedAt:         att.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:         att.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}
