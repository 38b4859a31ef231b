package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hadirly/hadirly-backend-go/internal/domain/attendance"
	"github.com/hadirly/hadirly-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `
	a.id, a.user_id, a.date, a.clock_in, a.clock_out,
	a.clock_in_latitude, a.clock_in_longitude, a.clock_out_latitude, a.clock_out_longitude,
	a.clock_in_photo_ref, a.clock_out_photo_ref,
	a.status, a.location_status, a.approval_status,
	a.approved_by, a.approved_at, a.approval_notes,
	a.geofence_id, a.working_hours, a.overtime_hours,
	a.notes, a.is_manual_entry, a.manual_reason,
	a.deleted_at, a.created_at, a.updated_at`

func scanAttendance(row pgx.Row, att *attendance.Attendance, withUserName bool) error {
	dest := []interface{}{
		&att.ID, &att.UserID, &att.Date, &att.ClockIn, &att.ClockOut,
		&att.ClockInLatitude, &att.ClockInLongitude, &att.ClockOutLatitude, &att.ClockOutLongitude,
		&att.ClockInPhotoRef, &att.ClockOutPhotoRef,
		&att.Status, &att.LocationStatus, &att.ApprovalStatus,
		&att.ApprovedBy, &att.ApprovedAt, &att.ApprovalNotes,
		&att.GeofenceID, &att.WorkingHours, &att.OvertimeHours,
		&att.Notes, &att.IsManualEntry, &att.ManualReason,
		&att.DeletedAt, &att.CreatedAt, &att.UpdatedAt,
	}
	if withUserName {
		dest = append(dest, &att.UserName)
	}
	return row.Scan(dest...)
}

// Create implements attendance.Repository.
func (a *attendanceRepository) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendances (
			user_id, date, clock_in, clock_out,
			clock_in_latitude, clock_in_longitude, clock_out_latitude, clock_out_longitude,
			clock_in_photo_ref, clock_out_photo_ref,
			status, location_status, approval_status,
			approved_by, approved_at, approval_notes,
			geofence_id, working_hours, overtime_hours,
			notes, is_manual_entry, manual_reason
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		att.UserID,
		att.Date,
		att.ClockIn,
		att.ClockOut,
		att.ClockInLatitude,
		att.ClockInLongitude,
		att.ClockOutLatitude,
		att.ClockOutLongitude,
		att.ClockInPhotoRef,
		att.ClockOutPhotoRef,
		att.Status,
		att.LocationStatus,
		att.ApprovalStatus,
		att.ApprovedBy,
		att.ApprovedAt,
		att.ApprovalNotes,
		att.GeofenceID,
		att.WorkingHours,
		att.OvertimeHours,
		att.Notes,
		att.IsManualEntry,
		att.ManualReason,
	).Scan(&att.ID, &att.CreatedAt, &att.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return attendance.Attendance{}, attendance.ErrDuplicateRecord
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return att, nil
}

// GetByID implements attendance.Repository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `,
			u.name AS user_name
		FROM attendances a
		LEFT JOIN users u ON u.id = a.user_id
		WHERE a.id = $1 AND a.deleted_at IS NULL
	`

	var att attendance.Attendance
	err := scanAttendance(q.QueryRow(ctx, query, id), &att, true)
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by ID: %w", err)
	}

	return att, nil
}

// GetByUserAndDate implements attendance.Repository.
func (a *attendanceRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.user_id = $1
		  AND a.date = $2
		  AND a.deleted_at IS NULL
		LIMIT 1
	`

	var att attendance.Attendance
	err := scanAttendance(q.QueryRow(ctx, query, userID, date), &att, false)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // no record for this day yet
		}
		return nil, fmt.Errorf("failed to get attendance by user and date: %w", err)
	}

	return &att, nil
}

// Update implements attendance.Repository. Writes the full row so fields
// cleared by the state machine (approver on resubmission) actually clear.
func (a *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances SET
			clock_in = $2,
			clock_out = $3,
			clock_in_latitude = $4,
			clock_in_longitude = $5,
			clock_out_latitude = $6,
			clock_out_longitude = $7,
			clock_in_photo_ref = $8,
			clock_out_photo_ref = $9,
			status = $10,
			location_status = $11,
			approval_status = $12,
			approved_by = $13,
			approved_at = $14,
			approval_notes = $15,
			geofence_id = $16,
			working_hours = $17,
			overtime_hours = $18,
			notes = $19,
			is_manual_entry = $20,
			manual_reason = $21,
			updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	tag, err := q.Exec(ctx, query,
		att.ID,
		att.ClockIn,
		att.ClockOut,
		att.ClockInLatitude,
		att.ClockInLongitude,
		att.ClockOutLatitude,
		att.ClockOutLongitude,
		att.ClockInPhotoRef,
		att.ClockOutPhotoRef,
		att.Status,
		att.LocationStatus,
		att.ApprovalStatus,
		att.ApprovedBy,
		att.ApprovedAt,
		att.ApprovalNotes,
		att.GeofenceID,
		att.WorkingHours,
		att.OvertimeHours,
		att.Notes,
		att.IsManualEntry,
		att.ManualReason,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}

// List implements attendance.Repository.
func (a *attendanceRepository) List(ctx context.Context, userID string, filter attendance.Filter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	baseWhere := "a.deleted_at IS NULL"
	args := []interface{}{}
	argIdx := 1

	if userID != "" {
		baseWhere += fmt.Sprintf(" AND a.user_id = $%d", argIdx)
		args = append(args, userID)
		argIdx++
	}

	if filter.Date != nil && *filter.Date != "" {
		baseWhere += fmt.Sprintf(" AND a.date = $%d", argIdx)
		args = append(args, *filter.Date)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND a.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.ApprovalStatus != nil && *filter.ApprovalStatus != "" {
		baseWhere += fmt.Sprintf(" AND a.approval_status = $%d", argIdx)
		args = append(args, *filter.ApprovalStatus)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM attendances a WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	orderByField := "a.date"
	switch filter.SortBy {
	case "clock_in_time":
		orderByField = "a.clock_in"
	case "clock_out_time":
		orderByField = "a.clock_out"
	case "status":
		orderByField = "a.status"
	}
	sortOrder := "DESC"
	if strings.ToLower(filter.SortOrder) == "asc" {
		sortOrder = "ASC"
	}

	selectQuery := fmt.Sprintf(`
		SELECT `+attendanceColumns+`,
			u.name AS user_name
		FROM attendances a
		LEFT JOIN users u ON u.id = a.user_id
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, baseWhere, orderByField, sortOrder, argIdx, argIdx+1)

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	offset := (filter.Page - 1) * limit
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	var attendances []attendance.Attendance
	for rows.Next() {
		var att attendance.Attendance
		if err := scanAttendance(rows, &att, true); err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, att)
	}

	return attendances, total, nil
}

// SoftDelete implements attendance.Repository.
func (a *attendanceRepository) SoftDelete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	tag, err := q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}

// ListUserIDsWithoutRecord implements attendance.Repository.
func (a *attendanceRepository) ListUserIDsWithoutRecord(ctx context.Context, date time.Time) ([]string, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT u.id
		FROM users u
		WHERE u.is_active = TRUE
		  AND NOT EXISTS (
			SELECT 1
			FROM attendances a
			WHERE a.user_id = u.id
			  AND a.date = $1
			  AND a.deleted_at IS NULL
		  )
	`

	rows, err := q.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query users without attendance: %w", err)
	}
	defer rows.Close()

	var userIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		userIDs = append(userIDs, id)
	}

	return userIDs, nil
}
