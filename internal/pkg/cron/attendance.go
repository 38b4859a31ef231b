package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hadirly/hadirly-backend-go/internal/domain/attendance"
)

// AttendanceJobs owns the background maintenance of attendance records. The
// sweep runs without a transaction: each insert stands alone, and a clock-in
// racing it wins through the unique index.
type AttendanceJobs struct {
	attendanceRepo attendance.Repository
	appLocation    *time.Location
}

func NewAttendanceJobs(
	attendanceRepo attendance.Repository,
	appLocation *time.Location,
) *AttendanceJobs {
	if appLocation == nil {
		appLocation = time.UTC
	}
	return &AttendanceJobs{
		attendanceRepo: attendanceRepo,
		appLocation:    appLocation,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("mark_absent_users", 1*time.Hour, j.MarkAbsentUsers)
}

// MarkAbsentUsers backfills an absent record for every active user with no
// attendance on the previous day. Runs hourly but acts only in the first
// hour after local midnight, so each day is swept exactly once shortly
// after it closes.
func (j *AttendanceJobs) MarkAbsentUsers(ctx context.Context) error {
	now := time.Now().In(j.appLocation)
	if now.Hour() != 0 {
		return nil
	}

	yesterday := now.AddDate(0, 0, -1)
	date := time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(), 0, 0, 0, 0, time.UTC)

	slog.Info("Cron: Starting mark-absent job", "date", date.Format("2006-01-02"))

	userIDs, err := j.attendanceRepo.ListUserIDsWithoutRecord(ctx, date)
	if err != nil {
		return fmt.Errorf("failed to list users without attendance: %w", err)
	}

	if len(userIDs) == 0 {
		slog.Info("Cron: No absent users to mark")
		return nil
	}

	markedCount := 0
	for _, userID := range userIDs {
		record := attendance.Attendance{
			UserID:         userID,
			Date:           date,
			Status:         attendance.StatusAbsent,
			LocationStatus: attendance.LocationRemote,
			ApprovalStatus: attendance.ApprovalApproved,
		}

		// A clock-in racing this insert wins via the unique index; the
		// duplicate is expected, not a failure.
		if _, err := j.attendanceRepo.Create(ctx, record); err != nil {
			if err == attendance.ErrDuplicateRecord {
				continue
			}
			slog.Error("Cron: Failed to mark user absent", "user_id", userID, "error", err)
			continue
		}
		markedCount++
	}

	slog.Info("Cron: Mark-absent job finished", "marked", markedCount, "candidates", len(userIDs))
	return nil
}
