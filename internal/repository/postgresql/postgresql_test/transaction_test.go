package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hadirly/hadirly-backend-go/internal/repository/postgresql"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithTransaction_RollbackOnError(t *testing.T) {
	db := testDatabase(t)
	ctx := context.Background()

	userID := createTestUser(t, ctx, db, "Budi", true)
	repo := postgresql.NewAttendanceRepository(db)

	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	boom := errors.New("boom")

	err := postgresql.WithTransaction(ctx, db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		if _, err := repo.Create(txCtx, attendanceOn(userID, date)); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := repo.GetByUserAndDate(ctx, userID, date)
	require.NoError(t, err)
	assert.Nil(t, got, "rolled-back insert must not be visible")
}

func TestWithTransaction_CommitPersists(t *testing.T) {
	db := testDatabase(t)
	ctx := context.Background()

	userID := createTestUser(t, ctx, db, "Budi", true)
	repo := postgresql.NewAttendanceRepository(db)

	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	err := postgresql.WithTransaction(ctx, db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		_, err := repo.Create(txCtx, attendanceOn(userID, date))
		return err
	})
	require.NoError(t, err)

	got, err := repo.GetByUserAndDate(ctx, userID, date)
	require.NoError(t, err)
	require.NotNil(t, got)
}
