package leavebalance_test

import (
	"context"
	"testing"

	"go-leave/internal/leavebalance"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRepoTest(t *testing.T) (leavebalance.Repository, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	assert.NoError(t, err)

	return leavebalance.NewRepository(gormDB), mock, func() { db.Close() }
}

func TestBalanceRepository_Reserve(t *testing.T) {
	ctx := context.Background()
	id := uuid.New().String()

	t.Run("guard passes when available covers the request", func(t *testing.T) {
		repo, mock, cleanup := setupRepoTest(t)
		defer cleanup()

		mock.ExpectExec("UPDATE leave_balances").
			WithArgs(3.0, 3.0, id, 3.0).
			WillReturnResult(sqlmock.NewResult(0, 1))

		updated, err := repo.Reserve(ctx, id, 3)

		assert.NoError(t, err)
		assert.True(t, updated)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("guard fails without touching the row", func(t *testing.T) {
		repo, mock, cleanup := setupRepoTest(t)
		defer cleanup()

		mock.ExpectExec("UPDATE leave_balances").
			WithArgs(10.0, 10.0, id, 10.0).
			WillReturnResult(sqlmock.NewResult(0, 0))

		updated, err := repo.Reserve(ctx, id, 10)

		assert.NoError(t, err)
		assert.False(t, updated)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBalanceRepository_CommitPending(t *testing.T) {
	ctx := context.Background()
	id := uuid.New().String()

	t.Run("settles a covered reservation", func(t *testing.T) {
		repo, mock, cleanup := setupRepoTest(t)
		defer cleanup()

		mock.ExpectExec("UPDATE leave_balances").
			WithArgs(2.0, 2.0, 2.0, 2.0, id, 2.0).
			WillReturnResult(sqlmock.NewResult(0, 1))

		updated, err := repo.CommitPending(ctx, id, 2)

		assert.NoError(t, err)
		assert.True(t, updated)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("refuses when pending no longer covers the days", func(t *testing.T) {
		repo, mock, cleanup := setupRepoTest(t)
		defer cleanup()

		mock.ExpectExec("UPDATE leave_balances").
			WithArgs(2.0, 2.0, 2.0, 2.0, id, 2.0).
			WillReturnResult(sqlmock.NewResult(0, 0))

		updated, err := repo.CommitPending(ctx, id, 2)

		assert.NoError(t, err)
		assert.False(t, updated)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBalanceRepository_ReleaseUsed(t *testing.T) {
	ctx := context.Background()
	id := uuid.New().String()

	t.Run("refund guard checks used days", func(t *testing.T) {
		repo, mock, cleanup := setupRepoTest(t)
		defer cleanup()

		mock.ExpectExec("UPDATE leave_balances").
			WithArgs(1.5, 1.5, id, 1.5).
			WillReturnResult(sqlmock.NewResult(0, 1))

		updated, err := repo.ReleaseUsed(ctx, id, 1.5)

		assert.NoError(t, err)
		assert.True(t, updated)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBalanceRepository_UpsertCarryForward(t *testing.T) {
	ctx := context.Background()

	t.Run("insert seeds available from total plus carry", func(t *testing.T) {
		repo, mock, cleanup := setupRepoTest(t)
		defer cleanup()

		b := &leavebalance.LeaveBalance{
			ID:             uuid.New(),
			CompanyID:      uuid.New(),
			EmployeeID:     uuid.New(),
			LeaveTypeID:    uuid.New(),
			Year:           2027,
			TotalDays:      12,
			CarriedForward: 5,
		}

		mock.ExpectExec("INSERT INTO leave_balances").
			WithArgs(
				b.ID, b.CompanyID, b.EmployeeID, b.LeaveTypeID, b.Year,
				12.0, 5.0, 17.0,
			).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpsertCarryForward(ctx, b)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
