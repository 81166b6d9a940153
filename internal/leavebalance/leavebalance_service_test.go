package leavebalance_test

import (
	"context"
	"errors"
	"testing"

	"go-leave/internal/leavebalance"
	leavebalanceerrors "go-leave/internal/leavebalance/errors"
	"go-leave/internal/leavetype"
	"go-leave/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeUnitOfWork struct {
	withinTxFn func(ctx context.Context, fn func(tx *gorm.DB) error) error
}

func (f *fakeUnitOfWork) WithinTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if f.withinTxFn != nil {
		return f.withinTxFn(ctx, fn)
	}
	return fn(nil)
}

type fakeBalanceRepository struct {
	createFn                  func(ctx context.Context, b *leavebalance.LeaveBalance) error
	findByIDFn                func(ctx context.Context, id string) (*leavebalance.LeaveBalance, error)
	findByKeyFn               func(ctx context.Context, employeeID, leaveTypeID string, year int) (*leavebalance.LeaveBalance, error)
	findAllByEmployeeFn       func(ctx context.Context, companyID, employeeID string, year *int) ([]leavebalance.LeaveBalance, error)
	findByEmployeeYearFn      func(ctx context.Context, employeeID string, year int) ([]leavebalance.LeaveBalance, error)
	findCarryForwardSourcesFn func(ctx context.Context, companyID string, fromYear int) ([]leavebalance.CarryForwardSource, error)
	reserveFn                 func(ctx context.Context, id string, days float64) (bool, error)
	commitPendingFn           func(ctx context.Context, id string, days float64) (bool, error)
	releasePendingFn          func(ctx context.Context, id string, days float64) (bool, error)
	releaseUsedFn             func(ctx context.Context, id string, days float64) (bool, error)
	upsertCarryForwardFn      func(ctx context.Context, b *leavebalance.LeaveBalance) error
}

func (f *fakeBalanceRepository) WithTx(tx *gorm.DB) leavebalance.Repository { return f }

func (f *fakeBalanceRepository) Create(ctx context.Context, b *leavebalance.LeaveBalance) error {
	if f.createFn != nil {
		return f.createFn(ctx, b)
	}
	return nil
}

func (f *fakeBalanceRepository) FindByID(ctx context.Context, id string) (*leavebalance.LeaveBalance, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeBalanceRepository) FindByKey(ctx context.Context, employeeID, leaveTypeID string, year int) (*leavebalance.LeaveBalance, error) {
	if f.findByKeyFn != nil {
		return f.findByKeyFn(ctx, employeeID, leaveTypeID, year)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeBalanceRepository) FindByKeyForUpdate(ctx context.Context, employeeID, leaveTypeID string, year int) (*leavebalance.LeaveBalance, error) {
	return f.FindByKey(ctx, employeeID, leaveTypeID, year)
}

func (f *fakeBalanceRepository) FindAllByEmployee(ctx context.Context, companyID, employeeID string, year *int) ([]leavebalance.LeaveBalance, error) {
	if f.findAllByEmployeeFn != nil {
		return f.findAllByEmployeeFn(ctx, companyID, employeeID, year)
	}
	return nil, nil
}

func (f *fakeBalanceRepository) FindByEmployeeYear(ctx context.Context, employeeID string, year int) ([]leavebalance.LeaveBalance, error) {
	if f.findByEmployeeYearFn != nil {
		return f.findByEmployeeYearFn(ctx, employeeID, year)
	}
	return nil, nil
}

func (f *fakeBalanceRepository) FindCarryForwardSources(ctx context.Context, companyID string, fromYear int) ([]leavebalance.CarryForwardSource, error) {
	if f.findCarryForwardSourcesFn != nil {
		return f.findCarryForwardSourcesFn(ctx, companyID, fromYear)
	}
	return nil, nil
}

func (f *fakeBalanceRepository) Reserve(ctx context.Context, id string, days float64) (bool, error) {
	if f.reserveFn != nil {
		return f.reserveFn(ctx, id, days)
	}
	return true, nil
}

func (f *fakeBalanceRepository) CommitPending(ctx context.Context, id string, days float64) (bool, error) {
	if f.commitPendingFn != nil {
		return f.commitPendingFn(ctx, id, days)
	}
	return true, nil
}

func (f *fakeBalanceRepository) ReleasePending(ctx context.Context, id string, days float64) (bool, error) {
	if f.releasePendingFn != nil {
		return f.releasePendingFn(ctx, id, days)
	}
	return true, nil
}

func (f *fakeBalanceRepository) ReleaseUsed(ctx context.Context, id string, days float64) (bool, error) {
	if f.releaseUsedFn != nil {
		return f.releaseUsedFn(ctx, id, days)
	}
	return true, nil
}

func (f *fakeBalanceRepository) UpsertCarryForward(ctx context.Context, b *leavebalance.LeaveBalance) error {
	if f.upsertCarryForwardFn != nil {
		return f.upsertCarryForwardFn(ctx, b)
	}
	return nil
}

type fakeTypeRepository struct {
	findByIDAndCompanyFn  func(ctx context.Context, companyID, id string) (*leavetype.LeaveType, error)
	findActiveByCompanyFn func(ctx context.Context, companyID string) ([]leavetype.LeaveType, error)
}

func (f *fakeTypeRepository) WithTx(tx *gorm.DB) leavetype.Repository { return f }

func (f *fakeTypeRepository) Create(ctx context.Context, lt *leavetype.LeaveType) error { return nil }

func (f *fakeTypeRepository) FindAllByCompany(ctx context.Context, companyID string) ([]leavetype.LeaveType, error) {
	return nil, nil
}

func (f *fakeTypeRepository) FindActiveByCompany(ctx context.Context, companyID string) ([]leavetype.LeaveType, error) {
	if f.findActiveByCompanyFn != nil {
		return f.findActiveByCompanyFn(ctx, companyID)
	}
	return nil, nil
}

func (f *fakeTypeRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*leavetype.LeaveType, error) {
	if f.findByIDAndCompanyFn != nil {
		return f.findByIDAndCompanyFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTypeRepository) Update(ctx context.Context, lt *leavetype.LeaveType) error { return nil }

func (f *fakeTypeRepository) Delete(ctx context.Context, companyID, id string) error { return nil }

func (f *fakeTypeRepository) IsReferenced(ctx context.Context, id string) (bool, error) {
	return false, nil
}

type balanceServiceDeps struct {
	service leavebalance.Service
	repo    *fakeBalanceRepository
	types   *fakeTypeRepository
}

func setupBalanceServiceTest(t *testing.T) *balanceServiceDeps {
	t.Helper()

	repo := &fakeBalanceRepository{}
	types := &fakeTypeRepository{}
	svc := leavebalance.NewService(&fakeUnitOfWork{}, repo, types, nil)

	return &balanceServiceDeps{service: svc, repo: repo, types: types}
}

func TestLeaveBalanceService_GetOrCreate(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()
	leaveTypeID := uuid.New().String()

	t.Run("existing balance returned as-is", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		existing := &leavebalance.LeaveBalance{ID: uuid.New(), TotalDays: 12, AvailableDays: 7}

		deps.repo.findByKeyFn = func(ctx context.Context, eid, tid string, year int) (*leavebalance.LeaveBalance, error) {
			assert.Equal(t, employeeID, eid)
			assert.Equal(t, 2026, year)
			return existing, nil
		}

		b, err := deps.service.GetOrCreate(ctx, companyID, employeeID, leaveTypeID, 2026)

		assert.NoError(t, err)
		assert.Equal(t, existing, b)
	})

	t.Run("missing balance seeded from type default", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)

		deps.types.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*leavetype.LeaveType, error) {
			return &leavetype.LeaveType{ID: uuid.MustParse(leaveTypeID), DefaultDaysAllowed: 12}, nil
		}

		var created *leavebalance.LeaveBalance
		deps.repo.createFn = func(ctx context.Context, b *leavebalance.LeaveBalance) error {
			created = b
			return nil
		}

		b, err := deps.service.GetOrCreate(ctx, companyID, employeeID, leaveTypeID, 2026)

		assert.NoError(t, err)
		assert.NotNil(t, created)
		assert.Equal(t, 12.0, b.TotalDays)
		assert.Equal(t, 12.0, b.AvailableDays)
		assert.Equal(t, 0.0, b.UsedDays)
		assert.Equal(t, 0.0, b.PendingDays)
		assert.True(t, b.InvariantHolds())
	})

	t.Run("lost create race falls back to winner row", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		winner := &leavebalance.LeaveBalance{ID: uuid.New(), TotalDays: 12, AvailableDays: 12}

		firstLookup := true
		deps.repo.findByKeyFn = func(ctx context.Context, eid, tid string, year int) (*leavebalance.LeaveBalance, error) {
			if firstLookup {
				firstLookup = false
				return nil, gorm.ErrRecordNotFound
			}
			return winner, nil
		}
		deps.types.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*leavetype.LeaveType, error) {
			return &leavetype.LeaveType{ID: uuid.MustParse(leaveTypeID), DefaultDaysAllowed: 12}, nil
		}
		deps.repo.createFn = func(ctx context.Context, b *leavebalance.LeaveBalance) error {
			return &pgconn.PgError{Code: "23505"}
		}

		b, err := deps.service.GetOrCreate(ctx, companyID, employeeID, leaveTypeID, 2026)

		assert.NoError(t, err)
		assert.Equal(t, winner, b)
	})

	t.Run("negative invalid year", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)

		_, err := deps.service.GetOrCreate(ctx, companyID, employeeID, leaveTypeID, 1999)

		assert.ErrorIs(t, err, leavebalanceerrors.ErrInvalidYear)
	})
}

func TestLeaveBalanceService_Reserve(t *testing.T) {
	ctx := context.Background()
	balanceID := uuid.New().String()

	t.Run("success returns refreshed balance", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)

		deps.repo.reserveFn = func(ctx context.Context, id string, days float64) (bool, error) {
			assert.Equal(t, balanceID, id)
			assert.Equal(t, 3.0, days)
			return true, nil
		}
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leavebalance.LeaveBalance, error) {
			return &leavebalance.LeaveBalance{
				TotalDays: 12, PendingDays: 3, AvailableDays: 9,
			}, nil
		}

		b, err := deps.service.Reserve(ctx, balanceID, 3)

		assert.NoError(t, err)
		assert.Equal(t, 3.0, b.PendingDays)
		assert.Equal(t, 9.0, b.AvailableDays)
		assert.True(t, b.InvariantHolds())
	})

	t.Run("negative insufficient balance carries details", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)

		deps.repo.reserveFn = func(ctx context.Context, id string, days float64) (bool, error) {
			return false, nil
		}
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leavebalance.LeaveBalance, error) {
			return &leavebalance.LeaveBalance{AvailableDays: 2}, nil
		}

		_, err := deps.service.Reserve(ctx, balanceID, 5)

		assert.ErrorIs(t, err, leavebalanceerrors.ErrInsufficientBalance)

		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		details, ok := appErr.Details.(map[string]float64)
		assert.True(t, ok)
		assert.Equal(t, 5.0, details["requested_days"])
		assert.Equal(t, 2.0, details["available_days"])
	})

	t.Run("negative missing balance", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)

		deps.repo.reserveFn = func(ctx context.Context, id string, days float64) (bool, error) {
			return false, nil
		}

		_, err := deps.service.Reserve(ctx, balanceID, 1)

		assert.ErrorIs(t, err, leavebalanceerrors.ErrBalanceNotFound)
	})

	t.Run("negative rejects non half-day multiples", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)

		for _, days := range []float64{0, -1, 0.3, 1.25} {
			_, err := deps.service.Reserve(ctx, balanceID, days)
			assert.ErrorIs(t, err, leavebalanceerrors.ErrInvalidDays)
		}
	})
}

func TestLeaveBalanceService_Settlements(t *testing.T) {
	ctx := context.Background()
	balanceID := uuid.New().String()

	t.Run("commit moves pending into used", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)

		deps.repo.commitPendingFn = func(ctx context.Context, id string, days float64) (bool, error) {
			assert.Equal(t, 3.0, days)
			return true, nil
		}
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leavebalance.LeaveBalance, error) {
			return &leavebalance.LeaveBalance{
				TotalDays: 12, UsedDays: 3, AvailableDays: 9,
			}, nil
		}

		b, err := deps.service.Commit(ctx, balanceID, 3)

		assert.NoError(t, err)
		assert.Equal(t, 3.0, b.UsedDays)
		assert.Equal(t, 0.0, b.PendingDays)
		assert.True(t, b.InvariantHolds())
	})

	t.Run("lost settlement race maps to concurrency conflict", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)

		deps.repo.commitPendingFn = func(ctx context.Context, id string, days float64) (bool, error) {
			return false, nil
		}
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leavebalance.LeaveBalance, error) {
			return &leavebalance.LeaveBalance{}, nil
		}

		_, err := deps.service.Commit(ctx, balanceID, 3)

		assert.ErrorIs(t, err, leavebalanceerrors.ErrConcurrentBalanceUpdate)
	})

	t.Run("release used refunds an approved cancellation", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)

		var refunded float64
		deps.repo.releaseUsedFn = func(ctx context.Context, id string, days float64) (bool, error) {
			refunded = days
			return true, nil
		}
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leavebalance.LeaveBalance, error) {
			return &leavebalance.LeaveBalance{TotalDays: 12, AvailableDays: 12}, nil
		}

		b, err := deps.service.ReleaseUsed(ctx, balanceID, 2)

		assert.NoError(t, err)
		assert.Equal(t, 2.0, refunded)
		assert.Equal(t, 12.0, b.AvailableDays)
	})
}

func TestLeaveBalanceService_AdjustForDateChange(t *testing.T) {
	ctx := context.Background()
	balanceID := uuid.New().String()

	t.Run("positive delta reserves", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)

		reserved := 0.0
		deps.repo.reserveFn = func(ctx context.Context, id string, days float64) (bool, error) {
			reserved = days
			return true, nil
		}
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leavebalance.LeaveBalance, error) {
			return &leavebalance.LeaveBalance{}, nil
		}

		_, err := deps.service.AdjustForDateChange(ctx, balanceID, 2)

		assert.NoError(t, err)
		assert.Equal(t, 2.0, reserved)
	})

	t.Run("negative delta releases the absolute value", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)

		released := 0.0
		deps.repo.releasePendingFn = func(ctx context.Context, id string, days float64) (bool, error) {
			released = days
			return true, nil
		}
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leavebalance.LeaveBalance, error) {
			return &leavebalance.LeaveBalance{}, nil
		}

		_, err := deps.service.AdjustForDateChange(ctx, balanceID, -1.5)

		assert.NoError(t, err)
		assert.Equal(t, 1.5, released)
	})

	t.Run("zero delta touches nothing", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)

		touched := false
		deps.repo.reserveFn = func(ctx context.Context, id string, days float64) (bool, error) {
			touched = true
			return true, nil
		}
		deps.repo.releasePendingFn = func(ctx context.Context, id string, days float64) (bool, error) {
			touched = true
			return true, nil
		}
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leavebalance.LeaveBalance, error) {
			return &leavebalance.LeaveBalance{AvailableDays: 5}, nil
		}

		b, err := deps.service.AdjustForDateChange(ctx, balanceID, 0)

		assert.NoError(t, err)
		assert.False(t, touched)
		assert.Equal(t, 5.0, b.AvailableDays)
	})
}

func TestLeaveBalanceService_InitializeYearly(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()

	t.Run("creates rows only for uninitialized types", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		annualID := uuid.New()
		sickID := uuid.New()

		deps.types.findActiveByCompanyFn = func(ctx context.Context, cid string) ([]leavetype.LeaveType, error) {
			return []leavetype.LeaveType{
				{ID: annualID, Name: "Annual Leave", DefaultDaysAllowed: 12},
				{ID: sickID, Name: "Sick Leave", DefaultDaysAllowed: 10},
			}, nil
		}
		deps.repo.findByEmployeeYearFn = func(ctx context.Context, eid string, year int) ([]leavebalance.LeaveBalance, error) {
			// Annual already exists from an earlier run.
			return []leavebalance.LeaveBalance{{LeaveTypeID: annualID, TotalDays: 12}}, nil
		}

		var created []*leavebalance.LeaveBalance
		deps.repo.createFn = func(ctx context.Context, b *leavebalance.LeaveBalance) error {
			created = append(created, b)
			return nil
		}

		_, err := deps.service.InitializeYearly(ctx, companyID, employeeID, 2026)

		assert.NoError(t, err)
		assert.Len(t, created, 1)
		assert.Equal(t, sickID, created[0].LeaveTypeID)
		assert.Equal(t, 10.0, created[0].TotalDays)
	})

	t.Run("duplicate insert from concurrent initializer is skipped", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)

		deps.types.findActiveByCompanyFn = func(ctx context.Context, cid string) ([]leavetype.LeaveType, error) {
			return []leavetype.LeaveType{{ID: uuid.New(), DefaultDaysAllowed: 12}}, nil
		}
		deps.repo.createFn = func(ctx context.Context, b *leavebalance.LeaveBalance) error {
			return &pgconn.PgError{Code: "23505"}
		}

		_, err := deps.service.InitializeYearly(ctx, companyID, employeeID, 2026)

		assert.NoError(t, err)
	})
}

func TestLeaveBalanceService_CarryForward(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	t.Run("caps carried days at the type limit", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		employeeID := uuid.New()
		typeID := uuid.New()
		limit := 5.0

		deps.repo.findCarryForwardSourcesFn = func(ctx context.Context, cid string, fromYear int) ([]leavebalance.CarryForwardSource, error) {
			assert.Equal(t, 2026, fromYear)
			return []leavebalance.CarryForwardSource{
				{
					EmployeeID:         employeeID,
					LeaveTypeID:        typeID,
					AvailableDays:      8,
					CarryForwardLimit:  &limit,
					DefaultDaysAllowed: 12,
				},
			}, nil
		}

		var upserted *leavebalance.LeaveBalance
		deps.repo.upsertCarryForwardFn = func(ctx context.Context, b *leavebalance.LeaveBalance) error {
			upserted = b
			return nil
		}

		touched, err := deps.service.CarryForward(ctx, companyID, 2026, 2027)

		assert.NoError(t, err)
		assert.Equal(t, 1, touched)
		assert.NotNil(t, upserted)
		assert.Equal(t, 2027, upserted.Year)
		assert.Equal(t, 5.0, upserted.CarriedForward)
		assert.Equal(t, 12.0, upserted.TotalDays)
	})

	t.Run("no limit carries the full remainder", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)

		deps.repo.findCarryForwardSourcesFn = func(ctx context.Context, cid string, fromYear int) ([]leavebalance.CarryForwardSource, error) {
			return []leavebalance.CarryForwardSource{
				{
					EmployeeID:         uuid.New(),
					LeaveTypeID:        uuid.New(),
					AvailableDays:      8,
					DefaultDaysAllowed: 12,
				},
			}, nil
		}

		var upserted *leavebalance.LeaveBalance
		deps.repo.upsertCarryForwardFn = func(ctx context.Context, b *leavebalance.LeaveBalance) error {
			upserted = b
			return nil
		}

		touched, err := deps.service.CarryForward(ctx, companyID, 2026, 2027)

		assert.NoError(t, err)
		assert.Equal(t, 1, touched)
		assert.Equal(t, 8.0, upserted.CarriedForward)
	})

	t.Run("re-running the batch upserts identical rows", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		employeeID := uuid.New()
		typeID := uuid.New()
		limit := 5.0

		// Upsert ON CONFLICT re-derives the row, so the source snapshot does
		// not change between runs.
		deps.repo.findCarryForwardSourcesFn = func(ctx context.Context, cid string, fromYear int) ([]leavebalance.CarryForwardSource, error) {
			return []leavebalance.CarryForwardSource{
				{
					EmployeeID:         employeeID,
					LeaveTypeID:        typeID,
					AvailableDays:      8,
					CarryForwardLimit:  &limit,
					DefaultDaysAllowed: 12,
				},
			}, nil
		}

		var upserts []leavebalance.LeaveBalance
		deps.repo.upsertCarryForwardFn = func(ctx context.Context, b *leavebalance.LeaveBalance) error {
			upserts = append(upserts, *b)
			return nil
		}

		first, err := deps.service.CarryForward(ctx, companyID, 2026, 2027)
		assert.NoError(t, err)
		second, err := deps.service.CarryForward(ctx, companyID, 2026, 2027)
		assert.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Len(t, upserts, 2)
		assert.Equal(t, upserts[0].EmployeeID, upserts[1].EmployeeID)
		assert.Equal(t, upserts[0].LeaveTypeID, upserts[1].LeaveTypeID)
		assert.Equal(t, upserts[0].Year, upserts[1].Year)
		assert.Equal(t, upserts[0].TotalDays, upserts[1].TotalDays)
		assert.Equal(t, upserts[0].CarriedForward, upserts[1].CarriedForward)
	})

	t.Run("negative target year not after source year", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)

		_, err := deps.service.CarryForward(ctx, companyID, 2027, 2027)

		assert.ErrorIs(t, err, leavebalanceerrors.ErrInvalidYearRange)
	})

	t.Run("negative upsert failure surfaces partial progress", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)

		deps.repo.findCarryForwardSourcesFn = func(ctx context.Context, cid string, fromYear int) ([]leavebalance.CarryForwardSource, error) {
			return []leavebalance.CarryForwardSource{
				{EmployeeID: uuid.New(), LeaveTypeID: uuid.New(), AvailableDays: 3, DefaultDaysAllowed: 12},
				{EmployeeID: uuid.New(), LeaveTypeID: uuid.New(), AvailableDays: 4, DefaultDaysAllowed: 12},
			}, nil
		}

		calls := 0
		deps.repo.upsertCarryForwardFn = func(ctx context.Context, b *leavebalance.LeaveBalance) error {
			calls++
			if calls == 2 {
				return errors.New("db error")
			}
			return nil
		}

		touched, err := deps.service.CarryForward(ctx, companyID, 2026, 2027)

		assert.Error(t, err)
		assert.Equal(t, 1, touched)
	})
}
