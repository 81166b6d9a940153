package leavebalance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	leavebalanceerrors "go-leave/internal/leavebalance/errors"
	"go-leave/internal/leavetype"
	"go-leave/internal/uow"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	balanceCacheKeyPrefix = "leave:balances:all:"
	balanceCacheTTL       = 15 * time.Minute

	minYear = 2000
	maxYear = 2100
)

func employeeBalancesCacheKey(employeeID string) string {
	return balanceCacheKeyPrefix + employeeID
}

// Ledger is the mutation surface the request lifecycle drives. Every call is
// expected to run inside the caller's transaction via WithTx; the CAS guards
// in the repository keep concurrent callers on the same row honest.
type Ledger interface {
	WithTx(tx *gorm.DB) Ledger
	GetOrCreate(ctx context.Context, companyID, employeeID, leaveTypeID string, year int) (*LeaveBalance, error)
	Reserve(ctx context.Context, balanceID string, days float64) (*LeaveBalance, error)
	Commit(ctx context.Context, balanceID string, days float64) (*LeaveBalance, error)
	Release(ctx context.Context, balanceID string, days float64) (*LeaveBalance, error)
	ReleaseUsed(ctx context.Context, balanceID string, days float64) (*LeaveBalance, error)
	AdjustForDateChange(ctx context.Context, balanceID string, deltaDays float64) (*LeaveBalance, error)
	InvalidateEmployeeCache(ctx context.Context, employeeID string)
}

//go:generate mockgen -source=leavebalance_service.go -destination=mock/leavebalance_service_mock.go -package=mock
type Service interface {
	Ledger
	GetEmployeeBalances(ctx context.Context, companyID, employeeID string, year *int) ([]LeaveBalanceResponse, error)
	InitializeYearly(ctx context.Context, companyID, employeeID string, year int) ([]LeaveBalanceResponse, error)
	CarryForward(ctx context.Context, companyID string, fromYear, toYear int) (int, error)
}

type service struct {
	uow    uow.UnitOfWork
	repo   Repository
	types  leavetype.Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(
	u uow.UnitOfWork,
	repo Repository,
	types leavetype.Repository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leavebalance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavebalance.service")
	}
	return &service{uow: u, repo: repo, types: types, rdb: rdb, sf: &singleflight.Group{}, logger: l}
}

func (s *service) WithTx(tx *gorm.DB) Ledger {
	return &service{
		uow:    s.uow,
		repo:   s.repo.WithTx(tx),
		types:  s.types.WithTx(tx),
		rdb:    s.rdb,
		sf:     s.sf,
		logger: s.logger,
	}
}

// validDays accepts positive multiples of 0.5; the half-day flag is the only
// producer of fractional day counts.
func validDays(days float64) bool {
	return days > 0 && days*2 == math.Trunc(days*2)
}

func (s *service) GetOrCreate(ctx context.Context, companyID, employeeID, leaveTypeID string, year int) (*LeaveBalance, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return nil, leavebalanceerrors.ErrInvalidCompanyID
	}
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, leavebalanceerrors.ErrInvalidEmployeeID
	}
	typeUUID, err := uuid.Parse(leaveTypeID)
	if err != nil {
		return nil, leavebalanceerrors.ErrInvalidLeaveTypeID
	}
	if year < minYear || year > maxYear {
		return nil, leavebalanceerrors.ErrInvalidYear
	}

	b, err := s.repo.FindByKey(ctx, employeeID, leaveTypeID, year)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	t, err := s.types.FindByIDAndCompany(ctx, companyID, leaveTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leavebalanceerrors.ErrInvalidLeaveTypeID
		}
		return nil, err
	}

	b = &LeaveBalance{
		ID:             uuid.New(),
		CompanyID:      companyUUID,
		EmployeeID:     employeeUUID,
		LeaveTypeID:    typeUUID,
		Year:           year,
		TotalDays:      t.DefaultDaysAllowed,
		UsedDays:       0,
		PendingDays:    0,
		CarriedForward: 0,
		AvailableDays:  t.DefaultDaysAllowed,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		// Lost a create race on the unique (employee, type, year) key; the
		// winner's row is the balance.
		if isUniqueViolation(err) {
			return s.repo.FindByKey(ctx, employeeID, leaveTypeID, year)
		}
		return nil, err
	}

	s.logger.Info("leave balance created",
		zap.String("balance_id", b.ID.String()),
		zap.String("employee_id", employeeID),
		zap.String("leave_type_id", leaveTypeID),
		zap.Int("year", year),
		zap.Float64("total_days", b.TotalDays),
	)
	return b, nil
}

func (s *service) Reserve(ctx context.Context, balanceID string, days float64) (*LeaveBalance, error) {
	if !validDays(days) {
		return nil, leavebalanceerrors.ErrInvalidDays
	}

	updated, err := s.repo.Reserve(ctx, balanceID, days)
	if err != nil {
		return nil, err
	}
	if !updated {
		b, err := s.repo.FindByID(ctx, balanceID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, leavebalanceerrors.ErrBalanceNotFound
			}
			return nil, err
		}
		s.logger.Warn("reserve rejected, insufficient balance",
			zap.String("balance_id", balanceID),
			zap.Float64("requested_days", days),
			zap.Float64("available_days", b.AvailableDays),
		)
		return nil, leavebalanceerrors.ErrInsufficientBalance.WithDetails(map[string]float64{
			"requested_days": days,
			"available_days": b.AvailableDays,
		})
	}

	return s.repo.FindByID(ctx, balanceID)
}

func (s *service) Commit(ctx context.Context, balanceID string, days float64) (*LeaveBalance, error) {
	if !validDays(days) {
		return nil, leavebalanceerrors.ErrInvalidDays
	}
	return s.settle(ctx, balanceID, days, s.repo.CommitPending)
}

func (s *service) Release(ctx context.Context, balanceID string, days float64) (*LeaveBalance, error) {
	if !validDays(days) {
		return nil, leavebalanceerrors.ErrInvalidDays
	}
	return s.settle(ctx, balanceID, days, s.repo.ReleasePending)
}

func (s *service) ReleaseUsed(ctx context.Context, balanceID string, days float64) (*LeaveBalance, error) {
	if !validDays(days) {
		return nil, leavebalanceerrors.ErrInvalidDays
	}
	return s.settle(ctx, balanceID, days, s.repo.ReleaseUsed)
}

// settle runs one CAS settlement. A failed guard on an existing row means the
// pending/used pool no longer covers the request's days, i.e. another
// settlement won the race.
func (s *service) settle(
	ctx context.Context,
	balanceID string,
	days float64,
	op func(ctx context.Context, id string, days float64) (bool, error),
) (*LeaveBalance, error) {
	updated, err := op(ctx, balanceID, days)
	if err != nil {
		return nil, err
	}
	if !updated {
		if _, err := s.repo.FindByID(ctx, balanceID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, leavebalanceerrors.ErrBalanceNotFound
			}
			return nil, err
		}
		s.logger.Warn("balance settlement lost a race",
			zap.String("balance_id", balanceID),
			zap.Float64("days", days),
		)
		return nil, leavebalanceerrors.ErrConcurrentBalanceUpdate
	}

	return s.repo.FindByID(ctx, balanceID)
}

func (s *service) AdjustForDateChange(ctx context.Context, balanceID string, deltaDays float64) (*LeaveBalance, error) {
	switch {
	case deltaDays > 0:
		return s.Reserve(ctx, balanceID, deltaDays)
	case deltaDays < 0:
		return s.Release(ctx, balanceID, -deltaDays)
	default:
		b, err := s.repo.FindByID(ctx, balanceID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, leavebalanceerrors.ErrBalanceNotFound
			}
			return nil, err
		}
		return b, nil
	}
}

func (s *service) GetEmployeeBalances(ctx context.Context, companyID, employeeID string, year *int) ([]LeaveBalanceResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, leavebalanceerrors.ErrInvalidEmployeeID
	}

	// Only the unfiltered listing is cached; year-scoped reads go straight to
	// the database so invalidation stays a single-key Del.
	if year != nil {
		balances, err := s.repo.FindAllByEmployee(ctx, companyID, employeeID, year)
		if err != nil {
			return nil, err
		}
		return mapToListResponse(balances), nil
	}

	cacheKey := employeeBalancesCacheKey(employeeID)
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, cacheKey).Result()
		if err == nil {
			var resp []LeaveBalanceResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		balances, err := s.repo.FindAllByEmployee(ctx, companyID, employeeID, nil)
		if err != nil {
			return nil, err
		}

		resp := mapToListResponse(balances)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, balanceCacheTTL)
			}
		}

		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]LeaveBalanceResponse), nil
}

func (s *service) InitializeYearly(ctx context.Context, companyID, employeeID string, year int) ([]LeaveBalanceResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return nil, leavebalanceerrors.ErrInvalidCompanyID
	}
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, leavebalanceerrors.ErrInvalidEmployeeID
	}
	if year < minYear || year > maxYear {
		return nil, leavebalanceerrors.ErrInvalidYear
	}

	var created int
	err = s.uow.WithinTx(ctx, func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		activeTypes, err := s.types.WithTx(tx).FindActiveByCompany(ctx, companyID)
		if err != nil {
			return err
		}

		existing, err := qtx.FindByEmployeeYear(ctx, employeeID, year)
		if err != nil {
			return err
		}
		initialized := make(map[uuid.UUID]bool, len(existing))
		for _, b := range existing {
			initialized[b.LeaveTypeID] = true
		}

		for _, t := range activeTypes {
			if initialized[t.ID] {
				continue
			}
			b := &LeaveBalance{
				ID:             uuid.New(),
				CompanyID:      companyUUID,
				EmployeeID:     employeeUUID,
				LeaveTypeID:    t.ID,
				Year:           year,
				TotalDays:      t.DefaultDaysAllowed,
				AvailableDays:  t.DefaultDaysAllowed,
				UsedDays:       0,
				PendingDays:    0,
				CarriedForward: 0,
			}
			if err := qtx.Create(ctx, b); err != nil {
				// Concurrent initializer beat us to this type; leave its row alone.
				if isUniqueViolation(err) {
					continue
				}
				return err
			}
			created++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("yearly balances initialized",
		zap.String("employee_id", employeeID),
		zap.Int("year", year),
		zap.Int("created", created),
	)
	s.InvalidateEmployeeCache(ctx, employeeID)

	balances, err := s.repo.FindByEmployeeYear(ctx, employeeID, year)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(balances), nil
}

// CarryForward is a coarse, idempotent batch: each target row is upserted
// independently, so a crash mid-run leaves every touched balance individually
// consistent and the run can simply be repeated.
func (s *service) CarryForward(ctx context.Context, companyID string, fromYear, toYear int) (int, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return 0, leavebalanceerrors.ErrInvalidCompanyID
	}
	if fromYear < minYear || fromYear > maxYear || toYear < minYear || toYear > maxYear {
		return 0, leavebalanceerrors.ErrInvalidYear
	}
	if toYear <= fromYear {
		return 0, leavebalanceerrors.ErrInvalidYearRange
	}

	sources, err := s.repo.FindCarryForwardSources(ctx, companyID, fromYear)
	if err != nil {
		return 0, err
	}

	touched := 0
	touchedEmployees := make(map[uuid.UUID]bool)
	for _, src := range sources {
		carry := src.AvailableDays
		if src.CarryForwardLimit != nil && carry > *src.CarryForwardLimit {
			carry = *src.CarryForwardLimit
		}
		if carry <= 0 {
			continue
		}

		target := &LeaveBalance{
			ID:             uuid.New(),
			CompanyID:      companyUUID,
			EmployeeID:     src.EmployeeID,
			LeaveTypeID:    src.LeaveTypeID,
			Year:           toYear,
			TotalDays:      src.DefaultDaysAllowed,
			CarriedForward: carry,
		}
		if err := s.repo.UpsertCarryForward(ctx, target); err != nil {
			return touched, fmt.Errorf("carry forward %s/%s: %w", src.EmployeeID, src.LeaveTypeID, err)
		}
		touched++
		touchedEmployees[src.EmployeeID] = true
	}

	for employeeID := range touchedEmployees {
		s.InvalidateEmployeeCache(ctx, employeeID.String())
	}

	s.logger.Info("carry forward completed",
		zap.String("company_id", companyID),
		zap.Int("from_year", fromYear),
		zap.Int("to_year", toYear),
		zap.Int("touched", touched),
	)
	return touched, nil
}

func (s *service) InvalidateEmployeeCache(ctx context.Context, employeeID string) {
	if s.rdb == nil {
		return
	}
	cacheKey := employeeBalancesCacheKey(employeeID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate balance cache",
			zap.String("cache_key", cacheKey),
			zap.Error(err),
		)
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "duplicate key value")
}

func mapToResponse(b LeaveBalance) LeaveBalanceResponse {
	return LeaveBalanceResponse{
		ID:             b.ID.String(),
		EmployeeID:     b.EmployeeID.String(),
		LeaveTypeID:    b.LeaveTypeID.String(),
		Year:           b.Year,
		TotalDays:      b.TotalDays,
		UsedDays:       b.UsedDays,
		PendingDays:    b.PendingDays,
		CarriedForward: b.CarriedForward,
		AvailableDays:  b.AvailableDays,
	}
}

func mapToListResponse(balances []LeaveBalance) []LeaveBalanceResponse {
	resp := make([]LeaveBalanceResponse, len(balances))
	for i, b := range balances {
		resp[i] = mapToResponse(b)
	}
	return resp
}
