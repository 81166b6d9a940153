package leavebalance

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CarryForwardSource is one fromYear balance joined with its type's
// carry-forward policy, as consumed by the yearly batch.
type CarryForwardSource struct {
	EmployeeID         uuid.UUID
	LeaveTypeID        uuid.UUID
	AvailableDays      float64
	CarryForwardLimit  *float64
	DefaultDaysAllowed float64
}

//go:generate mockgen -source=leavebalance_repo.go -destination=mock/leavebalance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, b *LeaveBalance) error
	FindByID(ctx context.Context, id string) (*LeaveBalance, error)
	FindByKey(ctx context.Context, employeeID, leaveTypeID string, year int) (*LeaveBalance, error)
	FindByKeyForUpdate(ctx context.Context, employeeID, leaveTypeID string, year int) (*LeaveBalance, error)
	FindAllByEmployee(ctx context.Context, companyID, employeeID string, year *int) ([]LeaveBalance, error)
	FindByEmployeeYear(ctx context.Context, employeeID string, year int) ([]LeaveBalance, error)
	FindCarryForwardSources(ctx context.Context, companyID string, fromYear int) ([]CarryForwardSource, error)

	// Compare-and-swap mutations. Each runs a single UPDATE whose WHERE clause
	// carries the business guard and re-derives available_days from the other
	// three fields. The bool reports whether a row was actually updated; false
	// means the guard failed or the row is gone, which the service
	// disambiguates by re-reading.
	Reserve(ctx context.Context, id string, days float64) (bool, error)
	CommitPending(ctx context.Context, id string, days float64) (bool, error)
	ReleasePending(ctx context.Context, id string, days float64) (bool, error)
	ReleaseUsed(ctx context.Context, id string, days float64) (bool, error)
	UpsertCarryForward(ctx context.Context, b *LeaveBalance) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, b *LeaveBalance) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error
	return &b, err
}

func (r *repository) FindByKey(ctx context.Context, employeeID, leaveTypeID string, year int) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("leave_type_id = ?", leaveTypeID).
		Where("year = ?", year).
		First(&b).Error
	return &b, err
}

func (r *repository) FindByKeyForUpdate(ctx context.Context, employeeID, leaveTypeID string, year int) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("employee_id = ?", employeeID).
		Where("leave_type_id = ?", leaveTypeID).
		Where("year = ?", year).
		First(&b).Error
	return &b, err
}

func (r *repository) FindAllByEmployee(ctx context.Context, companyID, employeeID string, year *int) ([]LeaveBalance, error) {
	db := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("employee_id = ?", employeeID)
	if year != nil {
		db = db.Where("year = ?", *year)
	}

	var balances []LeaveBalance
	err := db.Order("year DESC").Find(&balances).Error
	return balances, err
}

func (r *repository) FindByEmployeeYear(ctx context.Context, employeeID string, year int) ([]LeaveBalance, error) {
	var balances []LeaveBalance
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("year = ?", year).
		Find(&balances).Error
	return balances, err
}

func (r *repository) FindCarryForwardSources(ctx context.Context, companyID string, fromYear int) ([]CarryForwardSource, error) {
	var sources []CarryForwardSource
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			b.employee_id,
			b.leave_type_id,
			b.available_days,
			t.carry_forward_limit,
			t.default_days_allowed
		FROM leave_balances b
		JOIN leave_types t ON t.id = b.leave_type_id
		WHERE b.company_id = ?
			AND b.year = ?
			AND t.carry_forward_enabled = TRUE
			AND t.deleted_at IS NULL
			AND b.available_days > 0
		ORDER BY b.employee_id, b.leave_type_id
	`, companyID, fromYear).Scan(&sources).Error
	return sources, err
}

// Reserve moves days from available into pending. Guard: available >= days.
func (r *repository) Reserve(ctx context.Context, id string, days float64) (bool, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE leave_balances
		SET pending_days = pending_days + ?,
			available_days = total_days + carried_forward - used_days - (pending_days + ?),
			updated_at = now()
		WHERE id = ? AND available_days >= ?
	`, days, days, id, days)
	return res.RowsAffected > 0, res.Error
}

// CommitPending settles a reservation into usage. available_days is untouched
// arithmetically: the days were already deducted at reservation time.
func (r *repository) CommitPending(ctx context.Context, id string, days float64) (bool, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE leave_balances
		SET pending_days = pending_days - ?,
			used_days = used_days + ?,
			available_days = total_days + carried_forward - (used_days + ?) - (pending_days - ?),
			updated_at = now()
		WHERE id = ? AND pending_days >= ?
	`, days, days, days, days, id, days)
	return res.RowsAffected > 0, res.Error
}

// ReleasePending returns reserved days to the available pool.
func (r *repository) ReleasePending(ctx context.Context, id string, days float64) (bool, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE leave_balances
		SET pending_days = pending_days - ?,
			available_days = total_days + carried_forward - used_days - (pending_days - ?),
			updated_at = now()
		WHERE id = ? AND pending_days >= ?
	`, days, days, id, days)
	return res.RowsAffected > 0, res.Error
}

// ReleaseUsed returns settled days to the available pool (cancellation of an
// approved, not-yet-started request).
func (r *repository) ReleaseUsed(ctx context.Context, id string, days float64) (bool, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE leave_balances
		SET used_days = used_days - ?,
			available_days = total_days + carried_forward - (used_days - ?) - pending_days,
			updated_at = now()
		WHERE id = ? AND used_days >= ?
	`, days, days, id, days)
	return res.RowsAffected > 0, res.Error
}

// UpsertCarryForward writes a target-year row for the yearly batch. On
// conflict the existing row keeps its used/pending and gets available_days
// re-derived, so a mid-year run cannot overstate availability.
func (r *repository) UpsertCarryForward(ctx context.Context, b *LeaveBalance) error {
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO leave_balances (
			id, company_id, employee_id, leave_type_id, year,
			total_days, used_days, pending_days, carried_forward, available_days,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, 0, 0, ?, ?, now(), now())
		ON CONFLICT (employee_id, leave_type_id, year) DO UPDATE
		SET total_days = EXCLUDED.total_days,
			carried_forward = EXCLUDED.carried_forward,
			available_days = EXCLUDED.total_days + EXCLUDED.carried_forward
				- leave_balances.used_days - leave_balances.pending_days,
			updated_at = now()
	`,
		b.ID, b.CompanyID, b.EmployeeID, b.LeaveTypeID, b.Year,
		b.TotalDays, b.CarriedForward, b.TotalDays+b.CarriedForward,
	).Error
}
