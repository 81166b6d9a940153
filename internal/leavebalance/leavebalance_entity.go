package leavebalance

import (
	"time"

	"github.com/google/uuid"
)

// LeaveBalance is the ledger row, one per (employee, leave type, year).
// Invariant after every mutation:
//
//	AvailableDays == TotalDays + CarriedForward - UsedDays - PendingDays
//
// The row is owned exclusively by this package; every other module only reads
// it or calls ledger operations.
type LeaveBalance struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID   uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_balances_company"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balance_employee_type_year"`
	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balance_employee_type_year"`
	Year        int       `gorm:"not null;uniqueIndex:uq_leave_balance_employee_type_year"`

	TotalDays      float64 `gorm:"type:numeric(6,1);not null;default:0"`
	UsedDays       float64 `gorm:"type:numeric(6,1);not null;default:0"`
	PendingDays    float64 `gorm:"type:numeric(6,1);not null;default:0"`
	CarriedForward float64 `gorm:"type:numeric(6,1);not null;default:0"`
	AvailableDays  float64 `gorm:"type:numeric(6,1);not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// InvariantHolds re-derives the available pool from the other three fields.
func (b *LeaveBalance) InvariantHolds() bool {
	return b.AvailableDays == b.TotalDays+b.CarriedForward-b.UsedDays-b.PendingDays
}
