package leaverequest

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCancelled = "CANCELLED"

	// Reserved extension points; no transition here produces them yet.
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
	StatusExtended   = "EXTENDED"
)

const (
	HalfDayMorning   = "AM"
	HalfDayAfternoon = "PM"
)

// NonTerminalStatuses are the statuses that still hold a live reservation or
// usage claim on a balance, and therefore participate in overlap checks.
var NonTerminalStatuses = []string{StatusPending, StatusApproved, StatusInProgress}

// LeaveRequest owns exactly one reservation on one balance for its entire
// life; the balance itself is only ever mutated through the ledger.
type LeaveRequest struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID   uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_company_status"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_employee_dates"`
	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null"`
	BalanceID   uuid.UUID `gorm:"type:uuid;not null"`

	StartDate     time.Time `gorm:"type:date;not null;index:idx_leave_requests_employee_dates"`
	EndDate       time.Time `gorm:"type:date;not null;index:idx_leave_requests_employee_dates"`
	TotalDays     float64   `gorm:"type:numeric(5,1);not null;default:1"`
	IsHalfDay     bool      `gorm:"not null;default:false"`
	HalfDayPeriod *string   `gorm:"type:varchar(2)"`
	Reason        string    `gorm:"type:text"`

	Status             string     `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_leave_requests_company_status"`
	CreatedBy          uuid.UUID  `gorm:"type:uuid;not null"`
	ApprovedBy         *uuid.UUID `gorm:"type:uuid"`
	ApprovalComments   *string    `gorm:"type:text"`
	RejectionReason    *string    `gorm:"type:text"`
	CancellationReason *string    `gorm:"type:text"`

	AppliedAt   time.Time `gorm:"not null"`
	ApprovedAt  *time.Time
	RejectedAt  *time.Time
	CancelledAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_leave_requests_deleted_at"`
}
