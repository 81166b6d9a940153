package leavetype

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LeaveType is the reference/policy entity the ledger reads. Administrative
// edits are ordinary CRUD; the row cannot be deleted while balances or
// requests still reference it.
type LeaveType struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_type_company_name"`

	Name        string `gorm:"type:varchar(100);not null;uniqueIndex:uq_leave_type_company_name"`
	Description string `gorm:"type:text"`

	DefaultDaysAllowed  float64  `gorm:"type:numeric(5,1);not null"`
	MaxDaysPerRequest   *float64 `gorm:"type:numeric(5,1)"`
	CarryForwardEnabled bool     `gorm:"not null;default:false"`
	CarryForwardLimit   *float64 `gorm:"type:numeric(5,1)"`
	RequiresApproval    bool     `gorm:"not null;default:true"`
	IsActive            bool     `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_leave_types_deleted_at"`
}

// ExceedsPerRequestCap reports whether a day count breaks the optional
// per-request cap.
func (t *LeaveType) ExceedsPerRequestCap(days float64) bool {
	return t.MaxDaysPerRequest != nil && days > *t.MaxDaysPerRequest
}
