package leaverequest

type CreateLeaveRequestRequest struct {
	EmployeeID    string  `json:"employee_id" binding:"required,uuid"`
	LeaveTypeID   string  `json:"leave_type_id" binding:"required,uuid"`
	StartDate     string  `json:"start_date" binding:"required"`
	EndDate       string  `json:"end_date" binding:"required"`
	Reason        string  `json:"reason"`
	IsHalfDay     bool    `json:"is_half_day"`
	HalfDayPeriod *string `json:"half_day_period" binding:"omitempty,oneof=AM PM"`
}

// UpdateLeaveRequestRequest replaces the whole editable portion of a pending
// request. Dates are always required: the edit recomputes the day count and
// moves the reservation by the delta, so there is no partial-field form.
type UpdateLeaveRequestRequest struct {
	StartDate     string  `json:"start_date" binding:"required"`
	EndDate       string  `json:"end_date" binding:"required"`
	Reason        string  `json:"reason"`
	IsHalfDay     bool    `json:"is_half_day"`
	HalfDayPeriod *string `json:"half_day_period" binding:"omitempty,oneof=AM PM"`
}

type ApproveLeaveRequestRequest struct {
	Comments *string `json:"comments"`
}

type RejectLeaveRequestRequest struct {
	RejectionReason string `json:"rejection_reason" binding:"required"`
}

type CancelLeaveRequestRequest struct {
	CancellationReason *string `json:"cancellation_reason"`
}

type LeaveRequestResponse struct {
	ID                 string  `json:"id"`
	CompanyID          string  `json:"company_id"`
	EmployeeID         string  `json:"employee_id"`
	LeaveTypeID        string  `json:"leave_type_id"`
	BalanceID          string  `json:"balance_id"`
	StartDate          string  `json:"start_date"`
	EndDate            string  `json:"end_date"`
	TotalDays          float64 `json:"total_days"`
	IsHalfDay          bool    `json:"is_half_day"`
	HalfDayPeriod      *string `json:"half_day_period,omitempty"`
	Reason             string  `json:"reason"`
	Status             string  `json:"status"`
	CreatedBy          string  `json:"created_by"`
	ApprovedBy         *string `json:"approved_by,omitempty"`
	ApprovalComments   *string `json:"approval_comments,omitempty"`
	RejectionReason    *string `json:"rejection_reason,omitempty"`
	CancellationReason *string `json:"cancellation_reason,omitempty"`
	AppliedAt          string  `json:"applied_at"`
	ApprovedAt         *string `json:"approved_at,omitempty"`
	RejectedAt         *string `json:"rejected_at,omitempty"`
	CancelledAt        *string `json:"cancelled_at,omitempty"`
}
