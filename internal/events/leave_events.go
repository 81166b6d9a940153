package events

import "time"

const LeaveRequestLifecycleTopic = "hr.leave.request.lifecycle.v1"

const (
	LeaveRequestCreated   = "leave_request.created"
	LeaveRequestApproved  = "leave_request.approved"
	LeaveRequestRejected  = "leave_request.rejected"
	LeaveRequestCancelled = "leave_request.cancelled"
)

type LeaveRequestEvent struct {
	EventType   string    `json:"event_type"`
	RequestID   string    `json:"request_id"`
	CompanyID   string    `json:"company_id"`
	EmployeeID  string    `json:"employee_id"`
	LeaveTypeID string    `json:"leave_type_id"`
	TotalDays   float64   `json:"total_days"`
	Status      string    `json:"status"`
	OccurredAt  time.Time `json:"occurred_at"`
}
