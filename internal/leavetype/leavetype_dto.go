package leavetype

type CreateLeaveTypeRequest struct {
	Name                string   `json:"name" binding:"required,max=100"`
	Description         string   `json:"description"`
	DefaultDaysAllowed  float64  `json:"default_days_allowed" binding:"required,gt=0"`
	MaxDaysPerRequest   *float64 `json:"max_days_per_request" binding:"omitempty,gt=0"`
	CarryForwardEnabled bool     `json:"carry_forward_enabled"`
	CarryForwardLimit   *float64 `json:"carry_forward_limit" binding:"omitempty,gt=0"`
	RequiresApproval    *bool    `json:"requires_approval"`
}

type UpdateLeaveTypeRequest struct {
	Name                string   `json:"name" binding:"required,max=100"`
	Description         string   `json:"description"`
	DefaultDaysAllowed  float64  `json:"default_days_allowed" binding:"required,gt=0"`
	MaxDaysPerRequest   *float64 `json:"max_days_per_request" binding:"omitempty,gt=0"`
	CarryForwardEnabled bool     `json:"carry_forward_enabled"`
	CarryForwardLimit   *float64 `json:"carry_forward_limit" binding:"omitempty,gt=0"`
	RequiresApproval    bool     `json:"requires_approval"`
	IsActive            bool     `json:"is_active"`
}

type LeaveTypeResponse struct {
	ID                  string   `json:"id"`
	CompanyID           string   `json:"company_id"`
	Name                string   `json:"name"`
	Description         string   `json:"description,omitempty"`
	DefaultDaysAllowed  float64  `json:"default_days_allowed"`
	MaxDaysPerRequest   *float64 `json:"max_days_per_request,omitempty"`
	CarryForwardEnabled bool     `json:"carry_forward_enabled"`
	CarryForwardLimit   *float64 `json:"carry_forward_limit,omitempty"`
	RequiresApproval    bool     `json:"requires_approval"`
	IsActive            bool     `json:"is_active"`
}
