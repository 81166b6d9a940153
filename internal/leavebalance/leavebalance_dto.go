package leavebalance

type LeaveBalanceResponse struct {
	ID             string  `json:"id"`
	EmployeeID     string  `json:"employee_id"`
	LeaveTypeID    string  `json:"leave_type_id"`
	Year           int     `json:"year"`
	TotalDays      float64 `json:"total_days"`
	UsedDays       float64 `json:"used_days"`
	PendingDays    float64 `json:"pending_days"`
	CarriedForward float64 `json:"carried_forward"`
	AvailableDays  float64 `json:"available_days"`
}

type InitializeYearlyRequest struct {
	Year int `json:"year" binding:"required,min=2000,max=2100"`
}

type CarryForwardRequest struct {
	FromYear int `json:"from_year" binding:"required,min=2000,max=2100"`
	ToYear   int `json:"to_year" binding:"required,min=2000,max=2100,gtfield=FromYear"`
}

type CarryForwardResponse struct {
	FromYear        int `json:"from_year"`
	ToYear          int `json:"to_year"`
	BalancesTouched int `json:"balances_touched"`
}
