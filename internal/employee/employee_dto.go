package employee

type CreateEmployeeRequest struct {
	Name       string  `json:"name" binding:"required,min=3"`
	Email      string  `json:"email" binding:"required,email"`
	Position   string  `json:"position" binding:"required"`
	Salary     float64 `json:"salary" binding:"required,gt=0"`
	DateJoined string  `json:"date_joined" binding:"required,datetime=2006-01-02"`
	Status     string  `json:"status" binding:"omitempty,oneof=Active Inactive"`
}

type UpdateEmployeeRequest struct {
	Name       string  `json:"name" binding:"required,min=3"`
	Email      string  `json:"email" binding:"required,email"`
	Position   string  `json:"position" binding:"required"`
	Salary     float64 `json:"salary" binding:"required,gt=0"`
	DateJoined string  `json:"date_joined" binding:"required,datetime=2006-01-02"`
	Status     string  `json:"status" binding:"required,oneof=Active Inactive"`
}

type BulkDeleteRequest struct {
	IDs []string `json:"ids" binding:"required,min=1"`
}

type BulkStatusRequest struct {
	IDs    []string `json:"ids" binding:"required,min=1"`
	Status string   `json:"status" binding:"required,oneof=Active Inactive"`
}

type EmployeeResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Position     string  `json:"position"`
	Status       string  `json:"status"`
	Salary       float64 `json:"salary"`
	DateJoined   string  `json:"date_joined"`
	EmployeeCode string  `json:"employee_code"`
	TenureYears  float64 `json:"tenure_years"`
}

type StatusChangeResponse struct {
	Date      string `json:"date"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}

type EmployeeDetailResponse struct {
	EmployeeResponse
	StatusHistory []StatusChangeResponse `json:"status_history"`
}

// ListResult is what the list operation hands the transport layer: one page
// of rows plus the counts and the normalized (page-clamped) view state.
type ListResult struct {
	Items      []EmployeeResponse
	Total      int
	TotalPages int
	Page       int
	ViewState  map[string]string
}

type PositionCount struct {
	Position string `json:"position"`
	Count    int    `json:"count"`
}

type SummaryResponse struct {
	Total           int             `json:"total"`
	ActiveCount     int             `json:"active_count"`
	InactiveCount   int             `json:"inactive_count"`
	ActivePct       int             `json:"active_pct"`
	TopPositions    []PositionCount `json:"top_positions"`
	AvgTenureYears  float64         `json:"avg_tenure_years"`
	AddedLast30Days int             `json:"added_last_30_days"`
	PctChange       int             `json:"pct_change"`
}
