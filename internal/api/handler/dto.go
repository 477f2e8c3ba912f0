package handler

// CreateMovementRequest represents a request to record a new movement
type CreateMovementRequest struct {
	Type     string  `json:"type" binding:"required,oneof=income expense"`
	Amount   float64 `json:"amount" binding:"required,gt=0"`
	Date     string  `json:"date" binding:"required"`
	Category string  `json:"category" binding:"required,notblank"`
	Note     string  `json:"note" binding:"max=280"`
}

// UpdateMovementRequest carries the fields of a partial update; absent fields stay untouched
type UpdateMovementRequest struct {
	Type     *string  `json:"type" binding:"omitempty,oneof=income expense"`
	Amount   *float64 `json:"amount" binding:"omitempty,gt=0"`
	Date     *string  `json:"date" binding:"omitempty"`
	Category *string  `json:"category" binding:"omitempty,notblank"`
	Note     *string  `json:"note" binding:"omitempty,max=280"`
}

// ListMovementsQuery represents the filters and pagination of a movement listing
type ListMovementsQuery struct {
	From     string `form:"from"`
	To       string `form:"to"`
	Type     string `form:"type" binding:"omitempty,oneof=income expense"`
	Category string `form:"category"`
	Page     int    `form:"page,default=1" binding:"min=1"`
	Limit    int    `form:"limit,default=20" binding:"min=1,max=100"`
}

// ExportMovementsQuery selects the movements and file type of an export
type ExportMovementsQuery struct {
	From     string `form:"from"`
	To       string `form:"to"`
	Type     string `form:"type" binding:"omitempty,oneof=income expense"`
	Category string `form:"category"`
	Format   string `form:"format" binding:"omitempty,oneof=csv xlsx"`
}

// DateRangeQuery represents an optional from/to window
type DateRangeQuery struct {
	From string `form:"from"`
	To   string `form:"to"`
}

// MonthQuery selects a calendar month; both fields are optional
type MonthQuery struct {
	Year  *int `form:"year" binding:"omitempty,min=1,max=9999"`
	Month *int `form:"month" binding:"omitempty,min=1,max=12"`
}

// DeleteMovementResponse acknowledges a deletion
type DeleteMovementResponse struct {
	OK bool `json:"ok"`
}

// MonthlyExpensesResponse wraps the monthly expense rows
type MonthlyExpensesResponse[T any] struct {
	Data []T `json:"data"`
}
