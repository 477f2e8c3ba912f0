package client

import "time"

// MovementType is either TypeIncome or TypeExpense
type MovementType string

const (
	TypeIncome  MovementType = "income"
	TypeExpense MovementType = "expense"
)

// Movement is a stored income or expense
type Movement struct {
	ID        string       `json:"id"`
	Type      MovementType `json:"type"`
	Amount    float64      `json:"amount"`
	Date      time.Time    `json:"date"`
	Category  string       `json:"category"`
	Note      string       `json:"note,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// NewMovement is the body of CreateMovement
type NewMovement struct {
	Type     MovementType `json:"type"`
	Amount   float64      `json:"amount"`
	Date     time.Time    `json:"date"`
	Category string       `json:"category"`
	Note     string       `json:"note,omitempty"`
}

// MovementUpdate is the body of UpdateMovement; nil fields are left untouched
type MovementUpdate struct {
	Type     *MovementType `json:"type,omitempty"`
	Amount   *float64      `json:"amount,omitempty"`
	Date     *time.Time    `json:"date,omitempty"`
	Category *string       `json:"category,omitempty"`
	Note     *string       `json:"note,omitempty"`
}

// ListOptions filters ListMovements. Zero values are omitted from the query.
type ListOptions struct {
	Type     MovementType
	Category string
	From     *time.Time
	To       *time.Time
	Page     int
	Limit    int
}

// MovementPage is one page of a listing
type MovementPage struct {
	Items []Movement `json:"items"`
	Total int64      `json:"total"`
	Page  int        `json:"page"`
	Limit int        `json:"limit"`
}

type Summary struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
}

type BalancePoint struct {
	Date    time.Time `json:"date"`
	Delta   float64   `json:"delta"`
	Balance float64   `json:"balance"`
}

type BalanceSeries struct {
	Start  time.Time      `json:"start"`
	End    time.Time      `json:"end"`
	Series []BalancePoint `json:"series"`
}

type CategorySlice struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Pct      float64 `json:"pct"`
}

type ExpensesByCategory struct {
	Year  int             `json:"year"`
	Month int             `json:"month"`
	Total float64         `json:"total"`
	Data  []CategorySlice `json:"data"`
}

type MonthlyTotal struct {
	Year  int     `json:"year"`
	Month int     `json:"month"`
	Total float64 `json:"total"`
}

type MonthlyCategoryTotal struct {
	Year     int     `json:"year"`
	Month    int     `json:"month"`
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// Health is the liveness payload
type Health struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
	Env     string `json:"env"`
}
