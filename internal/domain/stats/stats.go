// Package stats holds the reporting views derived from movements and the
// post-processing applied to the rows the store's aggregation engine returns.
// Nothing here is persisted; every view is recomputed per request.
package stats

import (
	"context"
	"time"

	"github.com/PierrardFacundo/GestionFinanzasapp/internal/domain/movement"
)

// DefaultBalanceWindow is the trailing window used when a balance series has no bounds
const DefaultBalanceWindow = 180 * 24 * time.Hour

// DailyDelta is the signed sum of the movements of one UTC day
type DailyDelta struct {
	Day   time.Time `bson:"_id"`
	Delta float64   `bson:"delta"`
}

// BalancePoint is one day of a balance series
type BalancePoint struct {
	Date    time.Time `json:"date"`
	Delta   float64   `json:"delta"`
	Balance float64   `json:"balance"`
}

// BalanceSeries is a windowed running balance. The balance starts at 0 at Start.
type BalanceSeries struct {
	Start  time.Time      `json:"start"`
	End    time.Time      `json:"end"`
	Series []BalancePoint `json:"series"`
}

// CategoryTotal is the summed expense amount of one category
type CategoryTotal struct {
	Category string  `bson:"_id"`
	Total    float64 `bson:"total"`
}

// CategorySlice is a category total with its share of the month's expenses
type CategorySlice struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Pct      float64 `json:"pct"`
}

// ExpensesByCategory is the expense breakdown of a calendar month
type ExpensesByCategory struct {
	Year  int             `json:"year"`
	Month int             `json:"month"`
	Total float64         `json:"total"`
	Data  []CategorySlice `json:"data"`
}

// MonthlyTotal is the summed expense amount of one calendar month
type MonthlyTotal struct {
	Year  int     `json:"year" bson:"year"`
	Month int     `json:"month" bson:"month"`
	Total float64 `json:"total" bson:"total"`
}

// MonthlyCategoryTotal is the summed expense amount of one category in one month
type MonthlyCategoryTotal struct {
	Year     int     `json:"year" bson:"year"`
	Month    int     `json:"month" bson:"month"`
	Category string  `json:"category" bson:"category"`
	Total    float64 `json:"total" bson:"total"`
}

// Summary holds the global income and expense sums
type Summary struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
}

// Repository runs the aggregation queries against the movement store.
// Nil bounds are unbounded.
type Repository interface {
	// DailyDeltas groups movements with date in [from, to] by UTC day, ascending
	DailyDeltas(ctx context.Context, from, to time.Time) ([]DailyDelta, error)
	// ExpenseTotalsByCategory sums expenses with date in [from, to) per category, largest first
	ExpenseTotalsByCategory(ctx context.Context, from, to time.Time) ([]CategoryTotal, error)
	// MonthlyExpenses sums expenses with date in [from, to] per UTC month, chronologically
	MonthlyExpenses(ctx context.Context, from, to *time.Time) ([]MonthlyTotal, error)
	// MonthlyExpensesByCategory sums expenses per month and category
	MonthlyExpensesByCategory(ctx context.Context, from, to *time.Time) ([]MonthlyCategoryTotal, error)
	// TotalsByType sums all amounts per movement type
	TotalsByType(ctx context.Context) (map[movement.Type]float64, error)
}
