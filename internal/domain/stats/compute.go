package stats

import (
	"time"

	"github.com/PierrardFacundo/GestionFinanzasapp/internal/domain/movement"
)

// RunningBalance accumulates daily deltas in the given order, starting from 0.
// Movements before the window never contribute.
func RunningBalance(deltas []DailyDelta) []BalancePoint {
	series := make([]BalancePoint, 0, len(deltas))
	var acc float64
	for _, d := range deltas {
		acc += d.Delta
		series = append(series, BalancePoint{Date: d.Day.UTC(), Delta: d.Delta, Balance: acc})
	}
	return series
}

// CategoryShares computes the grand total and each category's share of it.
// A zero grand total divides by 1 so every share is 0.
func CategoryShares(rows []CategoryTotal) (float64, []CategorySlice) {
	var total float64
	for _, r := range rows {
		total += r.Total
	}

	denominator := total
	if denominator == 0 {
		denominator = 1
	}

	data := make([]CategorySlice, 0, len(rows))
	for _, r := range rows {
		data = append(data, CategorySlice{
			Category: r.Category,
			Total:    r.Total,
			Pct:      r.Total / denominator,
		})
	}
	return total, data
}

// NewSummary derives the summary from per-type totals
func NewSummary(totals map[movement.Type]float64) Summary {
	income := totals[movement.TypeIncome]
	expense := totals[movement.TypeExpense]
	return Summary{Income: income, Expense: expense, Balance: income - expense}
}

// MonthRange returns [first instant of the month, first instant of the next month) in UTC
func MonthRange(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// StartOfDay truncates t to its UTC calendar day
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// EndOfDay returns the last millisecond of t's UTC calendar day, the
// finest instant the store keeps
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Millisecond)
}

// MonthsBetween counts whole calendar months from from's month to to's month
func MonthsBetween(from, to time.Time) int {
	from, to = from.UTC(), to.UTC()
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}

// FillMonthGaps returns one entry per calendar month between from's month and
// to's month inclusive, taking totals from rows and 0 where a month has none.
func FillMonthGaps(rows []MonthlyTotal, from, to time.Time) []MonthlyTotal {
	n := MonthsBetween(from, to)
	if n < 0 {
		return []MonthlyTotal{}
	}

	type key struct{ year, month int }
	totals := make(map[key]float64, len(rows))
	for _, r := range rows {
		totals[key{r.Year, r.Month}] += r.Total
	}

	cursor := time.Date(from.UTC().Year(), from.UTC().Month(), 1, 0, 0, 0, 0, time.UTC)
	out := make([]MonthlyTotal, 0, n+1)
	for i := 0; i <= n; i++ {
		k := key{cursor.Year(), int(cursor.Month())}
		out = append(out, MonthlyTotal{Year: k.year, Month: k.month, Total: totals[k]})
		cursor = cursor.AddDate(0, 1, 0)
	}
	return out
}
