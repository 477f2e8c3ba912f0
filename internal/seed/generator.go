// Package seed generates a year of realistic demo movements for the dashboard.
package seed

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/PierrardFacundo/GestionFinanzasapp/internal/domain/movement"
)

// seedHour places every generated movement mid-day so no timezone shifts it
// into a neighbouring day
const seedHour = 15

type amountRange struct {
	min, max float64
}

// rule describes how many movements of one category a month gets
type rule struct {
	typ      movement.Type
	category string
	note     string // formatted with year and month when it contains %d
	amount   amountRange
	minCount int
	maxCount int
	lastDay  int // latest day of month; 0 means any day
}

var monthlyRules = []rule{
	{movement.TypeIncome, "sueldo", "Sueldo %d-%02d", amountRange{600000, 1200000}, 1, 1, 7},
	{movement.TypeIncome, "freelance", "Trabajo freelance", amountRange{80000, 300000}, 0, 2, 0},
	{movement.TypeExpense, "alquiler", "Alquiler", amountRange{180000, 260000}, 1, 1, 10},
	{movement.TypeExpense, "servicios", "Pago de servicios", amountRange{20000, 70000}, 3, 5, 0},
	{movement.TypeExpense, "supermercado", "Compras supermercado", amountRange{15000, 60000}, 4, 8, 0},
	{movement.TypeExpense, "comida_fuera", "Comida fuera de casa", amountRange{5000, 20000}, 2, 6, 0},
	{movement.TypeExpense, "transporte", "Transporte", amountRange{1500, 8000}, 8, 20, 0},
	{movement.TypeExpense, "ocio", "Ocio", amountRange{5000, 40000}, 2, 6, 0},
	{movement.TypeExpense, "hogar", "Gastos hogar", amountRange{8000, 60000}, 1, 3, 0},
	{movement.TypeExpense, "educacion", "Educación / cursos", amountRange{10000, 50000}, 0, 2, 0},
}

// GenerateMonth builds the demo movements of one calendar month using rng.
// The same rng state always yields the same movements.
func GenerateMonth(year int, month time.Month, rng *rand.Rand) ([]*movement.Movement, error) {
	daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()

	var out []*movement.Movement
	for _, r := range monthlyRules {
		count := between(rng, r.minCount, r.maxCount)
		lastDay := daysInMonth
		if r.lastDay > 0 && r.lastDay < daysInMonth {
			lastDay = r.lastDay
		}

		note := r.note
		if strings.Contains(note, "%d") {
			note = fmt.Sprintf(note, year, int(month))
		}

		for i := 0; i < count; i++ {
			date := time.Date(year, month, between(rng, 1, lastDay), seedHour, 0, 0, 0, time.UTC)
			m, err := movement.New(r.typ, randomAmount(rng, r.amount), date, r.category, note)
			if err != nil {
				return nil, fmt.Errorf("failed to build %s movement: %w", r.category, err)
			}
			out = append(out, m)
		}
	}
	return out, nil
}

// randomAmount draws from the range and rounds to cents
func randomAmount(rng *rand.Rand, r amountRange) float64 {
	raw := r.min + rng.Float64()*(r.max-r.min)
	return decimal.NewFromFloat(raw).Round(2).InexactFloat64()
}

// between returns an int in [lo, hi]
func between(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.IntN(hi-lo+1)
}
