package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/PierrardFacundo/GestionFinanzasapp/internal/domain/movement"
	"github.com/PierrardFacundo/GestionFinanzasapp/internal/domain/stats"
)

// StatsServiceImpl implements the StatsService interface on top of the
// store's aggregation queries
type StatsServiceImpl struct {
	statsRepo stats.Repository
	logger    *slog.Logger
	now       func() time.Time
}

// NewStatsService creates a new stats service using the wall clock
func NewStatsService(logger *slog.Logger, statsRepo stats.Repository) StatsService {
	return newStatsService(logger, statsRepo, time.Now)
}

func newStatsService(logger *slog.Logger, statsRepo stats.Repository, now func() time.Time) *StatsServiceImpl {
	return &StatsServiceImpl{
		statsRepo: statsRepo,
		logger:    logger,
		now:       now,
	}
}

func (s *StatsServiceImpl) Summary(ctx context.Context) (*stats.Summary, error) {
	totals, err := s.statsRepo.TotalsByType(ctx)
	if err != nil {
		s.logger.Error("Failed to compute summary", "error", err)
		return nil, err
	}
	summary := stats.NewSummary(totals)
	return &summary, nil
}

// BalanceSeries computes a running balance over [from, to]. Movements before
// from are ignored, so the balance starts at 0.
func (s *StatsServiceImpl) BalanceSeries(ctx context.Context, from, to *time.Time) (*stats.BalanceSeries, error) {
	end := s.now().UTC()
	if to != nil {
		end = to.UTC()
	}
	start := end.Add(-stats.DefaultBalanceWindow)
	if from != nil {
		start = from.UTC()
	}
	if start.After(end) {
		return nil, movement.ValidationError{Field: "from", Reason: "must not be after to"}
	}

	deltas, err := s.statsRepo.DailyDeltas(ctx, start, end)
	if err != nil {
		s.logger.Error("Failed to compute balance series", "from", start, "to", end, "error", err)
		return nil, err
	}

	return &stats.BalanceSeries{
		Start:  start,
		End:    end,
		Series: stats.RunningBalance(deltas),
	}, nil
}

// ExpensesByCategory breaks down the expenses of one calendar month
func (s *StatsServiceImpl) ExpensesByCategory(ctx context.Context, year, month *int) (*stats.ExpensesByCategory, error) {
	now := s.now().UTC()
	y, m := now.Year(), int(now.Month())
	if year != nil {
		y = *year
	}
	if month != nil {
		m = *month
	}
	if m < 1 || m > 12 {
		return nil, movement.ValidationError{Field: "month", Reason: "must be between 1 and 12"}
	}

	from, to := stats.MonthRange(y, m)
	rows, err := s.statsRepo.ExpenseTotalsByCategory(ctx, from, to)
	if err != nil {
		s.logger.Error("Failed to compute expenses by category", "year", y, "month", m, "error", err)
		return nil, err
	}

	total, data := stats.CategoryShares(rows)
	return &stats.ExpensesByCategory{
		Year:  y,
		Month: m,
		Total: total,
		Data:  data,
	}, nil
}

// ExpensesMonthly sums expenses per month. With both bounds every month in
// between is present, zero-filled.
func (s *StatsServiceImpl) ExpensesMonthly(ctx context.Context, from, to *time.Time) ([]stats.MonthlyTotal, error) {
	to = wholeDay(to)
	if err := checkRange(from, to); err != nil {
		return nil, err
	}

	rows, err := s.statsRepo.MonthlyExpenses(ctx, from, to)
	if err != nil {
		s.logger.Error("Failed to compute monthly expenses", "error", err)
		return nil, err
	}

	if from != nil && to != nil {
		return stats.FillMonthGaps(rows, *from, *to), nil
	}
	if rows == nil {
		rows = []stats.MonthlyTotal{}
	}
	return rows, nil
}

func (s *StatsServiceImpl) ExpensesMonthlyByCategory(ctx context.Context, from, to *time.Time) ([]stats.MonthlyCategoryTotal, error) {
	to = wholeDay(to)
	if err := checkRange(from, to); err != nil {
		return nil, err
	}

	rows, err := s.statsRepo.MonthlyExpensesByCategory(ctx, from, to)
	if err != nil {
		s.logger.Error("Failed to compute monthly expenses by category", "error", err)
		return nil, err
	}
	if rows == nil {
		rows = []stats.MonthlyCategoryTotal{}
	}
	return rows, nil
}

// wholeDay moves a monthly upper bound to the end of its UTC day, whatever
// time of day the caller sent
func wholeDay(to *time.Time) *time.Time {
	if to == nil {
		return nil
	}
	end := stats.EndOfDay(*to)
	return &end
}

func checkRange(from, to *time.Time) error {
	if from != nil && to != nil && from.After(*to) {
		return movement.ValidationError{Field: "from", Reason: "must not be after to"}
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, movement.ErrMovementNotFound{})
}
