package mongo

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/PierrardFacundo/GestionFinanzasapp/internal/domain/movement"
	"github.com/PierrardFacundo/GestionFinanzasapp/internal/domain/stats"
)

// StatsRepository implements stats.Repository with MongoDB aggregation pipelines
type StatsRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewStatsRepository creates a new MongoDB statistics repository
func NewStatsRepository(logger *slog.Logger, db *mongo.Database) *StatsRepository {
	return &StatsRepository{
		db:     db,
		logger: logger,
	}
}

// aggregate runs the pipeline on the movements collection and decodes every row into out
func (r *StatsRepository) aggregate(ctx context.Context, name string, pipeline mongo.Pipeline, out interface{}) error {
	cursor, err := r.db.Collection(MovementCollectionName).Aggregate(ctx, pipeline)
	if err != nil {
		r.logger.Error("Failed to run aggregation", "aggregation", name, "error", err)
		return storeError("failed to run "+name+" aggregation", err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, out); err != nil {
		r.logger.Error("Failed to decode aggregation", "aggregation", name, "error", err)
		return storeError("failed to decode "+name+" aggregation", err)
	}
	return nil
}

// DailyDeltas groups movements with date in [from, to] by UTC day, ascending
func (r *StatsRepository) DailyDeltas(ctx context.Context, from, to time.Time) ([]stats.DailyDelta, error) {
	rows := []stats.DailyDelta{}
	if err := r.aggregate(ctx, "daily_deltas", dailyDeltaPipeline(from, to), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// ExpenseTotalsByCategory sums expenses with date in [from, to) per category
func (r *StatsRepository) ExpenseTotalsByCategory(ctx context.Context, from, to time.Time) ([]stats.CategoryTotal, error) {
	rows := []stats.CategoryTotal{}
	if err := r.aggregate(ctx, "expenses_by_category", categoryTotalsPipeline(from, to), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// MonthlyExpenses sums expenses per UTC month in chronological order
func (r *StatsRepository) MonthlyExpenses(ctx context.Context, from, to *time.Time) ([]stats.MonthlyTotal, error) {
	rows := []stats.MonthlyTotal{}
	if err := r.aggregate(ctx, "expenses_monthly", monthlyExpensesPipeline(from, to, false), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// MonthlyExpensesByCategory sums expenses per month and category, sorted by year, month, category
func (r *StatsRepository) MonthlyExpensesByCategory(ctx context.Context, from, to *time.Time) ([]stats.MonthlyCategoryTotal, error) {
	rows := []stats.MonthlyCategoryTotal{}
	if err := r.aggregate(ctx, "expenses_monthly_by_category", monthlyExpensesPipeline(from, to, true), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// TotalsByType sums all amounts per movement type, over the whole collection
func (r *StatsRepository) TotalsByType(ctx context.Context) (map[movement.Type]float64, error) {
	var rows []struct {
		Type  movement.Type `bson:"_id"`
		Total float64       `bson:"total"`
	}
	if err := r.aggregate(ctx, "totals_by_type", totalsByTypePipeline(), &rows); err != nil {
		return nil, err
	}

	totals := make(map[movement.Type]float64, len(rows))
	for _, row := range rows {
		totals[row.Type] = row.Total
	}
	return totals, nil
}

var _ stats.Repository = (*StatsRepository)(nil)
