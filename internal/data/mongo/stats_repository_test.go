package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/PierrardFacundo/GestionFinanzasapp/internal/domain/movement"
	"github.com/PierrardFacundo/GestionFinanzasapp/internal/domain/stats"
)

func namespace(mt *mtest.T) string {
	return mt.DB.Name() + "." + MovementCollectionName
}

func TestStatsRepository_DailyDeltas(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	day1 := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	mt.Run("DecodesRows", func(mt *mtest.T) {
		repo := NewStatsRepository(testLogger, mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			bson.D{{Key: "_id", Value: day1}, {Key: "delta", Value: 1000.0}},
			bson.D{{Key: "_id", Value: day2}, {Key: "delta", Value: -400.0}},
		))

		rows, err := repo.DailyDeltas(context.Background(), day1, day2)

		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.True(t, day1.Equal(rows[0].Day))
		assert.Equal(t, 1000.0, rows[0].Delta)
		assert.Equal(t, -400.0, rows[1].Delta)
	})

	mt.Run("EmptyWindow", func(mt *mtest.T) {
		repo := NewStatsRepository(testLogger, mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		rows, err := repo.DailyDeltas(context.Background(), day1, day2)

		require.NoError(t, err)
		assert.NotNil(t, rows)
		assert.Empty(t, rows)
	})

	mt.Run("AggregationError", func(mt *mtest.T) {
		repo := NewStatsRepository(testLogger, mt.DB)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    168,
			Name:    "InvalidPipelineOperator",
			Message: "Unrecognized expression '$dateTrunc'",
		}))

		rows, err := repo.DailyDeltas(context.Background(), day1, day2)

		assert.Nil(t, rows)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "daily_deltas")
	})
}

func TestStatsRepository_ExpenseTotalsByCategory(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("DecodesRows", func(mt *mtest.T) {
		repo := NewStatsRepository(testLogger, mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "alquiler"}, {Key: "total", Value: 220000.0}},
			bson.D{{Key: "_id", Value: "ocio"}, {Key: "total", Value: int32(15000)}},
		))

		from, to := stats.MonthRange(2025, 3)
		rows, err := repo.ExpenseTotalsByCategory(context.Background(), from, to)

		require.NoError(t, err)
		assert.Equal(t, []stats.CategoryTotal{
			{Category: "alquiler", Total: 220000},
			{Category: "ocio", Total: 15000},
		}, rows)
	})
}

func TestStatsRepository_MonthlyExpenses(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("Monthly", func(mt *mtest.T) {
		repo := NewStatsRepository(testLogger, mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			bson.D{{Key: "total", Value: 500.0}, {Key: "year", Value: int32(2024)}, {Key: "month", Value: int32(12)}},
			bson.D{{Key: "total", Value: 80.0}, {Key: "year", Value: int32(2025)}, {Key: "month", Value: int32(2)}},
		))

		rows, err := repo.MonthlyExpenses(context.Background(), nil, nil)

		require.NoError(t, err)
		assert.Equal(t, []stats.MonthlyTotal{
			{Year: 2024, Month: 12, Total: 500},
			{Year: 2025, Month: 2, Total: 80},
		}, rows)
	})

	mt.Run("ByCategory", func(mt *mtest.T) {
		repo := NewStatsRepository(testLogger, mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			bson.D{{Key: "total", Value: 300.0}, {Key: "year", Value: int32(2025)}, {Key: "month", Value: int32(1)}, {Key: "category", Value: "hogar"}},
			bson.D{{Key: "total", Value: 20.0}, {Key: "year", Value: int32(2025)}, {Key: "month", Value: int32(1)}, {Key: "category", Value: "ocio"}},
		))

		rows, err := repo.MonthlyExpensesByCategory(context.Background(), nil, nil)

		require.NoError(t, err)
		assert.Equal(t, []stats.MonthlyCategoryTotal{
			{Year: 2025, Month: 1, Category: "hogar", Total: 300},
			{Year: 2025, Month: 1, Category: "ocio", Total: 20},
		}, rows)
	})
}

func TestStatsRepository_TotalsByType(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("MapsTypes", func(mt *mtest.T) {
		repo := NewStatsRepository(testLogger, mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "income"}, {Key: "total", Value: 1500.0}},
			bson.D{{Key: "_id", Value: "expense"}, {Key: "total", Value: 600.25}},
		))

		totals, err := repo.TotalsByType(context.Background())

		require.NoError(t, err)
		assert.Equal(t, map[movement.Type]float64{
			movement.TypeIncome:  1500,
			movement.TypeExpense: 600.25,
		}, totals)
	})
}

func TestPipelines(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 30, 23, 59, 59, 0, time.UTC)

	t.Run("DailyDeltaMatchesInclusiveWindow", func(t *testing.T) {
		p := dailyDeltaPipeline(from, to)
		require.Len(t, p, 4)
		assert.Equal(t, bson.E{Key: "$match", Value: bson.M{"date": bson.M{"$gte": from, "$lte": to}}}, p[0][0])
		assert.Equal(t, "$sort", p[3][0].Key)
	})

	t.Run("CategoryTotalsOnlyExpensesHalfOpen", func(t *testing.T) {
		p := categoryTotalsPipeline(from, to)
		assert.Equal(t, bson.M{
			"type": movement.TypeExpense,
			"date": bson.M{"$gte": from, "$lt": to},
		}, p[0][0].Value)
	})

	t.Run("MonthlyWithoutBounds", func(t *testing.T) {
		p := monthlyExpensesPipeline(nil, nil, false)
		assert.Equal(t, bson.M{"type": movement.TypeExpense}, p[0][0].Value)
		assert.Equal(t, bson.D{{Key: "_id.year", Value: 1}, {Key: "_id.month", Value: 1}}, p[2][0].Value)
	})

	t.Run("MonthlyByCategorySortsByCategoryLast", func(t *testing.T) {
		p := monthlyExpensesPipeline(&from, nil, true)
		assert.Equal(t, bson.M{"type": movement.TypeExpense, "date": bson.M{"$gte": from}}, p[0][0].Value)
		assert.Equal(t, bson.D{
			{Key: "_id.year", Value: 1},
			{Key: "_id.month", Value: 1},
			{Key: "_id.category", Value: 1},
		}, p[2][0].Value)
	})

	t.Run("TotalsByType", func(t *testing.T) {
		assert.Equal(t, mongo.Pipeline{
			{{Key: "$group", Value: bson.D{
				{Key: "_id", Value: "$type"},
				{Key: "total", Value: bson.M{"$sum": "$amount"}},
			}}},
		}, totalsByTypePipeline())
	})
}
