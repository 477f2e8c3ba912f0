package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/PierrardFacundo/GestionFinanzasapp/internal/domain/movement"
)

// dailyDeltaPipeline groups movements in [from, to] by UTC day with signed amounts
func dailyDeltaPipeline(from, to time.Time) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"date": bson.M{"$gte": from, "$lte": to}}}},
		{{Key: "$project", Value: bson.D{
			{Key: "day", Value: bson.M{"$dateTrunc": bson.D{
				{Key: "date", Value: "$date"},
				{Key: "unit", Value: "day"},
				{Key: "timezone", Value: "UTC"},
			}}},
			{Key: "signed", Value: bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$type", movement.TypeIncome}},
				"$amount",
				bson.M{"$multiply": bson.A{"$amount", -1}},
			}}},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$day"},
			{Key: "delta", Value: bson.M{"$sum": "$signed"}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
}

// categoryTotalsPipeline sums expenses in [from, to) per category, largest first
func categoryTotalsPipeline(from, to time.Time) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"type": movement.TypeExpense,
			"date": bson.M{"$gte": from, "$lt": to},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$category"},
			{Key: "total", Value: bson.M{"$sum": "$amount"}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "total", Value: -1}, {Key: "_id", Value: 1}}}},
	}
}

// monthlyExpensesPipeline sums expenses per UTC (year, month), optionally by category too
func monthlyExpensesPipeline(from, to *time.Time, byCategory bool) mongo.Pipeline {
	match := bson.M{"type": movement.TypeExpense}
	if dates := dateBounds(from, to, "$lte"); len(dates) > 0 {
		match["date"] = dates
	}

	groupID := bson.D{
		{Key: "year", Value: bson.M{"$year": "$date"}},
		{Key: "month", Value: bson.M{"$month": "$date"}},
	}
	sort := bson.D{{Key: "_id.year", Value: 1}, {Key: "_id.month", Value: 1}}
	project := bson.D{
		{Key: "_id", Value: 0},
		{Key: "year", Value: "$_id.year"},
		{Key: "month", Value: "$_id.month"},
		{Key: "total", Value: 1},
	}
	if byCategory {
		groupID = append(groupID, bson.E{Key: "category", Value: "$category"})
		sort = append(sort, bson.E{Key: "_id.category", Value: 1})
		project = append(project, bson.E{Key: "category", Value: "$_id.category"})
	}

	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: groupID},
			{Key: "total", Value: bson.M{"$sum": "$amount"}},
		}}},
		{{Key: "$sort", Value: sort}},
		{{Key: "$project", Value: project}},
	}
}

// totalsByTypePipeline sums every amount per movement type
func totalsByTypePipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$type"},
			{Key: "total", Value: bson.M{"$sum": "$amount"}},
		}}},
	}
}
