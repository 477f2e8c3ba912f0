package mongo

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"

	"github.com/PierrardFacundo/GestionFinanzasapp/internal/domain/movement"
)

const (
	// MovementCollectionName is the name of the movements collection in MongoDB
	MovementCollectionName = "movements"
)

// MovementRepository implements the movement.Repository interface for MongoDB
type MovementRepository struct {
	db     *mongo.Database
	logger *slog.Logger
	now    func() time.Time
}

// NewMovementRepository creates a new MongoDB movement repository
func NewMovementRepository(logger *slog.Logger, db *mongo.Database) *MovementRepository {
	return &MovementRepository{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

func (r *MovementRepository) collection() *mongo.Collection {
	return r.db.Collection(MovementCollectionName)
}

// timestamp returns the current time at the precision BSON dates keep
func (r *MovementRepository) timestamp() time.Time {
	return r.now().UTC().Truncate(time.Millisecond)
}

// Create assigns the id and timestamps to m and inserts it
func (r *MovementRepository) Create(ctx context.Context, m *movement.Movement) error {
	now := r.timestamp()
	m.ID = primitive.NewObjectID()
	m.CreatedAt = now
	m.UpdatedAt = now

	if _, err := r.collection().InsertOne(ctx, m); err != nil {
		r.logger.Error("Failed to create movement",
			"type", string(m.Type),
			"category", m.Category,
			"error", err)
		return storeError("failed to create movement", err)
	}

	return nil
}

// CreateMany inserts a batch of movements, assigning ids and timestamps
func (r *MovementRepository) CreateMany(ctx context.Context, ms []*movement.Movement) error {
	if len(ms) == 0 {
		return nil
	}

	now := r.timestamp()
	docs := make([]interface{}, 0, len(ms))
	for _, m := range ms {
		m.ID = primitive.NewObjectID()
		m.CreatedAt = now
		m.UpdatedAt = now
		docs = append(docs, m)
	}

	if _, err := r.collection().InsertMany(ctx, docs); err != nil {
		r.logger.Error("Failed to insert movements", "count", len(ms), "error", err)
		return storeError("failed to insert movements", err)
	}

	return nil
}

// List returns one page of movements matching the filter, newest first.
// Ties on date are broken by id so paging is deterministic.
func (r *MovementRepository) List(ctx context.Context, filter movement.ListFilter) (*movement.Page, error) {
	filter = filter.WithDefaults()
	query := listQuery(filter)

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(filter.Offset())).
		SetLimit(int64(filter.Limit))

	items := make([]*movement.Movement, 0, filter.Limit)
	var total int64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cursor, err := r.collection().Find(gctx, query, opts)
		if err != nil {
			return storeError("failed to list movements", err)
		}
		defer cursor.Close(gctx)

		if err := cursor.All(gctx, &items); err != nil {
			return storeError("failed to decode movements", err)
		}
		return nil
	})
	g.Go(func() error {
		count, err := r.collection().CountDocuments(gctx, query)
		if err != nil {
			return storeError("failed to count movements", err)
		}
		total = count
		return nil
	})

	if err := g.Wait(); err != nil {
		r.logger.Error("Failed to list movements",
			"page", filter.Page,
			"limit", filter.Limit,
			"error", err)
		return nil, err
	}

	return &movement.Page{
		Items: items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// Patch applies the supplied fields to an existing movement and returns its new state.
// Returns ErrMovementNotFound if the movement doesn't exist; it never upserts.
func (r *MovementRepository) Patch(ctx context.Context, id string, patch movement.Patch) (*movement.Movement, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, movement.ErrMovementNotFound{ID: id}
	}

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetUpsert(false)

	var updated movement.Movement
	err = r.collection().FindOneAndUpdate(ctx, bson.M{"_id": oid}, patchUpdate(patch, r.timestamp()), opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, movement.ErrMovementNotFound{ID: id}
		}
		r.logger.Error("Failed to patch movement", "id", id, "error", err)
		return nil, storeError("failed to patch movement", err)
	}

	return &updated, nil
}

// Delete removes a movement permanently.
// Returns ErrMovementNotFound if the movement doesn't exist.
func (r *MovementRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return movement.ErrMovementNotFound{ID: id}
	}

	result, err := r.collection().DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		r.logger.Error("Failed to delete movement", "id", id, "error", err)
		return storeError("failed to delete movement", err)
	}

	if result.DeletedCount == 0 {
		return movement.ErrMovementNotFound{ID: id}
	}

	return nil
}

// DeleteByDateRange removes every movement with date in [from, to)
func (r *MovementRepository) DeleteByDateRange(ctx context.Context, from, to time.Time) (int64, error) {
	filter := bson.M{"date": bson.M{"$gte": from, "$lt": to}}

	result, err := r.collection().DeleteMany(ctx, filter)
	if err != nil {
		r.logger.Error("Failed to delete movements by date range",
			"from", from,
			"to", to,
			"error", err)
		return 0, storeError("failed to delete movements", err)
	}

	return result.DeletedCount, nil
}

// listQuery translates a listing filter into a MongoDB query document
func listQuery(f movement.ListFilter) bson.M {
	query := bson.M{}
	if f.Type != "" {
		query["type"] = f.Type
	}
	if f.Category != "" {
		query["category"] = f.Category
	}
	if dates := dateBounds(f.From, f.To, "$lte"); len(dates) > 0 {
		query["date"] = dates
	}
	return query
}

// patchUpdate builds the $set/$unset document for a partial update
func patchUpdate(p movement.Patch, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if p.Type != nil {
		set["type"] = *p.Type
	}
	if p.Amount != nil {
		set["amount"] = *p.Amount
	}
	if p.Date != nil {
		set["date"] = *p.Date
	}
	if p.Category != nil {
		set["category"] = *p.Category
	}

	update := bson.M{"$set": set}
	if p.Note != nil {
		if *p.Note == "" {
			update["$unset"] = bson.M{"note": ""}
		} else {
			set["note"] = *p.Note
		}
	}
	return update
}

// dateBounds builds a range condition on date; upperOp is "$lte" or "$lt"
func dateBounds(from, to *time.Time, upperOp string) bson.M {
	bounds := bson.M{}
	if from != nil {
		bounds["$gte"] = *from
	}
	if to != nil {
		bounds[upperOp] = *to
	}
	return bounds
}

var _ movement.Repository = (*MovementRepository)(nil)
