package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	ticketerrors "zoo/internal/tickets/errors"
	"zoo/pkg/config"
	mongodb "zoo/pkg/db/mongo"
	"zoo/pkg/model"
	"zoo/pkg/sanitizer"
)

const (
	CollectionName = "Tickets"

	DefaultSortField = "createdAt"
)

// Query selects tickets. ActiveAt, when set, restricts the result to Active
// tickets that have not expired at that instant.
type Query struct {
	Filter   model.TicketFilter
	ActiveAt *time.Time
}

type TicketRepository interface {
	Create(ctx context.Context, ticket *model.Ticket) error
	FindByID(ctx context.Context, id string) (*model.Ticket, error)
	Find(ctx context.Context, query Query, sort model.Sort, page model.PageRequest) ([]*model.Ticket, error)
	Count(ctx context.Context, query Query) (int64, error)
	Update(ctx context.Context, id string, update *model.TicketUpdate) (*model.Ticket, error)
	Delete(ctx context.Context, id string) error
	MarkUsed(ctx context.Context, id string, at time.Time) (*model.Ticket, error)
	RecordExit(ctx context.Context, id string, at time.Time) (*model.Ticket, error)
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
}

type mongoTicketRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoTicketRepository(cfg *config.Config) TicketRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoTicketRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func parseID(id string) (primitive.ObjectID, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s", ticketerrors.ErrInvalidID, id)
	}
	return objectID, nil
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func (r *mongoTicketRepository) Create(ctx context.Context, ticket *model.Ticket) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	ts := now()
	ticket.CreatedAt = ts
	ticket.UpdatedAt = ts

	result, err := r.collection.InsertOne(ctx, ticket)
	if err != nil {
		return fmt.Errorf("failed to create ticket: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		ticket.ID = oid.Hex()
	}
	return nil
}

func (r *mongoTicketRepository) FindByID(ctx context.Context, id string) (*model.Ticket, error) {
	objectID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var ticket model.Ticket
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&ticket)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", ticketerrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find ticket: %w", err)
	}
	return &ticket, nil
}

func (r *mongoTicketRepository) Find(ctx context.Context, query Query, sort model.Sort, page model.PageRequest) ([]*model.Ticket, error) {
	filter, err := BuildFilter(query)
	if err != nil {
		return nil, err
	}

	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(page.Limit)).
		SetSkip(page.Skip()).
		SetSort(SortDocument(sort))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query tickets: %w", err)
	}
	defer cursor.Close(ctx)

	tickets := []*model.Ticket{}
	if err = cursor.All(ctx, &tickets); err != nil {
		return nil, fmt.Errorf("failed to decode tickets: %w", err)
	}
	return tickets, nil
}

func (r *mongoTicketRepository) Count(ctx context.Context, query Query) (int64, error) {
	filter, err := BuildFilter(query)
	if err != nil {
		return 0, err
	}

	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count tickets: %w", err)
	}
	return count, nil
}

func (r *mongoTicketRepository) findOneAndSet(ctx context.Context, filter bson.M, set bson.M, id string) (*model.Ticket, error) {
	set["updatedAt"] = now()

	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var ticket model.Ticket
	err := r.collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&ticket)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", ticketerrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to update ticket: %w", err)
	}
	return &ticket, nil
}

// Update applies a partial update. Not found is decided by whether the
// update matched a document.
func (r *mongoTicketRepository) Update(ctx context.Context, id string, update *model.TicketUpdate) (*model.Ticket, error) {
	objectID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	set, err := mongodb.SetDocument(update)
	if err != nil {
		return nil, fmt.Errorf("failed to build ticket update: %w", err)
	}
	return r.findOneAndSet(ctx, bson.M{"_id": objectID}, set, id)
}

func (r *mongoTicketRepository) Delete(ctx context.Context, id string) error {
	objectID, err := parseID(id)
	if err != nil {
		return err
	}

	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete ticket: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", ticketerrors.ErrNotFound, id)
	}
	return nil
}

// MarkUsed flips an Active, unexpired ticket to Used. A ticket that exists
// but is not usable yields ErrStateConflict.
func (r *mongoTicketRepository) MarkUsed(ctx context.Context, id string, at time.Time) (*model.Ticket, error) {
	objectID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	at = at.UTC().Truncate(time.Millisecond)
	filter := bson.M{
		"_id":       objectID,
		"status":    model.TicketActive,
		"expiresAt": bson.M{"$gt": at},
	}
	ticket, err := r.findOneAndSet(ctx, filter, bson.M{"status": model.TicketUsed, "entryTime": at}, id)
	if errors.Is(err, ticketerrors.ErrNotFound) {
		return nil, r.explainMiss(ctx, objectID, id)
	}
	return ticket, err
}

// RecordExit stamps exitTime on a Used ticket that has not exited yet.
func (r *mongoTicketRepository) RecordExit(ctx context.Context, id string, at time.Time) (*model.Ticket, error) {
	objectID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	filter := bson.M{
		"_id":      objectID,
		"status":   model.TicketUsed,
		"exitTime": nil,
	}
	ticket, err := r.findOneAndSet(ctx, filter, bson.M{"exitTime": at.UTC().Truncate(time.Millisecond)}, id)
	if errors.Is(err, ticketerrors.ErrNotFound) {
		return nil, r.explainMiss(ctx, objectID, id)
	}
	return ticket, err
}

// explainMiss tells a missing ticket apart from one whose state rejected a
// conditional update.
func (r *mongoTicketRepository) explainMiss(ctx context.Context, objectID primitive.ObjectID, id string) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": objectID}, options.Count().SetLimit(1))
	if err != nil {
		return fmt.Errorf("failed to look up ticket: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("%w: %s", ticketerrors.ErrNotFound, id)
	}
	return fmt.Errorf("%w: %s", ticketerrors.ErrStateConflict, id)
}

func (r *mongoTicketRepository) ExpireOverdue(ctx context.Context, at time.Time) (int64, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.UpdateMany(ctx,
		bson.M{"status": model.TicketActive, "expiresAt": bson.M{"$lte": at.UTC()}},
		bson.M{"$set": bson.M{"status": model.TicketExpired, "updatedAt": now()}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to expire tickets: %w", err)
	}
	return result.ModifiedCount, nil
}

func BuildFilter(q Query) (bson.M, error) {
	f := q.Filter
	filter := bson.M{}
	if f.EnclosureType != "" {
		filter["enclosureType"] = bson.M{"$regex": sanitizer.SearchPattern(f.EnclosureType), "$options": "i"}
	}
	if f.Status != "" {
		filter["status"] = bson.M{"$regex": sanitizer.SearchPattern(f.Status), "$options": "i"}
	}
	if f.PriceCategory != "" {
		filter["priceCategory"] = f.PriceCategory
	}
	if f.VisitorID != "" {
		objectID, err := primitive.ObjectIDFromHex(f.VisitorID)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ticketerrors.ErrInvalidID, f.VisitorID)
		}
		filter["visitorId"] = objectID
	}
	if q.ActiveAt != nil {
		filter["status"] = model.TicketActive
		filter["expiresAt"] = bson.M{"$gt": q.ActiveAt.UTC()}
	}
	return filter, nil
}

func SortDocument(s model.Sort) bson.D {
	field := s.Field
	if field == "" {
		field = DefaultSortField
	}
	dir := 1
	if s.Desc {
		dir = -1
	}
	return bson.D{{Key: field, Value: dir}, {Key: "_id", Value: dir}}
}
