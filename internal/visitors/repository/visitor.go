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

	visitorerrors "zoo/internal/visitors/errors"
	"zoo/pkg/config"
	mongodb "zoo/pkg/db/mongo"
	"zoo/pkg/model"
	"zoo/pkg/sanitizer"
)

const (
	CollectionName = "Visitors"

	DefaultSortField = "createdAt"
)

type VisitorRepository interface {
	Create(ctx context.Context, visitor *model.Visitor) error
	FindByID(ctx context.Context, id string) (*model.Visitor, error)
	Find(ctx context.Context, filter model.VisitorFilter, sort model.Sort, page model.PageRequest) ([]*model.Visitor, error)
	Count(ctx context.Context, filter model.VisitorFilter) (int64, error)
	CountByIDs(ctx context.Context, ids []primitive.ObjectID) (int64, error)
	Update(ctx context.Context, id string, update *model.VisitorUpdate) (*model.Visitor, error)
	Delete(ctx context.Context, id string) error
	IncrementVisits(ctx context.Context, ids ...primitive.ObjectID) (int64, error)
}

type mongoVisitorRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoVisitorRepository(cfg *config.Config) VisitorRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoVisitorRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func parseID(id string) (primitive.ObjectID, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s", visitorerrors.ErrInvalidID, id)
	}
	return objectID, nil
}

func (r *mongoVisitorRepository) Create(ctx context.Context, visitor *model.Visitor) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	visitor.CreatedAt = now
	visitor.UpdatedAt = now
	visitor.RegisteredAt = now
	visitor.TotalVisits = 0

	result, err := r.collection.InsertOne(ctx, visitor)
	if err != nil {
		if mongodb.IsDuplicateKey(err) {
			return fmt.Errorf("%w: %s", visitorerrors.ErrDuplicate, visitor.Email)
		}
		return fmt.Errorf("failed to create visitor: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		visitor.ID = oid.Hex()
	}
	return nil
}

func (r *mongoVisitorRepository) FindByID(ctx context.Context, id string) (*model.Visitor, error) {
	objectID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var visitor model.Visitor
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&visitor)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", visitorerrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find visitor: %w", err)
	}
	return &visitor, nil
}

func (r *mongoVisitorRepository) Find(ctx context.Context, filter model.VisitorFilter, sort model.Sort, page model.PageRequest) ([]*model.Visitor, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(page.Limit)).
		SetSkip(page.Skip()).
		SetSort(SortDocument(sort))

	cursor, err := r.collection.Find(ctx, BuildFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query visitors: %w", err)
	}
	defer cursor.Close(ctx)

	visitors := []*model.Visitor{}
	if err = cursor.All(ctx, &visitors); err != nil {
		return nil, fmt.Errorf("failed to decode visitors: %w", err)
	}
	return visitors, nil
}

func (r *mongoVisitorRepository) Count(ctx context.Context, filter model.VisitorFilter) (int64, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, BuildFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count visitors: %w", err)
	}
	return count, nil
}

func (r *mongoVisitorRepository) CountByIDs(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, fmt.Errorf("failed to count visitors by id: %w", err)
	}
	return count, nil
}

func (r *mongoVisitorRepository) Update(ctx context.Context, id string, update *model.VisitorUpdate) (*model.Visitor, error) {
	objectID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	set, err := mongodb.SetDocument(update)
	if err != nil {
		return nil, fmt.Errorf("failed to build visitor update: %w", err)
	}
	set["updatedAt"] = time.Now().UTC().Truncate(time.Millisecond)

	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var visitor model.Visitor
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, bson.M{"$set": set}, opts).Decode(&visitor)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", visitorerrors.ErrNotFound, id)
		}
		if mongodb.IsDuplicateKey(err) {
			return nil, fmt.Errorf("%w: %v", visitorerrors.ErrDuplicate, err)
		}
		return nil, fmt.Errorf("failed to update visitor: %w", err)
	}
	return &visitor, nil
}

func (r *mongoVisitorRepository) Delete(ctx context.Context, id string) error {
	objectID, err := parseID(id)
	if err != nil {
		return err
	}

	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete visitor: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", visitorerrors.ErrNotFound, id)
	}
	return nil
}

// IncrementVisits bumps totalVisits on every listed visitor and reports how
// many documents matched.
func (r *mongoVisitorRepository) IncrementVisits(ctx context.Context, ids ...primitive.ObjectID) (int64, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		bson.M{
			"$inc": bson.M{"totalVisits": 1},
			"$set": bson.M{"updatedAt": time.Now().UTC().Truncate(time.Millisecond)},
		},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to increment visits: %w", err)
	}
	return result.MatchedCount, nil
}

func BuildFilter(f model.VisitorFilter) bson.M {
	filter := bson.M{}
	if f.Name != "" {
		filter["name"] = bson.M{"$regex": sanitizer.SearchPattern(f.Name), "$options": "i"}
	}
	if f.Email != "" {
		filter["email"] = sanitizer.NormalizeEmail(f.Email)
	}
	if f.Nationality != "" {
		filter["nationality"] = f.Nationality
	}
	if f.AgeGroup != "" {
		filter["ageGroup"] = f.AgeGroup
	}
	return filter
}

// SortDocument orders by the requested field with _id as a tiebreaker so
// pages stay stable.
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
