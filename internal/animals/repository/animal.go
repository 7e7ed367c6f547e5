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

	animalserrors "zoo/internal/animals/errors"
	"zoo/pkg/config"
	mongodb "zoo/pkg/db/mongo"
	"zoo/pkg/model"
	"zoo/pkg/sanitizer"
)

const (
	CollectionName = "Animals"
)

type AnimalRepository interface {
	Create(ctx context.Context, animal *model.Animal) error
	FindByID(ctx context.Context, id string) (*model.Animal, error)
	Find(ctx context.Context, filter model.AnimalFilter, page model.PageRequest) ([]*model.Animal, error)
	Count(ctx context.Context, filter model.AnimalFilter) (int64, error)
	Update(ctx context.Context, id string, update *model.AnimalUpdate) (*model.Animal, error)
	Delete(ctx context.Context, id string) (*model.Animal, error)
}

type mongoAnimalRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoAnimalRepository(cfg *config.Config) AnimalRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAnimalRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func parseID(id string) (primitive.ObjectID, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s", animalserrors.ErrInvalidID, id)
	}
	return objectID, nil
}

func (r *mongoAnimalRepository) Create(ctx context.Context, animal *model.Animal) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	animal.CreatedAt = now
	animal.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, animal)
	if err != nil {
		return fmt.Errorf("failed to create animal: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		animal.ID = oid.Hex()
	}

	return nil
}

func (r *mongoAnimalRepository) FindByID(ctx context.Context, id string) (*model.Animal, error) {
	objectID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var animal model.Animal
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&animal)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", animalserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find animal: %w", err)
	}
	return &animal, nil
}

func (r *mongoAnimalRepository) Find(ctx context.Context, filter model.AnimalFilter, page model.PageRequest) ([]*model.Animal, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(page.Limit)).
		SetSkip(page.Skip()).
		SetSort(ListSort())

	cursor, err := r.collection.Find(ctx, BuildFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query animals: %w", err)
	}
	defer cursor.Close(ctx)

	animals := []*model.Animal{}
	if err = cursor.All(ctx, &animals); err != nil {
		return nil, fmt.Errorf("failed to decode animals: %w", err)
	}

	return animals, nil
}

func (r *mongoAnimalRepository) Count(ctx context.Context, filter model.AnimalFilter) (int64, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, BuildFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count animals: %w", err)
	}
	return count, nil
}

func (r *mongoAnimalRepository) Update(ctx context.Context, id string, update *model.AnimalUpdate) (*model.Animal, error) {
	objectID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	set, err := mongodb.SetDocument(update)
	if err != nil {
		return nil, fmt.Errorf("failed to build animal update: %w", err)
	}
	set["updatedAt"] = time.Now().UTC().Truncate(time.Millisecond)

	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var animal model.Animal
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, bson.M{"$set": set}, opts).Decode(&animal)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", animalserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to update animal: %w", err)
	}

	return &animal, nil
}

// Delete removes the animal and returns the removed document.
func (r *mongoAnimalRepository) Delete(ctx context.Context, id string) (*model.Animal, error) {
	objectID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	var animal model.Animal
	err = r.collection.FindOneAndDelete(ctx, bson.M{"_id": objectID}).Decode(&animal)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", animalserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to delete animal: %w", err)
	}

	return &animal, nil
}

// BuildFilter matches free text as a case insensitive substring and enums
// exactly.
func BuildFilter(f model.AnimalFilter) bson.M {
	filter := bson.M{}
	if f.Species != "" {
		filter["species"] = bson.M{"$regex": sanitizer.SearchPattern(f.Species), "$options": "i"}
	}
	if f.Name != "" {
		filter["name"] = bson.M{"$regex": sanitizer.SearchPattern(f.Name), "$options": "i"}
	}
	if f.Gender != "" {
		filter["gender"] = f.Gender
	}
	if f.HealthStatus != "" {
		filter["health_status"] = f.HealthStatus
	}
	if f.EnclosureType != "" {
		filter["enclosure.type"] = f.EnclosureType
	}
	return filter
}

// ListSort returns animals in insertion order. ObjectIDs grow with insertion
// time, so skip/limit pages follow the order documents were created.
func ListSort() bson.D {
	return bson.D{{Key: "_id", Value: 1}}
}
