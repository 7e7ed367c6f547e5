package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"zoo/internal/migrations/mongo/validators"
	"zoo/pkg/logger"
)

type CollectionSpec struct {
	Name      string
	Indexes   []mongo.IndexModel
	Validator bson.M
}

var (
	AnimalsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "species", Value: 1}}},
		{Keys: bson.D{{Key: "enclosure.type", Value: 1}}},
		{Keys: bson.D{{Key: "health_status", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}},
	}

	StaffIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "employeeId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "role", Value: 1}, {Key: "isActive", Value: 1}}},
		{Keys: bson.D{{Key: "department", Value: 1}}},
	}

	VisitorsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "nationality", Value: 1}, {Key: "ageGroup", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}},
	}

	TicketsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "visitorId", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "expiresAt", Value: 1}}},
		{Keys: bson.D{{Key: "enclosureType", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}},
	}
)

// Collections lists every collection the API reads or writes. Names match the
// repositories' CollectionName constants.
func Collections() []CollectionSpec {
	return []CollectionSpec{
		{Name: "Animals", Indexes: AnimalsIndexes, Validator: validators.AnimalValidator},
		{Name: "Staff", Indexes: StaffIndexes, Validator: validators.StaffValidator},
		{Name: "Visitors", Indexes: VisitorsIndexes, Validator: validators.VisitorValidator},
		{Name: "Tickets", Indexes: TicketsIndexes, Validator: validators.TicketValidator},
	}
}

func RunMigration(ctx context.Context, db *mongo.Database, log *logger.Logger) error {
	log.Info("Running Mongo migrations", "database", db.Name())

	for _, spec := range Collections() {
		if err := ensureCollection(ctx, db, spec.Name, spec.Validator, log); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", spec.Name, err)
		}
		if err := ensureIndexes(ctx, db, spec.Name, spec.Indexes, log); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", spec.Name, err)
		}
	}

	log.Info("All migrations applied successfully")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M, log *logger.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		log.Info("Creating collection", "collection", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	log.Info("Collection exists, updating validator", "collection", name)
	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		log.Warn("Failed updating validator", "collection", name, "error", err)
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel, log *logger.Logger) error {
	if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
		return err
	}
	log.Info("Ensured indexes", "collection", name, "count", len(models))
	return nil
}
