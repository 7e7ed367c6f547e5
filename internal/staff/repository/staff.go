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

	stafferrors "zoo/internal/staff/errors"
	"zoo/pkg/config"
	mongodb "zoo/pkg/db/mongo"
	"zoo/pkg/model"
	"zoo/pkg/sanitizer"
)

const (
	CollectionName = "Staff"
)

// Key identifies a single staff document either by its ObjectID or by its
// employeeId.
type Key struct {
	field string
	value any
	raw   string
}

func (k Key) String() string {
	return k.raw
}

func (k Key) filter() bson.M {
	return bson.M{k.field: k.value}
}

// NewKey builds a lookup key for the given strategy (config.StaffLookupByID
// or config.StaffLookupByEmployeeID).
func NewKey(strategy, value string) (Key, error) {
	if strategy == config.StaffLookupByEmployeeID {
		return Key{field: "employeeId", value: value, raw: value}, nil
	}
	objectID, err := primitive.ObjectIDFromHex(value)
	if err != nil {
		return Key{}, fmt.Errorf("%w: %s", stafferrors.ErrInvalidID, value)
	}
	return Key{field: "_id", value: objectID, raw: value}, nil
}

type StaffRepository interface {
	Create(ctx context.Context, staff *model.StaffRecord) error
	FindOne(ctx context.Context, key Key) (*model.StaffRecord, error)
	FindByID(ctx context.Context, id string) (*model.StaffRecord, error)
	FindByEmail(ctx context.Context, email string) (*model.StaffRecord, error)
	Find(ctx context.Context, filter model.StaffFilter, page model.PageRequest) ([]*model.StaffRecord, error)
	Count(ctx context.Context, filter model.StaffFilter) (int64, error)
	Update(ctx context.Context, key Key, update *model.StaffUpdate) (*model.StaffRecord, error)
	Delete(ctx context.Context, key Key) (*model.StaffRecord, error)
	RecordLogin(ctx context.Context, id string, refreshTokenHash string, at time.Time) error
	RotateRefreshToken(ctx context.Context, id, currentHash, nextHash string) error
	ClearRefreshToken(ctx context.Context, id string) error
	HasAdmin(ctx context.Context) (bool, error)
}

type mongoStaffRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoStaffRepository(cfg *config.Config) StaffRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoStaffRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoStaffRepository) Create(ctx context.Context, staff *model.StaffRecord) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	staff.CreatedAt = now
	staff.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, staff)
	if err != nil {
		if mongodb.IsDuplicateKey(err) {
			return fmt.Errorf("%w: %v", stafferrors.ErrDuplicate, err)
		}
		return fmt.Errorf("failed to create staff member: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		staff.ID = oid.Hex()
	}
	return nil
}

func (r *mongoStaffRepository) findOne(ctx context.Context, filter bson.M, label string) (*model.StaffRecord, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var staff model.StaffRecord
	err := r.collection.FindOne(ctx, filter).Decode(&staff)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", stafferrors.ErrNotFound, label)
		}
		return nil, fmt.Errorf("failed to find staff member: %w", err)
	}
	return &staff, nil
}

func (r *mongoStaffRepository) FindOne(ctx context.Context, key Key) (*model.StaffRecord, error) {
	return r.findOne(ctx, key.filter(), key.raw)
}

func (r *mongoStaffRepository) FindByID(ctx context.Context, id string) (*model.StaffRecord, error) {
	key, err := NewKey(config.StaffLookupByID, id)
	if err != nil {
		return nil, err
	}
	return r.FindOne(ctx, key)
}

func (r *mongoStaffRepository) FindByEmail(ctx context.Context, email string) (*model.StaffRecord, error) {
	return r.findOne(ctx, bson.M{"email": email}, email)
}

func (r *mongoStaffRepository) Find(ctx context.Context, filter model.StaffFilter, page model.PageRequest) ([]*model.StaffRecord, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(page.Limit)).
		SetSkip(page.Skip()).
		SetSort(ListSort())

	cursor, err := r.collection.Find(ctx, BuildFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query staff: %w", err)
	}
	defer cursor.Close(ctx)

	staff := []*model.StaffRecord{}
	if err = cursor.All(ctx, &staff); err != nil {
		return nil, fmt.Errorf("failed to decode staff: %w", err)
	}
	return staff, nil
}

func (r *mongoStaffRepository) Count(ctx context.Context, filter model.StaffFilter) (int64, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, BuildFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count staff: %w", err)
	}
	return count, nil
}

func (r *mongoStaffRepository) Update(ctx context.Context, key Key, update *model.StaffUpdate) (*model.StaffRecord, error) {
	set, err := mongodb.SetDocument(update)
	if err != nil {
		return nil, fmt.Errorf("failed to build staff update: %w", err)
	}
	set["updatedAt"] = time.Now().UTC().Truncate(time.Millisecond)

	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var staff model.StaffRecord
	err = r.collection.FindOneAndUpdate(ctx, key.filter(), bson.M{"$set": set}, opts).Decode(&staff)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", stafferrors.ErrNotFound, key.raw)
		}
		if mongodb.IsDuplicateKey(err) {
			return nil, fmt.Errorf("%w: %v", stafferrors.ErrDuplicate, err)
		}
		return nil, fmt.Errorf("failed to update staff member: %w", err)
	}
	return &staff, nil
}

func (r *mongoStaffRepository) Delete(ctx context.Context, key Key) (*model.StaffRecord, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	var staff model.StaffRecord
	err := r.collection.FindOneAndDelete(ctx, key.filter()).Decode(&staff)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", stafferrors.ErrNotFound, key.raw)
		}
		return nil, fmt.Errorf("failed to delete staff member: %w", err)
	}
	return &staff, nil
}

func (r *mongoStaffRepository) updateByID(ctx context.Context, filter bson.M, update bson.M) (*mongo.UpdateResult, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()
	return r.collection.UpdateOne(ctx, filter, update)
}

func (r *mongoStaffRepository) RecordLogin(ctx context.Context, id string, refreshTokenHash string, at time.Time) error {
	key, err := NewKey(config.StaffLookupByID, id)
	if err != nil {
		return err
	}

	result, err := r.updateByID(ctx, key.filter(), bson.M{"$set": bson.M{
		"refreshToken": refreshTokenHash,
		"lastLoginAt":  at.UTC().Truncate(time.Millisecond),
	}})
	if err != nil {
		return fmt.Errorf("failed to record login: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", stafferrors.ErrNotFound, id)
	}
	return nil
}

// RotateRefreshToken swaps the stored refresh token hash only while it still
// equals currentHash, so a refresh token can be redeemed at most once.
func (r *mongoStaffRepository) RotateRefreshToken(ctx context.Context, id, currentHash, nextHash string) error {
	key, err := NewKey(config.StaffLookupByID, id)
	if err != nil {
		return err
	}

	filter := key.filter()
	filter["refreshToken"] = currentHash

	result, err := r.updateByID(ctx, filter, bson.M{"$set": bson.M{"refreshToken": nextHash}})
	if err != nil {
		return fmt.Errorf("failed to rotate refresh token: %w", err)
	}
	if result.MatchedCount == 0 {
		return stafferrors.ErrTokenMismatch
	}
	return nil
}

func (r *mongoStaffRepository) ClearRefreshToken(ctx context.Context, id string) error {
	key, err := NewKey(config.StaffLookupByID, id)
	if err != nil {
		return err
	}

	if _, err := r.updateByID(ctx, key.filter(), bson.M{"$unset": bson.M{"refreshToken": ""}}); err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}
	return nil
}

func (r *mongoStaffRepository) HasAdmin(ctx context.Context) (bool, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"role": model.RoleAdmin}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to look up admin: %w", err)
	}
	return count > 0, nil
}

func BuildFilter(f model.StaffFilter) bson.M {
	filter := bson.M{}
	if f.Role != "" {
		filter["role"] = f.Role
	}
	if f.Department != "" {
		filter["department"] = bson.M{"$regex": sanitizer.SearchPattern(f.Department), "$options": "i"}
	}
	if f.IsActive != nil {
		filter["isActive"] = *f.IsActive
	}
	if f.Name != "" {
		pattern := bson.M{"$regex": sanitizer.SearchPattern(f.Name), "$options": "i"}
		filter["$or"] = bson.A{
			bson.M{"firstName": pattern},
			bson.M{"lastName": pattern},
		}
	}
	return filter
}

// ListSort returns staff in insertion order. ObjectIDs grow with insertion
// time, so skip/limit pages follow the order documents were created.
func ListSort() bson.D {
	return bson.D{{Key: "_id", Value: 1}}
}
