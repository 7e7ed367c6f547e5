package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestWithTimeout_KeepsEarlierDeadline(t *testing.T) {
	parent, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	ctx, cancel2 := WithTimeout(parent, time.Hour)
	defer cancel2()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(50*time.Millisecond), deadline, 50*time.Millisecond)
}

func TestWithTimeout_AddsDeadline(t *testing.T) {
	ctx, cancel := WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, ok := ctx.Deadline()
	assert.True(t, ok)
}

func TestSetDocument(t *testing.T) {
	name := "Leo"
	active := false
	update := struct {
		Name     *string `bson:"name,omitempty"`
		Species  *string `bson:"species,omitempty"`
		IsActive *bool   `bson:"isActive,omitempty"`
		Secret   string  `bson:"-"`
	}{Name: &name, IsActive: &active, Secret: "x"}

	set, err := SetDocument(update)
	require.NoError(t, err)
	assert.Equal(t, "Leo", set["name"])
	assert.Equal(t, false, set["isActive"])
	assert.NotContains(t, set, "species")
	assert.Len(t, set, 2)
}

func TestTransactionsUnsupported(t *testing.T) {
	assert.True(t, transactionsUnsupported(mongo.CommandError{Code: 20, Message: "Transaction numbers are only allowed on a replica set member or mongos"}))
	assert.True(t, transactionsUnsupported(errors.New("(IllegalOperation) Transaction numbers are only allowed on a replica set member or mongos")))
	assert.False(t, transactionsUnsupported(errors.New("connection reset")))
}

func TestFetchPage(t *testing.T) {
	items, total, err := FetchPage(context.Background(),
		func(context.Context) (int64, error) { return 42, nil },
		func(context.Context) ([]string, error) { return []string{"a", "b"}, nil },
	)
	require.NoError(t, err)
	assert.Equal(t, int64(42), total)
	assert.Equal(t, []string{"a", "b"}, items)
}

func TestFetchPage_CountFailureCancelsFind(t *testing.T) {
	countErr := errors.New("count failed")
	_, _, err := FetchPage(context.Background(),
		func(context.Context) (int64, error) { return 0, countErr },
		func(ctx context.Context) ([]string, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	)
	assert.ErrorIs(t, err, countErr)
}
