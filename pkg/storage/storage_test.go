package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zoo/pkg/logger"
)

func TestDisabledStore(t *testing.T) {
	store := NewDisabledStore()

	_, err := store.Upload(context.Background(), "animals", &Upload{Filename: "lion.png", Reader: io.NopCloser(strings.NewReader("x"))})
	assert.ErrorIs(t, err, ErrUploadsDisabled)
	assert.NoError(t, store.Delete(context.Background(), "animals/lion"))
}

func TestCloudinaryStore_RejectsMissingFile(t *testing.T) {
	store, err := NewCloudinaryStore("demo", "key", "secret", "zoo", logger.Discard())
	require.NoError(t, err)

	_, err = store.Upload(context.Background(), "animals", nil)
	assert.Error(t, err)
	_, err = store.Upload(context.Background(), "animals", &Upload{Filename: "lion.png"})
	assert.Error(t, err)
}

func TestCloudinaryStore_DeleteWithoutPublicIDIsNoop(t *testing.T) {
	store, err := NewCloudinaryStore("demo", "key", "secret", "zoo", logger.Discard())
	require.NoError(t, err)

	assert.NoError(t, store.Delete(context.Background(), ""))
}

type closeRecorder struct {
	io.Reader
	closed bool
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return nil
}

func TestUpload_Close(t *testing.T) {
	var nilUpload *Upload
	assert.NoError(t, nilUpload.Close())
	assert.NoError(t, (&Upload{}).Close())

	rc := &closeRecorder{Reader: strings.NewReader("x")}
	assert.NoError(t, (&Upload{Reader: rc}).Close())
	assert.True(t, rc.closed)
}
