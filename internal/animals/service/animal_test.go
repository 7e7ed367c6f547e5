package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	animalserrors "zoo/internal/animals/errors"
	"zoo/internal/animals/validator"
	"zoo/pkg/config"
	apperrors "zoo/pkg/errors"
	"zoo/pkg/events"
	"zoo/pkg/logger"
	"zoo/pkg/model"
	"zoo/pkg/storage"
)

type mockAnimalRepository struct {
	createFunc   func(ctx context.Context, a *model.Animal) error
	findByIDFunc func(ctx context.Context, id string) (*model.Animal, error)
	findFunc     func(ctx context.Context, f model.AnimalFilter, p model.PageRequest) ([]*model.Animal, error)
	countFunc    func(ctx context.Context, f model.AnimalFilter) (int64, error)
	updateFunc   func(ctx context.Context, id string, u *model.AnimalUpdate) (*model.Animal, error)
	deleteFunc   func(ctx context.Context, id string) (*model.Animal, error)
}

func (m *mockAnimalRepository) Create(ctx context.Context, a *model.Animal) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, a)
	}
	a.ID = "65f1c0a2e4b0a1b2c3d4e5f6"
	return nil
}

func (m *mockAnimalRepository) FindByID(ctx context.Context, id string) (*model.Animal, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return &model.Animal{ID: id}, nil
}

func (m *mockAnimalRepository) Find(ctx context.Context, f model.AnimalFilter, p model.PageRequest) ([]*model.Animal, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, f, p)
	}
	return nil, nil
}

func (m *mockAnimalRepository) Count(ctx context.Context, f model.AnimalFilter) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx, f)
	}
	return 0, nil
}

func (m *mockAnimalRepository) Update(ctx context.Context, id string, u *model.AnimalUpdate) (*model.Animal, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, u)
	}
	return &model.Animal{ID: id}, nil
}

func (m *mockAnimalRepository) Delete(ctx context.Context, id string) (*model.Animal, error) {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return &model.Animal{ID: id}, nil
}

type fakeImageStore struct {
	mu        sync.Mutex
	uploadErr error
	uploads   int
	deleted   []string
}

func (f *fakeImageStore) Upload(_ context.Context, folder string, file *storage.Upload) (*storage.StoredImage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	f.uploads++
	id := fmt.Sprintf("%s/img-%d", folder, f.uploads)
	return &storage.StoredImage{URL: "https://images.example.com/" + id, PublicID: id}, nil
}

func (f *fakeImageStore) Delete(_ context.Context, publicID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, publicID)
	return nil
}

type recordingPublisher struct {
	mu    sync.Mutex
	types []string
}

func (p *recordingPublisher) Publish(_ context.Context, eventType, _ string, _ any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.types = append(p.types, eventType)
}

func (p *recordingPublisher) Close() error { return nil }

func newTestService(repo *mockAnimalRepository, images *fakeImageStore, pub *recordingPublisher) AnimalService {
	log := logger.Discard()
	cfg := &config.Config{Log: log}
	return NewAnimalService(repo, validator.NewAnimalValidator(log), images, pub, cfg)
}

func validCreate() *model.AnimalCreate {
	return &model.AnimalCreate{
		Name:        "  Leo  ",
		Species:     "Lion",
		DateOfBirth: "2018-04-12",
		Gender:      model.GenderMale,
		ArrivalDate: "2019-01-05",
	}
}

func testUpload() *storage.Upload {
	return &storage.Upload{Filename: "leo.png", ContentType: "image/png", Reader: io.NopCloser(strings.NewReader("png"))}
}

func TestCreate_DefaultsAndSanitizes(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newTestService(&mockAnimalRepository{}, &fakeImageStore{}, pub)

	animal, err := svc.Create(context.Background(), validCreate(), nil)
	require.NoError(t, err)

	assert.Equal(t, "Leo", animal.Name)
	assert.Equal(t, model.HealthHealthy, animal.HealthStatus)
	assert.NotEmpty(t, animal.ID)
	assert.Equal(t, []string{events.AnimalCreated}, pub.types)
}

func TestCreate_ValidationFailureSkipsUpload(t *testing.T) {
	images := &fakeImageStore{}
	repo := &mockAnimalRepository{
		createFunc: func(context.Context, *model.Animal) error {
			t.Fatal("repository must not be called")
			return nil
		},
	}
	svc := newTestService(repo, images, &recordingPublisher{})

	in := validCreate()
	in.Gender = "Unknown"
	_, err := svc.Create(context.Background(), in, testUpload())

	appErr := apperrors.AsAppError(err)
	assert.Equal(t, apperrors.CodeValidation, appErr.Code)
	assert.Zero(t, images.uploads)
}

func TestCreate_UploadFailure(t *testing.T) {
	images := &fakeImageStore{uploadErr: errors.New("cloud down")}
	svc := newTestService(&mockAnimalRepository{}, images, &recordingPublisher{})

	_, err := svc.Create(context.Background(), validCreate(), testUpload())

	appErr := apperrors.AsAppError(err)
	assert.Equal(t, apperrors.CodeUpload, appErr.Code)
	assert.Equal(t, 502, appErr.StatusCode())
	assert.Contains(t, appErr.Message, "cloud down")
}

func TestCreate_InsertFailureRemovesUploadedImage(t *testing.T) {
	images := &fakeImageStore{}
	repo := &mockAnimalRepository{
		createFunc: func(context.Context, *model.Animal) error { return errors.New("write failed") },
	}
	pub := &recordingPublisher{}
	svc := newTestService(repo, images, pub)

	_, err := svc.Create(context.Background(), validCreate(), testUpload())

	assert.Equal(t, apperrors.CodeInternal, apperrors.AsAppError(err).Code)
	assert.Equal(t, []string{"animals/img-1"}, images.deleted)
	assert.Empty(t, pub.types)
}

func TestGetByID_MapsRepositoryErrors(t *testing.T) {
	tests := []struct {
		name     string
		repoErr  error
		wantCode string
	}{
		{"not found", fmt.Errorf("%w: x", animalserrors.ErrNotFound), apperrors.CodeNotFound},
		{"invalid id", fmt.Errorf("%w: x", animalserrors.ErrInvalidID), apperrors.CodeInvalidInput},
		{"other", errors.New("boom"), apperrors.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockAnimalRepository{
				findByIDFunc: func(context.Context, string) (*model.Animal, error) { return nil, tt.repoErr },
			}
			svc := newTestService(repo, &fakeImageStore{}, &recordingPublisher{})

			_, err := svc.GetByID(context.Background(), "x")
			assert.Equal(t, tt.wantCode, apperrors.AsAppError(err).Code)
		})
	}
}

func TestList_BuildsPage(t *testing.T) {
	var gotFilter model.AnimalFilter
	repo := &mockAnimalRepository{
		countFunc: func(_ context.Context, f model.AnimalFilter) (int64, error) { return 25, nil },
		findFunc: func(_ context.Context, f model.AnimalFilter, p model.PageRequest) ([]*model.Animal, error) {
			gotFilter = f
			return []*model.Animal{{Name: "Leo"}}, nil
		},
	}
	svc := newTestService(repo, &fakeImageStore{}, &recordingPublisher{})

	page, err := svc.List(context.Background(), model.AnimalFilter{Species: "  lion "}, model.PageRequest{Page: 2, Limit: 10})
	require.NoError(t, err)

	assert.Equal(t, "lion", gotFilter.Species)
	assert.Equal(t, PageKey, page.Key())
	assert.Equal(t, 3, page.Pagination.TotalPages)
	assert.True(t, page.Pagination.HasNext)
	assert.True(t, page.Pagination.HasPrev)
}

func TestList_CountFailure(t *testing.T) {
	repo := &mockAnimalRepository{
		countFunc: func(context.Context, model.AnimalFilter) (int64, error) { return 0, errors.New("count failed") },
	}
	svc := newTestService(repo, &fakeImageStore{}, &recordingPublisher{})

	_, err := svc.List(context.Background(), model.AnimalFilter{}, model.PageRequest{Page: 1, Limit: 10})
	assert.Equal(t, apperrors.CodeInternal, apperrors.AsAppError(err).Code)
}

func TestUpdate_MissingAnimalDoesNotUpload(t *testing.T) {
	images := &fakeImageStore{}
	repo := &mockAnimalRepository{
		findByIDFunc: func(_ context.Context, id string) (*model.Animal, error) {
			return nil, fmt.Errorf("%w: %s", animalserrors.ErrNotFound, id)
		},
	}
	svc := newTestService(repo, images, &recordingPublisher{})

	_, err := svc.Update(context.Background(), "65f1c0a2e4b0a1b2c3d4e5f6", &model.AnimalUpdate{}, testUpload())

	assert.Equal(t, apperrors.CodeNotFound, apperrors.AsAppError(err).Code)
	assert.Zero(t, images.uploads)
}

func TestUpdate_ReplacesImage(t *testing.T) {
	images := &fakeImageStore{}
	var gotUpdate *model.AnimalUpdate
	repo := &mockAnimalRepository{
		findByIDFunc: func(_ context.Context, id string) (*model.Animal, error) {
			return &model.Animal{ID: id, ImagePublicID: "animals/old"}, nil
		},
		updateFunc: func(_ context.Context, id string, u *model.AnimalUpdate) (*model.Animal, error) {
			gotUpdate = u
			return &model.Animal{ID: id, ImageURL: *u.ImageURL}, nil
		},
	}
	pub := &recordingPublisher{}
	svc := newTestService(repo, images, pub)

	empty := ""
	updated, err := svc.Update(context.Background(), "65f1c0a2e4b0a1b2c3d4e5f6", &model.AnimalUpdate{Gender: &empty}, testUpload())
	require.NoError(t, err)

	assert.Nil(t, gotUpdate.Gender, "empty enum should be dropped")
	assert.Equal(t, "https://images.example.com/animals/img-1", updated.ImageURL)
	assert.Equal(t, []string{"animals/old"}, images.deleted)
	assert.Equal(t, []string{events.AnimalUpdated}, pub.types)
}

func TestUpdate_FailureRemovesNewImage(t *testing.T) {
	images := &fakeImageStore{}
	repo := &mockAnimalRepository{
		findByIDFunc: func(_ context.Context, id string) (*model.Animal, error) {
			return &model.Animal{ID: id, ImagePublicID: "animals/old"}, nil
		},
		updateFunc: func(context.Context, string, *model.AnimalUpdate) (*model.Animal, error) {
			return nil, errors.New("write failed")
		},
	}
	svc := newTestService(repo, images, &recordingPublisher{})

	_, err := svc.Update(context.Background(), "65f1c0a2e4b0a1b2c3d4e5f6", &model.AnimalUpdate{}, testUpload())

	assert.Error(t, err)
	assert.Equal(t, []string{"animals/img-1"}, images.deleted)
}

func TestDelete_RemovesImage(t *testing.T) {
	images := &fakeImageStore{}
	repo := &mockAnimalRepository{
		deleteFunc: func(_ context.Context, id string) (*model.Animal, error) {
			return &model.Animal{ID: id, ImagePublicID: "animals/leo"}, nil
		},
	}
	pub := &recordingPublisher{}
	svc := newTestService(repo, images, pub)

	require.NoError(t, svc.Delete(context.Background(), "65f1c0a2e4b0a1b2c3d4e5f6"))
	assert.Equal(t, []string{"animals/leo"}, images.deleted)
	assert.Equal(t, []string{events.AnimalDeleted}, pub.types)
}

func TestDelete_NotFound(t *testing.T) {
	repo := &mockAnimalRepository{
		deleteFunc: func(_ context.Context, id string) (*model.Animal, error) {
			return nil, fmt.Errorf("%w: %s", animalserrors.ErrNotFound, id)
		},
	}
	svc := newTestService(repo, &fakeImageStore{}, &recordingPublisher{})

	err := svc.Delete(context.Background(), "65f1c0a2e4b0a1b2c3d4e5f6")
	assert.Equal(t, apperrors.CodeNotFound, apperrors.AsAppError(err).Code)
}
