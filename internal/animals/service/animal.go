package service

import (
	"context"
	"errors"

	animalserrors "zoo/internal/animals/errors"
	"zoo/internal/animals/repository"
	"zoo/internal/animals/validator"
	"zoo/pkg/config"
	mongodb "zoo/pkg/db/mongo"
	apperrors "zoo/pkg/errors"
	"zoo/pkg/events"
	"zoo/pkg/model"
	"zoo/pkg/sanitizer"
	"zoo/pkg/storage"
)

const (
	ImageFolder = "animals"
	PageKey     = "animals"
)

type AnimalService interface {
	Create(ctx context.Context, in *model.AnimalCreate, image *storage.Upload) (*model.Animal, error)
	GetByID(ctx context.Context, id string) (*model.Animal, error)
	List(ctx context.Context, filter model.AnimalFilter, page model.PageRequest) (*model.Page[*model.Animal], error)
	Update(ctx context.Context, id string, in *model.AnimalUpdate, image *storage.Upload) (*model.Animal, error)
	Delete(ctx context.Context, id string) error
}

type animalService struct {
	repo      repository.AnimalRepository
	validator *validator.AnimalValidator
	images    storage.ImageStore
	events    events.Publisher
	cfg       *config.Config
}

func NewAnimalService(
	repo repository.AnimalRepository,
	validator *validator.AnimalValidator,
	images storage.ImageStore,
	publisher events.Publisher,
	cfg *config.Config,
) AnimalService {
	return &animalService{
		repo:      repo,
		validator: validator,
		images:    images,
		events:    publisher,
		cfg:       cfg,
	}
}

func (s *animalService) Create(ctx context.Context, in *model.AnimalCreate, image *storage.Upload) (*model.Animal, error) {
	s.sanitizeCreate(in)

	if err := s.validator.ValidateCreate(in); err != nil {
		s.cfg.Log.Warn("Animal validation failed",
			"name", in.Name,
			"species", in.Species,
			"error", err,
		)
		return nil, err
	}

	animal := in.ToAnimal()

	var stored *storage.StoredImage
	if image != nil {
		var err error
		stored, err = s.images.Upload(ctx, ImageFolder, image)
		if err != nil {
			s.cfg.Log.Error("Failed to upload animal image", "name", animal.Name, "error", err)
			return nil, apperrors.Upload(err)
		}
		animal.ImageURL = stored.URL
		animal.ImagePublicID = stored.PublicID
	}

	if err := s.repo.Create(ctx, animal); err != nil {
		s.cfg.Log.Error("Failed to create animal",
			"name", animal.Name,
			"species", animal.Species,
			"error", err,
		)
		if stored != nil {
			s.discardImage(ctx, stored.PublicID)
		}
		return nil, apperrors.Internal("Failed to create animal", err)
	}

	s.cfg.Log.Info("Animal created successfully",
		"id", animal.ID,
		"name", animal.Name,
		"species", animal.Species,
	)
	s.events.Publish(ctx, events.AnimalCreated, animal.ID, animal)
	return animal, nil
}

func (s *animalService) GetByID(ctx context.Context, id string) (*model.Animal, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Animal ID cannot be empty")
	}

	animal, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id, "Failed to retrieve animal")
	}
	return animal, nil
}

func (s *animalService) List(ctx context.Context, filter model.AnimalFilter, page model.PageRequest) (*model.Page[*model.Animal], error) {
	filter.Species = sanitizer.TrimAndNormalize(filter.Species)
	filter.Name = sanitizer.TrimAndNormalize(filter.Name)

	if err := s.validator.ValidateFilter(&filter); err != nil {
		return nil, err
	}

	animals, total, err := mongodb.FetchPage(ctx,
		func(ctx context.Context) (int64, error) { return s.repo.Count(ctx, filter) },
		func(ctx context.Context) ([]*model.Animal, error) { return s.repo.Find(ctx, filter, page) },
	)
	if err != nil {
		s.cfg.Log.Error("Failed to list animals",
			"page", page.Page,
			"limit", page.Limit,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve animals", err)
	}

	return model.NewPage(PageKey, animals, total, page), nil
}

func (s *animalService) Update(ctx context.Context, id string, in *model.AnimalUpdate, image *storage.Upload) (*model.Animal, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Animal ID cannot be empty")
	}

	in.DropEmptyEnums()
	s.sanitizeUpdate(in)

	if err := s.validator.ValidateUpdate(in); err != nil {
		s.cfg.Log.Warn("Animal update validation failed", "id", id, "error", err)
		return nil, err
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id, "Failed to retrieve animal")
	}

	var stored *storage.StoredImage
	if image != nil {
		stored, err = s.images.Upload(ctx, ImageFolder, image)
		if err != nil {
			s.cfg.Log.Error("Failed to upload animal image", "id", id, "error", err)
			return nil, apperrors.Upload(err)
		}
		in.ImageURL = &stored.URL
		in.ImagePublicID = &stored.PublicID
	}

	updated, err := s.repo.Update(ctx, id, in)
	if err != nil {
		if stored != nil {
			s.discardImage(ctx, stored.PublicID)
		}
		return nil, s.mapRepoError(err, id, "Failed to update animal")
	}

	if stored != nil && existing.ImagePublicID != "" && existing.ImagePublicID != stored.PublicID {
		s.discardImage(ctx, existing.ImagePublicID)
	}

	s.cfg.Log.Info("Animal updated successfully", "id", id, "image_replaced", stored != nil)
	s.events.Publish(ctx, events.AnimalUpdated, id, updated)
	return updated, nil
}

func (s *animalService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Animal ID cannot be empty")
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return s.mapRepoError(err, id, "Failed to delete animal")
	}

	if deleted.ImagePublicID != "" {
		s.discardImage(ctx, deleted.ImagePublicID)
	}

	s.cfg.Log.Info("Animal deleted successfully", "id", id, "name", deleted.Name)
	s.events.Publish(ctx, events.AnimalDeleted, id, nil)
	return nil
}

// discardImage removes an uploaded image. Failures only leave an orphan
// object behind, so they are logged and swallowed.
func (s *animalService) discardImage(ctx context.Context, publicID string) {
	if err := s.images.Delete(context.WithoutCancel(ctx), publicID); err != nil {
		s.cfg.Log.Warn("Failed to delete animal image", "public_id", publicID, "error", err)
	}
}

func (s *animalService) mapRepoError(err error, id, message string) error {
	if errors.Is(err, animalserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Animal", id)
	}
	if errors.Is(err, animalserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid animal ID format")
	}
	s.cfg.Log.Error(message, "id", id, "error", err)
	return apperrors.Internal(message, err)
}

func (s *animalService) sanitizeCreate(in *model.AnimalCreate) {
	in.Name = sanitizer.TrimAndNormalize(in.Name)
	in.Species = sanitizer.TrimAndNormalize(in.Species)
	in.Description = sanitizer.TrimAndNormalize(in.Description)
	in.DateOfBirth = sanitizer.TrimAndNormalize(in.DateOfBirth)
	in.ArrivalDate = sanitizer.TrimAndNormalize(in.ArrivalDate)
	if in.Enclosure != nil {
		in.Enclosure.Name = sanitizer.TrimAndNormalize(in.Enclosure.Name)
		in.Enclosure.Location = sanitizer.TrimAndNormalize(in.Enclosure.Location)
	}
}

func (s *animalService) sanitizeUpdate(in *model.AnimalUpdate) {
	trim := func(p *string) {
		if p != nil {
			*p = sanitizer.TrimAndNormalize(*p)
		}
	}
	trim(in.Name)
	trim(in.Species)
	trim(in.Description)
	trim(in.DateOfBirth)
	trim(in.ArrivalDate)
	if in.Enclosure != nil {
		in.Enclosure.Name = sanitizer.TrimAndNormalize(in.Enclosure.Name)
		in.Enclosure.Location = sanitizer.TrimAndNormalize(in.Enclosure.Location)
	}
}
