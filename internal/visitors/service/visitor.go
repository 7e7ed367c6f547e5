package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	visitorerrors "zoo/internal/visitors/errors"
	"zoo/internal/visitors/repository"
	"zoo/internal/visitors/validator"
	"zoo/pkg/config"
	mongodb "zoo/pkg/db/mongo"
	apperrors "zoo/pkg/errors"
	"zoo/pkg/events"
	"zoo/pkg/model"
	"zoo/pkg/sanitizer"
)

const PageKey = "visitors"

type VisitorService interface {
	Create(ctx context.Context, in *model.VisitorCreate) (*model.Visitor, error)
	GetByID(ctx context.Context, id string) (*model.Visitor, error)
	List(ctx context.Context, filter model.VisitorFilter, sort model.Sort, page model.PageRequest) (*model.Page[*model.Visitor], error)
	Update(ctx context.Context, id string, in *model.VisitorUpdate) (*model.Visitor, error)
	Delete(ctx context.Context, id string) error
	RecordVisit(ctx context.Context, id string) (*model.Visitor, error)
}

type visitorService struct {
	repo      repository.VisitorRepository
	validator *validator.VisitorValidator
	events    events.Publisher
	cfg       *config.Config
}

func NewVisitorService(
	repo repository.VisitorRepository,
	validator *validator.VisitorValidator,
	publisher events.Publisher,
	cfg *config.Config,
) VisitorService {
	return &visitorService{
		repo:      repo,
		validator: validator,
		events:    publisher,
		cfg:       cfg,
	}
}

func (s *visitorService) Create(ctx context.Context, in *model.VisitorCreate) (*model.Visitor, error) {
	in.Name = sanitizer.NormalizeName(in.Name)
	in.Email = sanitizer.NormalizeEmail(in.Email)
	in.Phone = sanitizer.TrimAndNormalize(in.Phone)

	if err := s.validator.ValidateCreate(in); err != nil {
		s.cfg.Log.Warn("Visitor validation failed", "email", in.Email, "error", err)
		return nil, err
	}

	visitor := in.ToVisitor()
	if err := s.repo.Create(ctx, visitor); err != nil {
		if errors.Is(err, visitorerrors.ErrDuplicate) {
			return nil, apperrors.Conflict("Visitor with this email already exists")
		}
		s.cfg.Log.Error("Failed to create visitor", "email", visitor.Email, "error", err)
		return nil, apperrors.Internal("Failed to create visitor", err)
	}

	s.cfg.Log.Info("Visitor created successfully",
		"id", visitor.ID,
		"age_group", visitor.AgeGroup,
		"nationality", visitor.Nationality,
	)
	s.events.Publish(ctx, events.VisitorCreated, visitor.ID, visitor)
	return visitor, nil
}

func (s *visitorService) GetByID(ctx context.Context, id string) (*model.Visitor, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Visitor ID cannot be empty")
	}

	visitor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id, "Failed to retrieve visitor")
	}
	return visitor, nil
}

func (s *visitorService) List(ctx context.Context, filter model.VisitorFilter, sort model.Sort, page model.PageRequest) (*model.Page[*model.Visitor], error) {
	filter.Name = sanitizer.TrimAndNormalize(filter.Name)
	filter.Email = sanitizer.NormalizeEmail(filter.Email)

	if err := s.validator.ValidateFilter(&filter); err != nil {
		return nil, err
	}

	visitors, total, err := mongodb.FetchPage(ctx,
		func(ctx context.Context) (int64, error) { return s.repo.Count(ctx, filter) },
		func(ctx context.Context) ([]*model.Visitor, error) { return s.repo.Find(ctx, filter, sort, page) },
	)
	if err != nil {
		s.cfg.Log.Error("Failed to list visitors",
			"page", page.Page,
			"limit", page.Limit,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve visitors", err)
	}

	return model.NewPage(PageKey, visitors, total, page), nil
}

func (s *visitorService) Update(ctx context.Context, id string, in *model.VisitorUpdate) (*model.Visitor, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Visitor ID cannot be empty")
	}

	if in.Name != nil {
		*in.Name = sanitizer.NormalizeName(*in.Name)
	}
	if in.Email != nil {
		*in.Email = sanitizer.NormalizeEmail(*in.Email)
	}
	if in.Phone != nil {
		*in.Phone = sanitizer.TrimAndNormalize(*in.Phone)
	}

	if err := s.validator.ValidateUpdate(in); err != nil {
		s.cfg.Log.Warn("Visitor update validation failed", "id", id, "error", err)
		return nil, err
	}

	in.AgeGroup = nil
	if in.Age != nil {
		group := model.AgeGroupFor(*in.Age)
		in.AgeGroup = &group
	}

	visitor, err := s.repo.Update(ctx, id, in)
	if err != nil {
		return nil, s.mapRepoError(err, id, "Failed to update visitor")
	}

	s.cfg.Log.Info("Visitor updated successfully", "id", id)
	s.events.Publish(ctx, events.VisitorUpdated, id, visitor)
	return visitor, nil
}

func (s *visitorService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Visitor ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapRepoError(err, id, "Failed to delete visitor")
	}

	s.cfg.Log.Info("Visitor deleted successfully", "id", id)
	s.events.Publish(ctx, events.VisitorDeleted, id, nil)
	return nil
}

func (s *visitorService) RecordVisit(ctx context.Context, id string) (*model.Visitor, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.InvalidInput("Invalid visitor ID format")
	}

	matched, err := s.repo.IncrementVisits(ctx, objectID)
	if err != nil {
		s.cfg.Log.Error("Failed to record visit", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to record visit", err)
	}
	if matched == 0 {
		return nil, apperrors.NotFoundWithID("Visitor", id)
	}

	visitor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id, "Failed to retrieve visitor")
	}

	s.cfg.Log.Info("Visit recorded", "id", id, "total_visits", visitor.TotalVisits)
	s.events.Publish(ctx, events.VisitRecorded, id, map[string]any{"totalVisits": visitor.TotalVisits})
	return visitor, nil
}

func (s *visitorService) mapRepoError(err error, id, message string) error {
	switch {
	case errors.Is(err, visitorerrors.ErrNotFound):
		return apperrors.NotFoundWithID("Visitor", id)
	case errors.Is(err, visitorerrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid visitor ID format")
	case errors.Is(err, visitorerrors.ErrDuplicate):
		return apperrors.Conflict("Visitor with this email already exists")
	}
	s.cfg.Log.Error(message, "id", id, "error", err)
	return apperrors.Internal(message, err)
}
