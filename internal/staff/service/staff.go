package service

import (
	"context"
	"errors"

	stafferrors "zoo/internal/staff/errors"
	"zoo/internal/staff/repository"
	"zoo/internal/staff/validator"
	"zoo/pkg/auth"
	"zoo/pkg/config"
	mongodb "zoo/pkg/db/mongo"
	apperrors "zoo/pkg/errors"
	"zoo/pkg/events"
	"zoo/pkg/model"
	"zoo/pkg/sanitizer"
	"zoo/pkg/storage"
)

const (
	ImageFolder = "staff"
	PageKey     = "staff"
)

type StaffService interface {
	Create(ctx context.Context, in *model.StaffCreate, image *storage.Upload) (*model.Staff, error)
	Get(ctx context.Context, key string) (*model.Staff, error)
	List(ctx context.Context, filter model.StaffFilter, page model.PageRequest) (*model.Page[*model.Staff], error)
	Update(ctx context.Context, key string, in *model.StaffUpdate, image *storage.Upload) (*model.Staff, error)
	Delete(ctx context.Context, key string) error
}

type staffService struct {
	repo      repository.StaffRepository
	validator *validator.StaffValidator
	images    storage.ImageStore
	events    events.Publisher
	cfg       *config.Config
}

func NewStaffService(
	repo repository.StaffRepository,
	validator *validator.StaffValidator,
	images storage.ImageStore,
	publisher events.Publisher,
	cfg *config.Config,
) StaffService {
	return &staffService{
		repo:      repo,
		validator: validator,
		images:    images,
		events:    publisher,
		cfg:       cfg,
	}
}

func (s *staffService) Create(ctx context.Context, in *model.StaffCreate, image *storage.Upload) (*model.Staff, error) {
	s.sanitizeCreate(in)

	if err := s.validator.ValidateCreate(in); err != nil {
		s.cfg.Log.Warn("Staff validation failed",
			"employee_id", in.EmployeeID,
			"error", err,
		)
		return nil, err
	}

	record := in.ToRecord()
	if len(record.Permissions) == 0 {
		record.Permissions = auth.DefaultPermissions(record.Role)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		s.cfg.Log.Error("Failed to hash password", "employee_id", in.EmployeeID, "error", err)
		return nil, apperrors.Internal("Failed to create staff member", err)
	}
	record.PasswordHash = hash

	var stored *storage.StoredImage
	if image != nil {
		stored, err = s.images.Upload(ctx, ImageFolder, image)
		if err != nil {
			s.cfg.Log.Error("Failed to upload staff image", "employee_id", in.EmployeeID, "error", err)
			return nil, apperrors.Upload(err)
		}
		record.ImageURL = stored.URL
		record.ImagePublicID = stored.PublicID
	}

	if err := s.repo.Create(ctx, record); err != nil {
		if stored != nil {
			s.discardImage(ctx, stored.PublicID)
		}
		if errors.Is(err, stafferrors.ErrDuplicate) {
			s.cfg.Log.Warn("Duplicate staff member", "employee_id", record.EmployeeID, "email", record.Email)
			return nil, apperrors.Conflict("Staff member with this email or employee ID already exists")
		}
		s.cfg.Log.Error("Failed to create staff member",
			"employee_id", record.EmployeeID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to create staff member", err)
	}

	view := record.View()
	s.cfg.Log.Info("Staff member created successfully",
		"id", view.ID,
		"employee_id", view.EmployeeID,
		"role", view.Role,
	)
	s.events.Publish(ctx, events.StaffCreated, view.ID, view)
	return view, nil
}

func (s *staffService) key(value string) (repository.Key, error) {
	if value == "" {
		return repository.Key{}, apperrors.InvalidInput("Staff identifier cannot be empty")
	}
	key, err := repository.NewKey(s.cfg.StaffLookupKey, value)
	if err != nil {
		return repository.Key{}, apperrors.InvalidInput("Invalid staff ID format")
	}
	return key, nil
}

func (s *staffService) Get(ctx context.Context, value string) (*model.Staff, error) {
	key, err := s.key(value)
	if err != nil {
		return nil, err
	}

	record, err := s.repo.FindOne(ctx, key)
	if err != nil {
		return nil, s.mapRepoError(err, value, "Failed to retrieve staff member")
	}
	return record.View(), nil
}

func (s *staffService) List(ctx context.Context, filter model.StaffFilter, page model.PageRequest) (*model.Page[*model.Staff], error) {
	filter.Name = sanitizer.TrimAndNormalize(filter.Name)
	filter.Department = sanitizer.TrimAndNormalize(filter.Department)
	filter.Role = sanitizer.TrimAndNormalize(filter.Role)

	if err := s.validator.ValidateFilter(&filter); err != nil {
		return nil, err
	}

	records, total, err := mongodb.FetchPage(ctx,
		func(ctx context.Context) (int64, error) { return s.repo.Count(ctx, filter) },
		func(ctx context.Context) ([]*model.StaffRecord, error) { return s.repo.Find(ctx, filter, page) },
	)
	if err != nil {
		s.cfg.Log.Error("Failed to list staff",
			"page", page.Page,
			"limit", page.Limit,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve staff", err)
	}

	return model.NewPage(PageKey, model.StaffViews(records), total, page), nil
}

func (s *staffService) Update(ctx context.Context, value string, in *model.StaffUpdate, image *storage.Upload) (*model.Staff, error) {
	key, err := s.key(value)
	if err != nil {
		return nil, err
	}

	s.sanitizeUpdate(in)

	if err := s.validator.ValidateUpdate(in); err != nil {
		s.cfg.Log.Warn("Staff update validation failed", "key", value, "error", err)
		return nil, err
	}

	if in.Password != nil {
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			s.cfg.Log.Error("Failed to hash password", "key", value, "error", err)
			return nil, apperrors.Internal("Failed to update staff member", err)
		}
		in.PasswordHash = &hash
		in.Password = nil
	}

	existing, err := s.repo.FindOne(ctx, key)
	if err != nil {
		return nil, s.mapRepoError(err, value, "Failed to retrieve staff member")
	}

	var stored *storage.StoredImage
	if image != nil {
		stored, err = s.images.Upload(ctx, ImageFolder, image)
		if err != nil {
			s.cfg.Log.Error("Failed to upload staff image", "key", value, "error", err)
			return nil, apperrors.Upload(err)
		}
		in.ImageURL = &stored.URL
		in.ImagePublicID = &stored.PublicID
	}

	updated, err := s.repo.Update(ctx, key, in)
	if err != nil {
		if stored != nil {
			s.discardImage(ctx, stored.PublicID)
		}
		return nil, s.mapRepoError(err, value, "Failed to update staff member")
	}

	if stored != nil && existing.ImagePublicID != "" && existing.ImagePublicID != stored.PublicID {
		s.discardImage(ctx, existing.ImagePublicID)
	}

	view := updated.View()
	s.cfg.Log.Info("Staff member updated successfully", "id", view.ID, "employee_id", view.EmployeeID)
	s.events.Publish(ctx, events.StaffUpdated, view.ID, view)
	return view, nil
}

func (s *staffService) Delete(ctx context.Context, value string) error {
	key, err := s.key(value)
	if err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, key)
	if err != nil {
		return s.mapRepoError(err, value, "Failed to delete staff member")
	}

	if deleted.ImagePublicID != "" {
		s.discardImage(ctx, deleted.ImagePublicID)
	}

	s.cfg.Log.Info("Staff member deleted successfully", "id", deleted.ID, "employee_id", deleted.EmployeeID)
	s.events.Publish(ctx, events.StaffDeleted, deleted.ID, nil)
	return nil
}

func (s *staffService) discardImage(ctx context.Context, publicID string) {
	if err := s.images.Delete(context.WithoutCancel(ctx), publicID); err != nil {
		s.cfg.Log.Warn("Failed to delete staff image", "public_id", publicID, "error", err)
	}
}

func (s *staffService) mapRepoError(err error, key, message string) error {
	switch {
	case errors.Is(err, stafferrors.ErrNotFound):
		return apperrors.NotFoundWithID("Staff member", key)
	case errors.Is(err, stafferrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid staff ID format")
	case errors.Is(err, stafferrors.ErrDuplicate):
		return apperrors.Conflict("Staff member with this email or employee ID already exists")
	}
	s.cfg.Log.Error(message, "key", key, "error", err)
	return apperrors.Internal(message, err)
}

func (s *staffService) sanitizeCreate(in *model.StaffCreate) {
	in.EmployeeID = sanitizer.TrimAndNormalize(in.EmployeeID)
	in.FirstName = sanitizer.NormalizeName(in.FirstName)
	in.LastName = sanitizer.NormalizeName(in.LastName)
	in.Email = sanitizer.NormalizeEmail(in.Email)
	in.Phone = sanitizer.NormalizePhone(in.Phone)
	in.HireDate = sanitizer.TrimAndNormalize(in.HireDate)
	in.Permissions = sanitizer.NormalizePermissions(in.Permissions)
	sanitizeShift(&in.Shift)
	sanitizeContact(&in.EmergencyContact)
}

func (s *staffService) sanitizeUpdate(in *model.StaffUpdate) {
	apply := func(p *string, fn func(string) string) {
		if p != nil {
			*p = fn(*p)
		}
	}
	apply(in.EmployeeID, sanitizer.TrimAndNormalize)
	apply(in.FirstName, sanitizer.NormalizeName)
	apply(in.LastName, sanitizer.NormalizeName)
	apply(in.Email, sanitizer.NormalizeEmail)
	apply(in.Phone, sanitizer.NormalizePhone)
	apply(in.HireDate, sanitizer.TrimAndNormalize)
	if in.Permissions != nil {
		perms := sanitizer.NormalizePermissions(*in.Permissions)
		in.Permissions = &perms
	}
	if in.Shift != nil {
		sanitizeShift(in.Shift)
	}
	if in.EmergencyContact != nil {
		sanitizeContact(in.EmergencyContact)
	}
}

func sanitizeShift(shift *model.Shift) {
	shift.StartTime = sanitizer.TrimAndNormalize(shift.StartTime)
	shift.EndTime = sanitizer.TrimAndNormalize(shift.EndTime)
	shift.WorkDays = sanitizer.NormalizeWorkDays(shift.WorkDays)
}

func sanitizeContact(contact *model.EmergencyContact) {
	contact.Name = sanitizer.NormalizeName(contact.Name)
	contact.Phone = sanitizer.NormalizePhone(contact.Phone)
	contact.Relationship = sanitizer.TrimAndNormalize(contact.Relationship)
}
