package service

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	ticketerrors "zoo/internal/tickets/errors"
	"zoo/internal/tickets/repository"
	"zoo/internal/tickets/validator"
	"zoo/pkg/config"
	mongodb "zoo/pkg/db/mongo"
	apperrors "zoo/pkg/errors"
	"zoo/pkg/events"
	"zoo/pkg/model"
	"zoo/pkg/sanitizer"
)

const PageKey = "tickets"

// VisitorDirectory is the part of the visitor store tickets depend on.
type VisitorDirectory interface {
	CountByIDs(ctx context.Context, ids []primitive.ObjectID) (int64, error)
	IncrementVisits(ctx context.Context, ids ...primitive.ObjectID) (int64, error)
}

type TicketService interface {
	Create(ctx context.Context, in *model.TicketCreate) (*model.Ticket, error)
	GetByID(ctx context.Context, id string) (*model.Ticket, error)
	List(ctx context.Context, filter model.TicketFilter, sort model.Sort, page model.PageRequest) (*model.Page[*model.Ticket], error)
	ListActive(ctx context.Context, page model.PageRequest) (*model.Page[*model.Ticket], error)
	Update(ctx context.Context, id string, in *model.TicketUpdate) (*model.Ticket, error)
	Delete(ctx context.Context, id string) error
	Use(ctx context.Context, id string) (*model.Ticket, error)
	Exit(ctx context.Context, id string) (*model.Ticket, error)
	ExpireOverdue(ctx context.Context) (int64, error)
}

type ticketService struct {
	repo      repository.TicketRepository
	visitors  VisitorDirectory
	tx        mongodb.TransactionManager
	validator *validator.TicketValidator
	events    events.Publisher
	cfg       *config.Config
	now       func() time.Time
}

func NewTicketService(
	repo repository.TicketRepository,
	visitors VisitorDirectory,
	tx mongodb.TransactionManager,
	validator *validator.TicketValidator,
	publisher events.Publisher,
	cfg *config.Config,
) TicketService {
	return &ticketService{
		repo:      repo,
		visitors:  visitors,
		tx:        tx,
		validator: validator,
		events:    publisher,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *ticketService) Create(ctx context.Context, in *model.TicketCreate) (*model.Ticket, error) {
	in.VisitorIDs = sanitizer.NormalizeStringSlice(in.VisitorIDs, sanitizer.TrimAndNormalize)

	if err := s.validator.ValidateCreate(in); err != nil {
		s.cfg.Log.Warn("Ticket validation failed", "visitor_count", len(in.VisitorIDs), "error", err)
		return nil, err
	}

	visitorIDs, err := model.ObjectIDs(in.VisitorIDs)
	if err != nil {
		return nil, apperrors.InvalidInput("Invalid visitor ID format")
	}

	now := s.now().UTC().Truncate(time.Millisecond)
	expiresAt := now.Add(s.cfg.TicketValidity)
	if in.ExpiresAt != nil {
		if !in.ExpiresAt.After(now) {
			return nil, apperrors.Validation("Input validation failed", []apperrors.FieldError{{
				Path:    "expiresAt",
				Message: "Expiry must be in the future",
				Code:    "future",
			}})
		}
		if requested := in.ExpiresAt.UTC().Truncate(time.Millisecond); requested.After(expiresAt) {
			expiresAt = requested
		}
	}

	if err := s.ensureVisitorsExist(ctx, visitorIDs); err != nil {
		return nil, err
	}

	ticket := &model.Ticket{
		VisitorIDs:    visitorIDs,
		EnclosureType: in.EnclosureType,
		PriceCategory: in.PriceCategory,
		PriceAmount:   *in.PriceAmount,
		IssuedAt:      now,
		ExpiresAt:     expiresAt,
		Status:        model.TicketActive,
	}

	if err := s.repo.Create(ctx, ticket); err != nil {
		s.cfg.Log.Error("Failed to create ticket", "enclosure_type", ticket.EnclosureType, "error", err)
		return nil, apperrors.Internal("Failed to create ticket", err)
	}

	s.cfg.Log.Info("Ticket issued",
		"id", ticket.ID,
		"visitors", len(ticket.VisitorIDs),
		"enclosure_type", ticket.EnclosureType,
		"expires_at", ticket.ExpiresAt,
	)
	s.events.Publish(ctx, events.TicketCreated, ticket.ID, ticket)
	return ticket, nil
}

func (s *ticketService) ensureVisitorsExist(ctx context.Context, ids []primitive.ObjectID) error {
	found, err := s.visitors.CountByIDs(ctx, ids)
	if err != nil {
		s.cfg.Log.Error("Failed to look up ticket visitors", "error", err)
		return apperrors.Internal("Failed to verify visitors", err)
	}
	if found != int64(len(ids)) {
		return apperrors.NotFound("One or more visitors").WithDetails(map[string]any{
			"requested": len(ids),
			"found":     found,
		})
	}
	return nil
}

func (s *ticketService) GetByID(ctx context.Context, id string) (*model.Ticket, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Ticket ID cannot be empty")
	}

	ticket, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id, "Failed to retrieve ticket")
	}
	return ticket, nil
}

func (s *ticketService) list(ctx context.Context, query repository.Query, sort model.Sort, page model.PageRequest) (*model.Page[*model.Ticket], error) {
	tickets, total, err := mongodb.FetchPage(ctx,
		func(ctx context.Context) (int64, error) { return s.repo.Count(ctx, query) },
		func(ctx context.Context) ([]*model.Ticket, error) { return s.repo.Find(ctx, query, sort, page) },
	)
	if err != nil {
		if errors.Is(err, ticketerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid visitor ID format")
		}
		s.cfg.Log.Error("Failed to list tickets",
			"page", page.Page,
			"limit", page.Limit,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve tickets", err)
	}

	return model.NewPage(PageKey, tickets, total, page), nil
}

func (s *ticketService) List(ctx context.Context, filter model.TicketFilter, sort model.Sort, page model.PageRequest) (*model.Page[*model.Ticket], error) {
	filter.EnclosureType = sanitizer.TrimAndNormalize(filter.EnclosureType)
	filter.Status = sanitizer.TrimAndNormalize(filter.Status)

	if err := s.validator.ValidateFilter(&filter); err != nil {
		return nil, err
	}
	return s.list(ctx, repository.Query{Filter: filter}, sort, page)
}

func (s *ticketService) ListActive(ctx context.Context, page model.PageRequest) (*model.Page[*model.Ticket], error) {
	now := s.now().UTC()
	sort := model.Sort{Field: "expiresAt"}
	return s.list(ctx, repository.Query{ActiveAt: &now}, sort, page)
}

func (s *ticketService) Update(ctx context.Context, id string, in *model.TicketUpdate) (*model.Ticket, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Ticket ID cannot be empty")
	}

	if in.VisitorIDs != nil {
		in.VisitorIDs = sanitizer.NormalizeStringSlice(in.VisitorIDs, sanitizer.TrimAndNormalize)
	}

	if err := s.validator.ValidateUpdate(in); err != nil {
		s.cfg.Log.Warn("Ticket update validation failed", "id", id, "error", err)
		return nil, err
	}

	in.VisitorObjectIDs = nil
	if len(in.VisitorIDs) > 0 {
		ids, err := model.ObjectIDs(in.VisitorIDs)
		if err != nil {
			return nil, apperrors.InvalidInput("Invalid visitor ID format")
		}
		if err := s.ensureVisitorsExist(ctx, ids); err != nil {
			return nil, err
		}
		in.VisitorObjectIDs = &ids
	}

	ticket, err := s.repo.Update(ctx, id, in)
	if err != nil {
		return nil, s.mapRepoError(err, id, "Failed to update ticket")
	}

	s.cfg.Log.Info("Ticket updated successfully", "id", id, "status", ticket.Status)
	s.events.Publish(ctx, events.TicketUpdated, id, ticket)
	return ticket, nil
}

func (s *ticketService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Ticket ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapRepoError(err, id, "Failed to delete ticket")
	}

	s.cfg.Log.Info("Ticket deleted successfully", "id", id)
	s.events.Publish(ctx, events.TicketDeleted, id, nil)
	return nil
}

// Use admits the ticket holders: the ticket becomes Used and every visitor on
// it gets one more recorded visit, atomically when the server supports
// transactions.
func (s *ticketService) Use(ctx context.Context, id string) (*model.Ticket, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Ticket ID cannot be empty")
	}

	var used *model.Ticket
	err := s.tx.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		ticket, err := s.repo.MarkUsed(txCtx, id, s.now())
		if err != nil {
			return s.mapRepoError(err, id, "Failed to use ticket")
		}
		if len(ticket.VisitorIDs) > 0 {
			if _, err := s.visitors.IncrementVisits(txCtx, ticket.VisitorIDs...); err != nil {
				return apperrors.Internal("Failed to record visits", err)
			}
		}
		used = ticket
		return nil
	})
	if err != nil {
		if appErr := apperrors.AsAppError(err); appErr.StatusCode() >= 500 {
			s.cfg.Log.Error("Failed to use ticket", "id", id, "error", err)
		}
		return nil, err
	}

	s.cfg.Log.Info("Ticket used", "id", id, "visitors", len(used.VisitorIDs))
	s.events.Publish(ctx, events.TicketUsed, id, used)
	return used, nil
}

func (s *ticketService) Exit(ctx context.Context, id string) (*model.Ticket, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Ticket ID cannot be empty")
	}

	ticket, err := s.repo.RecordExit(ctx, id, s.now())
	if err != nil {
		return nil, s.mapRepoError(err, id, "Failed to record exit")
	}

	s.cfg.Log.Info("Ticket exit recorded", "id", id)
	s.events.Publish(ctx, events.TicketExited, id, ticket)
	return ticket, nil
}

// ExpireOverdue marks every Active ticket past its expiry as Expired.
func (s *ticketService) ExpireOverdue(ctx context.Context) (int64, error) {
	n, err := s.repo.ExpireOverdue(ctx, s.now())
	if err != nil {
		s.cfg.Log.Error("Failed to expire tickets", "error", err)
		return 0, err
	}
	if n > 0 {
		s.cfg.Log.Info("Expired overdue tickets", "count", n)
		s.events.Publish(ctx, events.TicketsExpired, "", map[string]any{"count": n})
	}
	return n, nil
}

func (s *ticketService) mapRepoError(err error, id, message string) error {
	switch {
	case errors.Is(err, ticketerrors.ErrNotFound):
		return apperrors.NotFoundWithID("Ticket", id)
	case errors.Is(err, ticketerrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid ticket ID format")
	case errors.Is(err, ticketerrors.ErrStateConflict):
		return apperrors.Conflict(message + ": ticket is not in a valid state")
	}
	s.cfg.Log.Error(message, "id", id, "error", err)
	return apperrors.Internal(message, err)
}
