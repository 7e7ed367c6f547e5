package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"zoo/internal/tickets/repository"
	"zoo/internal/tickets/service"
	"zoo/pkg/auth"
	httputil "zoo/pkg/http"
	"zoo/pkg/logger"
	"zoo/pkg/middleware"
	"zoo/pkg/model"
)

const (
	basePath        = "/api/v1/tickets"
	visitorBasePath = "/api/v1/visitors"

	// activeSegment shares the :id position because httprouter does not allow
	// a static segment next to a wildcard.
	activeSegment = "active"
)

type TicketHandler struct {
	service service.TicketService
	log     *logger.Logger
}

func NewTicketHandler(service service.TicketService, log *logger.Logger) *TicketHandler {
	return &TicketHandler{
		service: service,
		log:     log,
	}
}

func (h *TicketHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in model.TicketCreate
	if _, err := httputil.DecodeBody(r, &in, 0); err != nil {
		h.writeError(w, r, "Create", err)
		return
	}

	ticket, err := h.service.Create(r.Context(), &in)
	if err != nil {
		h.writeError(w, r, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, ticket); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *TicketHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.list(w, r, "List", "")
}

// ListByVisitor returns the tickets that include the visitor in the path.
func (h *TicketHandler) ListByVisitor(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.list(w, r, "ListByVisitor", ps.ByName("id"))
}

func (h *TicketHandler) list(w http.ResponseWriter, r *http.Request, name, visitorID string) {
	page, err := httputil.ParsePagination(r)
	if err != nil {
		h.writeError(w, r, name, err)
		return
	}

	query := r.URL.Query()
	sort := httputil.ParseSort(r, repository.DefaultSortField)
	filter := model.TicketFilter{
		EnclosureType: query.Get("enclosureType"),
		Status:        query.Get("status"),
		PriceCategory: query.Get("priceCategory"),
		VisitorID:     visitorID,
		SortBy:        sort.Field,
		Order:         httputil.ParseOrder(r),
	}

	result, err := h.service.List(r.Context(), filter, sort, page)
	if err != nil {
		h.writeError(w, r, name, err)
		return
	}

	if err := httputil.WritePage(w, result); err != nil {
		h.log.Error("failed to write page response", "handler", name, "operation", "WritePage", "error", err)
	}
}

func (h *TicketHandler) ListActive(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	page, err := httputil.ParsePagination(r)
	if err != nil {
		h.writeError(w, r, "ListActive", err)
		return
	}

	result, err := h.service.ListActive(r.Context(), page)
	if err != nil {
		h.writeError(w, r, "ListActive", err)
		return
	}

	if err := httputil.WritePage(w, result); err != nil {
		h.log.Error("failed to write page response", "handler", "ListActive", "operation", "WritePage", "error", err)
	}
}

func (h *TicketHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == activeSegment {
		h.ListActive(w, r, ps)
		return
	}

	ticket, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, r, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, ticket); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *TicketHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var in model.TicketUpdate
	if _, err := httputil.DecodeBody(r, &in, 0); err != nil {
		h.writeError(w, r, "Update", err)
		return
	}

	ticket, err := h.service.Update(r.Context(), ps.ByName("id"), &in)
	if err != nil {
		h.writeError(w, r, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, ticket); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *TicketHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, r, "Delete", err)
		return
	}

	if err := httputil.WriteMessage(w, "Ticket deleted successfully"); err != nil {
		h.log.Error("failed to write message response", "handler", "Delete", "operation", "WriteMessage", "error", err)
	}
}

func (h *TicketHandler) Use(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ticket, err := h.service.Use(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, r, "Use", err)
		return
	}

	if err := httputil.WriteSuccess(w, ticket); err != nil {
		h.log.Error("failed to write success response", "handler", "Use", "operation", "WriteSuccess", "error", err)
	}
}

func (h *TicketHandler) Exit(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ticket, err := h.service.Exit(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, r, "Exit", err)
		return
	}

	if err := httputil.WriteSuccess(w, ticket); err != nil {
		h.log.Error("failed to write success response", "handler", "Exit", "operation", "WriteSuccess", "error", err)
	}
}

func (h *TicketHandler) writeError(w http.ResponseWriter, r *http.Request, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.FromContext(r.Context()).Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *TicketHandler) RegisterRoutes(router *httprouter.Router, guard *middleware.Guard) {
	router.GET(basePath, guard.RequirePermission(h.List, auth.TicketsView))
	router.POST(basePath, guard.RequirePermission(h.Create, auth.TicketsCreate))
	router.GET(basePath+"/:id", guard.RequirePermission(h.GetByID, auth.TicketsView))
	router.PATCH(basePath+"/:id", guard.RequirePermission(h.Update, auth.TicketsUpdate))
	router.DELETE(basePath+"/:id", guard.RequirePermission(h.Delete, auth.TicketsDelete))
	router.POST(basePath+"/:id/use", guard.RequirePermission(h.Use, auth.TicketsUpdate))
	router.POST(basePath+"/:id/exit", guard.RequirePermission(h.Exit, auth.TicketsUpdate))
	router.GET(visitorBasePath+"/:id/tickets", guard.RequirePermission(h.ListByVisitor, auth.TicketsView))
}
