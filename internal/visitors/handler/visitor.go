package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"zoo/internal/visitors/repository"
	"zoo/internal/visitors/service"
	"zoo/pkg/auth"
	httputil "zoo/pkg/http"
	"zoo/pkg/logger"
	"zoo/pkg/middleware"
	"zoo/pkg/model"
)

const basePath = "/api/v1/visitors"

type VisitorHandler struct {
	service service.VisitorService
	log     *logger.Logger
}

func NewVisitorHandler(service service.VisitorService, log *logger.Logger) *VisitorHandler {
	return &VisitorHandler{
		service: service,
		log:     log,
	}
}

func (h *VisitorHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in model.VisitorCreate
	if _, err := httputil.DecodeBody(r, &in, 0); err != nil {
		h.writeError(w, r, "Create", err)
		return
	}

	visitor, err := h.service.Create(r.Context(), &in)
	if err != nil {
		h.writeError(w, r, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, visitor); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *VisitorHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	page, err := httputil.ParsePagination(r)
	if err != nil {
		h.writeError(w, r, "List", err)
		return
	}

	query := r.URL.Query()
	sort := httputil.ParseSort(r, repository.DefaultSortField)
	filter := model.VisitorFilter{
		Name:        query.Get("name"),
		Email:       query.Get("email"),
		Nationality: query.Get("nationality"),
		AgeGroup:    query.Get("ageGroup"),
		SortBy:      sort.Field,
		Order:       httputil.ParseOrder(r),
	}

	result, err := h.service.List(r.Context(), filter, sort, page)
	if err != nil {
		h.writeError(w, r, "List", err)
		return
	}

	if err := httputil.WritePage(w, result); err != nil {
		h.log.Error("failed to write page response", "handler", "List", "operation", "WritePage", "error", err)
	}
}

func (h *VisitorHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	visitor, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, r, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, visitor); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *VisitorHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var in model.VisitorUpdate
	if _, err := httputil.DecodeBody(r, &in, 0); err != nil {
		h.writeError(w, r, "Update", err)
		return
	}

	visitor, err := h.service.Update(r.Context(), ps.ByName("id"), &in)
	if err != nil {
		h.writeError(w, r, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, visitor); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *VisitorHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, r, "Delete", err)
		return
	}

	if err := httputil.WriteMessage(w, "Visitor deleted successfully"); err != nil {
		h.log.Error("failed to write message response", "handler", "Delete", "operation", "WriteMessage", "error", err)
	}
}

func (h *VisitorHandler) RecordVisit(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	visitor, err := h.service.RecordVisit(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, r, "RecordVisit", err)
		return
	}

	if err := httputil.WriteSuccess(w, visitor); err != nil {
		h.log.Error("failed to write success response", "handler", "RecordVisit", "operation", "WriteSuccess", "error", err)
	}
}

func (h *VisitorHandler) writeError(w http.ResponseWriter, r *http.Request, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.FromContext(r.Context()).Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *VisitorHandler) RegisterRoutes(router *httprouter.Router, guard *middleware.Guard) {
	router.GET(basePath, guard.RequirePermission(h.List, auth.VisitorsView))
	router.POST(basePath, guard.RequirePermission(h.Create, auth.VisitorsCreate))
	router.GET(basePath+"/:id", guard.RequirePermission(h.GetByID, auth.VisitorsView))
	router.PATCH(basePath+"/:id", guard.RequirePermission(h.Update, auth.VisitorsUpdate))
	router.DELETE(basePath+"/:id", guard.RequirePermission(h.Delete, auth.VisitorsDelete))
	router.POST(basePath+"/:id/visits", guard.RequirePermission(h.RecordVisit, auth.VisitorsUpdate))
}
