package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"zoo/internal/staff/service"
	"zoo/pkg/auth"
	httputil "zoo/pkg/http"
	"zoo/pkg/logger"
	"zoo/pkg/middleware"
	"zoo/pkg/model"
)

const basePath = "/api/v1/staffs"

type StaffHandler struct {
	service         service.StaffService
	log             *logger.Logger
	maxUploadMemory int64
}

func NewStaffHandler(service service.StaffService, log *logger.Logger, maxUploadMemory int64) *StaffHandler {
	return &StaffHandler{
		service:         service,
		log:             log,
		maxUploadMemory: maxUploadMemory,
	}
}

func (h *StaffHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in model.StaffCreate
	image, err := httputil.DecodeBody(r, &in, h.maxUploadMemory)
	if err != nil {
		h.writeError(w, r, "Create", err)
		return
	}
	defer image.Close()

	staff, err := h.service.Create(r.Context(), &in, image)
	if err != nil {
		h.writeError(w, r, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, staff); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *StaffHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	page, err := httputil.ParsePagination(r)
	if err != nil {
		h.writeError(w, r, "List", err)
		return
	}

	isActive, err := httputil.ParseBool(r, "isActive")
	if err != nil {
		h.writeError(w, r, "List", err)
		return
	}

	query := r.URL.Query()
	filter := model.StaffFilter{
		Role:       query.Get("role"),
		Department: query.Get("department"),
		Name:       query.Get("name"),
		IsActive:   isActive,
	}

	result, err := h.service.List(r.Context(), filter, page)
	if err != nil {
		h.writeError(w, r, "List", err)
		return
	}

	if err := httputil.WritePage(w, result); err != nil {
		h.log.Error("failed to write page response", "handler", "List", "operation", "WritePage", "error", err)
	}
}

func (h *StaffHandler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	staff, err := h.service.Get(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, r, "Get", err)
		return
	}

	if err := httputil.WriteSuccess(w, staff); err != nil {
		h.log.Error("failed to write success response", "handler", "Get", "operation", "WriteSuccess", "error", err)
	}
}

func (h *StaffHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var in model.StaffUpdate
	image, err := httputil.DecodeBody(r, &in, h.maxUploadMemory)
	if err != nil {
		h.writeError(w, r, "Update", err)
		return
	}
	defer image.Close()

	staff, err := h.service.Update(r.Context(), ps.ByName("id"), &in, image)
	if err != nil {
		h.writeError(w, r, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, staff); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *StaffHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, r, "Delete", err)
		return
	}

	if err := httputil.WriteMessage(w, "Staff member deleted successfully"); err != nil {
		h.log.Error("failed to write message response", "handler", "Delete", "operation", "WriteMessage", "error", err)
	}
}

func (h *StaffHandler) writeError(w http.ResponseWriter, r *http.Request, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.FromContext(r.Context()).Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *StaffHandler) RegisterRoutes(router *httprouter.Router, guard *middleware.Guard) {
	router.GET(basePath, guard.RequirePermission(h.List, auth.StaffView))
	router.POST(basePath, guard.RequirePermission(h.Create, auth.StaffCreate))
	router.GET(basePath+"/:id", guard.RequirePermission(h.Get, auth.StaffView))
	router.PUT(basePath+"/:id", guard.RequirePermission(h.Update, auth.StaffUpdate))
	router.DELETE(basePath+"/:id", guard.RequirePermission(h.Delete, auth.StaffDelete))
}
