package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"zoo/internal/animals/service"
	"zoo/pkg/auth"
	httputil "zoo/pkg/http"
	"zoo/pkg/logger"
	"zoo/pkg/middleware"
	"zoo/pkg/model"
)

const basePath = "/api/v1/animals"

type AnimalHandler struct {
	service         service.AnimalService
	log             *logger.Logger
	maxUploadMemory int64
}

func NewAnimalHandler(service service.AnimalService, log *logger.Logger, maxUploadMemory int64) *AnimalHandler {
	return &AnimalHandler{
		service:         service,
		log:             log,
		maxUploadMemory: maxUploadMemory,
	}
}

func (h *AnimalHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in model.AnimalCreate
	image, err := httputil.DecodeBody(r, &in, h.maxUploadMemory)
	if err != nil {
		h.writeError(w, r, "Create", err)
		return
	}
	defer image.Close()

	animal, err := h.service.Create(r.Context(), &in, image)
	if err != nil {
		h.writeError(w, r, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, animal); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *AnimalHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	page, err := httputil.ParsePagination(r)
	if err != nil {
		h.writeError(w, r, "List", err)
		return
	}

	query := r.URL.Query()
	filter := model.AnimalFilter{
		Species:       query.Get("species"),
		Name:          query.Get("name"),
		Gender:        query.Get("gender"),
		HealthStatus:  query.Get("health_status"),
		EnclosureType: query.Get("enclosureType"),
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

func (h *AnimalHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	animal, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, r, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, animal); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AnimalHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var in model.AnimalUpdate
	image, err := httputil.DecodeBody(r, &in, h.maxUploadMemory)
	if err != nil {
		h.writeError(w, r, "Update", err)
		return
	}
	defer image.Close()

	animal, err := h.service.Update(r.Context(), ps.ByName("id"), &in, image)
	if err != nil {
		h.writeError(w, r, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, animal); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AnimalHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, r, "Delete", err)
		return
	}

	if err := httputil.WriteMessage(w, "Animal deleted successfully"); err != nil {
		h.log.Error("failed to write message response", "handler", "Delete", "operation", "WriteMessage", "error", err)
	}
}

func (h *AnimalHandler) writeError(w http.ResponseWriter, r *http.Request, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.FromContext(r.Context()).Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *AnimalHandler) RegisterRoutes(router *httprouter.Router, guard *middleware.Guard) {
	router.GET(basePath, guard.RequirePermission(h.List, auth.AnimalsView))
	router.POST(basePath, guard.RequirePermission(h.Create, auth.AnimalsCreate))
	router.GET(basePath+"/:id", guard.RequirePermission(h.GetByID, auth.AnimalsView))
	router.PUT(basePath+"/:id", guard.RequirePermission(h.Update, auth.AnimalsUpdate))
	router.DELETE(basePath+"/:id", guard.RequirePermission(h.Delete, auth.AnimalsDelete))
}
