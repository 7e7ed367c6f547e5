package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"zoo/internal/auth/service"
	staffservice "zoo/internal/staff/service"
	"zoo/pkg/auth"
	apperrors "zoo/pkg/errors"
	httputil "zoo/pkg/http"
	"zoo/pkg/logger"
	"zoo/pkg/middleware"
	"zoo/pkg/model"
)

const (
	basePath = "/api/v1/auth"

	RefreshCookieName = "refreshToken"
)

type AuthHandler struct {
	service         service.AuthService
	staff           staffservice.StaffService
	log             *logger.Logger
	loginLimiter    *middleware.ClientRateLimiter
	cookieSecure    bool
	cookieMaxAge    int
	maxUploadMemory int64
}

// NewAuthHandler wires the auth routes. loginLimiter may be nil to disable
// the stricter login limit.
func NewAuthHandler(
	service service.AuthService,
	staff staffservice.StaffService,
	log *logger.Logger,
	loginLimiter *middleware.ClientRateLimiter,
	cookieSecure bool,
	refreshTTLSeconds int,
	maxUploadMemory int64,
) *AuthHandler {
	return &AuthHandler{
		service:         service,
		staff:           staff,
		log:             log,
		loginLimiter:    loginLimiter,
		cookieSecure:    cookieSecure,
		cookieMaxAge:    refreshTTLSeconds,
		maxUploadMemory: maxUploadMemory,
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in model.LoginRequest
	upload, err := httputil.DecodeBody(r, &in, 0)
	if err != nil {
		h.writeError(w, r, "Login", err)
		return
	}
	upload.Close()

	session, err := h.service.Login(r.Context(), &in)
	if err != nil {
		h.writeError(w, r, "Login", err)
		return
	}

	h.setRefreshCookie(w, session.RefreshToken)
	if err := httputil.WriteSuccess(w, model.LoginResponse{AccessToken: session.AccessToken, User: session.User}); err != nil {
		h.log.Error("failed to write success response", "handler", "Login", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	session, err := h.service.Refresh(r.Context(), refreshCookie(r))
	if err != nil {
		h.clearRefreshCookie(w)
		h.writeError(w, r, "Refresh", err)
		return
	}

	h.setRefreshCookie(w, session.RefreshToken)
	if err := httputil.WriteSuccess(w, model.LoginResponse{AccessToken: session.AccessToken, User: session.User}); err != nil {
		h.log.Error("failed to write success response", "handler", "Refresh", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in model.StaffCreate
	image, err := httputil.DecodeBody(r, &in, h.maxUploadMemory)
	if err != nil {
		h.writeError(w, r, "Register", err)
		return
	}
	defer image.Close()

	staff, err := h.staff.Create(r.Context(), &in, image)
	if err != nil {
		h.writeError(w, r, "Register", err)
		return
	}

	if err := httputil.WriteCreated(w, staff); err != nil {
		h.log.Error("failed to write created response", "handler", "Register", "operation", "WriteCreated", "error", err)
	}
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	err := h.service.Logout(r.Context(), refreshCookie(r))
	h.clearRefreshCookie(w)
	if err != nil {
		h.writeError(w, r, "Logout", err)
		return
	}

	if err := httputil.WriteMessage(w, "Logged out successfully"); err != nil {
		h.log.Error("failed to write message response", "handler", "Logout", "operation", "WriteMessage", "error", err)
	}
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		h.writeError(w, r, "Me", apperrors.Unauthorized("Access token required"))
		return
	}

	staff, err := h.service.Me(r.Context(), claims.Subject)
	if err != nil {
		h.writeError(w, r, "Me", err)
		return
	}

	if err := httputil.WriteSuccess(w, staff); err != nil {
		h.log.Error("failed to write success response", "handler", "Me", "operation", "WriteSuccess", "error", err)
	}
}

func refreshCookie(r *http.Request) string {
	c, err := r.Cookie(RefreshCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

func (h *AuthHandler) setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    token,
		Path:     basePath,
		MaxAge:   h.cookieMaxAge,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     basePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) writeError(w http.ResponseWriter, r *http.Request, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.FromContext(r.Context()).Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *AuthHandler) RegisterRoutes(router *httprouter.Router, guard *middleware.Guard) {
	if h.loginLimiter != nil {
		limited := middleware.RateLimit(h.loginLimiter)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h.Login(w, r, nil)
		}))
		router.Handler(http.MethodPost, basePath+"/login", limited)
	} else {
		router.POST(basePath+"/login", h.Login)
	}
	router.POST(basePath+"/refresh", h.Refresh)
	router.POST(basePath+"/logout", h.Logout)
	router.POST(basePath+"/register", guard.RequireRole(h.Register, model.RoleAdmin))
	router.GET(basePath+"/me", guard.Authenticated(h.Me))
}
