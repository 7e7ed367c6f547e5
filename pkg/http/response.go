package http

import (
	"encoding/json"
	"net/http"
	"sync/atomic"

	apperrors "zoo/pkg/errors"
)

var productionMode atomic.Bool

// SetProductionMode hides the cause of 5xx errors from response bodies.
func SetProductionMode(enabled bool) {
	productionMode.Store(enabled)
}

type ErrorResponse struct {
	Success bool                   `json:"success"`
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Error   string                 `json:"error"`
	Errors  []apperrors.FieldError `json:"errors,omitempty"`
	Details map[string]any         `json:"details,omitempty"`
}

type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

func WriteError(w http.ResponseWriter, err error) error {
	appErr := apperrors.AsAppError(err)
	status := appErr.StatusCode()

	resp := ErrorResponse{
		Success: false,
		Code:    appErr.Code,
		Message: appErr.Message,
		Error:   appErr.Message,
		Errors:  appErr.Fields,
		Details: appErr.Details,
	}
	if appErr.Err != nil {
		resp.Error = appErr.Err.Error()
	}
	if status >= http.StatusInternalServerError && productionMode.Load() && appErr.Code != apperrors.CodeUpload {
		resp.Error = http.StatusText(status)
		resp.Details = nil
	}

	return WriteJSON(w, status, resp)
}

func WriteSuccess(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: data})
}

func WriteMessage(w http.ResponseWriter, message string) error {
	return WriteJSON(w, http.StatusOK, SuccessResponse{Success: true, Message: message})
}

func WriteCreated(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusCreated, SuccessResponse{Success: true, Data: data})
}

// WritePage writes a list result. Page types serialize their own items key.
func WritePage(w http.ResponseWriter, page any) error {
	return WriteJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: page})
}

func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
