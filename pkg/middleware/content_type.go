package middleware

import (
	"mime"
	"net/http"

	apperrors "zoo/pkg/errors"
	httputil "zoo/pkg/http"
	"zoo/pkg/logger"
)

var allowedContentTypes = map[string]struct{}{
	"application/json":    {},
	"multipart/form-data": {},
}

// ContentTypeValidation rejects write requests whose body is neither JSON nor
// a multipart form. Requests without a body pass through.
func ContentTypeValidation(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if requiresContentType(r) {
				contentType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
				if _, ok := allowedContentTypes[contentType]; !ok {
					log.FromContext(r.Context()).Warn("Invalid Content-Type header",
						"content_type", contentType,
						"path", r.URL.Path,
						"method", r.Method,
					)
					_ = httputil.WriteError(w, apperrors.New(
						apperrors.CodeInvalidInput,
						"Content-Type must be application/json or multipart/form-data",
						http.StatusUnsupportedMediaType,
					))
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func requiresContentType(r *http.Request) bool {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return r.ContentLength != 0
	}
	return false
}
