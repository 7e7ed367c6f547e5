package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"zoo/pkg/auth"
	"zoo/pkg/logger"
	"zoo/pkg/model"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

func TestRequestLogging_SetsRequestID(t *testing.T) {
	var seen string
	h := RequestLogging(logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logger.RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
}

func TestRequestLogging_KeepsIncomingRequestID(t *testing.T) {
	h := RequestLogging(logger.Discard())(okHandler())
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestRecovery(t *testing.T) {
	h := Recovery(logger.Discard())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
}

func TestContentTypeValidation(t *testing.T) {
	h := ContentTypeValidation(logger.Discard())(okHandler())

	tests := []struct {
		name        string
		method      string
		body        string
		contentType string
		want        int
	}{
		{"json", http.MethodPost, `{}`, "application/json; charset=utf-8", http.StatusOK},
		{"multipart", http.MethodPut, "x", "multipart/form-data; boundary=abc", http.StatusOK},
		{"text", http.MethodPost, "x", "text/plain", http.StatusUnsupportedMediaType},
		{"no body", http.MethodPost, "", "", http.StatusOK},
		{"get ignored", http.MethodGet, "", "text/plain", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/", strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestMaxRequestSize(t *testing.T) {
	var readErr error
	h := MaxRequestSize(4)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader("too large")))

	var maxErr *http.MaxBytesError
	assert.True(t, errors.As(readErr, &maxErr))
}

func TestRequestTimeout(t *testing.T) {
	h := RequestTimeout(20 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
		time.Sleep(10 * time.Millisecond)
		_, _ = w.Write([]byte("late"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	assert.NotContains(t, rec.Body.String(), "late")
}

func TestIdempotency_ReplaysSuccessfulPost(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Minute)
	defer store.Stop()

	var calls int32
	h := Idempotency(store, logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"1"}`))
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/visitors", bytes.NewBufferString(`{}`))
		req.Header.Set(IdempotencyHeader, "key-1")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, `{"id":"1"}`, rec.Body.String())
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestIdempotency_DoesNotCacheFailures(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Minute)
	defer store.Stop()

	var calls int32
	h := Idempotency(store, logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/visitors", nil)
		req.Header.Set(IdempotencyHeader, "key-2")
		h.ServeHTTP(httptest.NewRecorder(), req)
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestInMemoryIdempotencyStore_Expiry(t *testing.T) {
	store := NewInMemoryIdempotencyStore(10 * time.Millisecond)
	defer store.Stop()

	store.Set(context.Background(), "k", &CachedResponse{StatusCode: http.StatusOK})
	_, ok := store.Get(context.Background(), "k")
	require.True(t, ok)

	time.Sleep(20 * time.Millisecond)
	_, ok = store.Get(context.Background(), "k")
	assert.False(t, ok)
}

func TestRateLimit(t *testing.T) {
	limiter := NewClientRateLimiter(rate.Limit(1), 2, time.Minute, nil, logger.Discard())
	defer limiter.Stop()
	h := RateLimit(limiter)(okHandler())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	other := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	other.RemoteAddr = "10.0.0.2:5000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.10:1234"
	assert.Equal(t, "192.168.1.10", ClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", ClientIP(req))
}

type stubVerifier struct {
	claims *auth.AccessClaims
	err    error
}

func (s stubVerifier) VerifyAccess(string) (*auth.AccessClaims, error) {
	return s.claims, s.err
}

func TestGuard(t *testing.T) {
	caretaker := &auth.AccessClaims{Role: model.RoleCaretaker, Permissions: auth.DefaultPermissions(model.RoleCaretaker)}

	tests := []struct {
		name     string
		verifier stubVerifier
		token    string
		perms    []string
		want     int
	}{
		{"missing token", stubVerifier{claims: caretaker}, "", []string{auth.AnimalsView}, http.StatusUnauthorized},
		{"invalid token", stubVerifier{err: auth.ErrInvalidToken}, "bad", []string{auth.AnimalsView}, http.StatusUnauthorized},
		{"allowed", stubVerifier{claims: caretaker}, "good", []string{auth.AnimalsView}, http.StatusOK},
		{"forbidden", stubVerifier{claims: caretaker}, "good", []string{auth.AnimalsCreate}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			guard := NewGuard(tt.verifier, logger.Discard())
			var gotClaims *auth.AccessClaims
			handle := guard.RequirePermission(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
				gotClaims, _ = auth.ClaimsFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			}, tt.perms...)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/animals", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()
			handle(rec, req, nil)

			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusOK {
				assert.Equal(t, caretaker, gotClaims)
			}
		})
	}
}

func TestMetrics(t *testing.T) {
	m := NewMetrics("zoo_test")
	h := m.Middleware(okHandler())
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/animals/65f1c0a2e4b0a1b2c3d4e5f6", nil))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `zoo_test_http_requests_total{method="GET",route="/api/v1/animals/:id",status="200"} 1`)
}

func TestRouteLabel(t *testing.T) {
	assert.Equal(t, "/api/v1/tickets/:id/use", RouteLabel("/api/v1/tickets/65f1c0a2e4b0a1b2c3d4e5f6/use"))
	assert.Equal(t, "/api/v1/staff", RouteLabel("/api/v1/staff"))
}
