package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"

	"zoo/pkg/auth"
	"zoo/pkg/logger"
	"zoo/pkg/middleware"
	"zoo/pkg/model"
	"zoo/pkg/storage"
)

type mockStaffService struct {
	createFunc func(ctx context.Context, in *model.StaffCreate, image *storage.Upload) (*model.Staff, error)
	listFunc   func(ctx context.Context, f model.StaffFilter, p model.PageRequest) (*model.Page[*model.Staff], error)
	getFunc    func(ctx context.Context, key string) (*model.Staff, error)
}

func (m *mockStaffService) Create(ctx context.Context, in *model.StaffCreate, image *storage.Upload) (*model.Staff, error) {
	return m.createFunc(ctx, in, image)
}

func (m *mockStaffService) Get(ctx context.Context, key string) (*model.Staff, error) {
	return m.getFunc(ctx, key)
}

func (m *mockStaffService) List(ctx context.Context, f model.StaffFilter, p model.PageRequest) (*model.Page[*model.Staff], error) {
	return m.listFunc(ctx, f, p)
}

func (m *mockStaffService) Update(context.Context, string, *model.StaffUpdate, *storage.Upload) (*model.Staff, error) {
	return &model.Staff{}, nil
}

func (m *mockStaffService) Delete(context.Context, string) error {
	return nil
}

func setup(t *testing.T, svc *mockStaffService, role string) (*httprouter.Router, string) {
	t.Helper()
	log := logger.Discard()
	issuer := auth.NewTokenIssuer(
		"access-secret-access-secret-0123456789",
		"refresh-secret-refresh-secret-0123456789",
		time.Minute, time.Hour, "zoo-test",
	)
	router := httprouter.New()
	NewStaffHandler(svc, log, 1<<20).RegisterRoutes(router, middleware.NewGuard(issuer, log))

	tok, err := issuer.IssueAccess(auth.Subject{StaffID: "s1", Role: role, Permissions: auth.DefaultPermissions(role)})
	if err != nil {
		t.Fatalf("IssueAccess() error = %v", err)
	}
	return router, tok
}

func TestList_ParsesIsActive(t *testing.T) {
	var got model.StaffFilter
	svc := &mockStaffService{
		listFunc: func(_ context.Context, f model.StaffFilter, p model.PageRequest) (*model.Page[*model.Staff], error) {
			got = f
			return model.NewPage("staff", []*model.Staff{}, 0, p), nil
		},
	}
	router, tok := setup(t, svc, model.RoleAdmin)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/staffs?isActive=false&department=Medical", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got.IsActive == nil || *got.IsActive {
		t.Errorf("expected isActive=false, got %v", got.IsActive)
	}
	if got.Department != "Medical" {
		t.Errorf("expected department Medical, got %q", got.Department)
	}
	if !strings.Contains(rec.Body.String(), `"staff":[]`) {
		t.Errorf("expected empty staff list in body, got %s", rec.Body.String())
	}
}

func TestList_InvalidIsActive(t *testing.T) {
	router, tok := setup(t, &mockStaffService{}, model.RoleAdmin)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/staffs?isActive=maybe", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
}

func TestCreate_ForbiddenForCaretaker(t *testing.T) {
	router, tok := setup(t, &mockStaffService{}, model.RoleCaretaker)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/staffs", strings.NewReader(`{}`))
	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", rec.Code)
	}
}

func TestGet_DoesNotLeakSecrets(t *testing.T) {
	svc := &mockStaffService{
		getFunc: func(_ context.Context, key string) (*model.Staff, error) {
			record := &model.StaffRecord{ID: key, PasswordHash: "bcrypt-hash", RefreshTokenHash: "token-hash"}
			return record.View(), nil
		},
	}
	router, tok := setup(t, svc, model.RoleAdmin)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/staffs/65f1c0a2e4b0a1b2c3d4e5f6", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	body := rec.Body.String()
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if strings.Contains(body, "bcrypt-hash") || strings.Contains(body, "token-hash") || strings.Contains(body, "password") {
		t.Errorf("response leaks credentials: %s", body)
	}
}
