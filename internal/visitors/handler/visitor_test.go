package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zoo/pkg/auth"
	apperrors "zoo/pkg/errors"
	"zoo/pkg/logger"
	"zoo/pkg/middleware"
	"zoo/pkg/model"
)

type mockVisitorService struct {
	createFunc func(ctx context.Context, in *model.VisitorCreate) (*model.Visitor, error)
	listFunc   func(ctx context.Context, f model.VisitorFilter, s model.Sort, p model.PageRequest) (*model.Page[*model.Visitor], error)
	updateFunc func(ctx context.Context, id string, in *model.VisitorUpdate) (*model.Visitor, error)
	visitFunc  func(ctx context.Context, id string) (*model.Visitor, error)
}

func (m *mockVisitorService) Create(ctx context.Context, in *model.VisitorCreate) (*model.Visitor, error) {
	return m.createFunc(ctx, in)
}

func (m *mockVisitorService) GetByID(_ context.Context, id string) (*model.Visitor, error) {
	return &model.Visitor{ID: id}, nil
}

func (m *mockVisitorService) List(ctx context.Context, f model.VisitorFilter, s model.Sort, p model.PageRequest) (*model.Page[*model.Visitor], error) {
	return m.listFunc(ctx, f, s, p)
}

func (m *mockVisitorService) Update(ctx context.Context, id string, in *model.VisitorUpdate) (*model.Visitor, error) {
	return m.updateFunc(ctx, id, in)
}

func (m *mockVisitorService) Delete(context.Context, string) error {
	return nil
}

func (m *mockVisitorService) RecordVisit(ctx context.Context, id string) (*model.Visitor, error) {
	return m.visitFunc(ctx, id)
}

func serve(t *testing.T, svc *mockVisitorService, role, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	log := logger.Discard()
	issuer := auth.NewTokenIssuer(
		"access-secret-access-secret-0123456789",
		"refresh-secret-refresh-secret-0123456789",
		time.Minute, time.Hour, "zoo-test",
	)
	router := httprouter.New()
	NewVisitorHandler(svc, log).RegisterRoutes(router, middleware.NewGuard(issuer, log))

	tok, err := issuer.IssueAccess(auth.Subject{StaffID: "s1", Role: role, Permissions: auth.DefaultPermissions(role)})
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+tok)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreate_IgnoresServerOwnedFields(t *testing.T) {
	var got *model.VisitorCreate
	svc := &mockVisitorService{
		createFunc: func(_ context.Context, in *model.VisitorCreate) (*model.Visitor, error) {
			got = in
			return in.ToVisitor(), nil
		},
	}

	rec := serve(t, svc, model.RoleReceptionist, http.MethodPost, "/api/v1/visitors",
		`{"name":"Meera","age":30,"email":"m@example.com","ageGroup":"Child","totalVisits":99}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		Data model.Visitor `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, model.AgeGroupAdult, body.Data.AgeGroup)
	assert.Zero(t, body.Data.TotalVisits)
	assert.Equal(t, 30, *got.Age)
}

func TestList_SortDefaults(t *testing.T) {
	var gotSort model.Sort
	var gotFilter model.VisitorFilter
	svc := &mockVisitorService{
		listFunc: func(_ context.Context, f model.VisitorFilter, s model.Sort, p model.PageRequest) (*model.Page[*model.Visitor], error) {
			gotSort, gotFilter = s, f
			return model.NewPage("visitors", []*model.Visitor{}, 0, p), nil
		},
	}

	rec := serve(t, svc, model.RoleVolunteer, http.MethodGet, "/api/v1/visitors?ageGroup=Child", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.Sort{Field: "createdAt", Desc: true}, gotSort)
	assert.Equal(t, model.AgeGroupChild, gotFilter.AgeGroup)

	rec = serve(t, svc, model.RoleVolunteer, http.MethodGet, "/api/v1/visitors?sortBy=totalVisits&order=asc", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.Sort{Field: "totalVisits", Desc: false}, gotSort)

	rec = serve(t, svc, model.RoleVolunteer, http.MethodGet, "/api/v1/visitors?order=ASC", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, gotSort.Desc)
	assert.Equal(t, model.SortAsc, gotFilter.Order)
}

func TestUpdate_UsesPatch(t *testing.T) {
	svc := &mockVisitorService{
		updateFunc: func(_ context.Context, id string, in *model.VisitorUpdate) (*model.Visitor, error) {
			return &model.Visitor{ID: id, Age: *in.Age}, nil
		},
	}

	rec := serve(t, svc, model.RoleReceptionist, http.MethodPatch, "/api/v1/visitors/65f1c0a2e4b0a1b2c3d4e5f6", `{"age":12}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(t, svc, model.RoleReceptionist, http.MethodPut, "/api/v1/visitors/65f1c0a2e4b0a1b2c3d4e5f6", `{"age":12}`)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRecordVisit_NotFound(t *testing.T) {
	svc := &mockVisitorService{
		visitFunc: func(_ context.Context, id string) (*model.Visitor, error) {
			return nil, apperrors.NotFoundWithID("Visitor", id)
		},
	}

	rec := serve(t, svc, model.RoleReceptionist, http.MethodPost, "/api/v1/visitors/65f1c0a2e4b0a1b2c3d4e5f6/visits", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDelete_RequiresPermission(t *testing.T) {
	rec := serve(t, &mockVisitorService{}, model.RoleReceptionist, http.MethodDelete, "/api/v1/visitors/65f1c0a2e4b0a1b2c3d4e5f6", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
