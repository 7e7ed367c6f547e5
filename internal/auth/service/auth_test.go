package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"zoo/internal/auth/validator"
	stafferrors "zoo/internal/staff/errors"
	"zoo/internal/staff/repository"
	"zoo/pkg/auth"
	"zoo/pkg/config"
	apperrors "zoo/pkg/errors"
	"zoo/pkg/events"
	"zoo/pkg/logger"
	"zoo/pkg/model"
)

const (
	staffID  = "65f1c0a2e4b0a1b2c3d4e5f6"
	password = "correct-horse-battery"
)

// memoryStaff keeps staff records by id and honours the refresh token
// compare-and-swap semantics of the real store.
type memoryStaff struct {
	mu      sync.Mutex
	records map[string]*model.StaffRecord
	created []*model.StaffRecord
}

func newMemoryStaff(records ...*model.StaffRecord) *memoryStaff {
	m := &memoryStaff{records: map[string]*model.StaffRecord{}}
	for _, r := range records {
		m.records[r.ID] = r
	}
	return m
}

func (m *memoryStaff) Create(_ context.Context, s *model.StaffRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.Email == s.Email {
			return stafferrors.ErrDuplicate
		}
	}
	s.ID = "new-admin"
	m.records[s.ID] = s
	m.created = append(m.created, s)
	return nil
}

func (m *memoryStaff) FindOne(ctx context.Context, key repository.Key) (*model.StaffRecord, error) {
	return m.FindByID(ctx, key.String())
}

func (m *memoryStaff) FindByID(_ context.Context, id string) (*model.StaffRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[id]
	if !ok {
		return nil, stafferrors.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memoryStaff) FindByEmail(_ context.Context, email string) (*model.StaffRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.Email == email {
			cp := *r
			return &cp, nil
		}
	}
	return nil, stafferrors.ErrNotFound
}

func (m *memoryStaff) Find(context.Context, model.StaffFilter, model.PageRequest) ([]*model.StaffRecord, error) {
	return nil, nil
}

func (m *memoryStaff) Count(context.Context, model.StaffFilter) (int64, error) {
	return int64(len(m.records)), nil
}

func (m *memoryStaff) Update(context.Context, repository.Key, *model.StaffUpdate) (*model.StaffRecord, error) {
	return nil, stafferrors.ErrNotFound
}

func (m *memoryStaff) Delete(context.Context, repository.Key) (*model.StaffRecord, error) {
	return nil, stafferrors.ErrNotFound
}

func (m *memoryStaff) RecordLogin(_ context.Context, id, hash string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[id]
	if !ok {
		return stafferrors.ErrNotFound
	}
	r.RefreshTokenHash = hash
	r.LastLoginAt = &at
	return nil
}

func (m *memoryStaff) RotateRefreshToken(_ context.Context, id, current, next string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[id]
	if !ok || r.RefreshTokenHash != current {
		return stafferrors.ErrTokenMismatch
	}
	r.RefreshTokenHash = next
	return nil
}

func (m *memoryStaff) ClearRefreshToken(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[id]
	if !ok {
		return stafferrors.ErrNotFound
	}
	r.RefreshTokenHash = ""
	return nil
}

func (m *memoryStaff) HasAdmin(context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.Role == model.RoleAdmin {
			return true, nil
		}
	}
	return false, nil
}

var (
	hashOnce     sync.Once
	passwordHash string
)

func hashed(t *testing.T) string {
	t.Helper()
	hashOnce.Do(func() {
		h, err := auth.HashPassword(password)
		require.NoError(t, err)
		passwordHash = h
	})
	return passwordHash
}

func newService(t *testing.T, repo *memoryStaff, cfg *config.Config) (AuthService, *auth.TokenIssuer) {
	t.Helper()
	log := logger.Discard()
	if cfg == nil {
		cfg = &config.Config{}
	}
	cfg.Log = log
	issuer := auth.NewTokenIssuer(
		"access-secret-access-secret-0123456789",
		"refresh-secret-refresh-secret-0123456789",
		time.Minute, time.Hour, "zoo-test",
	)
	return NewAuthService(repo, issuer, validator.NewAuthValidator(log), events.NewNoopPublisher(), cfg), issuer
}

func activeStaff(t *testing.T) *model.StaffRecord {
	return &model.StaffRecord{
		ID:           staffID,
		EmployeeID:   "EMP-7",
		Email:        "keeper@zoo.test",
		Role:         model.RoleCaretaker,
		IsActive:     true,
		Permissions:  auth.DefaultPermissions(model.RoleCaretaker),
		PasswordHash: hashed(t),
	}
}

func assertUnauthorized(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeUnauthorized, apperrors.AsAppError(err).Code)
}

func TestLogin(t *testing.T) {
	repo := newMemoryStaff(activeStaff(t))
	svc, issuer := newService(t, repo, nil)

	session, err := svc.Login(context.Background(), &model.LoginRequest{Email: "  Keeper@Zoo.TEST ", Password: password})
	require.NoError(t, err)

	claims, err := issuer.VerifyAccess(session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, staffID, claims.Subject)
	assert.Equal(t, model.RoleCaretaker, claims.Role)
	assert.Equal(t, "EMP-7", claims.EmployeeID)

	assert.Equal(t, auth.HashToken(session.RefreshToken), repo.records[staffID].RefreshTokenHash)
	assert.NotNil(t, session.User.LastLoginAt)
}

func TestLogin_FailuresLookAlike(t *testing.T) {
	inactive := activeStaff(t)
	inactive.ID = "inactive"
	inactive.Email = "gone@zoo.test"
	inactive.IsActive = false
	repo := newMemoryStaff(activeStaff(t), inactive)
	svc, _ := newService(t, repo, nil)

	tests := []struct {
		name  string
		email string
		pass  string
	}{
		{"unknown email", "nobody@zoo.test", password},
		{"wrong password", "keeper@zoo.test", "not-the-password"},
		{"inactive account", "gone@zoo.test", password},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), &model.LoginRequest{Email: tt.email, Password: tt.pass})
			assertUnauthorized(t, err)
			assert.Equal(t, "Invalid credentials", apperrors.AsAppError(err).Message)
		})
	}
}

func TestLogin_UnknownEmailPaysPasswordCost(t *testing.T) {
	repo := newMemoryStaff(activeStaff(t))
	svc, _ := newService(t, repo, nil)

	var checked []string
	impl := svc.(*authService)
	impl.checkPassword = func(hash, pw string) bool {
		checked = append(checked, hash)
		return auth.CheckPassword(hash, pw)
	}

	_, err := svc.Login(context.Background(), &model.LoginRequest{Email: "nobody@zoo.test", Password: password})
	assertUnauthorized(t, err)
	require.Len(t, checked, 1)

	dummyCost, err := bcrypt.Cost([]byte(checked[0]))
	require.NoError(t, err)
	realCost, err := bcrypt.Cost([]byte(hashed(t)))
	require.NoError(t, err)
	assert.Equal(t, realCost, dummyCost)
}

func TestLogin_Validation(t *testing.T) {
	svc, _ := newService(t, newMemoryStaff(), nil)

	_, err := svc.Login(context.Background(), &model.LoginRequest{Email: "not-an-email"})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidation, apperrors.AsAppError(err).Code)
}

func TestRefresh_RotatesOnce(t *testing.T) {
	repo := newMemoryStaff(activeStaff(t))
	svc, _ := newService(t, repo, nil)
	ctx := context.Background()

	first, err := svc.Login(ctx, &model.LoginRequest{Email: "keeper@zoo.test", Password: password})
	require.NoError(t, err)

	second, err := svc.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.Equal(t, auth.HashToken(second.RefreshToken), repo.records[staffID].RefreshTokenHash)

	_, err = svc.Refresh(ctx, first.RefreshToken)
	assertUnauthorized(t, err)

	_, err = svc.Refresh(ctx, second.RefreshToken)
	assert.NoError(t, err)
}

func TestRefresh_Rejects(t *testing.T) {
	repo := newMemoryStaff(activeStaff(t))
	svc, issuer := newService(t, repo, nil)
	ctx := context.Background()

	_, err := svc.Refresh(ctx, "")
	assertUnauthorized(t, err)

	_, err = svc.Refresh(ctx, "garbage")
	assertUnauthorized(t, err)

	access, err := issuer.IssueAccess(auth.Subject{StaffID: staffID})
	require.NoError(t, err)
	_, err = svc.Refresh(ctx, access)
	assertUnauthorized(t, err)

	session, err := svc.Login(ctx, &model.LoginRequest{Email: "keeper@zoo.test", Password: password})
	require.NoError(t, err)
	repo.records[staffID].IsActive = false
	_, err = svc.Refresh(ctx, session.RefreshToken)
	assertUnauthorized(t, err)
}

func TestLogout(t *testing.T) {
	repo := newMemoryStaff(activeStaff(t))
	svc, _ := newService(t, repo, nil)
	ctx := context.Background()

	session, err := svc.Login(ctx, &model.LoginRequest{Email: "keeper@zoo.test", Password: password})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, session.RefreshToken))
	assert.Empty(t, repo.records[staffID].RefreshTokenHash)

	_, err = svc.Refresh(ctx, session.RefreshToken)
	assertUnauthorized(t, err)

	assert.NoError(t, svc.Logout(ctx, ""))
	assert.NoError(t, svc.Logout(ctx, "garbage"))
}

func TestMe(t *testing.T) {
	svc, _ := newService(t, newMemoryStaff(activeStaff(t)), nil)

	me, err := svc.Me(context.Background(), staffID)
	require.NoError(t, err)
	assert.Equal(t, "keeper@zoo.test", me.Email)

	_, err = svc.Me(context.Background(), "missing")
	assertUnauthorized(t, err)
}

func TestSeedAdmin(t *testing.T) {
	t.Run("skipped without password", func(t *testing.T) {
		repo := newMemoryStaff()
		svc, _ := newService(t, repo, &config.Config{})
		require.NoError(t, svc.SeedAdmin(context.Background()))
		assert.Empty(t, repo.created)
	})

	t.Run("creates admin once", func(t *testing.T) {
		repo := newMemoryStaff()
		svc, _ := newService(t, repo, &config.Config{
			AdminEmail:      "Admin@Zoo.Local",
			AdminPassword:   "bootstrap-password",
			AdminEmployeeID: "ADMIN-001",
		})
		ctx := context.Background()

		require.NoError(t, svc.SeedAdmin(ctx))
		require.NoError(t, svc.SeedAdmin(ctx))
		require.Len(t, repo.created, 1)

		admin := repo.created[0]
		assert.Equal(t, model.RoleAdmin, admin.Role)
		assert.Equal(t, "admin@zoo.local", admin.Email)
		assert.True(t, auth.CheckPassword(admin.PasswordHash, "bootstrap-password"))
		assert.ElementsMatch(t, auth.AllPermissions(), admin.Permissions)
	})
}
