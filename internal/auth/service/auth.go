package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"zoo/internal/auth/validator"
	stafferrors "zoo/internal/staff/errors"
	"zoo/internal/staff/repository"
	"zoo/pkg/auth"
	"zoo/pkg/config"
	apperrors "zoo/pkg/errors"
	"zoo/pkg/events"
	"zoo/pkg/model"
	"zoo/pkg/sanitizer"
)

const invalidCredentials = "Invalid credentials"

// dummyPasswordHash is compared against on unknown emails so that every
// failed login pays the same bcrypt cost.
var dummyPasswordHash = sync.OnceValue(func() string {
	hash, err := auth.HashPassword("zoo-unknown-account")
	if err != nil {
		panic(err)
	}
	return hash
})

// Session is the result of a successful login or refresh. RefreshToken is
// delivered as a cookie and never appears in a response body.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         *model.Staff
}

type AuthService interface {
	Login(ctx context.Context, in *model.LoginRequest) (*Session, error)
	Refresh(ctx context.Context, refreshToken string) (*Session, error)
	Logout(ctx context.Context, refreshToken string) error
	Me(ctx context.Context, staffID string) (*model.Staff, error)
	SeedAdmin(ctx context.Context) error
}

type authService struct {
	repo      repository.StaffRepository
	tokens    *auth.TokenIssuer
	validator *validator.AuthValidator
	events    events.Publisher
	cfg       *config.Config
	now       func() time.Time

	checkPassword func(hash, password string) bool
}

func NewAuthService(
	repo repository.StaffRepository,
	tokens *auth.TokenIssuer,
	validator *validator.AuthValidator,
	publisher events.Publisher,
	cfg *config.Config,
) AuthService {
	return &authService{
		repo:      repo,
		tokens:    tokens,
		validator: validator,
		events:    publisher,
		cfg:       cfg,
		now:       time.Now,

		checkPassword: auth.CheckPassword,
	}
}

func (s *authService) Login(ctx context.Context, in *model.LoginRequest) (*Session, error) {
	in.Email = sanitizer.NormalizeEmail(in.Email)

	if err := s.validator.ValidateLogin(in); err != nil {
		return nil, err
	}

	record, err := s.repo.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, stafferrors.ErrNotFound) {
			s.checkPassword(dummyPasswordHash(), in.Password)
			s.cfg.Log.Warn("Login failed", "email", in.Email, "reason", "unknown email")
			return nil, apperrors.Unauthorized(invalidCredentials)
		}
		s.cfg.Log.Error("Failed to load staff for login", "email", in.Email, "error", err)
		return nil, apperrors.Internal("Failed to log in", err)
	}

	if !s.checkPassword(record.PasswordHash, in.Password) {
		s.cfg.Log.Warn("Login failed", "staff_id", record.ID, "reason", "wrong password")
		return nil, apperrors.Unauthorized(invalidCredentials)
	}
	if !record.IsActive {
		s.cfg.Log.Warn("Login failed", "staff_id", record.ID, "reason", "inactive account")
		return nil, apperrors.Unauthorized(invalidCredentials)
	}

	session, err := s.issue(record)
	if err != nil {
		return nil, err
	}

	at := s.now().UTC().Truncate(time.Millisecond)
	if err := s.repo.RecordLogin(ctx, record.ID, auth.HashToken(session.RefreshToken), at); err != nil {
		s.cfg.Log.Error("Failed to record login", "staff_id", record.ID, "error", err)
		return nil, apperrors.Internal("Failed to log in", err)
	}
	session.User.LastLoginAt = &at

	s.cfg.Log.Info("Staff logged in", "staff_id", record.ID, "role", record.Role)
	s.events.Publish(ctx, events.StaffLoggedIn, record.ID, map[string]string{"role": record.Role})
	return session, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	if refreshToken == "" {
		return nil, apperrors.Unauthorized("Refresh token required")
	}

	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		s.cfg.Log.Debug("Rejected refresh token", "error", err)
		return nil, apperrors.Unauthorized("Invalid or expired refresh token")
	}

	record, err := s.repo.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, stafferrors.ErrNotFound) || errors.Is(err, stafferrors.ErrInvalidID) {
			return nil, apperrors.Unauthorized("Invalid or expired refresh token")
		}
		s.cfg.Log.Error("Failed to load staff for refresh", "staff_id", claims.Subject, "error", err)
		return nil, apperrors.Internal("Failed to refresh session", err)
	}

	currentHash := auth.HashToken(refreshToken)
	if !record.IsActive || record.RefreshTokenHash != currentHash {
		s.cfg.Log.Warn("Refresh rejected", "staff_id", record.ID, "active", record.IsActive)
		return nil, apperrors.Unauthorized("Invalid or expired refresh token")
	}

	session, err := s.issue(record)
	if err != nil {
		return nil, err
	}

	if err := s.repo.RotateRefreshToken(ctx, record.ID, currentHash, auth.HashToken(session.RefreshToken)); err != nil {
		if errors.Is(err, stafferrors.ErrTokenMismatch) {
			s.cfg.Log.Warn("Refresh token already rotated", "staff_id", record.ID)
			return nil, apperrors.Unauthorized("Invalid or expired refresh token")
		}
		s.cfg.Log.Error("Failed to rotate refresh token", "staff_id", record.ID, "error", err)
		return nil, apperrors.Internal("Failed to refresh session", err)
	}

	s.cfg.Log.Debug("Session refreshed", "staff_id", record.ID)
	return session, nil
}

// Logout revokes the stored refresh token. An unreadable token has nothing to
// revoke and is not an error.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil
	}

	if err := s.repo.ClearRefreshToken(ctx, claims.Subject); err != nil {
		if errors.Is(err, stafferrors.ErrNotFound) || errors.Is(err, stafferrors.ErrInvalidID) {
			return nil
		}
		s.cfg.Log.Error("Failed to clear refresh token", "staff_id", claims.Subject, "error", err)
		return apperrors.Internal("Failed to log out", err)
	}

	s.cfg.Log.Info("Staff logged out", "staff_id", claims.Subject)
	return nil
}

func (s *authService) Me(ctx context.Context, staffID string) (*model.Staff, error) {
	record, err := s.repo.FindByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, stafferrors.ErrNotFound) || errors.Is(err, stafferrors.ErrInvalidID) {
			return nil, apperrors.Unauthorized("Account no longer exists")
		}
		return nil, apperrors.Internal("Failed to load profile", err)
	}
	return record.View(), nil
}

// SeedAdmin creates the default administrator when the store holds none and
// an admin password is configured.
func (s *authService) SeedAdmin(ctx context.Context) error {
	if s.cfg.AdminPassword == "" {
		s.cfg.Log.Debug("Admin seeding skipped: no admin password configured")
		return nil
	}

	exists, err := s.repo.HasAdmin(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	hash, err := auth.HashPassword(s.cfg.AdminPassword)
	if err != nil {
		return err
	}

	record := &model.StaffRecord{
		EmployeeID:   s.cfg.AdminEmployeeID,
		FirstName:    "System",
		LastName:     "Administrator",
		Email:        sanitizer.NormalizeEmail(s.cfg.AdminEmail),
		Phone:        "0000000000",
		Role:         model.RoleAdmin,
		Department:   model.DepartmentAdministration,
		IsActive:     true,
		HireDate:     s.now().UTC().Format(time.DateOnly),
		Permissions:  auth.DefaultPermissions(model.RoleAdmin),
		PasswordHash: hash,
		Shift: model.Shift{
			StartTime: "09:00",
			EndTime:   "17:00",
			WorkDays:  []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"},
		},
		EmergencyContact: model.EmergencyContact{
			Name:         "Not set",
			Phone:        "0000000000",
			Relationship: "Not set",
		},
	}

	if err := s.repo.Create(ctx, record); err != nil {
		if errors.Is(err, stafferrors.ErrDuplicate) {
			// Another instance seeded first.
			return nil
		}
		return err
	}

	s.cfg.Log.Info("Default admin created", "email", record.Email, "employee_id", record.EmployeeID)
	return nil
}

func (s *authService) issue(record *model.StaffRecord) (*Session, error) {
	access, err := s.tokens.IssueAccess(auth.Subject{
		StaffID:     record.ID,
		EmployeeID:  record.EmployeeID,
		Role:        record.Role,
		Permissions: record.Permissions,
	})
	if err != nil {
		s.cfg.Log.Error("Failed to sign access token", "staff_id", record.ID, "error", err)
		return nil, apperrors.Internal("Failed to issue tokens", err)
	}

	refresh, err := s.tokens.IssueRefresh(record.ID)
	if err != nil {
		s.cfg.Log.Error("Failed to sign refresh token", "staff_id", record.ID, "error", err)
		return nil, apperrors.Internal("Failed to issue tokens", err)
	}

	return &Session{AccessToken: access, RefreshToken: refresh, User: record.View()}, nil
}
