package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/KiramZodiac/sdms-mobile-shopfront-sub000/internal/domain"
	"github.com/KiramZodiac/sdms-mobile-shopfront-sub000/internal/storage"
	apperrors "github.com/KiramZodiac/sdms-mobile-shopfront-sub000/pkg/errors"
)

// SessionService manages the admin panel session and the remembered
// login email. Sessions expire after 24 hours of inactivity.
type SessionService struct {
	store  storage.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewSessionService creates a session service.
func NewSessionService(store storage.Store, logger *slog.Logger) *SessionService {
	return &SessionService{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Start opens an admin session for the given email.
func (s *SessionService) Start(ctx context.Context, email string, autoLogin bool) (*domain.AdminSession, error) {
	if email == "" {
		return nil, apperrors.InvalidInput("email is required")
	}

	session := &domain.AdminSession{
		Email:        email,
		AutoLogin:    autoLogin,
		LastActivity: s.now().UTC(),
	}
	s.store.Save(ctx, storage.KeyAdminSession, session)

	s.logger.InfoContext(ctx, "admin session started", slog.String("email", email))
	return session, nil
}

// Current returns the active session, or nil if none exists or the last
// one expired. Expired sessions are deleted on sight.
func (s *SessionService) Current(ctx context.Context) *domain.AdminSession {
	var session domain.AdminSession
	if !s.store.Load(ctx, storage.KeyAdminSession, &session) {
		return nil
	}
	if session.Expired(s.now()) {
		s.store.Delete(ctx, storage.KeyAdminSession)
		s.logger.InfoContext(ctx, "admin session expired", slog.String("email", session.Email))
		return nil
	}
	return &session
}

// Touch refreshes the session's last-activity timestamp. Touching a
// missing or expired session is a no-op returning nil.
func (s *SessionService) Touch(ctx context.Context) *domain.AdminSession {
	session := s.Current(ctx)
	if session == nil {
		return nil
	}
	session.LastActivity = s.now().UTC()
	s.store.Save(ctx, storage.KeyAdminSession, session)
	return session
}

// End closes the current session.
func (s *SessionService) End(ctx context.Context) {
	s.store.Delete(ctx, storage.KeyAdminSession)
	s.logger.InfoContext(ctx, "admin session ended")
}

// RememberEmail stores the login email for prefilling the next login.
func (s *SessionService) RememberEmail(ctx context.Context, email string) error {
	if email == "" {
		return apperrors.InvalidInput("email is required")
	}
	s.store.Save(ctx, storage.KeyRememberedEmail, email)
	return nil
}

// RememberedEmail returns the stored login email, empty if none.
func (s *SessionService) RememberedEmail(ctx context.Context) string {
	var email string
	s.store.Load(ctx, storage.KeyRememberedEmail, &email)
	return email
}

// ForgetEmail removes the stored login email.
func (s *SessionService) ForgetEmail(ctx context.Context) {
	s.store.Delete(ctx, storage.KeyRememberedEmail)
}
