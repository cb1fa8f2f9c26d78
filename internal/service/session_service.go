package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/darisadam/bankist-server/internal/domain/account"
	"github.com/darisadam/bankist-server/internal/domain/audit"
	"github.com/darisadam/bankist-server/internal/domain/session"
	"github.com/darisadam/bankist-server/internal/pkg/crypto"
	"github.com/darisadam/bankist-server/internal/pkg/jwt"
	"github.com/darisadam/bankist-server/internal/pkg/logger"
	"github.com/darisadam/bankist-server/internal/pkg/metrics"
	"github.com/darisadam/bankist-server/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SessionService interface {
	Login(ctx context.Context, req *session.LoginRequest) (*session.LoginResponse, error)
	Logout(ctx context.Context, sessionID uuid.UUID) error
	ValidateSession(ctx context.Context, sessionID uuid.UUID) (*session.Session, error)
}

type sessionService struct {
	accountRepo repository.AccountRepository
	sessionRepo repository.SessionRepository
	auditRepo   repository.AuditRepository
	jwtService  *jwt.JWTService
}

func NewSessionService(
	accountRepo repository.AccountRepository,
	sessionRepo repository.SessionRepository,
	auditRepo repository.AuditRepository,
	jwtService *jwt.JWTService,
) SessionService {
	return &sessionService{
		accountRepo: accountRepo,
		sessionRepo: sessionRepo,
		auditRepo:   auditRepo,
		jwtService:  jwtService,
	}
}

// Login opens a session on the first account whose username matches exactly
// and whose pin equals the normalised input.
func (s *sessionService) Login(ctx context.Context, req *session.LoginRequest) (*session.LoginResponse, error) {
	acc, err := s.accountRepo.GetByUsername(req.Username)
	if err != nil {
		metrics.RecordAuthAttempt(false)
		recordAudit(ctx, s.auditRepo, audit.New(nil, audit.ActionLogin, "", audit.StatusFailed, map[string]interface{}{
			"username": req.Username,
			"reason":   "unknown username",
		}))
		return nil, ErrInvalidCredentials
	}

	if !crypto.CheckPin(string(req.Pin), acc.PinHash) {
		metrics.RecordAuthAttempt(false)
		recordAudit(ctx, s.auditRepo, audit.New(&acc.ID, audit.ActionLogin, audit.AccountResource(acc.ID), audit.StatusFailed, map[string]interface{}{
			"username": req.Username,
			"reason":   "pin mismatch",
		}))
		return nil, ErrInvalidCredentials
	}

	sessionID := uuid.New()
	token, expiresAt, err := s.jwtService.GenerateToken(sessionID, acc.ID, acc.Username)
	if err != nil {
		metrics.RecordAuthAttempt(false)
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	sess := &session.Session{
		ID:        sessionID,
		AccountID: acc.ID,
		Username:  acc.Username,
		CreatedAt: time.Now(),
		ExpiresAt: expiresAt,
	}
	if err := s.sessionRepo.Create(ctx, sess); err != nil {
		metrics.RecordAuthAttempt(false)
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	metrics.RecordAuthAttempt(true)
	recordAudit(ctx, s.auditRepo, audit.New(&acc.ID, audit.ActionLogin, audit.AccountResource(acc.ID), audit.StatusSuccess, map[string]interface{}{
		"session_id": sessionID.String(),
	}))

	logger.Info("User logged in",
		zap.String("username", acc.Username),
		zap.String("session_id", sessionID.String()),
	)

	return &session.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Greeting:  fmt.Sprintf("Welcome back, %s", acc.FirstName()),
		Account:   account.NewAccountResponse(acc, sess.Sorted),
	}, nil
}

func (s *sessionService) Logout(ctx context.Context, sessionID uuid.UUID) error {
	sess, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("failed to load session: %w", err)
	}

	if err := s.sessionRepo.Delete(ctx, sessionID); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("failed to delete session: %w", err)
	}

	metrics.RecordSessionEnded("logout")
	recordAudit(ctx, s.auditRepo, audit.New(&sess.AccountID, audit.ActionLogout, audit.AccountResource(sess.AccountID), audit.StatusSuccess, map[string]interface{}{
		"session_id": sessionID.String(),
	}))
	return nil
}

// ValidateSession returns the live session. A session whose account has been
// closed is removed and reported as missing.
func (s *sessionService) ValidateSession(ctx context.Context, sessionID uuid.UUID) (*session.Session, error) {
	sess, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if _, err := s.accountRepo.GetByID(sess.AccountID); err != nil {
		if err := s.sessionRepo.Delete(ctx, sessionID); err != nil && !errors.Is(err, repository.ErrSessionNotFound) {
			logger.Warn("failed to end session of closed account",
				zap.String("session_id", sessionID.String()),
				zap.Error(err),
			)
		}
		return nil, ErrSessionNotFound
	}

	return sess, nil
}
