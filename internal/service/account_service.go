package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/darisadam/bankist-server/internal/domain/account"
	"github.com/darisadam/bankist-server/internal/domain/audit"
	"github.com/darisadam/bankist-server/internal/domain/session"
	"github.com/darisadam/bankist-server/internal/pkg/crypto"
	"github.com/darisadam/bankist-server/internal/pkg/logger"
	"github.com/darisadam/bankist-server/internal/pkg/metrics"
	"github.com/darisadam/bankist-server/internal/repository"
	"github.com/darisadam/bankist-server/internal/seed"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AccountService interface {
	Initialize(accounts []seed.Account) error
	GetAccountView(sess *session.Session) (*account.AccountResponse, error)
	GetBalance(accountID uuid.UUID) (*account.BalanceResponse, error)
	GetSummary(accountID uuid.UUID) (*account.Summary, error)
	ListMovements(accountID uuid.UUID, sorted bool) (*account.MovementsResponse, error)
	ToggleSort(ctx context.Context, sess *session.Session) (*account.MovementsResponse, error)
	CloseAccount(ctx context.Context, sess *session.Session, req *account.CloseAccountRequest) error
	GetBankStats() account.BankStats
}

type accountService struct {
	accountRepo repository.AccountRepository
	sessionRepo repository.SessionRepository
	auditRepo   repository.AuditRepository
}

func NewAccountService(
	accountRepo repository.AccountRepository,
	sessionRepo repository.SessionRepository,
	auditRepo repository.AuditRepository,
) AccountService {
	return &accountService{
		accountRepo: accountRepo,
		sessionRepo: sessionRepo,
		auditRepo:   auditRepo,
	}
}

// Initialize loads the seed accounts in order, deriving usernames and hashing
// pins. It stops at the first account that cannot be stored.
func (s *accountService) Initialize(accounts []seed.Account) error {
	for i, sa := range accounts {
		username := account.DeriveUsername(sa.Owner)
		if username == "" {
			return fmt.Errorf("%w: account %d has no username", ErrInvalidSeed, i)
		}

		pinHash, err := crypto.HashPin(sa.Pin)
		if err != nil {
			return fmt.Errorf("failed to hash pin for %s: %w", username, err)
		}

		acc := &account.Account{
			ID:           uuid.New(),
			Owner:        sa.Owner,
			Username:     username,
			Movements:    append([]float64(nil), sa.Movements...),
			InterestRate: sa.InterestRate,
			PinHash:      pinHash,
			CreatedAt:    time.Now(),
		}

		if err := s.accountRepo.Create(acc); err != nil {
			if errors.Is(err, repository.ErrDuplicateUsername) {
				return fmt.Errorf("%w: %v", ErrInvalidSeed, err)
			}
			return fmt.Errorf("failed to create account: %w", err)
		}
	}

	count := s.accountRepo.Count()
	metrics.SetAccountCount(count)
	logger.Info("Ledger initialized", zap.Int("accounts", count))
	return nil
}

func (s *accountService) GetAccountView(sess *session.Session) (*account.AccountResponse, error) {
	acc, err := s.accountRepo.GetByID(sess.AccountID)
	if err != nil {
		return nil, err
	}
	return account.NewAccountResponse(acc, sess.Sorted), nil
}

func (s *accountService) GetBalance(accountID uuid.UUID) (*account.BalanceResponse, error) {
	acc, err := s.accountRepo.GetByID(accountID)
	if err != nil {
		return nil, err
	}

	return &account.BalanceResponse{
		AccountID: acc.ID,
		Username:  acc.Username,
		Balance:   acc.Balance(),
		AsOfDate:  time.Now(),
	}, nil
}

func (s *accountService) GetSummary(accountID uuid.UUID) (*account.Summary, error) {
	acc, err := s.accountRepo.GetByID(accountID)
	if err != nil {
		return nil, err
	}
	summary := acc.Summary()
	return &summary, nil
}

func (s *accountService) ListMovements(accountID uuid.UUID, sorted bool) (*account.MovementsResponse, error) {
	acc, err := s.accountRepo.GetByID(accountID)
	if err != nil {
		return nil, err
	}

	movements := acc.ListMovements(sorted)
	return &account.MovementsResponse{
		Sorted:    sorted,
		Movements: movements,
		Total:     len(movements),
	}, nil
}

// ToggleSort flips the session's sort mode and returns the list in the new mode.
func (s *accountService) ToggleSort(ctx context.Context, sess *session.Session) (*account.MovementsResponse, error) {
	next := *sess
	next.Sorted = !sess.Sorted

	resp, err := s.ListMovements(next.AccountID, next.Sorted)
	if err != nil {
		return nil, err
	}

	if err := s.sessionRepo.Update(ctx, &next); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	sess.Sorted = next.Sorted
	return resp, nil
}

// CloseAccount removes the session's account after the owner confirms with
// username and pin, then ends every session bound to it.
func (s *accountService) CloseAccount(ctx context.Context, sess *session.Session, req *account.CloseAccountRequest) error {
	acc, err := s.accountRepo.GetByID(sess.AccountID)
	if err != nil {
		return err
	}

	if req.Username != acc.Username || !crypto.CheckPin(string(req.Pin), acc.PinHash) {
		recordAudit(ctx, s.auditRepo, audit.New(&acc.ID, audit.ActionCloseAccount, audit.AccountResource(acc.ID), audit.StatusFailed, map[string]interface{}{
			"username": strings.TrimSpace(req.Username),
		}))
		return ErrInvalidCredentials
	}

	if err := s.accountRepo.Delete(acc.ID); err != nil {
		return fmt.Errorf("failed to close account: %w", err)
	}

	if err := s.sessionRepo.DeleteByAccountID(ctx, acc.ID); err != nil {
		logger.Warn("failed to end sessions of closed account",
			zap.String("account_id", acc.ID.String()),
			zap.Error(err),
		)
	}

	metrics.RecordAccountClosed()
	metrics.RecordSessionEnded("close")
	metrics.SetAccountCount(s.accountRepo.Count())

	recordAudit(ctx, s.auditRepo, audit.New(&acc.ID, audit.ActionCloseAccount, audit.AccountResource(acc.ID), audit.StatusSuccess, map[string]interface{}{
		"username": acc.Username,
	}))

	logger.Info("Account closed", zap.String("username", acc.Username))
	return nil
}

func (s *accountService) GetBankStats() account.BankStats {
	return account.ComputeBankStats(s.accountRepo.List())
}
