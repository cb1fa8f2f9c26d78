package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/darisadam/bankist-server/internal/domain/account"
	"github.com/darisadam/bankist-server/internal/domain/audit"
	"github.com/darisadam/bankist-server/internal/domain/session"
	"github.com/darisadam/bankist-server/internal/domain/transaction"
	"github.com/darisadam/bankist-server/internal/pkg/logger"
	"github.com/darisadam/bankist-server/internal/pkg/metrics"
	"github.com/darisadam/bankist-server/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TransactionService interface {
	Transfer(ctx context.Context, sess *session.Session, req *transaction.TransferRequest) (*transaction.TransactionResponse, error)
	RequestLoan(ctx context.Context, sess *session.Session, req *transaction.LoanRequest) (*transaction.TransactionResponse, error)
}

type transactionService struct {
	accountRepo repository.AccountRepository
	auditRepo   repository.AuditRepository
}

func NewTransactionService(
	accountRepo repository.AccountRepository,
	auditRepo repository.AuditRepository,
) TransactionService {
	return &transactionService{
		accountRepo: accountRepo,
		auditRepo:   auditRepo,
	}
}

// Transfer moves amount from the session's account to the account named by
// req.ToUsername. Either both movements are posted or neither is.
func (s *transactionService) Transfer(ctx context.Context, sess *session.Session, req *transaction.TransferRequest) (*transaction.TransactionResponse, error) {
	txnType := string(transaction.TransactionTypeTransfer)
	amount := req.Amount.Float64()

	if !(amount > 0) {
		metrics.RecordTransactionError(txnType, "invalid_amount")
		return nil, ErrInvalidAmount
	}

	receiver, err := s.accountRepo.GetByUsername(req.ToUsername)
	if err != nil {
		metrics.RecordTransactionError(txnType, "receiver_not_found")
		s.auditFailure(ctx, sess.AccountID, audit.ActionTransfer, amount, ErrReceiverNotFound, req.ToUsername)
		return nil, ErrReceiverNotFound
	}

	if receiver.ID == sess.AccountID {
		metrics.RecordTransactionError(txnType, "self_transfer")
		s.auditFailure(ctx, sess.AccountID, audit.ActionTransfer, amount, ErrSelfTransfer, req.ToUsername)
		return nil, ErrSelfTransfer
	}

	sender, err := s.accountRepo.ExecuteTransfer(sess.AccountID, receiver.ID, amount)
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientFunds) {
			err = ErrInsufficientFunds
			metrics.RecordTransactionError(txnType, "insufficient_funds")
		} else {
			metrics.RecordTransactionError(txnType, "ledger_error")
		}
		s.auditFailure(ctx, sess.AccountID, audit.ActionTransfer, amount, err, req.ToUsername)
		return nil, err
	}

	fromID := sender.ID
	txn := &transaction.Transaction{
		ID:              uuid.New(),
		TransactionType: transaction.TransactionTypeTransfer,
		FromAccountID:   &fromID,
		ToAccountID:     receiver.ID,
		ToUsername:      receiver.Username,
		Amount:          amount,
		CreatedAt:       time.Now(),
	}

	metrics.RecordTransaction(txnType, amount)
	recordAudit(ctx, s.auditRepo, audit.New(&fromID, audit.ActionTransfer, audit.TransactionResource(txn.ID), audit.StatusSuccess, map[string]interface{}{
		"transaction_id": txn.ID.String(),
		"amount":         amount,
		"to":             receiver.Username,
	}))

	logger.Info("Transfer posted",
		zap.String("from", sender.Username),
		zap.String("to", receiver.Username),
		zap.Float64("amount", amount),
	)

	return &transaction.TransactionResponse{
		Transaction: txn,
		Account:     account.NewAccountResponse(sender, sess.Sorted),
	}, nil
}

// RequestLoan deposits amount when some earlier movement is at least a tenth
// of it.
func (s *transactionService) RequestLoan(ctx context.Context, sess *session.Session, req *transaction.LoanRequest) (*transaction.TransactionResponse, error) {
	txnType := string(transaction.TransactionTypeLoan)
	amount := req.Amount.Float64()

	if !(amount > 0) {
		metrics.RecordTransactionError(txnType, "invalid_amount")
		return nil, ErrInvalidAmount
	}

	acc, err := s.accountRepo.ExecuteLoan(sess.AccountID, amount)
	if err != nil {
		if errors.Is(err, repository.ErrLoanNotCovered) {
			err = ErrLoanDenied
			metrics.RecordTransactionError(txnType, "not_covered")
		} else {
			metrics.RecordTransactionError(txnType, "ledger_error")
		}
		s.auditFailure(ctx, sess.AccountID, audit.ActionLoan, amount, err, "")
		return nil, err
	}

	txn := &transaction.Transaction{
		ID:              uuid.New(),
		TransactionType: transaction.TransactionTypeLoan,
		ToAccountID:     acc.ID,
		Amount:          amount,
		CreatedAt:       time.Now(),
	}

	metrics.RecordTransaction(txnType, amount)
	recordAudit(ctx, s.auditRepo, audit.New(&acc.ID, audit.ActionLoan, audit.TransactionResource(txn.ID), audit.StatusSuccess, map[string]interface{}{
		"transaction_id": txn.ID.String(),
		"amount":         amount,
	}))

	logger.Info("Loan granted", zap.String("username", acc.Username), zap.Float64("amount", amount))

	return &transaction.TransactionResponse{
		Transaction: txn,
		Account:     account.NewAccountResponse(acc, sess.Sorted),
	}, nil
}

func (s *transactionService) auditFailure(ctx context.Context, accountID uuid.UUID, action string, amount float64, cause error, to string) {
	metadata := map[string]interface{}{
		"error":  cause.Error(),
		"amount": amount,
	}
	if to != "" {
		metadata["to"] = to
	}
	recordAudit(ctx, s.auditRepo, audit.New(&accountID, action, audit.AccountResource(accountID), audit.StatusFailed, metadata))
	logger.Debug(fmt.Sprintf("%s rejected", action), zap.Error(cause))
}
