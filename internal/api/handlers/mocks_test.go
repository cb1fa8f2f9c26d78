package handlers

import (
	"context"

	"github.com/darisadam/bankist-server/internal/domain/account"
	"github.com/darisadam/bankist-server/internal/domain/session"
	"github.com/darisadam/bankist-server/internal/domain/transaction"
	"github.com/darisadam/bankist-server/internal/seed"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockAccountService is a mock implementation of service.AccountService
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) Initialize(accounts []seed.Account) error {
	args := m.Called(accounts)
	return args.Error(0)
}

func (m *MockAccountService) GetAccountView(sess *session.Session) (*account.AccountResponse, error) {
	args := m.Called(sess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.AccountResponse), args.Error(1)
}

func (m *MockAccountService) GetBalance(accountID uuid.UUID) (*account.BalanceResponse, error) {
	args := m.Called(accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.BalanceResponse), args.Error(1)
}

func (m *MockAccountService) GetSummary(accountID uuid.UUID) (*account.Summary, error) {
	args := m.Called(accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Summary), args.Error(1)
}

func (m *MockAccountService) ListMovements(accountID uuid.UUID, sorted bool) (*account.MovementsResponse, error) {
	args := m.Called(accountID, sorted)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.MovementsResponse), args.Error(1)
}

func (m *MockAccountService) ToggleSort(ctx context.Context, sess *session.Session) (*account.MovementsResponse, error) {
	args := m.Called(ctx, sess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.MovementsResponse), args.Error(1)
}

func (m *MockAccountService) CloseAccount(ctx context.Context, sess *session.Session, req *account.CloseAccountRequest) error {
	args := m.Called(ctx, sess, req)
	return args.Error(0)
}

func (m *MockAccountService) GetBankStats() account.BankStats {
	args := m.Called()
	return args.Get(0).(account.BankStats)
}

// MockSessionService is a mock implementation of service.SessionService
type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) Login(ctx context.Context, req *session.LoginRequest) (*session.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.LoginResponse), args.Error(1)
}

func (m *MockSessionService) Logout(ctx context.Context, sessionID uuid.UUID) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockSessionService) ValidateSession(ctx context.Context, sessionID uuid.UUID) (*session.Session, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Session), args.Error(1)
}

// MockTransactionService is a mock implementation of service.TransactionService
type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) Transfer(ctx context.Context, sess *session.Session, req *transaction.TransferRequest) (*transaction.TransactionResponse, error) {
	args := m.Called(ctx, sess, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.TransactionResponse), args.Error(1)
}

func (m *MockTransactionService) RequestLoan(ctx context.Context, sess *session.Session, req *transaction.LoanRequest) (*transaction.TransactionResponse, error) {
	args := m.Called(ctx, sess, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.TransactionResponse), args.Error(1)
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// withSession stands in for the auth middleware.
func withSession(sess *session.Session, handler gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("session", sess)
		c.Set("session_id", sess.ID)
		c.Set("account_id", sess.AccountID)
		handler(c)
	}
}

func newSession() *session.Session {
	return &session.Session{ID: uuid.New(), AccountID: uuid.New(), Username: "js"}
}
