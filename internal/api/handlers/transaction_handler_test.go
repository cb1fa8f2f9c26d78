package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/darisadam/bankist-server/internal/domain/account"
	"github.com/darisadam/bankist-server/internal/domain/transaction"
	"github.com/darisadam/bankist-server/internal/repository"
	"github.com/darisadam/bankist-server/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// ==================== Transfer Tests ====================

func TestTransactionHandler_Transfer_Success(t *testing.T) {
	mockService := new(MockTransactionService)
	handler := NewTransactionHandler(mockService)
	sess := newSession()

	router := setupRouter()
	router.POST("/transactions/transfer", withSession(sess, handler.Transfer))

	mockService.On("Transfer", mock.Anything, sess, mock.MatchedBy(func(req *transaction.TransferRequest) bool {
		return req.ToUsername == "jd" && req.Amount == 100
	})).Return(&transaction.TransactionResponse{
		Transaction: &transaction.Transaction{
			ID:              uuid.New(),
			TransactionType: transaction.TransactionTypeTransfer,
			Amount:          100,
		},
		Account: &account.AccountResponse{Balance: 3740},
	}, nil)

	req, _ := http.NewRequest("POST", "/transactions/transfer", bytes.NewBufferString(`{"to_username":"jd","amount":100}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"balance":3740`)
	mockService.AssertExpectations(t)
}

func TestTransactionHandler_Transfer_StringAmount(t *testing.T) {
	mockService := new(MockTransactionService)
	handler := NewTransactionHandler(mockService)
	sess := newSession()

	router := setupRouter()
	router.POST("/transactions/transfer", withSession(sess, handler.Transfer))

	mockService.On("Transfer", mock.Anything, sess, mock.MatchedBy(func(req *transaction.TransferRequest) bool {
		return req.ToUsername == "jd" && req.Amount.Float64() == 100
	})).Return(&transaction.TransactionResponse{
		Transaction: &transaction.Transaction{TransactionType: transaction.TransactionTypeTransfer, Amount: 100},
		Account:     &account.AccountResponse{Balance: 3740},
	}, nil)

	req, _ := http.NewRequest("POST", "/transactions/transfer", bytes.NewBufferString(`{"to_username":"jd","amount":"100"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockService.AssertExpectations(t)
}

func TestTransactionHandler_Transfer_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"invalid amount", service.ErrInvalidAmount, http.StatusBadRequest},
		{"self transfer", service.ErrSelfTransfer, http.StatusBadRequest},
		{"receiver not found", service.ErrReceiverNotFound, http.StatusNotFound},
		{"insufficient funds", service.ErrInsufficientFunds, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockTransactionService)
			handler := NewTransactionHandler(mockService)
			sess := newSession()

			router := setupRouter()
			router.POST("/transactions/transfer", withSession(sess, handler.Transfer))

			mockService.On("Transfer", mock.Anything, sess, mock.Anything).Return(nil, tt.err)

			req, _ := http.NewRequest("POST", "/transactions/transfer", bytes.NewBufferString(`{"to_username":"jd","amount":100}`))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.err.Error())
		})
	}
}

func TestTransactionHandler_Transfer_MissingReceiver(t *testing.T) {
	mockService := new(MockTransactionService)
	handler := NewTransactionHandler(mockService)
	sess := newSession()

	router := setupRouter()
	router.POST("/transactions/transfer", withSession(sess, handler.Transfer))

	req, _ := http.NewRequest("POST", "/transactions/transfer", bytes.NewBufferString(`{"amount":100}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything, mock.Anything)
}

// ==================== Loan Tests ====================

func TestTransactionHandler_RequestLoan_Success(t *testing.T) {
	mockService := new(MockTransactionService)
	handler := NewTransactionHandler(mockService)
	sess := newSession()

	router := setupRouter()
	router.POST("/transactions/loan", withSession(sess, handler.RequestLoan))

	mockService.On("RequestLoan", mock.Anything, sess, &transaction.LoanRequest{Amount: 2000}).Return(&transaction.TransactionResponse{
		Transaction: &transaction.Transaction{TransactionType: transaction.TransactionTypeLoan, Amount: 2000},
		Account:     &account.AccountResponse{Balance: 5840},
	}, nil)

	req, _ := http.NewRequest("POST", "/transactions/loan", bytes.NewBufferString(`{"amount":2000}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockService.AssertExpectations(t)
}

func TestTransactionHandler_RequestLoan_Denied(t *testing.T) {
	mockService := new(MockTransactionService)
	handler := NewTransactionHandler(mockService)
	sess := newSession()

	router := setupRouter()
	router.POST("/transactions/loan", withSession(sess, handler.RequestLoan))

	mockService.On("RequestLoan", mock.Anything, sess, mock.Anything).Return(nil, service.ErrLoanDenied)

	req, _ := http.NewRequest("POST", "/transactions/loan", bytes.NewBufferString(`{"amount":99999}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestTransactionHandler_RequestLoan_StringAmount(t *testing.T) {
	mockService := new(MockTransactionService)
	handler := NewTransactionHandler(mockService)
	sess := newSession()

	router := setupRouter()
	router.POST("/transactions/loan", withSession(sess, handler.RequestLoan))

	mockService.On("RequestLoan", mock.Anything, sess, &transaction.LoanRequest{Amount: 2000}).Return(&transaction.TransactionResponse{
		Transaction: &transaction.Transaction{TransactionType: transaction.TransactionTypeLoan, Amount: 2000},
		Account:     &account.AccountResponse{Balance: 5840},
	}, nil)

	req, _ := http.NewRequest("POST", "/transactions/loan", bytes.NewBufferString(`{"amount":"2000"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockService.AssertExpectations(t)
}

func TestTransactionHandler_NonNumericAmountIsInvalid(t *testing.T) {
	handler := NewTransactionHandler(service.NewTransactionService(repository.NewAccountRepository(), nil))
	sess := newSession()

	router := setupRouter()
	router.POST("/transactions/transfer", withSession(sess, handler.Transfer))
	router.POST("/transactions/loan", withSession(sess, handler.RequestLoan))

	for path, body := range map[string]string{
		"/transactions/transfer": `{"to_username":"jd","amount":""}`,
		"/transactions/loan":     `{"amount":"lots"}`,
	} {
		req, _ := http.NewRequest("POST", path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.Contains(t, w.Body.String(), service.ErrInvalidAmount.Error(), path)
	}
}

func TestTransactionHandler_RequestLoan_BadJSON(t *testing.T) {
	mockService := new(MockTransactionService)
	handler := NewTransactionHandler(mockService)
	sess := newSession()

	router := setupRouter()
	router.POST("/transactions/loan", withSession(sess, handler.RequestLoan))

	req, _ := http.NewRequest("POST", "/transactions/loan", bytes.NewBufferString(`{"amount":true}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
