package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/darisadam/bankist-server/internal/domain/account"
	"github.com/darisadam/bankist-server/internal/repository"
	"github.com/darisadam/bankist-server/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAccountHandler_GetAccount_Success(t *testing.T) {
	mockService := new(MockAccountService)
	handler := NewAccountHandler(mockService)
	sess := newSession()

	router := setupRouter()
	router.GET("/account", withSession(sess, handler.GetAccount))

	mockService.On("GetAccountView", sess).Return(&account.AccountResponse{
		ID:        sess.AccountID,
		Owner:     "Jonas Schmedtmann",
		Username:  "js",
		FirstName: "Jonas",
		Balance:   3840,
	}, nil)

	req, _ := http.NewRequest("GET", "/account", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body account.AccountResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Jonas", body.FirstName)
	assert.Equal(t, float64(3840), body.Balance)
}

func TestAccountHandler_GetAccount_Unauthorized(t *testing.T) {
	mockService := new(MockAccountService)
	handler := NewAccountHandler(mockService)

	router := setupRouter()
	router.GET("/account", handler.GetAccount)

	req, _ := http.NewRequest("GET", "/account", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAccountHandler_GetBalance(t *testing.T) {
	mockService := new(MockAccountService)
	handler := NewAccountHandler(mockService)
	sess := newSession()

	router := setupRouter()
	router.GET("/account/balance", withSession(sess, handler.GetBalance))

	mockService.On("GetBalance", sess.AccountID).Return(&account.BalanceResponse{
		AccountID: sess.AccountID,
		Username:  "js",
		Balance:   3840,
	}, nil)

	req, _ := http.NewRequest("GET", "/account/balance", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"balance":3840`)
}

func TestAccountHandler_GetBalance_AccountGone(t *testing.T) {
	mockService := new(MockAccountService)
	handler := NewAccountHandler(mockService)
	sess := newSession()

	router := setupRouter()
	router.GET("/account/balance", withSession(sess, handler.GetBalance))

	mockService.On("GetBalance", sess.AccountID).Return(nil, repository.ErrAccountNotFound)

	req, _ := http.NewRequest("GET", "/account/balance", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAccountHandler_GetSummary(t *testing.T) {
	mockService := new(MockAccountService)
	handler := NewAccountHandler(mockService)
	sess := newSession()

	router := setupRouter()
	router.GET("/account/summary", withSession(sess, handler.GetSummary))

	mockService.On("GetSummary", sess.AccountID).Return(&account.Summary{
		TotalIn:       5020,
		TotalOut:      1180,
		TotalInterest: 59.4,
	}, nil)

	req, _ := http.NewRequest("GET", "/account/summary", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body account.Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(5020), body.TotalIn)
	assert.Equal(t, float64(1180), body.TotalOut)
}

func TestAccountHandler_ListMovements(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		sessionSort bool
		wantSorted  bool
	}{
		{"defaults to session mode", "", true, true},
		{"explicit sorted", "?sorted=true", false, true},
		{"explicit ledger order", "?sorted=false", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockAccountService)
			handler := NewAccountHandler(mockService)
			sess := newSession()
			sess.Sorted = tt.sessionSort

			router := setupRouter()
			router.GET("/account/movements", withSession(sess, handler.ListMovements))

			mockService.On("ListMovements", sess.AccountID, tt.wantSorted).Return(&account.MovementsResponse{
				Sorted: tt.wantSorted,
			}, nil)

			req, _ := http.NewRequest("GET", "/account/movements"+tt.query, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestAccountHandler_ListMovements_InvalidQuery(t *testing.T) {
	mockService := new(MockAccountService)
	handler := NewAccountHandler(mockService)
	sess := newSession()

	router := setupRouter()
	router.GET("/account/movements", withSession(sess, handler.ListMovements))

	req, _ := http.NewRequest("GET", "/account/movements?sorted=maybe", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "ListMovements", mock.Anything, mock.Anything)
}

func TestAccountHandler_ToggleSort(t *testing.T) {
	mockService := new(MockAccountService)
	handler := NewAccountHandler(mockService)
	sess := newSession()

	router := setupRouter()
	router.POST("/account/movements/sort", withSession(sess, handler.ToggleSort))

	mockService.On("ToggleSort", mock.Anything, sess).Return(&account.MovementsResponse{
		Sorted: true,
		Movements: []account.Movement{
			{Position: 1, Type: account.MovementTypeWithdrawal, Amount: -650},
		},
		Total: 1,
	}, nil)

	req, _ := http.NewRequest("POST", "/account/movements/sort", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"sorted":true`)
}

func TestAccountHandler_CloseAccount(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		serviceErr error
		callsSvc   bool
		wantStatus int
	}{
		{"success", `{"username":"js","pin":"1111"}`, nil, true, http.StatusOK},
		{"wrong credentials", `{"username":"js","pin":"0000"}`, service.ErrInvalidCredentials, true, http.StatusUnauthorized},
		{"missing username", `{"pin":"1111"}`, nil, false, http.StatusBadRequest},
		{"store failure", `{"username":"js","pin":1111}`, errors.New("boom"), true, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockAccountService)
			handler := NewAccountHandler(mockService)
			sess := newSession()

			router := setupRouter()
			router.POST("/account/close", withSession(sess, handler.CloseAccount))

			if tt.callsSvc {
				mockService.On("CloseAccount", mock.Anything, sess, mock.AnythingOfType("*account.CloseAccountRequest")).Return(tt.serviceErr)
			}

			req, _ := http.NewRequest("POST", "/account/close", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if !tt.callsSvc {
				mockService.AssertNotCalled(t, "CloseAccount", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestAccountHandler_GetBankStats(t *testing.T) {
	mockService := new(MockAccountService)
	handler := NewAccountHandler(mockService)

	router := setupRouter()
	router.GET("/stats", handler.GetBankStats)

	mockService.On("GetBankStats").Return(account.BankStats{
		Accounts:        4,
		TotalDeposits:   25180,
		TotalWithdrawal: -7340,
		LargeMovements:  6,
	})

	req, _ := http.NewRequest("GET", "/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body account.BankStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(25180), body.TotalDeposits)
	assert.Equal(t, 6, body.LargeMovements)
}
