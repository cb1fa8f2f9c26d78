package transaction

import (
	"time"

	"github.com/darisadam/bankist-server/internal/domain/account"
	"github.com/google/uuid"
)

type TransactionType string

const (
	TransactionTypeTransfer TransactionType = "transfer"
	TransactionTypeLoan     TransactionType = "loan"
)

// Transaction is the receipt of a posted ledger change. It is not stored; the
// movements on the accounts are the ledger.
type Transaction struct {
	ID              uuid.UUID       `json:"id"`
	TransactionType TransactionType `json:"transaction_type"`
	FromAccountID   *uuid.UUID      `json:"from_account_id,omitempty"`
	ToAccountID     uuid.UUID       `json:"to_account_id"`
	ToUsername      string          `json:"to_username,omitempty"`
	Amount          float64         `json:"amount"`
	CreatedAt       time.Time       `json:"created_at"`
}

type TransferRequest struct {
	ToUsername string              `json:"to_username" binding:"required"`
	Amount     account.AmountInput `json:"amount"`
}

type LoanRequest struct {
	Amount account.AmountInput `json:"amount"`
}

// TransactionResponse carries the receipt plus the caller's refreshed account.
type TransactionResponse struct {
	Transaction *Transaction             `json:"transaction"`
	Account     *account.AccountResponse `json:"account"`
}
