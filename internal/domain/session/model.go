package session

import (
	"time"

	"github.com/darisadam/bankist-server/internal/domain/account"
	"github.com/google/uuid"
)

// Session binds one client to the account it logged into. It also holds the
// movement sort toggle, which belongs to the view and not to the account.
type Session struct {
	ID        uuid.UUID `json:"id"`
	AccountID uuid.UUID `json:"account_id"`
	Username  string    `json:"username"`
	Sorted    bool      `json:"sorted"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

type LoginRequest struct {
	Username string           `json:"username" binding:"required"`
	Pin      account.PinInput `json:"pin"`
}

type LoginResponse struct {
	Token     string                   `json:"token"`
	ExpiresAt time.Time                `json:"expires_at"`
	Greeting  string                   `json:"greeting"`
	Account   *account.AccountResponse `json:"account"`
}
