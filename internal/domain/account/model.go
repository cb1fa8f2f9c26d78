package account

import (
	"bytes"
	"encoding/json"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

type MovementType string

const (
	MovementTypeDeposit    MovementType = "deposit"
	MovementTypeWithdrawal MovementType = "withdrawal"

	// Per-movement interest must exceed this to count toward the summary.
	MinInterestPerMovement = 1.0

	// A loan is granted when some movement reaches this share of the request.
	LoanCoverageRatio = 0.1
)

type Account struct {
	ID           uuid.UUID `json:"id"`
	Owner        string    `json:"owner"`
	Username     string    `json:"username"`
	Movements    []float64 `json:"movements"`
	InterestRate float64   `json:"interest_rate"`
	PinHash      string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// DeriveUsername lowercases owner, splits it on single spaces and joins the
// first character of every word. Empty words contribute nothing.
func DeriveUsername(owner string) string {
	var b strings.Builder
	for _, word := range strings.Split(strings.ToLower(owner), " ") {
		if r, size := utf8.DecodeRuneInString(word); size > 0 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FirstName is the first space separated word of the owner.
func (a *Account) FirstName() string {
	first, _, _ := strings.Cut(a.Owner, " ")
	return first
}

// Balance is always recomputed from the movements.
func (a *Account) Balance() float64 {
	var sum float64
	for _, m := range a.Movements {
		sum += m
	}
	return sum
}

type Summary struct {
	TotalIn       float64 `json:"total_in"`
	TotalOut      float64 `json:"total_out"`
	TotalInterest float64 `json:"total_interest"`
}

func (a *Account) Summary() Summary {
	var s Summary
	var out float64
	for _, m := range a.Movements {
		if m > 0 {
			s.TotalIn += m
			if interest := m * a.InterestRate / 100; interest > MinInterestPerMovement {
				s.TotalInterest += interest
			}
		} else if m < 0 {
			out += m
		}
	}
	if out < 0 {
		s.TotalOut = -out
	}
	return s
}

// QualifiesForLoan reports whether a single past movement covers
// LoanCoverageRatio of amount. Deposits and withdrawals both count.
func (a *Account) QualifiesForLoan(amount float64) bool {
	threshold := amount * LoanCoverageRatio
	return slices.ContainsFunc(a.Movements, func(m float64) bool {
		return m >= threshold
	})
}

type Movement struct {
	Position int          `json:"position"`
	Type     MovementType `json:"type"`
	Amount   float64      `json:"amount"`
}

func typeOf(amount float64) MovementType {
	if amount > 0 {
		return MovementTypeDeposit
	}
	return MovementTypeWithdrawal
}

// ListMovements returns movements in ledger order, or an ascending copy when
// sorted is set. Position is the 1-based index in the displayed order, the same
// numbering the row labels use. The ledger itself is never reordered.
func (a *Account) ListMovements(sorted bool) []Movement {
	amounts := slices.Clone(a.Movements)
	if sorted {
		slices.Sort(amounts)
	}

	out := make([]Movement, len(amounts))
	for i, m := range amounts {
		out[i] = Movement{Position: i + 1, Type: typeOf(m), Amount: m}
	}
	return out
}

// Clone returns a deep copy safe to hand out of the repository.
func (a *Account) Clone() *Account {
	cp := *a
	cp.Movements = slices.Clone(a.Movements)
	return &cp
}

// PinInput accepts a pin given either as a JSON string or a JSON number.
type PinInput string

func (p *PinInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = PinInput(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*p = PinInput(n.String())
	return nil
}

// AmountInput accepts an amount given either as a JSON number or as a string.
// A blank or non-numeric string reads as 0, which no operation accepts.
type AmountInput float64

func (a *AmountInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			f = 0
		}
		*a = AmountInput(f)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*a = AmountInput(f)
	return nil
}

func (a AmountInput) Float64() float64 {
	return float64(a)
}

type AccountResponse struct {
	ID           uuid.UUID  `json:"id"`
	Owner        string     `json:"owner"`
	Username     string     `json:"username"`
	FirstName    string     `json:"first_name"`
	InterestRate float64    `json:"interest_rate"`
	Balance      float64    `json:"balance"`
	Summary      Summary    `json:"summary"`
	Sorted       bool       `json:"sorted"`
	Movements    []Movement `json:"movements"`
}

// NewAccountResponse renders everything a client needs to redraw the account.
func NewAccountResponse(a *Account, sorted bool) *AccountResponse {
	return &AccountResponse{
		ID:           a.ID,
		Owner:        a.Owner,
		Username:     a.Username,
		FirstName:    a.FirstName(),
		InterestRate: a.InterestRate,
		Balance:      a.Balance(),
		Summary:      a.Summary(),
		Sorted:       sorted,
		Movements:    a.ListMovements(sorted),
	}
}

type BalanceResponse struct {
	AccountID uuid.UUID `json:"account_id"`
	Username  string    `json:"username"`
	Balance   float64   `json:"balance"`
	AsOfDate  time.Time `json:"as_of_date"`
}

type MovementsResponse struct {
	Sorted    bool       `json:"sorted"`
	Movements []Movement `json:"movements"`
	Total     int        `json:"total"`
}

type CloseAccountRequest struct {
	Username string   `json:"username" binding:"required"`
	Pin      PinInput `json:"pin"`
}

// BankStats aggregates movements across every open account.
type BankStats struct {
	Accounts        int     `json:"accounts"`
	TotalDeposits   float64 `json:"total_deposits"`
	TotalWithdrawal float64 `json:"total_withdrawals"`
	LargeMovements  int     `json:"large_movements"`
}

// LargeMovementThreshold is the cut-off for BankStats.LargeMovements.
const LargeMovementThreshold = 1000

func ComputeBankStats(accounts []*Account) BankStats {
	stats := BankStats{Accounts: len(accounts)}
	for _, a := range accounts {
		for _, m := range a.Movements {
			if m > 0 {
				stats.TotalDeposits += m
			} else {
				stats.TotalWithdrawal += m
			}
			if m >= LargeMovementThreshold {
				stats.LargeMovements++
			}
		}
	}
	return stats
}
