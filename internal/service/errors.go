package service

import "errors"

// Validation rejections. None of them leaves the ledger changed.
var (
	ErrInvalidCredentials = errors.New("invalid username or pin")
	ErrInvalidAmount      = errors.New("amount must be greater than zero")
	ErrReceiverNotFound   = errors.New("receiver account not found")
	ErrSelfTransfer       = errors.New("cannot transfer to the same account")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrLoanDenied         = errors.New("loan not covered by any previous movement")
	ErrSessionNotFound    = errors.New("session expired or logged out")
	ErrInvalidSeed        = errors.New("invalid seed account")
)
