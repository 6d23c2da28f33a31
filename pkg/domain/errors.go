package domain

import "errors"

var (
	ErrInsufficientFunds = errors.New("Insufficient Money")
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
	ErrNotFound          = errors.New("account not found")
	ErrSameAccount       = errors.New("cannot transfer to the same account")
)
