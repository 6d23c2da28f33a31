package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Account holds an owner and an exact decimal balance. An account may be
// registered with at most one Bank; the reference is lookup only.
type Account struct {
	owner   string
	balance decimal.Decimal
	bank    *Bank
}

func NewAccount(owner string, balance decimal.Decimal) *Account {
	return &Account{owner: owner, balance: balance}
}

func (a *Account) Person() string {
	return a.owner
}

func (a *Account) Balance() decimal.Decimal {
	return a.balance
}

// SetBalance replaces the balance without any validation.
func (a *Account) SetBalance(balance decimal.Decimal) {
	a.balance = balance
}

// Bank returns the bank this account was added to, or nil.
func (a *Account) Bank() *Bank {
	return a.bank
}

// Debit takes amount out of the balance. The balance is left untouched when
// the amount is not positive or exceeds what is available.
func (a *Account) Debit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if amount.GreaterThan(a.balance) {
		return ErrInsufficientFunds
	}
	a.balance = a.balance.Sub(amount)
	return nil
}

func (a *Account) Credit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	a.balance = a.balance.Add(amount)
	return nil
}

// Equal reports whether both accounts have the same owner and numerically
// equal balances, so 10 and 10.00 compare equal.
func (a *Account) Equal(other *Account) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.owner == other.owner && a.balance.Equal(other.balance)
}

func (a *Account) String() string {
	return fmt.Sprintf("%s: %s", a.owner, a.balance.String())
}
