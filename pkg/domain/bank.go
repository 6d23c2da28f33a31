package domain

import "github.com/shopspring/decimal"

type Bank struct {
	name     string
	accounts []*Account
}

func NewBank(name string) *Bank {
	return &Bank{name: name}
}

func (b *Bank) Name() string {
	return b.name
}

func (b *Bank) SetName(name string) {
	b.name = name
}

// AddAccount registers the account and points its back-reference at b.
func (b *Bank) AddAccount(account *Account) {
	account.bank = b
	b.accounts = append(b.accounts, account)
}

// Accounts returns the registered accounts in the order they were added.
// The slice is a copy; the accounts are not.
func (b *Bank) Accounts() []*Account {
	out := make([]*Account, len(b.accounts))
	copy(out, b.accounts)
	return out
}

func (b *Bank) FindAccount(owner string) (*Account, bool) {
	for _, a := range b.accounts {
		if a.Person() == owner {
			return a, true
		}
	}
	return nil, false
}

// Transfer debits from and then credits to. Neither account needs to be
// registered with b. When the debit fails, to is never credited.
func (b *Bank) Transfer(from, to *Account, amount decimal.Decimal) error {
	if err := from.Debit(amount); err != nil {
		return err
	}
	return to.Credit(amount)
}
