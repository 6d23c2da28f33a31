package repositories

import (
	"context"
	"sync"
	"testing"

	"github.com/andrenbrandao/bank-accounts/pkg/domain"
	"github.com/andrenbrandao/bank-accounts/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepository(t *testing.T) *AccountRepository {
	t.Helper()
	return NewAccountRepository(domain.NewBank("IBK"), logger.Nop())
}

func create(t *testing.T, r *AccountRepository, owner, balance string) AccountRecord {
	t.Helper()
	rec, err := r.CreateAccount(context.Background(), owner, decimal.RequireFromString(balance))
	require.NoError(t, err)
	return rec
}

func TestCreateAndGetAccount(t *testing.T) {
	ctx := context.Background()
	r := newRepository(t)

	t.Run("assigns unique ids and registers with the bank", func(t *testing.T) {
		a1 := create(t, r, "Jhon Doe", "2500")
		a2 := create(t, r, "Miguel", "1500.8989")

		assert.NotEmpty(t, a1.Id)
		assert.NotEqual(t, a1.Id, a2.Id)
		assert.Equal(t, "IBK", a1.Bank)

		got, err := r.GetAccount(ctx, a2.Id)
		require.NoError(t, err)
		assert.Equal(t, "Miguel", got.Owner)
		assert.Equal(t, "1500.8989", got.Balance.String())
		assert.Len(t, r.ListAccounts(ctx), 2)
	})

	t.Run("rejects a negative opening balance", func(t *testing.T) {
		_, err := r.CreateAccount(ctx, "Debtor", decimal.NewFromInt(-1))
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	})

	t.Run("returns not found for unknown ids", func(t *testing.T) {
		_, err := r.GetAccount(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("finds an account by owner", func(t *testing.T) {
		got, err := r.FindByOwner(ctx, "Miguel")
		require.NoError(t, err)
		assert.Equal(t, "Miguel", got.Owner)

		_, err = r.FindByOwner(ctx, "Nobody")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestIndexesPreregisteredAccounts(t *testing.T) {
	bank := domain.NewBank("IBK")
	bank.AddAccount(domain.NewAccount("Miguel", decimal.NewFromInt(10)))

	r := NewAccountRepository(bank, logger.Nop())

	accounts := r.ListAccounts(context.Background())
	require.Len(t, accounts, 1)
	assert.NotEmpty(t, accounts[0].Id)
	assert.Equal(t, "IBK", r.BankName(context.Background()))
}

func TestDepositWithdraw(t *testing.T) {
	ctx := context.Background()
	r := newRepository(t)
	a := create(t, r, "Miguel", "1000.12345")

	got, err := r.Deposit(ctx, a.Id, decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.Equal(t, "1100.12345", got.Balance.String())

	got, err = r.Withdraw(ctx, a.Id, decimal.NewFromInt(200))
	require.NoError(t, err)
	assert.Equal(t, "900.12345", got.Balance.String())

	_, err = r.Withdraw(ctx, a.Id, decimal.NewFromInt(1500))
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	_, err = r.Deposit(ctx, a.Id, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = r.Deposit(ctx, "missing", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err = r.GetAccount(ctx, a.Id)
	require.NoError(t, err)
	assert.Equal(t, "900.12345", got.Balance.String())
}

func TestTransfer(t *testing.T) {
	ctx := context.Background()

	t.Run("moves the amount between accounts", func(t *testing.T) {
		r := newRepository(t)
		a1 := create(t, r, "Jhon Doe", "2500")
		a2 := create(t, r, "Miguel", "1500.8989")

		from, to, err := r.Transfer(ctx, a2.Id, a1.Id, decimal.NewFromInt(500))
		require.NoError(t, err)

		assert.Equal(t, "1000.8989", from.Balance.String())
		assert.Equal(t, "3000", to.Balance.String())
	})

	t.Run("leaves both accounts untouched on failure", func(t *testing.T) {
		r := newRepository(t)
		a1 := create(t, r, "Jhon Doe", "2500")
		a2 := create(t, r, "Miguel", "1500.8989")

		_, _, err := r.Transfer(ctx, a2.Id, a1.Id, decimal.NewFromInt(2000))
		require.ErrorIs(t, err, domain.ErrInsufficientFunds)

		got1, _ := r.GetAccount(ctx, a1.Id)
		got2, _ := r.GetAccount(ctx, a2.Id)
		assert.Equal(t, "2500", got1.Balance.String())
		assert.Equal(t, "1500.8989", got2.Balance.String())
	})

	t.Run("rejects the same account", func(t *testing.T) {
		r := newRepository(t)
		a := create(t, r, "Miguel", "10")

		_, _, err := r.Transfer(ctx, a.Id, a.Id, decimal.NewFromInt(1))
		assert.ErrorIs(t, err, domain.ErrSameAccount)
	})

	t.Run("rejects unknown accounts", func(t *testing.T) {
		r := newRepository(t)
		a := create(t, r, "Miguel", "10")

		_, _, err := r.Transfer(ctx, a.Id, "missing", decimal.NewFromInt(1))
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestConcurrentTransfersKeepTotal(t *testing.T) {
	ctx := context.Background()
	r := newRepository(t)
	a1 := create(t, r, "A", "1000.5")
	a2 := create(t, r, "B", "1000.5")

	const n = 200
	var wg sync.WaitGroup
	wg.Add(2 * n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, _, err := r.Transfer(ctx, a1.Id, a2.Id, decimal.RequireFromString("0.01"))
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, _, err := r.Transfer(ctx, a2.Id, a1.Id, decimal.RequireFromString("0.01"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got1, _ := r.GetAccount(ctx, a1.Id)
	got2, _ := r.GetAccount(ctx, a2.Id)
	assert.Equal(t, "2001", got1.Balance.Add(got2.Balance).String())
	assert.Equal(t, "1000.5", got1.Balance.String())
}
