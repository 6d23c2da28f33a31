package repositories

import (
	"context"
	"fmt"
	"sync"

	"github.com/andrenbrandao/bank-accounts/pkg/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("github.com/andrenbrandao/bank-accounts/pkg/repositories")

// AccountRecord is a point-in-time copy of an account, safe to hand out
// after the lock is released.
type AccountRecord struct {
	Id      string          `json:"id"`
	Owner   string          `json:"owner"`
	Balance decimal.Decimal `json:"balance"`
	Bank    string          `json:"bank,omitempty"`
}

// AccountRepository gives the accounts of a single bank stable ids and
// serializes every read and mutation behind one mutex.
type AccountRepository struct {
	mu     sync.Mutex
	bank   *domain.Bank
	byId   map[string]*domain.Account
	ids    map[*domain.Account]string
	logger *zap.SugaredLogger
}

func NewAccountRepository(bank *domain.Bank, logger *zap.SugaredLogger) *AccountRepository {
	r := &AccountRepository{
		bank:   bank,
		byId:   make(map[string]*domain.Account),
		ids:    make(map[*domain.Account]string),
		logger: logger,
	}
	for _, a := range bank.Accounts() {
		r.index(a)
	}
	return r
}

func (r *AccountRepository) index(account *domain.Account) string {
	id := uuid.NewString()
	r.byId[id] = account
	r.ids[account] = id
	return id
}

func (r *AccountRepository) record(account *domain.Account) AccountRecord {
	rec := AccountRecord{
		Id:      r.ids[account],
		Owner:   account.Person(),
		Balance: account.Balance(),
	}
	if b := account.Bank(); b != nil {
		rec.Bank = b.Name()
	}
	return rec
}

func (r *AccountRepository) BankName(ctx context.Context) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bank.Name()
}

func (r *AccountRepository) CreateAccount(ctx context.Context, owner string, balance decimal.Decimal) (AccountRecord, error) {
	if balance.IsNegative() {
		return AccountRecord{}, domain.ErrInvalidAmount
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	account := domain.NewAccount(owner, balance)
	r.bank.AddAccount(account)
	id := r.index(account)
	r.logger.Infow("account created", "id", id, "owner", owner, "balance", balance.String())
	return r.record(account), nil
}

func (r *AccountRepository) GetAccount(ctx context.Context, accountId string) (AccountRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.byId[accountId]
	if !ok {
		return AccountRecord{}, domain.ErrNotFound
	}
	return r.record(account), nil
}

func (r *AccountRepository) ListAccounts(ctx context.Context) []AccountRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	accounts := r.bank.Accounts()
	out := make([]AccountRecord, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, r.record(a))
	}
	return out
}

func (r *AccountRepository) FindByOwner(ctx context.Context, owner string) (AccountRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.bank.FindAccount(owner)
	if !ok {
		return AccountRecord{}, domain.ErrNotFound
	}
	return r.record(account), nil
}

func (r *AccountRepository) Deposit(ctx context.Context, accountId string, amount decimal.Decimal) (AccountRecord, error) {
	return r.apply(ctx, "deposit", accountId, amount, (*domain.Account).Credit)
}

func (r *AccountRepository) Withdraw(ctx context.Context, accountId string, amount decimal.Decimal) (AccountRecord, error) {
	return r.apply(ctx, "withdraw", accountId, amount, (*domain.Account).Debit)
}

func (r *AccountRepository) apply(ctx context.Context, op, accountId string, amount decimal.Decimal, fn func(*domain.Account, decimal.Decimal) error) (AccountRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.byId[accountId]
	if !ok {
		return AccountRecord{}, domain.ErrNotFound
	}
	if err := fn(account, amount); err != nil {
		r.logger.Warnw(op+" rejected", "id", accountId, "amount", amount.String(), "error", err)
		return AccountRecord{}, fmt.Errorf("%s %s: %w", op, accountId, err)
	}
	r.logger.Infow(op+" applied", "id", accountId, "amount", amount.String(), "balance", account.Balance().String())
	return r.record(account), nil
}

// Transfer moves amount between two accounts of the bank. Either both
// balances change or neither does.
func (r *AccountRepository) Transfer(ctx context.Context, fromId, toId string, amount decimal.Decimal) (from, to AccountRecord, err error) {
	_, span := tracer.Start(ctx, "AccountRepository.Transfer")
	defer span.End()
	span.SetAttributes(
		attribute.String("bank.transfer.from", fromId),
		attribute.String("bank.transfer.to", toId),
		attribute.String("bank.transfer.amount", amount.String()),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	if fromId == toId {
		return from, to, domain.ErrSameAccount
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	fromAccount, ok1 := r.byId[fromId]
	toAccount, ok2 := r.byId[toId]
	if !ok1 || !ok2 {
		return from, to, domain.ErrNotFound
	}
	if err = r.bank.Transfer(fromAccount, toAccount, amount); err != nil {
		r.logger.Warnw("transfer rejected", "from", fromId, "to", toId, "amount", amount.String(), "error", err)
		return from, to, fmt.Errorf("transfer %s -> %s: %w", fromId, toId, err)
	}
	r.logger.Infow("transfer applied", "from", fromId, "to", toId, "amount", amount.String())
	return r.record(fromAccount), r.record(toAccount), nil
}
