package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"daftar/internal/core"
	"daftar/internal/store"
)

// Invalidator is notified after every ledger mutation so derived snapshots
// (statistics) can be discarded.
type Invalidator interface {
	Invalidate()
}

// LedgerService orchestrates ledger mutations: validation, currency
// resolution against the account's category, and cache invalidation.
type LedgerService struct {
	store store.Store
	stats Invalidator
}

func NewLedgerService(st store.Store) *LedgerService {
	return &LedgerService{store: st}
}

// SetInvalidator wires the statistics cache. Optional: a nil invalidator
// just skips the notification.
func (s *LedgerService) SetInvalidator(inv Invalidator) {
	s.stats = inv
}

func (s *LedgerService) CreateCategory(ctx context.Context, name, currency string) (core.Category, error) {
	c := core.Category{
		Name:     strings.TrimSpace(name),
		Currency: strings.ToUpper(strings.TrimSpace(currency)),
	}
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	return s.store.CreateCategory(ctx, c)
}

func (s *LedgerService) Categories(ctx context.Context) ([]core.Category, error) {
	return s.store.Categories(ctx)
}

func (s *LedgerService) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.store.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *LedgerService) CreateAccount(ctx context.Context, a core.Account) (core.Account, error) {
	a.Name = strings.TrimSpace(a.Name)
	if err := a.Validate(); err != nil {
		return core.Account{}, err
	}
	created, err := s.store.CreateAccount(ctx, a)
	if err != nil {
		return core.Account{}, err
	}
	s.invalidate()
	return created, nil
}

func (s *LedgerService) Account(ctx context.Context, id int64) (core.Account, error) {
	return s.store.Account(ctx, id)
}

func (s *LedgerService) AccountsByCategory(ctx context.Context, categoryID int64) ([]core.Account, error) {
	return s.store.AccountsByCategory(ctx, categoryID)
}

func (s *LedgerService) DeleteAccount(ctx context.Context, id int64) error {
	if err := s.store.DeleteAccount(ctx, id); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// CreateTransaction validates and records a ledger entry. The currency is
// resolved from the account's category: an empty caller currency inherits
// it, a different one is rejected.
func (s *LedgerService) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	account, err := s.store.Account(ctx, t.AccountID)
	if err != nil {
		return core.Transaction{}, err
	}
	category, err := s.store.Category(ctx, account.CategoryID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("resolve currency: %w", err)
	}

	t.Description = strings.TrimSpace(t.Description)
	t.Currency = strings.ToUpper(strings.TrimSpace(t.Currency))
	switch {
	case t.Currency == "":
		t.Currency = category.Currency
	case t.Currency != category.Currency:
		return core.Transaction{}, fmt.Errorf("transaction currency %s vs category %s: %w",
			t.Currency, category.Currency, core.ErrCurrencyMismatch)
	}

	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	created, err := s.store.InsertTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("record transaction: %w", err)
	}
	s.invalidate()
	return created, nil
}

func (s *LedgerService) DeleteTransaction(ctx context.Context, id int64) error {
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *LedgerService) Transaction(ctx context.Context, id int64) (core.Transaction, error) {
	return s.store.Transaction(ctx, id)
}

// TransactionsByAccount returns the account's chain in running-balance
// order.
func (s *LedgerService) TransactionsByAccount(ctx context.Context, accountID int64) ([]core.Transaction, error) {
	if _, err := s.store.Account(ctx, accountID); err != nil {
		return nil, err
	}
	return s.store.TransactionsByAccount(ctx, accountID)
}

func (s *LedgerService) AccountBalance(ctx context.Context, accountID int64) (core.Money, error) {
	return s.store.AccountBalance(ctx, accountID)
}

func (s *LedgerService) Settings(ctx context.Context) (core.AppSettings, error) {
	return s.store.Settings(ctx)
}

func (s *LedgerService) SaveSettings(ctx context.Context, a core.AppSettings) error {
	a.DefaultCurrency = strings.ToUpper(strings.TrimSpace(a.DefaultCurrency))
	if !core.ValidCurrency(a.DefaultCurrency) {
		return fmt.Errorf("default currency %q: %w", a.DefaultCurrency, core.ErrInvalidCurrency)
	}
	return s.store.SaveSettings(ctx, a)
}

func (s *LedgerService) invalidate() {
	if s.stats == nil {
		slog.Debug("No statistics cache wired, skipping invalidation")
		return
	}
	s.stats.Invalidate()
}
