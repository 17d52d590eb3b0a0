// Package memory is an in-memory Store used by tests and by ephemeral runs
// without a database file. It enforces the same invariants as the durable
// backend: global sequence assignment, chain recomputation, and referential
// checks all happen under one write lock.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"daftar/internal/core"
	"daftar/internal/store"
)

type Store struct {
	mu sync.RWMutex

	categories map[int64]core.Category
	accounts   map[int64]core.Account
	txs        map[int64]core.Transaction

	settings    core.AppSettings
	hasSettings bool

	nextCategoryID int64
	nextAccountID  int64
	nextTxID       int64
	nextSeq        int64
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		categories:     make(map[int64]core.Category),
		accounts:       make(map[int64]core.Account),
		txs:            make(map[int64]core.Transaction),
		nextCategoryID: 1,
		nextAccountID:  1,
		nextTxID:       1,
		nextSeq:        1,
	}
}

func (s *Store) CreateCategory(_ context.Context, c core.Category) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = s.nextCategoryID
	s.nextCategoryID++
	c.CreatedAt = time.Now().UTC()
	s.categories[c.ID] = c
	return c, nil
}

func (s *Store) Categories(_ context.Context) ([]core.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]core.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) Category(_ context.Context, id int64) (core.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.categories[id]
	if !ok {
		return core.Category{}, fmt.Errorf("category %d: %w", id, core.ErrNotFound)
	}
	return c, nil
}

func (s *Store) DeleteCategory(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[id]; !ok {
		return fmt.Errorf("category %d: %w", id, core.ErrNotFound)
	}
	for _, a := range s.accounts {
		if a.CategoryID == id {
			return fmt.Errorf("category %d: %w", id, core.ErrCategoryNotEmpty)
		}
	}
	delete(s.categories, id)
	return nil
}

func (s *Store) CreateAccount(_ context.Context, a core.Account) (core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[a.CategoryID]; !ok {
		return core.Account{}, fmt.Errorf("category %d: %w", a.CategoryID, core.ErrNotFound)
	}
	a.ID = s.nextAccountID
	s.nextAccountID++
	a.CreatedAt = time.Now().UTC()
	s.accounts[a.ID] = a
	return a, nil
}

func (s *Store) Account(_ context.Context, id int64) (core.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[id]
	if !ok {
		return core.Account{}, fmt.Errorf("account %d: %w", id, core.ErrNotFound)
	}
	return a, nil
}

func (s *Store) AccountsByCategory(_ context.Context, categoryID int64) ([]core.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []core.Account
	for _, a := range s.accounts {
		if a.CategoryID == categoryID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) DeleteAccount(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[id]; !ok {
		return fmt.Errorf("account %d: %w", id, core.ErrNotFound)
	}
	for _, t := range s.txs {
		if t.AccountID == id {
			return fmt.Errorf("account %d: %w", id, core.ErrAccountNotEmpty)
		}
	}
	delete(s.accounts, id)
	return nil
}

func (s *Store) InsertTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[t.AccountID]; !ok {
		return core.Transaction{}, fmt.Errorf("account %d: %w", t.AccountID, core.ErrNotFound)
	}

	t.ID = s.nextTxID
	s.nextTxID++
	t.Seq = s.nextSeq
	s.nextSeq++
	t.CreatedAt = time.Now().UTC()

	chain := s.chainLocked(t.AccountID)
	chain = append(chain, t)
	ordered, _ := core.RecomputeChain(chain)
	for _, u := range ordered {
		s.txs[u.ID] = u
		if u.ID == t.ID {
			t = u
		}
	}
	return t, nil
}

func (s *Store) DeleteTransaction(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.txs[id]
	if !ok {
		return fmt.Errorf("transaction %d: %w", id, core.ErrNotFound)
	}
	delete(s.txs, id)

	_, changed := core.RecomputeChain(s.chainLocked(t.AccountID))
	for _, u := range changed {
		s.txs[u.ID] = u
	}
	return nil
}

func (s *Store) Transaction(_ context.Context, id int64) (core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.txs[id]
	if !ok {
		return core.Transaction{}, fmt.Errorf("transaction %d: %w", id, core.ErrNotFound)
	}
	return t, nil
}

func (s *Store) TransactionsByAccount(_ context.Context, accountID int64) ([]core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chain := s.chainLocked(accountID)
	core.SortChain(chain)
	return chain, nil
}

func (s *Store) AllTransactions(_ context.Context) ([]store.SearchRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.SearchRow, 0, len(s.txs))
	for _, t := range s.txs {
		row := store.SearchRow{Transaction: t}
		if a, ok := s.accounts[t.AccountID]; ok {
			row.AccountName = a.Name
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Transaction.Seq < out[j].Transaction.Seq
	})
	return out, nil
}

func (s *Store) AccountBalance(_ context.Context, accountID int64) (core.Money, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.accounts[accountID]; !ok {
		return core.Money{}, fmt.Errorf("account %d: %w", accountID, core.ErrNotFound)
	}
	chain := s.chainLocked(accountID)
	core.SortChain(chain)
	return core.ChainBalance(chain), nil
}

func (s *Store) AccountBalances(_ context.Context) ([]store.AccountBalance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.AccountBalance, 0, len(s.accounts))
	for _, a := range s.accounts {
		chain := s.chainLocked(a.ID)
		core.SortChain(chain)
		out = append(out, store.AccountBalance{Account: a, Balance: core.ChainBalance(chain)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Account.ID < out[j].Account.ID })
	return out, nil
}

func (s *Store) Totals(_ context.Context) (store.Totals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var t store.Totals
	for _, x := range s.txs {
		t.Transactions++
		if x.Type == core.Credit {
			t.CreditCents += x.Amount.Cents
		} else {
			t.DebitCents += x.Amount.Cents
		}
	}
	return t, nil
}

func (s *Store) Settings(_ context.Context) (core.AppSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasSettings {
		s.settings = core.AppSettings{
			DefaultCurrency: "YER",
			UpdatedAt:       time.Now().UTC(),
		}
		s.hasSettings = true
	}
	return s.settings, nil
}

func (s *Store) SaveSettings(_ context.Context, settings core.AppSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings.UpdatedAt = time.Now().UTC()
	s.settings = settings
	s.hasSettings = true
	return nil
}

func (s *Store) Close() error { return nil }

// chainLocked copies an account's transactions; callers hold s.mu.
func (s *Store) chainLocked(accountID int64) []core.Transaction {
	var chain []core.Transaction
	for _, t := range s.txs {
		if t.AccountID == accountID {
			chain = append(chain, t)
		}
	}
	return chain
}
