// Package store defines the durable-store contract the ledger services run
// against, with a SQLite implementation for production and an in-memory
// implementation for tests and ephemeral runs.
package store

import (
	"context"

	"daftar/internal/core"
)

// AccountBalance pairs an account with its derived balance (the snapshot of
// its last transaction in chain order, or zero).
type AccountBalance struct {
	Account core.Account
	Balance core.Money
}

// SearchRow is a transaction joined with its account name for display.
// AccountName may be empty if the back-reference is dangling; readers treat
// that as skip-and-continue.
type SearchRow struct {
	Transaction core.Transaction
	AccountName string
}

// Totals are ledger-wide transaction aggregates; Credit and Debit are sums
// of absolute amounts, not netted.
type Totals struct {
	Transactions int64
	CreditCents  int64
	DebitCents   int64
}

// Store is the durable ordered store behind the ledger.
//
// Mutating transaction operations are atomic units: sequence assignment,
// the row write, and every downstream snapshot update commit together or
// not at all. Implementations serialize mutations behind a single write
// lock; reads observe committed state only.
type Store interface {
	CreateCategory(ctx context.Context, c core.Category) (core.Category, error)
	Categories(ctx context.Context) ([]core.Category, error)
	Category(ctx context.Context, id int64) (core.Category, error)
	// DeleteCategory fails with core.ErrCategoryNotEmpty while accounts
	// still reference the category.
	DeleteCategory(ctx context.Context, id int64) error

	CreateAccount(ctx context.Context, a core.Account) (core.Account, error)
	Account(ctx context.Context, id int64) (core.Account, error)
	AccountsByCategory(ctx context.Context, categoryID int64) ([]core.Account, error)
	// DeleteAccount fails with core.ErrAccountNotEmpty while transactions
	// still reference the account.
	DeleteAccount(ctx context.Context, id int64) error

	// InsertTransaction assigns the ID and the next global sequence number,
	// recomputes the account's running-balance chain, and persists the new
	// row plus every changed snapshot atomically. The stored transaction
	// (with ID, Seq, and Balance filled in) is returned.
	InsertTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
	// DeleteTransaction removes the row and recomputes the remaining chain.
	// Sequence numbers of other transactions are never altered or reused.
	DeleteTransaction(ctx context.Context, id int64) error
	Transaction(ctx context.Context, id int64) (core.Transaction, error)
	// TransactionsByAccount returns the account's chain in (date, seq)
	// ascending order as an independent slice, never a live cursor.
	TransactionsByAccount(ctx context.Context, accountID int64) ([]core.Transaction, error)
	AllTransactions(ctx context.Context) ([]SearchRow, error)

	AccountBalance(ctx context.Context, accountID int64) (core.Money, error)
	AccountBalances(ctx context.Context) ([]AccountBalance, error)
	Totals(ctx context.Context) (Totals, error)

	// Settings returns the singleton record, creating it with defaults on
	// first access.
	Settings(ctx context.Context) (core.AppSettings, error)
	SaveSettings(ctx context.Context, s core.AppSettings) error

	Close() error
}
