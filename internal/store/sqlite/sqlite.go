// Package sqlite is the durable Store implementation over a local SQLite
// database. Every ledger mutation runs inside one database transaction
// guarded by a single process-wide write lock: the sequence counter and the
// affected account's snapshot chain commit as one unit, or roll back as one.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"daftar/internal/core"
	"daftar/internal/store"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
	mu sync.Mutex // serializes all mutations (single-writer contract)
}

var _ store.Store = (*Store)(nil)

func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.CreatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (name, currency, created_at) VALUES (?, ?, ?)`,
		c.Name, c.Currency, fmtTime(c.CreatedAt))
	if err != nil {
		return core.Category{}, fmt.Errorf("insert category: %w", err)
	}
	c.ID, err = res.LastInsertId()
	if err != nil {
		return core.Category{}, fmt.Errorf("category id: %w", err)
	}
	return c, nil
}

func (s *Store) Categories(ctx context.Context) ([]core.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, currency, created_at FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var c core.Category
		var created string
		if err := rows.Scan(&c.ID, &c.Name, &c.Currency, &created); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.CreatedAt = parseTime(created)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) Category(ctx context.Context, id int64) (core.Category, error) {
	var c core.Category
	var created string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, currency, created_at FROM categories WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Currency, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, fmt.Errorf("category %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category: %w", err)
	}
	c.CreatedAt = parseTime(created)
	return c, nil
}

func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var accounts int64
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM accounts WHERE category_id = ?`, id).Scan(&accounts); err != nil {
		return fmt.Errorf("count category accounts: %w", err)
	}
	if accounts > 0 {
		return fmt.Errorf("category %d: %w", id, core.ErrCategoryNotEmpty)
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("category %d: %w", id, core.ErrNotFound)
	}
	return nil
}

func (s *Store) CreateAccount(ctx context.Context, a core.Account) (core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exists int64
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM categories WHERE id = ?`, a.CategoryID).Scan(&exists); err != nil {
		return core.Account{}, fmt.Errorf("check category: %w", err)
	}
	if exists == 0 {
		return core.Account{}, fmt.Errorf("category %d: %w", a.CategoryID, core.ErrNotFound)
	}

	a.CreatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (category_id, name, phone_number, notes, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		a.CategoryID, a.Name, a.PhoneNumber, a.Notes, fmtTime(a.CreatedAt))
	if err != nil {
		return core.Account{}, fmt.Errorf("insert account: %w", err)
	}
	a.ID, err = res.LastInsertId()
	if err != nil {
		return core.Account{}, fmt.Errorf("account id: %w", err)
	}

	slog.InfoContext(ctx, "Account created", "id", a.ID, "category_id", a.CategoryID, "name", a.Name)
	return a, nil
}

func (s *Store) Account(ctx context.Context, id int64) (core.Account, error) {
	var a core.Account
	var created string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, category_id, name, phone_number, notes, created_at
		 FROM accounts WHERE id = ?`, id).
		Scan(&a.ID, &a.CategoryID, &a.Name, &a.PhoneNumber, &a.Notes, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Account{}, fmt.Errorf("account %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Account{}, fmt.Errorf("get account: %w", err)
	}
	a.CreatedAt = parseTime(created)
	return a, nil
}

func (s *Store) AccountsByCategory(ctx context.Context, categoryID int64) ([]core.Account, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, category_id, name, phone_number, notes, created_at
		 FROM accounts WHERE category_id = ? ORDER BY id`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var out []core.Account
	for rows.Next() {
		var a core.Account
		var created string
		if err := rows.Scan(&a.ID, &a.CategoryID, &a.Name, &a.PhoneNumber, &a.Notes, &created); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		a.CreatedAt = parseTime(created)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) DeleteAccount(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var txCount int64
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions WHERE account_id = ?`, id).Scan(&txCount); err != nil {
		return fmt.Errorf("count account transactions: %w", err)
	}
	if txCount > 0 {
		return fmt.Errorf("account %d: %w", id, core.ErrAccountNotEmpty)
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("account %d: %w", id, core.ErrNotFound)
	}
	return nil
}

func (s *Store) InsertTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dbtx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("begin: %w", err)
	}
	defer dbtx.Rollback()

	var exists int64
	if err := dbtx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM accounts WHERE id = ?`, t.AccountID).Scan(&exists); err != nil {
		return core.Transaction{}, fmt.Errorf("check account: %w", err)
	}
	if exists == 0 {
		return core.Transaction{}, fmt.Errorf("account %d: %w", t.AccountID, core.ErrNotFound)
	}

	if err := dbtx.QueryRowContext(ctx,
		`SELECT next_seq FROM ledger_seq WHERE id = 1`).Scan(&t.Seq); err != nil {
		return core.Transaction{}, fmt.Errorf("read sequence: %w", err)
	}
	if _, err := dbtx.ExecContext(ctx,
		`UPDATE ledger_seq SET next_seq = ? WHERE id = 1`, t.Seq+1); err != nil {
		return core.Transaction{}, fmt.Errorf("advance sequence: %w", err)
	}

	t.CreatedAt = time.Now().UTC()
	res, err := dbtx.ExecContext(ctx,
		`INSERT INTO transactions
		 (account_id, seq, amount_cents, type, description, details, currency, tx_date, balance_cents, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, ?)`,
		t.AccountID, t.Seq, t.Amount.Cents, string(t.Type), t.Description, t.Details,
		t.Currency, t.Date.String(), fmtTime(t.CreatedAt))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	t.ID, err = res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction id: %w", err)
	}

	chain, err := chainForAccount(ctx, dbtx, t.AccountID)
	if err != nil {
		return core.Transaction{}, err
	}
	ordered, changed := core.RecomputeChain(chain)
	if err := persistSnapshots(ctx, dbtx, changed); err != nil {
		return core.Transaction{}, err
	}
	for _, u := range ordered {
		if u.ID == t.ID {
			t = u
		}
	}

	if err := dbtx.Commit(); err != nil {
		return core.Transaction{}, fmt.Errorf("commit: %w", err)
	}

	slog.InfoContext(ctx, "Transaction recorded",
		"id", t.ID, "seq", t.Seq, "account_id", t.AccountID,
		"type", string(t.Type), "amount_cents", t.Amount.Cents,
		"balance_cents", t.Balance.Cents, "recomputed", len(changed))
	return t, nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dbtx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer dbtx.Rollback()

	var accountID int64
	err = dbtx.QueryRowContext(ctx,
		`SELECT account_id FROM transactions WHERE id = ?`, id).Scan(&accountID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("transaction %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("get transaction: %w", err)
	}

	if _, err := dbtx.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	chain, err := chainForAccount(ctx, dbtx, accountID)
	if err != nil {
		return err
	}
	_, changed := core.RecomputeChain(chain)
	if err := persistSnapshots(ctx, dbtx, changed); err != nil {
		return err
	}

	if err := dbtx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	slog.InfoContext(ctx, "Transaction deleted",
		"id", id, "account_id", accountID, "recomputed", len(changed))
	return nil
}

func (s *Store) Transaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := s.db.QueryRowContext(ctx, txColumns+` FROM transactions WHERE id = ?`, id)
	t, err := scanTx(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("transaction %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

func (s *Store) TransactionsByAccount(ctx context.Context, accountID int64) ([]core.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		txColumns+` FROM transactions WHERE account_id = ? ORDER BY tx_date, seq`, accountID)
	if err != nil {
		return nil, fmt.Errorf("list account transactions: %w", err)
	}
	defer rows.Close()
	return collectTxs(rows)
}

func (s *Store) AllTransactions(ctx context.Context) ([]store.SearchRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT t.id, t.account_id, t.seq, t.amount_cents, t.type, t.description,
		        t.details, t.currency, t.tx_date, t.balance_cents, t.created_at,
		        COALESCE(a.name, '')
		 FROM transactions t
		 LEFT JOIN accounts a ON a.id = t.account_id
		 ORDER BY t.seq`)
	if err != nil {
		return nil, fmt.Errorf("list all transactions: %w", err)
	}
	defer rows.Close()

	var out []store.SearchRow
	for rows.Next() {
		var t core.Transaction
		var typ, date, created, accountName string
		if err := rows.Scan(&t.ID, &t.AccountID, &t.Seq, &t.Amount.Cents, &typ,
			&t.Description, &t.Details, &t.Currency, &date, &t.Balance.Cents,
			&created, &accountName); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Type = core.TxType(typ)
		t.Date, _ = core.ParseDate(date)
		t.CreatedAt = parseTime(created)
		out = append(out, store.SearchRow{Transaction: t, AccountName: accountName})
	}
	return out, rows.Err()
}

func (s *Store) AccountBalance(ctx context.Context, accountID int64) (core.Money, error) {
	var exists int64
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM accounts WHERE id = ?`, accountID).Scan(&exists); err != nil {
		return core.Money{}, fmt.Errorf("check account: %w", err)
	}
	if exists == 0 {
		return core.Money{}, fmt.Errorf("account %d: %w", accountID, core.ErrNotFound)
	}

	var cents int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE((SELECT balance_cents FROM transactions
		   WHERE account_id = ? ORDER BY tx_date DESC, seq DESC LIMIT 1), 0)`,
		accountID).Scan(&cents)
	if err != nil {
		return core.Money{}, fmt.Errorf("account balance: %w", err)
	}
	return core.Money{Cents: cents}, nil
}

func (s *Store) AccountBalances(ctx context.Context) ([]store.AccountBalance, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT a.id, a.category_id, a.name, a.phone_number, a.notes, a.created_at,
		        COALESCE((SELECT t.balance_cents FROM transactions t
		          WHERE t.account_id = a.id ORDER BY t.tx_date DESC, t.seq DESC LIMIT 1), 0)
		 FROM accounts a ORDER BY a.id`)
	if err != nil {
		return nil, fmt.Errorf("list account balances: %w", err)
	}
	defer rows.Close()

	var out []store.AccountBalance
	for rows.Next() {
		var ab store.AccountBalance
		var created string
		if err := rows.Scan(&ab.Account.ID, &ab.Account.CategoryID, &ab.Account.Name,
			&ab.Account.PhoneNumber, &ab.Account.Notes, &created, &ab.Balance.Cents); err != nil {
			return nil, fmt.Errorf("scan account balance: %w", err)
		}
		ab.Account.CreatedAt = parseTime(created)
		out = append(out, ab)
	}
	return out, rows.Err()
}

func (s *Store) Totals(ctx context.Context) (store.Totals, error) {
	var t store.Totals
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN type = 'credit' THEN amount_cents ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN type = 'debit' THEN amount_cents ELSE 0 END), 0)
		 FROM transactions`).
		Scan(&t.Transactions, &t.CreditCents, &t.DebitCents)
	if err != nil {
		return store.Totals{}, fmt.Errorf("ledger totals: %w", err)
	}
	return t, nil
}

func (s *Store) Settings(ctx context.Context) (core.AppSettings, error) {
	var a core.AppSettings
	var pinEnabled int64
	var updated string
	err := s.db.QueryRowContext(ctx,
		`SELECT company_name_ar, company_name_en, phone_number, address,
		        default_currency, pin_enabled, pin_hash, pin_salt, updated_at
		 FROM settings WHERE id = 1`).
		Scan(&a.CompanyNameAr, &a.CompanyNameEn, &a.PhoneNumber, &a.Address,
			&a.DefaultCurrency, &pinEnabled, &a.PinHash, &a.PinSalt, &updated)
	if err != nil {
		return core.AppSettings{}, fmt.Errorf("get settings: %w", err)
	}
	a.PinEnabled = pinEnabled != 0
	a.UpdatedAt = parseTime(updated)
	return a, nil
}

func (s *Store) SaveSettings(ctx context.Context, a core.AppSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a.UpdatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`UPDATE settings SET company_name_ar = ?, company_name_en = ?, phone_number = ?,
		        address = ?, default_currency = ?, pin_enabled = ?, pin_hash = ?,
		        pin_salt = ?, updated_at = ?
		 WHERE id = 1`,
		a.CompanyNameAr, a.CompanyNameEn, a.PhoneNumber, a.Address,
		a.DefaultCurrency, boolInt(a.PinEnabled), a.PinHash, a.PinSalt, fmtTime(a.UpdatedAt))
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

const txColumns = `SELECT id, account_id, seq, amount_cents, type, description,
	details, currency, tx_date, balance_cents, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTx(r rowScanner) (core.Transaction, error) {
	var t core.Transaction
	var typ, date, created string
	err := r.Scan(&t.ID, &t.AccountID, &t.Seq, &t.Amount.Cents, &typ,
		&t.Description, &t.Details, &t.Currency, &date, &t.Balance.Cents, &created)
	if err != nil {
		return core.Transaction{}, err
	}
	t.Type = core.TxType(typ)
	t.Date, _ = core.ParseDate(date)
	t.CreatedAt = parseTime(created)
	return t, nil
}

func collectTxs(rows *sql.Rows) ([]core.Transaction, error) {
	var out []core.Transaction
	for rows.Next() {
		t, err := scanTx(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// chainForAccount loads the account's full chain inside the mutation's
// database transaction so the recompute sees the uncommitted edit.
func chainForAccount(ctx context.Context, dbtx *sql.Tx, accountID int64) ([]core.Transaction, error) {
	rows, err := dbtx.QueryContext(ctx,
		txColumns+` FROM transactions WHERE account_id = ? ORDER BY tx_date, seq`, accountID)
	if err != nil {
		return nil, fmt.Errorf("load chain: %w", err)
	}
	defer rows.Close()
	return collectTxs(rows)
}

func persistSnapshots(ctx context.Context, dbtx *sql.Tx, changed []core.Transaction) error {
	for _, u := range changed {
		if _, err := dbtx.ExecContext(ctx,
			`UPDATE transactions SET balance_cents = ? WHERE id = ?`,
			u.Balance.Cents, u.ID); err != nil {
			return fmt.Errorf("update snapshot %d: %w", u.ID, err)
		}
	}
	return nil
}

func fmtTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
