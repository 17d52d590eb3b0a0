package memory

import (
	"context"
	"errors"
	"testing"

	"daftar/internal/core"
)

func seedAccount(t *testing.T, s *Store) core.Account {
	t.Helper()
	ctx := context.Background()
	cat, err := s.CreateCategory(ctx, core.Category{Name: "عملاء", Currency: "YER"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	acc, err := s.CreateAccount(ctx, core.Account{CategoryID: cat.ID, Name: "أحمد", PhoneNumber: "777000111"})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	return acc
}

func insert(t *testing.T, s *Store, accountID int64, typ core.TxType, amount int64, date core.Date) core.Transaction {
	t.Helper()
	tx, err := s.InsertTransaction(context.Background(), core.Transaction{
		AccountID:   accountID,
		Amount:      core.Money{Cents: amount},
		Type:        typ,
		Description: "t",
		Currency:    "YER",
		Date:        date,
	})
	if err != nil {
		t.Fatalf("insert transaction: %v", err)
	}
	return tx
}

func TestSequenceNeverReused(t *testing.T) {
	s := New()
	acc := seedAccount(t, s)
	ctx := context.Background()

	t1 := insert(t, s, acc.ID, core.Credit, 100, core.NewDate(2025, 1, 1))
	t2 := insert(t, s, acc.ID, core.Credit, 100, core.NewDate(2025, 1, 2))
	if t2.Seq <= t1.Seq {
		t.Fatalf("sequence must be strictly increasing: %d then %d", t1.Seq, t2.Seq)
	}

	if err := s.DeleteTransaction(ctx, t2.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	t3 := insert(t, s, acc.ID, core.Credit, 100, core.NewDate(2025, 1, 3))
	if t3.Seq <= t2.Seq {
		t.Fatalf("sequence %d reused after deletion of %d", t3.Seq, t2.Seq)
	}
}

func TestBackdatedCascade(t *testing.T) {
	s := New()
	acc := seedAccount(t, s)
	ctx := context.Background()

	credit := insert(t, s, acc.ID, core.Credit, 500, core.NewDate(2025, 3, 2))
	if credit.Balance.Cents != 500 {
		t.Fatalf("expected snapshot 500, got %d", credit.Balance.Cents)
	}

	debit := insert(t, s, acc.ID, core.Debit, 200, core.NewDate(2025, 3, 1))
	if debit.Balance.Cents != -200 {
		t.Fatalf("expected backdated snapshot -200, got %d", debit.Balance.Cents)
	}

	chain, err := s.TransactionsByAccount(ctx, acc.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(chain) != 2 || chain[0].ID != debit.ID || chain[1].ID != credit.ID {
		t.Fatalf("expected [debit credit] order, got %+v", chain)
	}
	if chain[1].Balance.Cents != 300 {
		t.Fatalf("expected downstream snapshot recomputed to 300, got %d", chain[1].Balance.Cents)
	}

	bal, err := s.AccountBalance(ctx, acc.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if bal.Cents != 300 {
		t.Fatalf("expected balance 300, got %d", bal.Cents)
	}

	if err := s.DeleteTransaction(ctx, debit.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	chain, _ = s.TransactionsByAccount(ctx, acc.ID)
	if len(chain) != 1 || chain[0].Balance.Cents != 500 {
		t.Fatalf("expected snapshot reverted to 500, got %+v", chain)
	}
}

func TestDeleteMissingTransactionTwice(t *testing.T) {
	s := New()
	acc := seedAccount(t, s)
	ctx := context.Background()
	insert(t, s, acc.ID, core.Credit, 100, core.NewDate(2025, 1, 1))

	for i := 0; i < 2; i++ {
		if err := s.DeleteTransaction(ctx, 999); !errors.Is(err, core.ErrNotFound) {
			t.Fatalf("attempt %d: expected ErrNotFound, got %v", i, err)
		}
	}
	bal, _ := s.AccountBalance(ctx, acc.ID)
	if bal.Cents != 100 {
		t.Fatalf("ledger state changed by failed deletes: %d", bal.Cents)
	}
}

func TestDeletePoliciesBlockNonEmpty(t *testing.T) {
	s := New()
	acc := seedAccount(t, s)
	ctx := context.Background()
	tx := insert(t, s, acc.ID, core.Credit, 100, core.NewDate(2025, 1, 1))

	if err := s.DeleteAccount(ctx, acc.ID); !errors.Is(err, core.ErrAccountNotEmpty) {
		t.Fatalf("expected ErrAccountNotEmpty, got %v", err)
	}
	if err := s.DeleteCategory(ctx, acc.CategoryID); !errors.Is(err, core.ErrCategoryNotEmpty) {
		t.Fatalf("expected ErrCategoryNotEmpty, got %v", err)
	}

	if err := s.DeleteTransaction(ctx, tx.ID); err != nil {
		t.Fatalf("delete transaction: %v", err)
	}
	if err := s.DeleteAccount(ctx, acc.ID); err != nil {
		t.Fatalf("delete empty account: %v", err)
	}
	if err := s.DeleteCategory(ctx, acc.CategoryID); err != nil {
		t.Fatalf("delete empty category: %v", err)
	}
}

func TestSettingsSingleton(t *testing.T) {
	s := New()
	ctx := context.Background()

	settings, err := s.Settings(ctx)
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	if settings.DefaultCurrency != "YER" || settings.PinEnabled {
		t.Fatalf("unexpected defaults: %+v", settings)
	}

	settings.CompanyNameAr = "منزل المحاسب"
	if err := s.SaveSettings(ctx, settings); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, _ := s.Settings(ctx)
	if got.CompanyNameAr != "منزل المحاسب" {
		t.Fatalf("settings not persisted: %+v", got)
	}
}
