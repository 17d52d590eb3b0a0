package services

import (
	"context"
	"testing"
	"time"

	"daftar/internal/core"
	"daftar/internal/store/memory"
)

func seedLedger(t *testing.T) (*LedgerService, *StatsService) {
	t.Helper()
	ctx := context.Background()

	st := memory.New()
	ledger := NewLedgerService(st)
	stats := NewStatsService(st, 4, time.Minute)
	ledger.SetInvalidator(stats)

	customers, err := ledger.CreateCategory(ctx, "عملاء", "YER")
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}
	suppliers, err := ledger.CreateCategory(ctx, "موردون", "YER")
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}

	type seed struct {
		category int64
		name     string
		txs      []core.Transaction
	}
	seeds := []seed{
		{customers.ID, "أحمد", []core.Transaction{
			{Amount: core.Money{Cents: 80000}, Type: core.Credit, Description: "دفعة", Date: core.NewDate(2025, 1, 5)},
		}},
		{customers.ID, "سالم", []core.Transaction{
			{Amount: core.Money{Cents: 80000}, Type: core.Credit, Description: "دفعة", Date: core.NewDate(2025, 1, 6)},
		}},
		{suppliers.ID, "شركة الغذاء", []core.Transaction{
			{Amount: core.Money{Cents: 120000}, Type: core.Debit, Description: "بضاعة", Date: core.NewDate(2025, 1, 7)},
		}},
	}
	for _, sd := range seeds {
		acc, err := ledger.CreateAccount(ctx, core.Account{CategoryID: sd.category, Name: sd.name})
		if err != nil {
			t.Fatalf("CreateAccount(%s) error = %v", sd.name, err)
		}
		for _, tx := range sd.txs {
			tx.AccountID = acc.ID
			if _, err := ledger.CreateTransaction(ctx, tx); err != nil {
				t.Fatalf("CreateTransaction(%s) error = %v", sd.name, err)
			}
		}
	}
	return ledger, stats
}

func TestDashboard(t *testing.T) {
	_, stats := seedLedger(t)
	ctx := context.Background()

	got, err := stats.Dashboard(ctx)
	if err != nil {
		t.Fatalf("Dashboard() error = %v", err)
	}

	if got.TotalAccounts != 3 || got.TotalTransactions != 3 {
		t.Errorf("counts = %d accounts, %d transactions, want 3, 3",
			got.TotalAccounts, got.TotalTransactions)
	}
	if got.TotalCredit.Cents != 160000 || got.TotalDebit.Cents != 120000 {
		t.Errorf("totals = credit %d, debit %d, want 160000, 120000",
			got.TotalCredit.Cents, got.TotalDebit.Cents)
	}
	if got.NetBalance.Cents != 40000 {
		t.Errorf("NetBalance = %d, want 40000", got.NetBalance.Cents)
	}

	// أحمد and سالم tie at 80000; the older account wins.
	if got.LargestCredit == nil || got.LargestCredit.Name != "أحمد" {
		t.Errorf("LargestCredit = %+v, want أحمد", got.LargestCredit)
	}
	if got.LargestDebit == nil || got.LargestDebit.Name != "شركة الغذاء" {
		t.Errorf("LargestDebit = %+v, want شركة الغذاء", got.LargestDebit)
	}

	if len(got.Categories) != 2 {
		t.Fatalf("categories = %d, want 2", len(got.Categories))
	}
	if got.Categories[0].Accounts != 2 || got.Categories[0].Balance.Cents != 160000 {
		t.Errorf("customers stat = %+v, want 2 accounts, 160000", got.Categories[0])
	}
	if got.Categories[0].TotalCredit.Cents != 160000 || got.Categories[0].TotalDebit.Cents != 0 {
		t.Errorf("customers credit/debit = %d/%d, want 160000/0",
			got.Categories[0].TotalCredit.Cents, got.Categories[0].TotalDebit.Cents)
	}
	if got.Categories[1].Balance.Cents != -120000 {
		t.Errorf("suppliers balance = %d, want -120000", got.Categories[1].Balance.Cents)
	}
	if got.Categories[1].TotalCredit.Cents != 0 || got.Categories[1].TotalDebit.Cents != 120000 {
		t.Errorf("suppliers credit/debit = %d/%d, want 0/120000",
			got.Categories[1].TotalCredit.Cents, got.Categories[1].TotalDebit.Cents)
	}
}

func TestCategoryStatSplitsCreditAndDebit(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	ledger := NewLedgerService(st)
	stats := NewStatsService(st, 4, time.Minute)
	ledger.SetInvalidator(stats)

	cat, err := ledger.CreateCategory(ctx, "عملاء", "YER")
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}
	seeds := []struct {
		name   string
		amount int64
		typ    core.TxType
	}{
		{"دائن", 50000, core.Credit},
		{"مدين", 80000, core.Debit},
	}
	for _, sd := range seeds {
		acc, err := ledger.CreateAccount(ctx, core.Account{CategoryID: cat.ID, Name: sd.name})
		if err != nil {
			t.Fatalf("CreateAccount(%s) error = %v", sd.name, err)
		}
		if _, err := ledger.CreateTransaction(ctx, core.Transaction{
			AccountID: acc.ID, Amount: core.Money{Cents: sd.amount}, Type: sd.typ,
			Description: "قيد", Date: core.NewDate(2025, 1, 1),
		}); err != nil {
			t.Fatalf("CreateTransaction(%s) error = %v", sd.name, err)
		}
	}

	got, err := stats.Dashboard(ctx)
	if err != nil {
		t.Fatalf("Dashboard() error = %v", err)
	}
	if len(got.Categories) != 1 {
		t.Fatalf("categories = %d, want 1", len(got.Categories))
	}
	cs := got.Categories[0]
	// One account at +50000 and one at -80000: both subtotals present,
	// the net carries the difference.
	if cs.TotalCredit.Cents != 50000 || cs.TotalDebit.Cents != 80000 || cs.Balance.Cents != -30000 {
		t.Errorf("category stat = credit %d, debit %d, net %d, want 50000, 80000, -30000",
			cs.TotalCredit.Cents, cs.TotalDebit.Cents, cs.Balance.Cents)
	}
}

func TestDashboardEmptyLedger(t *testing.T) {
	stats := NewStatsService(memory.New(), 4, time.Minute)

	got, err := stats.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("Dashboard() error = %v", err)
	}
	if got.LargestCredit != nil || got.LargestDebit != nil {
		t.Errorf("empty ledger extremes = %+v / %+v, want nil", got.LargestCredit, got.LargestDebit)
	}
	if got.NetBalance.Cents != 0 {
		t.Errorf("NetBalance = %d, want 0", got.NetBalance.Cents)
	}
}

func TestDashboardCacheInvalidation(t *testing.T) {
	ledger, stats := seedLedger(t)
	ctx := context.Background()

	before, err := stats.Dashboard(ctx)
	if err != nil {
		t.Fatalf("Dashboard() error = %v", err)
	}

	accounts, err := ledger.AccountsByCategory(ctx, before.Categories[0].CategoryID)
	if err != nil {
		t.Fatalf("AccountsByCategory() error = %v", err)
	}
	if _, err := ledger.CreateTransaction(ctx, core.Transaction{
		AccountID: accounts[0].ID, Amount: core.Money{Cents: 5000}, Type: core.Credit,
		Description: "دفعة إضافية", Date: core.NewDate(2025, 2, 1),
	}); err != nil {
		t.Fatalf("CreateTransaction() error = %v", err)
	}

	after, err := stats.Dashboard(ctx)
	if err != nil {
		t.Fatalf("Dashboard() error = %v", err)
	}
	if after.TotalTransactions != before.TotalTransactions+1 {
		t.Errorf("cached snapshot served after mutation: %d transactions, want %d",
			after.TotalTransactions, before.TotalTransactions+1)
	}
}

func TestTopAccounts(t *testing.T) {
	_, stats := seedLedger(t)

	top, err := stats.TopAccounts(context.Background(), 2)
	if err != nil {
		t.Fatalf("TopAccounts() error = %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("TopAccounts(2) returned %d rows", len(top))
	}
	// 120000 debt outranks the 80000 credits by magnitude.
	if top[0].Name != "شركة الغذاء" {
		t.Errorf("top[0] = %s, want شركة الغذاء", top[0].Name)
	}
	if top[1].Name != "أحمد" {
		t.Errorf("top[1] = %s, want أحمد (older of the tied accounts)", top[1].Name)
	}

	if none, _ := stats.TopAccounts(context.Background(), 0); none != nil {
		t.Errorf("TopAccounts(0) = %v, want nil", none)
	}
}
