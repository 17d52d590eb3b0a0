package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/singleflight"

	"daftar/internal/cache"
	"daftar/internal/core"
	"daftar/internal/store"
)

// AccountAmount pairs an account with a money figure for ranking output.
type AccountAmount struct {
	AccountID int64      `json:"account_id"`
	Name      string     `json:"name"`
	Amount    core.Money `json:"amount"`
}

// CategoryStat aggregates the accounts of one category over their current
// balances: TotalCredit sums the positive ones, TotalDebit the magnitudes
// of the negative ones, Balance the net of both.
type CategoryStat struct {
	CategoryID  int64      `json:"category_id"`
	Name        string     `json:"name"`
	Currency    string     `json:"currency"`
	Accounts    int64      `json:"accounts"`
	TotalCredit core.Money `json:"total_credit"`
	TotalDebit  core.Money `json:"total_debit"`
	Balance     core.Money `json:"balance"`
}

// DashboardStats is the ledger-wide summary shown on the home screen.
type DashboardStats struct {
	TotalAccounts     int64          `json:"total_accounts"`
	TotalTransactions int64          `json:"total_transactions"`
	TotalCredit       core.Money     `json:"total_credit"`
	TotalDebit        core.Money     `json:"total_debit"`
	NetBalance        core.Money     `json:"net_balance"`
	LargestCredit     *AccountAmount `json:"largest_credit,omitempty"`
	LargestDebit      *AccountAmount `json:"largest_debit,omitempty"`
	Categories        []CategoryStat `json:"categories"`
}

const dashboardCacheKey = "dashboard"

// StatsService computes dashboard aggregates over the whole ledger. Results
// are cached; concurrent cache misses share one computation through
// singleflight.
type StatsService struct {
	store store.Store
	cache *cache.LRUCache[DashboardStats]
	group singleflight.Group
}

func NewStatsService(st store.Store, size int, ttl time.Duration) *StatsService {
	return &StatsService{
		store: st,
		cache: cache.NewLRUCache[DashboardStats](size, ttl),
	}
}

// Cache exposes the underlying cache for expiry sweeps.
func (s *StatsService) Cache() cache.Cleaner {
	return s.cache
}

// Invalidate drops the cached snapshot. Called after every ledger mutation.
func (s *StatsService) Invalidate() {
	s.cache.Delete(dashboardCacheKey)
}

func (s *StatsService) Dashboard(ctx context.Context) (DashboardStats, error) {
	if snapshot, ok := s.cache.Get(dashboardCacheKey); ok {
		return snapshot, nil
	}

	result, err, _ := s.group.Do(dashboardCacheKey, func() (any, error) {
		snapshot, err := s.compute(ctx)
		if err != nil {
			return DashboardStats{}, err
		}
		s.cache.Set(dashboardCacheKey, snapshot)
		return snapshot, nil
	})
	if err != nil {
		return DashboardStats{}, err
	}
	return result.(DashboardStats), nil
}

// TopAccounts ranks accounts by the magnitude of their current balance.
// Ties keep the older account first.
func (s *StatsService) TopAccounts(ctx context.Context, n int) ([]AccountAmount, error) {
	if n < 1 {
		return nil, nil
	}

	balances, err := s.store.AccountBalances(ctx)
	if err != nil {
		return nil, fmt.Errorf("load balances: %w", err)
	}

	ranked := make([]AccountAmount, 0, len(balances))
	for _, ab := range balances {
		ranked = append(ranked, AccountAmount{
			AccountID: ab.Account.ID,
			Name:      ab.Account.Name,
			Amount:    ab.Balance,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		ai, aj := ranked[i].Amount.Abs().Cents, ranked[j].Amount.Abs().Cents
		if ai != aj {
			return ai > aj
		}
		return ranked[i].AccountID < ranked[j].AccountID
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked, nil
}

func (s *StatsService) compute(ctx context.Context) (DashboardStats, error) {
	totals, err := s.store.Totals(ctx)
	if err != nil {
		return DashboardStats{}, fmt.Errorf("ledger totals: %w", err)
	}
	balances, err := s.store.AccountBalances(ctx)
	if err != nil {
		return DashboardStats{}, fmt.Errorf("load balances: %w", err)
	}
	categories, err := s.store.Categories(ctx)
	if err != nil {
		return DashboardStats{}, fmt.Errorf("load categories: %w", err)
	}

	stats := DashboardStats{
		TotalAccounts:     int64(len(balances)),
		TotalTransactions: totals.Transactions,
		TotalCredit:       core.Money{Cents: totals.CreditCents},
		TotalDebit:        core.Money{Cents: totals.DebitCents},
		NetBalance:        core.Money{Cents: totals.CreditCents - totals.DebitCents},
	}

	byCategory := make(map[int64]*CategoryStat, len(categories))
	for _, c := range categories {
		stat := &CategoryStat{CategoryID: c.ID, Name: c.Name, Currency: c.Currency}
		byCategory[c.ID] = stat
	}

	// Balances come back ordered by account ID, so plain > / < comparisons
	// leave the oldest account as the tie winner.
	for _, ab := range balances {
		if stat, ok := byCategory[ab.Account.CategoryID]; ok {
			stat.Accounts++
			stat.Balance.Cents += ab.Balance.Cents
			if ab.Balance.Cents > 0 {
				stat.TotalCredit.Cents += ab.Balance.Cents
			} else {
				stat.TotalDebit.Cents += -ab.Balance.Cents
			}
		}
		if ab.Balance.Cents > 0 {
			if stats.LargestCredit == nil || ab.Balance.Cents > stats.LargestCredit.Amount.Cents {
				stats.LargestCredit = &AccountAmount{
					AccountID: ab.Account.ID, Name: ab.Account.Name, Amount: ab.Balance,
				}
			}
		}
		if ab.Balance.Cents < 0 {
			if stats.LargestDebit == nil || ab.Balance.Cents < stats.LargestDebit.Amount.Cents {
				stats.LargestDebit = &AccountAmount{
					AccountID: ab.Account.ID, Name: ab.Account.Name, Amount: ab.Balance,
				}
			}
		}
	}

	stats.Categories = make([]CategoryStat, 0, len(categories))
	for _, c := range categories {
		stats.Categories = append(stats.Categories, *byCategory[c.ID])
	}
	return stats, nil
}
