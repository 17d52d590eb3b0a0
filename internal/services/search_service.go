package services

import (
	"context"
	"fmt"
	"strings"

	"daftar/internal/arabic"
	"daftar/internal/core"
	"daftar/internal/store"
)

// Filter narrows a transaction search. Nil fields do not constrain; set
// fields combine with AND. Date and amount bounds are inclusive.
type Filter struct {
	Type      *core.TxType
	DateFrom  *core.Date
	DateTo    *core.Date
	MinAmount *core.Money
	MaxAmount *core.Money
	AccountID *int64
}

// SearchService runs text search over the whole ledger. Matching is
// Arabic-aware: both query and fields are normalized before comparison, so
// "هديه" finds "هَدِيَّة".
type SearchService struct {
	store store.Store
}

func NewSearchService(st store.Store) *SearchService {
	return &SearchService{store: st}
}

// Search returns transactions whose description, details, or account name
// contains the normalized query and which pass the filter. An empty query
// with a non-empty filter still filters; an empty query with an empty
// filter returns everything in sequence order.
func (s *SearchService) Search(ctx context.Context, query string, filter Filter) ([]store.SearchRow, error) {
	rows, err := s.store.AllTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}

	query = strings.TrimSpace(query)
	out := make([]store.SearchRow, 0, len(rows))
	for _, row := range rows {
		if !matchesFilter(row.Transaction, filter) {
			continue
		}
		if query != "" && !matchesQuery(row, query) {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func matchesQuery(row store.SearchRow, query string) bool {
	return arabic.Contains(row.Transaction.Description, query) ||
		arabic.Contains(row.Transaction.Details, query) ||
		arabic.Contains(row.AccountName, query)
}

func matchesFilter(t core.Transaction, f Filter) bool {
	if f.Type != nil && t.Type != *f.Type {
		return false
	}
	if f.AccountID != nil && t.AccountID != *f.AccountID {
		return false
	}
	if f.DateFrom != nil && t.Date.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && f.DateTo.Before(t.Date) {
		return false
	}
	if f.MinAmount != nil && t.Amount.Cents < f.MinAmount.Cents {
		return false
	}
	if f.MaxAmount != nil && t.Amount.Cents > f.MaxAmount.Cents {
		return false
	}
	return true
}
