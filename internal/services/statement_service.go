package services

import (
	"context"
	"fmt"

	"daftar/internal/arabic"
	"daftar/internal/core"
	"daftar/internal/hijri"
	"daftar/internal/store"
)

// StatementLine is one chain entry on a printed statement, with its dual
// Gregorian/Hijri date.
type StatementLine struct {
	Transaction core.Transaction `json:"transaction"`
	Date        hijri.DateBox    `json:"date"`
}

// Statement is a printable account summary over a date range. Opening is
// the balance carried in from before the range; Closing is the last
// snapshot inside it (or Opening when the range is empty).
type Statement struct {
	Account        core.Account    `json:"account"`
	From           core.Date       `json:"from"`
	To             core.Date       `json:"to"`
	Opening        core.Money      `json:"opening"`
	Lines          []StatementLine `json:"lines"`
	Closing        core.Money      `json:"closing"`
	TotalCredit    core.Money      `json:"total_credit"`
	TotalDebit     core.Money      `json:"total_debit"`
	ClosingInWords string          `json:"closing_in_words"`
}

// StatementService assembles account statements for printing and sharing.
type StatementService struct {
	store store.Store
}

func NewStatementService(st store.Store) *StatementService {
	return &StatementService{store: st}
}

func (s *StatementService) Statement(ctx context.Context, accountID int64, from, to core.Date) (Statement, error) {
	if to.Before(from) {
		return Statement{}, fmt.Errorf("statement range %s..%s: %w", from, to, core.ErrInvalidDate)
	}

	account, err := s.store.Account(ctx, accountID)
	if err != nil {
		return Statement{}, err
	}
	category, err := s.store.Category(ctx, account.CategoryID)
	if err != nil {
		return Statement{}, fmt.Errorf("resolve currency: %w", err)
	}
	chain, err := s.store.TransactionsByAccount(ctx, accountID)
	if err != nil {
		return Statement{}, fmt.Errorf("load chain: %w", err)
	}

	st := Statement{Account: account, From: from, To: to}
	for _, t := range chain {
		if t.Date.Before(from) {
			// The chain is snapshot-ordered, so the last entry before the
			// range carries the opening balance.
			st.Opening = t.Balance
			continue
		}
		if to.Before(t.Date) {
			break
		}

		box, err := hijri.FormatDateBox(t.Date.Time)
		if err != nil {
			return Statement{}, fmt.Errorf("transaction %d date: %w", t.ID, err)
		}
		st.Lines = append(st.Lines, StatementLine{Transaction: t, Date: box})

		switch t.Type {
		case core.Credit:
			st.TotalCredit.Cents += t.Amount.Cents
		case core.Debit:
			st.TotalDebit.Cents += t.Amount.Cents
		}
	}

	st.Closing = st.Opening
	if n := len(st.Lines); n > 0 {
		st.Closing = st.Lines[n-1].Transaction.Balance
	}
	// Rounded half-up to the whole unit before spelling out; statements
	// quote fractions in figures only.
	whole := (st.Closing.Abs().Cents + 50) / 100
	st.ClosingInWords = arabic.AmountInWords(whole, category.Currency)
	return st, nil
}
