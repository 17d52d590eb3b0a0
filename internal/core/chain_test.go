package core

import "testing"

func tx(seq int64, date Date, typ TxType, amount, balance int64) Transaction {
	return Transaction{
		ID:          seq,
		AccountID:   1,
		Seq:         seq,
		Amount:      Money{Cents: amount},
		Type:        typ,
		Description: "t",
		Date:        date,
		Balance:     Money{Cents: balance},
	}
}

func TestRecomputeChainAppend(t *testing.T) {
	chain := []Transaction{
		tx(1, NewDate(2025, 1, 2), Credit, 500, 0),
	}
	ordered, changed := RecomputeChain(chain)
	if len(changed) != 1 || ordered[0].Balance.Cents != 500 {
		t.Fatalf("expected single snapshot 500, got %+v", ordered)
	}
	if ChainBalance(ordered).Cents != 500 {
		t.Fatalf("expected balance 500, got %d", ChainBalance(ordered).Cents)
	}
}

func TestRecomputeChainBackdated(t *testing.T) {
	// Credit 500 on day 2 (snapshot 500), then a debit 200 arrives dated
	// day 1: the debit lands first in chain order with snapshot -200 and
	// the credit is recomputed to 300.
	chain := []Transaction{
		tx(1, NewDate(2025, 1, 2), Credit, 500, 500),
		tx(2, NewDate(2025, 1, 1), Debit, 200, 0),
	}
	ordered, changed := RecomputeChain(chain)
	if ordered[0].Seq != 2 || ordered[1].Seq != 1 {
		t.Fatalf("expected chain order [2 1], got [%d %d]", ordered[0].Seq, ordered[1].Seq)
	}
	if ordered[0].Balance.Cents != -200 || ordered[1].Balance.Cents != 300 {
		t.Fatalf("expected snapshots [-200 300], got [%d %d]",
			ordered[0].Balance.Cents, ordered[1].Balance.Cents)
	}
	if len(changed) != 2 {
		t.Fatalf("expected both snapshots changed, got %d", len(changed))
	}

	// Deleting the backdated debit reverts the credit's snapshot to 500.
	ordered, changed = RecomputeChain(ordered[1:])
	if len(changed) != 1 || ordered[0].Balance.Cents != 500 {
		t.Fatalf("expected snapshot reverted to 500, got %+v", ordered)
	}
}

func TestRecomputeChainEarlierUntouched(t *testing.T) {
	chain := []Transaction{
		tx(1, NewDate(2025, 1, 1), Credit, 100, 100),
		tx(2, NewDate(2025, 1, 3), Credit, 100, 200),
		tx(3, NewDate(2025, 1, 2), Debit, 50, 0),
	}
	ordered, changed := RecomputeChain(chain)
	want := []int64{100, 50, 150}
	for i, w := range want {
		if ordered[i].Balance.Cents != w {
			t.Fatalf("snapshot %d: expected %d, got %d", i, w, ordered[i].Balance.Cents)
		}
	}
	// Only the insertion point and its downstream change.
	if len(changed) != 2 {
		t.Fatalf("expected 2 changed snapshots, got %d", len(changed))
	}
	for _, c := range changed {
		if c.Seq == 1 {
			t.Fatalf("snapshot before the insertion point must not change")
		}
	}
}

func TestChainLessSameDayBySeq(t *testing.T) {
	a := tx(5, NewDate(2025, 1, 1), Credit, 10, 0)
	b := tx(9, NewDate(2025, 1, 1), Credit, 10, 0)
	if !ChainLess(a, b) || ChainLess(b, a) {
		t.Fatalf("same-day ordering must fall back to sequence number")
	}
}

func TestChainBalanceEmpty(t *testing.T) {
	if ChainBalance(nil).Cents != 0 {
		t.Fatalf("empty chain must balance to zero")
	}
}
