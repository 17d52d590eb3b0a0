package core

import "sort"

// The running-balance chain of an account is the list of its transactions in
// (Date, Seq) ascending order, where every Balance snapshot equals the
// previous snapshot plus the signed amount (starting from zero). Backdated
// insertions and deletions invalidate every snapshot downstream of the edit
// point, so mutations recompute the chain before committing.

// ChainLess is the canonical transaction ordering: date first, then global
// sequence number to break same-day ties in assignment order.
func ChainLess(a, b Transaction) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.Before(b.Date)
	}
	return a.Seq < b.Seq
}

// SortChain orders transactions by (Date, Seq) in place.
func SortChain(txs []Transaction) {
	sort.Slice(txs, func(i, j int) bool { return ChainLess(txs[i], txs[j]) })
}

// RecomputeChain re-derives every running-balance snapshot of an account's
// transactions from zero. It returns the transactions in chain order with
// corrected snapshots, plus the subset whose snapshot actually changed, so
// the store only has to persist the affected suffix.
func RecomputeChain(txs []Transaction) (ordered, changed []Transaction) {
	ordered = make([]Transaction, len(txs))
	copy(ordered, txs)
	SortChain(ordered)

	var running int64
	for i := range ordered {
		running += ordered[i].Signed()
		if ordered[i].Balance.Cents != running {
			ordered[i].Balance = Money{Cents: running}
			changed = append(changed, ordered[i])
		}
	}
	return ordered, changed
}

// ChainBalance returns the account balance implied by a chain: the snapshot
// of the last transaction in (Date, Seq) order, or zero for an empty chain.
func ChainBalance(ordered []Transaction) Money {
	if len(ordered) == 0 {
		return Money{}
	}
	return ordered[len(ordered)-1].Balance
}
