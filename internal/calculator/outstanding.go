package calculator

import (
	"sort"

	"github.com/mmynk/tripsplit/internal/models"
)

// outstandingFloor is the largest amount the pairwise path still treats as zero.
// It sits just below Tolerance so a one-cent debt survives float drift (50.01-50).
const outstandingFloor = Tolerance - 0.001

type pair struct {
	from, to string
}

// BuildOutstandingTransactions computes who still owes whom, pair by pair, without
// netting across people: each non-payer member owes their share directly to the
// payer, and every tracked settlement (paid or pending) is subtracted from its pair.
//
// The result differs from SuggestTransactions on debt chains: "A owes B" and
// "B owes C" stay separate here. Sorted by amount, largest first; equal amounts keep
// the order in which their pair first appeared.
func BuildOutstandingTransactions(expenses []models.Expense, settlements []models.Settlement) []Transaction {
	outstanding := make(map[pair]float64)
	var order []pair

	for i := range expenses {
		exp := &expenses[i]
		for _, name := range exp.SplitBetween {
			if name == exp.PaidBy {
				continue // no self-transfer
			}
			share := pairShare(exp, name)
			if share <= outstandingFloor {
				continue
			}
			key := pair{from: name, to: exp.PaidBy}
			if _, seen := outstanding[key]; !seen {
				order = append(order, key)
			}
			outstanding[key] += share
		}
	}

	for _, s := range settlements {
		key := pair{from: s.From, to: s.To}
		amount, ok := outstanding[key]
		if !ok {
			continue
		}
		remaining := amount - s.Amount
		if remaining <= outstandingFloor {
			remaining = 0
		}
		outstanding[key] = remaining
	}

	var txns []Transaction
	for _, key := range order {
		amount := outstanding[key]
		if amount <= outstandingFloor {
			continue
		}
		txns = append(txns, Transaction{From: key.from, To: key.to, Amount: amount})
	}

	sort.SliceStable(txns, func(a, b int) bool {
		return txns[a].Amount > txns[b].Amount
	})
	return txns
}

// pairShare is the share used for pairwise debts. Unlike ShareOf, a custom expense
// without an entry for name contributes nothing.
func pairShare(exp *models.Expense, name string) float64 {
	if exp.IsCustom() && exp.CustomSplits != nil {
		return exp.CustomSplits[name]
	}
	return exp.PerPersonAmount
}
