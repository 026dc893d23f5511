package calculator

import (
	"log/slog"

	"github.com/mmynk/tripsplit/internal/models"
)

// Transaction represents a suggested payment from one person to another.
type Transaction struct {
	From   string  // Person who owes
	To     string  // Person who is owed
	Amount float64
}

// Leftover is what the matcher could not pair up. It is only non-zero when the
// balances do not sum to zero, e.g. after floating point drift upstream.
type Leftover struct {
	Debt   float64 // Unmatched debtor remainder
	Credit float64 // Unmatched creditor remainder
}

// Significant reports whether either side exceeds Tolerance.
func (l Leftover) Significant() bool {
	return l.Debt > Tolerance || l.Credit > Tolerance
}

type party struct {
	name      string
	remaining float64
}

// MatchDebts runs greedy two-pointer netting over balances.
// Debtors and creditors keep their input order; no sorting by magnitude.
func MatchDebts(balances []Balance) ([]Transaction, Leftover) {
	var debtors, creditors []party
	for _, b := range balances {
		if b.Net < -Tolerance {
			debtors = append(debtors, party{name: b.Name, remaining: -b.Net})
		} else if b.Net > Tolerance {
			creditors = append(creditors, party{name: b.Name, remaining: b.Net})
		}
	}

	var txns []Transaction
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor := &debtors[i]
		creditor := &creditors[j]

		amount := debtor.remaining
		if creditor.remaining < amount {
			amount = creditor.remaining
		}

		if amount > Tolerance {
			txns = append(txns, Transaction{
				From:   debtor.name,
				To:     creditor.name,
				Amount: amount,
			})
		}

		debtor.remaining -= amount
		creditor.remaining -= amount

		// Both may advance when the amounts tie
		if debtor.remaining < Tolerance {
			i++
		}
		if creditor.remaining < Tolerance {
			j++
		}
	}

	var left Leftover
	for ; i < len(debtors); i++ {
		left.Debt += debtors[i].remaining
	}
	for ; j < len(creditors); j++ {
		left.Credit += creditors[j].remaining
	}
	return txns, left
}

// SuggestTransactions returns the payments that would bring every net balance to zero.
// Unmatched remainders are dropped; they are logged when they exceed Tolerance.
func SuggestTransactions(balances []Balance) []Transaction {
	txns, left := MatchDebts(balances)
	WarnLeftover(left, len(balances))
	return txns
}

// WarnLeftover logs a significant leftover. Extra attrs (e.g. "trip_id") are appended.
func WarnLeftover(left Leftover, participants int, attrs ...any) {
	if !left.Significant() {
		return
	}
	args := append([]any{
		"unmatched_debt", left.Debt,
		"unmatched_credit", left.Credit,
		"participants", participants,
	}, attrs...)
	slog.Warn("Settlement plan left unmatched balance", args...)
}

// Untracked drops suggestions that already have an unpaid tracked settlement with the
// same sender, receiver and amount (within Tolerance). Paid settlements never match:
// they are already folded into the balances.
func Untracked(suggestions []Transaction, settlements []models.Settlement) []Transaction {
	var out []Transaction
	for _, txn := range suggestions {
		if isTracked(txn, settlements) {
			continue
		}
		out = append(out, txn)
	}
	return out
}

func isTracked(txn Transaction, settlements []models.Settlement) bool {
	for _, s := range settlements {
		if s.IsPaid {
			continue
		}
		if s.From == txn.From && s.To == txn.To && AmountsEqual(s.Amount, txn.Amount) {
			return true
		}
	}
	return false
}

// ForParticipant splits txns into what name pays and what name receives.
func ForParticipant(txns []Transaction, name string) (owes, receives []Transaction) {
	for _, t := range txns {
		switch name {
		case t.From:
			owes = append(owes, t)
		case t.To:
			receives = append(receives, t)
		}
	}
	return owes, receives
}
