package calculator

import "github.com/mmynk/tripsplit/internal/models"

// Balance represents the balance information for one participant.
type Balance struct {
	Name string
	Paid float64 // Expenses paid plus settlements paid out
	Owed float64 // Shares owed plus settlements received
	Net  float64 // Positive = gets money back, negative = owes money
}

// Status classifies the balance's net position.
func (b Balance) Status() Status {
	return StatusOf(b.Net)
}

// ComputeBalances derives one Balance per participant, in participant order.
//
// Algorithm:
//   - For each expense: payer paid +amount, each member owes their share
//   - For each paid settlement: sender's Paid grows, receiver's Owed grows
//   - net = paid - owed
//
// Unpaid settlements are ignored. Names missing from participants are not validated;
// their expenses still count toward whoever is listed.
func ComputeBalances(participants []string, expenses []models.Expense, settlements []models.Settlement) []Balance {
	balances := make([]Balance, 0, len(participants))

	for _, name := range participants {
		var paid, owed float64

		for i := range expenses {
			exp := &expenses[i]
			if exp.PaidBy == name {
				paid += exp.Amount
			}
			if exp.Includes(name) {
				owed += ShareOf(exp, name)
			}
		}

		// Paying a settlement counts as "paid", receiving one as "owed"
		for _, s := range settlements {
			if !s.IsPaid {
				continue
			}
			if s.From == name {
				paid += s.Amount
			}
			if s.To == name {
				owed += s.Amount
			}
		}

		balances = append(balances, Balance{
			Name: name,
			Paid: paid,
			Owed: owed,
			Net:  paid - owed,
		})
	}

	return balances
}
