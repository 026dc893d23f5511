package calculator

import (
	"fmt"
	"math"

	"github.com/mmynk/tripsplit/internal/models"
)

// ShareOf returns how much participant owes for expense.
// Custom splits use the participant's explicit amount when one exists; everything else
// falls back to the precomputed equal share.
func ShareOf(expense *models.Expense, participant string) float64 {
	if expense.IsCustom() {
		if amount, ok := expense.CustomSplits[participant]; ok {
			return amount
		}
	}
	return expense.PerPersonAmount
}

// FairShare divides amount equally among n members.
func FairShare(amount float64, n int) (float64, error) {
	if n <= 0 {
		return 0, fmt.Errorf("must have at least one member")
	}
	return amount / float64(n), nil
}

// CheckCustomSplits verifies that custom amounts only name split members, are not
// negative, and add up to amount within Tolerance.
// The balance engine itself never calls this; stored expenses are used as-is.
func CheckCustomSplits(amount float64, splitBetween []string, splits map[string]float64) error {
	members := make(map[string]bool, len(splitBetween))
	for _, m := range splitBetween {
		members[m] = true
	}

	var sum float64
	for name, share := range splits {
		if !members[name] {
			return fmt.Errorf("custom split for %q who is not sharing the expense", name)
		}
		if share < 0 {
			return fmt.Errorf("custom split for %q is negative", name)
		}
		sum += share
	}

	if math.Abs(sum-amount) > Tolerance {
		return fmt.Errorf("custom splits add up to %.2f, expected %.2f", sum, amount)
	}
	return nil
}
