package calculator

import (
	"math"
	"reflect"
	"testing"

	"github.com/mmynk/tripsplit/internal/models"
)

func fairExpense(paidBy string, amount float64, members ...string) models.Expense {
	return models.Expense{
		Title:           "Expense",
		Amount:          amount,
		PaidBy:          paidBy,
		SplitBetween:    members,
		SplitType:       models.SplitFair,
		PerPersonAmount: amount / float64(len(members)),
	}
}

func findBalance(t *testing.T, balances []Balance, name string) Balance {
	t.Helper()
	for _, b := range balances {
		if b.Name == name {
			return b
		}
	}
	t.Fatalf("no balance for %s", name)
	return Balance{}
}

func TestComputeBalances(t *testing.T) {
	tests := []struct {
		name         string
		participants []string
		expenses     []models.Expense
		settlements  []models.Settlement
		validateFunc func(t *testing.T, balances []Balance)
	}{
		{
			name:         "fair split of 90 among three",
			participants: []string{"Alice", "Bob", "Charlie"},
			expenses:     []models.Expense{fairExpense("Alice", 90, "Alice", "Bob", "Charlie")},
			validateFunc: func(t *testing.T, balances []Balance) {
				// Alice: paid 90, owes 30, net +60
				// Bob, Charlie: owe 30 each, net -30
				alice := findBalance(t, balances, "Alice")
				if math.Abs(alice.Paid-90) > 0.01 {
					t.Errorf("Alice paid = %v, want 90", alice.Paid)
				}
				if math.Abs(alice.Owed-30) > 0.01 {
					t.Errorf("Alice owed = %v, want 30", alice.Owed)
				}
				if math.Abs(alice.Net-60) > 0.01 {
					t.Errorf("Alice net = %v, want 60", alice.Net)
				}
				for _, name := range []string{"Bob", "Charlie"} {
					b := findBalance(t, balances, name)
					if math.Abs(b.Owed-30) > 0.01 {
						t.Errorf("%s owed = %v, want 30", name, b.Owed)
					}
					if math.Abs(b.Net+30) > 0.01 {
						t.Errorf("%s net = %v, want -30", name, b.Net)
					}
				}
			},
		},
		{
			name:         "custom split ignores per-person amount",
			participants: []string{"A", "B"},
			expenses: []models.Expense{{
				Amount:          100,
				PaidBy:          "A",
				SplitBetween:    []string{"A", "B"},
				SplitType:       models.SplitCustom,
				PerPersonAmount: 999,
				CustomSplits:    map[string]float64{"A": 60, "B": 40},
			}},
			validateFunc: func(t *testing.T, balances []Balance) {
				a := findBalance(t, balances, "A")
				b := findBalance(t, balances, "B")
				if math.Abs(a.Owed-60) > 0.01 {
					t.Errorf("A owed = %v, want 60", a.Owed)
				}
				if math.Abs(b.Owed-40) > 0.01 {
					t.Errorf("B owed = %v, want 40", b.Owed)
				}
				if math.Abs(a.Net-40) > 0.01 {
					t.Errorf("A net = %v, want 40", a.Net)
				}
			},
		},
		{
			name:         "custom split without entry falls back to per-person amount",
			participants: []string{"A", "B", "C"},
			expenses: []models.Expense{{
				Amount:          30,
				PaidBy:          "A",
				SplitBetween:    []string{"A", "B", "C"},
				SplitType:       models.SplitCustom,
				PerPersonAmount: 5,
				CustomSplits:    map[string]float64{"A": 10, "B": 15},
			}},
			validateFunc: func(t *testing.T, balances []Balance) {
				c := findBalance(t, balances, "C")
				if math.Abs(c.Owed-5) > 0.01 {
					t.Errorf("C owed = %v, want 5", c.Owed)
				}
			},
		},
		{
			name:         "paid settlement brings both nets to zero",
			participants: []string{"A", "B"},
			expenses:     []models.Expense{fairExpense("A", 100, "A", "B")},
			settlements: []models.Settlement{
				{From: "B", To: "A", Amount: 50, IsPaid: true},
			},
			validateFunc: func(t *testing.T, balances []Balance) {
				a := findBalance(t, balances, "A")
				b := findBalance(t, balances, "B")
				if math.Abs(a.Net) > 0.01 {
					t.Errorf("A net = %v, want 0", a.Net)
				}
				if math.Abs(b.Net) > 0.01 {
					t.Errorf("B net = %v, want 0", b.Net)
				}
				// Settlement payments count as paid/owed, not as a net adjustment
				if math.Abs(b.Paid-50) > 0.01 {
					t.Errorf("B paid = %v, want 50", b.Paid)
				}
				if math.Abs(a.Owed-100) > 0.01 {
					t.Errorf("A owed = %v, want 100", a.Owed)
				}
			},
		},
		{
			name:         "unpaid settlement is ignored",
			participants: []string{"A", "B"},
			expenses:     []models.Expense{fairExpense("A", 100, "A", "B")},
			settlements: []models.Settlement{
				{From: "B", To: "A", Amount: 50, IsPaid: false},
			},
			validateFunc: func(t *testing.T, balances []Balance) {
				b := findBalance(t, balances, "B")
				if math.Abs(b.Net+50) > 0.01 {
					t.Errorf("B net = %v, want -50", b.Net)
				}
			},
		},
		{
			name:         "no participants yields empty output",
			participants: nil,
			expenses:     []models.Expense{fairExpense("A", 100, "A", "B")},
			validateFunc: func(t *testing.T, balances []Balance) {
				if len(balances) != 0 {
					t.Errorf("expected no balances, got %d", len(balances))
				}
			},
		},
		{
			name:         "unknown payer still contributes shares",
			participants: []string{"A", "B"},
			expenses:     []models.Expense{fairExpense("Zed", 60, "A", "B", "Zed")},
			validateFunc: func(t *testing.T, balances []Balance) {
				for _, name := range []string{"A", "B"} {
					b := findBalance(t, balances, name)
					if math.Abs(b.Net+20) > 0.01 {
						t.Errorf("%s net = %v, want -20", name, b.Net)
					}
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			balances := ComputeBalances(tt.participants, tt.expenses, tt.settlements)
			tt.validateFunc(t, balances)
		})
	}
}

func TestComputeBalances_ParticipantOrder(t *testing.T) {
	participants := []string{"Charlie", "Alice", "Bob"}
	balances := ComputeBalances(participants, []models.Expense{fairExpense("Alice", 30, "Alice", "Bob", "Charlie")}, nil)

	if len(balances) != len(participants) {
		t.Fatalf("expected %d balances, got %d", len(participants), len(balances))
	}
	for i, name := range participants {
		if balances[i].Name != name {
			t.Errorf("balances[%d] = %s, want %s", i, balances[i].Name, name)
		}
	}
}

func TestComputeBalances_ZeroSum(t *testing.T) {
	participants := []string{"A", "B", "C", "D"}
	expenses := []models.Expense{
		fairExpense("A", 100, "A", "B", "C"),
		fairExpense("B", 47.35, "B", "C", "D"),
		fairExpense("D", 12.10, "A", "D"),
		{
			Amount:       80,
			PaidBy:       "C",
			SplitBetween: []string{"A", "B", "C", "D"},
			SplitType:    models.SplitCustom,
			CustomSplits: map[string]float64{"A": 10, "B": 20, "C": 30, "D": 20},
		},
	}
	settlements := []models.Settlement{
		{From: "B", To: "A", Amount: 25, IsPaid: true},
		{From: "D", To: "C", Amount: 13.33, IsPaid: true},
		{From: "A", To: "D", Amount: 5, IsPaid: false},
	}

	var sum float64
	for _, b := range ComputeBalances(participants, expenses, settlements) {
		sum += b.Net
	}
	if math.Abs(sum) > 0.01 {
		t.Errorf("sum of nets = %v, want 0", sum)
	}
}

func TestComputeBalances_Idempotent(t *testing.T) {
	participants := []string{"A", "B", "C"}
	expenses := []models.Expense{
		fairExpense("A", 90, "A", "B", "C"),
		fairExpense("C", 20, "B", "C"),
	}
	settlements := []models.Settlement{{From: "B", To: "A", Amount: 10, IsPaid: true}}

	first := ComputeBalances(participants, expenses, settlements)
	second := ComputeBalances(participants, expenses, settlements)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("ComputeBalances not idempotent: %v vs %v", first, second)
	}
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		net  float64
		want Status
	}{
		{-50, StatusOwes},
		{-0.011, StatusOwes},
		{-0.005, StatusSettled},
		{0, StatusSettled},
		{0.01, StatusSettled},
		{0.02, StatusGetsBack},
	}
	for _, tt := range tests {
		if got := StatusOf(tt.net); got != tt.want {
			t.Errorf("StatusOf(%v) = %s, want %s", tt.net, got, tt.want)
		}
	}
}
