package calculator

import (
	"bytes"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/mmynk/tripsplit/internal/models"
)

func TestSuggestTransactions(t *testing.T) {
	tests := []struct {
		name     string
		balances []Balance
		want     []Transaction
	}{
		{
			name: "three debtors one creditor in debtor order",
			balances: []Balance{
				{Name: "D1", Net: -10},
				{Name: "C", Net: 60},
				{Name: "D2", Net: -20},
				{Name: "D3", Net: -30},
			},
			want: []Transaction{
				{From: "D1", To: "C", Amount: 10},
				{From: "D2", To: "C", Amount: 20},
				{From: "D3", To: "C", Amount: 30},
			},
		},
		{
			name: "one debtor split across creditors",
			balances: []Balance{
				{Name: "A", Net: 30},
				{Name: "B", Net: 20},
				{Name: "C", Net: -50},
			},
			want: []Transaction{
				{From: "C", To: "A", Amount: 30},
				{From: "C", To: "B", Amount: 20},
			},
		},
		{
			name: "order follows input not magnitude",
			balances: []Balance{
				{Name: "Small", Net: -5},
				{Name: "Big", Net: -45},
				{Name: "C1", Net: 25},
				{Name: "C2", Net: 25},
			},
			want: []Transaction{
				{From: "Small", To: "C1", Amount: 5},
				{From: "Big", To: "C1", Amount: 20},
				{From: "Big", To: "C2", Amount: 25},
			},
		},
		{
			name: "balances within tolerance are settled",
			balances: []Balance{
				{Name: "A", Net: 0.005},
				{Name: "B", Net: -0.005},
			},
			want: nil,
		},
		{
			name:     "no balances",
			balances: nil,
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SuggestTransactions(tt.balances)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d transactions %v, want %d", len(got), got, len(tt.want))
			}
			for i := range got {
				if got[i].From != tt.want[i].From || got[i].To != tt.want[i].To {
					t.Errorf("txn %d = %s->%s, want %s->%s", i, got[i].From, got[i].To, tt.want[i].From, tt.want[i].To)
				}
				if math.Abs(got[i].Amount-tt.want[i].Amount) > 0.01 {
					t.Errorf("txn %d amount = %v, want %v", i, got[i].Amount, tt.want[i].Amount)
				}
			}
		})
	}
}

func TestSuggestTransactions_ZeroesBalances(t *testing.T) {
	participants := []string{"A", "B", "C", "D"}
	expenses := []models.Expense{
		fairExpense("A", 120, "A", "B", "C", "D"),
		fairExpense("B", 45, "B", "C", "D"),
		fairExpense("C", 10, "A", "C"),
	}
	balances := ComputeBalances(participants, expenses, nil)
	txns := SuggestTransactions(balances)

	net := make(map[string]float64)
	for _, b := range balances {
		net[b.Name] = b.Net
	}
	for _, txn := range txns {
		net[txn.From] += txn.Amount
		net[txn.To] -= txn.Amount
	}
	for name, n := range net {
		if math.Abs(n) > 0.01 {
			t.Errorf("%s net after plan = %v, want 0", name, n)
		}
	}
}

func TestMatchDebts_Leftover(t *testing.T) {
	// Creditors exceed debtors by 5: the excess is dropped, not redistributed
	txns, left := MatchDebts([]Balance{
		{Name: "A", Net: -10},
		{Name: "B", Net: 15},
	})

	if len(txns) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txns))
	}
	if math.Abs(txns[0].Amount-10) > 0.01 {
		t.Errorf("amount = %v, want 10", txns[0].Amount)
	}
	if math.Abs(left.Credit-5) > 0.01 {
		t.Errorf("leftover credit = %v, want 5", left.Credit)
	}
	if left.Debt != 0 {
		t.Errorf("leftover debt = %v, want 0", left.Debt)
	}
	if !left.Significant() {
		t.Error("expected leftover to be significant")
	}

	_, left = MatchDebts([]Balance{{Name: "A", Net: -10}, {Name: "B", Net: 10}})
	if left.Significant() {
		t.Errorf("expected no leftover, got %+v", left)
	}
}

func TestWarnLeftover(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	WarnLeftover(Leftover{Debt: 0.005}, 2, "trip_id", "goa")
	if buf.Len() != 0 {
		t.Errorf("insignificant leftover logged: %q", buf.String())
	}

	WarnLeftover(Leftover{Credit: 5}, 2, "trip_id", "goa")
	out := buf.String()
	for _, want := range []string{"Settlement plan left unmatched balance", "unmatched_credit=5", "participants=2", "trip_id=goa"} {
		if !strings.Contains(out, want) {
			t.Errorf("log %q missing %q", out, want)
		}
	}

	buf.Reset()
	SuggestTransactions([]Balance{{Name: "A", Net: -10}, {Name: "B", Net: 15}})
	if !strings.Contains(buf.String(), "Settlement plan left unmatched balance") {
		t.Errorf("SuggestTransactions did not warn: %q", buf.String())
	}
}

func TestUntracked(t *testing.T) {
	suggestions := []Transaction{
		{From: "A", To: "B", Amount: 50},
		{From: "C", To: "B", Amount: 20},
	}

	tests := []struct {
		name        string
		settlements []models.Settlement
		wantLen     int
	}{
		{
			name:        "unpaid matching settlement suppresses suggestion",
			settlements: []models.Settlement{{From: "A", To: "B", Amount: 50}},
			wantLen:     1,
		},
		{
			name:        "amount within tolerance still matches",
			settlements: []models.Settlement{{From: "A", To: "B", Amount: 50.005}},
			wantLen:     1,
		},
		{
			name:        "different amount does not match",
			settlements: []models.Settlement{{From: "A", To: "B", Amount: 40}},
			wantLen:     2,
		},
		{
			name:        "reversed direction does not match",
			settlements: []models.Settlement{{From: "B", To: "A", Amount: 50}},
			wantLen:     2,
		},
		{
			name:        "paid settlement does not match",
			settlements: []models.Settlement{{From: "A", To: "B", Amount: 50, IsPaid: true}},
			wantLen:     2,
		},
		{
			name:        "no settlements",
			settlements: nil,
			wantLen:     2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Untracked(suggestions, tt.settlements)
			if len(got) != tt.wantLen {
				t.Errorf("got %d suggestions %v, want %d", len(got), got, tt.wantLen)
			}
		})
	}
}

func TestForParticipant(t *testing.T) {
	txns := []Transaction{
		{From: "A", To: "B", Amount: 10},
		{From: "B", To: "C", Amount: 5},
		{From: "D", To: "C", Amount: 7},
	}

	owes, receives := ForParticipant(txns, "B")
	if len(owes) != 1 || owes[0].To != "C" {
		t.Errorf("owes = %v, want B->C", owes)
	}
	if len(receives) != 1 || receives[0].From != "A" {
		t.Errorf("receives = %v, want A->B", receives)
	}

	owes, receives = ForParticipant(txns, "Nobody")
	if len(owes) != 0 || len(receives) != 0 {
		t.Errorf("expected nothing for unknown participant, got %v %v", owes, receives)
	}
}
