package calculator

import (
	"math"
	"testing"

	"github.com/mmynk/tripsplit/internal/models"
)

func TestFairShare(t *testing.T) {
	share, err := FairShare(90, 3)
	if err != nil {
		t.Fatalf("FairShare failed: %v", err)
	}
	if math.Abs(share-30) > 0.01 {
		t.Errorf("share = %v, want 30", share)
	}

	if _, err := FairShare(90, 0); err == nil {
		t.Error("expected error for zero members")
	}
}

func TestShareOf(t *testing.T) {
	fair := fairExpense("A", 90, "A", "B", "C")
	if got := ShareOf(&fair, "B"); math.Abs(got-30) > 0.01 {
		t.Errorf("fair share = %v, want 30", got)
	}

	custom := models.Expense{
		Amount:       100,
		SplitBetween: []string{"A", "B"},
		SplitType:    models.SplitCustom,
		CustomSplits: map[string]float64{"A": 60, "B": 40},
	}
	if got := ShareOf(&custom, "A"); math.Abs(got-60) > 0.01 {
		t.Errorf("custom share A = %v, want 60", got)
	}

	// A present zero entry is used as-is; only a missing entry falls back
	zeroEntry := models.Expense{
		SplitBetween:    []string{"A", "B"},
		SplitType:       models.SplitCustom,
		PerPersonAmount: 50,
		CustomSplits:    map[string]float64{"A": 0, "B": 100},
	}
	if got := ShareOf(&zeroEntry, "A"); got != 0 {
		t.Errorf("zero custom share = %v, want 0", got)
	}
	missing := models.Expense{
		SplitType:       models.SplitCustom,
		PerPersonAmount: 50,
		CustomSplits:    map[string]float64{"B": 100},
	}
	if got := ShareOf(&missing, "A"); math.Abs(got-50) > 0.01 {
		t.Errorf("missing custom share = %v, want 50", got)
	}

	// An empty split type is a fair split, even if custom amounts are present
	legacy := models.Expense{PerPersonAmount: 25, CustomSplits: map[string]float64{"A": 99}}
	if got := ShareOf(&legacy, "A"); math.Abs(got-25) > 0.01 {
		t.Errorf("legacy share = %v, want 25", got)
	}
}

func TestCheckCustomSplits(t *testing.T) {
	tests := []struct {
		name    string
		amount  float64
		members []string
		splits  map[string]float64
		wantErr bool
	}{
		{
			name:    "sums to amount",
			amount:  100,
			members: []string{"A", "B"},
			splits:  map[string]float64{"A": 60, "B": 40},
		},
		{
			name:    "within tolerance",
			amount:  100,
			members: []string{"A", "B", "C"},
			splits:  map[string]float64{"A": 33.33, "B": 33.33, "C": 33.34},
		},
		{
			name:    "short of amount",
			amount:  100,
			members: []string{"A", "B"},
			splits:  map[string]float64{"A": 60, "B": 30},
			wantErr: true,
		},
		{
			name:    "names a non-member",
			amount:  100,
			members: []string{"A"},
			splits:  map[string]float64{"A": 50, "Z": 50},
			wantErr: true,
		},
		{
			name:    "negative share",
			amount:  10,
			members: []string{"A", "B"},
			splits:  map[string]float64{"A": 20, "B": -10},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckCustomSplits(tt.amount, tt.members, tt.splits)
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckCustomSplits() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
