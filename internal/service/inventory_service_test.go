package service

import (
	"context"
	"errors"
	"testing"

	"github.com/mmynk/tripsplit/internal/inventory"
	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/storage"
)

func setupInventory(t *testing.T) (*InventoryService, *LedgerService, string) {
	t.Helper()
	store := setupTestStore(t)
	ledger := NewLedgerService(store, nil)
	board, err := ledger.CreateTrip(context.Background(), CreateTripInput{
		ID:           "rover",
		Kind:         models.KindPurchaseSheet,
		Participants: []string{"Asha", "Ravi"},
	})
	if err != nil {
		t.Fatalf("CreateTrip failed: %v", err)
	}
	return NewInventoryService(store), ledger, board.ID
}

func TestAddProduct(t *testing.T) {
	svc, ledger, boardID := setupInventory(t)
	ctx := context.Background()

	p1, err := svc.AddProduct(ctx, boardID, ProductInput{ItemName: "Motor", AddedBy: "Asha", Quantity: 2, PricePerUnit: 12.5})
	if err != nil {
		t.Fatalf("AddProduct failed: %v", err)
	}
	if p1.SerialNumber != "PS-001" {
		t.Errorf("SerialNumber = %q, want PS-001", p1.SerialNumber)
	}
	if p1.Status != models.StatusPending {
		t.Errorf("Status = %q, want Pending", p1.Status)
	}
	if p1.TotalPrice != 25 {
		t.Errorf("TotalPrice = %v, want 25", p1.TotalPrice)
	}

	p2, err := svc.AddProduct(ctx, boardID, ProductInput{ItemName: "Wheel", AddedBy: "Ravi", Status: models.StatusOrdered})
	if err != nil {
		t.Fatalf("AddProduct failed: %v", err)
	}
	if p2.SerialNumber != "PS-002" || p2.Quantity != 1 {
		t.Errorf("second product = %+v", p2)
	}

	t.Run("duplicate serial", func(t *testing.T) {
		_, err := svc.AddProduct(ctx, boardID, ProductInput{SerialNumber: "PS-001", ItemName: "X", AddedBy: "Asha"})
		if !errors.Is(err, storage.ErrAlreadyExists) {
			t.Errorf("expected ErrAlreadyExists, got %v", err)
		}
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := svc.AddProduct(ctx, boardID, ProductInput{ItemName: "X", AddedBy: "Asha", Status: "Lost"})
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("not a purchase sheet", func(t *testing.T) {
		trip, err := ledger.CreateTrip(ctx, CreateTripInput{Participants: []string{"A"}})
		if err != nil {
			t.Fatalf("CreateTrip failed: %v", err)
		}
		_, err = svc.AddProduct(ctx, trip.ID, ProductInput{ItemName: "X", AddedBy: "A"})
		if !errors.Is(err, ErrFailedPrecondition) {
			t.Errorf("expected ErrFailedPrecondition, got %v", err)
		}
	})

	t.Run("next serial and filters", func(t *testing.T) {
		next, err := svc.NextSerial(ctx, boardID)
		if err != nil {
			t.Fatalf("NextSerial failed: %v", err)
		}
		if next != "PS-003" {
			t.Errorf("NextSerial = %q, want PS-003", next)
		}

		ordered, err := svc.ListProducts(ctx, boardID, inventory.Filter{Status: models.StatusOrdered})
		if err != nil {
			t.Fatalf("ListProducts failed: %v", err)
		}
		if len(ordered) != 1 || ordered[0].ID != p2.ID {
			t.Errorf("ordered products = %+v", ordered)
		}

		stats, err := svc.Stats(ctx, boardID)
		if err != nil {
			t.Fatalf("Stats failed: %v", err)
		}
		if stats.TotalProducts != 2 || stats.TotalQuantity != 3 {
			t.Errorf("stats = %+v", stats)
		}
	})
}

func TestUpdateAndDeleteProduct(t *testing.T) {
	svc, _, boardID := setupInventory(t)
	ctx := context.Background()

	p, err := svc.AddProduct(ctx, boardID, ProductInput{ItemName: "Battery", AddedBy: "Asha"})
	if err != nil {
		t.Fatalf("AddProduct failed: %v", err)
	}

	updated, err := svc.UpdateProduct(ctx, boardID, p.ID, ProductInput{
		ItemName: "Battery 12V", AddedBy: "Asha", Status: models.StatusDelivered, Quantity: 3,
	})
	if err != nil {
		t.Fatalf("UpdateProduct failed: %v", err)
	}
	if updated.SerialNumber != "PS-001" || updated.Status != models.StatusDelivered || updated.Quantity != 3 {
		t.Errorf("updated = %+v", updated)
	}

	if _, err := svc.UpdateProduct(ctx, boardID, "missing", ProductInput{ItemName: "x", AddedBy: "y"}); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if err := svc.DeleteProduct(ctx, boardID, p.ID); err != nil {
		t.Fatalf("DeleteProduct failed: %v", err)
	}
	list, err := svc.ListProducts(ctx, boardID, inventory.Filter{})
	if err != nil {
		t.Fatalf("ListProducts failed: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("expected empty board, got %d products", len(list))
	}
}
