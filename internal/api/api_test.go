package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/tripsplit/internal/middleware"
	"github.com/mmynk/tripsplit/internal/service"
	"github.com/mmynk/tripsplit/internal/storage/sqlite"
)

// setupTestServer serves both services over httptest with a temp SQLite database.
func setupTestServer(t *testing.T) string {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()

	store, err := sqlite.New(tmpFile.Name())
	if err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to create store: %v", err)
	}

	interceptors := connect.WithInterceptors(middleware.LoggingInterceptor())
	mux := http.NewServeMux()
	RegisterLedger(mux, service.NewLedgerService(store, nil), interceptors)
	RegisterInventory(mux, service.NewInventoryService(store), interceptors)

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
		os.Remove(tmpFile.Name())
	})
	return server.URL
}

func call[Req, Res any](t *testing.T, baseURL, procedure string, req *Req) (*Res, error) {
	t.Helper()
	client := connect.NewClient[Req, Res](http.DefaultClient, baseURL+procedure, WithJSON())
	resp, err := client.CallUnary(context.Background(), connect.NewRequest(req))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

func mustCall[Req, Res any](t *testing.T, baseURL, procedure string, req *Req) *Res {
	t.Helper()
	res, err := call[Req, Res](t, baseURL, procedure, req)
	if err != nil {
		t.Fatalf("%s failed: %v", procedure, err)
	}
	return res
}

func TestLedgerFlow(t *testing.T) {
	url := setupTestServer(t)

	trip := mustCall[CreateTripRequest, TripResponse](t, url, CreateTripProcedure, &CreateTripRequest{
		ID:           "goa",
		Participants: []string{"A", "B", "C"},
	})
	if trip.Trip.ID != "goa" || trip.Trip.Name != "Trip with A, B, C" {
		t.Fatalf("trip = %+v", trip.Trip)
	}

	mustCall[CreateExpenseRequest, ExpenseResponse](t, url, CreateExpenseProcedure, &CreateExpenseRequest{
		TripID: "goa",
		ExpenseFields: ExpenseFields{
			Title: "Hotel", Amount: 90, PaidBy: "A", SplitBetween: []string{"A", "B", "C"},
		},
	})

	sum := mustCall[TripRequest, SummaryResponse](t, url, GetSummaryProcedure, &TripRequest{TripID: "goa"})
	if len(sum.Suggested) != 2 {
		t.Fatalf("suggested = %+v, want 2", sum.Suggested)
	}
	if sum.Balances[0].Status != "gets_back" || sum.Balances[1].Status != "owes" {
		t.Errorf("balances = %+v", sum.Balances)
	}

	tracked := mustCall[TrackSuggestionRequest, SettlementResponse](t, url, TrackSuggestionProcedure, &TrackSuggestionRequest{
		TripID: "goa", Transaction: sum.Suggested[0],
	})
	mustCall[SetPaidRequest, SettlementResponse](t, url, SetPaidProcedure, &SetPaidRequest{
		SettlementID: tracked.Settlement.ID, Paid: true,
	})

	sum = mustCall[TripRequest, SummaryResponse](t, url, GetSummaryProcedure, &TripRequest{TripID: "goa"})
	if len(sum.Suggested) != 1 || len(sum.Completed) != 1 {
		t.Errorf("after payment: suggested=%d completed=%d", len(sum.Suggested), len(sum.Completed))
	}

	out := mustCall[TripRequest, OutstandingResponse](t, url, GetOutstandingProcedure, &TripRequest{TripID: "goa"})
	if len(out.Transactions) != 1 {
		t.Errorf("outstanding = %+v, want 1", out.Transactions)
	}

	exp := mustCall[TripRequest, ExportResponse](t, url, ExportXLSXProcedure, &TripRequest{TripID: "goa"})
	if exp.Filename != "goa.xlsx" || len(exp.Data) == 0 {
		t.Errorf("export = %s (%d bytes)", exp.Filename, len(exp.Data))
	}
}

func TestErrorCodes(t *testing.T) {
	url := setupTestServer(t)

	_, err := call[TripRequest, TripResponse](t, url, GetTripProcedure, &TripRequest{TripID: "missing"})
	if connect.CodeOf(err) != connect.CodeNotFound {
		t.Errorf("GetTrip(missing) code = %v, want not_found", connect.CodeOf(err))
	}

	_, err = call[CreateTripRequest, TripResponse](t, url, CreateTripProcedure, &CreateTripRequest{ID: "bad id!", Participants: []string{"A"}})
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Errorf("CreateTrip(bad id) code = %v, want invalid_argument", connect.CodeOf(err))
	}

	mustCall[CreateTripRequest, TripResponse](t, url, CreateTripProcedure, &CreateTripRequest{ID: "x", Participants: []string{"A", "B"}})
	_, err = call[CreateTripRequest, TripResponse](t, url, CreateTripProcedure, &CreateTripRequest{ID: "x", Participants: []string{"A"}})
	if connect.CodeOf(err) != connect.CodeAlreadyExists {
		t.Errorf("CreateTrip(dup) code = %v, want already_exists", connect.CodeOf(err))
	}

	st := mustCall[RecordPaymentRequest, SettlementResponse](t, url, RecordPaymentProcedure, &RecordPaymentRequest{
		TripID: "x", From: "A", To: "B", Amount: 10,
	})
	mustCall[SetPaidRequest, SettlementResponse](t, url, SetPaidProcedure, &SetPaidRequest{SettlementID: st.Settlement.ID, Paid: true})
	_, err = call[SettlementIDRequest, Empty](t, url, MoveToSuggestedProcedure, &SettlementIDRequest{SettlementID: st.Settlement.ID})
	if connect.CodeOf(err) != connect.CodeFailedPrecondition {
		t.Errorf("MoveToSuggested(paid) code = %v, want failed_precondition", connect.CodeOf(err))
	}
}

func TestInventoryFlow(t *testing.T) {
	url := setupTestServer(t)

	mustCall[CreateTripRequest, TripResponse](t, url, CreateTripProcedure, &CreateTripRequest{
		ID: "rover", Kind: "purchase_sheet", Participants: []string{"Asha"},
	})

	next := mustCall[BoardRequest, NextSerialResponse](t, url, NextSerialProcedure, &BoardRequest{BoardID: "rover"})
	if next.SerialNumber != "PS-001" {
		t.Errorf("NextSerial = %q, want PS-001", next.SerialNumber)
	}

	added := mustCall[AddProductRequest, ProductResponse](t, url, AddProductProcedure, &AddProductRequest{
		BoardID:       "rover",
		ProductFields: ProductFields{ItemName: "Motor", AddedBy: "Asha", Quantity: 2, PricePerUnit: 5},
	})
	if added.Product.SerialNumber != "PS-001" || added.Product.TotalPrice != 10 {
		t.Errorf("added = %+v", added.Product)
	}

	list := mustCall[ListProductsRequest, ListProductsResponse](t, url, ListProductsProcedure, &ListProductsRequest{
		BoardID: "rover", Status: "Pending",
	})
	if len(list.Products) != 1 {
		t.Errorf("products = %+v", list.Products)
	}

	stats := mustCall[BoardRequest, StatsResponse](t, url, GetStatsProcedure, &BoardRequest{BoardID: "rover"})
	if stats.ByStatus["Pending"] != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestWatchSummary(t *testing.T) {
	url := setupTestServer(t)

	mustCall[CreateTripRequest, TripResponse](t, url, CreateTripProcedure, &CreateTripRequest{
		ID: "live", Participants: []string{"A", "B"},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client := connect.NewClient[TripRequest, SummaryResponse](http.DefaultClient, url+WatchSummaryProcedure, WithJSON())
	stream, err := client.CallServerStream(ctx, connect.NewRequest(&TripRequest{TripID: "live"}))
	if err != nil {
		t.Fatalf("WatchSummary failed: %v", err)
	}
	defer stream.Close()

	if !stream.Receive() {
		t.Fatalf("no initial summary: %v", stream.Err())
	}
	if !stream.Msg().AllSettled {
		t.Errorf("empty trip should be settled")
	}

	mustCall[CreateExpenseRequest, ExpenseResponse](t, url, CreateExpenseProcedure, &CreateExpenseRequest{
		TripID:        "live",
		ExpenseFields: ExpenseFields{Title: "Fuel", Amount: 100, PaidBy: "A", SplitBetween: []string{"A", "B"}},
	})

	if !stream.Receive() {
		t.Fatalf("no summary after change: %v", stream.Err())
	}
	if got := stream.Msg(); len(got.Suggested) != 1 || got.Suggested[0].Amount != 50 {
		t.Errorf("suggested = %+v, want B->A 50", got.Suggested)
	}
}
