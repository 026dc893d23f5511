// Package api exposes the ledger and inventory services as Connect RPC handlers
// speaking JSON.
package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

const (
	// LedgerServiceName is the fully-qualified name of the ledger service.
	LedgerServiceName = "tripsplit.v1.LedgerService"
	// InventoryServiceName is the fully-qualified name of the inventory service.
	InventoryServiceName = "tripsplit.v1.InventoryService"
)

// Procedure paths.
const (
	CreateTripProcedure       = "/" + LedgerServiceName + "/CreateTrip"
	GetTripProcedure          = "/" + LedgerServiceName + "/GetTrip"
	ListTripsProcedure        = "/" + LedgerServiceName + "/ListTrips"
	UpdateMembersProcedure    = "/" + LedgerServiceName + "/UpdateMembers"
	CreateExpenseProcedure    = "/" + LedgerServiceName + "/CreateExpense"
	UpdateExpenseProcedure    = "/" + LedgerServiceName + "/UpdateExpense"
	DeleteExpenseProcedure    = "/" + LedgerServiceName + "/DeleteExpense"
	ListExpensesProcedure     = "/" + LedgerServiceName + "/ListExpenses"
	GetSummaryProcedure       = "/" + LedgerServiceName + "/GetSummary"
	WatchSummaryProcedure     = "/" + LedgerServiceName + "/WatchSummary"
	GetOutstandingProcedure   = "/" + LedgerServiceName + "/GetOutstanding"
	GetIndividualProcedure    = "/" + LedgerServiceName + "/GetIndividual"
	TrackSuggestionProcedure  = "/" + LedgerServiceName + "/TrackSuggestion"
	RecordPaymentProcedure    = "/" + LedgerServiceName + "/RecordPayment"
	SetPaidProcedure          = "/" + LedgerServiceName + "/SetPaid"
	MoveToSuggestedProcedure  = "/" + LedgerServiceName + "/MoveToSuggested"
	DeleteSettlementProcedure = "/" + LedgerServiceName + "/DeleteSettlement"
	ExportXLSXProcedure       = "/" + LedgerServiceName + "/ExportXLSX"

	AddProductProcedure    = "/" + InventoryServiceName + "/AddProduct"
	UpdateProductProcedure = "/" + InventoryServiceName + "/UpdateProduct"
	DeleteProductProcedure = "/" + InventoryServiceName + "/DeleteProduct"
	ListProductsProcedure  = "/" + InventoryServiceName + "/ListProducts"
	NextSerialProcedure    = "/" + InventoryServiceName + "/NextSerial"
	GetStatsProcedure      = "/" + InventoryServiceName + "/GetStats"
)

// WithJSON configures a Connect client or handler to use the JSON codec for the wire
// types in this package.
func WithJSON() connect.Option {
	return connect.WithCodec(jsonCodec{})
}

// unary registers a Connect unary handler that calls fn with the decoded message.
func unary[Req, Res any](mux *http.ServeMux, procedure string, fn func(context.Context, *Req) (*Res, error), opts []connect.HandlerOption) {
	mux.Handle(procedure, connect.NewUnaryHandler(
		procedure,
		func(ctx context.Context, req *connect.Request[Req]) (*connect.Response[Res], error) {
			res, err := fn(ctx, req.Msg)
			if err != nil {
				return nil, toConnectError(err)
			}
			return connect.NewResponse(res), nil
		},
		opts...,
	))
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{WithJSON()}, opts...)
}
