package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/tripsplit/internal/calculator"
	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/service"
)

// LedgerHandler adapts service.LedgerService to the wire types.
type LedgerHandler struct {
	svc *service.LedgerService
}

// RegisterLedger mounts every ledger procedure on mux.
func RegisterLedger(mux *http.ServeMux, svc *service.LedgerService, opts ...connect.HandlerOption) {
	h := &LedgerHandler{svc: svc}
	o := handlerOptions(opts)

	unary(mux, CreateTripProcedure, h.CreateTrip, o)
	unary(mux, GetTripProcedure, h.GetTrip, o)
	unary(mux, ListTripsProcedure, h.ListTrips, o)
	unary(mux, UpdateMembersProcedure, h.UpdateMembers, o)
	unary(mux, CreateExpenseProcedure, h.CreateExpense, o)
	unary(mux, UpdateExpenseProcedure, h.UpdateExpense, o)
	unary(mux, DeleteExpenseProcedure, h.DeleteExpense, o)
	unary(mux, ListExpensesProcedure, h.ListExpenses, o)
	unary(mux, GetSummaryProcedure, h.GetSummary, o)
	unary(mux, GetOutstandingProcedure, h.GetOutstanding, o)
	unary(mux, GetIndividualProcedure, h.GetIndividual, o)
	unary(mux, TrackSuggestionProcedure, h.TrackSuggestion, o)
	unary(mux, RecordPaymentProcedure, h.RecordPayment, o)
	unary(mux, SetPaidProcedure, h.SetPaid, o)
	unary(mux, MoveToSuggestedProcedure, h.MoveToSuggested, o)
	unary(mux, DeleteSettlementProcedure, h.DeleteSettlement, o)
	unary(mux, ExportXLSXProcedure, h.ExportXLSX, o)

	mux.Handle(WatchSummaryProcedure, connect.NewServerStreamHandler(WatchSummaryProcedure, h.WatchSummary, o...))
}

func (h *LedgerHandler) CreateTrip(ctx context.Context, req *CreateTripRequest) (*TripResponse, error) {
	trip, err := h.svc.CreateTrip(ctx, service.CreateTripInput{
		ID:            req.ID,
		Name:          req.Name,
		Kind:          models.BoardKind(req.Kind),
		Participants:  req.Participants,
		MemberAvatars: req.MemberAvatars,
	})
	if err != nil {
		return nil, err
	}
	return &TripResponse{Trip: tripToWire(trip)}, nil
}

func (h *LedgerHandler) GetTrip(ctx context.Context, req *TripRequest) (*TripResponse, error) {
	trip, err := h.svc.GetTrip(ctx, req.TripID)
	if err != nil {
		return nil, err
	}
	return &TripResponse{Trip: tripToWire(trip)}, nil
}

func (h *LedgerHandler) ListTrips(ctx context.Context, req *ListTripsRequest) (*ListTripsResponse, error) {
	trips, err := h.svc.ListTrips(ctx, models.BoardKind(req.Kind))
	if err != nil {
		return nil, err
	}
	resp := &ListTripsResponse{Trips: make([]Trip, len(trips))}
	for i, t := range trips {
		resp.Trips[i] = tripToWire(t)
	}
	return resp, nil
}

func (h *LedgerHandler) UpdateMembers(ctx context.Context, req *UpdateMembersRequest) (*TripResponse, error) {
	trip, err := h.svc.UpdateMembers(ctx, req.TripID, req.Participants, req.MemberAvatars)
	if err != nil {
		return nil, err
	}
	return &TripResponse{Trip: tripToWire(trip)}, nil
}

func (h *LedgerHandler) CreateExpense(ctx context.Context, req *CreateExpenseRequest) (*ExpenseResponse, error) {
	exp, err := h.svc.CreateExpense(ctx, req.TripID, req.ExpenseFields.input())
	if err != nil {
		return nil, err
	}
	return &ExpenseResponse{Expense: expenseToWire(exp)}, nil
}

func (h *LedgerHandler) UpdateExpense(ctx context.Context, req *UpdateExpenseRequest) (*ExpenseResponse, error) {
	exp, err := h.svc.UpdateExpense(ctx, req.ExpenseID, req.ExpenseFields.input())
	if err != nil {
		return nil, err
	}
	return &ExpenseResponse{Expense: expenseToWire(exp)}, nil
}

func (h *LedgerHandler) DeleteExpense(ctx context.Context, req *ExpenseIDRequest) (*Empty, error) {
	if err := h.svc.DeleteExpense(ctx, req.ExpenseID); err != nil {
		return nil, err
	}
	return &Empty{}, nil
}

func (h *LedgerHandler) ListExpenses(ctx context.Context, req *TripRequest) (*ListExpensesResponse, error) {
	expenses, err := h.svc.ListExpenses(ctx, req.TripID)
	if err != nil {
		return nil, err
	}
	return &ListExpensesResponse{Expenses: expensesToWire(expenses)}, nil
}

func (h *LedgerHandler) GetSummary(ctx context.Context, req *TripRequest) (*SummaryResponse, error) {
	sum, err := h.svc.GetSummary(ctx, req.TripID)
	if err != nil {
		return nil, err
	}
	return summaryToWire(sum), nil
}

// WatchSummary streams a fresh summary after every change to the trip until the
// client goes away.
func (h *LedgerHandler) WatchSummary(ctx context.Context, req *connect.Request[TripRequest], stream *connect.ServerStream[SummaryResponse]) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var sendErr error
	err := h.svc.Watch(ctx, req.Msg.TripID, func(sum *service.Summary) {
		if sendErr != nil {
			return
		}
		if sendErr = stream.Send(summaryToWire(sum)); sendErr != nil {
			slog.Debug("WatchSummary send failed", "trip_id", req.Msg.TripID, "error", sendErr)
			cancel()
		}
	})
	if sendErr != nil {
		return sendErr
	}
	if err == nil || ctx.Err() != nil {
		return nil
	}
	return toConnectError(err)
}

func (h *LedgerHandler) GetOutstanding(ctx context.Context, req *TripRequest) (*OutstandingResponse, error) {
	txns, err := h.svc.GetOutstanding(ctx, req.TripID)
	if err != nil {
		return nil, err
	}
	return &OutstandingResponse{Transactions: txnsToWire(txns)}, nil
}

func (h *LedgerHandler) GetIndividual(ctx context.Context, req *IndividualRequest) (*IndividualResponse, error) {
	board, err := h.svc.GetIndividual(ctx, req.TripID, req.Name)
	if err != nil {
		return nil, err
	}
	resp := &IndividualResponse{
		Name:       board.Name,
		Balance:    balanceToWire(board.Balance),
		Owes:       txnsToWire(board.Owes),
		Receives:   txnsToWire(board.Receives),
		Expenses:   make([]PersonalExpense, len(board.Expenses)),
		TotalShare: board.TotalShare,
	}
	for i, pe := range board.Expenses {
		resp.Expenses[i] = PersonalExpense{Expense: expenseToWire(&pe.Expense), Share: pe.Share}
	}
	return resp, nil
}

func (h *LedgerHandler) TrackSuggestion(ctx context.Context, req *TrackSuggestionRequest) (*SettlementResponse, error) {
	st, err := h.svc.TrackSuggestion(ctx, req.TripID, calculator.Transaction{
		From:   req.From,
		To:     req.To,
		Amount: req.Amount,
	})
	if err != nil {
		return nil, err
	}
	return &SettlementResponse{Settlement: settlementToWire(st)}, nil
}

func (h *LedgerHandler) RecordPayment(ctx context.Context, req *RecordPaymentRequest) (*SettlementResponse, error) {
	st, err := h.svc.RecordPayment(ctx, req.TripID, service.PaymentInput{
		From:          req.From,
		To:            req.To,
		Amount:        req.Amount,
		ProofImageURL: req.ProofImageURL,
	})
	if err != nil {
		return nil, err
	}
	return &SettlementResponse{Settlement: settlementToWire(st)}, nil
}

func (h *LedgerHandler) SetPaid(ctx context.Context, req *SetPaidRequest) (*SettlementResponse, error) {
	st, err := h.svc.SetPaid(ctx, req.SettlementID, req.Paid, req.ProofImageURL)
	if err != nil {
		return nil, err
	}
	return &SettlementResponse{Settlement: settlementToWire(st)}, nil
}

func (h *LedgerHandler) MoveToSuggested(ctx context.Context, req *SettlementIDRequest) (*Empty, error) {
	if err := h.svc.MoveToSuggested(ctx, req.SettlementID); err != nil {
		return nil, err
	}
	return &Empty{}, nil
}

func (h *LedgerHandler) DeleteSettlement(ctx context.Context, req *SettlementIDRequest) (*Empty, error) {
	if err := h.svc.DeleteSettlement(ctx, req.SettlementID); err != nil {
		return nil, err
	}
	return &Empty{}, nil
}

func (h *LedgerHandler) ExportXLSX(ctx context.Context, req *TripRequest) (*ExportResponse, error) {
	data, err := h.svc.ExportXLSX(ctx, req.TripID)
	if err != nil {
		return nil, err
	}
	return &ExportResponse{Filename: fmt.Sprintf("%s.xlsx", req.TripID), Data: data}, nil
}
