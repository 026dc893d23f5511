package api

import (
	"github.com/mmynk/tripsplit/internal/calculator"
	"github.com/mmynk/tripsplit/internal/inventory"
	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/service"
)

// Wire types for the JSON RPC surface.

type Trip struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Kind          string            `json:"kind"`
	Participants  []string          `json:"participants"`
	MemberAvatars map[string]string `json:"memberAvatars,omitempty"`
	CreatedAt     int64             `json:"createdAt"`
}

type Expense struct {
	ID              string             `json:"id"`
	TripID          string             `json:"tripId"`
	Title           string             `json:"title"`
	Amount          float64            `json:"amount"`
	PaidBy          string             `json:"paidBy"`
	SplitBetween    []string           `json:"splitBetween"`
	SplitType       string             `json:"splitType"`
	PerPersonAmount float64            `json:"perPersonAmount"`
	CustomSplits    map[string]float64 `json:"customSplits,omitempty"`
	PaymentMethod   string             `json:"paymentMethod"`
	ProofImageURL   string             `json:"proofImageUrl,omitempty"`
	CreatedAt       int64              `json:"createdAt"`
}

type Settlement struct {
	ID            string  `json:"id"`
	TripID        string  `json:"tripId"`
	From          string  `json:"from"`
	To            string  `json:"to"`
	Amount        float64 `json:"amount"`
	IsPaid        bool    `json:"isPaid"`
	PaidAt        *int64  `json:"paidAt,omitempty"`
	ProofImageURL string  `json:"proofImageUrl,omitempty"`
	CreatedAt     int64   `json:"createdAt"`
}

type Transaction struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

type Balance struct {
	Name   string  `json:"name"`
	Paid   float64 `json:"paid"`
	Owed   float64 `json:"owed"`
	Net    float64 `json:"net"`
	Status string  `json:"status"`
}

type Product struct {
	ID           string  `json:"id"`
	BoardID      string  `json:"boardId"`
	SerialNumber string  `json:"serialNumber"`
	ItemName     string  `json:"itemName"`
	Quantity     int     `json:"quantity"`
	Link         string  `json:"link,omitempty"`
	Subsystem    string  `json:"subsystem,omitempty"`
	AddedBy      string  `json:"addedBy"`
	Status       string  `json:"status"`
	PricePerUnit float64 `json:"pricePerUnit,omitempty"`
	TotalPrice   float64 `json:"totalPrice,omitempty"`
	Comments     string  `json:"comments,omitempty"`
	DeliveryDate *int64  `json:"deliveryDate,omitempty"`
	CreatedAt    int64   `json:"createdAt"`
	UpdatedAt    int64   `json:"updatedAt"`
}

// Ledger requests and responses

type CreateTripRequest struct {
	ID            string            `json:"id,omitempty"`
	Name          string            `json:"name,omitempty"`
	Kind          string            `json:"kind,omitempty"`
	Participants  []string          `json:"participants"`
	MemberAvatars map[string]string `json:"memberAvatars,omitempty"`
}

type TripRequest struct {
	TripID string `json:"tripId"`
}

type TripResponse struct {
	Trip Trip `json:"trip"`
}

type ListTripsRequest struct {
	Kind string `json:"kind,omitempty"`
}

type ListTripsResponse struct {
	Trips []Trip `json:"trips"`
}

type UpdateMembersRequest struct {
	TripID        string            `json:"tripId"`
	Participants  []string          `json:"participants"`
	MemberAvatars map[string]string `json:"memberAvatars,omitempty"`
}

type ExpenseFields struct {
	Title         string             `json:"title"`
	Amount        float64            `json:"amount"`
	PaidBy        string             `json:"paidBy"`
	SplitBetween  []string           `json:"splitBetween"`
	SplitType     string             `json:"splitType,omitempty"`
	CustomSplits  map[string]float64 `json:"customSplits,omitempty"`
	PaymentMethod string             `json:"paymentMethod,omitempty"`
	ProofImageURL string             `json:"proofImageUrl,omitempty"`
}

type CreateExpenseRequest struct {
	TripID string `json:"tripId"`
	ExpenseFields
}

type UpdateExpenseRequest struct {
	ExpenseID string `json:"expenseId"`
	ExpenseFields
}

type ExpenseResponse struct {
	Expense Expense `json:"expense"`
}

type ExpenseIDRequest struct {
	ExpenseID string `json:"expenseId"`
}

type ListExpensesResponse struct {
	Expenses []Expense `json:"expenses"`
}

type Empty struct{}

type SummaryResponse struct {
	Trip       Trip          `json:"trip"`
	TotalSpent float64       `json:"totalSpent"`
	Balances   []Balance     `json:"balances"`
	Suggested  []Transaction `json:"suggested"`
	Pending    []Settlement  `json:"pending"`
	Completed  []Settlement  `json:"completed"`
	AllSettled bool          `json:"allSettled"`
}

type OutstandingResponse struct {
	Transactions []Transaction `json:"transactions"`
}

type IndividualRequest struct {
	TripID string `json:"tripId"`
	Name   string `json:"name"`
}

type PersonalExpense struct {
	Expense Expense `json:"expense"`
	Share   float64 `json:"share"`
}

type IndividualResponse struct {
	Name       string            `json:"name"`
	Balance    Balance           `json:"balance"`
	Owes       []Transaction     `json:"owes"`
	Receives   []Transaction     `json:"receives"`
	Expenses   []PersonalExpense `json:"expenses"`
	TotalShare float64           `json:"totalShare"`
}

type TrackSuggestionRequest struct {
	TripID string `json:"tripId"`
	Transaction
}

type RecordPaymentRequest struct {
	TripID        string  `json:"tripId"`
	From          string  `json:"from"`
	To            string  `json:"to"`
	Amount        float64 `json:"amount"`
	ProofImageURL string  `json:"proofImageUrl,omitempty"`
}

type SettlementResponse struct {
	Settlement Settlement `json:"settlement"`
}

type SetPaidRequest struct {
	SettlementID  string `json:"settlementId"`
	Paid          bool   `json:"paid"`
	ProofImageURL string `json:"proofImageUrl,omitempty"`
}

type SettlementIDRequest struct {
	SettlementID string `json:"settlementId"`
}

type ExportResponse struct {
	Filename string `json:"filename"`
	Data     []byte `json:"data"`
}

// Inventory requests and responses

type ProductFields struct {
	SerialNumber string  `json:"serialNumber,omitempty"`
	ItemName     string  `json:"itemName"`
	Quantity     int     `json:"quantity,omitempty"`
	Link         string  `json:"link,omitempty"`
	Subsystem    string  `json:"subsystem,omitempty"`
	AddedBy      string  `json:"addedBy"`
	Status       string  `json:"status,omitempty"`
	PricePerUnit float64 `json:"pricePerUnit,omitempty"`
	TotalPrice   float64 `json:"totalPrice,omitempty"`
	Comments     string  `json:"comments,omitempty"`
	DeliveryDate *int64  `json:"deliveryDate,omitempty"`
}

type AddProductRequest struct {
	BoardID string `json:"boardId"`
	ProductFields
}

type UpdateProductRequest struct {
	BoardID   string `json:"boardId"`
	ProductID string `json:"productId"`
	ProductFields
}

type ProductResponse struct {
	Product Product `json:"product"`
}

type DeleteProductRequest struct {
	BoardID   string `json:"boardId"`
	ProductID string `json:"productId"`
}

type ListProductsRequest struct {
	BoardID      string `json:"boardId"`
	Status       string `json:"status,omitempty"`
	AddedBy      string `json:"addedBy,omitempty"`
	Subsystem    string `json:"subsystem,omitempty"`
	SerialNumber string `json:"serialNumber,omitempty"`
}

type ListProductsResponse struct {
	Products []Product `json:"products"`
}

type BoardRequest struct {
	BoardID string `json:"boardId"`
}

type NextSerialResponse struct {
	SerialNumber string `json:"serialNumber"`
}

type StatsResponse struct {
	TotalProducts int            `json:"totalProducts"`
	TotalQuantity int            `json:"totalQuantity"`
	TotalValue    float64        `json:"totalValue"`
	ByStatus      map[string]int `json:"byStatus"`
	ByPerson      map[string]int `json:"byPerson"`
	BySubsystem   map[string]int `json:"bySubsystem"`
}

// Conversions

func tripToWire(t *models.Trip) Trip {
	return Trip{
		ID:            t.ID,
		Name:          t.Name,
		Kind:          string(t.Kind),
		Participants:  t.Participants,
		MemberAvatars: t.MemberAvatars,
		CreatedAt:     t.CreatedAt,
	}
}

func expenseToWire(e *models.Expense) Expense {
	return Expense{
		ID:              e.ID,
		TripID:          e.TripID,
		Title:           e.Title,
		Amount:          e.Amount,
		PaidBy:          e.PaidBy,
		SplitBetween:    e.SplitBetween,
		SplitType:       string(e.SplitType),
		PerPersonAmount: e.PerPersonAmount,
		CustomSplits:    e.CustomSplits,
		PaymentMethod:   string(e.PaymentMethod),
		ProofImageURL:   e.ProofImageURL,
		CreatedAt:       e.CreatedAt,
	}
}

func expensesToWire(list []models.Expense) []Expense {
	out := make([]Expense, len(list))
	for i := range list {
		out[i] = expenseToWire(&list[i])
	}
	return out
}

func settlementToWire(s *models.Settlement) Settlement {
	return Settlement{
		ID:            s.ID,
		TripID:        s.TripID,
		From:          s.From,
		To:            s.To,
		Amount:        s.Amount,
		IsPaid:        s.IsPaid,
		PaidAt:        s.PaidAt,
		ProofImageURL: s.ProofImageURL,
		CreatedAt:     s.CreatedAt,
	}
}

func settlementsToWire(list []models.Settlement) []Settlement {
	out := make([]Settlement, len(list))
	for i := range list {
		out[i] = settlementToWire(&list[i])
	}
	return out
}

func txnsToWire(list []calculator.Transaction) []Transaction {
	out := make([]Transaction, len(list))
	for i, t := range list {
		out[i] = Transaction{From: t.From, To: t.To, Amount: t.Amount}
	}
	return out
}

func balanceToWire(b service.BalanceView) Balance {
	return Balance{Name: b.Name, Paid: b.Paid, Owed: b.Owed, Net: b.Net, Status: string(b.Status)}
}

func summaryToWire(s *service.Summary) *SummaryResponse {
	resp := &SummaryResponse{
		Trip:       tripToWire(s.Trip),
		TotalSpent: s.TotalSpent,
		Balances:   make([]Balance, len(s.Balances)),
		Suggested:  txnsToWire(s.Suggested),
		Pending:    settlementsToWire(s.Pending),
		Completed:  settlementsToWire(s.Completed),
		AllSettled: s.AllSettled,
	}
	for i, b := range s.Balances {
		resp.Balances[i] = balanceToWire(b)
	}
	return resp
}

func (f ExpenseFields) input() service.ExpenseInput {
	return service.ExpenseInput{
		Title:         f.Title,
		Amount:        f.Amount,
		PaidBy:        f.PaidBy,
		SplitBetween:  f.SplitBetween,
		SplitType:     models.SplitType(f.SplitType),
		CustomSplits:  f.CustomSplits,
		PaymentMethod: models.PaymentMethod(f.PaymentMethod),
		ProofImageURL: f.ProofImageURL,
	}
}

func productToWire(p *models.Product) Product {
	return Product{
		ID:           p.ID,
		BoardID:      p.BoardID,
		SerialNumber: p.SerialNumber,
		ItemName:     p.ItemName,
		Quantity:     p.Quantity,
		Link:         p.Link,
		Subsystem:    p.Subsystem,
		AddedBy:      p.AddedBy,
		Status:       string(p.Status),
		PricePerUnit: p.PricePerUnit,
		TotalPrice:   p.TotalPrice,
		Comments:     p.Comments,
		DeliveryDate: p.DeliveryDate,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func (f ProductFields) input() service.ProductInput {
	return service.ProductInput{
		SerialNumber: f.SerialNumber,
		ItemName:     f.ItemName,
		Quantity:     f.Quantity,
		Link:         f.Link,
		Subsystem:    f.Subsystem,
		AddedBy:      f.AddedBy,
		Status:       models.ProductStatus(f.Status),
		PricePerUnit: f.PricePerUnit,
		TotalPrice:   f.TotalPrice,
		Comments:     f.Comments,
		DeliveryDate: f.DeliveryDate,
	}
}

func (r ListProductsRequest) filter() inventory.Filter {
	return inventory.Filter{
		Status:       models.ProductStatus(r.Status),
		AddedBy:      r.AddedBy,
		Subsystem:    r.Subsystem,
		SerialNumber: r.SerialNumber,
	}
}

func statsToWire(s inventory.Stats) *StatsResponse {
	resp := &StatsResponse{
		TotalProducts: s.TotalProducts,
		TotalQuantity: s.TotalQuantity,
		TotalValue:    s.TotalValue,
		ByStatus:      make(map[string]int, len(s.ByStatus)),
		ByPerson:      s.ByPerson,
		BySubsystem:   s.BySubsystem,
	}
	for k, v := range s.ByStatus {
		resp.ByStatus[string(k)] = v
	}
	return resp
}
