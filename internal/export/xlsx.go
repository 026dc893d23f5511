// Package export renders a trip's ledger as an XLSX workbook.
package export

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/mmynk/tripsplit/internal/calculator"
	"github.com/mmynk/tripsplit/internal/models"
)

// Sheet names in the generated workbook.
const (
	SheetBalances    = "Balances"
	SheetSuggested   = "Suggested"
	SheetSettlements = "Settlements"
	SheetOutstanding = "Outstanding"
	SheetExpenses    = "Expenses"
)

// Report is the data written to the workbook.
type Report struct {
	TripID      string
	TripName    string
	Balances    []calculator.Balance
	Suggested   []calculator.Transaction
	Settlements []models.Settlement
	Outstanding []calculator.Transaction
	Expenses    []models.Expense
}

type sheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
	err   error
}

func (w *sheetWriter) write(values ...any) {
	if w.err != nil {
		return
	}
	w.row++
	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetSheetRow(w.sheet, cell, &values)
}

// WriteXLSX builds the workbook and returns its bytes.
func WriteXLSX(r Report) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetBalances); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetSuggested, SheetSettlements, SheetOutstanding, SheetExpenses} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	writers := []func(*excelize.File, Report) error{
		writeBalances, writeSuggested, writeSettlements, writeOutstanding, writeExpenses,
	}
	for _, fn := range writers {
		if err := fn(f, r); err != nil {
			return nil, err
		}
	}

	_ = f.SetColWidth(SheetBalances, "A", "A", 20)
	_ = f.SetColWidth(SheetExpenses, "B", "B", 28)
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	slog.Info("Trip exported",
		"trip_id", r.TripID,
		"expenses", len(r.Expenses),
		"settlements", len(r.Settlements),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func writeBalances(f *excelize.File, r Report) error {
	w := &sheetWriter{f: f, sheet: SheetBalances}
	w.write("Trip", r.TripName)
	w.write("Name", "Paid", "Owed", "Net", "Status")
	for _, b := range r.Balances {
		w.write(b.Name, cell(b.Paid), cell(b.Owed), cell(b.Net), string(b.Status()))
	}
	return sheetErr(w)
}

func writeSuggested(f *excelize.File, r Report) error {
	w := &sheetWriter{f: f, sheet: SheetSuggested}
	w.write("From", "To", "Amount")
	for _, t := range r.Suggested {
		w.write(t.From, t.To, cell(t.Amount))
	}
	return sheetErr(w)
}

func writeSettlements(f *excelize.File, r Report) error {
	w := &sheetWriter{f: f, sheet: SheetSettlements}
	w.write("From", "To", "Amount", "Status", "Paid At", "Proof")
	for _, s := range r.Settlements {
		status, paidAt := "Pending", ""
		if s.IsPaid {
			status = "Paid"
			if s.PaidAt != nil {
				paidAt = time.UnixMilli(*s.PaidAt).UTC().Format(time.RFC3339)
			}
		}
		w.write(s.From, s.To, cell(s.Amount), status, paidAt, s.ProofImageURL)
	}
	return sheetErr(w)
}

func writeOutstanding(f *excelize.File, r Report) error {
	w := &sheetWriter{f: f, sheet: SheetOutstanding}
	w.write("From", "To", "Amount")
	for _, t := range r.Outstanding {
		w.write(t.From, t.To, cell(t.Amount))
	}
	return sheetErr(w)
}

func writeExpenses(f *excelize.File, r Report) error {
	w := &sheetWriter{f: f, sheet: SheetExpenses}
	w.write("Date", "Title", "Amount", "Paid By", "Split", "Split Between", "Method")
	for _, e := range r.Expenses {
		w.write(
			time.UnixMilli(e.CreatedAt).UTC().Format("2006-01-02"),
			e.Title,
			cell(e.Amount),
			e.PaidBy,
			string(e.SplitType),
			strings.Join(e.SplitBetween, ", "),
			string(e.PaymentMethod),
		)
	}
	return sheetErr(w)
}

func sheetErr(w *sheetWriter) error {
	if w.err != nil {
		return fmt.Errorf("write sheet %s: %w", w.sheet, w.err)
	}
	return nil
}
