package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mmynk/tripsplit/internal/calculator"
	"github.com/mmynk/tripsplit/internal/export"
	"github.com/mmynk/tripsplit/internal/models"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func flushTable(w *tabwriter.Writer) {
	if err := w.Flush(); err != nil {
		slog.Error("failed to flush table writer", "error", err)
	}
}

func header(cols ...string) string {
	styled := make([]string, len(cols))
	for i, c := range cols {
		styled[i] = headerStyle.Render(c)
	}
	return strings.Join(styled, "\t")
}

func (a *app) tripsCmd() *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "trips",
		Short: "List trips and purchase sheets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ledger, store, err := a.openLedger()
			if err != nil {
				return err
			}
			defer closeStore(store)

			trips, err := ledger.ListTrips(cmd.Context(), models.BoardKind(kind))
			if err != nil {
				return fmt.Errorf("failed to list trips: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(trips) == 0 {
				fmt.Fprintln(out, subtleStyle.Render("No trips found."))
				return nil
			}

			w := newTable(out)
			defer flushTable(w)
			fmt.Fprintln(w, header("ID", "Name", "Kind", "Participants"))
			for _, t := range trips {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.ID, t.Name, t.Kind, strings.Join(t.Participants, ", "))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "only list boards of this kind (trip, purchase_sheet)")
	return cmd
}

func (a *app) balancesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balances <trip-id>",
		Short: "Show each participant's paid, owed and net balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ledger, store, err := a.openLedger()
			if err != nil {
				return err
			}
			defer closeStore(store)

			sum, err := ledger.GetSummary(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to compute summary: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, titleStyle.Render(sum.Trip.Name))
			fmt.Fprintf(out, "Total spent: %s\n\n", export.FormatMoney(sum.TotalSpent))

			w := newTable(out)
			defer flushTable(w)
			fmt.Fprintln(w, header("Name", "Paid", "Owed", "Net", "Status"))
			for _, b := range sum.Balances {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					b.Name,
					export.FormatMoney(b.Paid),
					export.FormatMoney(b.Owed),
					export.FormatMoney(b.Net),
					statusStyle(b.Status).Render(string(b.Status)),
				)
			}
			return nil
		},
	}
}

func (a *app) suggestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <trip-id>",
		Short: "Show the settlement plan and tracked settlements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ledger, store, err := a.openLedger()
			if err != nil {
				return err
			}
			defer closeStore(store)

			sum, err := ledger.GetSummary(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to compute summary: %w", err)
			}

			out := cmd.OutOrStdout()
			if sum.AllSettled {
				fmt.Fprintln(out, getsBackStyle.Render("All settled up."))
				return nil
			}

			printTransactions(out, "Suggested", sum.Suggested)
			printSettlements(out, "Pending", sum.Pending)
			printSettlements(out, "Completed", sum.Completed)
			return nil
		},
	}
}

func (a *app) outstandingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "outstanding <trip-id>",
		Short: "Show pairwise debts netted across all expenses and paid settlements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ledger, store, err := a.openLedger()
			if err != nil {
				return err
			}
			defer closeStore(store)

			txns, err := ledger.GetOutstanding(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to compute outstanding debts: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(txns) == 0 {
				fmt.Fprintln(out, getsBackStyle.Render("Nothing outstanding."))
				return nil
			}
			printTransactions(out, "Outstanding", txns)
			return nil
		},
	}
}

func (a *app) individualCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "individual <trip-id> <name>",
		Short: "Show one participant's share of the plan",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ledger, store, err := a.openLedger()
			if err != nil {
				return err
			}
			defer closeStore(store)

			board, err := ledger.GetIndividual(cmd.Context(), args[0], args[1])
			if err != nil {
				return fmt.Errorf("failed to compute individual view: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, titleStyle.Render(board.Name))
			fmt.Fprintf(out, "Net: %s (%s)\n", export.FormatMoney(board.Balance.Net),
				statusStyle(board.Balance.Status).Render(string(board.Balance.Status)))
			fmt.Fprintf(out, "Total share: %s\n\n", export.FormatMoney(board.TotalShare))

			printTransactions(out, "Owes", board.Owes)
			printTransactions(out, "Receives", board.Receives)
			return nil
		},
	}
}

func (a *app) exportCmd() *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "export <trip-id>",
		Short: "Export a trip to an Excel workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ledger, store, err := a.openLedger()
			if err != nil {
				return err
			}
			defer closeStore(store)

			data, err := ledger.ExportXLSX(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to export trip: %w", err)
			}

			if outPath == "" {
				outPath = args[0] + ".xlsx"
			}
			if dir := filepath.Dir(outPath); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("failed to create output directory: %w", err)
				}
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", outPath, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %s (%d bytes)\n", outPath, len(data))
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default: <trip-id>.xlsx)")
	return cmd
}

func printTransactions(out io.Writer, title string, txns []calculator.Transaction) {
	if len(txns) == 0 {
		return
	}
	fmt.Fprintln(out, titleStyle.Render(title))
	w := newTable(out)
	fmt.Fprintln(w, header("From", "To", "Amount"))
	for _, t := range txns {
		fmt.Fprintf(w, "%s\t%s\t%s\n", t.From, t.To, export.FormatMoney(t.Amount))
	}
	flushTable(w)
	fmt.Fprintln(out)
}

func printSettlements(out io.Writer, title string, settlements []models.Settlement) {
	if len(settlements) == 0 {
		return
	}
	fmt.Fprintln(out, titleStyle.Render(title))
	w := newTable(out)
	fmt.Fprintln(w, header("ID", "From", "To", "Amount"))
	for _, s := range settlements {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.ID, s.From, s.To, export.FormatMoney(s.Amount))
	}
	flushTable(w)
	fmt.Fprintln(out)
}
