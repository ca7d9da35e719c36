package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"TradeBench/internal/sim"
)

// ExportTradesCSV writes the full ledger of a batch run to one CSV file,
// rows ordered by symbol then date.
func ExportTradesCSV(path string, out *sim.RunOutput) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"date", "symbol", "price", "proposed", "final", "quantity",
		"effective_price", "success", "note", "fees", "realized_pnl",
		"cash_after", "shares_after", "equity_after", "decision_ms",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, res := range out.Results {
		if res.Err != nil {
			continue
		}
		for _, row := range res.Rows {
			rec := []string{
				row.Date.Format("2006-01-02"),
				row.Symbol,
				row.Price.String(),
				string(row.Proposed),
				string(row.Final),
				strconv.FormatInt(row.Quantity, 10),
				row.EffectivePrice.String(),
				strconv.FormatBool(row.Success),
				row.Note,
				row.Fees.String(),
				row.RealizedPnL.String(),
				row.CashAfter.String(),
				strconv.FormatInt(row.SharesAfter, 10),
				row.EquityAfter.String(),
				strconv.FormatInt(row.DecisionMS, 10),
			}
			if err := w.Write(rec); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}
