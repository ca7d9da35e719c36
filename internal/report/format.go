package report

import (
	"fmt"
	"math"
	"strings"
)

// Format renders the run summary as console text.
func Format(sum *Summary) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Run %s\n", sum.RunID))
	b.WriteString(strings.Repeat("=", 60) + "\n")

	for _, ss := range sum.Symbols {
		b.WriteString(fmt.Sprintf("%s\n", ss.Symbol))
		b.WriteString(fmt.Sprintf("  initial cash:   %s\n", ss.InitialCash.StringFixed(2)))
		b.WriteString(fmt.Sprintf("  final equity:   %s (%+.2f%%)\n", ss.FinalEquity.StringFixed(2), ss.TotalReturnPct*100))
		b.WriteString(fmt.Sprintf("  realized P&L:   %s\n", ss.RealizedPnL.StringFixed(2)))
		b.WriteString(fmt.Sprintf("  unrealized P&L: %s\n", ss.UnrealizedPnL.StringFixed(2)))
		b.WriteString(fmt.Sprintf("  fees paid:      %s\n", ss.FeesTotal.StringFixed(2)))
		b.WriteString(fmt.Sprintf("  trades:         %d (wins %d, losses %d, win rate %.1f%%)\n",
			ss.TradeCount, ss.WinCount, ss.LossCount, ss.WinRate*100))
		b.WriteString(fmt.Sprintf("  profit factor:  %s\n", formatProfitFactor(ss.ProfitFactor)))
		b.WriteString(fmt.Sprintf("  max drawdown:   %.2f%%\n", ss.MaxDrawdownPct*100))
		if ss.FailedDays > 0 {
			b.WriteString(fmt.Sprintf("  failed days:    %d\n", ss.FailedDays))
		}
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat("-", 60) + "\n")
	b.WriteString(fmt.Sprintf("total equity:   %s\n", sum.FinalEquity.StringFixed(2)))
	b.WriteString(fmt.Sprintf("realized P&L:   %s\n", sum.RealizedPnL.StringFixed(2)))
	b.WriteString(fmt.Sprintf("fees paid:      %s\n", sum.FeesTotal.StringFixed(2)))
	b.WriteString(fmt.Sprintf("trades:         %d | win rate %.1f%% | profit factor %s\n",
		sum.TradeCount, sum.WinRate*100, formatProfitFactor(sum.ProfitFactor)))
	b.WriteString(fmt.Sprintf("max drawdown:   %.2f%%\n", sum.MaxDrawdown*100))
	if sum.FailedDays > 0 {
		b.WriteString(fmt.Sprintf("failed days:    %d\n", sum.FailedDays))
	}
	return b.String()
}

func formatProfitFactor(pf float64) string {
	if math.IsInf(pf, 1) {
		return "inf"
	}
	return fmt.Sprintf("%.2f", pf)
}
