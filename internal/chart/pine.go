package chart

import (
	"fmt"
	"strings"
	"time"

	"FxSignal/internal/calculator"
	"FxSignal/internal/model"
	"FxSignal/internal/strategy"
)

// PineScript renders the signal as a TradingView overlay: both averages,
// the stop line and an entry label on the signal bar.
func PineScript(rep *model.Report) (string, error) {
	if !rep.OK() || rep.Series == nil || len(rep.Series.Bars) == 0 {
		return "", errNoPlan
	}
	plan := rep.Plan
	var sb strings.Builder

	sb.WriteString("//@version=5\n")
	sb.WriteString(fmt.Sprintf("indicator(\"%s - %s Signal\", overlay=true)\n\n", rep.Pair.Name, plan.Signal.Direction))
	sb.WriteString(fmt.Sprintf("plot(ta.sma(close, %d), title=\"SMA%d\", color=color.orange)\n", strategy.ShortWindow, strategy.ShortWindow))
	sb.WriteString(fmt.Sprintf("plot(ta.sma(close, %d), title=\"SMA%d\", color=color.blue)\n\n", strategy.LongWindow, strategy.LongWindow))

	color := "color.green"
	style := "shape.labelup"
	if plan.Signal.Direction == model.Sell {
		color = "color.red"
		style = "shape.labeldown"
	}
	entryText := fmt.Sprintf("%s\\nEntry: %.5f\\nSL: %.5f\\nLots: %.2f",
		plan.Signal.Direction, plan.Signal.EntryPrice, plan.StopLoss, plan.LotSize)

	sb.WriteString(fmt.Sprintf("entry_bar = time == %s\n", formatPineTimestamp(rep.Series.Last().Time)))
	sb.WriteString(fmt.Sprintf("plotshape(entry_bar, title=\"Entry\", location=location.abovebar, color=%s, style=%s, size=size.small, text=\"%s\", textcolor=color.white)\n",
		color, style, entryText))
	sb.WriteString(fmt.Sprintf("hline(%.5f, title=\"Stop Loss %.1f%%\", color=color.red, linestyle=hline.style_dashed)\n",
		plan.StopLoss, (1-calculator.StopLossFactor)*100))

	return sb.String(), nil
}

func formatPineTimestamp(t time.Time) string {
	utc := t.UTC()
	return fmt.Sprintf("timestamp(\"UTC\", %d, %d, %d, %d, %d)",
		utc.Year(), int(utc.Month()), utc.Day(), utc.Hour(), utc.Minute())
}
