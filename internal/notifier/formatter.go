package notifier

import (
	"fmt"
	"strconv"
	"strings"

	"FxSignal/internal/account"
	"FxSignal/internal/calculator"
	"FxSignal/internal/model"
)

// FormatSignalReport formats a report as a Telegram HTML message.
func FormatSignalReport(rep *model.Report) string {
	var b strings.Builder
	if !rep.OK() {
		b.WriteString(fmt.Sprintf("❌ <b>%s</b>\n\n%s", rep.Pair.Name, rep.Failure))
		return b.String()
	}
	plan := rep.Plan
	icon := "🟢"
	if plan.Signal.Direction == model.Sell {
		icon = "🔴"
	}
	b.WriteString(fmt.Sprintf("%s <b>%s - %s Signal</b>\n\n", icon, rep.Pair.Name, plan.Signal.Direction))
	b.WriteString(fmt.Sprintf("Entry Price: %s\n", formatPrice(plan.Signal.EntryPrice)))
	b.WriteString(fmt.Sprintf("Lot Size: %.2f\n", plan.LotSize))
	b.WriteString(fmt.Sprintf("Stop Loss: %s\n\n", formatPrice(plan.StopLoss)))
	b.WriteString(fmt.Sprintf("SMA10: %s | SMA50: %s\n", formatPrice(plan.Signal.ShortMA), formatPrice(plan.Signal.LongMA)))
	b.WriteString(fmt.Sprintf("Balance: %.2f | Risk: %s%% (%.2f)\n", rep.Balance, formatPercent(rep.RiskPercent), plan.RiskAmount))
	b.WriteString(fmt.Sprintf("<i>%s</i>", rep.GeneratedAt.UTC().Format("2006-01-02 15:04 UTC")))
	return b.String()
}

// FormatSignalText formats a report as plain text for terminals.
func FormatSignalText(rep *model.Report) string {
	if !rep.OK() {
		return rep.Failure + "\n"
	}
	plan := rep.Plan
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s - %s Signal\n", rep.Pair.Name, plan.Signal.Direction))
	b.WriteString(fmt.Sprintf("Entry Price: %s\n", formatPrice(plan.Signal.EntryPrice)))
	b.WriteString(fmt.Sprintf("Lot Size: %.2f\n", plan.LotSize))
	b.WriteString(fmt.Sprintf("Stop Loss: %s\n", formatPrice(plan.StopLoss)))
	return b.String()
}

// FormatPairs lists the supported pairs and their tickers.
func FormatPairs() string {
	var b strings.Builder
	b.WriteString("📋 <b>Pairs</b>\n\n")
	for _, p := range model.Pairs {
		b.WriteString(fmt.Sprintf("%s (%s)\n", p.Name, p.Ticker))
	}
	return b.String()
}

// FormatSettings formats the saved account defaults.
func FormatSettings(state *account.State) string {
	var b strings.Builder
	b.WriteString("⚙️ <b>Settings</b>\n\n")
	b.WriteString(fmt.Sprintf("Pair: %s\n", state.Pair))
	b.WriteString(fmt.Sprintf("Balance: %.2f\n", state.Balance))
	b.WriteString(fmt.Sprintf("Risk: %s%%\n", formatPercent(state.RiskPercent)))
	if !state.UpdatedAt.IsZero() {
		b.WriteString(fmt.Sprintf("Updated: %s\n", state.UpdatedAt.Format("2006-01-02 15:04")))
	}
	return b.String()
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(calculator.Round(v, 5), 'f', -1, 64)
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
