package notifier

import (
	"fmt"
	"html"
	"strings"

	"WeekdaySentinel/internal/backtest"
	"WeekdaySentinel/internal/model"
)

// FormatReport formats a backtest result into a Telegram HTML message.
func FormatReport(res *backtest.Result) string {
	var b strings.Builder
	p := res.Params
	r := res.Report

	b.WriteString(fmt.Sprintf("📊 <b>Weekly backtest</b> | %s | %s\n\n",
		html.EscapeString(p.Instrument.Pair()), res.Started.UTC().Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Strategy: buy %s (%s), sell %s (%s)\n",
		p.PurchaseDay, p.Policy.Purchase, p.SellDay, p.Policy.Sell))
	b.WriteString(fmt.Sprintf("Window: %d days (%d records) via %s\n", p.Days, res.Records, html.EscapeString(res.Source)))
	b.WriteString(fmt.Sprintf("Tax: %.2f%% per conversion\n\n", p.TaxRate*100))

	if r.TotalWeeks() == 0 {
		b.WriteString("No complete weeks to simulate.\n")
	} else {
		b.WriteString("📈 <b>Weeks:</b>\n")
		for _, w := range r.Weeks {
			icon := "✅"
			if w.Result.Outcome != model.OutcomeProfit {
				icon = "❌"
			}
			b.WriteString(fmt.Sprintf("  %s W%d %s→%s: %.4f→%.4f, %+.2f → $%.2f\n",
				icon, w.TradingWeek, w.Result.PurchaseDate, w.Result.SellDate,
				w.Result.PurchasePrice, w.Result.SellPrice, w.Result.Profit, w.Result.BalanceAfter))
		}
		b.WriteString("\n")
	}

	b.WriteString(FormatSummary(res))
	return b.String()
}

// FormatSummary is the one-paragraph outcome of a run.
func FormatSummary(res *backtest.Result) string {
	var b strings.Builder
	r := res.Report
	b.WriteString(fmt.Sprintf("Profit weeks: %d | Loss weeks: %d\n", r.ProfitWeeks, r.LossWeeks))
	b.WriteString(fmt.Sprintf("Starting with $%.2f across %d weeks, funds are now worth $%.2f (%+.2f%%)\n",
		r.StartingBalance, r.TotalWeeks(), r.FinalBalance, res.Stats.TotalReturn*100))
	if r.TotalWeeks() > 0 {
		b.WriteString(fmt.Sprintf("Win rate: %.0f%% | Max drawdown: %.2f%%\n", res.Stats.WinRate*100, res.Stats.MaxDrawdown*100))
	}
	if n := len(r.Diagnostics); n > 0 {
		b.WriteString(fmt.Sprintf("⚠️ %d week(s) skipped for invalid prices\n", n))
	}
	return b.String()
}

// FormatParams describes the configured run.
func FormatParams(p backtest.Params) string {
	var b strings.Builder
	b.WriteString("⚙️ <b>Backtest settings</b>\n\n")
	b.WriteString(fmt.Sprintf("Instrument: %s\n", html.EscapeString(p.Instrument.Pair())))
	b.WriteString(fmt.Sprintf("Days: %d\n", p.Days))
	b.WriteString(fmt.Sprintf("Buy: %s at %s\n", p.PurchaseDay, p.Policy.Purchase))
	b.WriteString(fmt.Sprintf("Sell: %s at %s\n", p.SellDay, p.Policy.Sell))
	b.WriteString(fmt.Sprintf("Starting balance: $%.2f\n", p.StartingBalance))
	b.WriteString(fmt.Sprintf("Tax: %.2f%%\n", p.TaxRate*100))
	b.WriteString(fmt.Sprintf("Week rollover: after %s (%s)\n", p.Rollover, p.GroupBy))
	return b.String()
}
