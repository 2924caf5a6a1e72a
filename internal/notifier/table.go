package notifier

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"WeekdaySentinel/internal/backtest"
	"WeekdaySentinel/internal/model"
)

// RenderTable writes the per-week results and a summary as console tables.
func RenderTable(w io.Writer, res *backtest.Result) {
	p := res.Params
	r := res.Report

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(fmt.Sprintf("%s | buy %s (%s) sell %s (%s)", p.Instrument.Pair(), p.PurchaseDay, p.Policy.Purchase, p.SellDay, p.Policy.Sell))
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Week", "Bought", "Sold", "Buy price", "Sell price", "Profit", "Outcome", "Balance"})
	for _, wr := range r.Weeks {
		outcome := text.FgGreen.Sprint(wr.Result.Outcome)
		if wr.Result.Outcome == model.OutcomeLoss {
			outcome = text.FgRed.Sprint(wr.Result.Outcome)
		}
		t.AppendRow(table.Row{
			wr.TradingWeek,
			wr.Result.PurchaseDate,
			wr.Result.SellDate,
			fmt.Sprintf("%.4f", wr.Result.PurchasePrice),
			fmt.Sprintf("%.4f", wr.Result.SellPrice),
			fmt.Sprintf("%+.2f", wr.Result.Profit),
			outcome,
			fmt.Sprintf("$%.2f", wr.Result.BalanceAfter),
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 8, Align: text.AlignRight},
	})
	t.Render()
	fmt.Fprintln(w)

	s := table.NewWriter()
	s.SetOutputMirror(w)
	s.SetTitle("SUMMARY")
	s.SetStyle(table.StyleRounded)
	s.AppendRows([]table.Row{
		{"💰 Starting balance", fmt.Sprintf("$%.2f", r.StartingBalance)},
		{"💰 Final balance", fmt.Sprintf("$%.2f", r.FinalBalance)},
		{"📈 Total return", fmt.Sprintf("%+.2f%%", res.Stats.TotalReturn*100)},
	})
	s.AppendSeparator()
	s.AppendRows([]table.Row{
		{"✅ Profit weeks", r.ProfitWeeks},
		{"❌ Loss weeks", r.LossWeeks},
		{"🎯 Win rate", fmt.Sprintf("%.1f%%", res.Stats.WinRate*100)},
		{"📉 Max drawdown", fmt.Sprintf("%.2f%%", res.Stats.MaxDrawdown*100)},
		{"⚠️ Skipped weeks", len(r.Diagnostics)},
	})
	s.AppendSeparator()
	s.AppendRows([]table.Row{
		{"📊 Records", fmt.Sprintf("%d from %s", res.Records, res.Source)},
		{"🧾 Tax", fmt.Sprintf("%.2f%%", p.TaxRate*100)},
	})
	s.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 20, Align: text.AlignLeft},
		{Number: 2, WidthMin: 20, Align: text.AlignLeft},
	})
	s.Render()
}
