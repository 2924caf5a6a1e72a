package calculator

import (
	"errors"

	"WeekdaySentinel/internal/model"
)

// Stats summarizes a simulation report.
type Stats struct {
	TotalReturn   float64 // final/start - 1
	WinRate       float64 // 0.0 ~ 1.0
	AverageProfit float64
	MaxDrawdown   float64
	HighBalance   float64
	LowBalance    float64
	BestWeek      *model.WeekResult
	WorstWeek     *model.WeekResult
}

// TotalReturn returns the fractional change from the starting to the final balance.
func TotalReturn(report *model.SimulationReport) (float64, error) {
	if report.StartingBalance <= 0 {
		return 0, errors.New("starting balance must be positive")
	}
	return report.FinalBalance/report.StartingBalance - 1, nil
}

// WinRate returns the share of simulated weeks that ended in profit.
func WinRate(report *model.SimulationReport) (float64, error) {
	total := report.TotalWeeks()
	if total == 0 {
		return 0, errors.New("no simulated weeks")
	}
	return float64(report.ProfitWeeks) / float64(total), nil
}

// AverageProfit returns the mean weekly profit in USD.
func AverageProfit(report *model.SimulationReport) (float64, error) {
	if len(report.Weeks) == 0 {
		return 0, errors.New("no simulated weeks")
	}
	sum := 0.0
	for _, w := range report.Weeks {
		sum += w.Result.Profit
	}
	return sum / float64(len(report.Weeks)), nil
}

// Summarize computes all statistics. Values that cannot be computed stay zero.
func Summarize(report *model.SimulationReport) Stats {
	var st Stats
	if r, err := TotalReturn(report); err == nil {
		st.TotalReturn = r
	}
	if r, err := WinRate(report); err == nil {
		st.WinRate = r
	}
	if p, err := AverageProfit(report); err == nil {
		st.AverageProfit = p
	}
	st.MaxDrawdown = MaxDrawdown(report)
	st.HighBalance, st.LowBalance = BalanceRange(report)
	if best, worst, err := BestAndWorstWeek(report); err == nil {
		st.BestWeek = &best
		st.WorstWeek = &worst
	}
	return st
}
