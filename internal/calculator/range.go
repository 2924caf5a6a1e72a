package calculator

import (
	"errors"
	"math"

	"WeekdaySentinel/internal/model"
)

// BalancePath returns the starting balance followed by the balance after each simulated week.
func BalancePath(report *model.SimulationReport) []float64 {
	path := make([]float64, 0, len(report.Weeks)+1)
	path = append(path, report.StartingBalance)
	for _, w := range report.Weeks {
		path = append(path, w.Result.BalanceAfter)
	}
	return path
}

// BalanceRange scans the balance path and returns its high and low.
func BalanceRange(report *model.SimulationReport) (high, low float64) {
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, b := range BalancePath(report) {
		if b > high {
			high = b
		}
		if b < low {
			low = b
		}
	}
	return high, low
}

// MaxDrawdown returns the largest peak-to-trough fall of the balance path as a fraction (0.0~1.0).
func MaxDrawdown(report *model.SimulationReport) float64 {
	peak := 0.0
	maxDD := 0.0
	for _, b := range BalancePath(report) {
		if b > peak {
			peak = b
		}
		if peak <= 0 {
			continue
		}
		if dd := (peak - b) / peak; dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// BestAndWorstWeek returns the weeks with the highest and lowest profit.
func BestAndWorstWeek(report *model.SimulationReport) (best, worst model.WeekResult, err error) {
	if len(report.Weeks) == 0 {
		return best, worst, errors.New("no simulated weeks")
	}
	best, worst = report.Weeks[0], report.Weeks[0]
	for _, w := range report.Weeks[1:] {
		if w.Result.Profit > best.Result.Profit {
			best = w
		}
		if w.Result.Profit < worst.Result.Profit {
			worst = w
		}
	}
	return best, worst, nil
}
