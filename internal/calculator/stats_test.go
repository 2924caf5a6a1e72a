package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"WeekdaySentinel/internal/model"
)

func reportWithBalances(start float64, balances ...float64) *model.SimulationReport {
	r := &model.SimulationReport{StartingBalance: start, FinalBalance: start}
	prev := start
	for i, b := range balances {
		outcome := model.OutcomeLoss
		if b > prev {
			outcome = model.OutcomeProfit
			r.ProfitWeeks++
		} else {
			r.LossWeeks++
		}
		r.Weeks = append(r.Weeks, model.WeekResult{
			TradingWeek: i + 1,
			Result: model.WeeklyResult{
				BalanceBefore: prev,
				BalanceAfter:  b,
				Profit:        b - prev,
				Outcome:       outcome,
			},
		})
		prev = b
		r.FinalBalance = b
	}
	return r
}

func TestTotalReturn(t *testing.T) {
	r, err := TotalReturn(reportWithBalances(100, 110, 120))
	require.NoError(t, err)
	assert.InDelta(t, 0.2, r, 1e-9)

	_, err = TotalReturn(reportWithBalances(0))
	assert.Error(t, err)
}

func TestWinRate(t *testing.T) {
	r, err := WinRate(reportWithBalances(100, 110, 100, 100, 120))
	require.NoError(t, err)
	assert.InDelta(t, 0.5, r, 1e-9)

	_, err = WinRate(reportWithBalances(100))
	assert.Error(t, err)
}

func TestMaxDrawdown(t *testing.T) {
	tests := []struct {
		name     string
		balances []float64
		want     float64
	}{
		{"no weeks", nil, 0},
		{"only up", []float64{110, 120}, 0},
		{"single dip", []float64{120, 90, 130}, 0.25},
		{"deeper second dip", []float64{200, 150, 210, 105}, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, MaxDrawdown(reportWithBalances(100, tt.balances...)), 1e-9)
		})
	}
}

func TestBalanceRange(t *testing.T) {
	high, low := BalanceRange(reportWithBalances(100, 130, 80, 95))
	assert.Equal(t, 130.0, high)
	assert.Equal(t, 80.0, low)
}

func TestBestAndWorstWeek(t *testing.T) {
	best, worst, err := BestAndWorstWeek(reportWithBalances(100, 110, 90, 130))
	require.NoError(t, err)
	assert.Equal(t, 3, best.TradingWeek)
	assert.Equal(t, 2, worst.TradingWeek)

	_, _, err = BestAndWorstWeek(reportWithBalances(100))
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	st := Summarize(reportWithBalances(100, 120, 90))
	assert.InDelta(t, -0.1, st.TotalReturn, 1e-9)
	assert.InDelta(t, 0.5, st.WinRate, 1e-9)
	assert.InDelta(t, -5.0, st.AverageProfit, 1e-9)
	assert.InDelta(t, 0.25, st.MaxDrawdown, 1e-9)
	require.NotNil(t, st.BestWeek)
	assert.Equal(t, 1, st.BestWeek.TradingWeek)
	require.NotNil(t, st.WorstWeek)
	assert.Equal(t, 2, st.WorstWeek.TradingWeek)

	empty := Summarize(reportWithBalances(100))
	assert.Zero(t, empty.TotalReturn)
	assert.Nil(t, empty.BestWeek)
	assert.Equal(t, 100.0, empty.HighBalance)
}
