package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"WeekdaySentinel/internal/backtest"
	"WeekdaySentinel/internal/calculator"
	"WeekdaySentinel/internal/model"
)

func TestObserveRun_Success(t *testing.T) {
	m := New()
	p := backtest.DefaultParams()
	res := &backtest.Result{
		Params:   p,
		Source:   "mock",
		Duration: 150 * time.Millisecond,
		Report: &model.SimulationReport{
			ProfitWeeks:  3,
			LossWeeks:    2,
			FinalBalance: 104.5,
			Diagnostics:  []model.Diagnostic{{TradingWeek: 4}},
		},
		Stats: calculator.Stats{TotalReturn: 0.045},
	}
	m.ObserveRun(p, res, nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.runsTotal.WithLabelValues("LTC", "ok")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.weeksTotal.WithLabelValues("LTC", "profit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.weeksTotal.WithLabelValues("LTC", "loss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.skippedWeeks.WithLabelValues("LTC")))
	assert.Equal(t, 104.5, testutil.ToFloat64(m.finalBalance.WithLabelValues("LTC")))
	assert.Equal(t, 0.045, testutil.ToFloat64(m.totalReturn.WithLabelValues("LTC")))
}

func TestObserveRun_Errors(t *testing.T) {
	m := New()
	p := backtest.DefaultParams()

	m.ObserveRun(p, nil, errors.New("network down"))
	bad := p
	bad.TaxRate = 2
	m.ObserveRun(bad, nil, bad.Validate())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.runsTotal.WithLabelValues("LTC", "retrieval_error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runsTotal.WithLabelValues("LTC", "config_error")))
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveRun(backtest.DefaultParams(), nil, errors.New("x"))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `weekday_sentinel_runs_total{instrument="LTC",result="retrieval_error"} 1`))
}
