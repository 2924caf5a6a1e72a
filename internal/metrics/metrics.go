package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"WeekdaySentinel/internal/backtest"
	"WeekdaySentinel/internal/model"
)

// Metrics holds the Prometheus collectors for backtest runs.
type Metrics struct {
	registry *prometheus.Registry

	runsTotal    *prometheus.CounterVec
	weeksTotal   *prometheus.CounterVec
	skippedWeeks *prometheus.CounterVec
	finalBalance *prometheus.GaugeVec
	totalReturn  *prometheus.GaugeVec
	runDuration  *prometheus.HistogramVec
}

// New creates the collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "weekday_sentinel_runs_total",
				Help: "Total number of backtest runs by result",
			},
			[]string{"instrument", "result"},
		),
		weeksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "weekday_sentinel_weeks_total",
				Help: "Simulated weeks by outcome",
			},
			[]string{"instrument", "outcome"},
		),
		skippedWeeks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "weekday_sentinel_skipped_weeks_total",
				Help: "Weeks skipped because of invalid prices",
			},
			[]string{"instrument"},
		),
		finalBalance: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "weekday_sentinel_final_balance_usd",
				Help: "Final balance of the latest backtest",
			},
			[]string{"instrument"},
		),
		totalReturn: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "weekday_sentinel_total_return_ratio",
				Help: "Total return of the latest backtest",
			},
			[]string{"instrument"},
		),
		runDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "weekday_sentinel_run_duration_seconds",
				Help:    "Backtest run duration including price retrieval",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source"},
		),
	}
	m.registry.MustRegister(
		m.runsTotal, m.weeksTotal, m.skippedWeeks,
		m.finalBalance, m.totalReturn, m.runDuration,
		collectors.NewGoCollector(),
	)
	return m
}

// ObserveRun records a run outcome. It implements backtest.Observer.
func (m *Metrics) ObserveRun(p backtest.Params, res *backtest.Result, err error) {
	inst := p.Instrument.String()
	if err != nil {
		result := "retrieval_error"
		if backtest.IsConfigurationError(err) {
			result = "config_error"
		}
		m.runsTotal.WithLabelValues(inst, result).Inc()
		return
	}

	m.runsTotal.WithLabelValues(inst, "ok").Inc()
	m.weeksTotal.WithLabelValues(inst, string(model.OutcomeProfit)).Add(float64(res.Report.ProfitWeeks))
	m.weeksTotal.WithLabelValues(inst, string(model.OutcomeLoss)).Add(float64(res.Report.LossWeeks))
	m.skippedWeeks.WithLabelValues(inst).Add(float64(len(res.Report.Diagnostics)))
	m.finalBalance.WithLabelValues(inst).Set(res.Report.FinalBalance)
	m.totalReturn.WithLabelValues(inst).Set(res.Stats.TotalReturn)
	m.runDuration.WithLabelValues(res.Source).Observe(res.Duration.Seconds())
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", addr).Msg("metrics endpoint listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
