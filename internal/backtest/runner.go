package backtest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"WeekdaySentinel/internal/calculator"
	"WeekdaySentinel/internal/calendar"
	"WeekdaySentinel/internal/collector"
	"WeekdaySentinel/internal/model"
	"WeekdaySentinel/internal/pairing"
	"WeekdaySentinel/internal/simulator"
)

// Result is the output of one pipeline run.
type Result struct {
	Params   Params
	Source   string
	Trigger  model.TriggerType
	Records  int
	Report   *model.SimulationReport
	Stats    calculator.Stats
	Started  time.Time
	Duration time.Duration
}

// Observer receives run outcomes, e.g. for metrics.
type Observer interface {
	ObserveRun(p Params, res *Result, err error)
}

// Runner orchestrates fetch, annotation, pairing and simulation.
type Runner struct {
	Fetcher  collector.Fetcher
	Observer Observer
}

// NewRunner creates a new Runner.
func NewRunner(fetcher collector.Fetcher) *Runner {
	return &Runner{Fetcher: fetcher}
}

// Run validates p, fetches prices and simulates. Parameter errors abort
// before any fetch; fetch errors are wrapped with model.ErrRetrieval.
func (r *Runner) Run(ctx context.Context, p Params, trigger model.TriggerType) (*Result, error) {
	res, err := r.run(ctx, p, trigger)
	if r.Observer != nil {
		r.Observer.ObserveRun(p, res, err)
	}
	return res, err
}

func (r *Runner) run(ctx context.Context, p Params, trigger model.TriggerType) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	started := time.Now()
	records, err := r.Fetcher.FetchDailyPrices(ctx, p.Instrument, p.Days)
	if err != nil {
		return nil, fmt.Errorf("fetch %s daily prices: %w", p.Instrument, wrapRetrieval(err))
	}

	res := Execute(records, p)
	res.Source = r.Fetcher.Name()
	res.Trigger = trigger
	res.Started = started
	res.Duration = time.Since(started)

	log.Info().
		Str("instrument", p.Instrument.String()).
		Str("source", res.Source).
		Int("records", res.Records).
		Int("profit_weeks", res.Report.ProfitWeeks).
		Int("loss_weeks", res.Report.LossWeeks).
		Float64("final_balance", res.Report.FinalBalance).
		Dur("took", res.Duration).
		Msg("backtest finished")
	return res, nil
}

// Execute runs the pure pipeline over already fetched records.
// An empty sequence yields an empty report.
func Execute(records []model.RawDailyRecord, p Params) *Result {
	annotated := calendar.Annotator{Rollover: p.Rollover}.Annotate(records)
	pairs := pairing.PairBy(annotated, p.PurchaseDay, p.SellDay, p.GroupBy)
	report := simulator.Simulator{Policy: p.Policy}.Simulate(pairs, p.StartingBalance, p.TaxRate)

	return &Result{
		Params:  p,
		Records: len(records),
		Report:  report,
		Stats:   calculator.Summarize(report),
	}
}

func wrapRetrieval(err error) error {
	if errors.Is(err, model.ErrRetrieval) {
		return err
	}
	return fmt.Errorf("%w: %w", model.ErrRetrieval, err)
}
