package scheduler

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"WeekdaySentinel/internal/backtest"
	"WeekdaySentinel/internal/model"
	"WeekdaySentinel/internal/notifier"
)

// ErrBusy is returned when a backtest is already running.
var ErrBusy = errors.New("backtest already running")

// Scheduler runs backtests on a cron schedule and on demand.
type Scheduler struct {
	Cron     *cron.Cron
	Runner   *backtest.Runner
	Params   backtest.Params
	Notifier notifier.Notifier
	Ctx      context.Context

	running sync.Mutex
}

// NewScheduler creates a new Scheduler. n may be nil when no chat is configured.
func NewScheduler(ctx context.Context, runner *backtest.Runner, params backtest.Params, n notifier.Notifier) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Runner:   runner,
		Params:   params,
		Notifier: n,
		Ctx:      ctx,
	}
}

// Register schedules the weekly backtest. expr uses the six-field cron format with seconds.
func (s *Scheduler) Register(expr string) error {
	if _, err := s.Cron.AddFunc(expr, s.scheduledTask); err != nil {
		return fmt.Errorf("register backtest task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Int("jobs", len(s.Cron.Entries())).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

// RunNow runs a backtest with the configured params and sends the report.
func (s *Scheduler) RunNow(trigger model.TriggerType) (*backtest.Result, error) {
	return s.run(s.Ctx, s.Params, trigger)
}

func (s *Scheduler) scheduledTask() {
	if _, err := s.RunNow(model.TriggerScheduled); err != nil {
		log.Error().Err(err).Msg("scheduled backtest")
	}
}

func (s *Scheduler) run(ctx context.Context, p backtest.Params, trigger model.TriggerType) (*backtest.Result, error) {
	if !s.running.TryLock() {
		log.Warn().Str("trigger", string(trigger)).Msg("backtest skipped, previous run still active")
		return nil, ErrBusy
	}
	defer s.running.Unlock()

	log.Info().Str("trigger", string(trigger)).Str("instrument", p.Instrument.String()).Msg("running backtest")
	res, err := s.Runner.Run(ctx, p, trigger)
	if err != nil {
		s.trySend(fmt.Sprintf("❌ Backtest failed: %s", html.EscapeString(err.Error())))
		return nil, err
	}
	s.trySend(notifier.FormatReport(res))
	return res, nil
}

// HandleCommand processes a chat command and returns a reply.
// "/backtest [purchase_day sell_day]" runs immediately; the report is
// delivered through the notifier.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	switch strings.ToLower(fields[0]) {
	case "/backtest":
		p, err := overrideDays(s.Params, fields[1:])
		if err != nil {
			return fmt.Sprintf("❌ %s", html.EscapeString(err.Error()))
		}
		if _, err := s.run(ctx, p, model.TriggerManual); errors.Is(err, ErrBusy) {
			return "⏳ A backtest is already running."
		}
		return ""
	case "/config":
		return notifier.FormatParams(s.Params)
	default:
		return helpText
	}
}

const helpText = "Available commands:\n" +
	"• /backtest [purchase_day sell_day]\n" +
	"• /config\n" +
	"• /help"

func overrideDays(p backtest.Params, args []string) (backtest.Params, error) {
	switch len(args) {
	case 0:
		return p, nil
	case 2:
		return backtest.ParamsFromNames(p, backtest.Names{PurchaseDay: args[0], SellDay: args[1]})
	default:
		return p, fmt.Errorf("usage: /backtest [purchase_day sell_day]")
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Error().Err(err).Msg("send notification")
	}
}
