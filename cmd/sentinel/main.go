package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"WeekdaySentinel/internal/backtest"
	"WeekdaySentinel/internal/cache"
	"WeekdaySentinel/internal/collector"
	"WeekdaySentinel/internal/config"
	"WeekdaySentinel/internal/logger"
	"WeekdaySentinel/internal/metrics"
	"WeekdaySentinel/internal/model"
	"WeekdaySentinel/internal/notifier"
	"WeekdaySentinel/internal/scheduler"
)

func main() {
	cfgPath := flag.String("config", "configs/config.yaml", "path to YAML config (CONFIG_PATH overrides)")
	envPath := flag.String("env", ".env", "path to .env file")
	instrument := flag.String("instrument", "", "instrument name or symbol, e.g. litecoin or BTC")
	days := flag.Int("days", 0, "number of daily records to fetch")
	purchase := flag.String("purchase", "", "purchase weekday")
	sell := flag.String("sell", "", "sell weekday")
	balance := flag.Float64("balance", 0, "starting balance in USD")
	tax := flag.Float64("tax", 0, "tax rate per conversion, e.g. 0.004")
	daemon := flag.Bool("daemon", false, "run on the configured cron schedule instead of once")
	flag.Parse()

	if err := config.LoadEnvFile(*envPath); err != nil {
		log.Fatal().Err(err).Msg("load env file")
	}
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		*cfgPath = v
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	// flags win over file and environment
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "instrument":
			cfg.Backtest.Instrument = *instrument
		case "days":
			cfg.SetDays(*days)
		case "purchase":
			cfg.Backtest.PurchaseDay = *purchase
		case "sell":
			cfg.Backtest.SellDay = *sell
		case "balance":
			cfg.SetStartingBalance(*balance)
		case "tax":
			cfg.SetTaxRate(*tax)
		}
	})

	logger.SetGlobal(logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty}))

	if err := execute(context.Background(), cfg, *daemon); err != nil {
		log.Error().Err(err).Bool("config_error", backtest.IsConfigurationError(err)).Msg("WeekdaySentinel failed")
		os.Exit(1)
	}
}

// execute wires the pipeline from cfg and runs it once or on the schedule.
// Resources are released before it returns, including on error.
func execute(ctx context.Context, cfg *config.Config, daemon bool) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	params, err := cfg.Params()
	if err != nil {
		return fmt.Errorf("backtest parameters: %w", err)
	}
	if daemon && cfg.Schedule.Cron == "" {
		return errors.New("daemon mode requires schedule.cron")
	}

	var fetcher collector.Fetcher
	switch cfg.DataSource.Provider {
	case "yahoo":
		fetcher = collector.NewYahooFetcher(cfg.DataSource.BaseURL, cfg.Proxy, cfg.Timeout())
	default:
		fetcher = collector.NewCryptoCompareFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy, cfg.Timeout())
	}

	var store cache.Store = cache.NewNoopStore()
	if cfg.Cache.SQLitePath != "" {
		ss, err := cache.NewSQLiteStore(cfg.Cache.SQLitePath)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite cache failed, using noop")
		} else {
			store = ss
		}
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn().Err(err).Msg("close price cache")
		}
	}()
	fetcher = collector.NewCachedFetcher(fetcher, store, cfg.CacheTTL())
	log.Info().Str("source", fetcher.Name()).Msg("data source ready")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := metrics.New()
	runner := backtest.NewRunner(fetcher)
	runner.Observer = m
	if cfg.Metrics.Addr != "" {
		go func() {
			if err := m.Serve(ctx, cfg.Metrics.Addr); err != nil {
				log.Error().Err(err).Msg("metrics server")
			}
		}()
	}

	if !daemon && cfg.Schedule.Cron == "" {
		return runOnce(ctx, runner, params, os.Stdout)
	}
	return runDaemon(ctx, cfg, runner, params)
}

func runOnce(ctx context.Context, runner *backtest.Runner, params backtest.Params, w io.Writer) error {
	res, err := runner.Run(ctx, params, model.TriggerCLI)
	if err != nil {
		return fmt.Errorf("backtest: %w", err)
	}
	notifier.RenderTable(w, res)
	return nil
}

func runDaemon(ctx context.Context, cfg *config.Config, runner *backtest.Runner, params backtest.Params) error {

	var tn *notifier.TelegramNotifier
	var n notifier.Notifier
	if cfg.Telegram.BotToken != "" {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		n = tn
	}

	sched := scheduler.NewScheduler(ctx, runner, params, n)
	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info().Msg("telegram polling started")
	}

	if cfg.Schedule.RunOnStart {
		log.Info().Msg("run_on_start enabled, running backtest now")
		go func() {
			if _, err := sched.RunNow(model.TriggerStartup); err != nil {
				log.Error().Err(err).Msg("startup backtest")
			}
		}()
	}

	log.Info().
		Str("cron", cfg.Schedule.Cron).
		Str("instrument", params.Instrument.String()).
		Int("days", params.Days).
		Msg("WeekdaySentinel is running, press Ctrl+C to stop")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	select {
	case <-sigCh:
		log.Info().Msg("shutdown signal received, stopping")
	case <-ctx.Done():
	}
	return nil
}
