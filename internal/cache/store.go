package cache

import (
	"context"
	"time"

	"WeekdaySentinel/internal/model"
)

// Window describes the last fetch stored for a source and instrument.
type Window struct {
	Days      int
	FetchedAt time.Time
}

// Store persists fetched daily prices so repeated backtests skip the network.
type Store interface {
	// Window returns the last stored fetch window; ok is false if nothing is cached.
	Window(ctx context.Context, source string, instrument model.Instrument) (w Window, ok bool, err error)
	// Load returns the most recent days records in ascending timestamp order.
	Load(ctx context.Context, source string, instrument model.Instrument, days int) ([]model.RawDailyRecord, error)
	// Save upserts records and stamps the fetch window.
	Save(ctx context.Context, source string, instrument model.Instrument, days int, records []model.RawDailyRecord) error
	Close() error
}
