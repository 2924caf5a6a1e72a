package collector

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"WeekdaySentinel/internal/cache"
	"WeekdaySentinel/internal/model"
)

// CachedFetcher serves daily prices from a Store while the last fetch is
// fresh and wide enough, and writes through on every upstream fetch.
// Store failures are logged and bypassed.
type CachedFetcher struct {
	Next  Fetcher
	Store cache.Store
	TTL   time.Duration
	Now   func() time.Time
}

// NewCachedFetcher wraps next with store.
func NewCachedFetcher(next Fetcher, store cache.Store, ttl time.Duration) *CachedFetcher {
	return &CachedFetcher{Next: next, Store: store, TTL: ttl, Now: time.Now}
}

func (c *CachedFetcher) Name() string { return c.Next.Name() + "+cache" }

func (c *CachedFetcher) FetchDailyPrices(ctx context.Context, instrument model.Instrument, days int) ([]model.RawDailyRecord, error) {
	source := c.Next.Name()

	if recs, ok := c.lookup(ctx, source, instrument, days); ok {
		log.Debug().Str("source", source).Str("instrument", instrument.String()).Int("records", len(recs)).Msg("price cache hit")
		return recs, nil
	}

	recs, err := c.Next.FetchDailyPrices(ctx, instrument, days)
	if err != nil {
		return nil, err
	}
	if err := c.Store.Save(ctx, source, instrument, days, recs); err != nil {
		log.Warn().Err(err).Str("source", source).Msg("price cache write failed")
	}
	return recs, nil
}

func (c *CachedFetcher) lookup(ctx context.Context, source string, instrument model.Instrument, days int) ([]model.RawDailyRecord, bool) {
	if c.TTL <= 0 {
		return nil, false
	}
	w, ok, err := c.Store.Window(ctx, source, instrument)
	if err != nil {
		log.Warn().Err(err).Str("source", source).Msg("price cache read failed")
		return nil, false
	}
	if !ok || w.Days < days || c.Now().Sub(w.FetchedAt) > c.TTL {
		return nil, false
	}
	recs, err := c.Store.Load(ctx, source, instrument, days)
	if err != nil {
		log.Warn().Err(err).Str("source", source).Msg("price cache read failed")
		return nil, false
	}
	if len(recs) == 0 {
		return nil, false
	}
	return recs, true
}
