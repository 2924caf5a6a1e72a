package cache

import (
	"context"

	"WeekdaySentinel/internal/model"
)

// NoopStore is a no-op implementation used when SQLite is not configured.
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (n *NoopStore) Window(context.Context, string, model.Instrument) (Window, bool, error) {
	return Window{}, false, nil
}

func (n *NoopStore) Load(context.Context, string, model.Instrument, int) ([]model.RawDailyRecord, error) {
	return nil, nil
}

func (n *NoopStore) Save(context.Context, string, model.Instrument, int, []model.RawDailyRecord) error {
	return nil
}

func (n *NoopStore) Close() error { return nil }
