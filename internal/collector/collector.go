package collector

import (
	"context"
	"math"
	"time"

	"WeekdaySentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price float64
	Daily []model.RawDailyRecord
	Err   error
	Calls int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyPrices(_ context.Context, _ model.Instrument, days int) ([]model.RawDailyRecord, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Daily != nil {
		if len(m.Daily) > days {
			return m.Daily[len(m.Daily)-days:], nil
		}
		return m.Daily, nil
	}
	return GenerateMockDays(m.Price, time.Now().UTC(), days), nil
}

// GenerateMockDays builds days daily records ending the day before end,
// oscillating around basePrice.
func GenerateMockDays(basePrice float64, end time.Time, days int) []model.RawDailyRecord {
	midnight := end.UTC().Truncate(24 * time.Hour)
	recs := make([]model.RawDailyRecord, days)
	for i := 0; i < days; i++ {
		p := basePrice * (1 + 0.05*math.Sin(float64(i)/2))
		recs[i] = model.NewRawDailyRecord(
			midnight.AddDate(0, 0, -(days-i)),
			p*0.999, p*1.01, p*0.99, p, 1000000,
		)
	}
	return recs
}
