package model

import "time"

// RawDailyRecord is a single daily candle as returned by a price source.
// Timestamp is nil when the upstream payload carried no timestamp.
type RawDailyRecord struct {
	Timestamp *int64  `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

// Time returns the UTC time of the record and false when the timestamp is missing.
func (r RawDailyRecord) Time() (time.Time, bool) {
	if r.Timestamp == nil {
		return time.Time{}, false
	}
	return time.Unix(*r.Timestamp, 0).UTC(), true
}

// NewRawDailyRecord builds a record for the given day.
func NewRawDailyRecord(t time.Time, open, high, low, close, volume float64) RawDailyRecord {
	ts := t.Unix()
	return RawDailyRecord{
		Timestamp: &ts,
		Open:      open,
		High:      high,
		Low:       low,
		Close:     close,
		Volume:    volume,
	}
}

// AnnotatedDailyRecord is a raw record enriched with calendar metadata.
// Annotated is false for records without a timestamp; their calendar fields are zero.
type AnnotatedDailyRecord struct {
	RawDailyRecord
	Annotated    bool
	Weekday      Weekday
	TradingWeek  int
	CalendarWeek int
	ISOYear      int
	Date         string
}

// Raw strips the annotations from a sequence.
func Raw(records []AnnotatedDailyRecord) []RawDailyRecord {
	out := make([]RawDailyRecord, len(records))
	for i, r := range records {
		out[i] = r.RawDailyRecord
	}
	return out
}
