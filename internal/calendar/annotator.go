package calendar

import (
	"time"

	"WeekdaySentinel/internal/model"
)

// DateLayout is the format of AnnotatedDailyRecord.Date.
const DateLayout = "2006-01-02"

// Annotator attaches weekday, trading week, ISO week and date to daily records.
type Annotator struct {
	// Rollover is the weekday after which the trading week counter advances.
	Rollover model.Weekday
}

// Default rolls the trading week over after Sunday.
var Default = Annotator{Rollover: model.Sunday}

// Annotate annotates records with the default Sunday rollover.
func Annotate(records []model.RawDailyRecord) []model.AnnotatedDailyRecord {
	return Default.Annotate(records)
}

// Annotate returns newly built annotated records in input order.
// The input is assumed to be sorted by timestamp and is not modified.
// Records without a timestamp are passed through unannotated and do not
// advance the trading week.
func (a Annotator) Annotate(records []model.RawDailyRecord) []model.AnnotatedDailyRecord {
	out := make([]model.AnnotatedDailyRecord, len(records))
	week := 1
	for i, rec := range records {
		out[i] = model.AnnotatedDailyRecord{RawDailyRecord: rec}
		t, ok := rec.Time()
		if !ok {
			continue
		}
		day := FromTime(t)
		isoYear, isoWeek := t.ISOWeek()
		out[i].Annotated = true
		out[i].Weekday = day
		out[i].TradingWeek = week
		out[i].CalendarWeek = isoWeek
		out[i].ISOYear = isoYear
		out[i].Date = t.Format(DateLayout)

		// the increment applies to the next record
		if day == a.Rollover {
			week++
		}
	}
	return out
}

// FromTime converts a time's weekday to the Monday-first enumeration.
func FromTime(t time.Time) model.Weekday {
	return model.Weekday((int(t.UTC().Weekday()) + 6) % 7)
}
