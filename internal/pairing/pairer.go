package pairing

import (
	"fmt"
	"sort"
	"strings"

	"WeekdaySentinel/internal/model"
)

// GroupBy selects the key that groups days into weeks.
type GroupBy string

const (
	// GroupByTradingWeek groups by the annotator's rolling trading week.
	GroupByTradingWeek GroupBy = "trading_week"
	// GroupByCalendarWeek groups by ISO year and week, keyed as year*100+week.
	GroupByCalendarWeek GroupBy = "calendar_week"
)

// ParseGroupBy matches a grouping name case-insensitively.
func ParseGroupBy(s string) (GroupBy, error) {
	g := GroupBy(strings.ToLower(strings.TrimSpace(s)))
	switch g {
	case GroupByTradingWeek, GroupByCalendarWeek:
		return g, nil
	}
	return "", fmt.Errorf("unknown week grouping %q", s)
}

// Key returns the week key of an annotated record under g.
func (g GroupBy) Key(rec model.AnnotatedDailyRecord) int {
	if g == GroupByCalendarWeek {
		return rec.ISOYear*100 + rec.CalendarWeek
	}
	return rec.TradingWeek
}

// Pair groups records by trading week and extracts the purchase and sell day of each week.
func Pair(records []model.AnnotatedDailyRecord, purchase, sell model.Weekday) map[int]model.WeeklyPair {
	return PairBy(records, purchase, sell, GroupByTradingWeek)
}

// PairBy is Pair with an explicit grouping key.
// When a week has several matching days the last one wins. When purchase
// equals sell the same day fills both sides.
func PairBy(records []model.AnnotatedDailyRecord, purchase, sell model.Weekday, group GroupBy) map[int]model.WeeklyPair {
	pairs := make(map[int]model.WeeklyPair)
	for _, rec := range records {
		if !rec.Annotated {
			continue
		}
		if rec.Weekday != purchase && rec.Weekday != sell {
			continue
		}
		key := group.Key(rec)
		p := pairs[key]
		if rec.Weekday == purchase {
			p.Purchase = snapshot(rec)
		}
		if rec.Weekday == sell {
			p.Sell = snapshot(rec)
		}
		pairs[key] = p
	}
	return pairs
}

// PairNames is the lenient string form of Pair. Names are matched
// case-insensitively; an unknown name matches nothing and yields an empty result.
func PairNames(records []model.AnnotatedDailyRecord, purchase, sell string) map[int]model.WeeklyPair {
	p, err := model.ParseWeekday(purchase)
	if err != nil {
		return map[int]model.WeeklyPair{}
	}
	s, err := model.ParseWeekday(sell)
	if err != nil {
		return map[int]model.WeeklyPair{}
	}
	return Pair(records, p, s)
}

// SortedWeeks returns the week keys in ascending order.
func SortedWeeks(pairs map[int]model.WeeklyPair) []int {
	weeks := make([]int, 0, len(pairs))
	for w := range pairs {
		weeks = append(weeks, w)
	}
	sort.Ints(weeks)
	return weeks
}

func snapshot(rec model.AnnotatedDailyRecord) *model.WeekSnapshot {
	return &model.WeekSnapshot{
		Low:     rec.Low,
		High:    rec.High,
		Open:    rec.Open,
		Close:   rec.Close,
		Date:    rec.Date,
		Weekday: rec.Weekday,
	}
}
