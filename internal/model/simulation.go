package model

import (
	"fmt"
	"math"
	"strings"
)

// PriceField selects which of a day's prices a trade executes at.
type PriceField string

const (
	PriceHigh  PriceField = "high"
	PriceLow   PriceField = "low"
	PriceOpen  PriceField = "open"
	PriceClose PriceField = "close"
)

// ParsePriceField matches a price field name case-insensitively.
func ParsePriceField(s string) (PriceField, error) {
	f := PriceField(strings.ToLower(strings.TrimSpace(s)))
	if !f.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPriceField, s)
	}
	return f, nil
}

// Valid reports whether f is a known field.
func (f PriceField) Valid() bool {
	switch f {
	case PriceHigh, PriceLow, PriceOpen, PriceClose:
		return true
	}
	return false
}

// PricePolicy picks the purchase and sell price fields.
type PricePolicy struct {
	Purchase PriceField
	Sell     PriceField
}

// DefaultPricePolicy buys at the day's high and sells at the day's low.
var DefaultPricePolicy = PricePolicy{Purchase: PriceHigh, Sell: PriceLow}

// WeekSnapshot holds the single day's price facts needed for trading.
type WeekSnapshot struct {
	Low     float64
	High    float64
	Open    float64
	Close   float64
	Date    string
	Weekday Weekday
}

// Price returns the snapshot price for field. Unknown fields yield NaN.
func (s WeekSnapshot) Price(field PriceField) float64 {
	switch field {
	case PriceHigh:
		return s.High
	case PriceLow:
		return s.Low
	case PriceOpen:
		return s.Open
	case PriceClose:
		return s.Close
	}
	return math.NaN()
}

// WeeklyPair is the purchase and sell day of one week. Either side may be missing.
type WeeklyPair struct {
	Purchase *WeekSnapshot
	Sell     *WeekSnapshot
}

// Complete reports whether both days are present.
func (p WeeklyPair) Complete() bool {
	return p.Purchase != nil && p.Sell != nil
}

// Outcome classifies a simulated week.
type Outcome string

const (
	OutcomeProfit Outcome = "profit"
	OutcomeLoss   Outcome = "loss"
)

// WeeklyResult is the outcome of one buy-then-sell cycle.
type WeeklyResult struct {
	PurchasePrice float64
	SellPrice     float64
	TaxRate       float64
	Quantity      float64
	Profit        float64
	Outcome       Outcome
	BalanceBefore float64
	BalanceAfter  float64
	PurchaseDate  string
	SellDate      string
}

// WeekResult ties a result to its week key.
type WeekResult struct {
	TradingWeek int
	Result      WeeklyResult
}

// Diagnostic records a week the simulator skipped.
type Diagnostic struct {
	TradingWeek int
	Reason      string
	Err         error
}

// SimulationReport is the full backtest output.
type SimulationReport struct {
	Weeks           []WeekResult
	ProfitWeeks     int
	LossWeeks       int
	StartingBalance float64
	FinalBalance    float64
	Diagnostics     []Diagnostic
}

// TotalWeeks is the number of simulated weeks.
func (r *SimulationReport) TotalWeeks() int {
	return r.ProfitWeeks + r.LossWeeks
}
