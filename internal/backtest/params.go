package backtest

import (
	"errors"
	"fmt"

	"WeekdaySentinel/internal/model"
	"WeekdaySentinel/internal/pairing"
)

// Params fully describes one backtest run.
type Params struct {
	Instrument      model.Instrument
	Days            int
	PurchaseDay     model.Weekday
	SellDay         model.Weekday
	StartingBalance float64
	TaxRate         float64
	Policy          model.PricePolicy
	Rollover        model.Weekday
	GroupBy         pairing.GroupBy
}

// DefaultParams mirrors the defaults of the config layer.
func DefaultParams() Params {
	return Params{
		Instrument:      "LTC",
		Days:            60,
		PurchaseDay:     model.Monday,
		SellDay:         model.Friday,
		StartingBalance: 100,
		TaxRate:         0.004,
		Policy:          model.DefaultPricePolicy,
		Rollover:        model.Sunday,
		GroupBy:         pairing.GroupByTradingWeek,
	}
}

// ConfigurationError reports parameters that make a run meaningless.
type ConfigurationError struct {
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() []error {
	return []error{model.ErrConfiguration, e.Err}
}

func configErr(field string, err error) error {
	return &ConfigurationError{Field: field, Err: err}
}

// Validate checks every parameter. It is run before any fetch.
func (p Params) Validate() error {
	if p.Instrument == "" {
		return configErr("instrument", model.ErrUnknownInstrument)
	}
	if p.Days <= 0 {
		return configErr("days", fmt.Errorf("must be positive, got %d", p.Days))
	}
	if !p.PurchaseDay.Valid() {
		return configErr("purchase_day", model.ErrInvalidWeekday)
	}
	if !p.SellDay.Valid() {
		return configErr("sell_day", model.ErrInvalidWeekday)
	}
	if !p.Rollover.Valid() {
		return configErr("rollover_day", model.ErrInvalidWeekday)
	}
	if !(p.StartingBalance > 0) {
		return configErr("starting_balance", fmt.Errorf("must be positive, got %v", p.StartingBalance))
	}
	if !(p.TaxRate >= 0 && p.TaxRate < 1) {
		return configErr("tax_rate", fmt.Errorf("must be in [0,1), got %v", p.TaxRate))
	}
	if !p.Policy.Purchase.Valid() {
		return configErr("purchase_price", model.ErrInvalidPriceField)
	}
	if !p.Policy.Sell.Valid() {
		return configErr("sell_price", model.ErrInvalidPriceField)
	}
	if _, err := pairing.ParseGroupBy(string(p.GroupBy)); err != nil {
		return configErr("group_by", err)
	}
	return nil
}

// Names is the string form of the parameters that need parsing.
type Names struct {
	Instrument    string
	PurchaseDay   string
	SellDay       string
	PurchasePrice string
	SellPrice     string
	RolloverDay   string
	GroupBy       string
}

// ParamsFromNames parses names into p. Empty names keep p's value.
// The first unparsable name is returned as a ConfigurationError.
func ParamsFromNames(p Params, n Names) (Params, error) {
	var errs []error
	if n.Instrument != "" {
		inst, err := model.ParseInstrument(n.Instrument)
		if err != nil {
			errs = append(errs, configErr("instrument", err))
		}
		p.Instrument = inst
	}
	parseDay := func(field, name string, dst *model.Weekday) {
		if name == "" {
			return
		}
		d, err := model.ParseWeekday(name)
		if err != nil {
			errs = append(errs, configErr(field, err))
			return
		}
		*dst = d
	}
	parseDay("purchase_day", n.PurchaseDay, &p.PurchaseDay)
	parseDay("sell_day", n.SellDay, &p.SellDay)
	parseDay("rollover_day", n.RolloverDay, &p.Rollover)

	parseField := func(field, name string, dst *model.PriceField) {
		if name == "" {
			return
		}
		f, err := model.ParsePriceField(name)
		if err != nil {
			errs = append(errs, configErr(field, err))
			return
		}
		*dst = f
	}
	parseField("purchase_price", n.PurchasePrice, &p.Policy.Purchase)
	parseField("sell_price", n.SellPrice, &p.Policy.Sell)

	if n.GroupBy != "" {
		g, err := pairing.ParseGroupBy(n.GroupBy)
		if err != nil {
			errs = append(errs, configErr("group_by", err))
		}
		p.GroupBy = g
	}

	if len(errs) > 0 {
		return p, errs[0]
	}
	return p, nil
}

// IsConfigurationError reports whether err stems from bad parameters.
func IsConfigurationError(err error) bool {
	return errors.Is(err, model.ErrConfiguration)
}
