package model

import "errors"

var (
	// ErrRetrieval is returned when price data could not be obtained.
	ErrRetrieval = errors.New("price retrieval failed")
	// ErrInvalidWeekday is returned for an unknown weekday name.
	ErrInvalidWeekday = errors.New("invalid weekday name")
	// ErrInvalidPrice marks a week whose purchase or sell price is not positive.
	ErrInvalidPrice = errors.New("invalid price")
	// ErrInvalidPriceField is returned for an unknown price field name.
	ErrInvalidPriceField = errors.New("invalid price field")
	// ErrUnknownInstrument is returned when an instrument cannot be resolved.
	ErrUnknownInstrument = errors.New("unknown instrument")
	// ErrConfiguration wraps every parameter error that aborts a run before any work.
	ErrConfiguration = errors.New("invalid configuration")
)
