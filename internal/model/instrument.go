package model

import (
	"fmt"
	"strings"
)

// Instrument is a crypto asset symbol quoted against USD, e.g. "LTC".
type Instrument string

// Known instruments by common name.
var knownInstruments = map[string]Instrument{
	"litecoin": "LTC",
	"bitcoin":  "BTC",
	"ethereum": "ETH",
	"solana":   "SOL",
}

// ParseInstrument accepts a common name ("litecoin") or a ticker symbol ("LTC").
func ParseInstrument(s string) (Instrument, error) {
	n := strings.TrimSpace(s)
	if n == "" {
		return "", fmt.Errorf("%w: empty", ErrUnknownInstrument)
	}
	if inst, ok := knownInstruments[strings.ToLower(n)]; ok {
		return inst, nil
	}
	sym := strings.ToUpper(n)
	for _, r := range sym {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return "", fmt.Errorf("%w: %q", ErrUnknownInstrument, s)
		}
	}
	return Instrument(sym), nil
}

// Pair returns the USD market pair, e.g. "LTC-USD".
func (i Instrument) Pair() string {
	return string(i) + "-USD"
}

func (i Instrument) String() string { return string(i) }
