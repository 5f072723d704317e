package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownPair is returned when a display name is not in the pair table.
var ErrUnknownPair = errors.New("unknown pair")

// Pair maps a display name to the ticker used by the data source.
type Pair struct {
	Name   string `json:"name"`
	Ticker string `json:"ticker"`
}

// Pairs is the table of supported symbols, in display order.
var Pairs = []Pair{
	{Name: "XAUUSD", Ticker: "GC=F"},     // gold futures
	{Name: "EURUSD", Ticker: "EURUSD=X"}, // euro / dollar
	{Name: "GBPUSD", Ticker: "GBPUSD=X"}, // pound / dollar
	{Name: "USDJPY", Ticker: "USDJPY=X"}, // dollar / yen
}

// LookupPair finds a pair by display name, case-insensitively.
func LookupPair(name string) (Pair, error) {
	n := strings.ToUpper(strings.TrimSpace(name))
	for _, p := range Pairs {
		if p.Name == n {
			return p, nil
		}
	}
	return Pair{}, fmt.Errorf("%w: %q", ErrUnknownPair, name)
}

// PairNames lists the display names of all supported pairs.
func PairNames() []string {
	names := make([]string, len(Pairs))
	for i, p := range Pairs {
		names[i] = p.Name
	}
	return names
}
