// Package rte talks to the RTE data APIs: client-credentials OAuth2 against
// the shared token endpoint, bearer-authenticated JSON calls against the
// per-product endpoints, and reduction of their day-granular payloads onto
// the canonical 15-minute UTC grid.
package rte

import (
	"fmt"
	"strings"
)

// APIService selects one RTE API product. Each product has its own endpoint
// path and its own credential pair.
type APIService int

const (
	ServiceConsumption APIService = iota
	ServiceWholesaleMarket
)

func (s APIService) String() string {
	switch s {
	case ServiceConsumption:
		return "consumption"
	case ServiceWholesaleMarket:
		return "wholesale_market"
	}
	return fmt.Sprintf("APIService(%d)", int(s))
}

// PrevisionType is one forecast horizon inside a short-term consumption
// response: the realised signal, its corrected revision, the intraday
// forecast, and the one- and two-day-ahead forecasts.
type PrevisionType int

const (
	Realised PrevisionType = iota
	Corrected
	Intraday
	DayMinus1
	DayMinus2
)

var previsionWire = map[PrevisionType]string{
	Realised:  "REALISED",
	Corrected: "CORRECTED",
	Intraday:  "ID",
	DayMinus1: "D-1",
	DayMinus2: "D-2",
}

// String returns the wire spelling the API uses in requests and responses.
func (p PrevisionType) String() string {
	if w, ok := previsionWire[p]; ok {
		return w
	}
	return fmt.Sprintf("PrevisionType(%d)", int(p))
}

// ParsePrevisionType maps a wire string onto the closed variant set.
// Unknown strings are an error, not a silent pass-through.
func ParsePrevisionType(s string) (PrevisionType, error) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	for p, w := range previsionWire {
		if w == norm {
			return p, nil
		}
	}
	return 0, fmt.Errorf("rte: unknown prevision type %q", s)
}

// ParsePrevisionTypes parses a comma-separated list of wire strings, the
// form both flags and query parameters arrive in. Empty elements are
// skipped; an empty result is an error.
func ParsePrevisionTypes(raw string) ([]PrevisionType, error) {
	var types []PrevisionType
	for _, part := range strings.Split(raw, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		p, err := ParsePrevisionType(part)
		if err != nil {
			return nil, err
		}
		types = append(types, p)
	}
	if len(types) == 0 {
		return nil, fmt.Errorf("rte: no prevision types given")
	}
	return types, nil
}
