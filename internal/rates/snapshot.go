package rates

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/finflow/finflow-server/internal/currency"
)

// Snapshot maps a currency code to its rate against the base currency.
type Snapshot map[string]decimal.Decimal

// RUB is not published by the bank feed, so its rate is kept here.
var rubRate = decimal.RequireFromString("0.42")

var fallback = Snapshot{
	string(currency.UAH): decimal.NewFromInt(1),
	string(currency.USD): decimal.RequireFromString("41.2"),
	string(currency.EUR): decimal.RequireFromString("44.5"),
	string(currency.RUB): decimal.RequireFromString("1.7"),
}

// Fallback returns the static table served when neither the cache nor the bank feed is
// available.
func Fallback() Snapshot {
	out := make(Snapshot, len(fallback))
	for code, rate := range fallback {
		out[code] = rate
	}
	return out
}

// Rate returns the rate for code and whether the snapshot carries it.
func (s Snapshot) Rate(code currency.Code) (decimal.Decimal, bool) {
	rate, ok := s[string(code)]
	return rate, ok
}

// RateOrOne returns the rate for code, or 1 when the snapshot does not carry it.
func (s Snapshot) RateOrOne(code currency.Code) decimal.Decimal {
	if rate, ok := s.Rate(code); ok && rate.IsPositive() {
		return rate
	}
	return decimal.NewFromInt(1)
}

// withPinned sets the base currency to 1 and adds the rates the feed never publishes.
func (s Snapshot) withPinned() Snapshot {
	s[string(currency.Base)] = decimal.NewFromInt(1)
	s[string(currency.RUB)] = rubRate
	return s
}

// Encode renders the snapshot as the JSON object stored in the cache. Rates are written
// as strings so no precision is lost.
func (s Snapshot) Encode() (string, error) {
	out := make(map[string]string, len(s))
	for code, rate := range s {
		out[code] = rate.String()
	}
	data, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeSnapshot parses a cached snapshot.
func DecodeSnapshot(raw string) (Snapshot, error) {
	var in map[string]string
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		return nil, fmt.Errorf("decode rate snapshot: %w", err)
	}
	if len(in) == 0 {
		return nil, fmt.Errorf("decode rate snapshot: empty")
	}

	out := make(Snapshot, len(in))
	for code, value := range in {
		rate, err := decimal.NewFromString(value)
		if err != nil {
			return nil, fmt.Errorf("decode rate snapshot: %s: %w", code, err)
		}
		out[code] = rate
	}
	return out, nil
}
