package currency

import (
	"errors"
	"fmt"
	"strings"
)

// Code is a canonical three-letter currency code.
type Code string

const (
	UAH Code = "UAH"
	USD Code = "USD"
	EUR Code = "EUR"
	CZK Code = "CZK"
	RUB Code = "RUB"
)

// Base is the home currency. Stored and target currencies default to it.
const Base = UAH

var ErrUnknownCurrency = errors.New("unknown currency")

var canonical = []Code{UAH, USD, EUR, CZK, RUB}

var aliases = map[string]Code{
	"uah":    UAH,
	"гривна": UAH,
	"грн":    UAH,
	"₴":      UAH,
	"usd":    USD,
	"доллар": USD,
	"бакс":   USD,
	"$":      USD,
	"eur":    EUR,
	"евро":   EUR,
	"€":      EUR,
	"czk":    CZK,
	"крона":  CZK,
	"крон":   CZK,
	"kc":     CZK,
	"rub":    RUB,
	"рубль":  RUB,
	"рубли":  RUB,
	"руб":    RUB,
	"₽":      RUB,
}

// Canonical lists every accepted code, base first.
func Canonical() []Code {
	out := make([]Code, len(canonical))
	copy(out, canonical)
	return out
}

// Valid reports whether c is one of the canonical codes.
func (c Code) Valid() bool {
	for _, code := range canonical {
		if c == code {
			return true
		}
	}
	return false
}

func (c Code) String() string {
	return string(c)
}

// Normalize maps a free-form token (code, symbol or alias in any case) to its canonical code.
// Blank input yields Base.
func Normalize(raw string) (Code, error) {
	token := strings.TrimSpace(raw)
	if token == "" {
		return Base, nil
	}

	if code, ok := aliases[strings.ToLower(token)]; ok {
		return code, nil
	}
	if code := Code(strings.ToUpper(token)); code.Valid() {
		return code, nil
	}

	return "", fmt.Errorf("%w: '%s' is not supported, use one of %s", ErrUnknownCurrency, raw, joined())
}

func joined() string {
	names := make([]string, len(canonical))
	for i, code := range canonical {
		names[i] = string(code)
	}
	return strings.Join(names, ", ")
}
