package types

import (
	"bytes"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a decimal money value with forgiving JSON decoding. Job intake
// forms submit costs as numbers, numeric strings, or junk; anything that does
// not parse cleanly coerces to zero rather than failing the request.
type Amount struct {
	decimal.Decimal
}

// NewAmount builds an Amount from a decimal.
func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

// AmountFromString parses the input, coercing unparseable values to zero.
func AmountFromString(raw string) Amount {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Amount{Decimal: decimal.Zero}
	}
	parsed, err := decimal.NewFromString(trimmed)
	if err != nil {
		return Amount{Decimal: decimal.Zero}
	}
	return Amount{Decimal: parsed}
}

// UnmarshalJSON accepts numbers, quoted numeric strings, and null. Non-numeric
// input decodes as zero.
func (a *Amount) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		a.Decimal = decimal.Zero
		return nil
	}

	raw := string(trimmed)
	if raw[0] == '"' {
		raw = strings.Trim(raw, `"`)
	}

	parsed, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		a.Decimal = decimal.Zero
		return nil
	}
	a.Decimal = parsed
	return nil
}

// MarshalJSON renders the amount as a JSON number string with two decimals.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.Decimal.StringFixed(2) + `"`), nil
}
