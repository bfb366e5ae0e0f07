// Package money wraps shopspring/decimal for the amounts exchanged with the
// tutoring API. The backend serialises decimals as JSON strings ("150.00") but
// accepts plain numbers on input, so Money reads both and writes numbers.
package money

import (
	"github.com/shopspring/decimal"
)

type Money struct {
	decimal.Decimal
}

var Zero = Money{decimal.Zero}

func New(d decimal.Decimal) Money { return Money{d} }

// MustParse is for literals in tests and fixtures.
func MustParse(s string) Money { return Money{decimal.RequireFromString(s)} }

func Parse(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, err
	}
	return Money{d}, nil
}

func (m Money) Add(o Money) Money { return Money{m.Decimal.Add(o.Decimal)} }

func (m Money) Positive() bool { return m.Decimal.IsPositive() }

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal.String()), nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		m.Decimal = decimal.Zero
		return nil
	}
	return m.Decimal.UnmarshalJSON(b)
}

// Sum adds the amounts selected by pick. An empty input sums to zero.
func Sum[T any](items []T, pick func(T) (Money, bool)) Money {
	total := Zero
	for _, it := range items {
		if amount, ok := pick(it); ok {
			total = total.Add(amount)
		}
	}
	return total
}
