// Package money holds the decimal amount type used for cash, prices and
// percentages across the ledger.
package money

import (
	"database/sql/driver"
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Amount wraps decimal.Decimal for monetary values.
// JSON output is a plain number so documents stay readable, while all
// arithmetic stays in decimal.
type Amount struct {
	decimal.Decimal
}

var (
	Zero    = Amount{decimal.Zero}
	hundred = decimal.NewFromInt(100)
)

// New creates an Amount from a float64.
func New(f float64) Amount {
	return Amount{decimal.NewFromFloat(f)}
}

// FromInt creates an Amount from an int64.
func FromInt(i int64) Amount {
	return Amount{decimal.NewFromInt(i)}
}

// Parse reads an Amount from its string form ("1.55", "-3").
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return Amount{d}, nil
}

func (a Amount) Add(b Amount) Amount { return Amount{a.Decimal.Add(b.Decimal)} }
func (a Amount) Sub(b Amount) Amount { return Amount{a.Decimal.Sub(b.Decimal)} }
func (a Amount) Mul(b Amount) Amount { return Amount{a.Decimal.Mul(b.Decimal)} }
func (a Amount) Neg() Amount         { return Amount{a.Decimal.Neg()} }

// MulInt multiplies by a share count.
func (a Amount) MulInt(n int64) Amount {
	return Amount{a.Decimal.Mul(decimal.NewFromInt(n))}
}

// Div divides a by b. Division by zero yields Zero.
func (a Amount) Div(b Amount) Amount {
	if b.IsZero() {
		return Zero
	}
	return Amount{a.Decimal.Div(b.Decimal)}
}

// Pct returns a / b * 100, or Zero when b is zero.
func (a Amount) Pct(b Amount) Amount {
	if b.IsZero() {
		return Zero
	}
	return Amount{a.Decimal.Div(b.Decimal).Mul(hundred)}
}

// Scale multiplies by a plain factor (0.7, 0.8 ...).
func (a Amount) Scale(f float64) Amount {
	return Amount{a.Decimal.Mul(decimal.NewFromFloat(f))}
}

func (a Amount) Cmp(b Amount) int                 { return a.Decimal.Cmp(b.Decimal) }
func (a Amount) Equal(b Amount) bool              { return a.Decimal.Equal(b.Decimal) }
func (a Amount) LessThan(b Amount) bool           { return a.Decimal.LessThan(b.Decimal) }
func (a Amount) LessThanOrEqual(b Amount) bool    { return a.Decimal.LessThanOrEqual(b.Decimal) }
func (a Amount) GreaterThan(b Amount) bool        { return a.Decimal.GreaterThan(b.Decimal) }
func (a Amount) GreaterThanOrEqual(b Amount) bool { return a.Decimal.GreaterThanOrEqual(b.Decimal) }

// Max returns the larger of a and b.
func Max(a, b Amount) Amount {
	if a.GreaterThanOrEqual(b) {
		return a
	}
	return b
}

// Sum adds up amounts.
func Sum(xs ...Amount) Amount {
	total := Zero
	for _, x := range xs {
		total = total.Add(x)
	}
	return total
}

// Float returns the float64 approximation, for display and CSV output.
func (a Amount) Float() float64 {
	f, _ := a.Decimal.Float64()
	return f
}

// MarshalJSON outputs the amount as a JSON number (not a string).
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}

// UnmarshalJSON accepts both JSON numbers and quoted strings.
func (a *Amount) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		a.Decimal = decimal.Zero
		return nil
	}
	return a.Decimal.UnmarshalJSON(data)
}

// MarshalYAML writes the amount as a float so config files stay plain.
func (a Amount) MarshalYAML() (any, error) {
	return a.Float(), nil
}

// UnmarshalYAML reads a scalar number into the amount.
func (a *Amount) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("amount must be a scalar, line %d", value.Line)
	}
	return a.UnmarshalText([]byte(value.Value))
}

// UnmarshalText lets env overrides populate amounts.
func (a *Amount) UnmarshalText(text []byte) error {
	d, err := decimal.NewFromString(string(text))
	if err != nil {
		return fmt.Errorf("parse amount %q: %w", string(text), err)
	}
	a.Decimal = d
	return nil
}

// Scan implements sql.Scanner, reading REAL or TEXT columns.
func (a *Amount) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		a.Decimal = decimal.Zero
		return nil
	case float64:
		a.Decimal = decimal.NewFromFloat(v)
		return nil
	case int64:
		a.Decimal = decimal.NewFromInt(v)
		return nil
	}
	return a.Decimal.Scan(src)
}

// Value implements driver.Valuer; amounts are stored as TEXT to stay exact.
func (a Amount) Value() (driver.Value, error) {
	return a.Decimal.String(), nil
}
