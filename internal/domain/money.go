package domain

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidMoney is returned when a value cannot be read as a two-decimal amount.
var ErrInvalidMoney = errors.New("invalid money amount")

// Money is a fixed-point amount in cents.
type Money int64

// MaxMoney is the largest amount a NUMERIC(10,2) cost column holds.
const MaxMoney Money = 9999999999

// maxUnits keeps units*100 plus the cents within int64.
const maxUnits = (math.MaxInt64 - 99) / 100

// Cents builds a Money value from a number of cents.
func Cents(c int64) Money {
	return Money(c)
}

// ParseMoney reads amounts like "13", "13.5" or "13.00".
// More than two decimal places is rejected.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidMoney
	}

	negative := false
	if s[0] == '-' || s[0] == '+' {
		negative = s[0] == '-'
		s = s[1:]
	}

	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" && (!hasFrac || frac == "") {
		return 0, ErrInvalidMoney
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("%w: %q has more than two decimal places", ErrInvalidMoney, s)
	}
	for len(frac) < 2 {
		frac += "0"
	}

	var units int64
	if whole != "" {
		u, err := strconv.ParseUint(whole, 10, 64)
		if err != nil || u > maxUnits {
			return 0, fmt.Errorf("%w: %q", ErrInvalidMoney, s)
		}
		units = int64(u)
	}
	cents, err := strconv.ParseUint(frac, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMoney, s)
	}

	total := units*100 + int64(cents)
	if negative {
		total = -total
	}
	return Money(total), nil
}

// Cents returns the amount in cents.
func (m Money) Cents() int64 {
	return int64(m)
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m < 0
}

// String formats the amount with exactly two decimals.
func (m Money) String() string {
	c := int64(m)
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", sign, c/100, c%100)
}

// MarshalJSON encodes the amount as a JSON number with two decimals.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	v, err := ParseMoney(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// UnmarshalText lets config loaders decode amounts from strings.
func (m *Money) UnmarshalText(text []byte) error {
	v, err := ParseMoney(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Scan implements sql.Scanner for NUMERIC columns.
func (m *Money) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*m = 0
		return nil
	case []byte:
		return m.UnmarshalText(v)
	case string:
		return m.UnmarshalText([]byte(v))
	case int64:
		*m = Money(v * 100)
		return nil
	case float64:
		return m.UnmarshalText([]byte(strconv.FormatFloat(v, 'f', 2, 64)))
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidMoney, value)
	}
}

// Value implements driver.Valuer.
func (m Money) Value() (driver.Value, error) {
	return m.String(), nil
}
