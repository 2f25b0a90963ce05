package models

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// Money is a fixed-point amount in cents.
type Money int64

// ErrMoneyOverflow is returned when an amount no longer fits in int64 cents.
var ErrMoneyOverflow = errors.New("money: amount out of range")

// MoneyFromUnits builds an amount from whole currency units.
func MoneyFromUnits(units int64) Money {
	return Money(units * 100)
}

// ParseMoney parses a decimal string ("100", "99.9", "1e+06") into cents.
// Fractions below one cent are rounded half away from zero.
func ParseMoney(raw string) (Money, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("empty amount")
	}

	r, ok := new(big.Rat).SetString(raw)
	if !ok {
		return 0, fmt.Errorf("invalid amount %q", raw)
	}
	r.Mul(r, big.NewRat(100, 1))

	num := new(big.Int).Set(r.Num())
	den := r.Denom()
	neg := num.Sign() < 0
	num.Abs(num)

	q, rem := new(big.Int).QuoRem(num, den, new(big.Int))
	if rem.Mul(rem, big.NewInt(2)).Cmp(den) >= 0 {
		q.Add(q, big.NewInt(1))
	}
	if !q.IsInt64() {
		return 0, fmt.Errorf("amount %q out of range", raw)
	}

	cents := q.Int64()
	if neg {
		cents = -cents
	}
	return Money(cents), nil
}

// Cents returns the raw amount in cents.
func (m Money) Cents() int64 {
	return int64(m)
}

// Mul multiplies the amount by an integer factor.
func (m Money) Mul(n int64) (Money, error) {
	p := new(big.Int).Mul(big.NewInt(int64(m)), big.NewInt(n))
	if !p.IsInt64() {
		return 0, ErrMoneyOverflow
	}
	return Money(p.Int64()), nil
}

func (m Money) String() string {
	cents := int64(m)
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// MarshalJSON writes the shortest exact decimal: 300, 300.5, 0.05.
// Whole amounts carry no fraction so the backend can decode them as integers.
func (m Money) MarshalJSON() ([]byte, error) {
	if int64(m)%100 == 0 {
		return []byte(strconv.FormatInt(int64(m)/100, 10)), nil
	}
	return []byte(strings.TrimRight(m.String(), "0")), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	raw := string(data)
	if strings.HasPrefix(raw, `"`) {
		unquoted, err := strconv.Unquote(raw)
		if err != nil {
			return fmt.Errorf("money: %w", err)
		}
		raw = unquoted
	}
	parsed, err := ParseMoney(raw)
	if err != nil {
		return fmt.Errorf("money: %w", err)
	}
	*m = parsed
	return nil
}
