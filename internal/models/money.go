package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Money is a currency amount in cents.
type Money int64

// MaxMoney is the largest amount a decimal(10,2) column holds: 99999999.99.
const MaxMoney Money = 99_999_999_99

var ErrInvalidMoney = errors.New("invalid money amount")

func Cents(c int64) Money { return Money(c) }

// Mul saturates at the int64 bounds instead of wrapping.
func (m Money) Mul(q int) Money {
	if m == 0 || q == 0 {
		return 0
	}
	p := int64(m) * int64(q)
	if p/int64(q) != int64(m) || (int64(m) == math.MinInt64 && q == -1) {
		if (m < 0) != (q < 0) {
			return Money(math.MinInt64)
		}
		return Money(math.MaxInt64)
	}
	return Money(p)
}

// Add saturates at the int64 bounds instead of wrapping.
func (m Money) Add(o Money) Money {
	if o > 0 && m > Money(math.MaxInt64)-o {
		return Money(math.MaxInt64)
	}
	if o < 0 && m < Money(math.MinInt64)-o {
		return Money(math.MinInt64)
	}
	return m + o
}

func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// ParseMoney accepts "12", "12.5" and "12.50". More than two decimals or a
// magnitude above MaxMoney is rejected.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidMoney
	}

	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" && (!hasFrac || frac == "") {
		return 0, ErrInvalidMoney
	}
	if len(frac) > 2 || (hasFrac && frac == "") {
		return 0, ErrInvalidMoney
	}
	if whole == "" {
		whole = "0"
	}
	for _, part := range []string{whole, frac} {
		for _, r := range part {
			if r < '0' || r > '9' {
				return 0, ErrInvalidMoney
			}
		}
	}

	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || w > int64(MaxMoney/100) {
		return 0, ErrInvalidMoney
	}
	for len(frac) < 2 {
		frac += "0"
	}
	f, _ := strconv.ParseInt(frac, 10, 64)

	cents := w*100 + f
	if cents > int64(MaxMoney) {
		return 0, ErrInvalidMoney
	}
	if neg {
		cents = -cents
	}
	return Money(cents), nil
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	}

	v, err := ParseMoney(raw)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidMoney, string(data))
	}
	*m = v
	return nil
}
