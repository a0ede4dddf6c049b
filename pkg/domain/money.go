package domain

import (
	"fmt"
	"strconv"
	"strings"

	dErrors "hotelchain/pkg/domain-errors"
)

// Money is an amount in cents.
type Money int64

// ParseMoney parses a decimal amount with at most two fractional digits,
// e.g. "120", "120.5", "120.50".
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "amount is required")
	}
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	whole, frac, hasFrac := strings.Cut(s, ".")
	if !digits(whole) || (hasFrac && (!digits(frac) || len(frac) > 2)) {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "invalid amount")
	}
	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || w > maxWhole {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "amount is too large")
	}
	var f int64
	if hasFrac {
		if len(frac) == 1 {
			frac += "0"
		}
		f, err = strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, dErrors.New(dErrors.CodeInvalidInput, "invalid amount")
		}
	}
	m := Money(w*100 + f)
	if neg {
		m = -m
	}
	return m, nil
}

// maxWhole keeps whole*100 + 99 inside int64.
const maxWhole = (1<<63 - 1 - 99) / 100

func digits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Times multiplies the amount by n.
func (m Money) Times(n int) Money { return m * Money(n) }

func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}
