package model

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the on-sheet format for purchase and expiration dates.
const DateLayout = "02-01-2006"

var (
	ErrNotNumber = errors.New("not a number")
	ErrNotDate   = errors.New("not a date")
)

// ParseQuantity coerces a cell or form value to an integer. Values with a
// fractional part are rejected.
func ParseQuantity(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ErrNotNumber
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("%q: %w", raw, ErrNotNumber)
	}
	return int(f), nil
}

// ParsePrice coerces a cell or form value to a decimal. A leading "$" is
// ignored.
func ParsePrice(raw string) (decimal.Decimal, error) {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "$")
	if raw == "" {
		return decimal.Zero, ErrNotNumber
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%q: %w", raw, ErrNotNumber)
	}
	return d, nil
}

// NormalizeDate returns raw in DateLayout. Empty input stays empty; ISO
// dates (2006-01-02) are converted.
func NormalizeDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	for _, layout := range []string{DateLayout, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(DateLayout), nil
		}
	}
	return "", fmt.Errorf("%q: %w", raw, ErrNotDate)
}
