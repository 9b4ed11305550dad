package service

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// maxQuantity keeps float-decoded quantities exactly representable.
const maxQuantity = 1 << 31

// parseQuantity coerces a loosely typed JSON value (number or numeric string)
// into a whole number. present is false for nil and empty strings.
func parseQuantity(field string, v any) (n int, present bool, err error) {
	if isBlank(v) {
		return 0, false, nil
	}
	if _, ok := v.(bool); ok {
		return 0, true, fmt.Errorf("%w: %s must be a number", ErrInvalidInput, field)
	}
	if s, ok := v.(string); ok {
		v = strings.TrimSpace(s)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, true, fmt.Errorf("%w: %s must be a number", ErrInvalidInput, field)
	}
	if f != math.Trunc(f) || math.Abs(f) >= maxQuantity {
		return 0, true, fmt.Errorf("%w: %s must be a whole number", ErrInvalidInput, field)
	}
	return int(f), true, nil
}

// positiveQuantity requires a present quantity greater than zero.
func positiveQuantity(field string, v any) (int, error) {
	n, present, err := parseQuantity(field, v)
	if err != nil {
		return 0, err
	}
	if !present || n <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive number", ErrInvalidInput, field)
	}
	return n, nil
}

// parsePrice coerces a number or numeric string into a non-negative decimal.
func parsePrice(v any) (price decimal.Decimal, present bool, err error) {
	if isBlank(v) {
		return decimal.Zero, false, nil
	}
	switch t := v.(type) {
	case bool:
		return decimal.Zero, true, fmt.Errorf("%w: price must be a number", ErrInvalidInput)
	case string:
		price, err = decimal.NewFromString(strings.TrimSpace(t))
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return decimal.Zero, true, fmt.Errorf("%w: price must be a number", ErrInvalidInput)
		}
		price = decimal.NewFromFloat(t)
	default:
		var f float64
		f, err = cast.ToFloat64E(t)
		price = decimal.NewFromFloat(f)
	}
	if err != nil {
		return decimal.Zero, true, fmt.Errorf("%w: price must be a number", ErrInvalidInput)
	}
	if price.IsNegative() {
		return decimal.Zero, true, fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	return price, true, nil
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}
