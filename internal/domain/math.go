package domain

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// SafeParse parses a string into a decimal, returning zero for invalid or empty input.
func SafeParse(value string) decimal.Decimal {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// SafeFloat parses a string into a float64, returning zero for invalid or empty input.
func SafeFloat(value string) float64 {
	return finiteOrZero(SafeParse(value).InexactFloat64())
}

// SafeNumber coerces an untyped JSON value into a finite float64.
// Missing, null, non-numeric, NaN and infinite values all become zero.
func SafeNumber(v any) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case string:
		return SafeFloat(n)
	case json.Number:
		return SafeFloat(n.String())
	case map[string]any, []any:
		return 0
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0
	}
	return finiteOrZero(f)
}

// WholeDays floors a raw day count and clamps it at zero.
func WholeDays(v any) int {
	d := math.Floor(SafeNumber(v))
	if d <= 0 {
		return 0
	}
	if d > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(d)
}

// ROIPercent returns pnl relative to the capital that produced it, in percent.
// Initial capital is equity - pnl; when it is not positive the ROI is 0.
func ROIPercent(equity, pnl float64) float64 {
	initial := equity - pnl
	if !(initial > 0) {
		return 0
	}
	return finiteOrZero(pnl / initial * 100)
}

func finiteOrZero(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
