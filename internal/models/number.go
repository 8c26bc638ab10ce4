package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number is a statistic sent either as a JSON number or as a numeric string
// such as "52.10". Any other value decodes as 0.
type Number float64

// ParseNumber reads a raw JSON value as a number. ok is false for null,
// non-numeric strings and non-scalar values.
func ParseNumber(raw []byte) (value float64, ok bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, false
	}

	if err := json.Unmarshal(raw, &value); err == nil {
		return value, true
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return 0, false
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}

func (n *Number) UnmarshalJSON(raw []byte) error {
	value, _ := ParseNumber(raw)
	*n = Number(value)
	return nil
}

// Float64 returns the value as a float64
func (n Number) Float64() float64 {
	return float64(n)
}
