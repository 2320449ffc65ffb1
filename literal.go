package wpsio

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// DataType is the type of a literal value.
type DataType string

const (
	TypeString          DataType = "string"
	TypeInteger         DataType = "integer"
	TypePositiveInteger DataType = "positiveInteger"
	TypeFloat           DataType = "float"
	TypeBoolean         DataType = "boolean"
	TypeAnyURI          DataType = "anyURI"
)

func (d DataType) String() string {
	return string(d)
}

// Convert parses the raw string into the Go value of the data type:
// string, int64, float64, bool or *url.URL.
func (d DataType) Convert(raw string) (any, error) {
	switch d {
	case TypeString, "":
		return raw, nil
	case TypeInteger:
		v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("converting %q to %s: %w", raw, d, err)
		}
		return v, nil
	case TypePositiveInteger:
		v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("converting %q to %s: %w", raw, d, err)
		}
		if v < 1 {
			return nil, fmt.Errorf("converting %q to %s: value is not positive", raw, d)
		}
		return v, nil
	case TypeFloat:
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("converting %q to %s: %w", raw, d, err)
		}
		return v, nil
	case TypeBoolean:
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "true", "1":
			return true, nil
		case "false", "0":
			return false, nil
		}
		return nil, fmt.Errorf("converting %q to %s: not a boolean", raw, d)
	case TypeAnyURI:
		u, err := url.Parse(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("converting %q to %s: %w", raw, d, err)
		}
		return u, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownDataType, d)
}

// Closure describes which bounds of a range are part of the range.
type Closure string

const (
	Closed     Closure = "closed"
	Open       Closure = "open"
	OpenClosed Closure = "open-closed"
	ClosedOpen Closure = "closed-open"
)

// AllowedValue is either a single allowed value (Value set) or an
// allowed numeric range with an optional spacing between valid
// values.
type AllowedValue struct {
	Value string

	Min, Max float64
	Spacing  float64
	Closure  Closure
}

// Range returns an allowed numeric range with closed bounds.
func Range(min, max float64) AllowedValue {
	return AllowedValue{Min: min, Max: max, Closure: Closed}
}

// Allows reports whether raw, interpreted as the given data type, is
// covered by the allowed value.
func (a AllowedValue) Allows(dt DataType, raw string) bool {
	if a.Value != "" {
		return a.Value == raw
	}
	v, err := TypeFloat.Convert(raw)
	if err != nil {
		return false
	}
	f := v.(float64)
	closure := a.Closure
	if closure == "" {
		closure = Closed
	}
	switch closure {
	case Closed:
		if f < a.Min || f > a.Max {
			return false
		}
	case Open:
		if f <= a.Min || f >= a.Max {
			return false
		}
	case OpenClosed:
		if f <= a.Min || f > a.Max {
			return false
		}
	case ClosedOpen:
		if f < a.Min || f >= a.Max {
			return false
		}
	default:
		return false
	}
	if a.Spacing > 0 {
		steps := (f - a.Min) / a.Spacing
		if diff := steps - float64(int64(steps+0.5)); diff > 1e-9 || diff < -1e-9 {
			return false
		}
	}
	return true
}

// AllowedValues is the set of values a literal input accepts. An
// empty set allows any value.
type AllowedValues []AllowedValue

// Allows reports whether raw is covered by at least one allowed
// value, or by the empty set.
func (vs AllowedValues) Allows(dt DataType, raw string) bool {
	if len(vs) == 0 {
		return true
	}
	for _, a := range vs {
		if a.Allows(dt, raw) {
			return true
		}
	}
	return false
}
