package types

import (
	"bytes"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// FlexInt accepts a JSON number or a numeric string, the way form inputs arrive.
// Fractions are truncated toward zero and strings are read up to the first
// non-digit, so "1024px" decodes as 1024.
type FlexInt int64

// FlexFloat is the floating point counterpart of FlexInt.
type FlexFloat float64

var (
	leadingInt   = regexp.MustCompile(`^[+-]?\d+`)
	leadingFloat = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
)

func (n *FlexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}

	if len(b) > 0 && b[0] == '"' {
		s, err := strconv.Unquote(string(b))
		if err != nil {
			return fmt.Errorf("invalid integer JSON: %q", string(b))
		}
		m := leadingInt.FindString(strings.TrimSpace(s))
		if m == "" {
			return fmt.Errorf("invalid integer %q", s)
		}
		v, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer %q: %w", s, err)
		}
		*n = FlexInt(v)
		return nil
	}

	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("invalid integer JSON: %q", string(b))
	}
	if math.IsInf(f, 0) || math.IsNaN(f) || math.Abs(f) >= math.MaxInt64 {
		return fmt.Errorf("integer out of range: %q", string(b))
	}
	*n = FlexInt(math.Trunc(f))
	return nil
}

func (n *FlexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}

	raw := string(b)
	if len(b) > 0 && b[0] == '"' {
		s, err := strconv.Unquote(raw)
		if err != nil {
			return fmt.Errorf("invalid number JSON: %q", raw)
		}
		raw = leadingFloat.FindString(strings.TrimSpace(s))
		if raw == "" {
			return fmt.Errorf("invalid number %q", s)
		}
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid number %q: %w", raw, err)
	}
	*n = FlexFloat(f)
	return nil
}
