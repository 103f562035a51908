package huggingface

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var hubTimeLayouts = [...]string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	time.DateOnly,
}

// FlexibleTime reads the timestamps the hub api returns. Values without an
// offset are taken as UTC; a bare number is unix seconds.
type FlexibleTime struct {
	time.Time
}

func (t *FlexibleTime) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	t.Time = time.Time{}

	switch {
	case raw == "null":
		return nil
	case strings.HasPrefix(raw, `"`):
		s, err := strconv.Unquote(raw)
		if err != nil {
			return fmt.Errorf("invalid time JSON %s: %w", raw, err)
		}
		return t.parse(strings.TrimSpace(s))
	default:
		secs, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid time JSON %s", raw)
		}
		t.Time = time.Unix(secs, 0).UTC()
		return nil
	}
}

func (t *FlexibleTime) parse(s string) error {
	if s == "" {
		return nil
	}
	for _, layout := range hubTimeLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("invalid time %q", s)
}
