package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var absoluteLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02.01.2006 15:04:05",
	"02.01.2006 15:04",
	"02.01.2006",
}

// ParseTimeRestriction resolves a time restriction value relative to now.
//
// Accepted forms are absolute dates (see absoluteLayouts), the keywords now,
// today, midnight, tomorrow and yesterday, and one or more relative offsets
// such as "+3 days", "-1 week" or "today +2 hours". Absolute values without a
// zone are read in loc.
func ParseTimeRestriction(value string, now time.Time, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	raw := strings.TrimSpace(value)
	if raw == "" {
		return time.Time{}, fmt.Errorf("%w: empty time restriction", ErrInvalidInput)
	}
	for _, layout := range absoluteLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	v := strings.ToLower(raw)

	now = now.In(loc)
	tokens := strings.Fields(v)
	base := now
	i := 0
	switch tokens[0] {
	case "now":
		i = 1
	case "today", "midnight":
		base = startOfDay(now)
		i = 1
	case "tomorrow":
		base = startOfDay(now).AddDate(0, 0, 1)
		i = 1
	case "yesterday":
		base = startOfDay(now).AddDate(0, 0, -1)
		i = 1
	}

	for i < len(tokens) {
		amount, unit, consumed, err := relativeOffset(tokens[i:])
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: time restriction %q: %v", ErrInvalidInput, value, err)
		}
		base = applyOffset(base, amount, unit)
		i += consumed
	}
	return base, nil
}

// relativeOffset reads "+3 days" or "+3days" from tokens.
func relativeOffset(tokens []string) (amount int, unit string, consumed int, err error) {
	tok := tokens[0]
	split := len(tok)
	for j, r := range tok {
		if j == 0 && (r == '+' || r == '-') {
			continue
		}
		if r < '0' || r > '9' {
			split = j
			break
		}
	}
	num := tok[:split]
	unit = tok[split:]
	consumed = 1
	if unit == "" {
		if len(tokens) < 2 {
			return 0, "", 0, fmt.Errorf("missing unit after %q", tok)
		}
		unit = tokens[1]
		consumed = 2
	}
	amount, err = strconv.Atoi(num)
	if err != nil {
		return 0, "", 0, fmt.Errorf("invalid amount %q", num)
	}
	unit = strings.TrimSuffix(unit, "s")
	switch unit {
	case "second", "sec", "minute", "min", "hour", "day", "week", "month", "year":
		return amount, unit, consumed, nil
	default:
		return 0, "", 0, fmt.Errorf("unknown unit %q", unit)
	}
}

func applyOffset(t time.Time, amount int, unit string) time.Time {
	switch unit {
	case "second", "sec":
		return t.Add(time.Duration(amount) * time.Second)
	case "minute", "min":
		return t.Add(time.Duration(amount) * time.Minute)
	case "hour":
		return t.Add(time.Duration(amount) * time.Hour)
	case "day":
		return t.AddDate(0, 0, amount)
	case "week":
		return t.AddDate(0, 0, 7*amount)
	case "month":
		return t.AddDate(0, amount, 0)
	default:
		return t.AddDate(amount, 0, 0)
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
