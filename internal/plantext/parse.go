// Package plantext parses the free-text fields of catalog plan records:
// validity periods, prices with currency symbols, and data allowances.
// Every parser is total; unparseable input reports ok=false, never an error.
package plantext

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	daysPattern   = regexp.MustCompile(`(?i)(\d+)\s*days?`)
	monthsPattern = regexp.MustCompile(`(?i)(\d+)\s*months?`)
	weeksPattern  = regexp.MustCompile(`(?i)(\d+)\s*weeks?`)
	yearsPattern  = regexp.MustCompile(`(?i)(\d+)\s*years?`)
	digitsPattern = regexp.MustCompile(`\d+`)
	nonDigits     = regexp.MustCompile(`[^\d]+`)
	gbPattern     = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*gb`)
	mbPattern     = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*mb`)
)

// ParseValidityDays converts a validity value to a day count. Catalog
// validity arrives as a JSON number or as free text ("28 days", "1 month").
// "bill cycle" and "base plan" have no day equivalent and report ok=false,
// never zero. The generic month here is 30 days; the 28-day billing-cycle
// mapping applies only to query text, in the signal extractor.
func ParseValidityDays(v interface{}) (int, bool) {
	switch val := v.(type) {
	case nil:
		return 0, false
	case int:
		if val > 0 {
			return val, true
		}
		return 0, false
	case int64:
		return ParseValidityDays(int(val))
	case float64:
		if val > 0 {
			return int(val), true
		}
		return 0, false
	case string:
		return parseValidityString(val)
	default:
		return 0, false
	}
}

func parseValidityString(s string) (int, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}

	// "bill cycle", "base plan" and similar have no fixed day count.
	if strings.Contains(s, "bill cycle") || strings.Contains(s, "base plan") {
		return 0, false
	}

	if n, err := strconv.Atoi(s); err == nil {
		if n > 0 {
			return n, true
		}
		return 0, false
	}

	if m := daysPattern.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n, n > 0
	}
	if m := monthsPattern.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n * 30, n > 0
	}
	if m := weeksPattern.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n * 7, n > 0
	}
	if m := yearsPattern.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n * 365, n > 0
	}

	return 0, false
}

// ParsePrice converts a price value to rupees, stripping currency symbols
// and separators from string input.
func ParsePrice(v interface{}) (int, bool) {
	switch val := v.(type) {
	case nil:
		return 0, false
	case int:
		return val, true
	case int64:
		return int(val), true
	case float64:
		return int(val), true
	case string:
		cleaned := nonDigits.ReplaceAllString(val, "")
		if cleaned == "" {
			return 0, false
		}
		n, err := strconv.Atoi(cleaned)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// ParseDataGB converts a plan's data allowance to gigabytes. "Unlimited"
// maps to +Inf so it survives any daily-rate division.
func ParseDataGB(data string) (float64, bool) {
	s := strings.ToLower(strings.TrimSpace(data))
	if s == "" {
		return 0, false
	}
	if strings.Contains(s, "unlimited") {
		return math.Inf(1), true
	}
	if m := gbPattern.FindStringSubmatch(s); m != nil {
		n, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	if m := mbPattern.FindStringSubmatch(s); m != nil {
		n, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, false
		}
		return n / 1024, true
	}
	return 0, false
}

// FirstInt extracts the first integer substring from s.
func FirstInt(s string) (int, bool) {
	m := digitsPattern.FindString(s)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}
