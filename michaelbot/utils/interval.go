package utils

import (
	"strings"
	"time"
	"unicode"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"

	"github.com/MikeJollie2707/michaelbot/michaelbot/errs"
)

var whenParser = func() *when.Parser {
	p := when.New(nil)
	p.Add(en.All...)
	p.Add(common.All...)
	return p
}()

var intervalUnits = map[byte]time.Duration{
	's': time.Second,
	'm': time.Minute,
	'h': time.Hour,
	'd': 24 * time.Hour,
	'w': 7 * 24 * time.Hour,
}

// ParseInterval reads compact interval notation like "1d2h30m" or
// "45s". Falls back to natural-language phrases ("tomorrow at noon",
// "in 3 hours") resolved relative to now.
func ParseInterval(input string, now time.Time) (time.Duration, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, errs.New(errs.Validation, "empty interval")
	}

	if d, ok := parseCompact(input); ok {
		return d, nil
	}

	result, err := whenParser.Parse(input, now)
	if err == nil && result != nil && result.Time.After(now) {
		return result.Time.Sub(now), nil
	}
	return 0, errs.New(errs.Validation, "cannot read %q as an interval; try something like 1d2h30m", input)
}

// parseCompact handles the digits-then-unit-letter form. Units may
// appear in any order but not twice.
func parseCompact(input string) (time.Duration, bool) {
	var (
		total time.Duration
		num   int64
		seen  = map[byte]bool{}
		digit bool
	)
	for i := 0; i < len(input); i++ {
		ch := input[i]
		switch {
		case unicode.IsDigit(rune(ch)):
			num = num*10 + int64(ch-'0')
			digit = true
		default:
			unit, ok := intervalUnits[byte(unicode.ToLower(rune(ch)))]
			if !ok || !digit || seen[ch] {
				return 0, false
			}
			seen[ch] = true
			total += time.Duration(num) * unit
			num = 0
			digit = false
		}
	}
	// trailing digits without a unit
	if digit || total == 0 {
		return 0, false
	}
	return total, true
}
