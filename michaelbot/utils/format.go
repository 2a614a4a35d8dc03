package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

func FormatNumber(n int64) string {
	str := strconv.FormatInt(n, 10)
	if n < 0 {
		str = str[1:]
	}

	var result []byte
	for i := len(str) - 1; i >= 0; i-- {
		if (len(str)-i-1)%3 == 0 && i != len(str)-1 {
			result = append([]byte{','}, result...)
		}
		result = append([]byte{str[i]}, result...)
	}

	if n < 0 {
		return "-" + string(result)
	}
	return string(result)
}

// FormatMoney renders a balance with the currency marker.
func FormatMoney(n int64) string {
	return "$" + FormatNumber(n)
}

// FormatDuration renders a duration as the largest two units, e.g.
// "1d 4h" or "3m 20s".
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "now"
	}
	parts := []struct {
		unit time.Duration
		name string
	}{
		{7 * 24 * time.Hour, "w"},
		{24 * time.Hour, "d"},
		{time.Hour, "h"},
		{time.Minute, "m"},
		{time.Second, "s"},
	}

	var out []string
	for _, p := range parts {
		if d >= p.unit {
			out = append(out, fmt.Sprintf("%d%s", d/p.unit, p.name))
			d %= p.unit
		}
		if len(out) == 2 {
			break
		}
	}
	if len(out) == 0 {
		return "less than a second"
	}
	return strings.Join(out, " ")
}

// Timestamp renders a Discord relative-time marker.
func Timestamp(t time.Time) string {
	return fmt.Sprintf("<t:%d:R>", t.Unix())
}

// Truncate cuts s to at most n runes, appending an ellipsis when cut.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
