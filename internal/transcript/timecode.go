package transcript

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// maxTimestampSeconds bounds parsed timestamps so they fit a time.Duration.
const maxTimestampSeconds = float64(math.MaxInt64 / int64(time.Second))

// ParseTimestamp parses "HH:MM:SS", "MM:SS" or "SS", with an optional
// fractional part separated by "." or "," (SRT style).
func ParseTimestamp(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty timestamp")
	}

	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid timestamp %q", s)
	}

	var total float64
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.ReplaceAll(p, ",", "."), 64)
		if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("invalid timestamp %q", s)
		}
		total = total*60 + v
		if total >= maxTimestampSeconds {
			return 0, fmt.Errorf("timestamp %q out of range", s)
		}
	}
	return time.Duration(total * float64(time.Second)), nil
}

// FormatTimestamp renders d as HH:MM:SS, truncating sub-second precision.
func FormatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs/60)%60, secs%60)
}

// Offset parses s and returns zero for malformed input.
func Offset(s string) time.Duration {
	d, _ := ParseTimestamp(s)
	return d
}

// Span returns the duration between two timestamps, never negative.
func Span(start, end string) time.Duration {
	d := Offset(end) - Offset(start)
	if d < 0 {
		return 0
	}
	return d
}
