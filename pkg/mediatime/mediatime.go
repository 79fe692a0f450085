package mediatime

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Range is a contiguous span of media, in seconds.
type Range struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// FormatDuration renders seconds as "1h 2m 3s". The hour part is omitted when zero
// and the seconds part is always present. Callers must pass a finite, non-negative value.
func FormatDuration(seconds float64) string {
	total := int64(math.Floor(seconds))
	h := total / 3600
	m := total % 3600 / 60
	s := total % 60

	var b strings.Builder
	if h > 0 {
		b.WriteString(strconv.FormatInt(h, 10))
		b.WriteString("h ")
	}

	if h > 0 || m > 0 {
		b.WriteString(strconv.FormatInt(m, 10))
		b.WriteString("m ")
	}

	b.WriteString(strconv.FormatInt(s, 10))
	b.WriteString("s")

	return b.String()
}

// ClampSeconds maps NaN, infinities and negative values to 0.
func ClampSeconds(seconds float64) float64 {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return 0
	}

	return seconds
}

// BufferedAhead returns how much media is buffered past position. Ranges are scanned
// in order and the first one containing position (bounds inclusive) wins.
func BufferedAhead(ranges []Range, position float64) float64 {
	for _, r := range ranges {
		if r.Start <= position && r.End >= position {
			return r.End - position
		}
	}

	return 0
}

// ParseDuration accepts plain seconds ("42", "12.5") or a Go duration with optional
// spaces between units ("1h 2m 3s", "2m3s").
func ParseDuration(text string) (float64, bool) {
	text = strings.ReplaceAll(strings.TrimSpace(text), " ", "")
	if text == "" {
		return 0, false
	}

	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		d, derr := time.ParseDuration(text)
		if derr != nil {
			return 0, false
		}
		v = d.Seconds()
	}

	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}

	return v, true
}
