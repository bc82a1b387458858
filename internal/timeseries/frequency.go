package timeseries

import (
	"fmt"
	"strings"
	"time"
)

// Frequency is the fixed spacing of a canonical grid.
type Frequency time.Duration

const (
	QuarterHour = Frequency(15 * time.Minute)
	Hour        = Frequency(time.Hour)
	Day         = Frequency(24 * time.Hour)
)

// Duration returns the frequency as a plain duration.
func (f Frequency) Duration() time.Duration {
	return time.Duration(f)
}

func (f Frequency) String() string {
	d := time.Duration(f)
	switch {
	case d >= 24*time.Hour && d%(24*time.Hour) == 0:
		return fmt.Sprintf("%dd", d/(24*time.Hour))
	case d >= time.Hour && d%time.Hour == 0:
		return fmt.Sprintf("%dh", d/time.Hour)
	case d >= time.Minute && d%time.Minute == 0:
		return fmt.Sprintf("%dmin", d/time.Minute)
	}
	return d.String()
}

// Floor rounds t down to the nearest grid edge, in UTC. Grid edges count
// from the zero time, so any whole hour, quarter hour or midnight aligns.
func (f Frequency) Floor(t time.Time) time.Time {
	return t.UTC().Truncate(time.Duration(f))
}

// Ceil rounds t up to the nearest grid edge, in UTC. An already aligned
// instant is its own ceiling.
func (f Frequency) Ceil(t time.Time) time.Time {
	floored := f.Floor(t)
	if floored.Equal(t) {
		return floored
	}
	return floored.Add(time.Duration(f))
}

var unitRewrites = []struct{ from, to string }{
	{"minutes", "m"}, {"minute", "m"}, {"mins", "m"}, {"min", "m"},
	{"hours", "h"}, {"hour", "h"},
	{"days", "d"}, {"day", "d"},
}

// ParseFrequency accepts the common spellings used by upstream APIs and
// flags: "15min", "1h", "1 hour", "1D", "h". Anything that does not resolve
// to a positive duration is a GridConstructionError.
func ParseFrequency(s string) (Frequency, error) {
	norm := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	if norm == "" {
		return 0, &GridConstructionError{Reason: "empty frequency"}
	}
	for _, r := range unitRewrites {
		norm = strings.ReplaceAll(norm, r.from, r.to)
	}
	// A bare unit means one of it, as in "h" or "d".
	if norm == "m" || norm == "h" || norm == "d" {
		norm = "1" + norm
	}
	var d time.Duration
	if strings.HasSuffix(norm, "d") {
		days, err := time.ParseDuration(strings.TrimSuffix(norm, "d") + "h")
		if err != nil {
			return 0, &GridConstructionError{Reason: fmt.Sprintf("unparsable frequency %q", s), Err: err}
		}
		d = days * 24
	} else {
		var err error
		d, err = time.ParseDuration(norm)
		if err != nil {
			return 0, &GridConstructionError{Reason: fmt.Sprintf("unparsable frequency %q", s), Err: err}
		}
	}
	if d <= 0 {
		return 0, &GridConstructionError{Reason: fmt.Sprintf("frequency %q is not positive", s)}
	}
	return Frequency(d), nil
}
