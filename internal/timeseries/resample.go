package timeseries

import (
	"math"
	"time"
)

// Downsample reduces a canonical series to a coarser frequency. Each target
// bucket becomes the mean of the values present in it; a bucket whose slots
// are all missing stays missing rather than becoming zero.
func Downsample(s Series, target Frequency) (Series, error) {
	if target <= 0 {
		return Series{}, &GridConstructionError{Reason: "target frequency is not positive"}
	}
	if s.Empty() {
		return Series{Freq: target}, nil
	}
	if target < s.Freq || target.Duration()%s.Freq.Duration() != 0 {
		return Series{}, &GridConstructionError{
			Reason: "target frequency " + target.String() + " is not a whole multiple of " + s.Freq.String(),
		}
	}
	if target == s.Freq {
		out := Series{Freq: target, Samples: make([]Sample, len(s.Samples))}
		copy(out.Samples, s.Samples)
		return out, nil
	}

	first := target.Floor(s.Samples[0].Time)
	last := target.Floor(s.Samples[len(s.Samples)-1].Time)
	buckets := int(last.Sub(first)/target.Duration()) + 1

	sums := make([]float64, buckets)
	counts := make([]int, buckets)
	for _, smp := range s.Samples {
		if smp.IsMissing() {
			continue
		}
		i := int(target.Floor(smp.Time).Sub(first) / target.Duration())
		sums[i] += smp.Value
		counts[i]++
	}

	out := Series{Freq: target, Samples: make([]Sample, buckets)}
	for i := range out.Samples {
		t := first.Add(time.Duration(i) * target.Duration())
		v := math.NaN()
		if counts[i] > 0 {
			v = sums[i] / float64(counts[i])
		}
		out.Samples[i] = Sample{Time: t, Value: v}
	}
	return out, nil
}
