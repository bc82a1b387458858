// Package dataset assembles model-ready hourly frames: the canonical load
// and temperature series joined on their common grid, each row annotated
// with a cyclical calendar encoding.
package dataset

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/tlemoine/gridfeed/internal/timeseries"
)

// Row is one hourly observation with its calendar encoding. Load and
// temperature are NaN when that hour is missing upstream.
type Row struct {
	Time        time.Time
	DaySin      float64
	DayCos      float64
	MonthSin    float64
	MonthCos    float64
	DowSin      float64
	DowCos      float64
	IsWeekend   int
	HourSin     float64
	HourCos     float64
	Load        float64
	Temperature float64
}

// Dataset is an ordered frame of hourly rows.
type Dataset struct {
	Rows []Row
}

// LoadProducer and TemperatureProducer are the two series the builder joins.
type LoadProducer interface {
	Hourly(ctx context.Context, start, end time.Time) (timeseries.Series, error)
}

type TemperatureProducer interface {
	WeightedHourly(ctx context.Context, start, end time.Time) (timeseries.Series, error)
}

// Builder fetches both series and joins them.
type Builder struct {
	load        LoadProducer
	temperature TemperatureProducer
}

func NewBuilder(load LoadProducer, temperature TemperatureProducer) *Builder {
	return &Builder{load: load, temperature: temperature}
}

// Build assembles the frame over the window. Only hours present in both
// series make it into the result; the two grids already agree except at
// edges where one producer's window arithmetic trims a slot the other keeps.
func (b *Builder) Build(ctx context.Context, start, end time.Time) (Dataset, error) {
	load, err := b.load.Hourly(ctx, start, end)
	if err != nil {
		return Dataset{}, fmt.Errorf("build dataset: %w", err)
	}
	temperature, err := b.temperature.WeightedHourly(ctx, start, end)
	if err != nil {
		return Dataset{}, fmt.Errorf("build dataset: %w", err)
	}

	tempByTime := make(map[int64]float64, temperature.Len())
	for _, smp := range temperature.Samples {
		tempByTime[smp.Time.UnixNano()] = smp.Value
	}

	rows := make([]Row, 0, load.Len())
	for _, smp := range load.Samples {
		tv, ok := tempByTime[smp.Time.UnixNano()]
		if !ok {
			continue
		}
		rows = append(rows, newRow(smp.Time, smp.Value, tv))
	}
	return Dataset{Rows: rows}, nil
}

// newRow encodes the calendar position of t as sine/cosine pairs so the
// features wrap smoothly across period boundaries. Weekdays count from
// Monday as zero.
func newRow(t time.Time, load, temperature float64) Row {
	day := float64(t.Day())
	month := float64(t.Month())
	dow := float64((int(t.Weekday()) + 6) % 7)
	hour := float64(t.Hour())

	isWeekend := 0
	if dow >= 5 {
		isWeekend = 1
	}
	return Row{
		Time:        t,
		DaySin:      math.Sin(2 * math.Pi * day / 31),
		DayCos:      math.Cos(2 * math.Pi * day / 31),
		MonthSin:    math.Sin(2 * math.Pi * month / 12),
		MonthCos:    math.Cos(2 * math.Pi * month / 12),
		DowSin:      math.Sin(2 * math.Pi * dow / 7),
		DowCos:      math.Cos(2 * math.Pi * dow / 7),
		IsWeekend:   isWeekend,
		HourSin:     math.Sin(2 * math.Pi * hour / 24),
		HourCos:     math.Cos(2 * math.Pi * hour / 24),
		Load:        load,
		Temperature: temperature,
	}
}
