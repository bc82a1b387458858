package outwriter

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter/tw"

	"github.com/tlemoine/gridfeed/internal/dataset"
)

// tablePreviewRows caps the human-readable table; the full frame belongs in
// csv, json or parquet output.
const tablePreviewRows = 24

var datasetHeader = []string{
	"time",
	"day_sin", "day_cos",
	"month_sin", "month_cos",
	"dow_sin", "dow_cos",
	"is_weekend",
	"hour_sin", "hour_cos",
	"load", "temp",
}

func writeDatasetCSV(w io.Writer, ds dataset.Dataset, fmtFloat func(float64) string) error {
	feature := floatFormatter(6)
	rows := make([][]string, 0, len(ds.Rows))
	for _, row := range ds.Rows {
		rows = append(rows, []string{
			row.Time.UTC().Format(time.RFC3339),
			feature(row.DaySin), feature(row.DayCos),
			feature(row.MonthSin), feature(row.MonthCos),
			feature(row.DowSin), feature(row.DowCos),
			strconv.Itoa(row.IsWeekend),
			feature(row.HourSin), feature(row.HourCos),
			fmtFloat(row.Load), fmtFloat(row.Temperature),
		})
	}
	return writeCSVWithHeader(w, datasetHeader, rows)
}

func renderDatasetTable(w io.Writer, ds dataset.Dataset, opts Options) error {
	fmtFloat := floatFormatter(opts.Precision)
	shown := len(ds.Rows)
	if shown > tablePreviewRows {
		shown = tablePreviewRows
	}

	data := make([][]string, 0, shown)
	for _, row := range ds.Rows[:shown] {
		weekend := "no"
		if row.IsWeekend == 1 {
			weekend = "yes"
		}
		data = append(data, []string{
			row.Time.UTC().Format(time.RFC3339),
			cell(row.Load, fmtFloat),
			cell(row.Temperature, fmtFloat),
			weekend,
		})
	}
	if err := renderTable(w, []string{"Time", "Load", "Temp", "Weekend"}, data,
		[]tw.Align{tw.AlignLeft, tw.AlignRight, tw.AlignRight, tw.AlignLeft}); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d rows (%d shown); csv, json and parquet carry the full feature set\n",
		len(ds.Rows), shown)
	return err
}

func cell(v float64, fmtFloat func(float64) string) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmtFloat(v)
}
