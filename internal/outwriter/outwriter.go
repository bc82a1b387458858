// Package outwriter renders canonical series and assembled datasets as
// human tables, CSV, JSON and (for datasets) Parquet.
package outwriter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tlemoine/gridfeed/internal/dataset"
	"github.com/tlemoine/gridfeed/internal/timeseries"
)

// Format selects an output rendering.
type Format string

const (
	TextOut    Format = "table"
	CSVOut     Format = "csv"
	JSONOut    Format = "json"
	ParquetOut Format = "parquet"
)

// ParseFormat validates a format flag value.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case TextOut, CSVOut, JSONOut, ParquetOut:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q", s)
}

// Options configures rendering.
type Options struct {
	Format     Format
	OutputFile string // empty writes to stdout
	Precision  int    // decimal digits for numeric columns
	Color      bool   // colored labels in table output
}

// WriteSeries renders one named series. Parquet is a dataset-only format.
func WriteSeries(name string, s timeseries.Series, opts Options) error {
	switch opts.Format {
	case JSONOut:
		return writeWithFile(opts.OutputFile, func(w io.Writer) error {
			return writeJSON(w, seriesDocument{Name: name, Series: s})
		})
	case CSVOut:
		return writeWithFile(opts.OutputFile, func(w io.Writer) error {
			return writeSeriesCSV(w, s, floatFormatter(opts.Precision))
		})
	case ParquetOut:
		return fmt.Errorf("parquet output is only supported for datasets")
	default:
		return writeWithFile(opts.OutputFile, func(w io.Writer) error {
			return renderSeriesTable(w, name, s, opts)
		})
	}
}

// WriteSeriesSet renders a set of variant-keyed series in long form, with
// variants in sorted order.
func WriteSeriesSet(name string, set map[string]timeseries.Series, opts Options) error {
	switch opts.Format {
	case JSONOut:
		return writeWithFile(opts.OutputFile, func(w io.Writer) error {
			return writeJSON(w, seriesSetDocument{Name: name, Series: set})
		})
	case CSVOut:
		return writeWithFile(opts.OutputFile, func(w io.Writer) error {
			return writeSeriesSetCSV(w, set, floatFormatter(opts.Precision))
		})
	case ParquetOut:
		return fmt.Errorf("parquet output is only supported for datasets")
	default:
		return writeWithFile(opts.OutputFile, func(w io.Writer) error {
			return renderSeriesSetTable(w, name, set, opts)
		})
	}
}

// WriteDataset renders the assembled dataset.
func WriteDataset(ds dataset.Dataset, opts Options) error {
	switch opts.Format {
	case JSONOut:
		return writeWithFile(opts.OutputFile, func(w io.Writer) error {
			return writeJSON(w, toRecords(ds))
		})
	case CSVOut:
		return writeWithFile(opts.OutputFile, func(w io.Writer) error {
			return writeDatasetCSV(w, ds, floatFormatter(opts.Precision))
		})
	case ParquetOut:
		return writeDatasetParquet(ds, opts.OutputFile)
	default:
		return writeWithFile(opts.OutputFile, func(w io.Writer) error {
			return renderDatasetTable(w, ds, opts)
		})
	}
}
