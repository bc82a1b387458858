package outwriter

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/tlemoine/gridfeed/internal/timeseries"
)

type seriesDocument struct {
	Name   string            `json:"name"`
	Series timeseries.Series `json:"series"`
}

type seriesSetDocument struct {
	Name   string                       `json:"name"`
	Series map[string]timeseries.Series `json:"series"`
}

func writeSeriesCSV(w io.Writer, s timeseries.Series, fmtFloat func(float64) string) error {
	rows := make([][]string, 0, s.Len())
	for _, smp := range s.Samples {
		rows = append(rows, []string{smp.Time.UTC().Format(time.RFC3339), fmtFloat(smp.Value)})
	}
	return writeCSVWithHeader(w, []string{"time", "value"}, rows)
}

func writeSeriesSetCSV(w io.Writer, set map[string]timeseries.Series, fmtFloat func(float64) string) error {
	var rows [][]string
	for _, key := range sortedKeys(set) {
		for _, smp := range set[key].Samples {
			rows = append(rows, []string{key, smp.Time.UTC().Format(time.RFC3339), fmtFloat(smp.Value)})
		}
	}
	return writeCSVWithHeader(w, []string{"variant", "time", "value"}, rows)
}

func renderSeriesTable(w io.Writer, name string, s timeseries.Series, opts Options) error {
	fmtFloat := floatFormatter(opts.Precision)
	data := make([][]string, 0, s.Len())
	for _, smp := range s.Samples {
		data = append(data, []string{
			smp.Time.UTC().Format(time.RFC3339),
			valueCell(smp, fmtFloat, opts.Color),
		})
	}
	if err := renderTable(w, []string{"Time", "Value"}, data,
		[]tw.Align{tw.AlignLeft, tw.AlignRight}); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%s: %d points at %s, %d missing\n",
		name, s.Len(), s.Freq, s.MissingCount())
	return err
}

func renderSeriesSetTable(w io.Writer, name string, set map[string]timeseries.Series, opts Options) error {
	fmtFloat := floatFormatter(opts.Precision)
	var data [][]string
	for _, key := range sortedKeys(set) {
		for _, smp := range set[key].Samples {
			data = append(data, []string{
				key,
				smp.Time.UTC().Format(time.RFC3339),
				valueCell(smp, fmtFloat, opts.Color),
			})
		}
	}
	if err := renderTable(w, []string{"Variant", "Time", "Value"}, data,
		[]tw.Align{tw.AlignLeft, tw.AlignLeft, tw.AlignRight}); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%s: %d variants\n", name, len(set))
	return err
}

func renderTable(w io.Writer, headers []string, data [][]string, alignments []tw.Align) error {
	table := tablewriter.NewWriter(w)
	table.Header(headers)
	table.Configure(func(config *tablewriter.Config) {
		config.Row.Alignment.PerColumn = alignments
	})
	if err := table.Bulk(data); err != nil {
		return fmt.Errorf("failed to add table rows: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}

func valueCell(smp timeseries.Sample, fmtFloat func(float64) string, colored bool) string {
	if smp.IsMissing() {
		if colored {
			return color.New(color.FgYellow).Sprint("NaN")
		}
		return "NaN"
	}
	return fmtFloat(smp.Value)
}

func sortedKeys(set map[string]timeseries.Series) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
