package outwriter

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tlemoine/gridfeed/internal/dataset"
	"github.com/tlemoine/gridfeed/internal/timeseries"
)

func sampleSeries() timeseries.Series {
	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	return timeseries.Series{Freq: timeseries.Hour, Samples: []timeseries.Sample{
		{Time: start, Value: 61000.128},
		{Time: start.Add(time.Hour), Value: math.NaN()},
		{Time: start.Add(2 * time.Hour), Value: 59900},
	}}
}

func sampleDataset(rows int) dataset.Dataset {
	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	ds := dataset.Dataset{}
	for i := 0; i < rows; i++ {
		load := float64(60000 + i)
		if i == 1 {
			load = math.NaN()
		}
		ds.Rows = append(ds.Rows, dataset.Row{
			Time:        start.Add(time.Duration(i) * time.Hour),
			DowCos:      1,
			Load:        load,
			Temperature: 4.5,
		})
	}
	return ds
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"table":   TextOut,
		"csv":     CSVOut,
		"JSON":    JSONOut,
		"Parquet": ParquetOut,
	} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseFormat("yaml")
	assert.ErrorContains(t, err, "unknown output format")
}

func TestWriteSeriesCSV(t *testing.T) {
	var buf bytes.Buffer
	err := writeSeriesCSV(&buf, sampleSeries(), floatFormatter(2))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "time,value", lines[0])
	assert.Equal(t, "2025-01-06T00:00:00Z,61000.13", lines[1])
	// Missing renders as an empty cell, not as NaN.
	assert.Equal(t, "2025-01-06T01:00:00Z,", lines[2])
	assert.Equal(t, "2025-01-06T02:00:00Z,59900.00", lines[3])
}

func TestWriteSeriesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "load.json")
	err := WriteSeries("load", sampleSeries(), Options{Format: JSONOut, OutputFile: path, Precision: 2})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc struct {
		Name   string `json:"name"`
		Series struct {
			Frequency string `json:"frequency"`
			Points    []struct {
				Value *float64 `json:"value"`
			} `json:"points"`
		} `json:"series"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "load", doc.Name)
	assert.Equal(t, "1h", doc.Series.Frequency)
	require.Len(t, doc.Series.Points, 3)
	assert.Nil(t, doc.Series.Points[1].Value)
	require.NotNil(t, doc.Series.Points[0].Value)
	assert.Equal(t, 61000.128, *doc.Series.Points[0].Value)
}

func TestWriteSeriesRejectsParquet(t *testing.T) {
	err := WriteSeries("load", sampleSeries(), Options{Format: ParquetOut})
	assert.ErrorContains(t, err, "only supported for datasets")
}

func TestRenderSeriesTable(t *testing.T) {
	var buf bytes.Buffer
	err := renderSeriesTable(&buf, "load", sampleSeries(), Options{Precision: 2})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "2025-01-06T00:00:00Z")
	assert.Contains(t, out, "61000.13")
	assert.Contains(t, out, "NaN")
	assert.Contains(t, out, "load: 3 points at 1h, 1 missing")
}

func TestWriteSeriesSetCSVSortsVariants(t *testing.T) {
	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	set := map[string]timeseries.Series{
		"REALISED": {Freq: timeseries.QuarterHour, Samples: []timeseries.Sample{{Time: start, Value: 1}}},
		"D-1":      {Freq: timeseries.QuarterHour, Samples: []timeseries.Sample{{Time: start, Value: 2}}},
	}

	var buf bytes.Buffer
	err := writeSeriesSetCSV(&buf, set, floatFormatter(0))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "variant,time,value", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "D-1,"))
	assert.True(t, strings.HasPrefix(lines[2], "REALISED,"))
}

func TestWriteDatasetCSV(t *testing.T) {
	var buf bytes.Buffer
	err := writeDatasetCSV(&buf, sampleDataset(2), floatFormatter(2))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t,
		"time,day_sin,day_cos,month_sin,month_cos,dow_sin,dow_cos,is_weekend,hour_sin,hour_cos,load,temp",
		lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "2025-01-06T00:00:00Z,"))
	assert.True(t, strings.HasSuffix(lines[1], ",60000.00,4.50"))
	// The NaN load in row two leaves an empty cell.
	assert.True(t, strings.HasSuffix(lines[2], ",,4.50"))
}

func TestRenderDatasetTableCapsPreview(t *testing.T) {
	var buf bytes.Buffer
	err := renderDatasetTable(&buf, sampleDataset(30), Options{Precision: 2})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "30 rows (24 shown)")
}

func TestWriteDatasetParquetRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.parquet")
	err := WriteDataset(sampleDataset(3), Options{Format: ParquetOut, OutputFile: path})
	require.NoError(t, err)

	records, err := parquet.ReadFile[datasetRecord](path)
	require.NoError(t, err)

	require.Len(t, records, 3)
	require.NotNil(t, records[0].Load)
	assert.Equal(t, 60000.0, *records[0].Load)
	// The missing load arrives as a null, not a zero.
	assert.Nil(t, records[1].Load)
	require.NotNil(t, records[1].Temperature)
	assert.Equal(t, 4.5, *records[1].Temperature)
}

func TestWriteDatasetParquetNeedsOutputFile(t *testing.T) {
	err := WriteDataset(sampleDataset(1), Options{Format: ParquetOut})
	assert.ErrorContains(t, err, "requires --output-file")
}

func TestFloatFormatter(t *testing.T) {
	f := floatFormatter(3)
	assert.Equal(t, "1.500", f(1.5))
	assert.Equal(t, "", f(math.NaN()))
	assert.Equal(t, "2.00", floatFormatter(-1)(2))
}
