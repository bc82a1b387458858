package outwriter

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/tlemoine/gridfeed/internal/dataset"
)

// datasetRecord maps one dataset row onto the Parquet schema. The nullable
// measurement columns use pointers so missing hours survive as nulls; the
// same shape feeds the JSON rendering.
type datasetRecord struct {
	Time        time.Time `parquet:"time,snappy" json:"time"`
	DaySin      float64   `parquet:"day_sin,snappy" json:"day_sin"`
	DayCos      float64   `parquet:"day_cos,snappy" json:"day_cos"`
	MonthSin    float64   `parquet:"month_sin,snappy" json:"month_sin"`
	MonthCos    float64   `parquet:"month_cos,snappy" json:"month_cos"`
	DowSin      float64   `parquet:"dow_sin,snappy" json:"dow_sin"`
	DowCos      float64   `parquet:"dow_cos,snappy" json:"dow_cos"`
	IsWeekend   int32     `parquet:"is_weekend,snappy" json:"is_weekend"`
	HourSin     float64   `parquet:"hour_sin,snappy" json:"hour_sin"`
	HourCos     float64   `parquet:"hour_cos,snappy" json:"hour_cos"`
	Load        *float64  `parquet:"load,optional,snappy" json:"load"`
	Temperature *float64  `parquet:"temp,optional,snappy" json:"temp"`
}

func toRecords(ds dataset.Dataset) []datasetRecord {
	records := make([]datasetRecord, len(ds.Rows))
	for i, row := range ds.Rows {
		records[i] = datasetRecord{
			Time:      row.Time.UTC(),
			DaySin:    row.DaySin,
			DayCos:    row.DayCos,
			MonthSin:  row.MonthSin,
			MonthCos:  row.MonthCos,
			DowSin:    row.DowSin,
			DowCos:    row.DowCos,
			IsWeekend: int32(row.IsWeekend),
			HourSin:   row.HourSin,
			HourCos:   row.HourCos,
		}
		if !math.IsNaN(row.Load) {
			v := row.Load
			records[i].Load = &v
		}
		if !math.IsNaN(row.Temperature) {
			v := row.Temperature
			records[i].Temperature = &v
		}
	}
	return records
}

// writeDatasetParquet writes the frame to a Parquet file using struct schema
// inference. Parquet is a seekable file format, so stdout is not an option.
func writeDatasetParquet(ds dataset.Dataset, outputFile string) error {
	if outputFile == "" {
		return errors.New("parquet output requires --output-file")
	}
	f, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	writer := parquet.NewGenericWriter[datasetRecord](f)
	if _, err := writer.Write(toRecords(ds)); err != nil {
		f.Close()
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		f.Close()
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return f.Close()
}
