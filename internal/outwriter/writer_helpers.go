package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
)

// writeWithFile routes output to a file when one is configured, stdout
// otherwise.
func writeWithFile(outputFile string, writeFunc func(io.Writer) error) error {
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		return writeFunc(f)
	}
	return writeFunc(os.Stdout)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCSVWithHeader(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// floatFormatter fixes the decimal precision of numeric columns. NaN renders
// as the empty string so spreadsheet imports read it as absent.
func floatFormatter(precision int) func(float64) string {
	if precision < 0 {
		precision = 2
	}
	return func(v float64) string {
		if v != v {
			return ""
		}
		return strconv.FormatFloat(v, 'f', precision, 64)
	}
}
