// reader.go
package file

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
)

// Read loads the transactions table at path into a DataFrame, dispatching on
// the file extension. Columns listed in numericCols are forced to float so
// that unparsable values become NaN instead of failing the load.
func Read(path, sheetName string, numericCols []string) (dataframe.DataFrame, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return ReadXLSX(path, sheetName, numericCols)
	default:
		return ReadCSV(path, numericCols)
	}
}

// ReadCSV loads a delimited text file with a header row.
func ReadCSV(path string, numericCols []string) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	return ReadCSVFrom(f, numericCols)
}

// ReadCSVFrom is ReadCSV over an arbitrary reader.
func ReadCSVFrom(r io.Reader, numericCols []string) (dataframe.DataFrame, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.WithTypes(floatTypes(numericCols)),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("parse dataset: %w", df.Err)
	}
	return df, nil
}

// ReadXLSX loads one worksheet of an Excel workbook, first row as header.
// An empty sheetName selects the first sheet.
func ReadXLSX(path, sheetName string, numericCols []string) (dataframe.DataFrame, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if sheetName == "" {
		sheetName = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("read sheet %q: %w", sheetName, err)
	}
	if len(rows) < 1 {
		return dataframe.DataFrame{}, fmt.Errorf("sheet %q has no header row", sheetName)
	}

	// excelize trims trailing empty cells, so pad every row to header width.
	width := len(rows[0])
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		if len(row) < width {
			padded := make([]string, width)
			copy(padded, row)
			row = padded
		}
		records = append(records, row[:width])
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.WithTypes(floatTypes(numericCols)),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("parse sheet %q: %w", sheetName, df.Err)
	}
	return df, nil
}

func floatTypes(cols []string) map[string]series.Type {
	types := make(map[string]series.Type, len(cols))
	for _, c := range cols {
		types[c] = series.Float
	}
	return types
}
