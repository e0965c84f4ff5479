// Package storage persists computed insights for downstream use.
package storage

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"shoppingtrends/src/analyzer"
)

// maxSheetName is the worksheet name limit imposed by the XLSX format.
const maxSheetName = 31

// ExportXLSX writes the insight set to an Excel workbook at path, one
// worksheet per insight, overwriting any existing file.
func ExportXLSX(path string, insights *analyzer.Insights) error {
	f := excelize.NewFile()
	defer f.Close()

	for _, e := range insights.Entries() {
		sheet := sheetName(e.Key)
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("create sheet %q: %w", sheet, err)
		}
		if err := writeInsight(f, sheet, e.Value); err != nil {
			return fmt.Errorf("write sheet %q: %w", sheet, err)
		}
	}

	// Drop the default sheet excelize creates.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func sheetName(key string) string {
	if len(key) > maxSheetName {
		return key[:maxSheetName]
	}
	return key
}

func writeInsight(f *excelize.File, sheet string, value analyzer.Insight) error {
	switch v := value.(type) {
	case analyzer.Scalar:
		return writeRows(f, sheet, [][]interface{}{
			{"value"},
			{float64(v)},
		})
	case analyzer.Series:
		rows := [][]interface{}{{"key", "value"}}
		for _, e := range v.Entries {
			if v.Count {
				rows = append(rows, []interface{}{e.Key, int(e.Value)})
			} else {
				rows = append(rows, []interface{}{e.Key, e.Value})
			}
		}
		return writeRows(f, sheet, rows)
	case analyzer.GroupStats:
		rows := [][]interface{}{{"key", "mean", "count"}}
		for _, s := range v {
			rows = append(rows, []interface{}{s.Key, s.Mean, s.Count})
		}
		return writeRows(f, sheet, rows)
	case analyzer.Nested:
		rows := [][]interface{}{{"group", "key", "count"}}
		for _, g := range v {
			for _, e := range g.Counts.Entries {
				rows = append(rows, []interface{}{g.Key, e.Key, int(e.Value)})
			}
		}
		return writeRows(f, sheet, rows)
	case analyzer.Grid:
		header := []interface{}{""}
		for _, c := range v.Cols {
			header = append(header, c)
		}
		rows := [][]interface{}{header}
		for i, r := range v.Rows {
			row := []interface{}{r}
			for _, cell := range v.Cells[i] {
				row = append(row, cell)
			}
			rows = append(rows, row)
		}
		return writeRows(f, sheet, rows)
	case analyzer.AgeDistribution:
		rows := [][]interface{}{
			{"mean age", v.Mean},
			{"median age", v.Median},
		}
		for _, e := range v.Bins.Entries {
			rows = append(rows, []interface{}{e.Key, int(e.Value)})
		}
		return writeRows(f, sheet, rows)
	default:
		return writeRows(f, sheet, [][]interface{}{{fmt.Sprint(value)}})
	}
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for r, row := range rows {
		for c, val := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return err
			}
		}
	}
	return nil
}
