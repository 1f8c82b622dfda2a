package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"mealprep/internal/fileutil"
)

// Table is an ordered list of ingredient rows loaded from one file.
type Table struct {
	Path string
	Rows []ExternalRow
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Deduplicate removes repeated (name, unit) rows in place and returns how
// many were dropped.
func (t *Table) Deduplicate() int {
	var removed int
	t.Rows, removed = Deduplicate(t.Rows)
	return removed
}

// LoadTable reads the CSV table at path under a shared lock.
func LoadTable(path string) (*Table, error) {
	var table *Table
	err := fileutil.WithSharedLock(path, func() error {
		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open table: %w", err)
		}
		defer file.Close()

		rows, err := ReadRows(file, path)
		if err != nil {
			return err
		}
		table = &Table{Path: path, Rows: rows}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return table, nil
}

// ReadRows decodes CSV rows from r. Columns are located by header name;
// only name and measurement_unit are mandatory. Empty numeric cells read as
// zero. path is used for error messages only.
func ReadRows(r io.Reader, path string) ([]ExternalRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, &ParseError{Path: path, Line: 1, Err: err}
	}
	index := headerIndex(header)
	for _, required := range []string{ColumnName, ColumnMeasurementUnit} {
		if _, ok := index[required]; !ok {
			return nil, &ParseError{Path: path, Line: 1, Column: required, Err: errors.New("missing required column")}
		}
	}

	var rows []ExternalRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				return nil, &ParseError{Path: path, Line: csvErr.Line, Err: csvErr.Err}
			}
			return nil, &ParseError{Path: path, Err: err}
		}
		line, _ := reader.FieldPos(0)
		if blankRecord(record) {
			continue
		}
		row, perr := decodeRow(record, index)
		if perr != nil {
			perr.Path = path
			perr.Line = line
			return nil, perr
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WriteTable atomically replaces the file at path with rows, holding the
// exclusive table lock for the duration.
func WriteTable(path string, rows []ExternalRow) error {
	return fileutil.WithLock(path, func() error {
		return fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
			return WriteRows(w, rows)
		})
	})
}

// WriteRows encodes rows as CSV with the standard header.
func WriteRows(w io.Writer, rows []ExternalRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(EncodeRow(row)); err != nil {
			return fmt.Errorf("write row %q: %w", row.Name, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// EncodeRow renders row in Columns order.
func EncodeRow(row ExternalRow) []string {
	weight := ""
	if row.WeightPerUnit != 0 {
		weight = formatNumber(row.WeightPerUnit)
	}
	return []string{
		row.Name,
		row.MeasurementUnit,
		weight,
		formatNumber(row.Protein),
		formatNumber(row.Calories),
		formatNumber(row.Fat),
		formatNumber(row.Carbohydrates),
		formatNumber(row.AlcoholPercentage),
	}
}

func decodeRow(record []string, index map[string]int) (ExternalRow, *ParseError) {
	cell := func(column string) string {
		i, ok := index[column]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	row := ExternalRow{
		Name:            cell(ColumnName),
		MeasurementUnit: cell(ColumnMeasurementUnit),
	}
	numbers := []struct {
		column string
		dst    *float64
	}{
		{ColumnWeightPerUnit, &row.WeightPerUnit},
		{ColumnProtein, &row.Protein},
		{ColumnCalories, &row.Calories},
		{ColumnFat, &row.Fat},
		{ColumnCarbohydrates, &row.Carbohydrates},
		{ColumnAlcoholPercentage, &row.AlcoholPercentage},
	}
	for _, n := range numbers {
		value, err := parseNumber(cell(n.column))
		if err != nil {
			return ExternalRow{}, &ParseError{Column: n.column, Err: err}
		}
		*n.dst = value
	}
	return row, nil
}

func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimPrefix(name, "\ufeff")
		name = strings.ToLower(strings.TrimSpace(name))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	return index
}

func parseNumber(raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", raw)
	}
	return value, nil
}

func blankRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
