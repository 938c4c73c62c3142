package fields

import (
	"errors"
	"fmt"
)

// Column headers expected in field tables.
const (
	ColumnField = "Field"
	ColumnValue = "Value"
	ColumnType  = "Type"
)

// Row is one line of a Field/Value/Type table.
type Row struct {
	Field string
	Value string
	Type  Type
}

// RowsFromTable maps a header and its data rows onto Rows, preserving order.
func RowsFromTable(header []string, rows [][]string) ([]Row, error) {
	if header == nil {
		return nil, errors.New("table has no header row")
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	for _, col := range []string{ColumnField, ColumnValue, ColumnType} {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("table is missing the '%s' column", col)
		}
	}

	out := make([]Row, 0, len(rows))
	for i, cells := range rows {
		if len(cells) != len(header) {
			return nil, fmt.Errorf("table row %d has %d cells, expected %d", i+1, len(cells), len(header))
		}
		out = append(out, Row{
			Field: cells[index[ColumnField]],
			Value: cells[index[ColumnValue]],
			Type:  Type(cells[index[ColumnType]]),
		})
	}
	return out, nil
}
