// Package tabular holds the row-record shape every import parser converges
// on, so the mapper and normalizer never care where the rows came from.
package tabular

import (
	"fmt"
	"strings"
)

// Row maps a column header to the raw cell text.
type Row map[string]string

// Get returns the cell for the column, or "" when the row has no such cell.
func (r Row) Get(column string) string {
	return r[column]
}

// Table is an ordered sequence of rows plus the header order they were read with.
type Table struct {
	Headers []string
	Rows    []Row
}

func (t Table) Len() int {
	return len(t.Rows)
}

// Sample returns at most n rows from the top of the table.
func (t Table) Sample(n int) []Row {
	if n < 0 || n > len(t.Rows) {
		n = len(t.Rows)
	}

	return t.Rows[:n]
}

// NewRow zips headers with cells. Missing trailing cells become "" and
// cells beyond the header count are dropped.
func NewRow(headers, cells []string, trim bool) Row {
	row := make(Row, len(headers))

	for i, h := range headers {
		v := ""
		if i < len(cells) {
			v = cells[i]
		}

		if trim {
			v = strings.TrimSpace(v)
		}

		row[h] = v
	}

	return row
}

// IsBlank reports whether every cell is empty or whitespace.
func IsBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}

	return true
}

// UniqueHeaders trims header names, names blank ones after their position
// and suffixes repeats so no column shadows another.
func UniqueHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	seen := make(map[string]int, len(raw))

	for i, h := range raw {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Column %d", i+1)
		}

		if n, ok := seen[name]; ok {
			seen[name] = n + 1
			name = fmt.Sprintf("%s_%d", name, n+1)
		} else {
			seen[name] = 0
		}

		headers[i] = name
	}

	return headers
}
