// Package pasted reads tab-separated text copied out of a spreadsheet.
package pasted

import (
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/ahorros/internal/apperrors"
	"github.com/MrJamesThe3rd/ahorros/internal/tabular"
)

const Format = "tsv"

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse needs a header line plus at least one data line. Every field is
// trimmed.
func (p *Parser) Parse(text string) (tabular.Table, error) {
	var lines []string

	for line := range strings.SplitSeq(strings.TrimSpace(text), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		lines = append(lines, line)
	}

	if len(lines) < 2 {
		return tabular.Table{}, apperrors.NewParseError(Format, apperrors.ErrInsufficientRows,
			fmt.Errorf("got %d non-empty lines", len(lines)))
	}

	table := tabular.Table{
		Headers: tabular.UniqueHeaders(strings.Split(lines[0], "\t")),
	}

	for _, line := range lines[1:] {
		table.Rows = append(table.Rows, tabular.NewRow(table.Headers, strings.Split(line, "\t"), true))
	}

	return table, nil
}
