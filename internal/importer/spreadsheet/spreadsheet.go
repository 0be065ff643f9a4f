// Package spreadsheet reads the first sheet of an xlsx workbook into row
// records.
package spreadsheet

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/ahorros/internal/apperrors"
	"github.com/MrJamesThe3rd/ahorros/internal/tabular"
)

const Format = "xlsx"

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse reads the first sheet only. The first non-blank row names the
// columns; cells the sheet leaves out read as "".
func (p *Parser) Parse(payload []byte) (tabular.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		return tabular.Table{}, apperrors.NewParseError(Format, apperrors.ErrUnknownFormat, fmt.Errorf("open workbook: %w", err))
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("failed to close workbook", "error", err)
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return tabular.Table{}, apperrors.NewParseError(Format, apperrors.ErrEmptySpreadsheet, nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return tabular.Table{}, apperrors.NewParseError(Format, apperrors.ErrEmptySpreadsheet, fmt.Errorf("read sheet %q: %w", sheets[0], err))
	}

	var (
		table     tabular.Table
		hasHeader bool
	)

	for _, cells := range rows {
		if tabular.IsBlank(cells) {
			continue
		}

		if !hasHeader {
			table.Headers = tabular.UniqueHeaders(cells)
			hasHeader = true

			continue
		}

		table.Rows = append(table.Rows, tabular.NewRow(table.Headers, cells, false))
	}

	if table.Len() == 0 {
		return tabular.Table{}, apperrors.NewParseError(Format, apperrors.ErrEmptySpreadsheet, nil)
	}

	return table, nil
}
