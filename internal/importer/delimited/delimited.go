// Package delimited reads CSV-like exports into row records.
package delimited

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/MrJamesThe3rd/ahorros/internal/apperrors"
	enc "github.com/MrJamesThe3rd/ahorros/internal/encoding"
	"github.com/MrJamesThe3rd/ahorros/internal/tabular"
)

const Format = "csv"

// Delimiters tried when none is configured, in order of preference on ties.
var Delimiters = []rune{',', ';', '\t', '|'}

// Parser reads delimited text whose first non-empty row holds the column
// names. Rows the tokenizer cannot read are skipped; the parse only fails
// when nothing could be read at all.
type Parser struct {
	// Delimiter is detected from the header line when zero.
	Delimiter rune
	// LazyQuotes tolerates stray quotes instead of reporting the row.
	LazyQuotes bool
}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(payload []byte) (tabular.Table, error) {
	text, err := enc.DecodeString(payload)
	if err != nil {
		return tabular.Table{}, fmt.Errorf("detect encoding: %w", err)
	}

	delim := p.Delimiter
	if delim == 0 {
		delim = DetectDelimiter(text)
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = p.LazyQuotes

	var (
		table     tabular.Table
		errs      []error
		hasHeader bool
	)

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			var perr *csv.ParseError
			if !errors.As(err, &perr) {
				return tabular.Table{}, fmt.Errorf("read csv: %w", err)
			}

			errs = append(errs, err)

			continue
		}

		if tabular.IsBlank(record) {
			continue
		}

		if !hasHeader {
			table.Headers = tabular.UniqueHeaders(record)
			hasHeader = true

			continue
		}

		table.Rows = append(table.Rows, tabular.NewRow(table.Headers, record, true))
	}

	if len(errs) > 0 {
		if table.Len() == 0 {
			return tabular.Table{}, apperrors.NewParseError(Format, apperrors.ErrUnparsableDelimitedText, errors.Join(errs...))
		}

		slog.Warn("skipped unreadable csv rows", "count", len(errs), "kept", table.Len(), "first_error", errs[0])
	}

	return table, nil
}

// DetectDelimiter picks the candidate that occurs most often, outside
// quotes, on the first non-empty line. Comma wins when none occurs.
func DetectDelimiter(text string) rune {
	line := firstLine(text)

	best, bestCount := Delimiters[0], 0

	for _, d := range Delimiters {
		if n := countUnquoted(line, d); n > bestCount {
			best, bestCount = d, n
		}
	}

	return best
}

func firstLine(text string) string {
	for line := range strings.Lines(text) {
		if strings.TrimSpace(line) != "" {
			return line
		}
	}

	return ""
}

func countUnquoted(line string, d rune) int {
	n, quoted := 0, false

	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
		case r == d && !quoted:
			n++
		}
	}

	return n
}
