package importer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/MrJamesThe3rd/ahorros/internal/apperrors"
	"github.com/MrJamesThe3rd/ahorros/internal/state"
	"github.com/MrJamesThe3rd/ahorros/internal/tabular"
)

type Format string

const (
	FormatBackup      Format = "json"
	FormatDelimited   Format = "csv"
	FormatSpreadsheet Format = "xlsx"
	FormatPasted      Format = "tsv"
)

var Formats = []Format{FormatBackup, FormatDelimited, FormatSpreadsheet, FormatPasted}

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))

	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}

	return "", fmt.Errorf("%w: %q", apperrors.ErrUnknownFormat, s)
}

// FormatFromFilename picks the format from the file extension.
func FormatFromFilename(name string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".json":
		return FormatBackup, nil
	case ".csv", ".txt":
		return FormatDelimited, nil
	case ".xlsx", ".xlsm":
		return FormatSpreadsheet, nil
	case ".tsv", ".tab":
		return FormatPasted, nil
	default:
		return "", fmt.Errorf("%w: %q", apperrors.ErrUnknownFormat, ext)
	}
}

// IsRows reports whether the format yields rows to map, as opposed to a whole
// document to restore.
func (f Format) IsRows() bool {
	return f != FormatBackup
}

// Parsed is the output of a format parser: rows for the tabular formats,
// a document for backups.
type Parsed struct {
	Format   Format
	Table    *tabular.Table
	Document *state.Document
}

// TableParser is implemented by the row-producing format parsers.
type TableParser interface {
	Parse(payload []byte) (tabular.Table, error)
}
