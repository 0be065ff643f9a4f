// Package mapping projects heterogeneous import rows onto the fixed set of
// transaction fields, driven by a user-chosen column assignment.
package mapping

import (
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/ahorros/internal/apperrors"
	"github.com/MrJamesThe3rd/ahorros/internal/tabular"
)

type Field string

const (
	FieldName       Field = "name"
	FieldAmount     Field = "amount"
	FieldCategory   Field = "category"
	FieldType       Field = "type"
	FieldRecurrence Field = "recurrence"
	FieldDate       Field = "date"
)

// Fields lists every mappable field in display order.
var Fields = []Field{FieldName, FieldAmount, FieldCategory, FieldType, FieldRecurrence, FieldDate}

// Ignored marks a field that takes no column. An empty string means the same.
const Ignored = "ignored"

func (f Field) Required() bool {
	return f == FieldName || f == FieldAmount
}

// Label is the human readable field name shown in the mapping step.
func (f Field) Label() string {
	switch f {
	case FieldName:
		return "Nombre"
	case FieldAmount:
		return "Monto"
	case FieldCategory:
		return "Categoría"
	case FieldType:
		return "Tipo"
	case FieldRecurrence:
		return "Recurrencia"
	case FieldDate:
		return "Fecha"
	}

	return string(f)
}

func ParseField(s string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(s)))

	for _, known := range Fields {
		if f == known {
			return f, nil
		}
	}

	return "", fmt.Errorf("%w: unknown field %q", apperrors.ErrValidation, s)
}

// Mapping assigns a source column header to each field.
type Mapping map[Field]string

// Column returns the header mapped to f, or "" when f is ignored.
func (m Mapping) Column(f Field) string {
	c := strings.TrimSpace(m[f])
	if c == Ignored {
		return ""
	}

	return c
}

// Validate only checks that the required fields have a column. Columns that
// do not exist in the table are not an error; they read as empty cells.
func Validate(m Mapping) error {
	var missing []string

	for _, f := range Fields {
		if f.Required() && m.Column(f) == "" {
			missing = append(missing, string(f))
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrMissingRequiredMapping, strings.Join(missing, ", "))
	}

	return nil
}

// Candidate is a mapped row before normalization. Every field is raw text;
// unmapped or missing fields are "".
type Candidate struct {
	Name       string `json:"name"`
	Amount     string `json:"amount"`
	Category   string `json:"category"`
	Type       string `json:"type"`
	Recurrence string `json:"recurrence"`
	Date       string `json:"date"`
}

// Map produces one candidate per row, in table order.
func Map(table tabular.Table, m Mapping) []Candidate {
	return mapRows(table.Rows, m)
}

// Preview maps at most n rows from the top of the table.
func Preview(table tabular.Table, m Mapping, n int) []Candidate {
	return mapRows(table.Sample(n), m)
}

func mapRows(rows []tabular.Row, m Mapping) []Candidate {
	out := make([]Candidate, 0, len(rows))

	for _, row := range rows {
		out = append(out, mapRow(row, m))
	}

	return out
}

func mapRow(row tabular.Row, m Mapping) Candidate {
	cell := func(f Field) string {
		col := m.Column(f)
		if col == "" {
			return ""
		}

		return row.Get(col)
	}

	return Candidate{
		Name:       cell(FieldName),
		Amount:     cell(FieldAmount),
		Category:   cell(FieldCategory),
		Type:       cell(FieldType),
		Recurrence: cell(FieldRecurrence),
		Date:       cell(FieldDate),
	}
}

// Guess proposes a mapping by matching headers against common column names
// in Spanish and English. Fields without a match are left out.
func Guess(headers []string) Mapping {
	m := make(Mapping)

	for _, f := range Fields {
		for _, h := range headers {
			if _, taken := findValue(m, h); taken {
				continue
			}

			if matchesHint(f, h) {
				m[f] = h
				break
			}
		}
	}

	return m
}

var hints = map[Field][]string{
	FieldName:       {"nombre", "name", "concepto", "descripcion", "descripción", "description"},
	FieldAmount:     {"monto", "amount", "importe", "cantidad", "valor"},
	FieldCategory:   {"categoria", "categoría", "category"},
	FieldType:       {"tipo", "type"},
	FieldRecurrence: {"recurrencia", "recurrence", "frecuencia"},
	FieldDate:       {"fecha", "date"},
}

func matchesHint(f Field, header string) bool {
	h := strings.ToLower(strings.TrimSpace(header))

	for _, hint := range hints[f] {
		if h == hint {
			return true
		}
	}

	return false
}

func findValue(m Mapping, header string) (Field, bool) {
	for f, h := range m {
		if h == header {
			return f, true
		}
	}

	return "", false
}
