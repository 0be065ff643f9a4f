// Package backup reads full application backups written by the export.
package backup

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/MrJamesThe3rd/ahorros/internal/apperrors"
	"github.com/MrJamesThe3rd/ahorros/internal/state"
)

const Format = "json"

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse checks that the payload has the backup's top-level shape and decodes
// it. The version is not checked here; that is the restore's decision.
func (p *Parser) Parse(payload []byte) (state.Document, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(payload, &top); err != nil {
		return state.Document{}, apperrors.NewParseError(Format, apperrors.ErrInvalidBackupFormat, err)
	}

	checks := []struct {
		key  string
		kind byte
	}{
		{key: "meta", kind: '{'},
		{key: "transactions", kind: '['},
		{key: "goals", kind: '['},
	}

	for _, c := range checks {
		if err := expect(top, c.key, c.kind); err != nil {
			return state.Document{}, apperrors.NewParseError(Format, apperrors.ErrInvalidBackupFormat, err)
		}
	}

	var doc state.Document
	if err := json.Unmarshal(payload, &doc); err != nil {
		return state.Document{}, apperrors.NewParseError(Format, apperrors.ErrInvalidBackupFormat, err)
	}

	return doc.Clone(), nil
}

func expect(top map[string]json.RawMessage, key string, kind byte) error {
	raw, ok := top[key]
	if !ok {
		return fmt.Errorf("missing %q", key)
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != kind {
		want := "an object"
		if kind == '[' {
			want = "a list"
		}

		return fmt.Errorf("%q must be %s", key, want)
	}

	return nil
}
