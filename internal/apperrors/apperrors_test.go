package apperrors_test

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/ahorros/internal/apperrors"
)

func TestParseError_Is(t *testing.T) {
	err := fmt.Errorf("import: %w", apperrors.NewParseError("csv", apperrors.ErrUnparsableDelimitedText, io.ErrUnexpectedEOF))

	assert.ErrorIs(t, err, apperrors.ErrUnparsableDelimitedText)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.NotErrorIs(t, err, apperrors.ErrEmptySpreadsheet)

	var pe *apperrors.ParseError
	assert.True(t, errors.As(err, &pe))
	assert.Equal(t, "csv", pe.Format)
}

func TestParseError_Message(t *testing.T) {
	err := apperrors.NewParseError("xlsx", apperrors.ErrEmptySpreadsheet, nil)
	assert.Equal(t, "parse xlsx: spreadsheet is empty", err.Error())

	err = apperrors.NewParseError("json", apperrors.ErrInvalidBackupFormat, errors.New("missing goals"))
	assert.Equal(t, "parse json: file is not a valid backup document: missing goals", err.Error())
}
