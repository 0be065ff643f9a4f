package encoding_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/MrJamesThe3rd/ahorros/internal/encoding"
)

func TestNewUTF8Reader_UTF8Passthrough(t *testing.T) {
	input := "Concepto,Monto,Categoría\nRenta,-8500,Vivienda\nNómina,25000,Trabajo\n"
	r, err := encoding.NewUTF8Reader(bytes.NewReader([]byte(input)))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, input, string(got))
}

func TestNewUTF8Reader_Latin1(t *testing.T) {
	latin1, err := charmap.Windows1252.NewEncoder().String("Categoría;Alimentación\n")
	require.NoError(t, err)

	r, err := encoding.NewUTF8Reader(strings.NewReader(latin1))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Categoría;Alimentación\n", string(got))
}

func TestNewUTF8Reader_UTF8BOM(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Concepto,Monto\n")...)

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Concepto,Monto\n", string(got))
}

func TestDecodeString_UTF16LE(t *testing.T) {
	encoded, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String("Concepto\tMonto\n")
	require.NoError(t, err)

	got, err := encoding.DecodeString([]byte(encoded))
	require.NoError(t, err)
	assert.Equal(t, "Concepto\tMonto\n", got)
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		input   []byte
		charset string
		skip    int
	}{
		{name: "plain ascii", input: []byte("a,b\n1,2\n"), charset: encoding.CharsetUTF8},
		{name: "utf8 bom", input: []byte{0xEF, 0xBB, 0xBF, 'a'}, charset: encoding.CharsetUTF8, skip: 3},
		{name: "utf16 le bom", input: []byte{0xFF, 0xFE, 'a', 0}, charset: encoding.CharsetUTF16LE},
		{name: "utf16 be bom", input: []byte{0xFE, 0xFF, 0, 'a'}, charset: encoding.CharsetUTF16BE},
		{name: "empty", input: nil, charset: encoding.CharsetUTF8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			charset, _, skip := encoding.Detect(tt.input)
			assert.Equal(t, tt.charset, charset)
			assert.Equal(t, tt.skip, skip)
		})
	}
}

func TestNewUTF8Reader_LongUTF8(t *testing.T) {
	// Multi-byte runes straddling the sniff window must not trigger a charset fallback.
	input := strings.Repeat("ñ", 5000)

	got, err := encoding.DecodeString([]byte(input))
	require.NoError(t, err)
	assert.Equal(t, input, got)
}
