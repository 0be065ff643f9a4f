package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const sniffLen = 4096

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Charset names reported by Detect.
const (
	CharsetUTF8        = "UTF-8"
	CharsetUTF16LE     = "UTF-16LE"
	CharsetUTF16BE     = "UTF-16BE"
	CharsetWindows1252 = "windows-1252"
	CharsetISO8859_9   = "ISO-8859-9"
)

// Detect inspects the leading bytes of an upload and returns the charset
// name, the decoder to apply (nil for UTF-8) and the number of BOM bytes to
// skip.
//
// Detection order:
//  1. BOM (UTF-8 BOM is skipped, UTF-16 LE/BE is decoded)
//  2. valid UTF-8 is returned as-is
//  3. chardet heuristics
//  4. Windows-1252 fallback, which covers spreadsheet exports from Spanish locales
func Detect(buf []byte) (string, *encoding.Decoder, int) {
	switch {
	case bytes.HasPrefix(buf, bomUTF8):
		return CharsetUTF8, nil, len(bomUTF8)
	case bytes.HasPrefix(buf, bomUTF16LE):
		return CharsetUTF16LE, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder(), 0
	case bytes.HasPrefix(buf, bomUTF16BE):
		return CharsetUTF16BE, unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder(), 0
	}

	if utf8.Valid(trimPartialRune(buf)) {
		return CharsetUTF8, nil, 0
	}

	result, err := chardet.NewTextDetector().DetectBest(buf)
	if err == nil {
		switch result.Charset {
		case "UTF-8":
			return CharsetUTF8, nil, 0
		case "ISO-8859-1", "windows-1252":
			return CharsetWindows1252, charmap.Windows1252.NewDecoder(), 0
		case "ISO-8859-9":
			return CharsetISO8859_9, charmap.ISO8859_9.NewDecoder(), 0
		}
	}

	return CharsetWindows1252, charmap.Windows1252.NewDecoder(), 0
}

// NewUTF8Reader detects the encoding of the input and returns a reader
// that decodes the content to UTF-8.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReaderSize(r, sniffLen)

	buf, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("peek: %w", err)
	}

	_, decoder, skip := Detect(buf)
	if skip > 0 {
		_, _ = br.Discard(skip)
	}

	if decoder == nil {
		return br, nil
	}

	return transform.NewReader(br, decoder), nil
}

// DecodeString converts a whole upload to a UTF-8 string.
func DecodeString(b []byte) (string, error) {
	r, err := NewUTF8Reader(bytes.NewReader(b))
	if err != nil {
		return "", err
	}

	out, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}

	return string(out), nil
}

// trimPartialRune drops an incomplete multi-byte sequence cut off by the
// sniff window so a valid UTF-8 file is not mistaken for another charset.
func trimPartialRune(buf []byte) []byte {
	if len(buf) < sniffLen {
		return buf
	}

	for i := 1; i < utf8.UTFMax && i <= len(buf); i++ {
		if utf8.RuneStart(buf[len(buf)-i]) {
			if !utf8.FullRune(buf[len(buf)-i:]) {
				return buf[:len(buf)-i]
			}

			break
		}
	}

	return buf
}
