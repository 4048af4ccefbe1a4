package history

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
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// charsets maps chardet names to decoders for the encodings exports
// realistically arrive in after passing through spreadsheets and mail clients.
var charsets = map[string]encoding.Encoding{
	"ISO-8859-1":   charmap.Windows1252,
	"windows-1252": charmap.Windows1252,
	"ISO-8859-2":   charmap.ISO8859_2,
	"ISO-8859-9":   charmap.ISO8859_9,
	"ISO-8859-15":  charmap.ISO8859_15,
	"UTF-16LE":     unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	"UTF-16BE":     unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
	"UTF-32LE":     utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM),
	"UTF-32BE":     utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM),
}

// wideCharsets are the detections trusted for input containing NUL bytes.
var wideCharsets = map[string]bool{
	"UTF-16LE": true,
	"UTF-16BE": true,
	"UTF-32LE": true,
	"UTF-32BE": true,
}

// newUTF8Reader returns a reader that yields r's content as UTF-8.
// A byte order mark decides first, then NUL-byte layout for BOM-less UTF-16,
// then UTF-8 validity, then chardet.
// Anything undetectable is read as Windows-1252.
func newUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReaderSize(r, 4096)

	buf, err := br.Peek(4096)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("peek: %w", err)
	}

	switch {
	case bytes.HasPrefix(buf, bomUTF8):
		_, _ = br.Discard(len(bomUTF8))
		return br, nil
	case bytes.HasPrefix(buf, bomUTF16LE):
		return transform.NewReader(br, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()), nil
	case bytes.HasPrefix(buf, bomUTF16BE):
		return transform.NewReader(br, unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()), nil
	}

	detector := chardet.NewTextDetector()

	// NUL bytes are valid UTF-8 but never appear in a JSON export, so they
	// mark a wide encoding without a byte order mark.
	if bytes.IndexByte(buf, 0) >= 0 {
		if result, err := detector.DetectBest(buf); err == nil && wideCharsets[result.Charset] {
			return transform.NewReader(br, charsets[result.Charset].NewDecoder()), nil
		}
		if enc, ok := guessUTF16(buf); ok {
			return transform.NewReader(br, enc.NewDecoder()), nil
		}
	}

	if validUTF8Prefix(buf) {
		return br, nil
	}

	if result, err := detector.DetectBest(buf); err == nil {
		if result.Charset == "UTF-8" {
			return br, nil
		}
		if enc, ok := charsets[result.Charset]; ok {
			return transform.NewReader(br, enc.NewDecoder()), nil
		}
	}

	return transform.NewReader(br, charmap.Windows1252.NewDecoder()), nil
}

// validUTF8Prefix reports whether buf is valid UTF-8, tolerating a multi-byte
// sequence cut off by the peek window.
func validUTF8Prefix(buf []byte) bool {
	if utf8.Valid(buf) {
		return true
	}
	for cut := 1; cut < utf8.UTFMax && cut <= len(buf); cut++ {
		if utf8.Valid(buf[:len(buf)-cut]) {
			return !utf8.FullRune(buf[len(buf)-cut:])
		}
	}
	return false
}

// guessUTF16 picks a UTF-16 byte order from where the NUL bytes fall.
// Mostly-ASCII text in UTF-16LE has NULs at odd offsets, UTF-16BE at even ones.
func guessUTF16(buf []byte) (encoding.Encoding, bool) {
	var even, odd int
	for i, b := range buf {
		if b != 0 {
			continue
		}
		if i%2 == 0 {
			even++
		} else {
			odd++
		}
	}
	pairs := len(buf) / 2
	switch {
	case odd*2 >= pairs && even*4 <= odd:
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), true
	case even*2 >= pairs && odd*4 <= even:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), true
	}
	return nil, false
}
