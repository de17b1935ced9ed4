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

// sniffSize is how much of an upload is inspected before decoding.
const sniffSize = 4096

type Charset string

const (
	CharsetUTF8        Charset = "UTF-8"
	CharsetUTF16LE     Charset = "UTF-16LE"
	CharsetUTF16BE     Charset = "UTF-16BE"
	CharsetWindows1252 Charset = "windows-1252"
	CharsetLatin1      Charset = "ISO-8859-1"
)

var decoders = map[Charset]encoding.Encoding{
	CharsetUTF16LE:     unicode.UTF16(unicode.LittleEndian, unicode.UseBOM),
	CharsetUTF16BE:     unicode.UTF16(unicode.BigEndian, unicode.UseBOM),
	CharsetWindows1252: charmap.Windows1252,
	CharsetLatin1:      charmap.ISO8859_1,
}

// Decode wraps r so that it yields UTF-8, and reports the charset it found.
// Spreadsheet exports commonly arrive as UTF-8 with a BOM, UTF-16 or a
// single-byte Windows code page.
func Decode(r io.Reader) (io.Reader, Charset, error) {
	br := bufio.NewReaderSize(r, sniffSize)

	head, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, "", fmt.Errorf("sniffing upload: %w", err)
	}

	charset := sniff(head)

	switch {
	case charset == CharsetUTF8:
		if bytes.HasPrefix(head, []byte{0xEF, 0xBB, 0xBF}) {
			_, _ = br.Discard(3)
		}

		return br, charset, nil
	default:
		return transform.NewReader(br, decoders[charset].NewDecoder()), charset, nil
	}
}

// NewUTF8Reader is Decode without the charset.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	out, _, err := Decode(r)
	return out, err
}

func sniff(head []byte) Charset {
	switch {
	case bytes.HasPrefix(head, []byte{0xEF, 0xBB, 0xBF}):
		return CharsetUTF8
	case bytes.HasPrefix(head, []byte{0xFF, 0xFE}):
		return CharsetUTF16LE
	case bytes.HasPrefix(head, []byte{0xFE, 0xFF}):
		return CharsetUTF16BE
	case utf8.Valid(head):
		return CharsetUTF8
	}

	best, err := chardet.NewTextDetector().DetectBest(head)
	if err != nil {
		return CharsetWindows1252
	}

	switch Charset(best.Charset) {
	case CharsetUTF8:
		return CharsetUTF8
	case CharsetLatin1:
		return CharsetLatin1
	default:
		return CharsetWindows1252
	}
}
