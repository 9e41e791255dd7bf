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

// Charset names reported by NewUTF8Reader.
const (
	UTF8        = "UTF-8"
	UTF16LE     = "UTF-16LE"
	UTF16BE     = "UTF-16BE"
	Windows1252 = "windows-1252"
	ISO8859_9   = "ISO-8859-9"
	ISO8859_15  = "ISO-8859-15"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// heuristic maps chardet results to the decoders we trust for spreadsheet exports.
var heuristic = map[string]struct {
	name string
	enc  encoding.Encoding
}{
	"ISO-8859-1":   {Windows1252, charmap.Windows1252},
	"windows-1252": {Windows1252, charmap.Windows1252},
	"ISO-8859-9":   {ISO8859_9, charmap.ISO8859_9},
	"ISO-8859-15":  {ISO8859_15, charmap.ISO8859_15},
}

// NewUTF8Reader wraps r so it yields UTF-8 and reports the charset it decided on.
//
// Detection order:
//  1. BOM (UTF-8 BOM is stripped; UTF-16 LE/BE is decoded)
//  2. Valid UTF-8 passes through
//  3. chardet heuristics
//  4. Windows-1252, which is what spreadsheet tools emit by default
func NewUTF8Reader(r io.Reader) (io.Reader, string, error) {
	br := bufio.NewReader(r)

	buf, err := br.Peek(4096)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, "", fmt.Errorf("peek: %w", err)
	}

	switch {
	case bytes.HasPrefix(buf, bomUTF8):
		_, _ = br.Discard(len(bomUTF8))
		return br, UTF8, nil
	case bytes.HasPrefix(buf, bomUTF16LE):
		return decode(br, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)), UTF16LE, nil
	case bytes.HasPrefix(buf, bomUTF16BE):
		return decode(br, unicode.UTF16(unicode.BigEndian, unicode.UseBOM)), UTF16BE, nil
	}

	if utf8.Valid(buf) {
		return br, UTF8, nil
	}

	if result, err := chardet.NewTextDetector().DetectBest(buf); err == nil {
		if result.Charset == UTF8 {
			return br, UTF8, nil
		}

		if h, ok := heuristic[result.Charset]; ok {
			return decode(br, h.enc), h.name, nil
		}
	}

	return decode(br, charmap.Windows1252), Windows1252, nil
}

func decode(r io.Reader, enc encoding.Encoding) io.Reader {
	return transform.NewReader(r, enc.NewDecoder())
}
