package extractor

import (
	"bytes"
	"compress/zlib"
	"encoding/hex"
	"io"
	"os"
	"regexp"
	"strings"
	"unicode/utf16"
)

// ExtractPagesRaw is a fallback extractor that scans the raw PDF byte
// stream for text operators, without any PDF object model. It recovers
// text from files the structured library rejects (broken xref tables,
// unusual stream layouts). Font CMap translation is not attempted; output
// from identity-encoded fonts will fail the readability gate and the
// caller moves on to the next method.
func ExtractPagesRaw(filePath string) ([]string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var pages []string
	for _, stream := range contentStreams(data) {
		text := textFromStream(tryInflate(stream))
		if strings.TrimSpace(text) != "" {
			pages = append(pages, text)
		}
	}
	return pages, nil
}

// contentStreams returns every stream...endstream block in the file.
func contentStreams(data []byte) [][]byte {
	var streams [][]byte
	start := []byte("stream")
	end := []byte("endstream")

	offset := 0
	for offset < len(data) {
		idx := bytes.Index(data[offset:], start)
		if idx < 0 {
			break
		}
		from := offset + idx + len(start)
		if from < len(data) && data[from] == '\r' {
			from++
		}
		if from < len(data) && data[from] == '\n' {
			from++
		}

		endIdx := bytes.Index(data[from:], end)
		if endIdx < 0 {
			break
		}
		if endIdx > 0 {
			streams = append(streams, data[from:from+endIdx])
		}
		offset = from + endIdx + len(end)
	}
	return streams
}

// tryInflate zlib-decompresses FlateDecode streams, returning the input
// unchanged when it is not compressed.
func tryInflate(data []byte) []byte {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return data
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return data
	}
	return out
}

var (
	textBlockPattern = regexp.MustCompile(`(?s)BT(.*?)ET`)
	litStringPattern = regexp.MustCompile(`\(((?:\\.|[^\\)])*)\)`)
	hexStringPattern = regexp.MustCompile(`<([0-9A-Fa-f]+)>`)
	showTextPattern  = regexp.MustCompile(`(\((?:\\.|[^\\)])*\)|<[0-9A-Fa-f]+>|\[[^\]]*\])\s*(Tj|TJ|')`)
)

// textFromStream decodes the show-text operators (Tj, TJ, ') inside each
// BT...ET text block. Blocks are separated by newlines so the row
// structure of tabular statements survives.
func textFromStream(data []byte) string {
	blocks := textBlockPattern.FindAllSubmatch(data, -1)
	if len(blocks) == 0 {
		return ""
	}

	var lines []string
	for _, block := range blocks {
		var parts []string
		for _, m := range showTextPattern.FindAllSubmatch(block[1], -1) {
			arg := m[1]
			switch arg[0] {
			case '(':
				if s := decodeLiteral(litStringPattern.FindSubmatch(arg)); s != "" {
					parts = append(parts, s)
				}
			case '<':
				if s := decodeHex(hexStringPattern.FindSubmatch(arg)); s != "" {
					parts = append(parts, s)
				}
			case '[':
				// TJ array: mixed strings and kerning offsets.
				for _, lm := range litStringPattern.FindAllSubmatch(arg, -1) {
					if s := decodeLiteral(lm); s != "" {
						parts = append(parts, s)
					}
				}
				for _, hm := range hexStringPattern.FindAllSubmatch(arg, -1) {
					if s := decodeHex(hm); s != "" {
						parts = append(parts, s)
					}
				}
			}
		}
		if line := strings.TrimSpace(strings.Join(parts, "")); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// decodeLiteral unescapes a PDF literal string: \n \r \t \( \) \\ and
// 3-digit octal codes.
func decodeLiteral(m [][]byte) string {
	if m == nil {
		return ""
	}
	raw := m[1]
	var b strings.Builder
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' || i+1 >= len(raw) {
			b.WriteByte(c)
			continue
		}
		i++
		switch raw[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '(', ')', '\\':
			b.WriteByte(raw[i])
		case '0', '1', '2', '3', '4', '5', '6', '7':
			val := int(raw[i] - '0')
			for n := 0; n < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; n++ {
				i++
				val = val*8 + int(raw[i]-'0')
			}
			b.WriteByte(byte(val))
		default:
			b.WriteByte(raw[i])
		}
	}
	return b.String()
}

// decodeHex decodes a PDF hex string, treating even-length 2-byte groups
// that look like UTF-16BE as such and falling back to Latin-1 bytes.
func decodeHex(m [][]byte) string {
	if m == nil {
		return ""
	}
	h := m[1]
	if len(h)%2 != 0 {
		h = append(h, '0')
	}
	raw, err := hex.DecodeString(string(h))
	if err != nil {
		return ""
	}

	if len(raw)%2 == 0 && len(raw) >= 2 && raw[0] == 0x00 {
		codes := make([]uint16, 0, len(raw)/2)
		for i := 0; i+1 < len(raw); i += 2 {
			codes = append(codes, uint16(raw[i])<<8|uint16(raw[i+1]))
		}
		return string(utf16.Decode(codes))
	}

	var b strings.Builder
	for _, c := range raw {
		b.WriteRune(rune(c))
	}
	return b.String()
}
