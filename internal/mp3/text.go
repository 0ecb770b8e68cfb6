package mp3

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf16"
)

// ID3v2 text encodings.
const (
	encLatin1  = 0
	encUTF16   = 1 // with BOM
	encUTF16BE = 2
	encUTF8    = 3
)

// decodeText decodes text based on ID3v2 encoding byte
func decodeText(data []byte, encoding byte) string {
	if len(data) == 0 {
		return ""
	}

	switch encoding {
	case encUTF16:
		return decodeUTF16(data)
	case encUTF16BE:
		return decodeUTF16BE(data)
	case encUTF8:
		return string(data)
	default:
		return decodeLatin1(data)
	}
}

// decodeTextFrame decodes the first value of a T*** frame body.
func decodeTextFrame(data []byte) string {
	if len(data) < 1 {
		return ""
	}
	text := decodeText(data[1:], data[0])
	text, _, _ = strings.Cut(text, "\x00")
	return strings.TrimSpace(text)
}

// decodeCommentFrame returns the text of a COMM frame body:
// [encoding][language(3)][short description\0][text]
func decodeCommentFrame(data []byte) string {
	if len(data) < 4 {
		return ""
	}

	encoding := data[0]
	body := data[4:]

	nullIdx := findNullTerminator(body, encoding)
	if nullIdx < 0 {
		return strings.TrimRight(decodeText(body, encoding), "\x00")
	}
	return strings.TrimRight(decodeText(body[nullIdx+terminatorSize(encoding):], encoding), "\x00")
}

// decodeLatin1 maps ISO-8859-1 bytes to their code points.
func decodeLatin1(data []byte) string {
	var sb strings.Builder
	sb.Grow(len(data))
	for _, b := range data {
		sb.WriteRune(rune(b))
	}
	return sb.String()
}

// decodeUTF16 decodes UTF-16 with BOM
func decodeUTF16(data []byte) string {
	if len(data) < 2 {
		return ""
	}

	switch {
	case data[0] == 0xFF && data[1] == 0xFE:
		return decodeUTF16LE(data[2:])
	case data[0] == 0xFE && data[1] == 0xFF:
		return decodeUTF16BE(data[2:])
	}

	// No BOM - assume big-endian
	return decodeUTF16BE(data)
}

func decodeUTF16LE(data []byte) string {
	if len(data)%2 != 0 {
		data = data[:len(data)-1]
	}

	u16 := make([]uint16, len(data)/2)
	for i := range u16 {
		u16[i] = uint16(data[i*2]) | uint16(data[i*2+1])<<8
	}

	return string(utf16.Decode(u16))
}

func decodeUTF16BE(data []byte) string {
	if len(data)%2 != 0 {
		data = data[:len(data)-1]
	}

	u16 := make([]uint16, len(data)/2)
	for i := range u16 {
		u16[i] = uint16(data[i*2])<<8 | uint16(data[i*2+1])
	}

	return string(utf16.Decode(u16))
}

// findNullTerminator finds the null terminator based on encoding
func findNullTerminator(data []byte, encoding byte) int {
	switch encoding {
	case encUTF16, encUTF16BE:
		for i := 0; i < len(data)-1; i += 2 {
			if data[i] == 0 && data[i+1] == 0 {
				return i
			}
		}
		return -1
	default:
		return bytes.IndexByte(data, 0)
	}
}

func terminatorSize(encoding byte) int {
	if encoding == encUTF16 || encoding == encUTF16BE {
		return 2
	}
	return 1
}

// parseYear extracts year from various date formats
func parseYear(text string) int {
	if len(text) >= 4 {
		var year int
		fmt.Sscanf(text[:4], "%d", &year)
		if year >= 1900 && year <= 2100 {
			return year
		}
	}
	return 0
}

// parseTrackNumber parses "N" or "N/Total" format
func parseTrackNumber(text string) (number, total int) {
	parts := strings.Split(text, "/")
	if len(parts) >= 1 {
		fmt.Sscanf(strings.TrimSpace(parts[0]), "%d", &number)
	}
	if len(parts) >= 2 {
		fmt.Sscanf(strings.TrimSpace(parts[1]), "%d", &total)
	}
	return
}
