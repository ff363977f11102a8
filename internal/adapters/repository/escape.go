package repository

import (
	"bytes"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"
)

// asciiEscape rewrites encoding/json output to the escaping of the desktop
// tool's writer: '&', '<' and '>' stay literal, while DEL and every
// non-ASCII rune become lowercase \uXXXX escapes (surrogate pairs above the
// BMP). Structure and all other escapes are copied unchanged.
func asciiEscape(data []byte) []byte {
	out := bytes.NewBuffer(make([]byte, 0, len(data)+len(data)/8))
	for i := 0; i < len(data); {
		c := data[i]
		switch {
		case c == '\\' && i+1 < len(data) && data[i+1] == 'u' && i+6 <= len(data):
			switch string(data[i+2 : i+6]) {
			case "0026":
				out.WriteByte('&')
			case "003c":
				out.WriteByte('<')
			case "003e":
				out.WriteByte('>')
			default:
				out.Write(data[i : i+6])
			}
			i += 6
		case c == '\\' && i+1 < len(data):
			out.Write(data[i : i+2])
			i += 2
		case c == 0x7f:
			out.WriteString(`\u007f`)
			i++
		case c < utf8.RuneSelf:
			out.WriteByte(c)
			i++
		default:
			r, size := utf8.DecodeRune(data[i:])
			if r1, r2 := utf16.EncodeRune(r); r1 != utf8.RuneError {
				fmt.Fprintf(out, `\u%04x\u%04x`, r1, r2)
			} else {
				fmt.Fprintf(out, `\u%04x`, r)
			}
			i += size
		}
	}
	return out.Bytes()
}
