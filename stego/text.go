package stego

import (
	"errors"
	"strconv"
	"unicode/utf16"
	"unicode/utf8"
)

var errNotString = errors.New("stego: code is not a string")

// Text is a string held as UTF-16 code units. XORing code units can produce
// unpaired surrogates which a Go string cannot carry, so the encrypted code
// is kept in this form until it has been decrypted again.
type Text []uint16

// NewText converts s to code units
func NewText(s string) Text {
	return utf16.Encode([]rune(s))
}

// String converts the code units back to a string. Unpaired surrogates
// become U+FFFD.
func (t Text) String() string {
	return string(utf16.Decode(t))
}

// XOR returns t with every code unit XORed with the code unit of key at the
// same position, repeating key as needed. An empty key returns t unchanged.
// Applying XOR twice with the same key is the identity.
func (t Text) XOR(key string) Text {
	k := NewText(key)
	if len(k) == 0 {
		return t
	}
	out := make(Text, len(t))
	for i, u := range t {
		out[i] = u ^ k[i%len(k)]
	}
	return out
}

const hex = "0123456789abcdef"

func appendEscape(b []byte, u uint16) []byte {
	return append(b, '\\', 'u', hex[u>>12], hex[u>>8&0xf], hex[u>>4&0xf], hex[u&0xf])
}

func isHighSurrogate(u uint16) bool {
	return u >= 0xd800 && u < 0xdc00
}

func isLowSurrogate(u uint16) bool {
	return u >= 0xdc00 && u < 0xe000
}

// MarshalJSON encodes t as a JSON string. Valid surrogate pairs are written
// as UTF-8, unpaired surrogates and control characters as \u escapes.
func (t Text) MarshalJSON() ([]byte, error) {
	b := make([]byte, 0, len(t)+2)
	b = append(b, '"')
	for i := 0; i < len(t); i++ {
		u := t[i]
		switch {
		case u == '"' || u == '\\':
			b = append(b, '\\', byte(u))
		case u == '\b':
			b = append(b, '\\', 'b')
		case u == '\f':
			b = append(b, '\\', 'f')
		case u == '\n':
			b = append(b, '\\', 'n')
		case u == '\r':
			b = append(b, '\\', 'r')
		case u == '\t':
			b = append(b, '\\', 't')
		case u < 0x20:
			b = appendEscape(b, u)
		case isHighSurrogate(u) && i+1 < len(t) && isLowSurrogate(t[i+1]):
			b = utf8.AppendRune(b, utf16.DecodeRune(rune(u), rune(t[i+1])))
			i++
		case isHighSurrogate(u) || isLowSurrogate(u):
			b = appendEscape(b, u)
		default:
			b = utf8.AppendRune(b, rune(u))
		}
	}
	return append(b, '"'), nil
}

// UnmarshalJSON decodes a JSON string into code units, keeping any \u
// escaped unpaired surrogates intact
func (t *Text) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return errNotString
	}
	b = b[1 : len(b)-1]

	out := make(Text, 0, len(b))
	for len(b) > 0 {
		c := b[0]
		switch {
		case c == '\\':
			if len(b) < 2 {
				return errNotString
			}
			switch b[1] {
			case '"', '\\', '/':
				out = append(out, uint16(b[1]))
			case 'b':
				out = append(out, '\b')
			case 'f':
				out = append(out, '\f')
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'u':
				if len(b) < 6 {
					return errNotString
				}
				v, err := strconv.ParseUint(string(b[2:6]), 16, 16)
				if err != nil {
					return err
				}
				out = append(out, uint16(v))
				b = b[6:]
				continue
			default:
				return errNotString
			}
			b = b[2:]
		case c < utf8.RuneSelf:
			out = append(out, uint16(c))
			b = b[1:]
		default:
			r, size := utf8.DecodeRune(b)
			out = utf16.AppendRune(out, r)
			b = b[size:]
		}
	}

	*t = out
	return nil
}
