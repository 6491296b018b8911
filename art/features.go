package art

import (
	"strings"
	"unicode/utf16"
)

// Features are the statistics of the input text that steer painting. Lengths
// and counts are in UTF-16 code units so that the same text always yields the
// same features regardless of how it was encoded.
type Features struct {
	Length  int
	Indent  float64
	Symbols int
	Digits  int
	Upper   int
	Lines   int
}

// The whitespace class matched by \s in a regular expression
func isSpace(u uint16) bool {
	switch u {
	case '\t', '\n', '\v', '\f', '\r', ' ', 0x00a0, 0x1680, 0x2028, 0x2029, 0x202f, 0x205f, 0x3000, 0xfeff:
		return true
	}
	return u >= 0x2000 && u <= 0x200a
}

// The word class matched by \w in a regular expression
func isWord(u uint16) bool {
	return u >= 'a' && u <= 'z' || u >= 'A' && u <= 'Z' || u >= '0' && u <= '9' || u == '_'
}

func leadingSpace(units []uint16) int {
	n := 0
	for _, u := range units {
		if !isSpace(u) {
			break
		}
		n++
	}
	return n
}

// ExtractFeatures computes the Features of code. It is defined for every
// string, including the empty string which has a single empty line.
func ExtractFeatures(code string) Features {
	units := utf16.Encode([]rune(code))

	f := Features{
		Length: len(units),
	}

	for _, u := range units {
		switch {
		case u >= '0' && u <= '9':
			f.Digits++
		case u >= 'A' && u <= 'Z':
			f.Upper++
		}
		if !isWord(u) && !isSpace(u) {
			f.Symbols++
		}
	}

	lines := strings.Split(code, "\n")
	f.Lines = len(lines)

	var indent int
	for _, l := range lines {
		indent += leadingSpace(utf16.Encode([]rune(l)))
	}
	f.Indent = float64(indent) / float64(f.Lines)

	return f
}
