/*
Package palette implements the named color palettes used when painting art
cards.

A palette is an ordered list of at least two colors. The painters choose
foreground colors from every entry but the last; the last entry is always the
background the canvas is cleared to.
*/
package palette

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
)

// MinColors is the smallest usable palette, one foreground and one background
const MinColors = 2

var (
	// ErrInvalidHex is returned when a color is not in #RGB or #RRGGBB form
	ErrInvalidHex = errors.New("palette: invalid hex color")
	// ErrTooFewColors is returned for palettes with less than MinColors entries
	ErrTooFewColors = errors.New("palette: too few colors")
)

// Palette is a named, ordered list of hex colors
type Palette struct {
	Name   string
	Colors []string
}

var palettes = []Palette{
	{Name: "Retro Terminal", Colors: []string{"#b5e853", "#232323", "#282828", "#fff", "#18181b"}},
	{Name: "Vaporwave", Colors: []string{"#ff5eae", "#7c3aed", "#38bdf8", "#fbbf24", "#fff"}},
	{Name: "Neon", Colors: []string{"#0ff", "#f0f", "#ff0", "#fff", "#222"}},
	{Name: "Pastel", Colors: []string{"#ff6f61", "#6b5b95", "#88b04b", "#f7cac9", "#92a8d1"}},
	{Name: "Cyber", Colors: []string{"#f72585", "#b5179e", "#7209b7", "#3a0ca3", "#4361ee", "#4cc9f0"}},
}

const defaultIndex = 4

// All returns a copy of the built-in palettes in display order
func All() []Palette {
	return append(palettes[:0:0], palettes...)
}

// Default returns the palette used when none is selected
func Default() Palette {
	return palettes[defaultIndex]
}

// ByIndex returns the built-in palette at i, or the default if i is out of
// range
func ByIndex(i int) Palette {
	if i < 0 || i >= len(palettes) {
		return Default()
	}
	return palettes[i]
}

// ByName returns the built-in palette with the given name, matched without
// regard to case, or the default if there is no such palette
func ByName(name string) Palette {
	if p, ok := Lookup(name); ok {
		return p
	}
	return Default()
}

// Lookup is like ByName but reports whether the palette exists
func Lookup(name string) (Palette, bool) {
	for _, p := range palettes {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Palette{}, false
}

// Next returns the built-in palette following p, wrapping around at the end.
// Unknown palettes are followed by the first built-in palette.
func Next(p Palette) Palette {
	for i := range palettes {
		if palettes[i].Name == p.Name {
			return palettes[(i+1)%len(palettes)]
		}
	}
	return palettes[0]
}

// Background returns the hex color used as the canvas background
func (p Palette) Background() string {
	if len(p.Colors) == 0 {
		return ""
	}
	return p.Colors[len(p.Colors)-1]
}

// Parse converts the palette into a color.Palette
func (p Palette) Parse() (color.Palette, error) {
	return Parse(p.Colors)
}

// Parse converts a list of hex colors into a color.Palette
func Parse(colors []string) (color.Palette, error) {
	if len(colors) < MinColors {
		return nil, fmt.Errorf("%w: need %d, have %d", ErrTooFewColors, MinColors, len(colors))
	}
	cp := make(color.Palette, len(colors))
	for i, s := range colors {
		c, err := ParseHex(s)
		if err != nil {
			return nil, err
		}
		cp[i] = c
	}
	return cp, nil
}

func unhex(b byte) (byte, bool) {
	switch {
	case '0' <= b && b <= '9':
		return b - '0', true
	case 'a' <= b && b <= 'f':
		return b - 'a' + 10, true
	case 'A' <= b && b <= 'F':
		return b - 'A' + 10, true
	}
	return 0, false
}

// ParseHex converts a #RGB or #RRGGBB string into an opaque color
func ParseHex(s string) (color.NRGBA, error) {
	if len(s) != 4 && len(s) != 7 || s[0] != '#' {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}

	var v [6]byte
	for i := 1; i < len(s); i++ {
		n, ok := unhex(s[i])
		if !ok {
			return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
		}
		v[i-1] = n
	}

	// Short form, F becomes FF
	if len(s) == 4 {
		return color.NRGBA{v[0] * 17, v[1] * 17, v[2] * 17, 0xff}, nil
	}
	return color.NRGBA{v[0]<<4 | v[1], v[2]<<4 | v[3], v[4]<<4 | v[5], 0xff}, nil
}
