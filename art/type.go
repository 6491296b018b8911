package art

import (
	"fmt"
	"strings"
)

// Type is one of the painting strategies
type Type int

// The art types, in selection order
const (
	Organism Type = iota
	Landscape
	Geometric
	Cosmic
	Circuit
	Mandala
	Abstract
	numTypes
)

var typeNames = [numTypes]string{
	Organism:  "organism",
	Landscape: "landscape",
	Geometric: "geometric",
	Cosmic:    "cosmic",
	Circuit:   "circuit",
	Mandala:   "mandala",
	Abstract:  "abstract",
}

// Types returns every art type in selection order
func Types() []Type {
	t := make([]Type, numTypes)
	for i := range t {
		t[i] = Type(i)
	}
	return t
}

func (t Type) valid() bool {
	return t >= 0 && t < numTypes
}

func (t Type) String() string {
	if !t.valid() {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// ParseType returns the art type with the given name
func ParseType(s string) (Type, error) {
	for i, name := range typeNames {
		if strings.EqualFold(name, s) {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("art: unknown art type %q", s)
}

// Thresholds nudging the selector. Each satisfied threshold adds a distinct
// constant to the hash before it is reduced, which biases heavily structured
// text towards circuit and mandala without forcing it.
const (
	symbolThreshold = 50
	symbolNudge     = 4
	lineThreshold   = 20
	lineNudge       = 5
	lengthThreshold = 500
	lengthNudge     = 2
	indentThreshold = 2
	indentNudge     = 3
)

// Select picks the art type for the given features and hash
func Select(f Features, hash uint32) Type {
	n := uint64(hash)
	if f.Symbols > symbolThreshold {
		n += symbolNudge
	}
	if f.Lines > lineThreshold {
		n += lineNudge
	}
	if f.Length > lengthThreshold {
		n += lengthNudge
	}
	if f.Indent > indentThreshold {
		n += indentNudge
	}
	return Type(n % uint64(numTypes))
}
