package art

import (
	"math"
	"unicode/utf16"
)

// Hash returns the seed for every pseudo-random decision made while painting
// code. It is the classic h*31+c string hash over UTF-16 code units with
// 32-bit wraparound, made non-negative. The result fits in 31 bits except for
// the single case where the accumulator wraps to exactly -1<<31.
func Hash(code string) uint32 {
	var h int32
	for _, u := range utf16.Encode([]rune(code)) {
		h = h<<5 - h + int32(u)
	}
	if h < 0 {
		return uint32(-int64(h))
	}
	return uint32(h)
}

// random is the cheap deterministic generator used by the painters, the
// fractional part of sin(seed)*10000. It returns a value in [0, 1).
func random(seed float64) float64 {
	x := math.Sin(seed) * 10000
	return x - math.Floor(x)
}

// cellRandom returns a random value for a single cell, offset by salt so
// that layers within a painter are independent
func (c *canvas) cellRandom(x, y int, salt float64) float64 {
	return random(c.seed + salt + float64(x)*31 + float64(y)*17)
}
