/*
Package preview implements a small GIF thumbnail encoder for art cards.

The card is optionally scaled down with nearest neighbor sampling, which keeps
the hard cell edges, and then reduced to a median cut palette. Both steps
rewrite every pixel so the thumbnail never carries an embedded payload; use
PNG for the card itself.
*/
package preview

import (
	"errors"
	"image"
	"image/color"
	"image/gif"
	"io"

	"github.com/ericpauley/go-quantize/quantize"
	"golang.org/x/image/draw"
)

const (
	// DefaultColors is the palette size used when Options.Colors is zero
	DefaultColors = 64
	// MaxColors is the largest palette a GIF can hold
	MaxColors = 256
)

var (
	errBadScale  = errors.New("preview: scale must be between 0 and 1")
	errBadColors = errors.New("preview: colors must be between 2 and 256")
	errEmpty     = errors.New("preview: image is empty")
)

// Options control the thumbnail
type Options struct {
	// Scale is the factor applied to both dimensions, 0 means 1
	Scale float64
	// Colors is the palette size, 0 means DefaultColors
	Colors int
}

func (o *Options) normalize() error {
	if o.Scale == 0 {
		o.Scale = 1
	}
	if o.Colors == 0 {
		o.Colors = DefaultColors
	}
	switch {
	case o.Scale < 0 || o.Scale > 1:
		return errBadScale
	case o.Colors < 2 || o.Colors > MaxColors:
		return errBadColors
	}
	return nil
}

// Size returns the dimensions of the thumbnail for a w by h card. Neither
// dimension drops below one pixel.
func Size(w, h int, scale float64) (int, int) {
	sw, sh := int(float64(w)*scale), int(float64(h)*scale)
	if sw < 1 {
		sw = 1
	}
	if sh < 1 {
		sh = 1
	}
	return sw, sh
}

// Scale returns m resized by scale using nearest neighbor sampling. The result
// always has its top-left corner at (0, 0).
func Scale(m image.Image, scale float64) *image.NRGBA {
	b := m.Bounds()
	w, h := Size(b.Dx(), b.Dy(), scale)
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), m, b, draw.Src, nil)
	return dst
}

// Paletted reduces m to at most n colors
func Paletted(m image.Image, n int) *image.Paletted {
	q := quantize.MedianCutQuantizer{}
	b := m.Bounds()
	pm := image.NewPaletted(b, q.Quantize(make(color.Palette, 0, n), m))
	draw.Draw(pm, b, m, b.Min, draw.Src)
	return pm
}

// Encode writes a GIF thumbnail of m to w
func Encode(w io.Writer, m image.Image, opts Options) error {
	if err := opts.normalize(); err != nil {
		return err
	}
	if m.Bounds().Empty() {
		return errEmpty
	}

	pm := Paletted(Scale(m, opts.Scale), opts.Colors)

	return gif.Encode(w, pm, &gif.Options{NumColors: len(pm.Palette)})
}
