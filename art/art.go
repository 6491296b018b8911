/*
Package art implements the deterministic pixel-art generator.

The input text is reduced to a small set of Features and a 31-bit Hash. These
select one of seven painting strategies which fill a grid of square cells on
an NRGBA raster. Three passes follow painting: a structural overlay, a
minimum-visibility pass for short or simple inputs, and a small watermark in
the bottom-right corner.

Nothing in the painting path uses a source of true randomness; the same text
and Config always produce the same pixels. Changing only the colors of the
Config changes the colors of the painted cells but never their layout.
*/
package art

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/bodgit/snippix/palette"
)

const (
	// DefaultWidth is the default raster width in pixels
	DefaultWidth = 600
	// DefaultHeight is the default raster height in pixels
	DefaultHeight = 400
	// DefaultPixelSize is the default cell size in pixels
	DefaultPixelSize = 12
)

// ErrInvalidConfig is returned when a Config cannot be painted
var ErrInvalidConfig = errors.New("art: invalid config")

// Config holds the generation parameters. The last color in Colors is the
// background.
type Config struct {
	Width     int
	Height    int
	PixelSize int
	Colors    color.Palette
}

// DefaultConfig returns a 600x400 config with 12 pixel cells painted with the
// default palette
func DefaultConfig() Config {
	cp, err := palette.Default().Parse()
	if err != nil {
		panic(err)
	}
	return Config{
		Width:     DefaultWidth,
		Height:    DefaultHeight,
		PixelSize: DefaultPixelSize,
		Colors:    cp,
	}
}

// Validate checks the config is usable. A zero width or height is allowed
// and results in an empty raster.
func (c Config) Validate() error {
	switch {
	case c.Width < 0 || c.Height < 0:
		return fmt.Errorf("%w: negative dimensions %dx%d", ErrInvalidConfig, c.Width, c.Height)
	case c.PixelSize <= 0:
		return fmt.Errorf("%w: pixel size %d", ErrInvalidConfig, c.PixelSize)
	case len(c.Colors) < palette.MinColors:
		return fmt.Errorf("%w: %d colors", ErrInvalidConfig, len(c.Colors))
	}
	for i, col := range c.Colors {
		if col == nil {
			return fmt.Errorf("%w: color %d is nil", ErrInvalidConfig, i)
		}
	}
	return nil
}

// Cols returns the number of whole cells across the raster
func (c Config) Cols() int {
	return c.Width / c.PixelSize
}

// Rows returns the number of whole cells down the raster
func (c Config) Rows() int {
	return c.Height / c.PixelSize
}

// Art is a finished, painted raster along with the values that determined it
type Art struct {
	Image    *image.NRGBA
	Type     Type
	Features Features
	Hash     uint32
}

// Generate paints code onto a new raster using the art type selected from
// its features and hash
func Generate(code string, cfg Config) (*Art, error) {
	features, hash := ExtractFeatures(code), Hash(code)
	return generate(cfg, features, hash, Select(features, hash))
}

// GenerateType is like Generate but forces the art type
func GenerateType(code string, cfg Config, t Type) (*Art, error) {
	if !t.valid() {
		return nil, fmt.Errorf("%w: unknown art type %d", ErrInvalidConfig, int(t))
	}
	return generate(cfg, ExtractFeatures(code), Hash(code), t)
}

func generate(cfg Config, features Features, hash uint32, t Type) (*Art, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := image.NewNRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))

	c := newCanvas(m, cfg, features, hash)
	c.clear()

	painters[t](c)

	c.overlay()
	c.ensureVisible()
	c.watermark()

	return &Art{
		Image:    m,
		Type:     t,
		Features: features,
		Hash:     hash,
	}, nil
}
