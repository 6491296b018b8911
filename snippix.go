/*
Package snippix turns source code into pixel-art cards that carry the code
itself hidden in their least significant bits.

A card is painted by the art package and, when requested, the code is then
embedded by the stego package. Embedding is always the final step; nothing
touches the raster afterwards.
*/
package snippix

import (
	"image"
	"image/png"
	"io"
	"io/ioutil"
	"log"
	"time"

	"github.com/bodgit/snippix/art"
	"github.com/bodgit/snippix/stego"
)

// Snippix renders and decodes art cards using a fixed art.Config
type Snippix struct {
	config art.Config
	logger *log.Logger
}

// Card is a rendered art card
type Card struct {
	*art.Art

	// Embedded is true if the code was hidden in Image
	Embedded bool
	// Bits is the number of bits written by the embedding, if any
	Bits int
}

// New returns a Snippix for config. A nil logger discards all output.
func New(config art.Config, logger *log.Logger) (*Snippix, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(ioutil.Discard, "", 0)
	}
	return &Snippix{
		config: config,
		logger: logger,
	}, nil
}

// Config returns the generation parameters
func (s *Snippix) Config() art.Config {
	return s.config
}

// Render paints code and, if opts is non-nil, embeds it into the result. If
// the embedding fails no card is returned.
func (s *Snippix) Render(code string, opts *stego.Options) (*Card, error) {
	a, err := art.Generate(code, s.config)
	if err != nil {
		return nil, err
	}
	return s.finish(code, a, opts)
}

// RenderType is like Render but forces the art type
func (s *Snippix) RenderType(code string, t art.Type, opts *stego.Options) (*Card, error) {
	a, err := art.GenerateType(code, s.config, t)
	if err != nil {
		return nil, err
	}
	return s.finish(code, a, opts)
}

func (s *Snippix) finish(code string, a *art.Art, opts *stego.Options) (*Card, error) {
	s.logger.Printf("Painted %s art for %d code units, hash %d\n", a.Type, a.Features.Length, a.Hash)

	card := &Card{Art: a}
	if opts == nil {
		return card, nil
	}

	// Pin the timestamp so the size we report is the size we write
	o := *opts
	if o.Timestamp.IsZero() {
		o.Timestamp = time.Now()
	}

	need, err := stego.RequiredBits(code, o)
	if err != nil {
		return nil, err
	}
	b := a.Image.Bounds()
	s.logger.Printf("Embedding %d bits into %d available\n", need, stego.Capacity(b.Dx(), b.Dy()))

	if err := stego.Embed(a.Image, code, o); err != nil {
		return nil, err
	}

	card.Embedded = true
	card.Bits = need

	return card, nil
}

// WritePNG writes the card losslessly to w
func (c *Card) WritePNG(w io.Writer) error {
	return png.Encode(w, c.Image)
}

// Decode recovers the code hidden in m
func (s *Snippix) Decode(m image.Image, key string) stego.Result {
	result := stego.Decode(m, key)
	if result.Err != nil {
		s.logger.Printf("Decode failed: %v\n", result.Err)
	} else {
		s.logger.Printf("Decoded %d bytes of code\n", len(result.Code))
	}
	return result
}

// DecodeReader reads an image from r and recovers the code hidden in it.
// The caller must register the image formats it expects to read.
func (s *Snippix) DecodeReader(r io.Reader, key string) stego.Result {
	m, format, err := image.Decode(r)
	if err != nil {
		return stego.Result{Err: err, Method: stego.Method}
	}
	s.logger.Printf("Read %s image %v\n", format, m.Bounds())
	return s.Decode(m, key)
}

// Detect reports whether m appears to carry embedded code
func (s *Snippix) Detect(m image.Image) bool {
	return stego.Detect(m)
}
