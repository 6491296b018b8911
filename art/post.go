package art

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	maxIndentLines = 5
	maxBlockLines  = 4
	maxAccents     = 3
	accentSymbols  = 20
	lineWidth      = 2
)

// overlay draws translucent lines hinting at indentation and block
// structure, and accent squares for symbol-heavy text
func (c *canvas) overlay() {
	if c.empty() {
		return
	}

	w, h := float64(c.m.Rect.Dx()), float64(c.m.Rect.Dy())
	hash := float64(c.hash)
	f := c.features

	if f.Indent > 0 {
		n := int(math.Min(maxIndentLines, math.Floor(f.Indent)))
		for i := 0; i < n; i++ {
			x := int(math.Mod(hash+float64(i*17), w*0.8) + w*0.1)
			c.blendRect(image.Rect(x-lineWidth/2, 0, x+lineWidth/2, c.m.Rect.Dy()), c.color(0), 0.3)
		}
	}

	blocks := f.Lines / 10
	if blocks > maxBlockLines {
		blocks = maxBlockLines
	}
	for i := 0; i < blocks; i++ {
		y := int(math.Mod(hash+float64(i*23), h*0.6) + h*0.2)
		c.blendRect(image.Rect(0, y-lineWidth/2, c.m.Rect.Dx(), y+lineWidth/2), c.color(0), 0.2)
	}

	if f.Symbols > accentSymbols {
		n := f.Symbols / 30
		if n > maxAccents {
			n = maxAccents
		}
		for i := 0; i < n; i++ {
			x := int(math.Mod(hash+float64(i*41), w*0.6) + w*0.2)
			y := int(math.Mod(hash+float64(i*37), h*0.6) + h*0.2)
			size := 20 + i*10
			r := image.Rect(x-size/2, y-size/2, x+size/2, y+size/2)
			c.blendRect(r, c.color(1), 0.4)
		}
	}
}

// sparse reports whether the text is too short or simple to reliably paint
// something visible on its own
func (f Features) sparse() bool {
	return f.Length < 100 || f.Lines < 5 || (f.Symbols < 10 && f.Digits < 5)
}

// ensureVisible paints a central spiral, corner accents and scattered
// texture for sparse text so that no input produces a blank canvas
func (c *canvas) ensureVisible() {
	if c.empty() || !c.features.sparse() {
		return
	}

	h := c.seed
	cx, cy := c.center()

	turns := float64(2 + c.hash%2)
	steps := 24 + c.features.Length
	if steps > 64 {
		steps = 64
	}
	extent := minf(float64(c.cols), float64(c.rows)) * 0.4
	start := random(h) * 2 * math.Pi

	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		a := start + t*turns*2*math.Pi
		r := t * extent
		c.fillCell(int(math.Floor(cx+r*math.Cos(a))), int(math.Floor(cy+r*math.Sin(a))), i)
	}

	corners := [4]image.Point{
		{1, 1},
		{c.cols - 2, 1},
		{1, c.rows - 2},
		{c.cols - 2, c.rows - 2},
	}
	for i, p := range corners {
		c.fillCell(p.X, p.Y, i)
	}

	for y := 0; y < c.rows; y++ {
		for x := 0; x < c.cols; x++ {
			if c.cellRandom(x, y, 500) > 0.96 {
				c.fillInset(x, y, x+y, 0.35)
			}
		}
	}
}

const (
	watermarkText    = "snippix"
	watermarkMargin  = 6
	watermarkPadding = 3
)

var (
	watermarkBox  = color.NRGBA{0x00, 0x00, 0x00, 0x80}
	watermarkInk  = color.NRGBA{0xff, 0xff, 0xff, 0xb3}
	watermarkFace = basicfont.Face7x13
)

// watermark draws the fixed tag on a translucent box in the bottom-right
// corner. Rasters too small to hold it are left alone.
func (c *canvas) watermark() {
	d := &font.Drawer{
		Dst:  c.m,
		Src:  image.NewUniform(watermarkInk),
		Face: watermarkFace,
	}

	metrics := watermarkFace.Metrics()
	w := d.MeasureString(watermarkText).Ceil() + 2*watermarkPadding
	h := metrics.Height.Ceil() + 2*watermarkPadding

	b := c.m.Bounds()
	box := image.Rect(b.Max.X-watermarkMargin-w, b.Max.Y-watermarkMargin-h, b.Max.X-watermarkMargin, b.Max.Y-watermarkMargin)
	if !box.In(b) {
		return
	}

	draw.Draw(c.m, box, image.NewUniform(watermarkBox), image.Point{}, draw.Over)

	d.Dot = fixed.P(box.Min.X+watermarkPadding, box.Min.Y+watermarkPadding+metrics.Ascent.Ceil())
	d.DrawString(watermarkText)
}
