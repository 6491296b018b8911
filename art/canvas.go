package art

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

// canvas is the shared painting surface handed to every painter
type canvas struct {
	m *image.NRGBA

	// Foreground colors, every palette entry but the last
	colors     []color.NRGBA
	background color.NRGBA

	features Features
	hash     uint32
	seed     float64

	size       int
	cols, rows int
}

func newCanvas(m *image.NRGBA, cfg Config, features Features, hash uint32) *canvas {
	colors := make([]color.NRGBA, len(cfg.Colors))
	for i, c := range cfg.Colors {
		colors[i] = color.NRGBAModel.Convert(c).(color.NRGBA)
	}
	return &canvas{
		m:          m,
		colors:     colors[:len(colors)-1],
		background: colors[len(colors)-1],
		features:   features,
		hash:       hash,
		seed:       float64(hash),
		size:       cfg.PixelSize,
		cols:       cfg.Cols(),
		rows:       cfg.Rows(),
	}
}

func (c *canvas) color(i int) color.NRGBA {
	n := len(c.colors)
	if i %= n; i < 0 {
		i += n
	}
	return c.colors[i]
}

func (c *canvas) empty() bool {
	return c.cols == 0 || c.rows == 0
}

// Center of the cell grid in cell units
func (c *canvas) center() (float64, float64) {
	return float64(c.cols) / 2, float64(c.rows) / 2
}

func (c *canvas) inGrid(x, y int) bool {
	return x >= 0 && x < c.cols && y >= 0 && y < c.rows
}

func (c *canvas) clear() {
	c.fillRect(c.m.Bounds(), c.background)
}

func (c *canvas) fillRect(r image.Rectangle, col color.NRGBA) {
	draw.Draw(c.m, r.Intersect(c.m.Bounds()), &image.Uniform{col}, image.Point{}, draw.Src)
}

// blendRect composites col over r at the given opacity
func (c *canvas) blendRect(r image.Rectangle, col color.NRGBA, opacity float64) {
	col.A = uint8(math.Round(opacity * 0xff))
	draw.Draw(c.m, r.Intersect(c.m.Bounds()), &image.Uniform{col}, image.Point{}, draw.Over)
}

func (c *canvas) cellRect(x, y int) image.Rectangle {
	return image.Rect(x*c.size, y*c.size, (x+1)*c.size, (y+1)*c.size)
}

// fillCell paints a whole cell with foreground color i
func (c *canvas) fillCell(x, y, i int) {
	if !c.inGrid(x, y) {
		return
	}
	c.fillRect(c.cellRect(x, y), c.color(i))
}

// fillInset paints a cell shrunk by inset, a fraction of the cell size, on
// every side. At least one pixel is always painted.
func (c *canvas) fillInset(x, y, i int, inset float64) {
	if !c.inGrid(x, y) {
		return
	}
	off := int(math.Round(float64(c.size) * inset))
	side := c.size - 2*off
	if side < 1 {
		off, side = (c.size-1)/2, 1
	}
	r := c.cellRect(x, y)
	r.Min = r.Min.Add(image.Pt(off, off))
	r.Max = r.Min.Add(image.Pt(side, side))
	c.fillRect(r, c.color(i))
}
