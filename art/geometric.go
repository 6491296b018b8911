package art

import (
	"image"
	"math"
)

// Concentric bands of diamonds, squares or circles with a checker accent
func paintGeometric(c *canvas) {
	cx, cy := c.center()
	band := 2 + int(c.hash%3)
	shape := c.hash / 3 % 3
	step := 4 + c.features.Digits%4

	for y := 0; y < c.rows; y++ {
		for x := 0; x < c.cols; x++ {
			dx := math.Abs(float64(x) + 0.5 - cx)
			dy := math.Abs(float64(y) + 0.5 - cy)

			var d float64
			switch shape {
			case 0:
				d = dx + dy
			case 1:
				d = math.Max(dx, dy)
			default:
				d = math.Hypot(dx, dy)
			}

			ring := int(d) / band
			if ring%2 == 0 {
				c.fillCell(x, y, ring/2)
			}
			if (x+y)%step == 0 && c.cellRandom(x, y, 0) > 0.7 {
				c.fillInset(x, y, ring+1, 0.25)
			}
		}
	}
}

// A starfield behind a spiral galaxy and a handful of planets
func paintCosmic(c *canvas) {
	h := c.seed
	cx, cy := c.center()
	arms := float64(2 + c.hash%3)
	twist := 0.4 + random(h+5)*0.6
	extent := minf(float64(c.cols), float64(c.rows)) * 0.45

	for y := 0; y < c.rows; y++ {
		for x := 0; x < c.cols; x++ {
			if r := c.cellRandom(x, y, 0); r > 0.92 {
				c.fillInset(x, y, int(r*100), 0.25)
			}
		}
	}

	for y := 0; y < c.rows; y++ {
		for x := 0; x < c.cols; x++ {
			dx, dy := float64(x)+0.5-cx, float64(y)+0.5-cy
			d := math.Hypot(dx, dy)
			switch {
			case d < 2:
				c.fillCell(x, y, 0)
			case d < extent:
				spiral := math.Sin(math.Atan2(dy, dx)*arms - math.Log(d+1)*twist*4 + h)
				if spiral > 0.6 {
					c.fillCell(x, y, int(d)%3)
				}
			}
		}
	}

	planets := 1 + c.features.Upper%3
	for i := 0; i < planets; i++ {
		s := h + float64(i)*101
		px := random(s) * float64(c.cols)
		py := random(s+1) * float64(c.rows)
		pr := 1 + random(s+2)*2
		for y := int(py - pr); y <= int(py+pr); y++ {
			for x := int(px - pr); x <= int(px+pr); x++ {
				if math.Hypot(float64(x)+0.5-px, float64(y)+0.5-py) < pr {
					c.fillCell(x, y, 1+i)
				}
			}
		}
	}
}

// Horizontal and vertical traces on a grid with pads at the junctions and a
// few chips
func paintCircuit(c *canvas) {
	h := c.seed
	step := 3 + int(c.hash%3)

	horizontal := func(y int) bool {
		return y%step == 0 && random(h+float64(y)*3.1) > 0.35
	}
	vertical := func(x int) bool {
		return x%step == 0 && random(h+float64(x)*7.3) > 0.5
	}

	for y := 0; y < c.rows; y++ {
		for x := 0; x < c.cols; x++ {
			ht, vt := horizontal(y), vertical(x)
			switch {
			case ht && vt:
				if c.cellRandom(x, y, 0) > 0.4 {
					c.fillCell(x, y, 0)
				}
			case ht:
				// Traces break up per grid segment
				if random(h+float64(y)*131+float64(x/step)) > 0.2 {
					c.fillCell(x, y, 1)
				}
			case vt:
				if random(h+float64(x)*137+float64(y/step)) > 0.25 {
					c.fillCell(x, y, 2)
				}
			}
		}
	}

	chips := 1 + c.features.Symbols/40
	if chips > 4 {
		chips = 4
	}
	for i := 0; i < chips; i++ {
		r := c.chip(h + float64(i)*53)
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				c.fillCell(x, y, 3)
			}
		}
		// Pins along the top and bottom edges
		for x := r.Min.X; x < r.Max.X; x++ {
			if r.Min.Y > 0 {
				c.fillInset(x, r.Min.Y-1, 0, 0.3)
			}
			c.fillInset(x, r.Max.Y, 0, 0.3)
		}
	}
}

// Rings of petals folded into a number of mirrored segments
func paintMandala(c *canvas) {
	h := c.seed
	cx, cy := c.center()
	segments := float64(6 + 2*(c.hash%4))
	segment := 2 * math.Pi / segments
	freq := 0.5 + random(h)*0.8
	extent := minf(float64(c.cols), float64(c.rows)) / 2

	for y := 0; y < c.rows; y++ {
		for x := 0; x < c.cols; x++ {
			dx, dy := float64(x)+0.5-cx, float64(y)+0.5-cy
			d := math.Hypot(dx, dy)
			if d > extent {
				continue
			}
			if d < 1.5 {
				c.fillCell(x, y, 0)
				continue
			}

			a := math.Mod(math.Atan2(dy, dx)+2*math.Pi, segment)
			if a > segment/2 {
				a = segment - a
			}

			v := math.Sin(d*freq+h) + math.Cos(a*segments*2+d*0.3)
			if v > 0.3 {
				c.fillCell(x, y, int(d/2))
			}
		}
	}
}

// chip returns the cells covered by the chip seeded by s. The origin is
// never negative, even on grids smaller than the chip.
func (c *canvas) chip(s float64) image.Rectangle {
	w := 3 + int(random(s)*4)
	ht := 2 + int(random(s+1)*3)
	x0 := max(0, int(random(s+2)*float64(c.cols-w)))
	y0 := max(0, int(random(s+3)*float64(c.rows-ht)))
	return image.Rect(x0, y0, x0+w, y0+ht)
}
