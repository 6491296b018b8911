package art

import "math"

// Each painter walks the full cell grid and decides per cell whether to
// paint and with which color from the cell position, the hash and the
// features only. Later layers draw over earlier ones.
var painters = [numTypes]func(*canvas){
	Organism:  paintOrganism,
	Landscape: paintLandscape,
	Geometric: paintGeometric,
	Cosmic:    paintCosmic,
	Circuit:   paintCircuit,
	Mandala:   paintMandala,
	Abstract:  paintAbstract,
}

func minf(a, b float64) float64 {
	return math.Min(a, b)
}

// clampf limits v to at most max, used to stop large inputs dominating
func clampf(v, max float64) float64 {
	return math.Min(v, max)
}

// A blob with a wavy membrane, concentric body rings, a nucleus and cilia
func paintOrganism(c *canvas) {
	h := c.seed
	cx, cy := c.center()
	cx += (random(h) - 0.5) * float64(c.cols) * 0.2
	cy += (random(h+1) - 0.5) * float64(c.rows) * 0.2

	base := minf(float64(c.cols), float64(c.rows)) * (0.25 + 0.1*random(h+2))
	lobes := float64(3 + c.hash%5)
	phase := random(h+3) * 2 * math.Pi
	wobble := 0.15 + clampf(float64(c.features.Symbols), 100)/500

	for y := 0; y < c.rows; y++ {
		for x := 0; x < c.cols; x++ {
			dx, dy := float64(x)+0.5-cx, float64(y)+0.5-cy
			d := math.Hypot(dx, dy)
			r := base * (1 + wobble*math.Sin(math.Atan2(dy, dx)*lobes+phase))

			switch {
			case r <= 0:
			case d < r:
				c.fillCell(x, y, 1+int(d/r*3))
			case d < r+1.5 && c.cellRandom(x, y, 0) > 0.55:
				c.fillCell(x, y, 0)
			}
		}
	}

	// Nucleus, offset towards the hash-chosen side
	nx := cx + math.Cos(phase)*base*0.25
	ny := cy + math.Sin(phase)*base*0.25
	nr := base * 0.3
	for y := 0; y < c.rows; y++ {
		for x := 0; x < c.cols; x++ {
			d := math.Hypot(float64(x)+0.5-nx, float64(y)+0.5-ny)
			if d < nr {
				c.fillCell(x, y, 0)
			}
		}
	}

	// Organelles are drawn shrunk so the body shows around them
	for y := 0; y < c.rows; y++ {
		for x := 0; x < c.cols; x++ {
			d := math.Hypot(float64(x)+0.5-cx, float64(y)+0.5-cy)
			if d < base*0.8 && d > nr && c.cellRandom(x, y, 100) > 0.9 {
				c.fillInset(x, y, 2+c.features.Digits, 0.2)
			}
		}
	}
}

// Rolling hills under a sky with a sun and a few stars
func paintLandscape(c *canvas) {
	h := c.seed
	rows := float64(c.rows)

	horizon := rows * (0.45 + 0.15*random(h))
	f1 := 0.05 + 0.1*random(h+1)
	f2 := 0.15 + 0.2*random(h+2)
	amp := rows * 0.12 * (1 + clampf(float64(c.features.Lines), 50)/50)

	sunX := float64(c.cols) * (0.2 + 0.6*random(h+3))
	sunY := horizon * 0.45
	sunR := 1.5 + minf(float64(c.cols), rows)*0.06

	for y := 0; y < c.rows; y++ {
		fy := float64(y)
		for x := 0; x < c.cols; x++ {
			fx := float64(x)
			ridge := horizon - amp*math.Sin(fx*f1+h) - amp*0.5*math.Sin(fx*f2+h*0.5)
			valley := horizon + rows*0.2 + amp*0.3*math.Sin(fx*f2*1.7+h)

			switch {
			case fy >= valley:
				c.fillCell(x, y, 2)
			case fy >= ridge:
				// Shade the hillside by depth below the ridge
				depth := 0.0
				if span := valley - ridge; span > 0 {
					depth = (fy - ridge) / span
				}
				c.fillCell(x, y, 1+int(depth*2)%2*2)
			case math.Hypot(fx-sunX, fy-sunY) < sunR:
				c.fillCell(x, y, 3)
			case c.cellRandom(x, y, 0) > 0.97:
				c.fillInset(x, y, 0, 0.3)
			}
		}
	}
}

// A flow field of three interfering waves with scattered accents on top
func paintAbstract(c *canvas) {
	h := c.seed
	f1 := 0.08 + random(h)*0.2
	f2 := 0.08 + random(h+1)*0.2
	f3 := 0.03 + random(h+2)*0.1
	symbols := c.features.Symbols

	field := func(x, y int) float64 {
		fx, fy := float64(x), float64(y)
		v := math.Sin(fx*f1+h) + math.Cos(fy*f2+h*0.7) + math.Sin((fx+fy)*f3+h*0.3)
		return (v + 3) / 6
	}

	// Base layer
	for y := 0; y < c.rows; y++ {
		for x := 0; x < c.cols; x++ {
			if n := field(x, y); n > 0.35 {
				c.fillCell(x, y, int(n*10))
			}
		}
	}

	// Mid layer, colored by symbol density
	for y := 0; y < c.rows; y++ {
		for x := 0; x < c.cols; x++ {
			if n := field(x, y); n > 0.5 && c.cellRandom(x, y, 1000) < 0.15 {
				c.fillCell(x, y, int(n*10)*(symbols+1)+x)
			}
		}
	}

	// Accents at 60% of a cell
	for y := 0; y < c.rows; y++ {
		for x := 0; x < c.cols; x++ {
			if c.cellRandom(x, y, 2000) < 0.08 {
				c.fillInset(x, y, 0, 0.2)
			}
		}
	}
}
