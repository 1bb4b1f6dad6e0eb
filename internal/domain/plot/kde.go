package plot

import "math"

// PeakCutoff drops density cells below this fraction of the peak.
const PeakCutoff = 0.05

// Cell is one evaluated density grid cell, centred at (X, Y).
type Cell struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Value float64 `json:"value"`
}

// Density is a gridded kernel density estimate over the field.
type Density struct {
	Step      float64 `json:"step"`
	Bandwidth float64 `json:"bandwidth"`
	Peak      float64 `json:"peak"`
	Cells     []Cell  `json:"cells"`
}

// Estimate evaluates a Gaussian KDE of pts on a grid of the given step.
// The kernel covariance is the sample covariance scaled by Scott's factor
// n^(-1/6) times bandwidth. Fewer than two points or a degenerate covariance
// give an empty surface.
func Estimate(pts []Point, bandwidth, step float64) *Density {
	d := &Density{Step: step, Bandwidth: bandwidth}
	n := len(pts)
	if n < 2 || step <= 0 || bandwidth <= 0 {
		return d
	}

	var mx, my float64
	for _, p := range pts {
		mx += p.X
		my += p.Y
	}
	mx /= float64(n)
	my /= float64(n)
	var sxx, syy, sxy float64
	for _, p := range pts {
		dx, dy := p.X-mx, p.Y-my
		sxx += dx * dx
		syy += dy * dy
		sxy += dx * dy
	}
	den := float64(n - 1)
	sxx, syy, sxy = sxx/den, syy/den, sxy/den

	f := math.Pow(float64(n), -1.0/6) * bandwidth
	f2 := f * f
	a, b, c := sxx*f2, sxy*f2, syy*f2
	det := a*c - b*b
	if det <= 1e-12 || math.IsNaN(det) {
		return d
	}
	// Inverse of [[a b] [b c]].
	ia, ib, ic := c/det, -b/det, a/det
	norm := 1 / (float64(n) * 2 * math.Pi * math.Sqrt(det))

	var cells []Cell
	for x := step / 2; x < FieldLength; x += step {
		for y := step / 2; y < FieldWidth; y += step {
			var sum float64
			for _, p := range pts {
				dx, dy := x-p.X, y-p.Y
				sum += math.Exp(-0.5 * (ia*dx*dx + 2*ib*dx*dy + ic*dy*dy))
			}
			v := sum * norm
			if v > d.Peak {
				d.Peak = v
			}
			cells = append(cells, Cell{X: x, Y: y, Value: v})
		}
	}

	cut := d.Peak * PeakCutoff
	for _, cell := range cells {
		if cell.Value >= cut && cell.Value > 0 {
			d.Cells = append(d.Cells, cell)
		}
	}
	return d
}
