package artgen

import "math"

var goldenRatio = (math.Sqrt(5) + 1) / 2

// GoldenSequence yields values in [0, 1) spaced by the golden ratio, so
// consecutive hues derived from it stay far apart.
type GoldenSequence struct {
	cur float64
}

func NewGoldenSequence(seed float64) *GoldenSequence {
	return &GoldenSequence{cur: seed}
}

func (g *GoldenSequence) Next() float64 {
	g.cur = math.Mod(g.cur+goldenRatio, 1)
	return g.cur
}
