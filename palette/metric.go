package palette

import (
	"fmt"
	"math"
	"strings"
)

type Metric int

const (
	// Euclidean is the sum of squared channel differences.
	Euclidean Metric = iota
	// Manhattan is the sum of absolute channel differences.
	Manhattan
)

const (
	maxEuclidean = 3 * 255 * 255
	maxManhattan = 3 * 255
)

func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(s) {
	case "", "euclidean":
		return Euclidean, nil
	case "manhattan":
		return Manhattan, nil
	}
	return Euclidean, fmt.Errorf("unknown distance metric: %q", s)
}

func (m Metric) String() string {
	if m == Manhattan {
		return "manhattan"
	}
	return "euclidean"
}

func (m Metric) Distance(r, g, b float64, c RGB) float64 {
	dr := r - float64(c.R)
	dg := g - float64(c.G)
	db := b - float64(c.B)
	if m == Manhattan {
		return math.Abs(dr) + math.Abs(dg) + math.Abs(db)
	}
	return dr*dr + dg*dg + db*db
}

// Normalized maps a distance returned by Distance onto [0, 1], where 1 is
// the distance between black and white.
func (m Metric) Normalized(d float64) float64 {
	if m == Manhattan {
		return d / maxManhattan
	}
	return math.Sqrt(d / maxEuclidean)
}
