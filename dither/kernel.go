package dither

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrInvalidKernel is returned when a diffusion kernel would push error onto
// pixels that were already visited, or has no usable weight.
var ErrInvalidKernel = errors.New("invalid kernel")

// Tap sends Weight of a pixel's quantization error to the pixel Row rows
// below and Col columns to the right of it.
type Tap struct {
	Row    int
	Col    int
	Weight float64
}

type Kernel struct {
	name string
	taps []Tap
}

// NewKernel divides every tap weight by divisor, or by the sum of the
// weights when divisor <= 0. Taps must be causal in left-to-right raster
// order: on a later row, or on the same row further right.
func NewKernel(name string, divisor float64, taps ...Tap) (*Kernel, error) {
	if len(taps) == 0 {
		return nil, fmt.Errorf("%w: %s has no taps", ErrInvalidKernel, name)
	}

	var sum float64
	for _, t := range taps {
		if t.Weight < 0 {
			return nil, fmt.Errorf("%w: %s has negative weight at (%d,%d)", ErrInvalidKernel, name, t.Row, t.Col)
		}
		if t.Row < 0 || (t.Row == 0 && t.Col <= 0) {
			return nil, fmt.Errorf("%w: %s tap (%d,%d) is not ahead of the scan", ErrInvalidKernel, name, t.Row, t.Col)
		}
		sum += t.Weight
	}
	if sum <= 0 {
		return nil, fmt.Errorf("%w: %s weights sum to %v", ErrInvalidKernel, name, sum)
	}
	if divisor <= 0 {
		divisor = sum
	}
	if sum/divisor > 1+1e-9 {
		return nil, fmt.Errorf("%w: %s spreads %v of the error", ErrInvalidKernel, name, sum/divisor)
	}

	k := &Kernel{name: name, taps: make([]Tap, len(taps))}
	for i, t := range taps {
		t.Weight /= divisor
		k.taps[i] = t
	}
	return k, nil
}

func (k *Kernel) Name() string {
	return k.name
}

func (k *Kernel) Taps() []Tap {
	return slices.Clone(k.taps)
}

// Spread is the fraction of a pixel's error the kernel hands on.
func (k *Kernel) Spread() float64 {
	var sum float64
	for _, t := range k.taps {
		sum += t.Weight
	}
	return sum
}

var kernels = map[string]*Kernel{
	"floydsteinberg": mustKernel("FloydSteinberg", 16,
		Tap{0, 1, 7},
		Tap{1, -1, 3}, Tap{1, 0, 5}, Tap{1, 1, 1},
	),
	"falsefloydsteinberg": mustKernel("FalseFloydSteinberg", 8,
		Tap{0, 1, 3},
		Tap{1, 0, 3}, Tap{1, 1, 2},
	),
	"stucki": mustKernel("Stucki", 42,
		Tap{0, 1, 8}, Tap{0, 2, 4},
		Tap{1, -2, 2}, Tap{1, -1, 4}, Tap{1, 0, 8}, Tap{1, 1, 4}, Tap{1, 2, 2},
		Tap{2, -2, 1}, Tap{2, -1, 2}, Tap{2, 0, 4}, Tap{2, 1, 2}, Tap{2, 2, 1},
	),
	// Atkinson hands on only 6/8 of the error.
	"atkinson": mustKernel("Atkinson", 8,
		Tap{0, 1, 1}, Tap{0, 2, 1},
		Tap{1, -1, 1}, Tap{1, 0, 1}, Tap{1, 1, 1},
		Tap{2, 0, 1},
	),
	"jarvis": mustKernel("Jarvis", 48,
		Tap{0, 1, 7}, Tap{0, 2, 5},
		Tap{1, -2, 3}, Tap{1, -1, 5}, Tap{1, 0, 7}, Tap{1, 1, 5}, Tap{1, 2, 3},
		Tap{2, -2, 1}, Tap{2, -1, 3}, Tap{2, 0, 5}, Tap{2, 1, 3}, Tap{2, 2, 1},
	),
	"burkes": mustKernel("Burkes", 32,
		Tap{0, 1, 8}, Tap{0, 2, 4},
		Tap{1, -2, 2}, Tap{1, -1, 4}, Tap{1, 0, 8}, Tap{1, 1, 4}, Tap{1, 2, 2},
	),
	"sierra": mustKernel("Sierra", 32,
		Tap{0, 1, 5}, Tap{0, 2, 3},
		Tap{1, -2, 2}, Tap{1, -1, 4}, Tap{1, 0, 5}, Tap{1, 1, 4}, Tap{1, 2, 2},
		Tap{2, -1, 2}, Tap{2, 0, 3}, Tap{2, 1, 2},
	),
	"twosierra": mustKernel("TwoSierra", 16,
		Tap{0, 1, 4}, Tap{0, 2, 3},
		Tap{1, -2, 1}, Tap{1, -1, 2}, Tap{1, 0, 3}, Tap{1, 1, 2}, Tap{1, 2, 1},
	),
	"sierralite": mustKernel("SierraLite", 4,
		Tap{0, 1, 2},
		Tap{1, -1, 1}, Tap{1, 0, 1},
	),
}

func mustKernel(name string, divisor float64, taps ...Tap) *Kernel {
	k, err := NewKernel(name, divisor, taps...)
	if err != nil {
		panic(err)
	}
	return k
}

// FloydSteinberg is the default kernel.
var FloydSteinberg = kernels["floydsteinberg"]

// KernelNames lists the preset kernel names.
func KernelNames() []string {
	names := make([]string, 0, len(kernels))
	for _, k := range kernels {
		names = append(names, k.name)
	}
	slices.Sort(names)
	return names
}

// LookupKernel finds a preset kernel by case-insensitive name.
func LookupKernel(name string) (*Kernel, error) {
	if name == "" {
		return FloydSteinberg, nil
	}
	k, ok := kernels[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: unknown kernel %q, expected one of %s",
			ErrInvalidKernel, name, strings.Join(KernelNames(), ", "))
	}
	return k, nil
}
