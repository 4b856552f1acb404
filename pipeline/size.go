package pipeline

import (
	"fmt"
	"strconv"
	"strings"
)

// Size is a bounding box the pipeline shrinks the source into.
type Size struct {
	Width  int
	Height int
}

// DefaultSizes are the square outputs the logo demo renders.
var DefaultSizes = []Size{{20, 20}, {50, 50}, {100, 100}, {200, 200}}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// UnmarshalText parses "WxH", or a single number for a square.
func (s *Size) UnmarshalText(text []byte) error {
	ws, hs, found := strings.Cut(strings.ToLower(strings.TrimSpace(string(text))), "x")
	if !found {
		hs = ws
	}

	w, err := strconv.Atoi(ws)
	if err != nil {
		return fmt.Errorf("invalid size %q: %w", text, err)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return fmt.Errorf("invalid size %q: %w", text, err)
	}

	s.Width, s.Height = w, h
	return nil
}

func (s Size) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
