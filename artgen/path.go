package artgen

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrPathSyntax is returned for malformed SVG path data.
var ErrPathSyntax = errors.New("invalid path data")

type Point struct {
	X, Y float64
}

type Op uint8

const (
	OpMoveTo Op = iota
	OpLineTo
	OpCubicTo
	OpClose
)

// Segment is one absolute path command. OpCubicTo uses all three points
// (two controls, then the end point), OpMoveTo and OpLineTo only Pts[0].
type Segment struct {
	Op  Op
	Pts [3]Point
}

type Path []Segment

// Pather receives path commands. *gg.Context satisfies it.
type Pather interface {
	MoveTo(x, y float64)
	LineTo(x, y float64)
	CubicTo(c1x, c1y, c2x, c2y, x, y float64)
	ClosePath()
}

// Replay sends every segment of p to dst.
func (p Path) Replay(dst Pather) {
	for _, s := range p {
		switch s.Op {
		case OpMoveTo:
			dst.MoveTo(s.Pts[0].X, s.Pts[0].Y)
		case OpLineTo:
			dst.LineTo(s.Pts[0].X, s.Pts[0].Y)
		case OpCubicTo:
			dst.CubicTo(s.Pts[0].X, s.Pts[0].Y, s.Pts[1].X, s.Pts[1].Y, s.Pts[2].X, s.Pts[2].Y)
		case OpClose:
			dst.ClosePath()
		}
	}
}

// ParsePath parses SVG path data using the M, L, H, V, C, S and Z commands
// in absolute and relative form. Coordinates in the result are absolute.
func ParsePath(d string) (Path, error) {
	s := &pathScanner{src: d}

	var (
		path      Path
		cmd       byte
		cur       Point
		start     Point
		lastCtrl  Point
		prevCubic bool
	)

	for {
		s.skipSeparators()
		if s.done() {
			break
		}

		if c := s.peek(); isCommand(c) {
			cmd = c
			s.pos++
		} else if cmd == 0 {
			return nil, s.errorf("expected a command, got %q", c)
		}
		if len(path) == 0 && cmd != 'M' && cmd != 'm' {
			return nil, s.errorf("path must start with a move, got %q", cmd)
		}

		rel := cmd >= 'a'
		cubic := false

		switch cmd {
		case 'Z', 'z':
			path = append(path, Segment{Op: OpClose})
			cur = start
			// no implicit repeat after a close
			cmd = 0

		case 'M', 'm':
			p, err := s.point(rel, cur)
			if err != nil {
				return nil, err
			}
			path = append(path, Segment{Op: OpMoveTo, Pts: [3]Point{p}})
			cur, start = p, p
			// further coordinate pairs are implicit line-tos
			if rel {
				cmd = 'l'
			} else {
				cmd = 'L'
			}

		case 'L', 'l':
			p, err := s.point(rel, cur)
			if err != nil {
				return nil, err
			}
			path = append(path, Segment{Op: OpLineTo, Pts: [3]Point{p}})
			cur = p

		case 'H', 'h':
			x, err := s.number()
			if err != nil {
				return nil, err
			}
			if rel {
				x += cur.X
			}
			cur.X = x
			path = append(path, Segment{Op: OpLineTo, Pts: [3]Point{cur}})

		case 'V', 'v':
			y, err := s.number()
			if err != nil {
				return nil, err
			}
			if rel {
				y += cur.Y
			}
			cur.Y = y
			path = append(path, Segment{Op: OpLineTo, Pts: [3]Point{cur}})

		case 'C', 'c':
			var pts [3]Point
			for i := range pts {
				p, err := s.point(rel, cur)
				if err != nil {
					return nil, err
				}
				pts[i] = p
			}
			path = append(path, Segment{Op: OpCubicTo, Pts: pts})
			lastCtrl, cur, cubic = pts[1], pts[2], true

		case 'S', 's':
			c1 := cur
			if prevCubic {
				c1 = Point{2*cur.X - lastCtrl.X, 2*cur.Y - lastCtrl.Y}
			}
			c2, err := s.point(rel, cur)
			if err != nil {
				return nil, err
			}
			p, err := s.point(rel, cur)
			if err != nil {
				return nil, err
			}
			path = append(path, Segment{Op: OpCubicTo, Pts: [3]Point{c1, c2, p}})
			lastCtrl, cur, cubic = c2, p, true

		default:
			return nil, s.errorf("unsupported command %q", cmd)
		}
		prevCubic = cubic
	}

	if len(path) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrPathSyntax)
	}
	return path, nil
}

func isCommand(c byte) bool {
	switch c | 0x20 {
	case 'm', 'l', 'h', 'v', 'c', 's', 'z', 'q', 't', 'a':
		return true
	}
	return false
}

type pathScanner struct {
	src string
	pos int
}

func (s *pathScanner) done() bool { return s.pos >= len(s.src) }

func (s *pathScanner) peek() byte { return s.src[s.pos] }

func (s *pathScanner) errorf(format string, args ...any) error {
	return fmt.Errorf("%w at offset %d: %s", ErrPathSyntax, s.pos, fmt.Sprintf(format, args...))
}

func (s *pathScanner) skipSeparators() {
	for !s.done() {
		switch s.peek() {
		case ' ', '\t', '\n', '\r', '\f', ',':
			s.pos++
		default:
			return
		}
	}
}

func (s *pathScanner) point(rel bool, cur Point) (Point, error) {
	x, err := s.number()
	if err != nil {
		return Point{}, err
	}
	y, err := s.number()
	if err != nil {
		return Point{}, err
	}
	if rel {
		x, y = x+cur.X, y+cur.Y
	}
	return Point{x, y}, nil
}

// number reads one float. Numbers need no separator when the next one
// starts with a sign or a second decimal point, as in "1.5-2" or "0.5.5".
func (s *pathScanner) number() (float64, error) {
	s.skipSeparators()
	begin := s.pos

	if !s.done() && (s.peek() == '+' || s.peek() == '-') {
		s.pos++
	}
	digits := s.digits()
	if !s.done() && s.peek() == '.' {
		s.pos++
		digits += s.digits()
	}
	if digits == 0 {
		s.pos = begin
		if s.done() {
			return 0, s.errorf("unexpected end of data")
		}
		return 0, s.errorf("expected a number, got %q", s.peek())
	}

	if !s.done() && (s.peek() == 'e' || s.peek() == 'E') {
		mark := s.pos
		s.pos++
		if !s.done() && (s.peek() == '+' || s.peek() == '-') {
			s.pos++
		}
		if s.digits() == 0 {
			// not an exponent after all
			s.pos = mark
		}
	}

	v, err := strconv.ParseFloat(s.src[begin:s.pos], 64)
	if err != nil {
		return 0, s.errorf("%v", err)
	}
	return v, nil
}

func (s *pathScanner) digits() int {
	n := 0
	for !s.done() && s.peek() >= '0' && s.peek() <= '9' {
		s.pos++
		n++
	}
	return n
}
