package lefparser

import (
	"fmt"
	"strconv"
)

// requireArg returns the token at index i, or a SyntaxError describing
// the expected statement shape when the line is too short.
func requireArg(line Line, i int, expected string) (string, error) {
	if len(line.Tokens) <= i {
		return "", &SyntaxError{
			ParseError: ParseError{Pos: line.Pos},
			Expected:   expected,
			Got:        line.Raw,
		}
	}
	return line.Tokens[i], nil
}

// parsePoint parses "ORIGIN <x> <y>".
func parsePoint(line Line) (Point, error) {
	if len(line.Tokens) < 3 {
		return Point{}, &SyntaxError{
			ParseError: ParseError{Pos: line.Pos},
			Expected:   "ORIGIN <x> <y>",
			Got:        line.Raw,
		}
	}
	x, err := parseFloat(line, 1)
	if err != nil {
		return Point{}, err
	}
	y, err := parseFloat(line, 2)
	if err != nil {
		return Point{}, err
	}
	return Point{X: x, Y: y}, nil
}

// parseSize parses "SIZE <width> BY <height>". The literal BY at index 2
// is skipped without validation.
func parseSize(line Line) (Size, error) {
	if len(line.Tokens) < 4 {
		return Size{}, &SyntaxError{
			ParseError: ParseError{Pos: line.Pos},
			Expected:   "SIZE <width> BY <height>",
			Got:        line.Raw,
		}
	}
	w, err := parseFloat(line, 1)
	if err != nil {
		return Size{}, err
	}
	h, err := parseFloat(line, 3)
	if err != nil {
		return Size{}, err
	}
	return Size{Width: w, Height: h}, nil
}

// parseRect parses "RECT <x0> <y0> <x1> <y1>", keeping the coordinates
// as raw strings.
func parseRect(line Line) (RectGeometry, error) {
	if len(line.Tokens) < 5 {
		return RectGeometry{}, &SyntaxError{
			ParseError: ParseError{Pos: line.Pos},
			Expected:   "RECT <x0> <y0> <x1> <y1>",
			Got:        line.Raw,
		}
	}
	t := line.Tokens
	return RectGeometry{X0: t[1], Y0: t[2], X1: t[3], Y1: t[4]}, nil
}

// parseFloat converts the token at index i to a float64, reporting a
// NumberError on malformed literals.
func parseFloat(line Line, i int) (float64, error) {
	lit := line.Tokens[i]
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return 0, &NumberError{ParseError{
			Message: fmt.Sprintf("invalid numeric literal %q in %q", lit, line.Raw),
			Pos:     line.Pos,
			Cause:   err,
		}}
	}
	return f, nil
}
