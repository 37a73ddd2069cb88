package lefparser

import "fmt"

// ParseError is the base error type for all lefparser errors.
type ParseError struct {
	Message string
	Pos     Position
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Pos.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Pos.Line, e.Message)
	}
	return e.Message
}

func (e *ParseError) Unwrap() error { return e.Cause }

// EndMismatchError reports an END whose name argument does not match the
// name of the block being closed.
type EndMismatchError struct {
	ParseError
	Block string // block keyword: "MACRO" or "PIN"
	Want  string // name of the open block
	Got   string // name on the END line, "" when END carried no name
}

func (e *EndMismatchError) Error() string {
	if e.Got == "" {
		return fmt.Sprintf("line %d: %s %s closed by END without a name", e.Pos.Line, e.Block, e.Want)
	}
	return fmt.Sprintf("line %d: %s %s closed by END %s", e.Pos.Line, e.Block, e.Want, e.Got)
}

// MissingLayerError reports a RECT statement arriving before any LAYER
// was declared in the enclosing PORT or OBS block.
type MissingLayerError struct {
	ParseError
	Block string // "PORT" or "OBS"
}

// NumberError reports an ORIGIN or SIZE operand that does not parse as a
// floating-point literal.
type NumberError struct{ ParseError }

// SyntaxError reports a recognized keyword whose statement is missing
// required operands.
type SyntaxError struct {
	ParseError
	Expected string
	Got      string
}

func (e *SyntaxError) Error() string {
	if e.Pos.Line > 0 {
		return fmt.Sprintf("line %d: expected %s, got %q", e.Pos.Line, e.Expected, e.Got)
	}
	return fmt.Sprintf("expected %s, got %q", e.Expected, e.Got)
}
