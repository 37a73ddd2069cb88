package lefparser

import "strings"

// LEF statement keywords recognized by the parser contexts. Statements
// beginning with any other keyword are ignored wherever they appear.
const (
	KwMacro     = "MACRO"
	KwEnd       = "END"
	KwClass     = "CLASS"
	KwOrigin    = "ORIGIN"
	KwForeign   = "FOREIGN"
	KwSize      = "SIZE"
	KwSymmetry  = "SYMMETRY"
	KwSite      = "SITE"
	KwPin       = "PIN"
	KwObs       = "OBS"
	KwDirection = "DIRECTION"
	KwUse       = "USE"
	KwPort      = "PORT"
	KwShape     = "SHAPE"
	KwLayer     = "LAYER"
	KwRect      = "RECT"
)

// Position tracks a source location for error messages.
type Position struct {
	Line   int // 1-based line number
	Offset int // 0-based byte offset of the line start
}

// Line is one logical LEF statement: the token vector of a single
// source line after comment and terminator stripping. Identifier case
// is preserved.
type Line struct {
	Tokens []string
	Raw    string // source text with surrounding whitespace trimmed
	Pos    Position
}

// Keyword returns the first token, which is always the statement
// keyword, or "" for an empty line.
func (l Line) Keyword() string {
	if len(l.Tokens) == 0 {
		return ""
	}
	return l.Tokens[0]
}

// Scanner splits LEF source text into statement lines. Blank lines and
// comment-only lines are skipped.
type Scanner struct {
	src  []byte
	pos  int // current byte offset
	line int // current line (1-based)
}

// NewScanner creates a new Scanner for the given source bytes.
func NewScanner(src []byte) *Scanner {
	return &Scanner{src: src, line: 1}
}

// Next returns the next statement line. ok is false at end of input.
func (s *Scanner) Next() (Line, bool) {
	for s.pos < len(s.src) {
		start := s.pos
		num := s.line

		end := start
		for end < len(s.src) && s.src[end] != '\n' {
			end++
		}
		s.pos = end
		if s.pos < len(s.src) {
			s.pos++ // consume '\n'
		}
		s.line++

		raw := string(s.src[start:end])
		tokens := splitStatement(raw)
		if len(tokens) == 0 {
			continue
		}
		return Line{
			Tokens: tokens,
			Raw:    strings.TrimSpace(stripComment(raw)),
			Pos:    Position{Line: num, Offset: start},
		}, true
	}
	return Line{}, false
}

// stripComment removes a '#' comment to the end of the line.
func stripComment(raw string) string {
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		return raw[:i]
	}
	return raw
}

// splitStatement tokenizes one raw line: a '#' comment is stripped, the
// remainder is split on whitespace, and the trailing ';' statement
// terminator is dropped whether freestanding ("CLASS CORE ;") or glued
// to the last token ("CLASS CORE;").
func splitStatement(raw string) []string {
	tokens := strings.Fields(stripComment(raw))
	n := len(tokens)
	if n == 0 {
		return nil
	}
	last := tokens[n-1]
	switch {
	case last == ";":
		tokens = tokens[:n-1]
	case strings.HasSuffix(last, ";"):
		tokens[n-1] = strings.TrimSuffix(last, ";")
	}
	if len(tokens) == 0 {
		return nil
	}
	return tokens
}
