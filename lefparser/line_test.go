package lefparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanAll(src string) []Line {
	var lines []Line
	sc := NewScanner([]byte(src))
	for {
		line, ok := sc.Next()
		if !ok {
			return lines
		}
		lines = append(lines, line)
	}
}

func TestScannerSplitsStatements(t *testing.T) {
	lines := scanAll("MACRO INVX1\n  CLASS CORE ;\nEND INVX1\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"MACRO", "INVX1"}, lines[0].Tokens)
	assert.Equal(t, []string{"CLASS", "CORE"}, lines[1].Tokens)
	assert.Equal(t, []string{"END", "INVX1"}, lines[2].Tokens)
	assert.Equal(t, 1, lines[0].Pos.Line)
	assert.Equal(t, 2, lines[1].Pos.Line)
	assert.Equal(t, 3, lines[2].Pos.Line)
}

func TestScannerStripsComments(t *testing.T) {
	src := `# header comment
MACRO M1 # trailing comment
# another comment
END M1
`
	lines := scanAll(src)
	require.Len(t, lines, 2)
	assert.Equal(t, []string{"MACRO", "M1"}, lines[0].Tokens)
	assert.Equal(t, "MACRO M1", lines[0].Raw)
	assert.Equal(t, 2, lines[0].Pos.Line)
	assert.Equal(t, 4, lines[1].Pos.Line)
}

func TestScannerDropsTerminator(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"freestanding", "CLASS CORE ;", []string{"CLASS", "CORE"}},
		{"glued", "CLASS CORE;", []string{"CLASS", "CORE"}},
		{"none", "MACRO M1", []string{"MACRO", "M1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := scanAll(tt.src)
			require.Len(t, lines, 1)
			assert.Equal(t, tt.want, lines[0].Tokens)
		})
	}
}

func TestScannerSkipsBlankAndEmptyStatements(t *testing.T) {
	src := "\n   \nMACRO M1\n;\n\t\nEND M1\n"
	lines := scanAll(src)
	require.Len(t, lines, 2)
	assert.Equal(t, "MACRO", lines[0].Keyword())
	assert.Equal(t, "END", lines[1].Keyword())
	assert.Equal(t, 3, lines[0].Pos.Line)
	assert.Equal(t, 6, lines[1].Pos.Line)
}

func TestScannerPreservesCase(t *testing.T) {
	lines := scanAll("macro m1\nLAYER Metal1 ;\n")
	require.Len(t, lines, 2)
	// Keyword matching is exact: lowercase "macro" is not KwMacro.
	assert.Equal(t, "macro", lines[0].Keyword())
	assert.Equal(t, []string{"LAYER", "Metal1"}, lines[1].Tokens)
}

func TestScannerOffsets(t *testing.T) {
	lines := scanAll("MACRO M1\nEND M1\n")
	require.Len(t, lines, 2)
	assert.Equal(t, 0, lines[0].Pos.Offset)
	assert.Equal(t, 9, lines[1].Pos.Offset)
}

func TestScannerNoTrailingNewline(t *testing.T) {
	lines := scanAll("MACRO M1\nEND M1")
	require.Len(t, lines, 2)
	assert.Equal(t, []string{"END", "M1"}, lines[1].Tokens)
}

func TestSplitStatement(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"CLASS CORE ;", []string{"CLASS", "CORE"}},
		{"CLASS CORE;", []string{"CLASS", "CORE"}},
		{"  RECT 0 0 1 1 ;  ", []string{"RECT", "0", "0", "1", "1"}},
		{"END M1 # closes the macro", []string{"END", "M1"}},
		{"# only a comment", nil},
		{";", nil},
		{"", nil},
		{"   ", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, splitStatement(tt.raw), "raw=%q", tt.raw)
	}
}

func TestLineKeyword(t *testing.T) {
	assert.Equal(t, "MACRO", stmt("MACRO M1").Keyword())
	assert.Equal(t, "", Line{}.Keyword())
}
