package lefparser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stmt builds a single statement line for direct context tests.
func stmt(s string) Line {
	return Line{Tokens: strings.Fields(s), Raw: s, Pos: Position{Line: 1}}
}

func TestParseEmptyInput(t *testing.T) {
	lib, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, lib.Macros)
	assert.Empty(t, lib.Errors)
}

func TestParseMinimalMacro(t *testing.T) {
	src := `
MACRO M1
  CLASS CORE ;
  ORIGIN 0.0 0.0 ;
  SIZE 1.0 BY 2.0 ;
END M1
`
	lib, err := Parse([]byte(src))
	require.NoError(t, err)
	require.Len(t, lib.Macros, 1)

	m := lib.Macros[0]
	assert.Equal(t, "M1", m.Name)
	assert.Equal(t, "CORE", m.Class)
	require.NotNil(t, m.Origin)
	assert.Equal(t, 0.0, m.Origin.X)
	assert.Equal(t, 0.0, m.Origin.Y)
	require.NotNil(t, m.Size)
	assert.Equal(t, 1.0, m.Size.Width)
	assert.Equal(t, 2.0, m.Size.Height)
	assert.Empty(t, m.Pins)
	assert.Nil(t, m.Obstruction)
}

func TestParseNestedPinPort(t *testing.T) {
	src := `
MACRO M1
  PIN A
    DIRECTION INPUT ;
    PORT
      LAYER metal1 ;
        RECT 0 0 1 1 ;
    END
  END A
END M1
`
	lib, err := Parse([]byte(src))
	require.NoError(t, err)
	require.Len(t, lib.Macros, 1)
	require.Len(t, lib.Macros[0].Pins, 1)

	pin := lib.Macros[0].Pins[0]
	assert.Equal(t, "A", pin.Name)
	assert.Equal(t, "INPUT", pin.Direction)
	require.NotNil(t, pin.Port)
	require.Len(t, pin.Port.Layers, 1)

	layer := pin.Port.Layers[0]
	assert.Equal(t, "metal1", layer.Name)
	require.Len(t, layer.Rects, 1)
	assert.Equal(t, RectGeometry{X0: "0", Y0: "0", X1: "1", Y1: "1"}, layer.Rects[0])
}

func TestParseEndNameMismatch(t *testing.T) {
	src := `
MACRO M1
  CLASS CORE ;
END M2
`
	_, err := Parse([]byte(src))
	require.Error(t, err)

	var em *EndMismatchError
	require.ErrorAs(t, err, &em)
	assert.Equal(t, "MACRO", em.Block)
	assert.Equal(t, "M1", em.Want)
	assert.Equal(t, "M2", em.Got)
	assert.Contains(t, err.Error(), "line 4")
}

func TestParsePinEndNameMismatch(t *testing.T) {
	src := `
MACRO M1
  PIN A
    DIRECTION INPUT ;
  END B
END M1
`
	_, err := Parse([]byte(src))
	require.Error(t, err)

	var em *EndMismatchError
	require.ErrorAs(t, err, &em)
	assert.Equal(t, "PIN", em.Block)
	assert.Equal(t, "A", em.Want)
	assert.Equal(t, "B", em.Got)
}

func TestParseEndWithoutNameInNamedBlock(t *testing.T) {
	src := `
MACRO M1
  CLASS CORE ;
END
`
	_, err := Parse([]byte(src))
	require.Error(t, err)

	var em *EndMismatchError
	require.ErrorAs(t, err, &em)
	assert.Equal(t, "M1", em.Want)
	assert.Equal(t, "", em.Got)
}

func TestParseUnknownKeywordIgnored(t *testing.T) {
	src := `
VERSION 5.6 ;
BUSBITCHARS "[]" ;
MACRO M1
  CLASS CORE ;
  DENSITY 42 ;
  PIN A
    DIRECTION INPUT ;
    ANTENNAGATEAREA 0.3 ;
    PORT
      LAYER metal1 ;
      WIDTH 0.4 ;
      RECT 0 0 1 1 ;
    END
  END A
END M1
`
	lib, err := Parse([]byte(src))
	require.NoError(t, err)
	require.Len(t, lib.Macros, 1)

	m := lib.Macros[0]
	assert.Equal(t, "CORE", m.Class)
	require.Len(t, m.Pins, 1)
	assert.Equal(t, "INPUT", m.Pins[0].Direction)
	require.NotNil(t, m.Pins[0].Port)
	require.Len(t, m.Pins[0].Port.Layers, 1)
	assert.Len(t, m.Pins[0].Port.Layers[0].Rects, 1)
}

func TestParseRectBeforeLayerInPort(t *testing.T) {
	src := `
MACRO M1
  PIN A
    PORT
      RECT 0 0 1 1 ;
    END
  END A
END M1
`
	_, err := Parse([]byte(src))
	require.Error(t, err)

	var ml *MissingLayerError
	require.ErrorAs(t, err, &ml)
	assert.Equal(t, "PORT", ml.Block)
	assert.Contains(t, err.Error(), "line 5")
}

func TestParseRectBeforeLayerInObs(t *testing.T) {
	src := `
MACRO M1
  OBS
    RECT 0 0 1 1 ;
  END
END M1
`
	_, err := Parse([]byte(src))
	require.Error(t, err)

	var ml *MissingLayerError
	require.ErrorAs(t, err, &ml)
	assert.Equal(t, "OBS", ml.Block)
}

func TestParseMultipleMacros(t *testing.T) {
	src := `
MACRO M1
  CLASS CORE ;
  PIN A
    DIRECTION INPUT ;
  END A
END M1

MACRO M2
  CLASS PAD ;
  PIN Z
    DIRECTION OUTPUT ;
  END Z
END M2
`
	lib, err := Parse([]byte(src))
	require.NoError(t, err)
	require.Len(t, lib.Macros, 2)

	assert.Equal(t, []string{"M1", "M2"}, lib.MacroNames())

	m1, m2 := lib.Macros[0], lib.Macros[1]
	assert.Equal(t, "CORE", m1.Class)
	assert.Equal(t, "PAD", m2.Class)
	require.Len(t, m1.Pins, 1)
	require.Len(t, m2.Pins, 1)
	assert.Equal(t, "A", m1.Pins[0].Name)
	assert.Equal(t, "Z", m2.Pins[0].Name)
	assert.Nil(t, m1.Pin("Z"))
	assert.Nil(t, m2.Pin("A"))
}

func TestParseUseOverwritesDirection(t *testing.T) {
	src := `
MACRO M1
  PIN A
    DIRECTION INPUT ;
    USE SIGNAL ;
  END A
  PIN VDD
    USE POWER ;
  END VDD
END M1
`
	lib, err := Parse([]byte(src))
	require.NoError(t, err)

	m := lib.Macros[0]
	// DIRECTION and USE share one slot; the later statement wins.
	assert.Equal(t, "SIGNAL", m.Pin("A").Direction)
	assert.Equal(t, "POWER", m.Pin("VDD").Direction)
}

func TestParseSizeSkipsSeparatorToken(t *testing.T) {
	// The token between width and height is not validated.
	src := `
MACRO M1
  SIZE 1.5 XX 2.5 ;
END M1
`
	lib, err := Parse([]byte(src))
	require.NoError(t, err)
	require.NotNil(t, lib.Macros[0].Size)
	assert.Equal(t, 1.5, lib.Macros[0].Size.Width)
	assert.Equal(t, 2.5, lib.Macros[0].Size.Height)
}

func TestParseForeignAndSymmetry(t *testing.T) {
	src := `
MACRO M1
  FOREIGN M1 0.0 0.0 ;
  SYMMETRY X Y R90 ;
  SITE core ;
END M1
`
	lib, err := Parse([]byte(src))
	require.NoError(t, err)

	m := lib.Macros[0]
	assert.Equal(t, []string{"M1", "0.0", "0.0"}, m.Foreign)
	assert.Equal(t, []string{"X", "Y", "R90"}, m.Symmetry)
	assert.Equal(t, "core", m.Site)
}

func TestParseMalformedOrigin(t *testing.T) {
	src := `
MACRO M1
  ORIGIN zero 0.0 ;
END M1
`
	_, err := Parse([]byte(src))
	require.Error(t, err)

	var ne *NumberError
	require.ErrorAs(t, err, &ne)
	assert.Contains(t, err.Error(), `"zero"`)
	assert.Contains(t, err.Error(), "line 3")
}

func TestParseMalformedSize(t *testing.T) {
	src := `
MACRO M1
  SIZE 1.0 BY tall ;
END M1
`
	_, err := Parse([]byte(src))
	require.Error(t, err)
	var ne *NumberError
	require.ErrorAs(t, err, &ne)
}

func TestParseMissingOperands(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"macro without name", "MACRO\n"},
		{"class without value", "MACRO M1\nCLASS ;\nEND M1\n"},
		{"origin with one coordinate", "MACRO M1\nORIGIN 0.0 ;\nEND M1\n"},
		{"size with missing height", "MACRO M1\nSIZE 1.0 BY ;\nEND M1\n"},
		{"short rect", "MACRO M1\nPIN A\nPORT\nLAYER metal1 ;\nRECT 0 0 1 ;\nEND\nEND A\nEND M1\n"},
		{"pin without name", "MACRO M1\nPIN\nEND M1\n"},
		{"layer without name", "MACRO M1\nOBS\nLAYER ;\nEND\nEND M1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			require.Error(t, err)
			var se *SyntaxError
			assert.ErrorAs(t, err, &se)
		})
	}
}

func TestParseRectsAppendToLastLayer(t *testing.T) {
	src := `
MACRO M1
  PIN A
    PORT
      LAYER metal1 ;
        RECT 0 0 1 1 ;
      LAYER metal2 ;
        RECT 2 2 3 3 ;
        RECT 4 4 5 5 ;
    END
  END A
END M1
`
	lib, err := Parse([]byte(src))
	require.NoError(t, err)

	layers := lib.Macros[0].Pins[0].Port.Layers
	require.Len(t, layers, 2)
	assert.Equal(t, "metal1", layers[0].Name)
	assert.Len(t, layers[0].Rects, 1)
	assert.Equal(t, "metal2", layers[1].Name)
	require.Len(t, layers[1].Rects, 2)
	assert.Equal(t, "RECT 4 4 5 5", layers[1].Rects[1].String())
}

func TestParseObsGeometry(t *testing.T) {
	src := `
MACRO M1
  OBS
    LAYER metal2 ;
      RECT 0.0 0.0 1.14 3.92 ;
    LAYER via1 ;
      RECT 0.5 0.5 0.6 0.6 ;
  END
END M1
`
	lib, err := Parse([]byte(src))
	require.NoError(t, err)

	obs := lib.Macros[0].Obstruction
	require.NotNil(t, obs)
	require.Len(t, obs.Layers, 2)
	assert.Equal(t, "metal2", obs.Layers[0].Name)
	assert.Equal(t, "via1", obs.Layers[1].Name)
	assert.Equal(t, 2, lib.Macros[0].RectCount())
}

func TestParsePinWithoutPort(t *testing.T) {
	src := `
MACRO M1
  PIN EN
    DIRECTION INPUT ;
  END EN
END M1
`
	lib, err := Parse([]byte(src))
	require.NoError(t, err)
	pin := lib.Macros[0].Pin("EN")
	require.NotNil(t, pin)
	assert.Nil(t, pin.Port)
}

func TestParseStopsAtLibraryEnd(t *testing.T) {
	src := `
MACRO M1
END M1
END LIBRARY
MACRO M2
END M2
`
	lib, err := Parse([]byte(src))
	require.NoError(t, err)
	assert.Len(t, lib.Macros, 1)
	assert.Equal(t, "M1", lib.Macros[0].Name)
}

func TestParseUnclosedBlockAtEOF(t *testing.T) {
	src := `
MACRO M1
  CLASS CORE ;
`
	_, err := Parse([]byte(src))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unclosed")
}

func TestParseSkipMacroPolicy(t *testing.T) {
	src := `
MACRO BAD
  PIN A
    DIRECTION INPUT ;
  END B
END BAD

MACRO GOOD
  CLASS CORE ;
END GOOD
`
	lib, err := ParseWithOptions([]byte(src), Options{OnError: SkipMacro})
	require.NoError(t, err)
	require.Len(t, lib.Macros, 1)
	assert.Equal(t, "GOOD", lib.Macros[0].Name)

	require.Len(t, lib.Errors, 1)
	var em *EndMismatchError
	assert.ErrorAs(t, lib.Errors[0], &em)
}

func TestParseSkipMacroLeftoverEndDoesNotCloseLibrary(t *testing.T) {
	// The "END BAD" left over from the damaged block must be skipped,
	// not fed to the dispatcher as a library terminator.
	src := `
MACRO BAD
  ORIGIN x y ;
END BAD

MACRO GOOD
END GOOD
`
	lib, err := ParseWithOptions([]byte(src), Options{OnError: SkipMacro})
	require.NoError(t, err)
	require.Len(t, lib.Macros, 1)
	assert.Equal(t, "GOOD", lib.Macros[0].Name)
	assert.Len(t, lib.Errors, 1)
}

func TestParseSkipMacroUnclosedAtEOF(t *testing.T) {
	src := `
MACRO M1
END M1
MACRO M2
  CLASS CORE ;
`
	lib, err := ParseWithOptions([]byte(src), Options{OnError: SkipMacro})
	require.NoError(t, err)
	require.Len(t, lib.Macros, 1)
	assert.Equal(t, "M1", lib.Macros[0].Name)
	require.Len(t, lib.Errors, 1)
	assert.Contains(t, lib.Errors[0].Error(), "unclosed")
}

func TestParseLines(t *testing.T) {
	lines := []Line{
		stmt("MACRO M1"),
		stmt("CLASS CORE"),
		stmt("END M1"),
	}
	lib, err := ParseLines(lines, Options{})
	require.NoError(t, err)
	require.Len(t, lib.Macros, 1)
	assert.Equal(t, "CORE", lib.Macros[0].Class)
}

func TestTransitionActions(t *testing.T) {
	d := NewDispatcher()

	out, err := d.Transition(stmt("VERSION 5.6"))
	require.NoError(t, err)
	assert.Equal(t, Ignored, out.Action)

	out, err = d.Transition(stmt("MACRO M1"))
	require.NoError(t, err)
	assert.Equal(t, Enter, out.Action)
	require.NotNil(t, out.Child)

	mc := out.Child
	out, err = mc.Transition(stmt("CLASS CORE"))
	require.NoError(t, err)
	assert.Equal(t, Continue, out.Action)

	out, err = mc.Transition(stmt("NOTAKEYWORD x y"))
	require.NoError(t, err)
	assert.Equal(t, Ignored, out.Action)

	out, err = mc.Transition(stmt("END M1"))
	require.NoError(t, err)
	assert.Equal(t, Done, out.Action)

	out, err = d.Transition(stmt("END LIBRARY"))
	require.NoError(t, err)
	assert.Equal(t, Done, out.Action)
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "continue", Continue.String())
	assert.Equal(t, "ignored", Ignored.String())
	assert.Equal(t, "enter", Enter.String())
	assert.Equal(t, "done", Done.String())
	assert.Equal(t, "unknown", Action(99).String())
}

func TestParseSampleLibrary(t *testing.T) {
	lib, err := Parse([]byte(sampleLEF))
	require.NoError(t, err)
	require.Len(t, lib.Macros, 2)

	inv := lib.Macro("INVX1")
	require.NotNil(t, inv)
	assert.Equal(t, "CORE", inv.Class)
	require.NotNil(t, inv.Size)
	assert.InDelta(t, 1.14, inv.Size.Width, 1e-9)
	assert.InDelta(t, 3.92, inv.Size.Height, 1e-9)
	assert.Equal(t, []string{"X", "Y"}, inv.Symmetry)
	assert.Equal(t, "core", inv.Site)
	require.Len(t, inv.Pins, 2)

	a := inv.Pin("A")
	require.NotNil(t, a)
	// DIRECTION INPUT is overwritten by USE SIGNAL.
	assert.Equal(t, "SIGNAL", a.Direction)
	require.NotNil(t, a.Port)
	require.Len(t, a.Port.Layers, 1)
	assert.Len(t, a.Port.Layers[0].Rects, 1)

	z := inv.Pin("Z")
	require.NotNil(t, z)
	assert.Equal(t, "OUTPUT", z.Direction)
	require.NotNil(t, z.Port)
	assert.Len(t, z.Port.Layers[0].Rects, 2)

	require.NotNil(t, inv.Obstruction)
	assert.Equal(t, "metal2", inv.Obstruction.Layers[0].Name)

	nand := lib.Macro("NANDX2")
	require.NotNil(t, nand)
	assert.Equal(t, 4, lib.RectCount())
	assert.Equal(t, 3, lib.PinCount())
}

// sampleLEF is a small standard-cell library fragment used across tests.
const sampleLEF = `
# two-cell library fragment
VERSION 5.6 ;
NAMESCASESENSITIVE ON ;
BUSBITCHARS "[]" ;

MACRO INVX1
  CLASS CORE ;
  ORIGIN 0.0 0.0 ;
  FOREIGN INVX1 0.0 0.0 ;
  SIZE 1.14 BY 3.92 ;
  SYMMETRY X Y ;
  SITE core ;
  PIN A
    DIRECTION INPUT ;
    USE SIGNAL ;
    PORT
      LAYER metal1 ;
        RECT 0.255 1.52 0.555 1.82 ;
    END
  END A
  PIN Z
    DIRECTION OUTPUT ;
    PORT
      LAYER metal1 ;
        RECT 0.705 0.9 0.885 2.27 ;
        RECT 0.585 1.52 0.885 1.82 ;
    END
  END Z
  OBS
    LAYER metal2 ;
      RECT 0.0 0.0 1.14 3.92 ;
  END
END INVX1

MACRO NANDX2
  CLASS CORE ;
  SIZE 1.71 BY 3.92 ;
  PIN A
    DIRECTION INPUT ;
  END A
END NANDX2

END LIBRARY
`
