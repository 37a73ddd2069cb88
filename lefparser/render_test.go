package lefparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMacroString(t *testing.T) {
	src := `
MACRO INVX1
  CLASS CORE ;
  ORIGIN 0.0 0.0 ;
  FOREIGN INVX1 0.0 0.0 ;
  SIZE 1.14 BY 3.92 ;
  SYMMETRY X Y ;
  SITE core ;
  PIN A
    DIRECTION INPUT ;
    PORT
      LAYER metal1 ;
        RECT 0 0 1 1 ;
    END
  END A
  OBS
    LAYER metal2 ;
  END
END INVX1
`
	lib, err := Parse([]byte(src))
	require.NoError(t, err)

	want := `MACRO INVX1
    CLASS: CORE
    ORIGIN: (0, 0)
    FOREIGN: INVX1 0.0 0.0
    SIZE: 1.14 BY 3.92
    SYMMETRY: X Y
    SITE: core
    PIN A:
        LAYER metal1
    OBS:
        LAYER metal2
`
	assert.Equal(t, want, lib.Macros[0].String())
}

func TestMacroStringBareRecord(t *testing.T) {
	m := &MacroRecord{Name: "EMPTY"}
	assert.Equal(t, "MACRO EMPTY\n", m.String())
}

func TestMacroStringPinWithoutPort(t *testing.T) {
	m := &MacroRecord{
		Name: "M1",
		Pins: []*PinRecord{{Name: "EN"}},
	}
	assert.Equal(t, "MACRO M1\n    PIN EN:\n", m.String())
}

func TestPinString(t *testing.T) {
	p := &PinRecord{Name: "A"}
	assert.Equal(t, "", p.String())

	p.Port = &PortRecord{Layers: []LayerGeometry{{Name: "metal1"}, {Name: "metal2"}}}
	assert.Equal(t, "LAYER metal1\nLAYER metal2", p.String())
}

func TestObsString(t *testing.T) {
	o := &ObsRecord{Layers: []LayerGeometry{{Name: "metal2"}, {Name: "via1"}}}
	assert.Equal(t, "LAYER metal2\nLAYER via1", o.String())
}

func TestRectString(t *testing.T) {
	r := RectGeometry{X0: "0.255", Y0: "1.52", X1: "0.555", Y1: "1.82"}
	assert.Equal(t, "RECT 0.255 1.52 0.555 1.82", r.String())
}
