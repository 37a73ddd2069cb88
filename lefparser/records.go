package lefparser

// Point is an (x, y) coordinate pair parsed from an ORIGIN statement.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Size is a macro bounding box parsed from a SIZE statement.
type Size struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// RectGeometry is an axis-aligned rectangle given by two corner points.
// Coordinates are kept as the raw numeric strings from the source; no
// normalization is applied (X0 need not be less than X1).
type RectGeometry struct {
	X0 string `json:"x0" yaml:"x0"`
	Y0 string `json:"y0" yaml:"y0"`
	X1 string `json:"x1" yaml:"x1"`
	Y1 string `json:"y1" yaml:"y1"`
}

// LayerGeometry is a named fabrication layer with the rectangles
// declared on it, in declaration order.
type LayerGeometry struct {
	Name  string         `json:"name" yaml:"name"`
	Rects []RectGeometry `json:"rects,omitempty" yaml:"rects,omitempty"`
}

// PortRecord describes the physical shapes realizing a pin's connection.
// Ports have no name and are owned by exactly one PinRecord.
type PortRecord struct {
	Layers []LayerGeometry `json:"layers,omitempty" yaml:"layers,omitempty"`
}

// ObsRecord describes an obstruction region within a macro, blocking
// routing. It has no name and is owned by exactly one MacroRecord.
type ObsRecord struct {
	Layers []LayerGeometry `json:"layers,omitempty" yaml:"layers,omitempty"`
}

// PinRecord is a named electrical connection point on a macro, owned
// exclusively by its parent MacroRecord.
type PinRecord struct {
	Name string `json:"name" yaml:"name"`

	// Direction holds the operand of the most recent DIRECTION or USE
	// statement. Both keywords write this one slot; the last one wins.
	Direction string `json:"direction,omitempty" yaml:"direction,omitempty"`

	Shape string      `json:"shape,omitempty" yaml:"shape,omitempty"`
	Port  *PortRecord `json:"port,omitempty" yaml:"port,omitempty"`
}

// MacroRecord is one library cell definition: the field bag set by
// attribute statements plus the owned pins and obstruction.
type MacroRecord struct {
	Name        string       `json:"name" yaml:"name"`
	Class       string       `json:"class,omitempty" yaml:"class,omitempty"`
	Origin      *Point       `json:"origin,omitempty" yaml:"origin,omitempty"`
	Foreign     []string     `json:"foreign,omitempty" yaml:"foreign,omitempty"`
	Size        *Size        `json:"size,omitempty" yaml:"size,omitempty"`
	Symmetry    []string     `json:"symmetry,omitempty" yaml:"symmetry,omitempty"`
	Site        string       `json:"site,omitempty" yaml:"site,omitempty"`
	Pins        []*PinRecord `json:"pins,omitempty" yaml:"pins,omitempty"`
	Obstruction *ObsRecord   `json:"obstruction,omitempty" yaml:"obstruction,omitempty"`
}

// Pin returns the pin with the given name, or nil if not found.
func (m *MacroRecord) Pin(name string) *PinRecord {
	for _, p := range m.Pins {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// RectCount returns the number of rectangles across all pin ports and
// the obstruction.
func (m *MacroRecord) RectCount() int {
	count := 0
	for _, p := range m.Pins {
		if p.Port != nil {
			count += rectCount(p.Port.Layers)
		}
	}
	if m.Obstruction != nil {
		count += rectCount(m.Obstruction.Layers)
	}
	return count
}

func rectCount(layers []LayerGeometry) int {
	count := 0
	for _, l := range layers {
		count += len(l.Rects)
	}
	return count
}

// Library is the complete parsed representation of a LEF file: the
// completed macro records in file order.
type Library struct {
	Macros []*MacroRecord `json:"macros" yaml:"macros"`

	// Errors collects the structural errors of macros discarded under
	// the SkipMacro policy. Always empty under FailFast.
	Errors []error `json:"-" yaml:"-"`
}

// Macro returns the macro with the given name, or nil if not found.
func (l *Library) Macro(name string) *MacroRecord {
	for _, m := range l.Macros {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// MacroNames returns the macro names in file order.
func (l *Library) MacroNames() []string {
	names := make([]string, 0, len(l.Macros))
	for _, m := range l.Macros {
		names = append(names, m.Name)
	}
	return names
}

// PinCount returns the total number of pins across all macros.
func (l *Library) PinCount() int {
	count := 0
	for _, m := range l.Macros {
		count += len(m.Pins)
	}
	return count
}

// RectCount returns the total number of rectangles across all macros.
func (l *Library) RectCount() int {
	count := 0
	for _, m := range l.Macros {
		count += m.RectCount()
	}
	return count
}
