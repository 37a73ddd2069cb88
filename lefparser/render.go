package lefparser

import (
	"fmt"
	"strings"
)

// Debug rendering of parsed records. The output is diagnostic only, not
// a round-trip LEF serialization.

// String renders the macro as "MACRO <name>" followed by indented
// "KEY: value" lines, with one indented block per pin and one for the
// obstruction.
func (m *MacroRecord) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "MACRO %s\n", m.Name)
	if m.Class != "" {
		fmt.Fprintf(&sb, "    CLASS: %s\n", m.Class)
	}
	if m.Origin != nil {
		fmt.Fprintf(&sb, "    ORIGIN: (%g, %g)\n", m.Origin.X, m.Origin.Y)
	}
	if len(m.Foreign) > 0 {
		fmt.Fprintf(&sb, "    FOREIGN: %s\n", strings.Join(m.Foreign, " "))
	}
	if m.Size != nil {
		fmt.Fprintf(&sb, "    SIZE: %g BY %g\n", m.Size.Width, m.Size.Height)
	}
	if len(m.Symmetry) > 0 {
		fmt.Fprintf(&sb, "    SYMMETRY: %s\n", strings.Join(m.Symmetry, " "))
	}
	if m.Site != "" {
		fmt.Fprintf(&sb, "    SITE: %s\n", m.Site)
	}
	for _, p := range m.Pins {
		fmt.Fprintf(&sb, "    PIN %s:\n", p.Name)
		writeIndented(&sb, p.String())
	}
	if m.Obstruction != nil {
		sb.WriteString("    OBS:\n")
		writeIndented(&sb, m.Obstruction.String())
	}
	return sb.String()
}

// String renders the pin's port as one "LAYER <name>" line per layer.
// A pin without a port renders as the empty string.
func (p *PinRecord) String() string {
	if p.Port == nil {
		return ""
	}
	return layerLines(p.Port.Layers)
}

// String renders the obstruction as one "LAYER <name>" line per layer.
func (o *ObsRecord) String() string {
	return layerLines(o.Layers)
}

// String renders the rectangle as its source statement.
func (r RectGeometry) String() string {
	return fmt.Sprintf("RECT %s %s %s %s", r.X0, r.Y0, r.X1, r.Y1)
}

func layerLines(layers []LayerGeometry) string {
	lines := make([]string, 0, len(layers))
	for _, l := range layers {
		lines = append(lines, KwLayer+" "+l.Name)
	}
	return strings.Join(lines, "\n")
}

// writeIndented writes each line of block indented one level deeper than
// the macro's attribute lines.
func writeIndented(sb *strings.Builder, block string) {
	if block == "" {
		return
	}
	for _, line := range strings.Split(block, "\n") {
		sb.WriteString("        ")
		sb.WriteString(line)
		sb.WriteString("\n")
	}
}
