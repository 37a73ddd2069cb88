package lefparser

import "fmt"

// Action describes what the driver should do after feeding a line to
// the active context.
type Action int

const (
	// Continue: the line was recognized and applied to the current
	// context's record; keep feeding the same context.
	Continue Action = iota
	// Ignored: the line's keyword is unknown to this context. Treated
	// exactly like Continue, so unrecognized or vendor-specific LEF
	// statements never break a parse.
	Ignored
	// Enter: a nested block begins; Outcome.Child carries the new
	// context for the driver to push.
	Enter
	// Done: the block closed; the driver pops this context.
	Done
)

var actionNames = map[Action]string{
	Continue: "continue",
	Ignored:  "ignored",
	Enter:    "enter",
	Done:     "done",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// Outcome is the result of feeding one statement line to a context.
type Outcome struct {
	Action Action
	Child  Context // set when Action == Enter
}

// Context is one frame of the parse stack. Transition applies a single
// statement line and reports how the driver should proceed. A non-nil
// error aborts the enclosing block; the concrete types are
// EndMismatchError, MissingLayerError, NumberError and SyntaxError.
type Context interface {
	Transition(line Line) (Outcome, error)
}

// Dispatcher is the top-level context. It recognizes MACRO blocks and
// the library terminator (END, typically "END LIBRARY") and ignores
// every other top-level statement.
type Dispatcher struct {
	macros []*MacroRecord
}

// NewDispatcher creates an empty top-level context.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

func (d *Dispatcher) Transition(line Line) (Outcome, error) {
	switch line.Keyword() {
	case KwMacro:
		name, err := requireArg(line, 1, "MACRO <name>")
		if err != nil {
			return Outcome{}, err
		}
		m := &MacroRecord{Name: name}
		d.macros = append(d.macros, m)
		return Outcome{Action: Enter, Child: &macroContext{macro: m}}, nil
	case KwEnd:
		return Outcome{Action: Done}, nil
	}
	return Outcome{Action: Ignored}, nil
}

// Macros returns the records entered so far, in file order.
func (d *Dispatcher) Macros() []*MacroRecord {
	return d.macros
}

// abandon discards the most recently entered macro. The driver calls it
// when a structural error aborts that macro under the SkipMacro policy.
func (d *Dispatcher) abandon() {
	if n := len(d.macros); n > 0 {
		d.macros = d.macros[:n-1]
	}
}

// macroContext parses the body of a MACRO block into its record.
type macroContext struct {
	macro *MacroRecord
}

func (c *macroContext) Transition(line Line) (Outcome, error) {
	switch line.Keyword() {
	case KwClass:
		arg, err := requireArg(line, 1, "CLASS <value>")
		if err != nil {
			return Outcome{}, err
		}
		c.macro.Class = arg

	case KwOrigin:
		pt, err := parsePoint(line)
		if err != nil {
			return Outcome{}, err
		}
		c.macro.Origin = &pt

	case KwForeign:
		c.macro.Foreign = append([]string(nil), line.Tokens[1:]...)

	case KwSize:
		sz, err := parseSize(line)
		if err != nil {
			return Outcome{}, err
		}
		c.macro.Size = &sz

	case KwSymmetry:
		c.macro.Symmetry = append([]string(nil), line.Tokens[1:]...)

	case KwSite:
		arg, err := requireArg(line, 1, "SITE <name>")
		if err != nil {
			return Outcome{}, err
		}
		c.macro.Site = arg

	case KwPin:
		name, err := requireArg(line, 1, "PIN <name>")
		if err != nil {
			return Outcome{}, err
		}
		pin := &PinRecord{Name: name}
		c.macro.Pins = append(c.macro.Pins, pin)
		return Outcome{Action: Enter, Child: &pinContext{pin: pin}}, nil

	case KwObs:
		obs := &ObsRecord{}
		c.macro.Obstruction = obs
		return Outcome{Action: Enter, Child: &obsContext{obs: obs}}, nil

	case KwEnd:
		return closeNamed(line, KwMacro, c.macro.Name)

	default:
		return Outcome{Action: Ignored}, nil
	}
	return Outcome{Action: Continue}, nil
}

// pinContext parses the body of a PIN block into its record.
type pinContext struct {
	pin *PinRecord
}

func (c *pinContext) Transition(line Line) (Outcome, error) {
	switch kw := line.Keyword(); kw {
	case KwDirection, KwUse:
		// DIRECTION and USE share the one Direction slot; last wins.
		arg, err := requireArg(line, 1, kw+" <value>")
		if err != nil {
			return Outcome{}, err
		}
		c.pin.Direction = arg

	case KwShape:
		arg, err := requireArg(line, 1, "SHAPE <value>")
		if err != nil {
			return Outcome{}, err
		}
		c.pin.Shape = arg

	case KwPort:
		port := &PortRecord{}
		c.pin.Port = port
		return Outcome{Action: Enter, Child: &portContext{port: port}}, nil

	case KwEnd:
		return closeNamed(line, KwPin, c.pin.Name)

	default:
		return Outcome{Action: Ignored}, nil
	}
	return Outcome{Action: Continue}, nil
}

// portContext parses the body of a PORT block.
type portContext struct {
	port *PortRecord
}

func (c *portContext) Transition(line Line) (Outcome, error) {
	return transitionGeometry(line, KwPort, &c.port.Layers)
}

// obsContext parses the body of an OBS block.
type obsContext struct {
	obs *ObsRecord
}

func (c *obsContext) Transition(line Line) (Outcome, error) {
	return transitionGeometry(line, KwObs, &c.obs.Layers)
}

// transitionGeometry handles the statements shared by PORT and OBS
// blocks: LAYER declarations, RECT geometry appended to the most recent
// layer, and the bare END that closes the block (no name to validate).
func transitionGeometry(line Line, block string, layers *[]LayerGeometry) (Outcome, error) {
	switch line.Keyword() {
	case KwEnd:
		return Outcome{Action: Done}, nil

	case KwLayer:
		name, err := requireArg(line, 1, "LAYER <name>")
		if err != nil {
			return Outcome{}, err
		}
		*layers = append(*layers, LayerGeometry{Name: name})

	case KwRect:
		if len(*layers) == 0 {
			return Outcome{}, &MissingLayerError{
				ParseError: ParseError{
					Message: fmt.Sprintf("RECT before any LAYER in %s block", block),
					Pos:     line.Pos,
				},
				Block: block,
			}
		}
		rect, err := parseRect(line)
		if err != nil {
			return Outcome{}, err
		}
		last := &(*layers)[len(*layers)-1]
		last.Rects = append(last.Rects, rect)

	default:
		return Outcome{Action: Ignored}, nil
	}
	return Outcome{Action: Continue}, nil
}

// closeNamed validates the END line that closes a named block. An END
// carrying a different name, or no name at all, cannot close the block.
func closeNamed(line Line, block, name string) (Outcome, error) {
	got := ""
	if len(line.Tokens) > 1 {
		got = line.Tokens[1]
	}
	if got != name {
		return Outcome{}, &EndMismatchError{
			ParseError: ParseError{Pos: line.Pos},
			Block:      block,
			Want:       name,
			Got:        got,
		}
	}
	return Outcome{Action: Done}, nil
}
