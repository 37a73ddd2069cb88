package lefparser

import (
	"fmt"

	"github.com/emirpasic/gods/stacks/arraystack"
)

// ErrorPolicy selects how the driver reacts to a structural error.
type ErrorPolicy int

const (
	// FailFast aborts the whole parse on the first structural error.
	FailFast ErrorPolicy = iota
	// SkipMacro discards the macro containing the error, records the
	// error on the Library, and resumes at the next top-level MACRO.
	SkipMacro
)

// Options configures a parse.
type Options struct {
	OnError ErrorPolicy
}

// Parse parses LEF source text with the default fail-fast error policy.
// On failure it returns a *EndMismatchError, *MissingLayerError,
// *NumberError, *SyntaxError or *ParseError.
func Parse(src []byte) (*Library, error) {
	return ParseWithOptions(src, Options{})
}

// ParseWithOptions parses LEF source text under the given options.
// Under the SkipMacro policy the returned error is nil and per-macro
// structural errors are collected on Library.Errors.
func ParseWithOptions(src []byte, opts Options) (*Library, error) {
	sc := NewScanner(src)
	return run(sc.Next, opts)
}

// ParseLines drives the parse over pre-tokenized statement lines, for
// callers that split input themselves.
func ParseLines(lines []Line, opts Options) (*Library, error) {
	i := 0
	next := func() (Line, bool) {
		if i >= len(lines) {
			return Line{}, false
		}
		line := lines[i]
		i++
		return line, true
	}
	return run(next, opts)
}

// run is the driver loop: it owns the context stack, feeds each line to
// the top context, and interprets the returned outcome. The dispatcher
// sits at the bottom of the stack for the whole parse.
func run(next func() (Line, bool), opts Options) (*Library, error) {
	d := NewDispatcher()
	stack := arraystack.New()
	stack.Push(d)

	var collected []error
	skipping := false

	for {
		line, ok := next()
		if !ok {
			break
		}

		if skipping {
			// Resynchronize at the next top-level MACRO. Leftover END
			// lines from the damaged block must not close the library.
			if line.Keyword() != KwMacro {
				continue
			}
			skipping = false
		}

		top, _ := stack.Peek()
		outcome, err := top.(Context).Transition(line)
		if err != nil {
			if opts.OnError == FailFast {
				return nil, err
			}
			collected = append(collected, err)
			if stack.Size() > 1 {
				unwind(stack)
				d.abandon()
			}
			skipping = true
			continue
		}

		switch outcome.Action {
		case Enter:
			stack.Push(outcome.Child)
		case Done:
			stack.Pop()
			if stack.Empty() {
				// The dispatcher finished: library terminator reached.
				return &Library{Macros: d.Macros(), Errors: collected}, nil
			}
		}
	}

	// End of input. Anything above the dispatcher is an unclosed block.
	if stack.Size() > 1 {
		err := &ParseError{
			Message: fmt.Sprintf("unexpected end of input: %d unclosed block(s)", stack.Size()-1),
		}
		if opts.OnError == FailFast {
			return nil, err
		}
		collected = append(collected, err)
		d.abandon()
	}

	return &Library{Macros: d.Macros(), Errors: collected}, nil
}

// unwind pops every context above the dispatcher.
func unwind(stack *arraystack.Stack) {
	for stack.Size() > 1 {
		stack.Pop()
	}
}
