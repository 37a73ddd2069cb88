// Package lefparser implements a statement parser for the Library
// Exchange Format (LEF) used to describe standard-cell libraries.
//
// LEF is line-oriented: every statement is one line of whitespace
// separated tokens, and nested blocks (MACRO, PIN, PORT, OBS) open with
// a keyword line and close with END. The parser is structured as three
// layers:
//
//   - Scanner: splits source bytes into statement lines, stripping '#'
//     comments and the trailing ';' terminator.
//   - Contexts: one per block kind (Dispatcher, macro, pin, port, obs),
//     each implementing the Transition contract that classifies a line
//     as applied, ignored, opening a child block, or closing the block.
//   - Driver: feeds lines to the top of an explicit context stack,
//     pushing and popping contexts according to the returned outcomes.
//
// Unknown keywords are never errors: every context ignores statements it
// does not recognize, so vendor-specific LEF extensions pass through
// silently. Structural violations (mismatched END names, RECT before any
// LAYER, malformed numeric literals) surface as typed errors.
//
// Usage:
//
//	lib, err := lefparser.Parse(lefSource)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(len(lib.Macros))
package lefparser
