package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is a coarse-grained categorization for errors.
type Kind string

const (
	KindGeometry    Kind = "geometry"
	KindRecognition Kind = "recognition"
	KindConsistency Kind = "consistency"
	KindSolver      Kind = "solver"
	KindIO          Kind = "io"
	KindConfig      Kind = "config"
)

// OpError wraps an underlying error with operation context and a kind.
type OpError struct {
	Op   string
	Kind Kind
	Path string // Optional: relevant file path
	Err  error
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Path != "" {
		base += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsKind reports whether err, or anything it wraps, is an OpError of kind.
func IsKind(err error, kind Kind) bool {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind == kind
	}
	return false
}

// Recoverable is implemented by recognition errors that an operator can settle
// by typing the clue line by hand.
type Recoverable interface {
	error
	Recoverable() bool
}

// IsRecoverable reports whether err can be resolved by manual override.
func IsRecoverable(err error) bool {
	var r Recoverable
	if errors.As(err, &r) {
		return r.Recoverable()
	}
	return false
}

// BoardNotFoundError means no coherent cluster of cell contours was found.
type BoardNotFoundError struct {
	Candidates int // rectangle contours considered
}

func (e *BoardNotFoundError) Error() string {
	return fmt.Sprintf("board not found among %d rectangle contours", e.Candidates)
}

// BoardNotSquareError means the cell cluster size is not a perfect square.
type BoardNotSquareError struct {
	Cells int
}

func (e *BoardNotSquareError) Error() string {
	return fmt.Sprintf("board not square: %d cells", e.Cells)
}

// DigitRecognitionError means a glyph could not be read as a digit, even
// after dilation.
type DigitRecognitionError struct {
	Text string // what the engine returned on the last attempt
}

func (e *DigitRecognitionError) Error() string {
	return fmt.Sprintf("glyph not recognised as a digit (got %q)", e.Text)
}

func (e *DigitRecognitionError) Recoverable() bool { return true }

// MalformedColorSequenceError means a yellow numeral was not paired with
// exactly one following yellow numeral.
type MalformedColorSequenceError struct {
	Colors []ColorClass
	Index  int
}

func (e *MalformedColorSequenceError) Error() string {
	parts := make([]string, len(e.Colors))
	for i, c := range e.Colors {
		parts[i] = string(c)
	}
	return fmt.Sprintf("malformed colour sequence at %d: [%s]", e.Index, strings.Join(parts, " "))
}

func (e *MalformedColorSequenceError) Recoverable() bool { return true }

// ColorCountMismatchError means the recognised text and the detected colour
// runs disagree on the number of numerals.
type ColorCountMismatchError struct {
	Characters int
	Colors     int
}

func (e *ColorCountMismatchError) Error() string {
	if e.Characters > e.Colors {
		return fmt.Sprintf("too few colours: %d characters, %d colour runs", e.Characters, e.Colors)
	}
	return fmt.Sprintf("too many colours: %d characters, %d colour runs", e.Characters, e.Colors)
}

func (e *ColorCountMismatchError) Recoverable() bool { return true }

// NonDigitError means the line recognizer produced a non-numeric character.
type NonDigitError struct {
	Char rune
}

func (e *NonDigitError) Error() string {
	return fmt.Sprintf("non-numeric character %q", e.Char)
}

func (e *NonDigitError) Recoverable() bool { return true }

// ConsistencyError is returned when an inconsistent puzzle could not be
// settled by the operator.
type ConsistencyError struct {
	Problems []string
}

func (e *ConsistencyError) Error() string {
	return "inconsistent puzzle: " + strings.Join(e.Problems, "; ")
}

// NoSolutionFoundError means the solver output had no usable solution block.
type NoSolutionFoundError struct {
	Reason string
}

func (e *NoSolutionFoundError) Error() string {
	return "no solution found: " + e.Reason
}
