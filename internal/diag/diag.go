// Package diag defines the diagnostics surface of the compiler front end.
//
// Failures fall into two disjoint taxonomies. User-facing errors (Error)
// describe a defect in the contract source and always carry a source
// position. Internal errors (Panic) signal a compiler defect and must never
// be attributed to user input. A third signal, ErrUnfoldable, is not an
// error at all: it is the control value used by constant folding to mean
// "this node is not a compile-time literal", and it must never reach the
// user.
package diag

import (
	"errors"
	"fmt"
)

// ErrUnfoldable reports that constant folding logic cannot be applied to a
// node. Callers absorb it with errors.Is; it is never surfaced or logged.
var ErrUnfoldable = errors.New("node cannot be folded")

// Kind classifies a user-facing error.
type Kind string

const (
	KindSyntax         Kind = "syntax error"
	KindStructure      Kind = "structure error"
	KindTypeMismatch   Kind = "type mismatch"
	KindZeroDivision   Kind = "division by zero"
	KindInvalidLiteral Kind = "invalid literal"
	KindOverflow       Kind = "overflow"
)

// Position is a location in the original source text. Lineno is 1-based and
// zero when unknown; ColOffset is 0-based.
type Position struct {
	Lineno    int
	ColOffset int
}

// Known reports whether the position refers to an actual source line.
func (p Position) Known() bool { return p.Lineno > 0 }

// Positioned is anything that can locate itself in source. AST nodes
// implement it.
type Positioned interface {
	Position() Position
	SourceText() string
}

// Error is a user-facing compiler error with a source position suitable for
// rendering a caret-annotated excerpt.
type Error struct {
	Kind    Kind
	Message string
	Pos     Position
	Source  string // full source text of the compilation unit
}

// NewError builds a user-facing error located at the given item.
func NewError(kind Kind, message string, at Positioned) *Error {
	e := &Error{Kind: kind, Message: message}
	if at != nil {
		e.Pos = at.Position()
		e.Source = at.SourceText()
	}
	return e
}

// NewErrorAt builds a user-facing error from an explicit position.
func NewErrorAt(kind Kind, message, source string, lineno, colOffset int) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Pos:     Position{Lineno: lineno, ColOffset: colOffset},
		Source:  source,
	}
}

func (e *Error) Error() string {
	if e.Pos.Known() && e.Source != "" {
		return fmt.Sprintf(
			"line %d:%d %s\n%s",
			e.Pos.Lineno, e.Pos.ColOffset, e.Message,
			Annotate(e.Source, e.Pos.Lineno, e.Pos.ColOffset),
		)
	}

	if e.Pos.Known() {
		return fmt.Sprintf("line %d:%d %s", e.Pos.Lineno, e.Pos.ColOffset, e.Message)
	}

	return e.Message
}

// Panic is an internal compiler error. It is never caused by user input;
// encountering one means the AST violated an invariant the front end is
// supposed to uphold.
type Panic struct {
	Message string
}

// Panicf builds an internal error.
func Panicf(format string, args ...any) *Panic {
	return &Panic{Message: fmt.Sprintf(format, args...)}
}

func (p *Panic) Error() string {
	return p.Message + " Please open an issue."
}
