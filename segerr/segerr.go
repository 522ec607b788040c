// Package segerr defines the error kinds reported by the segment object model.
//
// Every fallible operation in the runtime returns an error whose kind can be
// recovered with errors.Is against one of the sentinel values below, or with
// KindOf. Errors carry the name of the operation that produced them.
package segerr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind int

const (
	// Memory reports that an allocation could not be satisfied.
	Memory Kind = iota + 1

	// Range reports a value or index outside its valid bounds.
	Range

	// Type reports an operation applied to an instance of the wrong representation.
	Type

	// Invalid reports an object in a state that construction should have made impossible.
	Invalid

	// Collision reports two entries presumed unique colliding during a rehash.
	Collision

	// NotYet marks an operation that has not been implemented.
	NotYet
)

var kindNames = map[Kind]string{
	Memory:    "memory",
	Range:     "range",
	Type:      "type",
	Invalid:   "invalid",
	Collision: "collision",
	NotYet:    "not yet",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is the concrete error type returned by the runtime.
type Error struct {
	Kind Kind
	Op   string // operation that failed, e.g. "vm.Integer"
	Msg  string
}

func (e *Error) Error() string {
	switch {
	case e.Op == "" && e.Msg == "":
		return e.Kind.String() + " error"
	case e.Op == "":
		return fmt.Sprintf("%s error: %s", e.Kind, e.Msg)
	case e.Msg == "":
		return fmt.Sprintf("%s: %s error", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s error: %s", e.Op, e.Kind, e.Msg)
}

// Is matches any *Error of the same kind, so errors.Is(err, segerr.ErrRange)
// works for every range failure regardless of operation and message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrMemory    = &Error{Kind: Memory}
	ErrRange     = &Error{Kind: Range}
	ErrType      = &Error{Kind: Type}
	ErrInvalid   = &Error{Kind: Invalid}
	ErrCollision = &Error{Kind: Collision}
	ErrNotYet    = &Error{Kind: NotYet}
)

// New returns an *Error of the given kind.
func New(kind Kind, op, msg string) error {
	return &Error{Kind: kind, Op: op, Msg: msg}
}

// Newf is New with a formatted message.
func Newf(kind Kind, op, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
