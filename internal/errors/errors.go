// Package errors defines LUNIR's error taxonomy: one tagged error type per
// failure kind, each with a constructor, following the same
// single-struct-plus-constructors shape the teacher's own error package
// used, adapted to LUNIR's kinds instead of a scripting language's
// (syntax/runtime/type/...) ones.
package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind is the closed set of ways a LUNIR pipeline stage can fail.
type Kind string

const (
	// StackUnderflow: an instruction addressed a slot outside the lifter's
	// expression stack (a negative index, or one at or past its length).
	StackUnderflow Kind = "StackUnderflow"

	// ConstantOutOfRange: an instruction referenced a constant pool index
	// beyond the function's constant table.
	ConstantOutOfRange Kind = "ConstantOutOfRange"

	// UnimplementedTableElement: a constant-pool Table contained a Value
	// variant the lifter cannot yet turn into an Expression.
	UnimplementedTableElement Kind = "UnimplementedTableElement"

	// UnsupportedInstruction: an Instruction variant outside the closed set
	// the lifter understands reached it (e.g. from a malformed IL chunk).
	UnsupportedInstruction Kind = "UnsupportedInstruction"

	// InvalidJumpTarget: a Jump/ConditionalJump/JumpNot branch referenced a
	// PC outside the chunk's instruction range.
	InvalidJumpTarget Kind = "InvalidJumpTarget"

	// IncompleteJob: a pipeline job's Run was called before every required
	// builder input (tree/chunk, serializer/reconstructor) was supplied —
	// the runtime stand-in for the reference implementation's compile-time
	// typestate check.
	IncompleteJob Kind = "IncompleteJob"

	// Unimplemented: a documented gap — a feature the core spec describes
	// but this implementation does not yet cover.
	Unimplemented Kind = "Unimplemented"
)

// LunirError carries a Kind, a human-readable message, and the optional
// instruction index (PC) where the failure was detected. A PC of -1 (what
// New and Newf set) means "not applicable".
type LunirError struct {
	Kind    Kind
	Message string
	PC      int
}

// Error implements the error interface.
func (e *LunirError) Error() string {
	if e.PC >= 0 {
		return fmt.Sprintf("%s at pc=%d: %s", e.Kind, e.PC, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// New constructs a LunirError with no associated instruction index, wrapped
// with a stack trace via github.com/pkg/errors so callers further up the
// pipeline can %+v it for diagnostics.
func New(kind Kind, message string) error {
	return errors.WithStack(&LunirError{Kind: kind, Message: message, PC: -1})
}

// Newf is New with fmt.Sprintf-style formatting.
func Newf(kind Kind, format string, args ...any) error {
	return errors.WithStack(&LunirError{Kind: kind, Message: fmt.Sprintf(format, args...), PC: -1})
}

// AtPC constructs a LunirError tagged with the instruction index it was
// detected at.
func AtPC(kind Kind, pc int, message string) error {
	return errors.WithStack(&LunirError{Kind: kind, Message: message, PC: pc})
}

// AtPCf is AtPC with fmt.Sprintf-style formatting.
func AtPCf(kind Kind, pc int, format string, args ...any) error {
	return errors.WithStack(&LunirError{Kind: kind, Message: fmt.Sprintf(format, args...), PC: pc})
}

// WithPC rewrites err's PC if it unwraps to a *LunirError, leaving its Kind
// and Message untouched; it returns err unmodified if it isn't one. This
// lets an inner helper (e.g. the lifter's value_to_ast) build an error
// without knowing which instruction is being processed, and the caller at
// the top of its per-instruction loop attach that context once.
func WithPC(err error, pc int) error {
	if err == nil {
		return nil
	}
	type causer interface{ Cause() error }
	cur := err
	for cur != nil {
		if le, ok := cur.(*LunirError); ok {
			return errors.WithStack(&LunirError{Kind: le.Kind, Message: le.Message, PC: pc})
		}
		c, ok := cur.(causer)
		if !ok {
			return err
		}
		cur = c.Cause()
	}
	return err
}

// Is reports whether err is a LunirError of the given kind, unwrapping
// github.com/pkg/errors' stack-trace wrapper and any other wrapping along
// the way.
func Is(err error, kind Kind) bool {
	type causer interface{ Cause() error }
	for err != nil {
		if le, ok := err.(*LunirError); ok {
			return le.Kind == kind
		}
		c, ok := err.(causer)
		if !ok {
			return false
		}
		err = c.Cause()
	}
	return false
}
