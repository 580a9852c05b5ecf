package turtle

import (
	"errors"
	"fmt"
)

// Sentinel errors reported by the execution core. Check with errors.Is.
var (
	// ErrUnknownOpcode is reported at drain time for an opcode with no handler.
	ErrUnknownOpcode = errors.New("unknown opcode")

	// ErrInvalidArity is reported when a handler receives the wrong number or
	// type of arguments.
	ErrInvalidArity = errors.New("invalid command arity")

	// ErrOpcodeCollision is returned by Registry.Register for ids inside the
	// built-in range or ids that are already registered.
	ErrOpcodeCollision = errors.New("opcode collision")

	// ErrNothingToUndo is returned by Undo when no committed segment remains.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrNothingToRedo is returned by Redo when the redo tail is empty.
	ErrNothingToRedo = errors.New("nothing to redo")
)

// InstructionError wraps the failure of a single drained instruction.
// The queue keeps draining after it is reported.
type InstructionError struct {
	Op     Opcode
	Custom bool // ad-hoc handler, Op is meaningless
	Err    error
}

func (e *InstructionError) Error() string {
	if e.Custom {
		return fmt.Sprintf("turtle: custom command: %v", e.Err)
	}
	return fmt.Sprintf("turtle: %s: %v", e.Op, e.Err)
}

func (e *InstructionError) Unwrap() error {
	return e.Err
}

// arityError builds an ErrInvalidArity error with context.
func arityError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArity, fmt.Sprintf(format, args...))
}
