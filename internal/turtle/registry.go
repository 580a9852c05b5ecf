package turtle

import "fmt"

// Registry resolves opcodes to handlers. Built-ins live in a fixed-size
// table indexed by opcode value; custom handlers live in a secondary map
// keyed by opcode. A registry is shared by all turtles of one screen and is
// isolated from every other registry.
type Registry struct {
	builtins [BuiltinCount]Handler
	custom   map[Opcode]Handler
}

// NewRegistry creates a registry with the built-in table populated.
func NewRegistry() *Registry {
	return &Registry{
		builtins: builtinTable(),
		custom:   make(map[Opcode]Handler),
	}
}

// Register binds a custom opcode to a handler.
// Fails with ErrOpcodeCollision if op is in [0, BuiltinCount) or already bound.
func (r *Registry) Register(op Opcode, h Handler) error {
	if h == nil {
		return fmt.Errorf("turtle: register %s: nil handler", op)
	}
	if op < BuiltinCount {
		return fmt.Errorf("turtle: register %s: %w: reserved for built-ins [0,%d)", op, ErrOpcodeCollision, int(BuiltinCount))
	}
	if _, exists := r.custom[op]; exists {
		return fmt.Errorf("turtle: register %s: %w: already registered", op, ErrOpcodeCollision)
	}
	r.custom[op] = h
	return nil
}

// Lookup returns the handler bound to op.
func (r *Registry) Lookup(op Opcode) (Handler, bool) {
	if op.Builtin() {
		h := r.builtins[op]
		return h, h != nil
	}
	h, ok := r.custom[op]
	return h, ok
}

// Registered reports whether op resolves to a handler.
func (r *Registry) Registered(op Opcode) bool {
	_, ok := r.Lookup(op)
	return ok
}
