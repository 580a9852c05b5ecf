package turtle

import (
	"fmt"
	"strings"
)

// Opcode identifies a built-in or custom operation for table dispatch.
// Values in [0, BuiltinCount) are reserved for built-ins; custom handlers
// are registered at BuiltinCount and above.
type Opcode int

// Built-in opcodes. The order is part of the instruction encoding.
const (
	OpForward Opcode = iota
	OpBackward
	OpGoto
	OpTeleport
	OpLeft
	OpRight
	OpHome
	OpSetX
	OpSetY
	OpSetHeading
	OpHeadTowards
	OpPenUp
	OpPenDown
	OpHide
	OpShow
	OpSetColor
	OpSetWidth
	OpSetSpeed
	OpDot
	OpClear

	// BuiltinCount is the size of the built-in dispatch table and the first
	// opcode available to Registry.Register.
	BuiltinCount
)

var opcodeNames = [BuiltinCount]string{
	OpForward:     "forward",
	OpBackward:    "backward",
	OpGoto:        "goto",
	OpTeleport:    "teleport",
	OpLeft:        "left",
	OpRight:       "right",
	OpHome:        "home",
	OpSetX:        "setx",
	OpSetY:        "sety",
	OpSetHeading:  "set_heading",
	OpHeadTowards: "head_towards",
	OpPenUp:       "penup",
	OpPenDown:     "pendown",
	OpHide:        "hide",
	OpShow:        "show",
	OpSetColor:    "set_color",
	OpSetWidth:    "set_width",
	OpSetSpeed:    "set_speed",
	OpDot:         "dot",
	OpClear:       "clear",
}

// Builtin reports whether op is inside the reserved built-in range.
func (op Opcode) Builtin() bool {
	return op >= 0 && op < BuiltinCount
}

// String returns the opcode name, or "op(N)" for custom opcodes.
func (op Opcode) String() string {
	if op.Builtin() {
		return opcodeNames[op]
	}
	return fmt.Sprintf("op(%d)", int(op))
}

// ParseOpcode resolves a built-in opcode by name. It is meant for loading
// program files; dispatch itself never goes through names.
func ParseOpcode(name string) (Opcode, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "fd":
		return OpForward, true
	case "bk", "back":
		return OpBackward, true
	case "lt":
		return OpLeft, true
	case "rt":
		return OpRight, true
	case "pu", "up":
		return OpPenUp, true
	case "pd", "down":
		return OpPenDown, true
	}
	for i, n := range opcodeNames {
		if n == name {
			return Opcode(i), true
		}
	}
	return 0, false
}
