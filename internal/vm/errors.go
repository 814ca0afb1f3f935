package vm

import (
	"errors"
	"fmt"
)

var (
	ErrUnimplementedOpcode = errors.New("unimplemented opcode")
	ErrOutOfBounds         = errors.New("out of bounds")
	ErrProgramTooLarge     = errors.New("program too large")
)

// OpcodeError reports an instruction word the decoder has no handler for.
// PC is the address the word was fetched from.
type OpcodeError struct {
	PC     uint16
	Opcode uint16
}

func (e *OpcodeError) Error() string {
	return fmt.Sprintf("unimplemented opcode 0x%04X at 0x%04X", e.Opcode, e.PC)
}

func (e *OpcodeError) Unwrap() error {
	return ErrUnimplementedOpcode
}

// BoundsError reports an access outside memory, the register file or the
// display grid.
type BoundsError struct {
	What  string
	Addr  int
	Limit int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("%s 0x%04X out of bounds (limit 0x%04X)", e.What, e.Addr, e.Limit)
}

func (e *BoundsError) Unwrap() error {
	return ErrOutOfBounds
}
