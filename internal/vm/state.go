package vm

import (
	"fmt"
	"io"
	"log/slog"
)

const (
	MemorySize    = 4096
	RegisterCount = 16

	ProgramStart    = uint16(0x200)
	MaxProgramSize  = MemorySize - int(ProgramStart)
	InstructionSize = 2

	// FlagRegister is VF, the carry/collision register.
	FlagRegister = 0xF

	addressMask = 0x0FFF
)

// State is the machine state: memory, V registers, program counter and the
// index register I. All accessors are bounds checked.
type State struct {
	memory    [MemorySize]uint8 // Memory (4k)
	registers [RegisterCount]uint8

	pc    uint16 // Program counter
	index uint16 // Index register
}

func NewState() *State {
	return &State{}
}

// Load reads a program image from r into memory at ProgramStart and points
// the program counter at it.
func (s *State) Load(r io.Reader) error {
	bs, err := io.ReadAll(io.LimitReader(r, int64(MaxProgramSize)+1))
	if err != nil {
		return fmt.Errorf("unable to read program: %w", err)
	}

	return s.LoadBytes(bs)
}

func (s *State) LoadBytes(program []byte) error {
	if len(program) > MaxProgramSize {
		return fmt.Errorf("%w: %d bytes, at most %d fit", ErrProgramTooLarge, len(program), MaxProgramSize)
	}

	slog.Info("load program", "at", fmt.Sprintf("0x%04x", ProgramStart), "n", len(program))
	copy(s.memory[ProgramStart:], program)
	s.pc = ProgramStart

	return nil
}

func (s *State) Memory(addr uint16) (uint8, error) {
	if int(addr) >= MemorySize {
		return 0, &BoundsError{What: "memory address", Addr: int(addr), Limit: MemorySize}
	}
	return s.memory[addr], nil
}

func (s *State) SetMemory(addr uint16, value uint8) error {
	if int(addr) >= MemorySize {
		return &BoundsError{What: "memory address", Addr: int(addr), Limit: MemorySize}
	}
	s.memory[addr] = value
	return nil
}

// MemoryRange returns a view of n bytes starting at addr.
func (s *State) MemoryRange(addr uint16, n int) ([]uint8, error) {
	end := int(addr) + n
	if n < 0 || end > MemorySize {
		return nil, &BoundsError{What: "memory range end", Addr: end, Limit: MemorySize}
	}
	return s.memory[addr:end], nil
}

func (s *State) Register(x uint16) (uint8, error) {
	if x >= RegisterCount {
		return 0, &BoundsError{What: "register", Addr: int(x), Limit: RegisterCount}
	}
	return s.registers[x], nil
}

func (s *State) SetRegister(x uint16, value uint8) error {
	if x >= RegisterCount {
		return &BoundsError{What: "register", Addr: int(x), Limit: RegisterCount}
	}
	s.registers[x] = value
	return nil
}

func (s *State) PC() uint16 {
	return s.pc
}

func (s *State) SetPC(pc uint16) {
	s.pc = pc
}

func (s *State) Index() uint16 {
	return s.index
}

// SetIndex stores addr in I, keeping its low 12 bits.
func (s *State) SetIndex(addr uint16) {
	s.index = addr & addressMask
}

// fetch reads the big-endian word at the program counter and advances it.
func (s *State) fetch() (uint16, error) {
	if int(s.pc)+1 >= MemorySize {
		return 0, &BoundsError{What: "program counter", Addr: int(s.pc), Limit: MemorySize - InstructionSize}
	}

	hi := s.memory[s.pc]
	lo := s.memory[s.pc+1]
	s.pc += InstructionSize

	return uint16(hi)<<8 | uint16(lo), nil // Op code is two bytes
}
