package vm

import (
	"context"
	"fmt"
	"log/slog"
)

func (vm *VM) executeOpcode(pc, opcode uint16) error {
	instr := decode(opcode)

	if slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		slog.Debug(
			"exec",
			"pc", fmt.Sprintf("0x%04x", pc),
			"opcode", fmt.Sprintf("0x%04x", opcode),
			"instr", instr.Name(opcode),
		)
	}

	return instr.Execute(vm, opcode)
}

type instruction struct {
	Mnemonic string
	Name     func(opcode uint16) string
	Execute  func(vm *VM, opcode uint16) error
}

// decoder picks the instruction for one high-nibble category.
type decoder func(opcode uint16) instruction

var categories [16]decoder

func init() {
	for i := range categories {
		categories[i] = always(unknownInstruction)
	}

	categories[0x0] = decodeSystem
	categories[0x1] = always(jmpInstruction)
	categories[0x6] = always(movInstruction)
	categories[0x7] = always(addInstruction)
	categories[0xA] = always(mviInstruction)
	categories[0xD] = always(spriteInstruction)
}

func always(instr instruction) decoder {
	return func(uint16) instruction { return instr }
}

func decode(opcode uint16) instruction {
	return categories[opcode>>12](opcode)
}

// decodeSystem handles the 0NNN category.
func decodeSystem(opcode uint16) instruction {
	switch opcode & 0x0FFF {
	case 0x00E0:
		// 00E0 - Clear screen
		return clsInstruction
	}

	return unknownInstruction
}

// Operand fields. Each masks its nibbles before shifting.

func regX(opcode uint16) uint16 {
	return (opcode & 0x0F00) >> 8
}

func regY(opcode uint16) uint16 {
	return (opcode & 0x00F0) >> 4
}

func imm4(opcode uint16) uint16 {
	return opcode & 0x000F
}

func imm8(opcode uint16) uint8 {
	return uint8(opcode & 0x00FF)
}

func addr12(opcode uint16) uint16 {
	return opcode & 0x0FFF
}

var (
	// 00E0	cls	Clear the screen
	clsInstruction = instruction{
		Mnemonic: "cls",
		Name: func(opcode uint16) string {
			return "cls"
		},
		Execute: func(vm *VM, opcode uint16) error {
			vm.display.Clear()
			return nil
		},
	}

	// 1xxx	jmp xxx	jump to address xxx
	jmpInstruction = instruction{
		Mnemonic: "jmp",
		Name: func(opcode uint16) string {
			return fmt.Sprintf("jmp 0x%04x", addr12(opcode))
		},
		Execute: func(vm *VM, opcode uint16) error {
			pc := addr12(opcode)
			if pc == vm.state.pc-InstructionSize && !vm.looped {
				vm.looped = true
				slog.Info("program looped", "pc", fmt.Sprintf("0x%04x", pc))
			}
			vm.state.pc = pc
			return nil
		},
	}

	// 6rxx	mov vr,xx	move constant to register r
	movInstruction = instruction{
		Mnemonic: "mov",
		Name: func(opcode uint16) string {
			return fmt.Sprintf("mov v%x, %d", regX(opcode), imm8(opcode))
		},
		Execute: func(vm *VM, opcode uint16) error {
			return vm.state.SetRegister(regX(opcode), imm8(opcode))
		},
	}

	// 7rxx	add vr,xx	add constant to register r	No carry generated
	addInstruction = instruction{
		Mnemonic: "add",
		Name: func(opcode uint16) string {
			return fmt.Sprintf("add v%x, %d", regX(opcode), imm8(opcode))
		},
		Execute: func(vm *VM, opcode uint16) error {
			vX := regX(opcode)
			x, err := vm.state.Register(vX)
			if err != nil {
				return err
			}

			// uint8 addition wraps mod 256, VF is left alone.
			return vm.state.SetRegister(vX, x+imm8(opcode))
		},
	}

	// axxx	mvi xxx	Load index register with constant xxx
	mviInstruction = instruction{
		Mnemonic: "mvi",
		Name: func(opcode uint16) string {
			return fmt.Sprintf("mvi 0x%04x", addr12(opcode))
		},
		Execute: func(vm *VM, opcode uint16) error {
			vm.state.SetIndex(addr12(opcode))
			return nil
		},
	}

	// drys	sprite rx,ry,s	Draw sprite at screen location rx,ry height s
	// Sprites stored in memory at location in index register, 8 bits wide.
	// The origin wraps around the screen, pixels past the edges are clipped.
	// If when drawn, clears a pixel, vf is set to 1 otherwise it is zero.
	// All drawing is xor drawing (e.g. it toggles the screen pixels)
	spriteInstruction = instruction{
		Mnemonic: "sprite",
		Name: func(opcode uint16) string {
			return fmt.Sprintf("sprite v%x, v%x, %d", regX(opcode), regY(opcode), imm4(opcode))
		},
		Execute: func(vm *VM, opcode uint16) error {
			height := int(imm4(opcode))

			vx, err := vm.state.Register(regX(opcode))
			if err != nil {
				return err
			}
			vy, err := vm.state.Register(regY(opcode))
			if err != nil {
				return err
			}

			rows, err := vm.state.MemoryRange(vm.state.index, height)
			if err != nil {
				return fmt.Errorf("sprite at 0x%04x: %w", vm.state.index, err)
			}

			xLocation := int(vx) % ScreenWidth
			yLocation := int(vy) % ScreenHeight

			hasCollision := uint8(0)
			for y, row := range rows {
				screenY := yLocation + y
				if screenY >= ScreenHeight {
					break
				}

				const width = 8
				for x := 0; x < width; x++ {
					screenX := xLocation + x
					if screenX >= ScreenWidth {
						break
					}

					mask := uint8(0x80 >> x)
					if row&mask == 0 {
						continue
					}

					if vm.display.flip(screenX, screenY) {
						hasCollision = 1
					}
				}
			}

			return vm.state.SetRegister(FlagRegister, hasCollision)
		},
	}

	unknownInstruction = instruction{
		Mnemonic: "unknown",
		Name: func(opcode uint16) string {
			return fmt.Sprintf("unknown 0x%04X", opcode)
		},
		Execute: func(vm *VM, opcode uint16) error {
			return &OpcodeError{PC: vm.state.pc - InstructionSize, Opcode: opcode}
		},
	}
)

// DisassembleOpcode renders a single instruction word.
func DisassembleOpcode(opcode uint16) string {
	return decode(opcode).Name(opcode)
}
