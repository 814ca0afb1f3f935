package vm

import "fmt"

// Line is one disassembled program word.
type Line struct {
	Addr   uint16
	Opcode uint16
	Text   string
}

func (l Line) String() string {
	return fmt.Sprintf("0x%04x  %04X  %s", l.Addr, l.Opcode, l.Text)
}

// Disassemble decodes program as it would be laid out from ProgramStart.
// A trailing odd byte is listed as data.
func Disassemble(program []byte) []Line {
	lines := make([]Line, 0, (len(program)+1)/InstructionSize)

	for i := 0; i < len(program); i += InstructionSize {
		addr := ProgramStart + uint16(i)

		if i+1 >= len(program) {
			lines = append(lines, Line{
				Addr:   addr,
				Opcode: uint16(program[i]),
				Text:   fmt.Sprintf("db 0x%02x", program[i]),
			})
			break
		}

		opcode := uint16(program[i])<<8 | uint16(program[i+1])
		lines = append(lines, Line{
			Addr:   addr,
			Opcode: opcode,
			Text:   DisassembleOpcode(opcode),
		})
	}

	return lines
}
