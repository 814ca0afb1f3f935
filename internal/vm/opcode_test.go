package vm

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expectedMnemonic(opcode uint16) string {
	if opcode == 0x00E0 {
		return "cls"
	}

	switch opcode >> 12 {
	case 0x1:
		return "jmp"
	case 0x6:
		return "mov"
	case 0x7:
		return "add"
	case 0xA:
		return "mvi"
	case 0xD:
		return "sprite"
	}

	return "unknown"
}

func TestDecodeRoutesEveryWord(t *testing.T) {
	for op := 0; op <= 0xFFFF; op++ {
		opcode := uint16(op)
		if !assert.Equal(t, expectedMnemonic(opcode), decode(opcode).Mnemonic, "opcode 0x%04X", opcode) {
			return
		}
	}
}

func TestDecodeSystemCategory(t *testing.T) {
	table := []struct {
		opcode   uint16
		mnemonic string
	}{
		{0x00E0, "cls"},
		{0x0000, "unknown"},
		{0x00EE, "unknown"},
		{0x00E1, "unknown"},
		{0x01E0, "unknown"},
		{0x0FE0, "unknown"},
	}

	for _, entry := range table {
		assert.Equal(t, entry.mnemonic, decode(entry.opcode).Mnemonic, "opcode 0x%04X", entry.opcode)
	}
}

func TestOperandFields(t *testing.T) {
	const opcode = uint16(0xDABC)

	assert.Equal(t, uint16(0xA), regX(opcode))
	assert.Equal(t, uint16(0xB), regY(opcode))
	assert.Equal(t, uint16(0xC), imm4(opcode))
	assert.Equal(t, uint8(0xBC), imm8(opcode))
	assert.Equal(t, uint16(0xABC), addr12(opcode))
}

func TestDisassembleOpcode(t *testing.T) {
	table := []struct {
		opcode uint16
		text   string
	}{
		{0x00E0, "cls"},
		{0x1228, "jmp 0x0228"},
		{0x6C0A, "mov vc, 10"},
		{0x7F01, "add vf, 1"},
		{0xA22A, "mvi 0x022a"},
		{0xD01F, "sprite v0, v1, 15"},
		{0xF00A, "unknown 0xF00A"},
	}

	for _, entry := range table {
		assert.Equal(t, entry.text, DisassembleOpcode(entry.opcode))
	}
}

func TestClearScreenScenario(t *testing.T) {
	machine := newTestVM(t, 0x00E0)
	require.NoError(t, machine.display.SetPixel(10, 10, true))

	require.NoError(t, machine.Step())

	assert.Zero(t, litPixels(machine.display))
	assert.Equal(t, uint16(0x202), machine.state.PC())
	assert.Zero(t, machine.state.Index())
	assert.Equal(t, [RegisterCount]uint8{}, machine.state.registers)
}

func TestJump(t *testing.T) {
	for _, prior := range []uint16{0x200, 0x400, 0xFF0} {
		machine := newTestVM(t)
		require.NoError(t, machine.state.SetMemory(prior, 0x13))
		require.NoError(t, machine.state.SetMemory(prior+1, 0x45))
		machine.state.SetPC(prior)

		require.NoError(t, machine.Step())
		assert.Equal(t, uint16(0x345), machine.state.PC())
	}
}

func TestJumpThenFetchReadsTarget(t *testing.T) {
	machine := newTestVM(t, 0x1300)
	require.NoError(t, machine.state.SetMemory(0x300, 0x6A))
	require.NoError(t, machine.state.SetMemory(0x301, 0x42))

	require.NoError(t, machine.Step())
	require.NoError(t, machine.Step())

	v, err := machine.state.Register(0xA)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x42), v)
	assert.Equal(t, uint16(0x302), machine.state.PC())
}

func TestJumpToSelfLoops(t *testing.T) {
	machine := newTestVM(t, 0x00E0, 0x1202)

	require.NoError(t, machine.Step())
	assert.False(t, machine.Looped())

	for i := 0; i < 3; i++ {
		require.NoError(t, machine.Step())
		assert.Equal(t, uint16(0x202), machine.state.PC())
	}
	assert.True(t, machine.Looped())
}

func TestSetRegisterEveryIndex(t *testing.T) {
	for x := uint16(0); x < RegisterCount; x++ {
		t.Run(fmt.Sprintf("v%x", x), func(t *testing.T) {
			value := uint8(0x80 | x)
			machine := newTestVM(t, 0x6000|x<<8|uint16(value))

			require.NoError(t, machine.Step())

			for r := uint16(0); r < RegisterCount; r++ {
				got, err := machine.state.Register(r)
				require.NoError(t, err)
				if r == x {
					assert.Equal(t, value, got, "v%x", r)
				} else {
					assert.Zero(t, got, "v%x", r)
				}
			}
		})
	}
}

func TestAddRegisterEveryIndex(t *testing.T) {
	for x := uint16(0); x < RegisterCount; x++ {
		t.Run(fmt.Sprintf("v%x", x), func(t *testing.T) {
			machine := newTestVM(t,
				0x6000|x<<8|0x10,
				0x7000|x<<8|0x05,
			)

			require.NoError(t, machine.Step())
			require.NoError(t, machine.Step())

			for r := uint16(0); r < RegisterCount; r++ {
				got, err := machine.state.Register(r)
				require.NoError(t, err)
				if r == x {
					assert.Equal(t, uint8(0x15), got, "v%x", r)
				} else {
					assert.Zero(t, got, "v%x", r)
				}
			}
		})
	}
}

func TestAddRegisterWraps(t *testing.T) {
	table := []struct {
		start, add, want uint8
	}{
		{0xFF, 0x02, 0x01},
		{0x80, 0x80, 0x00},
		{0xFE, 0x01, 0xFF},
		{0x00, 0x00, 0x00},
	}

	for _, entry := range table {
		machine := newTestVM(t, 0x6000|uint16(entry.start), 0x7000|uint16(entry.add))

		require.NoError(t, machine.Step())
		require.NoError(t, machine.Step())

		got, err := machine.state.Register(0)
		require.NoError(t, err)
		assert.Equal(t, entry.want, got, "0x%02x + 0x%02x", entry.start, entry.add)

		flag, err := machine.state.Register(FlagRegister)
		require.NoError(t, err)
		assert.Zero(t, flag, "add leaves vf alone")
	}
}

func TestSetAddress(t *testing.T) {
	machine := newTestVM(t, 0xA22A, 0xAFFF)

	require.NoError(t, machine.Step())
	assert.Equal(t, uint16(0x22A), machine.state.Index())

	require.NoError(t, machine.Step())
	assert.Equal(t, uint16(0xFFF), machine.state.Index())
}

func TestUnimplementedOpcode(t *testing.T) {
	machine := newTestVM(t, 0x00E0, 0x2208)

	require.NoError(t, machine.Step())
	err := machine.Step()

	require.ErrorIs(t, err, ErrUnimplementedOpcode)

	var opErr *OpcodeError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, uint16(0x202), opErr.PC)
	assert.Equal(t, uint16(0x2208), opErr.Opcode)
	assert.Contains(t, err.Error(), "0x2208")
}
