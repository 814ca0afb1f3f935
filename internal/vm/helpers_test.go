package vm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestVM builds a machine whose program is the given instruction words.
func newTestVM(t *testing.T, words ...uint16) *VM {
	t.Helper()

	program := make([]byte, 0, len(words)*InstructionSize)
	for _, w := range words {
		program = append(program, byte(w>>8), byte(w))
	}

	machine, err := New(DefaultConfig(), program)
	require.NoError(t, err)

	return machine
}

func litPixels(d *Display) int {
	n := 0
	for _, lit := range d.pixels {
		if lit {
			n++
		}
	}
	return n
}
