package datasrc_test

import (
	"testing"

	"github.com/katalvlaran/tpglearn/datasrc"
	"github.com/stretchr/testify/require"
)

func TestRegisters_ResetClearsAllCells(t *testing.T) {
	r := datasrc.NewRegisters("regs", 4)
	r.Set(0, 1)
	r.Set(3, 2)
	r.Reset()
	for i := 0; i < 4; i++ {
		require.Zero(t, r.At(i))
	}
}

func TestRegisters_AddressSpaceMatchesLen(t *testing.T) {
	r := datasrc.NewRegisters("regs", 8)
	require.Equal(t, 8, r.AddressSpace(datasrc.Scalar()))
	require.Equal(t, 8, r.Len())
}
