package pkg

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/publu/gearbox-sentinel/internal/types"
	"github.com/publu/gearbox-sentinel/testutil"
)

func TestValidateAddress(t *testing.T) {
	addr, err := ValidateAddress("0xd25b40e0c6d45c8dc297a2c1c762e0b5f0780de8")
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0xd25b40e0c6d45c8dc297a2c1c762e0b5f0780de8"), addr)

	// Mixed case and bare-hex forms are accepted.
	_, err = ValidateAddress("0xD25B40E0c6d45c8DC297a2c1c762E0b5F0780de8")
	require.NoError(t, err)
	_, err = ValidateAddress("d25b40e0c6d45c8dc297a2c1c762e0b5f0780de8")
	require.NoError(t, err)
}

func TestValidateAddressRoundTrip(t *testing.T) {
	for i := 0; i < 20; i++ {
		want := testutil.RandomAddress()
		got, err := ValidateAddress(want.Hex())
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestValidateAddressRejectsMalformed(t *testing.T) {
	for _, in := range []string{
		"",
		"0x123",
		"0xzzzz40e0c6d45c8dc297a2c1c762e0b5f0780de8",
		"vitalik.eth",
		"0xd25b40e0c6d45c8dc297a2c1c762e0b5f0780de8ff",
	} {
		_, err := ValidateAddress(in)
		assert.ErrorIs(t, err, types.ErrInvalidAddress, "input %q", in)
	}
}
