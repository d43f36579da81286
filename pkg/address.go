package pkg

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/publu/gearbox-sentinel/internal/types"
)

// ValidateAddress parses a hex wallet address, rejecting malformed input
// before any network call is made.
func ValidateAddress(address string) (common.Address, error) {
	if !common.IsHexAddress(address) {
		return common.Address{}, fmt.Errorf("%w: %q", types.ErrInvalidAddress, address)
	}
	return common.HexToAddress(address), nil
}
