package types

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Token is the display metadata for a known ERC-20 token.
type Token struct {
	Address  common.Address
	Symbol   string
	Decimals uint8
}

// Chain is one supported network: its RPC endpoint and the ordered list of
// credit managers deployed on it. The manager order is significant, it
// determines scan order and the numbering in output.
type Chain struct {
	ID          string
	DisplayName string
	RPCEndpoint string
	Managers    []common.Address

	knownTokens map[common.Address]Token
}

// NewChain builds an immutable chain entry. Token keys are normalized so
// lookups are case-insensitive on the hex form.
func NewChain(id, displayName, rpcEndpoint string, managers []common.Address, tokens []Token) *Chain {
	known := make(map[common.Address]Token, len(tokens))
	for _, t := range tokens {
		known[t.Address] = t
	}
	return &Chain{
		ID:          strings.ToLower(id),
		DisplayName: displayName,
		RPCEndpoint: rpcEndpoint,
		Managers:    managers,
		knownTokens: known,
	}
}

// Token resolves display metadata for a token address. Unknown tokens fall
// back to a truncated address and 18 decimals, same as unknown tokens have
// always been rendered.
func (c *Chain) Token(addr common.Address) Token {
	if t, ok := c.knownTokens[addr]; ok {
		return t
	}
	return Token{
		Address:  addr,
		Symbol:   addr.Hex()[:10] + "...",
		Decimals: 18,
	}
}
