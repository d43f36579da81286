package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/publu/gearbox-sentinel/internal/types"
)

// Registry is the static chain table built from config at process start.
// It is never mutated afterwards.
type Registry struct {
	chains       map[string]*types.Chain
	defaultChain string
}

// NewRegistry builds the registry from validated config.
func NewRegistry(cfg *Config) *Registry {
	chains := make(map[string]*types.Chain, len(cfg.Chains))
	for i := range cfg.Chains {
		cc := &cfg.Chains[i]
		managers := make([]common.Address, 0, len(cc.CreditManagers))
		for _, cm := range cc.CreditManagers {
			managers = append(managers, common.HexToAddress(cm))
		}
		tokens := make([]types.Token, 0, len(cc.Tokens))
		for _, tc := range cc.Tokens {
			tokens = append(tokens, types.Token{
				Address:  common.HexToAddress(tc.Address),
				Symbol:   tc.Symbol,
				Decimals: tc.Decimals,
			})
		}
		chain := types.NewChain(cc.ID, cc.DisplayName, cc.RPCEndpoint, managers, tokens)
		chains[chain.ID] = chain
	}
	return &Registry{
		chains:       chains,
		defaultChain: strings.ToLower(cfg.DefaultChain),
	}
}

// Resolve returns the chain for the given id, or the default chain when the
// id is empty.
func (r *Registry) Resolve(chainID string) (*types.Chain, error) {
	if chainID == "" {
		chainID = r.defaultChain
	}
	chain, ok := r.chains[strings.ToLower(chainID)]
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %s)",
			types.ErrUnknownChain, chainID, strings.Join(r.ChainIDs(), ", "))
	}
	return chain, nil
}

// ChainIDs lists the supported chain ids in stable order.
func (r *Registry) ChainIDs() []string {
	ids := make([]string, 0, len(r.chains))
	for id := range r.chains {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
