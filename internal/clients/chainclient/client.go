package chainclient

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shopspring/decimal"

	"github.com/publu/gearbox-sentinel/internal/config"
	"github.com/publu/gearbox-sentinel/internal/observability/metrics"
)

// 4-byte function selectors, derived from the canonical signatures.
var (
	selCreditAccounts        = sel("creditAccounts()")
	selCreditAccountInfo     = sel("creditAccountInfo(address)")
	selPool                  = sel("pool()")
	selAsset                 = sel("asset()")
	selUnderlyingToken       = sel("underlyingToken()")
	selCollateralTokenByMask = sel("collateralTokenByMask(uint256)")
	selBalanceOf             = sel("balanceOf(address)")
)

func sel(signature string) []byte {
	return crypto.Keccak256([]byte(signature))[:4]
}

// EVMCaller is the subset of the Ethereum RPC the client uses.
type EVMCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

type Client struct {
	evm EVMCaller
	cfg *config.ChainConfig
}

// NewClient dials the chain's RPC endpoint.
func NewClient(cfg *config.ChainConfig) (*Client, error) {
	evm, err := ethclient.Dial(cfg.RPCEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to dial rpc endpoint %s: %w", cfg.RPCEndpoint, err)
	}
	return &Client{evm: evm, cfg: cfg}, nil
}

// NewClientWithCaller wires an existing caller; used by tests.
func NewClientWithCaller(evm EVMCaller, cfg *config.ChainConfig) *Client {
	return &Client{evm: evm, cfg: cfg}
}

func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	if _, err := c.evm.BlockNumber(ctx); err != nil {
		return fmt.Errorf("rpc endpoint %s did not answer: %w", c.cfg.RPCEndpoint, err)
	}
	return nil
}

func (c *Client) CreditAccounts(ctx context.Context, manager common.Address) ([]common.Address, error) {
	raw, err := c.call(ctx, "creditAccounts", manager, selCreditAccounts)
	if err != nil {
		return nil, fmt.Errorf("creditAccounts call on %s failed: %w", manager.Hex(), err)
	}
	return decodeAddressArray(raw), nil
}

func (c *Client) CreditAccountInfo(ctx context.Context, manager, account common.Address) (*CreditAccountInfo, error) {
	data := append(append([]byte{}, selCreditAccountInfo...), common.LeftPadBytes(account.Bytes(), 32)...)
	raw, err := c.call(ctx, "creditAccountInfo", manager, data)
	if err != nil {
		return nil, fmt.Errorf("creditAccountInfo call on %s failed: %w", manager.Hex(), err)
	}
	info := decodeCreditAccountInfo(raw)
	if info == nil {
		return nil, fmt.Errorf("creditAccountInfo on %s returned short data (%d bytes)", manager.Hex(), len(raw))
	}
	return info, nil
}

// Underlying follows manager -> pool() -> asset(), falling back to the
// pre-4626 underlyingToken() accessor.
func (c *Client) Underlying(ctx context.Context, manager common.Address) (common.Address, error) {
	raw, err := c.call(ctx, "pool", manager, selPool)
	if err != nil {
		return common.Address{}, fmt.Errorf("pool call on %s failed: %w", manager.Hex(), err)
	}
	pool, ok := decodeAddressWord(raw)
	if !ok {
		return common.Address{}, fmt.Errorf("pool call on %s returned short data", manager.Hex())
	}

	raw, err = c.call(ctx, "asset", pool, selAsset)
	if err == nil {
		if underlying, ok := decodeAddressWord(raw); ok {
			return underlying, nil
		}
	}

	raw, err = c.call(ctx, "underlyingToken", pool, selUnderlyingToken)
	if err != nil {
		return common.Address{}, fmt.Errorf("underlyingToken call on %s failed: %w", pool.Hex(), err)
	}
	underlying, ok := decodeAddressWord(raw)
	if !ok {
		return common.Address{}, fmt.Errorf("underlyingToken call on %s returned short data", pool.Hex())
	}
	return underlying, nil
}

func (c *Client) CollateralTokenByMask(ctx context.Context, manager common.Address, mask *big.Int) (common.Address, decimal.Decimal, error) {
	data := append(append([]byte{}, selCollateralTokenByMask...), common.LeftPadBytes(mask.Bytes(), 32)...)
	raw, err := c.call(ctx, "collateralTokenByMask", manager, data)
	if err != nil {
		return common.Address{}, decimal.Zero, fmt.Errorf("collateralTokenByMask call on %s failed: %w", manager.Hex(), err)
	}
	token, lt, ok := decodeTokenThreshold(raw)
	if !ok {
		return common.Address{}, decimal.Zero, fmt.Errorf("collateralTokenByMask on %s returned short data", manager.Hex())
	}
	return token, lt, nil
}

func (c *Client) BalanceOf(ctx context.Context, token, holder common.Address) (*big.Int, error) {
	data := append(append([]byte{}, selBalanceOf...), common.LeftPadBytes(holder.Bytes(), 32)...)
	raw, err := c.call(ctx, "balanceOf", token, data)
	if err != nil {
		return nil, fmt.Errorf("balanceOf call on %s failed: %w", token.Hex(), err)
	}
	if len(raw) < 32 {
		return nil, fmt.Errorf("balanceOf on %s returned short data", token.Hex())
	}
	return new(big.Int).SetBytes(raw[:32]), nil
}

// call performs one eth_call at the latest block with the chain's bounded
// timeout and retry budget.
func (c *Client) call(ctx context.Context, method string, to common.Address, data []byte) ([]byte, error) {
	callForResult := func() ([]byte, error) {
		callCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()

		start := time.Now()
		raw, err := c.evm.CallContract(callCtx, ethereum.CallMsg{To: &to, Data: data}, nil)
		if err != nil {
			metrics.RecordChainCallDuration(method, metrics.Error, time.Since(start))
			return nil, err
		}
		metrics.RecordChainCallDuration(method, metrics.Success, time.Since(start))
		return raw, nil
	}

	return retry.DoWithData(callForResult,
		retry.Context(ctx),
		retry.Attempts(c.cfg.MaxRetryTimes),
		retry.Delay(c.cfg.RetryInterval),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
}
