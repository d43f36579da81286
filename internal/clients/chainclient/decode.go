package chainclient

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

const wordSize = 32

// Liquidation thresholds come back in basis points of 1e4.
var percentageFactor = decimal.NewFromInt(10_000)

// CreditAccountInfo is the creditAccountInfo(address) return struct:
// (debt, cumulativeIndexLastUpdate, cumulativeQuotaInterest, quotaFees,
// enabledTokensMask, flags, lastDebtUpdate, borrower).
type CreditAccountInfo struct {
	Debt                      *big.Int
	CumulativeIndexLastUpdate *big.Int
	CumulativeQuotaInterest   *big.Int
	QuotaFees                 *big.Int
	EnabledTokensMask         *big.Int
	Flags                     *big.Int
	LastDebtUpdate            uint64
	Borrower                  common.Address
}

func word(raw []byte, i int) []byte {
	return raw[i*wordSize : (i+1)*wordSize]
}

// decodeAddressArray decodes an ABI-encoded dynamic address array: a word
// holding the data offset, the length word at that offset, then one
// right-aligned address per word.
func decodeAddressArray(raw []byte) []common.Address {
	if len(raw) < 2*wordSize {
		return nil
	}
	offset := new(big.Int).SetBytes(word(raw, 0))
	if !offset.IsInt64() || offset.Int64()+wordSize > int64(len(raw)) {
		return nil
	}
	off := int(offset.Int64())
	length := new(big.Int).SetBytes(raw[off : off+wordSize])
	if !length.IsInt64() {
		return nil
	}
	n := int(length.Int64())
	if off+wordSize+n*wordSize > len(raw) {
		return nil
	}

	addrs := make([]common.Address, 0, n)
	for i := 0; i < n; i++ {
		start := off + wordSize + i*wordSize
		addrs = append(addrs, common.BytesToAddress(raw[start+12:start+wordSize]))
	}
	return addrs
}

func decodeCreditAccountInfo(raw []byte) *CreditAccountInfo {
	if len(raw) < 8*wordSize {
		return nil
	}
	lastUpdate := new(big.Int).SetBytes(word(raw, 6))
	var height uint64
	if lastUpdate.IsUint64() {
		height = lastUpdate.Uint64()
	}
	return &CreditAccountInfo{
		Debt:                      new(big.Int).SetBytes(word(raw, 0)),
		CumulativeIndexLastUpdate: new(big.Int).SetBytes(word(raw, 1)),
		CumulativeQuotaInterest:   new(big.Int).SetBytes(word(raw, 2)),
		QuotaFees:                 new(big.Int).SetBytes(word(raw, 3)),
		EnabledTokensMask:         new(big.Int).SetBytes(word(raw, 4)),
		Flags:                     new(big.Int).SetBytes(word(raw, 5)),
		LastDebtUpdate:            height,
		Borrower:                  common.BytesToAddress(word(raw, 7)[12:]),
	}
}

// decodeAddressWord reads a single right-aligned address return value.
func decodeAddressWord(raw []byte) (common.Address, bool) {
	if len(raw) < wordSize {
		return common.Address{}, false
	}
	return common.BytesToAddress(raw[12:wordSize]), true
}

// decodeTokenThreshold decodes (address token, uint16 liquidationThreshold)
// and scales the threshold from basis points into [0, 1].
func decodeTokenThreshold(raw []byte) (common.Address, decimal.Decimal, bool) {
	if len(raw) < 2*wordSize {
		return common.Address{}, decimal.Zero, false
	}
	token := common.BytesToAddress(word(raw, 0)[12:])
	bp := new(big.Int).SetBytes(word(raw, 1))
	lt := decimal.NewFromBigInt(bp, 0).Div(percentageFactor)
	return token, lt, true
}
