package cli

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	million = decimal.NewFromInt(1_000_000)
	oneDec  = decimal.NewFromInt(1)
)

// fmtToken renders a raw token amount in whole units: no decimals above a
// million, four above one, six below.
func fmtToken(raw *big.Int, decimals uint8) string {
	if raw == nil || raw.Sign() == 0 {
		return "0"
	}
	val := decimal.NewFromBigInt(raw, -int32(decimals))
	switch {
	case val.GreaterThanOrEqual(million):
		return groupThousands(val.StringFixed(0))
	case val.GreaterThanOrEqual(oneDec):
		return groupThousands(val.StringFixed(4))
	default:
		return val.StringFixed(6)
	}
}

// fmtUSD renders a USD amount with cents, e.g. $507,208.42.
func fmtUSD(v decimal.Decimal) string {
	return "$" + groupThousands(v.StringFixed(2))
}

// fmtUSDWhole renders a USD amount without cents, used for TVL columns.
func fmtUSDWhole(v decimal.Decimal) string {
	return "$" + groupThousands(v.StringFixed(0))
}

// groupThousands inserts comma separators into the integer part of a
// decimal string.
func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}
	intPart, fracPart, hasFrac := strings.Cut(s, ".")

	n := len(intPart)
	if n <= 3 {
		if hasFrac {
			return sign + intPart + "." + fracPart
		}
		return sign + intPart
	}

	var b strings.Builder
	b.WriteString(sign)
	head := n % 3
	if head > 0 {
		b.WriteString(intPart[:head])
		if n > head {
			b.WriteByte(',')
		}
	}
	for i := head; i < n; i += 3 {
		b.WriteString(intPart[i : i+3])
		if i+3 < n {
			b.WriteByte(',')
		}
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(fracPart)
	}
	return b.String()
}

// shortAddr abbreviates a hex address for display.
func shortAddr(hex string) string {
	if len(hex) <= 14 {
		return hex
	}
	return hex[:8] + "..." + hex[len(hex)-6:]
}
