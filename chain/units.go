package chain

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/params"
)

// AmoyChainID is the chain id of the Polygon Amoy testnet.
const AmoyChainID = 80002

// NetworkLabel names the network a health check is connected to.
func NetworkLabel(chainID *big.Int) string {
	if chainID != nil && chainID.IsInt64() && chainID.Int64() == AmoyChainID {
		return "polygon-amoy"
	}
	return "unknown"
}

// FormatEther renders wei as a decimal ether amount with at least one
// fractional digit: 10 ether is "10.0", a quarter is "0.25".
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0.0"
	}

	sign := ""
	v := new(big.Int).Set(wei)
	if v.Sign() < 0 {
		sign = "-"
		v.Neg(v)
	}

	whole, frac := new(big.Int).QuoRem(v, big.NewInt(params.Ether), new(big.Int))
	fracStr := strings.TrimRight(padLeft(frac.String(), 18), "0")
	if fracStr == "" {
		fracStr = "0"
	}
	return sign + whole.String() + "." + fracStr
}

func padLeft(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return strings.Repeat("0", n-len(s)) + s
}
