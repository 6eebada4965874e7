package wallet

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

const weiDecimals = 18

// ToWei converts an ETH amount to wei, truncating below one wei.  The
// decimal text of price is scaled so 0.049 becomes exactly 49e15.
func ToWei(price float64) (*big.Int, error) {
	if price < 0 {
		return nil, fmt.Errorf("negative price %v", price)
	}
	s := strconv.FormatFloat(price, 'f', -1, 64)
	whole, frac, _ := strings.Cut(s, ".")
	if len(frac) > weiDecimals {
		frac = frac[:weiDecimals]
	}
	frac += strings.Repeat("0", weiDecimals-len(frac))
	v, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return nil, fmt.Errorf("bad price %q", s)
	}
	return v, nil
}
