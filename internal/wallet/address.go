// Package wallet drives the customer side of a rental: it talks to an
// Ethereum wallet over JSON-RPC to pay for a movie, tracks the payment
// transaction, records the rental with the storefront API and keeps a
// local mirror of rentals with countdowns and expiry warnings.
package wallet

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ErrInvalidAddress is wrapped by every address validation failure.
var ErrInvalidAddress = errors.New("invalid address")

// ValidateAddress checks that addr is a 0x-prefixed, 40 hex digit
// address.  name is used in the error message ("contract address").
func ValidateAddress(addr, name string) error {
	switch {
	case addr == "":
		return fmt.Errorf("%w: no %s provided", ErrInvalidAddress, name)
	case !strings.HasPrefix(addr, "0x"):
		return fmt.Errorf("%w: %s must start with 0x", ErrInvalidAddress, name)
	case len(addr) != 42:
		return fmt.Errorf("%w: %s must be 42 characters (including 0x)", ErrInvalidAddress, name)
	case !common.IsHexAddress(addr):
		return fmt.Errorf("%w: %s must be a valid Ethereum address", ErrInvalidAddress, name)
	}
	return nil
}
