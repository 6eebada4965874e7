package wallet

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"golang.org/x/crypto/sha3"
)

// RentMovieSignature is the contract method paid for on every rental.
const RentMovieSignature = "rentMovie(string)"

const rentalContractABI = `[{
	"type": "function",
	"name": "rentMovie",
	"stateMutability": "payable",
	"inputs": [{"name": "movieId", "type": "string"}],
	"outputs": []
}]`

var rentalContract = mustParseABI(rentalContractABI)

func mustParseABI(def string) abi.ABI {
	a, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(err)
	}
	return a
}

// Selector returns the 4 byte function selector of a Solidity signature.
func Selector(signature string) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(signature))
	return h.Sum(nil)[:4]
}

// RentMovieData returns the call data of rentMovie(movieID).
func RentMovieData(movieID string) ([]byte, error) {
	return rentalContract.Pack("rentMovie", movieID)
}
