package wallet

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInsufficientBalance is returned by Rent when the wallet balance is
// below the movie price.
var ErrInsufficientBalance = errors.New("insufficient balance to rent this movie")

// ErrNoTransactionHash is returned when the wallet accepts a transaction
// but answers without a hash.
var ErrNoTransactionHash = errors.New("transaction failed: no transaction hash received")

// Wallet provider error codes (EIP-1193 and JSON-RPC).
const (
	CodeUserRejected   = 4001
	CodeInternal       = -32603
	CodeAlreadyPending = -32002
	CodeInvalidParams  = -32602
	CodeLimitExceeded  = -32005
)

// RPCError is a JSON-RPC error object returned by the wallet provider.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// dataMessage returns data.message when Data is an object carrying one.
func (e *RPCError) dataMessage() string {
	var d struct {
		Message string `json:"message"`
	}
	if len(e.Data) == 0 || json.Unmarshal(e.Data, &d) != nil {
		return ""
	}
	return d.Message
}

// Message turns err into the text shown to the user.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var re *RPCError
	if !errors.As(err, &re) {
		if errors.Is(err, ErrInsufficientBalance) {
			return "Insufficient balance to rent this movie"
		}
		return err.Error()
	}
	switch re.Code {
	case CodeUserRejected:
		return "Transaction was rejected by user"
	case CodeInternal:
		msg := re.dataMessage()
		if msg == "" {
			msg = re.Message
		}
		if msg == "" {
			msg = "Unknown error"
		}
		return "Transaction failed: " + msg
	case CodeAlreadyPending:
		return "Transaction already pending. Please check your wallet"
	case CodeInvalidParams:
		return "Invalid transaction parameters. Please try again"
	case CodeLimitExceeded:
		return "Request limit exceeded. Please try again later"
	}
	msg := re.Message
	if msg == "" {
		msg = "Unknown error"
	}
	return fmt.Sprintf("Transaction failed (%d): %s", re.Code, msg)
}
