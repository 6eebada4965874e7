package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/rpc"
)

// Provider issues wallet JSON-RPC calls.  result is decoded from the
// response's result member; a JSON-RPC error is returned as *RPCError.
type Provider interface {
	Call(ctx context.Context, method string, params []any, result any) error
}

// RPCProvider is a Provider backed by a go-ethereum RPC client connected
// to a node or signer that holds the wallet's key.
type RPCProvider struct {
	client  *rpc.Client
	timeout time.Duration
}

// DialProvider connects to url (http, ws or ipc).  timeout bounds each
// call; zero means no bound beyond ctx.
func DialProvider(ctx context.Context, url string, timeout time.Duration) (*RPCProvider, error) {
	c, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("dial wallet provider: %w", err)
	}
	return &RPCProvider{client: c, timeout: timeout}, nil
}

func (p *RPCProvider) Call(ctx context.Context, method string, params []any, result any) error {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	if err := p.client.CallContext(ctx, result, method, params...); err != nil {
		return fmt.Errorf("%s: %w", method, asRPCError(err))
	}
	return nil
}

func (p *RPCProvider) Close() { p.client.Close() }

// asRPCError converts a JSON-RPC error reported by the node into *RPCError
// so Message can map its code.  Transport errors are returned unchanged.
func asRPCError(err error) error {
	var re rpc.Error
	if !errors.As(err, &re) {
		return err
	}
	out := &RPCError{Code: re.ErrorCode(), Message: re.Error()}
	var de rpc.DataError
	if errors.As(err, &de) && de.ErrorData() != nil {
		if raw, merr := json.Marshal(de.ErrorData()); merr == nil {
			out.Data = raw
		}
	}
	return out
}
