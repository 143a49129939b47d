package wallet

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcjson"

	"github.com/arnac-io/meshbtc/pkg/core"
)

// Error is a failed call to the node. It matches core.ErrUpstreamFailure.
type Error struct {
	Method string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Method, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return target == core.ErrUpstreamFailure
}

// Message is the text reported by the node, without the method name and the error code.
func (e *Error) Message() string {
	var rpcErr *btcjson.RPCError
	if errors.As(e.Err, &rpcErr) {
		return rpcErr.Message
	}
	return e.Err.Error()
}

func rpcErrorCode(err error) (btcjson.RPCErrorCode, bool) {
	var rpcErr *btcjson.RPCError
	if errors.As(err, &rpcErr) {
		return rpcErr.Code, true
	}
	return 0, false
}
