package jsonrpc

import (
	"errors"

	"github.com/LeJamon/goPresale/internal/core/ledger/service"
)

// RpcError is the error member of a response
type RpcError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (e RpcError) Error() string {
	return e.Message
}

// JSON-RPC 2.0 error codes. The -32000 range is application defined.
const (
	RpcPARSE_ERROR      = -32700
	RpcINVALID_REQUEST  = -32600
	RpcMETHOD_NOT_FOUND = -32601
	RpcINVALID_PARAMS   = -32602
	RpcINTERNAL         = -32603

	RpcNOT_FOUND      = -32004
	RpcBODY_TOO_LARGE = -32005
)

func NewRpcError(code int, message string, data interface{}) *RpcError {
	return &RpcError{Code: code, Message: message, Data: data}
}

func RpcErrorParse(message string) *RpcError {
	return NewRpcError(RpcPARSE_ERROR, "Parse error", message)
}

func RpcErrorInvalidRequest(message string) *RpcError {
	return NewRpcError(RpcINVALID_REQUEST, "Invalid request", message)
}

func RpcErrorMethodNotFound(method string) *RpcError {
	return NewRpcError(RpcMETHOD_NOT_FOUND, "Method not found", method)
}

func RpcErrorInvalidParams(message string) *RpcError {
	return NewRpcError(RpcINVALID_PARAMS, "Invalid params", message)
}

func RpcErrorInternal(message string) *RpcError {
	return NewRpcError(RpcINTERNAL, "Internal error", message)
}

func RpcErrorNotFound(message string) *RpcError {
	return NewRpcError(RpcNOT_FOUND, "Not found", message)
}

// rpcErrorFrom maps a service error onto a response error
func rpcErrorFrom(err error) *RpcError {
	switch {
	case errors.Is(err, service.ErrPresaleNotFound),
		errors.Is(err, service.ErrEscrowNotFound),
		errors.Is(err, service.ErrRootNotFound),
		errors.Is(err, service.ErrNotOperator):
		return RpcErrorNotFound(err.Error())
	}
	return RpcErrorInternal(err.Error())
}
