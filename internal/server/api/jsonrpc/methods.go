package jsonrpc

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/LeJamon/goPresale/internal/core/presale"
	"github.com/LeJamon/goPresale/internal/core/tx"
)

// registerAllMethods registers every method the server answers
func (s *Server) registerAllMethods() {
	s.registry.Register("ping", MethodFunc(ping))
	s.registry.Register("server_info", MethodFunc(s.serverInfo))
	s.registry.Register("operation_types", MethodFunc(operationTypes))
	s.registry.Register("submit", MethodFunc(submit))
	s.registry.Register("presale_info", MethodFunc(presaleInfo))
	s.registry.Register("presales", MethodFunc(presales))
	s.registry.Register("escrow_info", MethodFunc(escrowInfo))
	s.registry.Register("escrows", MethodFunc(escrows))
	s.registry.Register("merkle_roots", MethodFunc(merkleRoots))
	s.registry.Register("operator_info", MethodFunc(operatorInfo))
}

// decodeParams decodes params into v, rejecting unknown fields
func decodeParams(params json.RawMessage, v interface{}) *RpcError {
	if len(params) == 0 || bytes.Equal(params, []byte("null")) {
		return RpcErrorInvalidParams("params are required")
	}
	dec := json.NewDecoder(bytes.NewReader(params))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return RpcErrorInvalidParams(err.Error())
	}
	return nil
}

type presaleParams struct {
	Presale presale.ID `json:"presale"`
}

type escrowParams struct {
	Presale presale.ID        `json:"presale"`
	Owner   presale.AccountID `json:"owner"`
	Tranche uint8             `json:"tranche"`
}

type operatorParams struct {
	Presale  presale.ID        `json:"presale"`
	Operator presale.AccountID `json:"operator"`
}

type submitParams struct {
	Operation json.RawMessage `json:"operation"`
}

// SubmitResult is returned by submit. Nonce is the one the operation was
// applied with, generated when the caller sent none.
type SubmitResult struct {
	Nonce string `json:"nonce"`
	tx.ApplyResult
}

func ping(_ *RpcContext, _ json.RawMessage) (interface{}, *RpcError) {
	return map[string]interface{}{}, nil
}

func (s *Server) serverInfo(ctx *RpcContext, _ json.RawMessage) (interface{}, *RpcError) {
	hits, misses := ctx.Service.CacheStats()
	return map[string]interface{}{
		"info": map[string]interface{}{
			"build_version":   s.opts.Version,
			"storage_backend": s.opts.Backend,
			"uptime":          int64(time.Since(s.startedAt).Seconds()),
			"time":            ctx.Service.Now(),
			"sale_cache": map[string]uint64{
				"hits":   hits,
				"misses": misses,
			},
		},
	}, nil
}

func operationTypes(_ *RpcContext, _ json.RawMessage) (interface{}, *RpcError) {
	names := make([]string, 0)
	for _, t := range tx.Types() {
		if _, err := tx.NewFromType(t); err == nil {
			names = append(names, t.String())
		}
	}
	return map[string]interface{}{"types": names}, nil
}

func submit(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	var p submitParams
	if rpcErr := decodeParams(params, &p); rpcErr != nil {
		return nil, rpcErr
	}
	if len(p.Operation) == 0 {
		return nil, RpcErrorInvalidParams("operation is required")
	}

	nonce, result := ctx.Service.SubmitJSON(ctx.Context, p.Operation)
	return &SubmitResult{Nonce: nonce, ApplyResult: result}, nil
}

func presaleInfo(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	var p presaleParams
	if rpcErr := decodeParams(params, &p); rpcErr != nil {
		return nil, rpcErr
	}
	info, err := ctx.Service.Presale(ctx.Context, p.Presale)
	if err != nil {
		return nil, rpcErrorFrom(err)
	}
	return info, nil
}

func presales(ctx *RpcContext, _ json.RawMessage) (interface{}, *RpcError) {
	all, err := ctx.Service.Presales(ctx.Context)
	if err != nil {
		return nil, rpcErrorFrom(err)
	}
	return map[string]interface{}{"presales": all}, nil
}

func escrowInfo(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	var p escrowParams
	if rpcErr := decodeParams(params, &p); rpcErr != nil {
		return nil, rpcErr
	}
	info, err := ctx.Service.Escrow(ctx.Context, p.Presale, p.Owner, p.Tranche)
	if err != nil {
		return nil, rpcErrorFrom(err)
	}
	return info, nil
}

func escrows(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	var p presaleParams
	if rpcErr := decodeParams(params, &p); rpcErr != nil {
		return nil, rpcErr
	}
	all, err := ctx.Service.Escrows(ctx.Context, p.Presale)
	if err != nil {
		return nil, rpcErrorFrom(err)
	}
	return map[string]interface{}{"escrows": all}, nil
}

func merkleRoots(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	var p presaleParams
	if rpcErr := decodeParams(params, &p); rpcErr != nil {
		return nil, rpcErr
	}
	roots, err := ctx.Service.MerkleRoots(ctx.Context, p.Presale)
	if err != nil {
		return nil, rpcErrorFrom(err)
	}
	return map[string]interface{}{"roots": roots}, nil
}

func operatorInfo(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	var p operatorParams
	if rpcErr := decodeParams(params, &p); rpcErr != nil {
		return nil, rpcErr
	}
	op, err := ctx.Service.Operator(ctx.Context, p.Presale, p.Operator)
	if err != nil {
		return nil, rpcErrorFrom(err)
	}
	return op, nil
}
