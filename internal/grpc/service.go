package grpc

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/LeJamon/goPresale/internal/core/ledger/service"
	"github.com/LeJamon/goPresale/internal/core/presale"
	"github.com/LeJamon/goPresale/internal/core/tx"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "presale.v1.Presale"

// SubmitRequest carries one operation in its JSON form
type SubmitRequest struct {
	Operation json.RawMessage `json:"operation"`
}

// SubmitResponse is the outcome of a submitted operation
type SubmitResponse struct {
	Nonce string `json:"nonce"`
	tx.ApplyResult
}

// PresaleRequest selects a sale
type PresaleRequest struct {
	Presale presale.ID `json:"presale"`
}

// ListPresalesRequest has no fields
type ListPresalesRequest struct{}

type ListPresalesResponse struct {
	Presales []service.PresaleInfo `json:"presales"`
}

// EscrowRequest selects one escrow
type EscrowRequest struct {
	Presale presale.ID        `json:"presale"`
	Owner   presale.AccountID `json:"owner"`
	Tranche uint8             `json:"tranche"`
}

type ListEscrowsResponse struct {
	Escrows []service.EscrowInfo `json:"escrows"`
}

type MerkleRootsResponse struct {
	Roots []service.MerkleRootInfo `json:"roots"`
}

// OperatorRequest selects an operator registration
type OperatorRequest struct {
	Presale  presale.ID        `json:"presale"`
	Operator presale.AccountID `json:"operator"`
}

// PresaleServer is the server API of the presale service
type PresaleServer interface {
	Submit(context.Context, *SubmitRequest) (*SubmitResponse, error)
	GetPresale(context.Context, *PresaleRequest) (*service.PresaleInfo, error)
	ListPresales(context.Context, *ListPresalesRequest) (*ListPresalesResponse, error)
	GetEscrow(context.Context, *EscrowRequest) (*service.EscrowInfo, error)
	ListEscrows(context.Context, *PresaleRequest) (*ListEscrowsResponse, error)
	GetMerkleRoots(context.Context, *PresaleRequest) (*MerkleRootsResponse, error)
	GetOperator(context.Context, *OperatorRequest) (*presale.Operator, error)
}

// ServiceDesc describes the presale service for grpc.Server.RegisterService
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PresaleServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Submit", Handler: unaryHandler("Submit", PresaleServer.Submit)},
		{MethodName: "GetPresale", Handler: unaryHandler("GetPresale", PresaleServer.GetPresale)},
		{MethodName: "ListPresales", Handler: unaryHandler("ListPresales", PresaleServer.ListPresales)},
		{MethodName: "GetEscrow", Handler: unaryHandler("GetEscrow", PresaleServer.GetEscrow)},
		{MethodName: "ListEscrows", Handler: unaryHandler("ListEscrows", PresaleServer.ListEscrows)},
		{MethodName: "GetMerkleRoots", Handler: unaryHandler("GetMerkleRoots", PresaleServer.GetMerkleRoots)},
		{MethodName: "GetOperator", Handler: unaryHandler("GetOperator", PresaleServer.GetOperator)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "presale.v1",
}

func fullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

// unaryHandler builds the method handler generated code would contain for
// one unary method
func unaryHandler[Req, Resp any](name string, call func(PresaleServer, context.Context, *Req) (*Resp, error)) func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(PresaleServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod(name),
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(PresaleServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// presaleService implements PresaleServer over a service.Service
type presaleService struct {
	svc *service.Service
}

func (p *presaleService) Submit(ctx context.Context, req *SubmitRequest) (*SubmitResponse, error) {
	if len(req.Operation) == 0 {
		return nil, status.Error(codes.InvalidArgument, "operation is required")
	}
	nonce, result := p.svc.SubmitJSON(ctx, req.Operation)
	return &SubmitResponse{Nonce: nonce, ApplyResult: result}, nil
}

func (p *presaleService) GetPresale(ctx context.Context, req *PresaleRequest) (*service.PresaleInfo, error) {
	info, err := p.svc.Presale(ctx, req.Presale)
	if err != nil {
		return nil, statusFrom(err)
	}
	return info, nil
}

func (p *presaleService) ListPresales(ctx context.Context, _ *ListPresalesRequest) (*ListPresalesResponse, error) {
	all, err := p.svc.Presales(ctx)
	if err != nil {
		return nil, statusFrom(err)
	}
	return &ListPresalesResponse{Presales: all}, nil
}

func (p *presaleService) GetEscrow(ctx context.Context, req *EscrowRequest) (*service.EscrowInfo, error) {
	info, err := p.svc.Escrow(ctx, req.Presale, req.Owner, req.Tranche)
	if err != nil {
		return nil, statusFrom(err)
	}
	return info, nil
}

func (p *presaleService) ListEscrows(ctx context.Context, req *PresaleRequest) (*ListEscrowsResponse, error) {
	all, err := p.svc.Escrows(ctx, req.Presale)
	if err != nil {
		return nil, statusFrom(err)
	}
	return &ListEscrowsResponse{Escrows: all}, nil
}

func (p *presaleService) GetMerkleRoots(ctx context.Context, req *PresaleRequest) (*MerkleRootsResponse, error) {
	roots, err := p.svc.MerkleRoots(ctx, req.Presale)
	if err != nil {
		return nil, statusFrom(err)
	}
	return &MerkleRootsResponse{Roots: roots}, nil
}

func (p *presaleService) GetOperator(ctx context.Context, req *OperatorRequest) (*presale.Operator, error) {
	op, err := p.svc.Operator(ctx, req.Presale, req.Operator)
	if err != nil {
		return nil, statusFrom(err)
	}
	return op, nil
}

func statusFrom(err error) error {
	switch {
	case errors.Is(err, service.ErrPresaleNotFound),
		errors.Is(err, service.ErrEscrowNotFound),
		errors.Is(err, service.ErrRootNotFound),
		errors.Is(err, service.ErrNotOperator):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	}
	return status.Error(codes.Internal, err.Error())
}

// Client calls the presale service over conn
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps an established connection
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) invoke(ctx context.Context, method string, in, out interface{}, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, fullMethod(method), in, out, opts...)
}

func (c *Client) Submit(ctx context.Context, in *SubmitRequest, opts ...grpc.CallOption) (*SubmitResponse, error) {
	out := new(SubmitResponse)
	if err := c.invoke(ctx, "Submit", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetPresale(ctx context.Context, in *PresaleRequest, opts ...grpc.CallOption) (*service.PresaleInfo, error) {
	out := new(service.PresaleInfo)
	if err := c.invoke(ctx, "GetPresale", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListPresales(ctx context.Context, in *ListPresalesRequest, opts ...grpc.CallOption) (*ListPresalesResponse, error) {
	out := new(ListPresalesResponse)
	if err := c.invoke(ctx, "ListPresales", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetEscrow(ctx context.Context, in *EscrowRequest, opts ...grpc.CallOption) (*service.EscrowInfo, error) {
	out := new(service.EscrowInfo)
	if err := c.invoke(ctx, "GetEscrow", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListEscrows(ctx context.Context, in *PresaleRequest, opts ...grpc.CallOption) (*ListEscrowsResponse, error) {
	out := new(ListEscrowsResponse)
	if err := c.invoke(ctx, "ListEscrows", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetMerkleRoots(ctx context.Context, in *PresaleRequest, opts ...grpc.CallOption) (*MerkleRootsResponse, error) {
	out := new(MerkleRootsResponse)
	if err := c.invoke(ctx, "GetMerkleRoots", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetOperator(ctx context.Context, in *OperatorRequest, opts ...grpc.CallOption) (*presale.Operator, error) {
	out := new(presale.Operator)
	if err := c.invoke(ctx, "GetOperator", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}
