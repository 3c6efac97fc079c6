// Package jsonrpc serves the presale service over JSON-RPC 2.0 on HTTP.
package jsonrpc

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/LeJamon/goPresale/internal/core/ledger/service"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DefaultMaxBodyBytes bounds a request body when Options leaves it unset
const DefaultMaxBodyBytes = 1 << 20

// RequestIDHeader carries the id assigned to each HTTP request
const RequestIDHeader = "X-Request-Id"

var nullID = json.RawMessage("null")

// Options configures a Server
type Options struct {
	MaxBodyBytes int64
	Version      string
	Backend      string
}

// Server handles HTTP JSON-RPC requests
type Server struct {
	registry  *MethodRegistry
	service   *service.Service
	log       logrus.FieldLogger
	opts      Options
	startedAt time.Time
}

// NewServer creates a server answering from svc with every method
// registered
func NewServer(svc *service.Service, log logrus.FieldLogger, opts Options) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	s := &Server{
		registry:  NewMethodRegistry(),
		service:   svc,
		log:       log.WithField("component", "jsonrpc"),
		opts:      opts,
		startedAt: time.Now(),
	}
	s.registerAllMethods()
	return s
}

// Registry exposes the method table
func (s *Server) Registry() *MethodRegistry {
	return s.registry
}

// ServeHTTP implements http.Handler interface
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	requestID := uuid.NewString()
	w.Header().Set(RequestIDHeader, requestID)
	w.Header().Set("Content-Type", "application/json")

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes))
	defer r.Body.Close()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.write(w, &Response{JsonRpc: Version, ID: nullID, Error: NewRpcError(RpcBODY_TOO_LARGE, "Request too large", nil)})
			return
		}
		s.write(w, &Response{JsonRpc: Version, ID: nullID, Error: RpcErrorInternal("Failed to read request body")})
		return
	}

	rctx := &RpcContext{
		Context:   r.Context(),
		RequestID: requestID,
		ClientIP:  getClientIP(r),
		Service:   s.service,
		Log:       s.log.WithField("request_id", requestID),
	}

	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '[' {
		s.handleBatch(w, rctx, body)
		return
	}

	resp := s.handleRaw(rctx, body)
	if resp == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.write(w, resp)
}

func (s *Server) handleBatch(w http.ResponseWriter, rctx *RpcContext, body []byte) {
	var raws []json.RawMessage
	if err := json.Unmarshal(body, &raws); err != nil {
		s.write(w, &Response{JsonRpc: Version, ID: nullID, Error: RpcErrorParse(err.Error())})
		return
	}
	if len(raws) == 0 {
		s.write(w, &Response{JsonRpc: Version, ID: nullID, Error: RpcErrorInvalidRequest("empty batch")})
		return
	}

	responses := make([]*Response, 0, len(raws))
	for _, raw := range raws {
		if resp := s.handleRaw(rctx, raw); resp != nil {
			responses = append(responses, resp)
		}
	}
	if len(responses) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.write(w, responses)
}

// handleRaw decodes and executes one request. It returns nil for
// notifications.
func (s *Server) handleRaw(rctx *RpcContext, raw []byte) *Response {
	var request Request
	if err := json.Unmarshal(raw, &request); err != nil {
		return &Response{JsonRpc: Version, ID: nullID, Error: RpcErrorParse(err.Error())}
	}
	id := request.ID
	if len(id) == 0 {
		id = nullID
	}
	if request.JsonRpc != Version || request.Method == "" {
		return &Response{JsonRpc: Version, ID: id, Error: RpcErrorInvalidRequest("jsonrpc must be \"2.0\" and method is required")}
	}

	result, rpcErr := s.executeMethod(rctx, request.Method, request.Params)
	if request.IsNotification() {
		return nil
	}
	if rpcErr != nil {
		return &Response{JsonRpc: Version, ID: id, Error: rpcErr}
	}
	return &Response{JsonRpc: Version, ID: id, Result: result}
}

// executeMethod executes an RPC method with the given parameters
func (s *Server) executeMethod(rctx *RpcContext, method string, params json.RawMessage) (interface{}, *RpcError) {
	handler, exists := s.registry.Get(method)
	if !exists {
		return nil, RpcErrorMethodNotFound(method)
	}

	start := time.Now()
	result, rpcErr := handler.Handle(rctx, params)
	fields := logrus.Fields{
		"method":   method,
		"duration": time.Since(start),
	}
	if rpcErr != nil {
		fields["error_code"] = rpcErr.Code
		rctx.Log.WithFields(fields).Debug(rpcErr.Message)
	} else {
		rctx.Log.WithFields(fields).Debug("Handled request")
	}
	return result, rpcErr
}

func (s *Server) write(w http.ResponseWriter, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		s.log.WithError(err).Error("Failed to marshal response")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// getClientIP extracts the client IP from the request
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}
