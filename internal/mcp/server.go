// ABOUTME: JSON-RPC 2.0 dispatcher for the briefdesk tool server
// ABOUTME: Routes initialize, tools/list, tools/call, ping; notifications get no reply

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/2389/briefdesk/internal/auth"
	"github.com/2389/briefdesk/internal/tools"
)

// protocolVersion is the MCP protocol revision advertised on initialize.
const protocolVersion = "2024-11-05"

// serverVersion is stamped into the initialize response.
const serverVersion = "1.0.0"

// JSON-RPC 2.0 types

// Request represents a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response represents a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *ResponseError  `json:"error,omitempty"`
}

// ResponseError represents a JSON-RPC 2.0 error object.
type ResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Standard JSON-RPC error codes
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// ToolInfo is a tool definition as exposed by tools/list.
type ToolInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

// ListToolsResult is the result for tools/list.
type ListToolsResult struct {
	Tools []ToolInfo `json:"tools"`
}

// CallToolParams are the params for tools/call.
type CallToolParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// Content is one content item in a tool result.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// CallToolResult is the result for tools/call.
type CallToolResult struct {
	Content []Content `json:"content"`
}

// Config holds configuration for the dispatcher.
type Config struct {
	Registry *tools.Registry
	Env      *tools.Env
	Auth     *auth.Context
	Logger   *slog.Logger
}

// Server interprets JSON-RPC request bodies and produces responses. It holds
// no per-request state beyond the static registry and session auth context.
type Server struct {
	registry *tools.Registry
	env      *tools.Env
	auth     *auth.Context
	logger   *slog.Logger
}

// NewServer creates a dispatcher with the given configuration.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Registry == nil {
		return nil, errors.New("registry is required")
	}
	if cfg.Env == nil {
		return nil, errors.New("env is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		registry: cfg.Registry,
		env:      cfg.Env,
		auth:     cfg.Auth,
		logger:   logger.With("component", "mcp"),
	}, nil
}

// HandleMessage processes one complete message body. The returned response
// is nil when nothing must be written back: unparseable bodies are dropped,
// and notifications execute their side effects but produce no frame.
func (s *Server) HandleMessage(ctx context.Context, body []byte) *Response {
	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		s.logger.Debug("dropping unparseable message", "error", err)
		return nil
	}

	isNotification := len(req.ID) == 0 || string(req.ID) == "null"

	resp := s.dispatch(ctx, &req)
	if isNotification {
		return nil
	}
	return resp
}

func (s *Server) dispatch(ctx context.Context, req *Request) *Response {
	if req.JSONRPC != "2.0" {
		return s.errorResponse(req.ID, CodeInvalidRequest, "invalid JSON-RPC version", nil)
	}

	s.logger.Debug("request", "method", req.Method)

	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	case "ping", "notifications/initialized":
		return s.resultResponse(req.ID, map[string]any{})
	default:
		return s.errorResponse(req.ID, CodeMethodNotFound, "method not found", nil)
	}
}

func (s *Server) handleInitialize(req *Request) *Response {
	return s.resultResponse(req.ID, map[string]any{
		"protocolVersion": protocolVersion,
		"capabilities": map[string]any{
			"tools": map[string]any{},
		},
		"serverInfo": map[string]any{
			"name":    s.env.Config.Server.Name,
			"version": serverVersion,
		},
	})
}

func (s *Server) handleToolsList(req *Request) *Response {
	catalog := s.registry.List()
	result := ListToolsResult{Tools: make([]ToolInfo, len(catalog))}
	for i, t := range catalog {
		result.Tools[i] = ToolInfo{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.InputSchema,
		}
	}
	return s.resultResponse(req.ID, result)
}

func (s *Server) handleToolsCall(ctx context.Context, req *Request) *Response {
	var params CallToolParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return s.errorResponse(req.ID, CodeInvalidParams, "invalid params", nil)
		}
	}
	if params.Name == "" {
		return s.errorResponse(req.ID, CodeInvalidParams, "tool name is required", nil)
	}

	tool := s.registry.Get(params.Name)
	if tool == nil {
		return s.errorResponse(req.ID, CodeMethodNotFound, "tool not found: "+params.Name, nil)
	}

	if tool.RequireOwner && !s.auth.IsOwner() {
		return s.errorResponse(req.ID, tools.CodeForbidden, "tool requires owner access", nil)
	}

	args := params.Arguments
	if len(args) == 0 || string(args) == "null" {
		args = json.RawMessage("{}")
	}

	requestID := uuid.New().String()
	s.logger.Debug("tools/call", "tool_name", params.Name, "request_id", requestID)

	result, err := tool.Handler(ctx, args, s.auth, s.env)
	if err != nil {
		var domainErr *tools.Error
		if errors.As(err, &domainErr) {
			return s.errorResponse(req.ID, domainErr.Code, domainErr.Message, nil)
		}
		s.logger.Error("tool failed", "tool_name", params.Name, "request_id", requestID, "error", err)
		return s.errorResponse(req.ID, CodeInternalError, err.Error(), nil)
	}

	encoded, err := json.Marshal(result)
	if err != nil {
		return s.errorResponse(req.ID, CodeInternalError, "encoding tool result: "+err.Error(), nil)
	}

	return s.resultResponse(req.ID, CallToolResult{
		Content: []Content{{Type: "text", Text: string(encoded)}},
	})
}

func (s *Server) resultResponse(id json.RawMessage, result any) *Response {
	return &Response{JSONRPC: "2.0", ID: id, Result: result}
}

func (s *Server) errorResponse(id json.RawMessage, code int, message string, data any) *Response {
	return &Response{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &ResponseError{Code: code, Message: message, Data: data},
	}
}
