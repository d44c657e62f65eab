package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/bnema/mcp-docker/pkg/logger"
)

// maxMessageSize bounds a single newline-delimited message on the stdio transport.
const maxMessageSize = 16 * 1024 * 1024

// Handler provides the tools and resources a Server exposes.
type Handler interface {
	Tools() []Tool
	CallTool(ctx context.Context, name string, args map[string]any) (string, error)
	Resources() []Resource
	ReadResource(ctx context.Context, uri string) (ResourceContent, error)
}

// Server dispatches JSON-RPC requests to a Handler.
type Server struct {
	handler Handler
	info    ServerInfo
}

// NewServer creates a server that reports the given name and version on initialize.
func NewServer(handler Handler, name, version string) *Server {
	return &Server{
		handler: handler,
		info:    ServerInfo{Name: name, Version: version},
	}
}

// HandleMessage decodes one raw JSON-RPC message and returns the encoded response.
// It returns nil for notifications.
func (s *Server) HandleMessage(ctx context.Context, raw []byte) []byte {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return encode(Response{
			JSONRPC: JSONRPCVersion,
			ID:      json.RawMessage("null"),
			Error:   &Error{Code: CodeParseError, Message: fmt.Sprintf("parse error: %v", err)},
		})
	}

	resp := s.Handle(ctx, &req)
	if resp == nil {
		return nil
	}
	return encode(*resp)
}

// Handle executes a decoded request. It returns nil for notifications.
func (s *Server) Handle(ctx context.Context, req *Request) *Response {
	result, err := s.dispatch(ctx, req)
	if req.IsNotification() {
		if err != nil {
			logger.Debug("Notification failed", "method", req.Method, "error", err)
		}
		return nil
	}

	resp := &Response{JSONRPC: JSONRPCVersion, ID: req.ID}
	if err != nil {
		resp.Error = AsError(err)
		logger.Debug("Request failed", "method", req.Method, "code", resp.Error.Code, "error", resp.Error.Message)
		return resp
	}
	resp.Result = result
	return resp
}

func (s *Server) dispatch(ctx context.Context, req *Request) (any, error) {
	if req.JSONRPC != JSONRPCVersion {
		return nil, InvalidRequest("unsupported jsonrpc version %q", req.JSONRPC)
	}

	switch req.Method {
	case "initialize":
		return InitializeResult{
			ProtocolVersion: ProtocolVersion,
			ServerInfo:      s.info,
			Capabilities: Capabilities{
				Tools:     &ToolsCapability{},
				Resources: &ResourcesCapability{},
			},
		}, nil

	case "ping":
		return struct{}{}, nil

	case "tools/list":
		return ToolsListResult{Tools: s.handler.Tools()}, nil

	case "tools/call":
		var params ToolCallParams
		if err := decodeParams(req.Params, &params); err != nil {
			return nil, err
		}
		if params.Name == "" {
			return nil, InvalidParams("tool name is required")
		}
		text, err := s.handler.CallTool(ctx, params.Name, params.Arguments)
		if err != nil {
			return nil, err
		}
		return TextResult(text), nil

	case "resources/list":
		return ResourcesListResult{Resources: s.handler.Resources()}, nil

	case "resources/read":
		var params ResourceReadParams
		if err := decodeParams(req.Params, &params); err != nil {
			return nil, err
		}
		if params.URI == "" {
			return nil, InvalidParams("resource uri is required")
		}
		content, err := s.handler.ReadResource(ctx, params.URI)
		if err != nil {
			return nil, err
		}
		return ResourceReadResult{Contents: []ResourceContent{content}}, nil
	}

	if strings.HasPrefix(req.Method, "notifications/") {
		return nil, nil
	}
	return nil, MethodNotFound("Method not found: %s", req.Method)
}

func decodeParams(raw json.RawMessage, out any) error {
	if len(raw) == 0 {
		return InvalidParams("missing params")
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return InvalidParams("invalid params: %v", err)
	}
	return nil
}

func encode(resp Response) []byte {
	data, err := json.Marshal(resp)
	if err != nil {
		// Results come from json-friendly types; fall back to an internal error
		data, _ = json.Marshal(Response{
			JSONRPC: JSONRPCVersion,
			ID:      resp.ID,
			Error:   InternalError("failed to encode response: %v", err),
		})
	}
	return data
}

// ServeStdio reads newline-delimited requests from r and writes responses to w,
// one request at a time, until r is exhausted or ctx is cancelled.
func (s *Server) ServeStdio(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxMessageSize)
	out := bufio.NewWriter(w)

	logger.Info("MCP server listening on stdio", "server", s.info.Name, "version", s.info.Version)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		resp := s.HandleMessage(ctx, line)
		if resp == nil {
			continue
		}
		if _, err := out.Write(append(resp, '\n')); err != nil {
			return fmt.Errorf("failed to write response: %w", err)
		}
		if err := out.Flush(); err != nil {
			return fmt.Errorf("failed to flush response: %w", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read request: %w", err)
	}
	logger.Info("stdin closed, MCP server stopping")
	return nil
}
