package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/ironsheep/picross-capture/internal/config"
	"github.com/ironsheep/picross-capture/internal/imaging"
	"github.com/ironsheep/picross-capture/internal/logger"
	"github.com/ironsheep/picross-capture/internal/recognize"
)

const (
	jsonRPCVersion  = "2.0"
	protocolVersion = "2024-11-05"

	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeToolFailed     = -32000
)

// Server answers MCP requests for the picross tools. Screenshots loaded by
// one call stay cached for the next.
type Server struct {
	cache   *imaging.ImageCache
	cfg     config.Config
	engine  recognize.Engine
	version string
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// New creates a server. engine may be nil, in which case only the tools
// that need no digit recognition work.
func New(cfg config.Config, engine recognize.Engine, version string) *Server {
	return &Server{
		cache:   imaging.NewImageCache(),
		cfg:     cfg,
		engine:  engine,
		version: version,
	}
}

// Run reads requests from in and writes responses to out until in is
// exhausted or ctx is cancelled.
func (s *Server) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	encoder := json.NewEncoder(out)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			logger.L().Warn("mcp.bad_request", "err", err)
			continue
		}

		logger.L().Debug("mcp.request", "method", req.Method, "id", req.ID)
		resp := s.handleRequest(ctx, &req)
		if resp == nil {
			continue
		}
		if err := encoder.Encode(resp); err != nil {
			logger.L().Error("mcp.encode_failed", "method", req.Method, "err", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read request: %w", err)
	}
	return nil
}

func (s *Server) handleRequest(ctx context.Context, req *MCPRequest) *MCPResponse {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	case "ping":
		return &MCPResponse{JSONRPC: jsonRPCVersion, ID: req.ID, Result: map[string]interface{}{}}
	default:
		return s.errorResponse(req.ID, codeMethodNotFound, "Method not found: "+req.Method, nil)
	}
}

func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: jsonRPCVersion,
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": protocolVersion,
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "picross-capture",
				"version": s.version,
			},
		},
	}
}
