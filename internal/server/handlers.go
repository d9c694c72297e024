package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ironsheep/picross-capture/internal/detection"
	"github.com/ironsheep/picross-capture/internal/domain"
	"github.com/ironsheep/picross-capture/internal/imaging"
	"github.com/ironsheep/picross-capture/internal/logger"
	"github.com/ironsheep/picross-capture/internal/operator"
	"github.com/ironsheep/picross-capture/internal/pipeline"
	"github.com/ironsheep/picross-capture/internal/puzzle"
	"github.com/ironsheep/picross-capture/internal/recognize"
	"github.com/ironsheep/picross-capture/internal/replay"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "picross_detect_board").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		logger.L().Warn("mcp.tool_failed", "tool", params.Name, "err", err)
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: jsonRPCVersion,
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "picross_detect_board":
		return s.handleDetectBoard(args)
	case "picross_board_overlay":
		return s.handleBoardOverlay(args)
	case "picross_extract_spec":
		return s.handleExtractSpec(ctx, args)
	case "picross_verify_spec":
		return s.handleVerifySpec(args)
	case "picross_map_solution":
		return s.handleMapSolution(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message string, data interface{}) *MCPResponse {
	return &MCPResponse{
		JSONRPC: jsonRPCVersion,
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Board Handlers ===

type detectBoardArgs struct {
	Path              string `json:"path"`
	Threshold         *int   `json:"threshold"`
	MinClusterSupport *int   `json:"min_cluster_support"`
}

func (s *Server) handleDetectBoard(args json.RawMessage) (interface{}, error) {
	var a detectBoardArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	cfg := s.cfg.BoardDetection()
	if a.Threshold != nil {
		if *a.Threshold < 0 || *a.Threshold > 255 {
			return nil, fmt.Errorf("threshold must be 0..255, got %d", *a.Threshold)
		}
		cfg.Threshold = uint8(*a.Threshold)
	}
	if a.MinClusterSupport != nil {
		cfg.MinClusterSupport = *a.MinClusterSupport
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	res, err := detection.FindBoard(img, cfg)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"geometry":   res.Geometry,
		"candidates": res.Candidates,
		"cells":      len(res.Cells),
	}, nil
}

type boardOverlayArgs struct {
	Path  string `json:"path"`
	Color string `json:"color"`
}

// BoardOverlayResult carries the annotated screenshot.
type BoardOverlayResult struct {
	Geometry domain.BoardGeometry `json:"geometry"`
	ImageB64 string               `json:"image_base64"`
}

func (s *Server) handleBoardOverlay(args json.RawMessage) (interface{}, error) {
	var a boardOverlayArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Color == "" {
		a.Color = "#FF0000"
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	geom, err := detection.DetectBoard(img, s.cfg.BoardDetection())
	if err != nil {
		return nil, err
	}
	overlay, err := imaging.BoardOverlay(img, geom, a.Color)
	if err != nil {
		return nil, err
	}
	b64, err := imaging.EncodePNGBase64(overlay)
	if err != nil {
		return nil, err
	}
	return &BoardOverlayResult{Geometry: geom, ImageB64: b64}, nil
}

// === Puzzle Handlers ===

type extractSpecArgs struct {
	Path      string `json:"path"`
	WorkDir   string `json:"work_dir"`
	ColumnTop *int   `json:"column_top"`
	Strategy  string `json:"strategy"`
}

func (s *Server) handleExtractSpec(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a extractSpecArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if s.engine == nil {
		return nil, errors.New("digit recognition is unavailable on this server")
	}

	cfg := s.cfg
	if a.WorkDir != "" {
		cfg.WorkDir = a.WorkDir
	}
	if a.ColumnTop != nil {
		cfg.Strips.ColumnTop = *a.ColumnTop
	}
	if a.Strategy != "" {
		if _, ok := recognize.ParseStrategy(a.Strategy); !ok {
			return nil, fmt.Errorf("unknown strategy: %s", a.Strategy)
		}
		cfg.Recognition.Strategy = a.Strategy
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	rec := recognize.New(s.engine, operator.Unattended{}, cfg.Recognizer(""))
	p := pipeline.New(pipeline.OptionsFromConfig(cfg, false), rec, operator.Unattended{}, nil)
	return p.Extract(ctx, img)
}

type verifySpecArgs struct {
	SpecPath string `json:"spec_path"`
}

func (s *Server) handleVerifySpec(args json.RawMessage) (interface{}, error) {
	var a verifySpecArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	spec, err := puzzle.ReadSpecFile(a.SpecPath)
	if err != nil {
		return nil, err
	}
	report := puzzle.Verify(spec)
	return map[string]interface{}{
		"consistent": report.OK(),
		"report":     report,
	}, nil
}

type mapSolutionArgs struct {
	Grid []string `json:"grid"`
	X1   int      `json:"x1"`
	Y1   int      `json:"y1"`
	X2   int      `json:"x2"`
	Y2   int      `json:"y2"`
}

func (s *Server) handleMapSolution(args json.RawMessage) (interface{}, error) {
	var a mapSolutionArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	sol, err := puzzle.ParseSolutionGrid(strings.NewReader(strings.Join(a.Grid, "\n")), len(a.Grid))
	if err != nil {
		return nil, err
	}
	geom := domain.BoardGeometry{
		Side:        sol.Side,
		TopLeft:     domain.Point{X: a.X1, Y: a.Y1},
		BottomRight: domain.Point{X: a.X2, Y: a.Y2},
	}
	if err := geom.Validate(); err != nil {
		return nil, err
	}
	points := replay.MapSolution(sol, geom)
	return map[string]interface{}{
		"taps":   len(points),
		"points": points,
	}, nil
}
