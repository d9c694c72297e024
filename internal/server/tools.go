package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the screenshot (PNG or JPEG)",
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "picross_detect_board",
			Description: "Find the puzzle board in a screenshot. Returns the board side (cells per row) and the inclusive pixel corners of the cell area, plus how many rectangles were considered.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"threshold": map[string]interface{}{
						"type":        "integer",
						"description": "Brightness above which a pixel belongs to a cell (0-255). Defaults to the configured value.",
					},
					"min_cluster_support": map[string]interface{}{
						"type":        "integer",
						"description": "Smallest number of equally sized rectangles accepted as cells. Defaults to the configured value.",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "picross_board_overlay",
			Description: "Draw the detected cell grid on the screenshot and return it as a base64-encoded PNG, to check the geometry before replaying taps.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Grid colour as hex (#RRGGBB), blended over the screenshot. Default #FF0000",
						"default":     "#FF0000",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "picross_extract_spec",
			Description: "Read every row and column clue of the screenshot and write the solver puzzle file. Fails with the offending line when a clue cannot be read, or with the counts and sums when the puzzle is inconsistent.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"work_dir": map[string]interface{}{
						"type":        "string",
						"description": "Directory for the puzzle file. Defaults to the configured work directory.",
					},
					"column_top": map[string]interface{}{
						"type":        "integer",
						"description": "First screenshot row of the column clue strip. Defaults to the configured value.",
					},
					"strategy": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"contour", "colorrun"},
						"description": "Row clue recognition strategy",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "picross_verify_spec",
			Description: "Check a puzzle file: line counts must equal the side and row clue sum must equal column clue sum.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"spec_path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the puzzle file",
					},
				},
				"required": []string{"spec_path"},
			},
		},
		{
			Name:        "picross_map_solution",
			Description: "Convert a solved grid into the screen coordinates of every filled cell, in row-major order.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"grid": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Solution rows; '#' or 'X' is a filled cell",
					},
					"x1": map[string]interface{}{
						"type":        "integer",
						"description": "Board top-left X (inclusive)",
					},
					"y1": map[string]interface{}{
						"type":        "integer",
						"description": "Board top-left Y (inclusive)",
					},
					"x2": map[string]interface{}{
						"type":        "integer",
						"description": "Board bottom-right X (inclusive)",
					},
					"y2": map[string]interface{}{
						"type":        "integer",
						"description": "Board bottom-right Y (inclusive)",
					},
				},
				"required": []string{"grid", "x1", "y1", "x2", "y2"},
			},
		},
	}
}

// handleToolsList responds to the tools/list request
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: jsonRPCVersion,
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
