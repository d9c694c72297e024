// Package server exposes the extraction pipeline as MCP (Model Context
// Protocol) tools.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - picross_detect_board: Board side and corners of a screenshot
//   - picross_board_overlay: Screenshot with the detected grid drawn on it
//   - picross_extract_spec: Full extraction into a puzzle file
//   - picross_verify_spec: Consistency report of a puzzle file
//   - picross_map_solution: Tap coordinates for a solved grid
//
// # Operator Fallback
//
// Nobody can type a correction into an MCP session, so the server runs the
// pipeline unattended: a line that cannot be read, or an inconsistent
// puzzle, fails the tool call with the cause in the error data. The client
// can fix the puzzle file and call picross_verify_spec.
//
// # Image Caching
//
// Screenshots are cached by path for the lifetime of the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
package server
