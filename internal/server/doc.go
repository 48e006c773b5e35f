// Package server implements the MCP (Model Context Protocol) server that
// exposes the layer stack as tools.
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
// Layer Management:
//   - layer_create, layer_remove, layer_select, layer_visibility, layer_list
//   - layer_load: Decode a file into the current layer
//   - layer_fill: Fill the current layer with a solid color
//   - layer_save: Write the topmost visible image to a file
//   - layer_preview: Base64 PNG of the topmost visible image
//
// Transforms (act on the current layer):
//   - filter_blur, filter_sharpen, filter_custom
//   - color_grayscale, color_sepia, color_custom
//   - effect_mosaic, image_downscale
//
// Analysis (read the topmost visible image unless a layer is named):
//   - image_sample_color, image_dominant_colors, image_palette
//   - layer_compare
//
// # State
//
// A Server owns a single layers.Stack for its lifetime. Requests are handled
// one at a time in arrival order, which is what the stack requires.
//
// # Error Handling
//
// Tool errors are returned as JSON-RPC error responses:
//   - -32602 "Invalid params" for malformed or invalid arguments
//   - -32000 "Tool execution failed" for everything else, with the Go error
//     string as data
//
// Every tool call is logged at debug level and failures at warn level, on
// stderr so stdout stays reserved for the protocol.
package server
