package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// objectSchema builds an object input schema.
func objectSchema(properties map[string]interface{}, required ...string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func stringProp(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

func integerProp(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": description,
	}
}

func matrixProp(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "array",
		"description": description,
		"items": map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "number"},
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	layerName := stringProp("Layer name")
	optionalLayer := stringProp("Layer to read instead of the topmost visible image")

	return []Tool{
		// Layer Management
		{
			Name:        "layer_create",
			Description: "Create an empty, visible layer on top of the stack. Creating an existing name does nothing. The first layer becomes the current layer.",
			InputSchema: objectSchema(map[string]interface{}{
				"name": layerName,
			}, "name"),
		},
		{
			Name:        "layer_remove",
			Description: "Remove a layer. If it was current, the layer below it becomes current.",
			InputSchema: objectSchema(map[string]interface{}{
				"name": layerName,
			}, "name"),
		},
		{
			Name:        "layer_select",
			Description: "Make a visible layer the current layer. Filters, color transforms and effects act on the current layer.",
			InputSchema: objectSchema(map[string]interface{}{
				"name": layerName,
			}, "name"),
		},
		{
			Name:        "layer_visibility",
			Description: "Show or hide a layer. Hidden layers are skipped when compositing and cannot be edited.",
			InputSchema: objectSchema(map[string]interface{}{
				"name": layerName,
				"visible": map[string]interface{}{
					"type":        "boolean",
					"description": "true to show, false to hide",
				},
			}, "name", "visible"),
		},
		{
			Name:        "layer_list",
			Description: "List layers bottom to top with visibility, image presence and the current layer.",
			InputSchema: objectSchema(map[string]interface{}{}),
		},
		{
			Name:        "layer_load",
			Description: "Load an image file (ppm, png, jpeg, gif, bmp, tiff, webp) into the current layer. All layers holding images must share one size.",
			InputSchema: objectSchema(map[string]interface{}{
				"path": stringProp("Absolute path to the image file"),
			}, "path"),
		},
		{
			Name:        "layer_fill",
			Description: "Fill the current layer with a solid color. Width and height default to the stack's image size.",
			InputSchema: objectSchema(map[string]interface{}{
				"color":  stringProp("Hex color, e.g. #FF8800"),
				"width":  integerProp("Width in pixels"),
				"height": integerProp("Height in pixels"),
			}, "color"),
		},
		{
			Name:        "layer_save",
			Description: "Save the topmost visible image to a file. The format comes from the extension or the format argument.",
			InputSchema: objectSchema(map[string]interface{}{
				"path":   stringProp("Destination file path"),
				"format": stringProp("Optional format: ppm, png, jpeg, gif, bmp or tiff"),
			}, "path"),
		},
		{
			Name:        "layer_preview",
			Description: "Return the topmost visible image (or a named layer) as base64-encoded PNG, scaled down to fit the given bounds.",
			InputSchema: objectSchema(map[string]interface{}{
				"layer":      optionalLayer,
				"max_width":  integerProp("Maximum preview width, 0 for the configured default"),
				"max_height": integerProp("Maximum preview height, 0 for the configured default"),
			}),
		},

		// Filters
		{
			Name:        "filter_blur",
			Description: "Blur the current layer with a 3x3 kernel. Pixels outside the image count as black.",
			InputSchema: objectSchema(map[string]interface{}{}),
		},
		{
			Name:        "filter_sharpen",
			Description: "Sharpen the current layer with a 5x5 kernel.",
			InputSchema: objectSchema(map[string]interface{}{}),
		},
		{
			Name:        "filter_custom",
			Description: "Convolve the current layer with a custom kernel. At least one kernel dimension must be odd.",
			InputSchema: objectSchema(map[string]interface{}{
				"kernel": matrixProp("Kernel weights, one array per row"),
			}, "kernel"),
		},

		// Color Transforms
		{
			Name:        "color_grayscale",
			Description: "Convert the current layer to grayscale using luma weights.",
			InputSchema: objectSchema(map[string]interface{}{}),
		},
		{
			Name:        "color_sepia",
			Description: "Apply a sepia tone to the current layer.",
			InputSchema: objectSchema(map[string]interface{}{}),
		},
		{
			Name:        "color_custom",
			Description: "Multiply every pixel of the current layer by a 3x3 color matrix.",
			InputSchema: objectSchema(map[string]interface{}{
				"matrix": matrixProp("3x3 matrix, rows produce R, G and B"),
			}, "matrix"),
		},

		// Effects and Resizing
		{
			Name:        "effect_mosaic",
			Description: "Split the current layer into regions around randomly placed seeds and fill each region with its mean color.",
			InputSchema: objectSchema(map[string]interface{}{
				"seeds": integerProp("Number of seeds, between 1 and the pixel count"),
			}, "seeds"),
		},
		{
			Name:        "image_downscale",
			Description: "Shrink the current layer with nearest-neighbor sampling. Fails if another layer holds an image.",
			InputSchema: objectSchema(map[string]interface{}{
				"width":  integerProp("Target width, at most the current width"),
				"height": integerProp("Target height, at most the current height"),
			}, "width", "height"),
		},

		// Analysis
		{
			Name:        "image_sample_color",
			Description: "Get the color at a pixel of the topmost visible image, as hex, RGB and HSL.",
			InputSchema: objectSchema(map[string]interface{}{
				"x":     integerProp("X coordinate (0-based, from left)"),
				"y":     integerProp("Y coordinate (0-based, from top)"),
				"layer": optionalLayer,
			}, "x", "y"),
		},
		{
			Name:        "image_dominant_colors",
			Description: "Find the most common colors of the topmost visible image after quantization.",
			InputSchema: objectSchema(map[string]interface{}{
				"count": integerProp("Number of colors to return. Default 5"),
				"layer": optionalLayer,
			}),
		},
		{
			Name:        "image_palette",
			Description: "Extract a representative palette from the topmost visible image by clustering.",
			InputSchema: objectSchema(map[string]interface{}{
				"count":  integerProp("Palette size. Default 5"),
				"method": stringProp("dominant (default) or kmeans"),
				"layer":  optionalLayer,
			}),
		},
		{
			Name:        "layer_compare",
			Description: "Compare the images of two layers pixel by pixel and return a similarity score.",
			InputSchema: objectSchema(map[string]interface{}{
				"layer1": stringProp("First layer name"),
				"layer2": stringProp("Second layer name"),
			}, "layer1", "layer2"),
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
