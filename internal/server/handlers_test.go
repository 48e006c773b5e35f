package server

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/image-layers-mcp/internal/codec"
	"github.com/ironsheep/image-layers-mcp/internal/imaging"
)

// callTool sends a tools/call request through handleRequest.
func callTool(t *testing.T, s *Server, name string, args interface{}) *MCPResponse {
	t.Helper()
	params, err := json.Marshal(map[string]interface{}{
		"name":      name,
		"arguments": args,
	})
	require.NoError(t, err)

	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  params,
	})
	require.NotNil(t, resp)
	return resp
}

// mustCall calls a tool, requires success and decodes the text content.
func mustCall(t *testing.T, s *Server, name string, args interface{}, out interface{}) {
	t.Helper()
	resp := callTool(t, s, name, args)
	require.Nil(t, resp.Error, "%s: %+v", name, resp.Error)

	result := resp.Result.(map[string]interface{})
	content := result["content"].([]map[string]interface{})
	require.Len(t, content, 1)
	assert.Equal(t, "text", content[0]["type"])
	if out != nil {
		require.NoError(t, json.Unmarshal([]byte(content[0]["text"].(string)), out))
	}
}

func requireErrorCode(t *testing.T, resp *MCPResponse, code int) {
	t.Helper()
	require.NotNil(t, resp.Error, "expected error code %d", code)
	assert.Equal(t, code, resp.Error.Code, "error data: %v", resp.Error.Data)
}

// createTestImageFile writes a solid-colored image and returns its path.
func createTestImageFile(t *testing.T, name string, width, height int, p imaging.Pixel) string {
	t.Helper()
	g, err := imaging.Solid("test", width, height, p)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, codec.Save(path, g))
	return path
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := newTestServer()
	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  json.RawMessage(`"not an object"`),
	})
	requireErrorCode(t, resp, -32602)
}

func TestHandleToolsCall_UnknownTool(t *testing.T) {
	resp := callTool(t, newTestServer(), "no_such_tool", map[string]interface{}{})
	requireErrorCode(t, resp, -32000)
}

func TestLayerTools_Lifecycle(t *testing.T) {
	s := newTestServer()

	var state stackResult
	mustCall(t, s, "layer_create", map[string]interface{}{"name": "base"}, &state)
	mustCall(t, s, "layer_create", map[string]interface{}{"name": "top"}, &state)
	require.Len(t, state.Layers, 2)
	assert.Equal(t, "base", state.Current)
	assert.True(t, state.Layers[0].Current)
	assert.NotEmpty(t, state.Layers[1].ID)

	mustCall(t, s, "layer_select", map[string]interface{}{"name": "top"}, &state)
	assert.Equal(t, "top", state.Current)

	mustCall(t, s, "layer_visibility", map[string]interface{}{"name": "base", "visible": false}, &state)
	assert.False(t, state.Layers[0].Visible)

	resp := callTool(t, s, "layer_select", map[string]interface{}{"name": "base"})
	requireErrorCode(t, resp, -32000)

	mustCall(t, s, "layer_remove", map[string]interface{}{"name": "top"}, &state)
	require.Len(t, state.Layers, 1)
	assert.Equal(t, "base", state.Current)

	mustCall(t, s, "layer_list", nil, &state)
	assert.Len(t, state.Layers, 1)
}

func TestLayerTools_Validation(t *testing.T) {
	s := newTestServer()

	tests := []struct {
		tool string
		args map[string]interface{}
	}{
		{"layer_create", map[string]interface{}{}},
		{"layer_create", map[string]interface{}{"name": 5}},
		{"layer_visibility", map[string]interface{}{"name": "a"}},
		{"layer_load", map[string]interface{}{}},
		{"layer_fill", map[string]interface{}{"color": "not-a-color"}},
		{"layer_save", map[string]interface{}{"path": "/tmp/x", "format": "psd"}},
		{"filter_custom", map[string]interface{}{}},
		{"filter_custom", map[string]interface{}{"kernel": [][]float64{{1, 1}, {1, 1}}}},
		{"color_custom", map[string]interface{}{"matrix": [][]float64{{1, 0}, {0, 1}}}},
		{"effect_mosaic", map[string]interface{}{"seeds": 0}},
		{"image_downscale", map[string]interface{}{"width": 2}},
		{"image_sample_color", map[string]interface{}{"x": 1}},
		{"image_palette", map[string]interface{}{"method": "median"}},
		{"layer_compare", map[string]interface{}{"layer1": "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			requireErrorCode(t, callTool(t, s, tt.tool, tt.args), -32602)
		})
	}
}

func TestLayerLoad_DimensionInvariant(t *testing.T) {
	s := newTestServer()
	four := createTestImageFile(t, "four.png", 4, 4, imaging.Pixel{R: 255})
	three := createTestImageFile(t, "three.ppm", 3, 3, imaging.Pixel{G: 255})

	mustCall(t, s, "layer_create", map[string]interface{}{"name": "a"}, nil)
	var loaded layerLoadResult
	mustCall(t, s, "layer_load", map[string]interface{}{"path": four}, &loaded)
	assert.Equal(t, 4, loaded.Width)
	assert.Equal(t, 4, loaded.Stack.Width)
	assert.True(t, loaded.Stack.Layers[0].HasImage)

	mustCall(t, s, "layer_create", map[string]interface{}{"name": "b"}, nil)
	mustCall(t, s, "layer_select", map[string]interface{}{"name": "b"}, nil)
	requireErrorCode(t, callTool(t, s, "layer_load", map[string]interface{}{"path": three}), -32000)

	requireErrorCode(t, callTool(t, s, "layer_load", map[string]interface{}{"path": "/nonexistent/file.png"}), -32000)
}

func TestLayerLoad_Cached(t *testing.T) {
	s := New(DefaultOptions())
	path := createTestImageFile(t, "a.png", 2, 2, imaging.Pixel{B: 9})

	mustCall(t, s, "layer_create", map[string]interface{}{"name": "a"}, nil)
	mustCall(t, s, "layer_load", map[string]interface{}{"path": path}, nil)
	mustCall(t, s, "layer_load", map[string]interface{}{"path": path}, nil)
	assert.Equal(t, 1, s.cache.Len())
}

func TestFilterTools(t *testing.T) {
	s := newTestServer()

	// No current layer yet
	requireErrorCode(t, callTool(t, s, "filter_blur", nil), -32000)

	mustCall(t, s, "layer_create", map[string]interface{}{"name": "a"}, nil)
	requireErrorCode(t, callTool(t, s, "filter_blur", nil), -32000)

	mustCall(t, s, "layer_fill", map[string]interface{}{"color": "#0A64C8", "width": 1, "height": 1}, nil)
	mustCall(t, s, "filter_blur", nil, nil)

	var sample imaging.ColorResult
	mustCall(t, s, "image_sample_color", map[string]interface{}{"x": 0, "y": 0}, &sample)
	assert.Equal(t, imaging.Pixel{R: 3, G: 25, B: 50}, sample.RGB)

	mustCall(t, s, "filter_custom", map[string]interface{}{"kernel": [][]float64{{2}}}, nil)
	mustCall(t, s, "image_sample_color", map[string]interface{}{"x": 0, "y": 0}, &sample)
	assert.Equal(t, imaging.Pixel{R: 6, G: 50, B: 100}, sample.RGB)

	mustCall(t, s, "filter_sharpen", nil, nil)
}

func TestColorTools(t *testing.T) {
	s := newTestServer()
	mustCall(t, s, "layer_create", map[string]interface{}{"name": "a"}, nil)
	mustCall(t, s, "layer_fill", map[string]interface{}{"color": "#FF0000", "width": 2, "height": 2}, nil)

	mustCall(t, s, "color_custom", map[string]interface{}{
		"matrix": [][]float64{{0, 0, 0}, {1, 0, 0}, {0, 0, 0}},
	}, nil)
	var sample imaging.ColorResult
	mustCall(t, s, "image_sample_color", map[string]interface{}{"x": 1, "y": 1}, &sample)
	assert.Equal(t, "#00FF00", sample.Hex)

	mustCall(t, s, "color_grayscale", nil, nil)
	mustCall(t, s, "image_sample_color", map[string]interface{}{"x": 1, "y": 1}, &sample)
	assert.Equal(t, imaging.Pixel{R: 182, G: 182, B: 182}, sample.RGB)

	mustCall(t, s, "color_sepia", nil, nil)
}

func TestEffectMosaic(t *testing.T) {
	s := newTestServer()
	mustCall(t, s, "layer_create", map[string]interface{}{"name": "a"}, nil)
	mustCall(t, s, "layer_fill", map[string]interface{}{"color": "#102030", "width": 3, "height": 3}, nil)

	mustCall(t, s, "effect_mosaic", map[string]interface{}{"seeds": 1}, nil)
	var sample imaging.ColorResult
	mustCall(t, s, "image_sample_color", map[string]interface{}{"x": 2, "y": 2}, &sample)
	assert.Equal(t, "#102030", sample.Hex)

	requireErrorCode(t, callTool(t, s, "effect_mosaic", map[string]interface{}{"seeds": 10}), -32000)
}

func TestImageDownscale(t *testing.T) {
	s := newTestServer()
	mustCall(t, s, "layer_create", map[string]interface{}{"name": "a"}, nil)
	mustCall(t, s, "layer_fill", map[string]interface{}{"color": "#FFFFFF", "width": 8, "height": 6}, nil)

	var state stackResult
	mustCall(t, s, "image_downscale", map[string]interface{}{"width": 4, "height": 3}, &state)
	assert.Equal(t, 4, state.Width)
	assert.Equal(t, 3, state.Height)

	requireErrorCode(t, callTool(t, s, "image_downscale", map[string]interface{}{"width": 5, "height": 3}), -32000)

	// A second image pins the size
	mustCall(t, s, "layer_create", map[string]interface{}{"name": "b"}, nil)
	mustCall(t, s, "layer_select", map[string]interface{}{"name": "b"}, nil)
	mustCall(t, s, "layer_fill", map[string]interface{}{"color": "#000000"}, &state)
	assert.Equal(t, 4, state.Width, "fill defaults to the stack size")
	requireErrorCode(t, callTool(t, s, "image_downscale", map[string]interface{}{"width": 2, "height": 2}), -32000)
}

func TestLayerFill_NeedsSize(t *testing.T) {
	s := newTestServer()
	mustCall(t, s, "layer_create", map[string]interface{}{"name": "a"}, nil)
	requireErrorCode(t, callTool(t, s, "layer_fill", map[string]interface{}{"color": "#000000"}), -32602)
}

func TestTopmostVisible_AnalysisTools(t *testing.T) {
	s := newTestServer()
	for _, n := range []string{"A", "B", "C"} {
		mustCall(t, s, "layer_create", map[string]interface{}{"name": n}, nil)
	}
	mustCall(t, s, "layer_select", map[string]interface{}{"name": "B"}, nil)
	mustCall(t, s, "layer_fill", map[string]interface{}{"color": "#00FF00", "width": 4, "height": 4}, nil)
	mustCall(t, s, "layer_select", map[string]interface{}{"name": "C"}, nil)
	mustCall(t, s, "layer_fill", map[string]interface{}{"color": "#0000FF"}, nil)
	mustCall(t, s, "layer_visibility", map[string]interface{}{"name": "B", "visible": false}, nil)

	var sample imaging.ColorResult
	mustCall(t, s, "image_sample_color", map[string]interface{}{"x": 0, "y": 0}, &sample)
	assert.Equal(t, "#0000FF", sample.Hex)

	mustCall(t, s, "image_sample_color", map[string]interface{}{"x": 0, "y": 0, "layer": "B"}, &sample)
	assert.Equal(t, "#00FF00", sample.Hex, "named layers are readable while hidden")

	requireErrorCode(t, callTool(t, s, "image_sample_color", map[string]interface{}{"x": 0, "y": 0, "layer": "A"}), -32000)
	requireErrorCode(t, callTool(t, s, "image_sample_color", map[string]interface{}{"x": 9, "y": 0}), -32000)

	var dominant imaging.DominantColorsResult
	mustCall(t, s, "image_dominant_colors", map[string]interface{}{}, &dominant)
	require.Len(t, dominant.Colors, 1)
	assert.Equal(t, 100.0, dominant.Colors[0].Percentage)

	var pal paletteResult
	mustCall(t, s, "image_palette", map[string]interface{}{"count": 2, "method": "kmeans"}, &pal)
	assert.Equal(t, "kmeans", pal.Method)
	require.NotEmpty(t, pal.Swatches)
	assert.Equal(t, "#0000FF", pal.Swatches[0].Hex)

	var cmp imaging.CompareResult
	mustCall(t, s, "layer_compare", map[string]interface{}{"layer1": "B", "layer2": "C"}, &cmp)
	assert.Equal(t, 16, cmp.PixelsDifferent)
	assert.True(t, cmp.SameSize)

	mustCall(t, s, "layer_visibility", map[string]interface{}{"name": "C", "visible": false}, nil)
	requireErrorCode(t, callTool(t, s, "image_sample_color", map[string]interface{}{"x": 0, "y": 0}), -32000)
}

func TestLayerPreview(t *testing.T) {
	opts := DefaultOptions()
	opts.Cache = false
	opts.PreviewMaxWidth = 10
	opts.PreviewMaxHeight = 10
	s := New(opts)

	requireErrorCode(t, callTool(t, s, "layer_preview", nil), -32000)

	mustCall(t, s, "layer_create", map[string]interface{}{"name": "a"}, nil)
	mustCall(t, s, "layer_fill", map[string]interface{}{"color": "#123456", "width": 40, "height": 20}, nil)

	var preview imaging.PreviewResult
	mustCall(t, s, "layer_preview", nil, &preview)
	assert.Equal(t, 10, preview.Width)
	assert.Equal(t, 5, preview.Height)
	assert.Equal(t, "image/png", preview.MimeType)
	assert.NotEmpty(t, preview.ImageBase64)

	mustCall(t, s, "layer_preview", map[string]interface{}{"max_width": 20, "max_height": 20, "layer": "a"}, &preview)
	assert.Equal(t, 20, preview.Width)
}

func TestLayerSave(t *testing.T) {
	s := newTestServer()
	dir := t.TempDir()

	requireErrorCode(t, callTool(t, s, "layer_save", map[string]interface{}{"path": filepath.Join(dir, "x.png")}), -32000)

	mustCall(t, s, "layer_create", map[string]interface{}{"name": "a"}, nil)
	mustCall(t, s, "layer_fill", map[string]interface{}{"color": "#C0FFEE", "width": 3, "height": 2}, nil)

	var saved layerSaveResult
	mustCall(t, s, "layer_save", map[string]interface{}{"path": filepath.Join(dir, "out.ppm")}, &saved)
	assert.Equal(t, "ppm", saved.Format)
	g, err := codec.Read(saved.Path)
	require.NoError(t, err)
	p, _ := g.At(1, 2)
	assert.Equal(t, "#C0FFEE", p.Hex())

	mustCall(t, s, "layer_save", map[string]interface{}{"path": filepath.Join(dir, "noext")}, &saved)
	assert.Equal(t, filepath.Join(dir, "noext.png"), saved.Path)
	_, err = os.Stat(saved.Path)
	assert.NoError(t, err)

	mustCall(t, s, "layer_save", map[string]interface{}{"path": filepath.Join(dir, "forced.img"), "format": "bmp"}, &saved)
	assert.Equal(t, "bmp", saved.Format)

	requireErrorCode(t, callTool(t, s, "layer_save", map[string]interface{}{"path": filepath.Join(dir, "out.webp")}), -32000)
}
