package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	log "github.com/sirupsen/logrus"

	"github.com/ironsheep/image-layers-mcp/internal/codec"
	"github.com/ironsheep/image-layers-mcp/internal/imaging"
	"github.com/ironsheep/image-layers-mcp/internal/palette"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "layer_create", "filter_blur").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// invalidParamsError marks argument decoding and validation failures.
type invalidParamsError struct {
	err error
}

func (e *invalidParamsError) Error() string { return e.err.Error() }

func (e *invalidParamsError) Unwrap() error { return e.err }

// decodeArgs unmarshals tool arguments into v and validates them.
func decodeArgs(raw json.RawMessage, v validation.Validatable) error {
	if len(raw) == 0 || string(raw) == "null" {
		raw = json.RawMessage("{}")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return &invalidParamsError{err: err}
	}
	if err := v.Validate(); err != nil {
		return &invalidParamsError{err: err}
	}
	return nil
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Invalid arguments return code -32602; any other tool failure returns
// code -32000 with the error text as data.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		var invalid *invalidParamsError
		if errors.As(err, &invalid) {
			return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
		}
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
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
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	l := log.WithField("tool", name)
	l.Debug("tool call")

	result, err := s.dispatch(name, args)
	if err != nil {
		l.WithError(err).Warn("tool failed")
	}
	return result, err
}

func (s *Server) dispatch(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Layer Management
	case "layer_create":
		return s.handleLayerCreate(args)
	case "layer_remove":
		return s.handleLayerRemove(args)
	case "layer_select":
		return s.handleLayerSelect(args)
	case "layer_visibility":
		return s.handleLayerVisibility(args)
	case "layer_list":
		return s.stackState(), nil
	case "layer_load":
		return s.handleLayerLoad(args)
	case "layer_fill":
		return s.handleLayerFill(args)
	case "layer_save":
		return s.handleLayerSave(args)
	case "layer_preview":
		return s.handleLayerPreview(args)

	// Filters
	case "filter_blur":
		return s.applyToCurrent(imaging.BlurTransform)
	case "filter_sharpen":
		return s.applyToCurrent(imaging.SharpenTransform)
	case "filter_custom":
		return s.handleFilterCustom(args)

	// Color Transforms
	case "color_grayscale":
		return s.applyToCurrent(imaging.GrayscaleTransform)
	case "color_sepia":
		return s.applyToCurrent(imaging.SepiaTransform)
	case "color_custom":
		return s.handleColorCustom(args)

	// Effects and Resizing
	case "effect_mosaic":
		return s.handleEffectMosaic(args)
	case "image_downscale":
		return s.handleImageDownscale(args)

	// Analysis
	case "image_sample_color":
		return s.handleImageSampleColor(args)
	case "image_dominant_colors":
		return s.handleImageDominantColors(args)
	case "image_palette":
		return s.handleImagePalette(args)
	case "layer_compare":
		return s.handleLayerCompare(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
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

// === Stack State ===

type layerInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Visible  bool   `json:"visible"`
	HasImage bool   `json:"has_image"`
	Current  bool   `json:"current"`
}

type stackResult struct {
	Layers  []layerInfo `json:"layers"`
	Current string      `json:"current,omitempty"`
	Width   int         `json:"width,omitempty"`
	Height  int         `json:"height,omitempty"`
}

// stackState summarizes the stack bottom to top.
func (s *Server) stackState() *stackResult {
	cur, hasCurrent := s.stack.Current()
	res := &stackResult{Layers: []layerInfo{}}
	if hasCurrent {
		res.Current = cur.Name
	}
	if w, h, ok := s.stack.Size(); ok {
		res.Width, res.Height = w, h
	}
	for _, l := range s.stack.Layers() {
		res.Layers = append(res.Layers, layerInfo{
			ID:       l.ID,
			Name:     l.Name,
			Visible:  l.Visible,
			HasImage: l.HasImage(),
			Current:  hasCurrent && l.ID == cur.ID,
		})
	}
	return res
}

// targetImage returns the named layer's image, or the topmost visible
// image when name is empty.
func (s *Server) targetImage(name string) (*imaging.Grid, error) {
	if name == "" {
		return s.stack.TopmostVisibleImage()
	}
	l, err := s.stack.Layer(name)
	if err != nil {
		return nil, err
	}
	if !l.HasImage() {
		return nil, fmt.Errorf("layer %q has no image", name)
	}
	return l.Image, nil
}

func (s *Server) applyToCurrent(t imaging.Transform) (interface{}, error) {
	if err := s.stack.ApplyToCurrent(t); err != nil {
		return nil, fmt.Errorf("%s: %w", t, err)
	}
	return s.stackState(), nil
}

// === Layer Management Handlers ===

type layerNameArgs struct {
	Name string `json:"name"`
}

func (a *layerNameArgs) Validate() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.Name, validation.Required),
	)
}

func (s *Server) handleLayerCreate(args json.RawMessage) (interface{}, error) {
	var a layerNameArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := s.stack.CreateLayer(a.Name); err != nil {
		return nil, err
	}
	return s.stackState(), nil
}

func (s *Server) handleLayerRemove(args json.RawMessage) (interface{}, error) {
	var a layerNameArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := s.stack.RemoveLayer(a.Name); err != nil {
		return nil, err
	}
	return s.stackState(), nil
}

func (s *Server) handleLayerSelect(args json.RawMessage) (interface{}, error) {
	var a layerNameArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := s.stack.SetCurrent(a.Name); err != nil {
		return nil, err
	}
	return s.stackState(), nil
}

type layerVisibilityArgs struct {
	Name    string `json:"name"`
	Visible *bool  `json:"visible"`
}

func (a *layerVisibilityArgs) Validate() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.Name, validation.Required),
		validation.Field(&a.Visible, validation.NotNil),
	)
}

func (s *Server) handleLayerVisibility(args json.RawMessage) (interface{}, error) {
	var a layerVisibilityArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	var err error
	if *a.Visible {
		err = s.stack.SetVisible(a.Name)
	} else {
		err = s.stack.SetInvisible(a.Name)
	}
	if err != nil {
		return nil, err
	}
	return s.stackState(), nil
}

type layerLoadArgs struct {
	Path string `json:"path"`
}

func (a *layerLoadArgs) Validate() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.Path, validation.Required),
	)
}

type layerLoadResult struct {
	Path   string       `json:"path"`
	Width  int          `json:"width"`
	Height int          `json:"height"`
	Stack  *stackResult `json:"stack"`
}

func (s *Server) handleLayerLoad(args json.RawMessage) (interface{}, error) {
	var a layerLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	var g *imaging.Grid
	var err error
	if s.cache != nil {
		g, err = s.cache.Load(a.Path)
	} else {
		g, err = codec.Read(a.Path)
	}
	if err != nil {
		return nil, err
	}

	if err := s.stack.LoadIntoCurrent(g); err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"path":   a.Path,
		"width":  g.Width(),
		"height": g.Height(),
	}).Info("image loaded")

	return &layerLoadResult{
		Path:   a.Path,
		Width:  g.Width(),
		Height: g.Height(),
		Stack:  s.stackState(),
	}, nil
}

type layerFillArgs struct {
	Color  string `json:"color"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func (a *layerFillArgs) Validate() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.Color, validation.Required, validation.By(checkHexColor)),
		validation.Field(&a.Width, validation.Min(0)),
		validation.Field(&a.Height, validation.Min(0)),
	)
}

func checkHexColor(value interface{}) error {
	s, _ := value.(string)
	if _, err := imaging.ParseHexColor(s); err != nil {
		return errors.New("must be a hex color such as #FF8800")
	}
	return nil
}

func (s *Server) handleLayerFill(args json.RawMessage) (interface{}, error) {
	var a layerFillArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	// Default to the size shared by the stack
	if w, h, ok := s.stack.Size(); ok {
		if a.Width == 0 {
			a.Width = w
		}
		if a.Height == 0 {
			a.Height = h
		}
	}
	if a.Width == 0 || a.Height == 0 {
		return nil, &invalidParamsError{err: errors.New("width and height are required while no layer holds an image")}
	}

	fill, err := imaging.ParseHexColor(a.Color)
	if err != nil {
		return nil, err
	}
	name := "fill"
	if cur, ok := s.stack.Current(); ok {
		name = cur.Name
	}
	g, err := imaging.Solid(name, a.Width, a.Height, fill)
	if err != nil {
		return nil, err
	}
	if err := s.stack.LoadIntoCurrent(g); err != nil {
		return nil, err
	}
	return s.stackState(), nil
}

type layerSaveArgs struct {
	Path   string `json:"path"`
	Format string `json:"format"`
}

func (a *layerSaveArgs) Validate() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.Path, validation.Required),
		validation.Field(&a.Format, validation.By(checkFormat)),
	)
}

func checkFormat(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	_, err := codec.ParseFormat(s)
	return err
}

type layerSaveResult struct {
	Path   string `json:"path"`
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func (s *Server) handleLayerSave(args json.RawMessage) (interface{}, error) {
	var a layerSaveArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	g, err := s.stack.TopmostVisibleImage()
	if err != nil {
		return nil, err
	}

	path := a.Path
	var f codec.Format
	switch {
	case a.Format != "":
		f, err = codec.ParseFormat(a.Format)
	case filepath.Ext(path) == "":
		f = s.opts.DefaultFormat
		path += f.Ext()
	default:
		f, err = codec.FormatFromPath(path)
	}
	if err != nil {
		return nil, err
	}

	if err := codec.SaveAs(path, g, f); err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Evict(path)
	}
	log.WithFields(log.Fields{"path": path, "format": f}).Info("image saved")

	return &layerSaveResult{
		Path:   path,
		Format: f.String(),
		Width:  g.Width(),
		Height: g.Height(),
	}, nil
}

type layerPreviewArgs struct {
	Layer     string `json:"layer"`
	MaxWidth  int    `json:"max_width"`
	MaxHeight int    `json:"max_height"`
}

func (a *layerPreviewArgs) Validate() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.MaxWidth, validation.Min(0)),
		validation.Field(&a.MaxHeight, validation.Min(0)),
	)
}

func (s *Server) handleLayerPreview(args json.RawMessage) (interface{}, error) {
	var a layerPreviewArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.MaxWidth == 0 {
		a.MaxWidth = s.opts.PreviewMaxWidth
	}
	if a.MaxHeight == 0 {
		a.MaxHeight = s.opts.PreviewMaxHeight
	}

	g, err := s.targetImage(a.Layer)
	if err != nil {
		return nil, err
	}
	return imaging.Preview(g, a.MaxWidth, a.MaxHeight)
}

// === Transform Handlers ===

type filterCustomArgs struct {
	Kernel [][]float64 `json:"kernel"`
}

func (a *filterCustomArgs) Validate() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.Kernel, validation.Required),
	)
}

func (s *Server) handleFilterCustom(args json.RawMessage) (interface{}, error) {
	var a filterCustomArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	k, err := imaging.NewKernel(a.Kernel)
	if err != nil {
		return nil, &invalidParamsError{err: err}
	}
	return s.applyToCurrent(imaging.FilterTransform{Label: "custom", Kernel: k})
}

type colorCustomArgs struct {
	Matrix [][]float64 `json:"matrix"`
}

func (a *colorCustomArgs) Validate() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.Matrix, validation.Required, validation.Length(3, 3)),
	)
}

func (s *Server) handleColorCustom(args json.RawMessage) (interface{}, error) {
	var a colorCustomArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	m, err := imaging.NewColorMatrix(a.Matrix)
	if err != nil {
		return nil, &invalidParamsError{err: err}
	}
	return s.applyToCurrent(imaging.ColorTransformer{Label: "custom", Matrix: m})
}

type effectMosaicArgs struct {
	Seeds int `json:"seeds"`
}

func (a *effectMosaicArgs) Validate() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.Seeds, validation.Required, validation.Min(1)),
	)
}

func (s *Server) handleEffectMosaic(args json.RawMessage) (interface{}, error) {
	var a effectMosaicArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return s.applyToCurrent(imaging.MosaicTransform{Seeds: a.Seeds, Rand: s.rng})
}

type imageDownscaleArgs struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (a *imageDownscaleArgs) Validate() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.Width, validation.Required, validation.Min(1)),
		validation.Field(&a.Height, validation.Required, validation.Min(1)),
	)
}

func (s *Server) handleImageDownscale(args json.RawMessage) (interface{}, error) {
	var a imageDownscaleArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return s.applyToCurrent(imaging.DownscaleTransform{Width: a.Width, Height: a.Height})
}

// === Analysis Handlers ===

type imageSampleColorArgs struct {
	X     *int   `json:"x"`
	Y     *int   `json:"y"`
	Layer string `json:"layer"`
}

func (a *imageSampleColorArgs) Validate() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.X, validation.NotNil),
		validation.Field(&a.Y, validation.NotNil),
	)
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	g, err := s.targetImage(a.Layer)
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(g, *a.X, *a.Y)
}

type colorCountArgs struct {
	Count  int    `json:"count"`
	Method string `json:"method"`
	Layer  string `json:"layer"`
}

func (a *colorCountArgs) Validate() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.Count, validation.Min(0), validation.Max(256)),
		validation.Field(&a.Method, validation.In("dominant", "kmeans")),
	)
}

func (s *Server) handleImageDominantColors(args json.RawMessage) (interface{}, error) {
	var a colorCountArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Count == 0 {
		a.Count = 5
	}
	g, err := s.targetImage(a.Layer)
	if err != nil {
		return nil, err
	}
	return imaging.DominantColors(g, a.Count)
}

type paletteResult struct {
	Method   string           `json:"method"`
	Swatches []palette.Swatch `json:"swatches"`
}

func (s *Server) handleImagePalette(args json.RawMessage) (interface{}, error) {
	var a colorCountArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Count == 0 {
		a.Count = 5
	}
	m, err := palette.ParseMethod(a.Method)
	if err != nil {
		return nil, &invalidParamsError{err: err}
	}
	g, err := s.targetImage(a.Layer)
	if err != nil {
		return nil, err
	}
	swatches, err := palette.Extract(g, a.Count, m)
	if err != nil {
		return nil, err
	}
	return &paletteResult{Method: m.String(), Swatches: swatches}, nil
}

type layerCompareArgs struct {
	Layer1 string `json:"layer1"`
	Layer2 string `json:"layer2"`
}

func (a *layerCompareArgs) Validate() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.Layer1, validation.Required),
		validation.Field(&a.Layer2, validation.Required),
	)
}

func (s *Server) handleLayerCompare(args json.RawMessage) (interface{}, error) {
	var a layerCompareArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	g1, err := s.targetImage(a.Layer1)
	if err != nil {
		return nil, err
	}
	g2, err := s.targetImage(a.Layer2)
	if err != nil {
		return nil, err
	}
	return imaging.Compare(g1, g2)
}
