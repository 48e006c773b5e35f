package layers

import (
	"math/rand/v2"

	"github.com/lithammer/shortuuid/v3"

	"github.com/ironsheep/image-layers-mcp/internal/imaging"
)

// Layer is one named entry of a Stack.
//
// Values returned by Stack accessors are snapshots; changing them does not
// affect the stack.
type Layer struct {
	// ID is generated on creation and never changes, even if layers before
	// it are removed.
	ID string `json:"id"`

	// Name is unique within the stack.
	Name string `json:"name"`

	// Image is nil until a grid is loaded.
	Image *imaging.Grid `json:"-"`

	// Visible defaults to true.
	Visible bool `json:"visible"`
}

// HasImage reports whether the layer holds a grid.
func (l Layer) HasImage() bool {
	return l.Image != nil
}

// Stack is an insertion-ordered collection of layers with a current layer.
//
// The first layer created on an empty stack becomes current. Transform
// operations are routed to the current layer, which must be visible and
// hold an image. Once any layer holds an image, every grid loaded into any
// other layer must have the same width and height.
//
// The current layer is tracked by ID, so removing earlier layers never
// shifts it onto a different layer.
//
// A Stack is not safe for concurrent use; callers must serialize
// operations on a given instance. A failed operation leaves the stack
// unchanged.
type Stack struct {
	layers  []*Layer
	current string // layer ID, "" when unset
}

// NewStack returns an empty stack with no current layer.
func NewStack() *Stack {
	return &Stack{}
}

func (s *Stack) indexOfName(name string) int {
	for i, l := range s.layers {
		if l.Name == name {
			return i
		}
	}
	return -1
}

func (s *Stack) indexOfID(id string) int {
	for i, l := range s.layers {
		if l.ID == id {
			return i
		}
	}
	return -1
}

func (s *Stack) lookup(name string) (*Layer, error) {
	i := s.indexOfName(name)
	if i < 0 {
		return nil, &NoSuchLayerError{Name: name, Index: -1}
	}
	return s.layers[i], nil
}

// currentLayer resolves the current ID, or returns nil if unset.
func (s *Stack) currentLayer() *Layer {
	if s.current == "" {
		return nil
	}
	if i := s.indexOfID(s.current); i >= 0 {
		return s.layers[i]
	}
	return nil
}

// CreateLayer appends a visible, empty layer named name.
//
// Creating a name that already exists is a no-op. The new layer becomes
// current if the stack has no current layer. Returns an
// *InvalidLayerNameError for an empty name.
func (s *Stack) CreateLayer(name string) error {
	if name == "" {
		return &InvalidLayerNameError{Name: name}
	}
	if s.indexOfName(name) >= 0 {
		return nil
	}
	l := &Layer{ID: shortuuid.New(), Name: name, Visible: true}
	s.layers = append(s.layers, l)
	if s.currentLayer() == nil {
		s.current = l.ID
	}
	return nil
}

// RemoveLayer deletes the named layer.
//
// If it was current, the layer inserted just before it becomes current, or
// the new first layer when it was first. Removing the last layer clears the
// current layer. Returns a *NoSuchLayerError if name is unknown.
func (s *Stack) RemoveLayer(name string) error {
	i := s.indexOfName(name)
	if i < 0 {
		return &NoSuchLayerError{Name: name, Index: -1}
	}
	removed := s.layers[i]
	s.layers = append(s.layers[:i], s.layers[i+1:]...)

	if removed.ID != s.current {
		return nil
	}
	switch {
	case len(s.layers) == 0:
		s.current = ""
	case i > 0:
		s.current = s.layers[i-1].ID
	default:
		s.current = s.layers[0].ID
	}
	return nil
}

// SetCurrent makes the named layer current.
//
// Returns a *NoSuchLayerError if name is unknown and a
// *LayerInvisibleError if the layer is invisible.
func (s *Stack) SetCurrent(name string) error {
	l, err := s.lookup(name)
	if err != nil {
		return err
	}
	if !l.Visible {
		return &LayerInvisibleError{Name: name}
	}
	s.current = l.ID
	return nil
}

// SetVisible marks the named layer visible. Idempotent.
func (s *Stack) SetVisible(name string) error {
	return s.setVisibility(name, true)
}

// SetInvisible marks the named layer invisible. Idempotent. The layer stays
// current if it was, but operations on it fail until it is visible again.
func (s *Stack) SetInvisible(name string) error {
	return s.setVisibility(name, false)
}

func (s *Stack) setVisibility(name string, visible bool) error {
	l, err := s.lookup(name)
	if err != nil {
		return err
	}
	l.Visible = visible
	return nil
}

// checkDimensions verifies g against every layer other than skip.
func (s *Stack) checkDimensions(g *imaging.Grid, skip *Layer) error {
	for _, l := range s.layers {
		if l == skip || l.Image == nil {
			continue
		}
		if !l.Image.SameSize(g) {
			return &DimensionMismatchError{
				Layer:    l.Name,
				Width:    l.Image.Width(),
				Height:   l.Image.Height(),
				GotWidth: g.Width(), GotHeight: g.Height(),
			}
		}
	}
	return nil
}

// LoadIntoCurrent stores g in the current layer, replacing any image there.
//
// Returns a *NoOperableLayerError if no layer is current and a
// *DimensionMismatchError if another layer holds an image of a different
// size.
func (s *Stack) LoadIntoCurrent(g *imaging.Grid) error {
	cur := s.currentLayer()
	if cur == nil {
		return &NoOperableLayerError{Reason: "no current layer"}
	}
	if g == nil || g.Len() == 0 {
		return &imaging.EmptyImageError{}
	}
	if err := s.checkDimensions(g, cur); err != nil {
		return err
	}
	cur.Image = g
	return nil
}

// operable returns the current layer if transforms may run on it.
func (s *Stack) operable() (*Layer, error) {
	cur := s.currentLayer()
	switch {
	case cur == nil:
		return nil, &NoOperableLayerError{Reason: "no current layer"}
	case !cur.Visible:
		return nil, &NoOperableLayerError{Reason: "layer " + cur.Name + " is invisible"}
	case cur.Image == nil:
		return nil, &NoOperableLayerError{Reason: "layer " + cur.Name + " has no image"}
	}
	return cur, nil
}

// ApplyToCurrent runs t on the current layer's image and stores the result.
//
// Returns a *NoOperableLayerError if the current layer is unset, invisible
// or empty, a *DimensionMismatchError if the result changes size while
// another layer holds an image, or the transform's own error.
func (s *Stack) ApplyToCurrent(t imaging.Transform) error {
	cur, err := s.operable()
	if err != nil {
		return err
	}
	out, err := t.Apply(cur.Image)
	if err != nil {
		return err
	}
	if !out.SameSize(cur.Image) {
		if err := s.checkDimensions(out, cur); err != nil {
			return err
		}
	}
	cur.Image = out
	return nil
}

// FilterCurrent convolves the current layer's image with k.
func (s *Stack) FilterCurrent(k *imaging.Kernel) error {
	return s.ApplyToCurrent(imaging.FilterTransform{Label: "custom", Kernel: k})
}

// ColorTransformCurrent multiplies the current layer's image by m.
func (s *Stack) ColorTransformCurrent(m *imaging.ColorMatrix) error {
	return s.ApplyToCurrent(imaging.ColorTransformer{Label: "custom", Matrix: m})
}

// MosaicCurrent applies the seed-clustering mosaic to the current layer.
func (s *Stack) MosaicCurrent(seeds int, rng *rand.Rand) error {
	return s.ApplyToCurrent(imaging.MosaicTransform{Seeds: seeds, Rand: rng})
}

// DownscaleCurrent shrinks the current layer's image. It fails with a
// *DimensionMismatchError unless the current layer is the only one holding
// an image.
func (s *Stack) DownscaleCurrent(width, height int) error {
	return s.ApplyToCurrent(imaging.DownscaleTransform{Width: width, Height: height})
}

// TopmostVisibleImage returns the image of the most recently inserted layer
// that is visible and holds an image.
func (s *Stack) TopmostVisibleImage() (*imaging.Grid, error) {
	for i := len(s.layers) - 1; i >= 0; i-- {
		l := s.layers[i]
		if l.Visible && l.Image != nil {
			return l.Image, nil
		}
	}
	return nil, &NoVisibleImageError{}
}

// LayerCount returns the number of layers.
func (s *Stack) LayerCount() int {
	return len(s.layers)
}

// LayerAt returns a snapshot of the layer at index, in insertion order.
func (s *Stack) LayerAt(index int) (Layer, error) {
	if index < 0 || index >= len(s.layers) {
		return Layer{}, &NoSuchLayerError{Index: index}
	}
	return *s.layers[index], nil
}

// VisibilityAt returns the visibility flag of the layer at index.
func (s *Stack) VisibilityAt(index int) (bool, error) {
	l, err := s.LayerAt(index)
	if err != nil {
		return false, err
	}
	return l.Visible, nil
}

// Layer returns a snapshot of the named layer.
func (s *Stack) Layer(name string) (Layer, error) {
	l, err := s.lookup(name)
	if err != nil {
		return Layer{}, err
	}
	return *l, nil
}

// Current returns a snapshot of the current layer; ok is false if unset.
func (s *Stack) Current() (layer Layer, ok bool) {
	cur := s.currentLayer()
	if cur == nil {
		return Layer{}, false
	}
	return *cur, true
}

// Layers returns snapshots of all layers in insertion order.
func (s *Stack) Layers() []Layer {
	out := make([]Layer, len(s.layers))
	for i, l := range s.layers {
		out[i] = *l
	}
	return out
}

// Size returns the dimensions shared by every image in the stack; ok is
// false when no layer holds an image.
func (s *Stack) Size() (width, height int, ok bool) {
	for _, l := range s.layers {
		if l.Image != nil {
			return l.Image.Width(), l.Image.Height(), true
		}
	}
	return 0, 0, false
}
