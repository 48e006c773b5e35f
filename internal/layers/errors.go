package layers

import "fmt"

// DimensionMismatchError is returned when a grid's size differs from the
// size already established by another layer in the stack.
type DimensionMismatchError struct {
	Layer               string // layer already holding an image
	Width, Height       int    // size held by Layer
	GotWidth, GotHeight int    // size of the rejected grid
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("image is %dx%d but layer %q holds %dx%d",
		e.GotWidth, e.GotHeight, e.Layer, e.Width, e.Height)
}

// NoSuchLayerError is returned for an unknown layer name or index.
type NoSuchLayerError struct {
	Name  string // empty when looked up by index
	Index int    // -1 when looked up by name
}

func (e *NoSuchLayerError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("no layer at index %d", e.Index)
	}
	return fmt.Sprintf("no layer named %q", e.Name)
}

// LayerInvisibleError is returned when an invisible layer is selected.
type LayerInvisibleError struct {
	Name string
}

func (e *LayerInvisibleError) Error() string {
	return fmt.Sprintf("layer %q is invisible", e.Name)
}

// NoOperableLayerError is returned when an operation needs a current layer
// that is set, visible and holds an image.
type NoOperableLayerError struct {
	Reason string
}

func (e *NoOperableLayerError) Error() string {
	return "no operable layer: " + e.Reason
}

// NoVisibleImageError is returned when no visible layer holds an image.
type NoVisibleImageError struct{}

func (e *NoVisibleImageError) Error() string {
	return "no visible layer holds an image"
}

// InvalidLayerNameError is returned for an empty layer name.
type InvalidLayerNameError struct {
	Name string
}

func (e *InvalidLayerNameError) Error() string {
	return fmt.Sprintf("invalid layer name %q", e.Name)
}
