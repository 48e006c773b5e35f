package imaging

import "fmt"

// InvalidGridError reports a pixel grid that cannot be constructed: empty,
// ragged, oversized, or holding an out-of-range channel value.
type InvalidGridError struct {
	Reason string
}

func (e *InvalidGridError) Error() string {
	return fmt.Sprintf("invalid pixel grid: %s", e.Reason)
}

// OutOfBoundsError reports a row/column lookup outside the grid.
type OutOfBoundsError struct {
	Row, Col      int
	Width, Height int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("position (row %d, col %d) outside %dx%d grid", e.Row, e.Col, e.Width, e.Height)
}

// EmptyImageError is returned when a transform receives a nil or zero-sized grid.
type EmptyImageError struct{}

func (e *EmptyImageError) Error() string {
	return "image has no pixels"
}

// InvalidKernelError reports a convolution kernel that is empty, ragged, or
// has two even dimensions.
type InvalidKernelError struct {
	Reason string
}

func (e *InvalidKernelError) Error() string {
	return fmt.Sprintf("invalid kernel: %s", e.Reason)
}

// InvalidMatrixError reports a color matrix that is nil or not 3x3.
type InvalidMatrixError struct {
	Rows, Cols int
}

func (e *InvalidMatrixError) Error() string {
	return fmt.Sprintf("invalid color matrix: need 3x3, got %dx%d", e.Rows, e.Cols)
}

// InvalidSeedCountError reports a mosaic seed count outside [1, pixels].
type InvalidSeedCountError struct {
	Seeds  int
	Pixels int
}

func (e *InvalidSeedCountError) Error() string {
	return fmt.Sprintf("invalid seed count %d for image of %d pixels", e.Seeds, e.Pixels)
}

// InvalidTargetSizeError reports a downscale target that is non-positive or
// larger than the source.
type InvalidTargetSizeError struct {
	Width, Height       int
	SrcWidth, SrcHeight int
}

func (e *InvalidTargetSizeError) Error() string {
	return fmt.Sprintf("invalid target size %dx%d for %dx%d image", e.Width, e.Height, e.SrcWidth, e.SrcHeight)
}
