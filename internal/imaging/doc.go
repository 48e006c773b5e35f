// Package imaging is the pixel-transformation engine behind the layer editor.
//
// Every operation consumes an immutable *Grid of 8-bit RGB pixels and
// returns a new *Grid; inputs are never modified, so a grid can be shared by
// several layers and passed to several transforms at once.
//
// # Coordinate System
//
// Grids are addressed by (row, col) in At, with (0,0) at the top-left. Tool
// facing helpers such as SampleColor take (x, y) where x is the column and y
// the row.
//
// # Transforms
//
//   - Filter: kernel convolution with zero padding (Blur, Sharpen built in)
//   - ColorTransform: 3x3 matrix per pixel (Grayscale, Sepia built in)
//   - Mosaic: random-seed clustering flattened to cluster means
//   - Downscale: nearest-neighbor index mapping, never enlarges
//
// Channel arithmetic is done in float64; results are clamped into [0,255]
// and rounded to the nearest integer.
//
// # Error Handling
//
// All failures are typed errors (InvalidGridError, OutOfBoundsError,
// EmptyImageError, InvalidKernelError, InvalidMatrixError,
// InvalidSeedCountError, InvalidTargetSizeError); match them with errors.As.
//
// # Thread Safety
//
// Grids are read-only after construction and safe for concurrent reads.
// The transforms hold no state. Passing the same *rand.Rand to concurrent
// Mosaic calls is not safe.
package imaging
