package imaging

import (
	"fmt"
	"math/rand/v2"
)

// Transform is a grid-to-grid operation. Implementations must not modify the
// input grid.
type Transform interface {
	Apply(g *Grid) (*Grid, error)
	fmt.Stringer
}

// FilterTransform convolves with a kernel.
type FilterTransform struct {
	Label  string
	Kernel *Kernel
}

// Apply implements Transform.
func (t FilterTransform) Apply(g *Grid) (*Grid, error) { return Filter(g, t.Kernel) }

func (t FilterTransform) String() string { return "filter:" + t.Label }

// ColorTransformer multiplies by a color matrix.
type ColorTransformer struct {
	Label  string
	Matrix *ColorMatrix
}

// Apply implements Transform.
func (t ColorTransformer) Apply(g *Grid) (*Grid, error) { return ColorTransform(g, t.Matrix) }

func (t ColorTransformer) String() string { return "color:" + t.Label }

// MosaicTransform runs the seed-clustering mosaic.
type MosaicTransform struct {
	Seeds int
	Rand  *rand.Rand
}

// Apply implements Transform.
func (t MosaicTransform) Apply(g *Grid) (*Grid, error) { return Mosaic(g, t.Seeds, t.Rand) }

func (t MosaicTransform) String() string { return fmt.Sprintf("mosaic:%d", t.Seeds) }

// DownscaleTransform shrinks to a target size.
type DownscaleTransform struct {
	Width, Height int
}

// Apply implements Transform.
func (t DownscaleTransform) Apply(g *Grid) (*Grid, error) { return Downscale(g, t.Width, t.Height) }

func (t DownscaleTransform) String() string { return fmt.Sprintf("downscale:%dx%d", t.Width, t.Height) }

// Named transforms for the built-in kernels and matrices.
var (
	BlurTransform      = FilterTransform{Label: "blur", Kernel: BlurKernel()}
	SharpenTransform   = FilterTransform{Label: "sharpen", Kernel: SharpenKernel()}
	GrayscaleTransform = ColorTransformer{Label: "grayscale", Matrix: GrayscaleMatrix()}
	SepiaTransform     = ColorTransformer{Label: "sepia", Matrix: SepiaMatrix()}
)
