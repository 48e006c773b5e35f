package imaging

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Kernel is a rectangular matrix of convolution weights.
//
// A kernel must be non-empty and must have at least one odd dimension. The
// anchor cell lies at (rows/2, cols/2); for an even dimension that is the
// upper of the two middle indices, so a 3x4 kernel reaches one column
// further to the left than to the right.
type Kernel struct {
	m *mat.Dense
}

// NewKernel builds a kernel from rows of weights. The input is copied.
//
// Returns an *InvalidKernelError if rows is empty, any row is empty or of a
// different length, or both dimensions are even.
func NewKernel(rows [][]float64) (*Kernel, error) {
	if len(rows) == 0 {
		return nil, &InvalidKernelError{Reason: "no rows"}
	}
	cols := len(rows[0])
	if cols == 0 {
		return nil, &InvalidKernelError{Reason: "empty row"}
	}
	data := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, &InvalidKernelError{Reason: fmt.Sprintf("row %d has %d weights, want %d", i, len(row), cols)}
		}
		data = append(data, row...)
	}
	if len(rows)%2 == 0 && cols%2 == 0 {
		return nil, &InvalidKernelError{Reason: fmt.Sprintf("%dx%d has no center cell", len(rows), cols)}
	}
	return &Kernel{m: mat.NewDense(len(rows), cols, data)}, nil
}

// mustKernel is for the package's built-in kernels only.
func mustKernel(rows [][]float64) *Kernel {
	k, err := NewKernel(rows)
	if err != nil {
		panic(err)
	}
	return k
}

// Dims returns the number of rows and columns.
func (k *Kernel) Dims() (rows, cols int) {
	return k.m.Dims()
}

// Weight returns the weight at row i, column j.
func (k *Kernel) Weight(i, j int) float64 {
	return k.m.At(i, j)
}

// Sum returns the total of all weights.
func (k *Kernel) Sum() float64 {
	return mat.Sum(k.m)
}

// BlurKernel returns the normalized 3x3 blur kernel:
//
//	1/16 1/8 1/16
//	1/8  1/4 1/8
//	1/16 1/8 1/16
func BlurKernel() *Kernel {
	return mustKernel([][]float64{
		{1.0 / 16, 1.0 / 8, 1.0 / 16},
		{1.0 / 8, 1.0 / 4, 1.0 / 8},
		{1.0 / 16, 1.0 / 8, 1.0 / 16},
	})
}

// SharpenKernel returns the 5x5 sharpening kernel: a centre weight of 1, an
// inner ring of 1/4 and an outer ring of -1/8. The weights sum to 1.
func SharpenKernel() *Kernel {
	const o = -1.0 / 8
	const i = 1.0 / 4
	return mustKernel([][]float64{
		{o, o, o, o, o},
		{o, i, i, i, o},
		{o, i, 1, i, o},
		{o, i, i, i, o},
		{o, o, o, o, o},
	})
}

// Filter convolves every channel of g with the kernel.
//
// The kernel is centred on each pixel in turn. Kernel cells that fall outside
// the grid read as zero intensity and the sum is not renormalized, so pixels
// near the border come out darker than interior pixels under a blur. Each
// weighted sum is clamped into [0,255] and then rounded to the nearest
// integer.
//
// Returns *EmptyImageError for an empty grid and *InvalidKernelError for a
// nil kernel. The source grid is not modified.
func Filter(g *Grid, k *Kernel) (*Grid, error) {
	if g.empty() {
		return nil, &EmptyImageError{}
	}
	if k == nil || k.m == nil {
		return nil, &InvalidKernelError{Reason: "nil kernel"}
	}

	kRows, kCols := k.Dims()
	halfH := kRows / 2
	halfW := kCols / 2

	out, err := newGrid(g.name, g.width, g.height)
	if err != nil {
		return nil, err
	}

	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			var sumR, sumG, sumB float64
			for ky := 0; ky < kRows; ky++ {
				py := y + ky - halfH
				if py < 0 || py >= g.height {
					continue
				}
				for kx := 0; kx < kCols; kx++ {
					px := x + kx - halfW
					if px < 0 || px >= g.width {
						continue
					}
					w := k.m.At(ky, kx)
					p := g.at(py, px)
					sumR += float64(p.R) * w
					sumG += float64(p.G) * w
					sumB += float64(p.B) * w
				}
			}
			out.pix[y*g.width+x] = Pixel{
				R: clampChannel(sumR),
				G: clampChannel(sumG),
				B: clampChannel(sumB),
			}
		}
	}
	return out, nil
}

// Blur applies BlurKernel.
func Blur(g *Grid) (*Grid, error) {
	return Filter(g, BlurKernel())
}

// Sharpen applies SharpenKernel.
func Sharpen(g *Grid) (*Grid, error) {
	return Filter(g, SharpenKernel())
}

// clampChannel constrains v to [0, 255] and rounds it to the nearest integer.
func clampChannel(v float64) uint8 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(math.Round(v))
}
