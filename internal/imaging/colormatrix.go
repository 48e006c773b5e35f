package imaging

import (
	"gonum.org/v1/gonum/mat"
)

// ColorMatrix is a 3x3 linear transform applied to each pixel's (R,G,B)
// column vector.
type ColorMatrix struct {
	m *mat.Dense
}

// NewColorMatrix builds a color matrix from exactly three rows of three
// weights. The input is copied.
//
// Returns an *InvalidMatrixError for any other shape, including nil.
func NewColorMatrix(rows [][]float64) (*ColorMatrix, error) {
	if len(rows) != 3 {
		return nil, &InvalidMatrixError{Rows: len(rows), Cols: rowWidth(rows)}
	}
	data := make([]float64, 0, 9)
	for _, row := range rows {
		if len(row) != 3 {
			return nil, &InvalidMatrixError{Rows: len(rows), Cols: len(row)}
		}
		data = append(data, row...)
	}
	return &ColorMatrix{m: mat.NewDense(3, 3, data)}, nil
}

func rowWidth(rows [][]float64) int {
	if len(rows) == 0 {
		return 0
	}
	return len(rows[0])
}

func mustColorMatrix(rows [][]float64) *ColorMatrix {
	m, err := NewColorMatrix(rows)
	if err != nil {
		panic(err)
	}
	return m
}

// Weight returns the weight at row i, column j.
func (c *ColorMatrix) Weight(i, j int) float64 {
	return c.m.At(i, j)
}

// GrayscaleMatrix returns the luma matrix; every output channel receives
// 0.2126 R + 0.7152 G + 0.0722 B.
func GrayscaleMatrix() *ColorMatrix {
	row := []float64{0.2126, 0.7152, 0.0722}
	return mustColorMatrix([][]float64{row, row, row})
}

// SepiaMatrix returns the standard sepia tone matrix.
func SepiaMatrix() *ColorMatrix {
	return mustColorMatrix([][]float64{
		{0.393, 0.769, 0.189},
		{0.349, 0.686, 0.168},
		{0.272, 0.534, 0.131},
	})
}

// ColorTransform multiplies every pixel by the matrix. Each resulting
// component is clamped into [0,255] and rounded to the nearest integer.
//
// Returns *EmptyImageError for an empty grid and *InvalidMatrixError for a
// nil matrix. The source grid is not modified.
func ColorTransform(g *Grid, c *ColorMatrix) (*Grid, error) {
	if g.empty() {
		return nil, &EmptyImageError{}
	}
	if c == nil || c.m == nil {
		return nil, &InvalidMatrixError{}
	}

	out, err := newGrid(g.name, g.width, g.height)
	if err != nil {
		return nil, err
	}

	// Pixels repeat a lot in real images; memoize per distinct input.
	seen := make(map[Pixel]Pixel)
	in := mat.NewVecDense(3, nil)
	res := mat.NewVecDense(3, nil)
	for i, p := range g.pix {
		if q, ok := seen[p]; ok {
			out.pix[i] = q
			continue
		}
		in.SetVec(0, float64(p.R))
		in.SetVec(1, float64(p.G))
		in.SetVec(2, float64(p.B))
		res.MulVec(c.m, in)
		q := Pixel{
			R: clampChannel(res.AtVec(0)),
			G: clampChannel(res.AtVec(1)),
			B: clampChannel(res.AtVec(2)),
		}
		seen[p] = q
		out.pix[i] = q
	}
	return out, nil
}

// Grayscale applies GrayscaleMatrix.
func Grayscale(g *Grid) (*Grid, error) {
	return ColorTransform(g, GrayscaleMatrix())
}

// Sepia applies SepiaMatrix.
func Sepia(g *Grid) (*Grid, error) {
	return ColorTransform(g, SepiaMatrix())
}
