package imaging

import (
	"fmt"
	"image"
	"image/color"
)

// MaxPixels bounds the number of pixels a single grid may hold. Larger
// requests are rejected before any buffer is allocated.
const MaxPixels = 30000000

// Pixel is an 8-bit RGB triple.
//
// Pixel is a comparable value type: two pixels are equal when all three
// channels match, and pixels can be used directly as map keys.
type Pixel struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// NewPixel builds a Pixel from integer channel values.
//
// Returns an *InvalidGridError if any channel is outside [0, 255].
func NewPixel(r, g, b int) (Pixel, error) {
	for _, v := range [3]int{r, g, b} {
		if v < 0 || v > 255 {
			return Pixel{}, &InvalidGridError{Reason: fmt.Sprintf("channel value %d out of range [0,255]", v)}
		}
	}
	return Pixel{R: uint8(r), G: uint8(g), B: uint8(b)}, nil
}

// Grid is an immutable rectangular grid of pixels with a display name.
//
// Pixels are stored row-major in a single slice owned by the grid. No
// exported method hands out that slice, so a Grid can be shared freely
// between layers and transforms without copying.
//
// The zero value is an empty grid; transforms reject it with *EmptyImageError.
type Grid struct {
	name   string
	width  int
	height int
	pix    []Pixel
}

// newGrid allocates a blank grid after checking the size bound.
func newGrid(name string, width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, &InvalidGridError{Reason: fmt.Sprintf("dimensions %dx%d must be positive", width, height)}
	}
	if width > MaxPixels/height {
		return nil, &InvalidGridError{Reason: fmt.Sprintf("%dx%d exceeds %d pixels", width, height, MaxPixels)}
	}
	return &Grid{
		name:   name,
		width:  width,
		height: height,
		pix:    make([]Pixel, width*height),
	}, nil
}

// FromRows builds a grid from a slice of rows, copying every pixel.
//
// Returns an *InvalidGridError if rows is empty, any row is empty, the rows
// differ in length, or the grid would exceed MaxPixels.
func FromRows(name string, rows [][]Pixel) (*Grid, error) {
	if len(rows) == 0 {
		return nil, &InvalidGridError{Reason: "no rows"}
	}
	width := len(rows[0])
	for i, row := range rows {
		if len(row) == 0 {
			return nil, &InvalidGridError{Reason: fmt.Sprintf("row %d is empty", i)}
		}
		if len(row) != width {
			return nil, &InvalidGridError{Reason: fmt.Sprintf("row %d has %d pixels, want %d", i, len(row), width)}
		}
	}

	g, err := newGrid(name, width, len(rows))
	if err != nil {
		return nil, err
	}
	for y, row := range rows {
		copy(g.pix[y*width:(y+1)*width], row)
	}
	return g, nil
}

// Name returns the display name of the grid.
func (g *Grid) Name() string { return g.name }

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Len returns the total number of pixels.
func (g *Grid) Len() int { return len(g.pix) }

// empty reports whether g holds no pixels. A nil grid is empty.
func (g *Grid) empty() bool {
	return g == nil || len(g.pix) == 0
}

// At returns the pixel at the given row and column.
func (g *Grid) At(row, col int) (Pixel, error) {
	if row < 0 || col < 0 || row >= g.height || col >= g.width {
		return Pixel{}, &OutOfBoundsError{Row: row, Col: col, Width: g.width, Height: g.height}
	}
	return g.pix[row*g.width+col], nil
}

// at is the unchecked accessor used by transforms.
func (g *Grid) at(row, col int) Pixel {
	return g.pix[row*g.width+col]
}

// Rows returns a deep copy of the pixels as a slice of rows.
func (g *Grid) Rows() [][]Pixel {
	rows := make([][]Pixel, g.height)
	for y := range rows {
		rows[y] = make([]Pixel, g.width)
		copy(rows[y], g.pix[y*g.width:(y+1)*g.width])
	}
	return rows
}

// WithName returns a grid with the same pixels and a different name.
// The pixel storage is shared since neither grid can change it.
func (g *Grid) WithName(name string) *Grid {
	return &Grid{name: name, width: g.width, height: g.height, pix: g.pix}
}

// SameSize reports whether two grids have identical dimensions.
func (g *Grid) SameSize(other *Grid) bool {
	return g.width == other.width && g.height == other.height
}

// Equal reports whether two grids have the same name, dimensions and pixels.
func (g *Grid) Equal(other *Grid) bool {
	if g == nil || other == nil {
		return g == other
	}
	if g.name != other.name || !g.SameSize(other) {
		return false
	}
	for i, p := range g.pix {
		if other.pix[i] != p {
			return false
		}
	}
	return true
}

// String implements fmt.Stringer.
func (g *Grid) String() string {
	return fmt.Sprintf("%s (%dx%d)", g.name, g.width, g.height)
}

// FromImage converts any image.Image into a Grid. Alpha is discarded after
// the standard library's premultiplied conversion, so transparent areas
// become black.
func FromImage(name string, img image.Image) (*Grid, error) {
	bounds := img.Bounds()
	g, err := newGrid(name, bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			r, gr, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			// Convert from 16-bit to 8-bit
			g.pix[y*g.width+x] = Pixel{R: uint8(r >> 8), G: uint8(gr >> 8), B: uint8(b >> 8)}
		}
	}
	return g, nil
}

// Image renders the grid as an opaque *image.NRGBA anchored at (0,0).
func (g *Grid) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, g.width, g.height))
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			p := g.at(y, x)
			img.SetNRGBA(x, y, color.NRGBA{R: p.R, G: p.G, B: p.B, A: 255})
		}
	}
	return img
}
