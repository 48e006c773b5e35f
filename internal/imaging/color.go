package imaging

import (
	"fmt"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a color value in multiple representations.
type ColorResult struct {
	Hex string   `json:"hex"` // Hex format "#RRGGBB"
	RGB Pixel    `json:"rgb"` // RGB components
	HSL HSLColor `json:"hsl"` // HSL representation
}

// SampleColor reads the pixel at column x, row y.
//
// Coordinates are 0-based with origin at top-left. Returns an
// *OutOfBoundsError if (x, y) is outside the grid.
func SampleColor(g *Grid, x, y int) (*ColorResult, error) {
	p, err := g.At(y, x)
	if err != nil {
		return nil, err
	}
	return describe(p), nil
}

func describe(p Pixel) *ColorResult {
	h, s, l := colorful.Color{
		R: float64(p.R) / 255.0,
		G: float64(p.G) / 255.0,
		B: float64(p.B) / 255.0,
	}.Hsl()
	return &ColorResult{
		Hex: p.Hex(),
		RGB: p,
		HSL: HSLColor{H: int(h), S: int(s * 100), L: int(l * 100)},
	}
}

// ColorFrequency represents a color and its occurrence frequency in a grid.
type ColorFrequency struct {
	Hex        string  `json:"hex"`        // Hex color "#RRGGBB" (quantized)
	Percentage float64 `json:"percentage"` // Percentage of pixels with this color (0-100)
	RGB        Pixel   `json:"rgb"`        // RGB components (quantized)
}

// DominantColorsResult contains the most frequent colors, most common first.
type DominantColorsResult struct {
	Colors []ColorFrequency `json:"colors"`
}

// DominantColors returns up to count of the most frequent colors in the grid.
//
// # Color Quantization
//
// Similar colors are grouped by truncating every channel to a multiple of 16:
//
//	quantized = (original / 16) * 16
//
// so #F0F0F0 and #FAFAFA both count toward #F0F0F0. Ties in frequency are
// broken by hex string so the output is stable.
func DominantColors(g *Grid, count int) (*DominantColorsResult, error) {
	if g.empty() {
		return nil, &EmptyImageError{}
	}
	if count <= 0 {
		return nil, fmt.Errorf("count must be positive, got %d", count)
	}

	counts := make(map[Pixel]int)
	for _, p := range g.pix {
		q := Pixel{R: p.R / 16 * 16, G: p.G / 16 * 16, B: p.B / 16 * 16}
		counts[q]++
	}

	colors := make([]ColorFrequency, 0, len(counts))
	total := float64(len(g.pix))
	for p, n := range counts {
		colors = append(colors, ColorFrequency{
			Hex:        p.Hex(),
			Percentage: float64(n) / total * 100,
			RGB:        p,
		})
	}

	sort.Slice(colors, func(i, j int) bool {
		if colors[i].Percentage != colors[j].Percentage {
			return colors[i].Percentage > colors[j].Percentage
		}
		return colors[i].Hex < colors[j].Hex
	})

	if len(colors) > count {
		colors = colors[:count]
	}
	return &DominantColorsResult{Colors: colors}, nil
}

// Mean returns the per-channel mean of all pixels, truncated.
func Mean(g *Grid) (Pixel, error) {
	if g.empty() {
		return Pixel{}, &EmptyImageError{}
	}
	var r, gr, b int64
	for _, p := range g.pix {
		r += int64(p.R)
		gr += int64(p.G)
		b += int64(p.B)
	}
	n := int64(len(g.pix))
	return Pixel{R: uint8(r / n), G: uint8(gr / n), B: uint8(b / n)}, nil
}
