package imaging

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Solid returns a width x height grid filled with a single pixel value.
func Solid(name string, width, height int, fill Pixel) (*Grid, error) {
	g, err := newGrid(name, width, height)
	if err != nil {
		return nil, err
	}
	for i := range g.pix {
		g.pix[i] = fill
	}
	return g, nil
}

// ParseHexColor parses a "#RRGGBB" or "#RGB" color string. The leading '#'
// is optional.
func ParseHexColor(hex string) (Pixel, error) {
	if len(hex) == 0 {
		return Pixel{}, fmt.Errorf("empty color string")
	}
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return Pixel{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return Pixel{R: r, G: g, B: b}, nil
}

// Hex formats a pixel as "#RRGGBB".
func (p Pixel) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", p.R, p.G, p.B)
}
