package codec

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ironsheep/image-layers-mcp/internal/imaging"
)

// Decode reads an image in format f and converts it to a grid called name.
//
// The header is checked with image.DecodeConfig first, so images larger
// than imaging.MaxPixels are rejected before any pixel data is allocated.
func Decode(r io.Reader, name string, f Format) (*imaging.Grid, error) {
	c, err := f.Codec()
	if err != nil {
		return nil, err
	}

	// Grab the header first, then replay it in front of the rest.
	var buf bytes.Buffer
	cfg, _, err := image.DecodeConfig(io.TeeReader(r, &buf))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s header: %w", f, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width > imaging.MaxPixels/cfg.Height {
		return nil, &imaging.InvalidGridError{
			Reason: fmt.Sprintf("%dx%d exceeds %d pixels", cfg.Width, cfg.Height, imaging.MaxPixels),
		}
	}

	img, err := c.Decode(io.MultiReader(&buf, r))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", f, err)
	}
	return imaging.FromImage(name, img)
}

// Read loads the file at path, choosing the codec from its extension. The
// grid is named after the file, without directory or extension.
func Read(path string) (*imaging.Grid, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	fd, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer fd.Close()

	return Decode(fd, GridName(path), f)
}

// GridName derives a grid name from a file path.
func GridName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Encode writes g to w in format f.
func Encode(w io.Writer, g *imaging.Grid, f Format) error {
	if g == nil || g.Len() == 0 {
		return &imaging.EmptyImageError{}
	}
	c, err := f.Codec()
	if err != nil {
		return err
	}
	return c.Encode(w, g.Image())
}

// Save writes g to path, choosing the format from the extension.
func Save(path string, g *imaging.Grid) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	return SaveAs(path, g, f)
}

// SaveAs writes g to path in format f, replacing any existing file.
func SaveAs(path string, g *imaging.Grid, f Format) error {
	fd, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create image: %w", err)
	}
	if err := Encode(fd, g, f); err != nil {
		fd.Close()
		os.Remove(path)
		return fmt.Errorf("failed to encode %s: %w", f, err)
	}
	return fd.Close()
}
