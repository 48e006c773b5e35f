package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/anthonynsimon/bild/transform"
)

// PreviewResult contains a grid rendered as a base64 PNG.
type PreviewResult struct {
	Name        string `json:"name"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Preview encodes the grid as a PNG, shrinking it to fit within maxWidth x
// maxHeight while keeping the aspect ratio. A non-positive bound disables
// fitting on that axis. Grids already inside the box are encoded as-is.
//
// The preview is a view for display only and uses box filtering; it is not
// a substitute for Downscale.
func Preview(g *Grid, maxWidth, maxHeight int) (*PreviewResult, error) {
	if g.empty() {
		return nil, &EmptyImageError{}
	}

	var img image.Image = g.Image()
	if w, h := fitSize(g.width, g.height, maxWidth, maxHeight); w != g.width || h != g.height {
		img = transform.Resize(img, w, h, transform.Box)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}

	return &PreviewResult{
		Name:        g.name,
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// fitSize computes the largest size within (maxW, maxH) keeping the aspect
// ratio of (w, h). It never enlarges.
func fitSize(w, h, maxW, maxH int) (int, int) {
	if maxW <= 0 {
		maxW = w
	}
	if maxH <= 0 {
		maxH = h
	}
	if w <= maxW && h <= maxH {
		return w, h
	}

	srcAspectRatio := float64(w) / float64(h)
	maxAspectRatio := float64(maxW) / float64(maxH)

	var nw, nh int
	if srcAspectRatio > maxAspectRatio {
		nw = maxW
		nh = int(float64(nw) / srcAspectRatio)
	} else {
		nh = maxH
		nw = int(float64(nh) * srcAspectRatio)
	}
	return max(nw, 1), max(nh, 1)
}
