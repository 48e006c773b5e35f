package palette

import (
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"github.com/ironsheep/image-layers-mcp/internal/imaging"
)

// Method selects the palette extraction algorithm.
type Method int

const (
	// Dominant uses dominantcolor's weighted k-means over a thumbnail.
	Dominant Method = iota
	// KMeans clusters subsampled pixels in RGB space.
	KMeans
)

func (m Method) String() string {
	switch m {
	case KMeans:
		return "kmeans"
	default:
		return "dominant"
	}
}

// ParseMethod maps "dominant" or "kmeans" to a Method. The empty string
// selects Dominant.
func ParseMethod(name string) (Method, error) {
	switch name {
	case "", "dominant":
		return Dominant, nil
	case "kmeans":
		return KMeans, nil
	}
	return Dominant, fmt.Errorf("unknown palette method %q", name)
}

// maxSamples bounds the observations handed to k-means.
const maxSamples = 12000

// Swatch is one palette entry.
type Swatch struct {
	Hex    string        `json:"hex"`
	RGB    imaging.Pixel `json:"rgb"`
	Weight float64       `json:"weight"` // share of the image, 0-1
}

// Extract returns up to k representative colours of g, heaviest first.
func Extract(g *imaging.Grid, k int, m Method) ([]Swatch, error) {
	if g == nil || g.Len() == 0 {
		return nil, &imaging.EmptyImageError{}
	}
	if k <= 0 {
		return nil, fmt.Errorf("palette size must be positive, got %d", k)
	}

	img := g.Image()
	var out []Swatch
	var err error
	switch m {
	case KMeans:
		out, err = extractKMeans(img, k)
	default:
		out = extractDominant(img, k)
	}
	if err != nil {
		return nil, err
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		return out[i].Hex < out[j].Hex
	})
	if len(out) > k {
		out = out[:k]
	}
	return out, nil
}

func swatch(c colorful.Color, weight float64) Swatch {
	r, g, b := c.Clamped().RGB255()
	p := imaging.Pixel{R: r, G: g, B: b}
	return Swatch{Hex: p.Hex(), RGB: p, Weight: weight}
}

func extractDominant(img image.Image, k int) []Swatch {
	found := dominantcolor.FindWeight(img, k)
	out := make([]Swatch, 0, len(found))
	for _, c := range found {
		col, _ := colorful.MakeColor(c.RGBA)
		out = append(out, swatch(col, c.Weight))
	}
	return out
}

func extractKMeans(img image.Image, k int) ([]Swatch, error) {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()

	step := 1
	if width*height > maxSamples {
		step = int(math.Sqrt(float64(width*height)/float64(maxSamples))) + 1
	}

	dataset := make(clusters.Observations, 0, min(width*height, maxSamples))
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			r, g, bl, _ := img.At(x, y).RGBA()
			dataset = append(dataset, clusters.Coordinates{
				float64(r) / 65535.0,
				float64(g) / 65535.0,
				float64(bl) / 65535.0,
			})
		}
	}

	k = min(k, len(dataset))
	cc, err := kmeans.New().Partition(dataset, k)
	if err != nil {
		return nil, fmt.Errorf("k-means partition: %w", err)
	}

	out := make([]Swatch, 0, len(cc))
	for _, c := range cc {
		if len(c.Observations) == 0 || len(c.Center) < 3 {
			continue
		}
		col := colorful.Color{R: c.Center[0], G: c.Center[1], B: c.Center[2]}
		out = append(out, swatch(col, float64(len(c.Observations))/float64(len(dataset))))
	}
	return out, nil
}
