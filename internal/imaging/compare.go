package imaging

import (
	"math"
)

// CompareResult summarizes the pixel differences between two grids.
type CompareResult struct {
	SimilarityScore  float64 `json:"similarity_score"`
	PixelsDifferent  int     `json:"pixels_different"`
	TotalPixels      int     `json:"total_pixels"`
	SameSize         bool    `json:"same_size"`
	AverageColorDiff float64 `json:"average_color_diff"`
}

// Compare measures how far apart two grids are.
//
// Only the overlapping top-left area is compared when the sizes differ. A
// pixel counts as different when its mean absolute channel difference exceeds
// 10.
func Compare(a, b *Grid) (*CompareResult, error) {
	if a.empty() || b.empty() {
		return nil, &EmptyImageError{}
	}

	minW := min(a.width, b.width)
	minH := min(a.height, b.height)

	totalPixels := minW * minH
	pixelsDifferent := 0
	var totalColorDiff float64

	for y := 0; y < minH; y++ {
		for x := 0; x < minW; x++ {
			p := a.at(y, x)
			q := b.at(y, x)
			diff := float64(absDiff(p.R, q.R)+absDiff(p.G, q.G)+absDiff(p.B, q.B)) / 3.0
			totalColorDiff += diff
			if diff > 10 {
				pixelsDifferent++
			}
		}
	}

	similarity := 1.0 - float64(pixelsDifferent)/float64(totalPixels)
	avgColorDiff := totalColorDiff / float64(totalPixels)

	return &CompareResult{
		SimilarityScore:  math.Round(similarity*1000) / 1000,
		PixelsDifferent:  pixelsDifferent,
		TotalPixels:      totalPixels,
		SameSize:         a.SameSize(b),
		AverageColorDiff: math.Round(avgColorDiff*100) / 100,
	}, nil
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
