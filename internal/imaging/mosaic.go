package imaging

import (
	"math/rand/v2"
	"time"
)

// Mosaic partitions the grid into clusters around randomly chosen seed
// pixels and paints every cluster with its average color.
//
// Parameters:
//   - g: The source grid.
//   - seeds: Number of clusters. Must be in [1, g.Len()].
//   - rng: Source of randomness for seed placement. If nil, a time-seeded
//     generator is used.
//
// # Algorithm
//
//  1. Pick seeds distinct pixel positions uniformly at random.
//  2. Assign every pixel to the seed at the smallest Euclidean distance in
//     (x,y) space. Ties go to the seed picked first.
//  3. Replace every pixel with the per-channel mean of its cluster, with the
//     fractional part truncated.
//
// With seeds == 1 the result is the mean color of the whole grid, which does
// not depend on rng.
//
// Returns *EmptyImageError for an empty grid and *InvalidSeedCountError if
// seeds is out of range. The source grid is not modified.
func Mosaic(g *Grid, seeds int, rng *rand.Rand) (*Grid, error) {
	if g.empty() {
		return nil, &EmptyImageError{}
	}
	n := len(g.pix)
	if seeds <= 0 || seeds > n {
		return nil, &InvalidSeedCountError{Seeds: seeds, Pixels: n}
	}
	if rng == nil {
		now := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(now, now>>1))
	}

	centers := pickSeeds(rng, n, seeds)
	sx := make([]int, seeds)
	sy := make([]int, seeds)
	for i, idx := range centers {
		sx[i] = idx % g.width
		sy[i] = idx / g.width
	}

	assign := make([]int32, n)
	sumR := make([]int64, seeds)
	sumG := make([]int64, seeds)
	sumB := make([]int64, seeds)
	count := make([]int64, seeds)

	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			best := 0
			bestDist := int64(-1)
			for s := 0; s < seeds; s++ {
				dx := int64(x - sx[s])
				dy := int64(y - sy[s])
				d := dx*dx + dy*dy
				if bestDist < 0 || d < bestDist {
					best, bestDist = s, d
				}
			}
			i := y*g.width + x
			assign[i] = int32(best)
			p := g.pix[i]
			sumR[best] += int64(p.R)
			sumG[best] += int64(p.G)
			sumB[best] += int64(p.B)
			count[best]++
		}
	}

	means := make([]Pixel, seeds)
	for s := range means {
		// Every seed is its own nearest seed, so count is never zero.
		means[s] = Pixel{
			R: uint8(sumR[s] / count[s]),
			G: uint8(sumG[s] / count[s]),
			B: uint8(sumB[s] / count[s]),
		}
	}

	out, err := newGrid(g.name, g.width, g.height)
	if err != nil {
		return nil, err
	}
	for i, s := range assign {
		out.pix[i] = means[s]
	}
	return out, nil
}

// pickSeeds draws k distinct indices from [0, n) using Floyd's sampling, so
// memory stays proportional to k rather than n. Indices are returned in the
// order they were drawn.
func pickSeeds(rng *rand.Rand, n, k int) []int {
	chosen := make(map[int]struct{}, k)
	order := make([]int, 0, k)
	for j := n - k; j < n; j++ {
		t := rng.IntN(j + 1)
		if _, dup := chosen[t]; dup {
			t = j
		}
		chosen[t] = struct{}{}
		order = append(order, t)
	}
	return order
}
