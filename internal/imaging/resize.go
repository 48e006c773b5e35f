package imaging

// Downscale shrinks the grid to width x height by nearest-neighbor index
// mapping. Output pixel (i, j) copies source pixel
// (i*srcHeight/height, j*srcWidth/width) with integer division.
//
// Upscaling is not supported. Requesting the source dimensions returns an
// identical copy.
//
// Returns *EmptyImageError for an empty grid and *InvalidTargetSizeError if
// either target dimension is non-positive or larger than the source.
func Downscale(g *Grid, width, height int) (*Grid, error) {
	if g.empty() {
		return nil, &EmptyImageError{}
	}
	if width <= 0 || height <= 0 || width > g.width || height > g.height {
		return nil, &InvalidTargetSizeError{
			Width: width, Height: height,
			SrcWidth: g.width, SrcHeight: g.height,
		}
	}

	out, err := newGrid(g.name, width, height)
	if err != nil {
		return nil, err
	}

	// Column mapping is the same for every row.
	cols := make([]int, width)
	for j := range cols {
		cols[j] = j * g.width / width
	}
	for i := 0; i < height; i++ {
		srcRow := i * g.height / height
		for j, srcCol := range cols {
			out.pix[i*width+j] = g.at(srcRow, srcCol)
		}
	}
	return out, nil
}
