package imaging

import (
	"errors"
	"testing"
)

func TestNewColorMatrix_Validation(t *testing.T) {
	tests := []struct {
		name    string
		rows    [][]float64
		wantErr bool
	}{
		{"3x3", [][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}, false},
		{"nil", nil, true},
		{"2x3", [][]float64{{1, 0, 0}, {0, 1, 0}}, true},
		{"4x3", [][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {0, 0, 0}}, true},
		{"3x2", [][]float64{{1, 0}, {0, 1}, {0, 0}}, true},
		{"ragged", [][]float64{{1, 0, 0}, {0, 1}, {0, 0, 1}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewColorMatrix(tt.rows)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var matrixErr *InvalidMatrixError
			if !errors.As(err, &matrixErr) {
				t.Errorf("expected InvalidMatrixError, got %v", err)
			}
		})
	}
}

func TestColorTransform_Identity(t *testing.T) {
	g := createGradientGrid(t, 5, 5)
	m, _ := NewColorMatrix([][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}})

	result, err := ColorTransform(g, m)
	if err != nil {
		t.Fatalf("ColorTransform failed: %v", err)
	}
	if !result.Equal(g) {
		t.Error("identity matrix should reproduce the input")
	}
}

func TestColorTransform_ChannelSwap(t *testing.T) {
	g := createSolidGrid(t, 2, 2, Pixel{10, 20, 30})
	m, _ := NewColorMatrix([][]float64{{0, 0, 1}, {0, 1, 0}, {1, 0, 0}})

	result, err := ColorTransform(g, m)
	if err != nil {
		t.Fatalf("ColorTransform failed: %v", err)
	}
	p, _ := result.At(1, 1)
	if p != (Pixel{30, 20, 10}) {
		t.Errorf("got %+v, want {30 20 10}", p)
	}
}

func TestColorTransform_Clamping(t *testing.T) {
	tests := []struct {
		name  string
		input Pixel
		rows  [][]float64
		want  Pixel
	}{
		{
			"all above 255",
			Pixel{200, 200, 200},
			[][]float64{{1, 1, 1}, {2, 0, 0}, {0, 0, 5}},
			Pixel{255, 255, 255},
		},
		{
			"all below 0",
			Pixel{50, 60, 70},
			[][]float64{{-1, 0, 0}, {0, -1, 0}, {-1, -1, -1}},
			Pixel{0, 0, 0},
		},
		{
			"mixed",
			Pixel{100, 100, 100},
			[][]float64{{3, 0, 0}, {0, -2, 0}, {0, 0, 1}},
			Pixel{255, 0, 100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := createSolidGrid(t, 1, 1, tt.input)
			m, err := NewColorMatrix(tt.rows)
			if err != nil {
				t.Fatalf("NewColorMatrix failed: %v", err)
			}
			result, err := ColorTransform(g, m)
			if err != nil {
				t.Fatalf("ColorTransform failed: %v", err)
			}
			p, _ := result.At(0, 0)
			if p != tt.want {
				t.Errorf("got %+v, want %+v", p, tt.want)
			}
		})
	}
}

func TestGrayscale(t *testing.T) {
	tests := []struct {
		name  string
		input Pixel
		want  uint8
	}{
		{"white", Pixel{255, 255, 255}, 255},
		{"black", Pixel{0, 0, 0}, 0},
		{"red", Pixel{255, 0, 0}, 54},   // 0.2126 * 255 = 54.2
		{"green", Pixel{0, 255, 0}, 182}, // 0.7152 * 255 = 182.4
		{"blue", Pixel{0, 0, 255}, 18},   // 0.0722 * 255 = 18.4
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := createSolidGrid(t, 1, 1, tt.input)
			result, err := Grayscale(g)
			if err != nil {
				t.Fatalf("Grayscale failed: %v", err)
			}
			p, _ := result.At(0, 0)
			if p.R != tt.want || p.G != tt.want || p.B != tt.want {
				t.Errorf("got %+v, want all channels %d", p, tt.want)
			}
		})
	}
}

func TestSepia(t *testing.T) {
	g := createSolidGrid(t, 1, 1, Pixel{100, 100, 100})

	result, err := Sepia(g)
	if err != nil {
		t.Fatalf("Sepia failed: %v", err)
	}

	// Row sums: 1.351, 1.203, 0.937.
	p, _ := result.At(0, 0)
	if p != (Pixel{135, 120, 94}) {
		t.Errorf("got %+v, want {135 120 94}", p)
	}

	white := createSolidGrid(t, 1, 1, Pixel{255, 255, 255})
	result, _ = Sepia(white)
	p, _ = result.At(0, 0)
	if p.R != 255 || p.G != 255 {
		t.Errorf("white sepia should clamp R and G: got %+v", p)
	}
}

func TestColorTransform_Errors(t *testing.T) {
	_, err := ColorTransform(createSolidGrid(t, 1, 1, Pixel{}), nil)
	var matrixErr *InvalidMatrixError
	if !errors.As(err, &matrixErr) {
		t.Errorf("nil matrix: expected InvalidMatrixError, got %v", err)
	}

	_, err = ColorTransform(nil, SepiaMatrix())
	var emptyErr *EmptyImageError
	if !errors.As(err, &emptyErr) {
		t.Errorf("nil grid: expected EmptyImageError, got %v", err)
	}
}

func TestColorTransform_DoesNotModifySource(t *testing.T) {
	g := createPatternGrid(t, 6, 6)
	before := g.Rows()

	for _, fn := range []func(*Grid) (*Grid, error){Grayscale, Sepia} {
		if _, err := fn(g); err != nil {
			t.Fatalf("transform failed: %v", err)
		}
	}

	assertRowsUnchanged(t, g, before)
}
