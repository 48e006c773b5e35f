package imaging

import (
	"errors"
	"testing"
)

func TestSampleColor(t *testing.T) {
	g := createSolidGrid(t, 10, 10, Pixel{255, 128, 64})

	result, err := SampleColor(g, 5, 5)
	if err != nil {
		t.Fatalf("SampleColor failed: %v", err)
	}

	if result.Hex != "#FF8040" {
		t.Errorf("Hex: got %s, want #FF8040", result.Hex)
	}
	if result.RGB != (Pixel{255, 128, 64}) {
		t.Errorf("RGB: got %+v, want {255 128 64}", result.RGB)
	}
}

func TestSampleColor_KnownColors(t *testing.T) {
	tests := []struct {
		name    string
		color   Pixel
		wantHex string
		wantHue int
	}{
		{"pure red", Pixel{255, 0, 0}, "#FF0000", 0},
		{"pure green", Pixel{0, 255, 0}, "#00FF00", 120},
		{"pure blue", Pixel{0, 0, 255}, "#0000FF", 240},
		{"white", Pixel{255, 255, 255}, "#FFFFFF", 0},
		{"black", Pixel{0, 0, 0}, "#000000", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := createSolidGrid(t, 3, 3, tt.color)
			result, err := SampleColor(g, 1, 1)
			if err != nil {
				t.Fatalf("SampleColor failed: %v", err)
			}
			if result.Hex != tt.wantHex {
				t.Errorf("Hex: got %s, want %s", result.Hex, tt.wantHex)
			}
			if result.HSL.H != tt.wantHue {
				t.Errorf("Hue: got %d, want %d", result.HSL.H, tt.wantHue)
			}
		})
	}
}

func TestSampleColor_XYOrder(t *testing.T) {
	g := createPatternGrid(t, 10, 4)

	// x=8 is in the right half, y=0 in the top half: green.
	result, err := SampleColor(g, 8, 0)
	if err != nil {
		t.Fatalf("SampleColor failed: %v", err)
	}
	if result.Hex != "#00FF00" {
		t.Errorf("got %s, want #00FF00", result.Hex)
	}
}

func TestSampleColor_OutOfBounds(t *testing.T) {
	g := createSolidGrid(t, 10, 10, Pixel{})

	for _, pt := range [][2]int{{-1, 0}, {0, -1}, {10, 0}, {0, 10}} {
		_, err := SampleColor(g, pt[0], pt[1])
		var oob *OutOfBoundsError
		if !errors.As(err, &oob) {
			t.Errorf("(%d,%d): expected OutOfBoundsError, got %v", pt[0], pt[1], err)
		}
	}
}

func TestDominantColors(t *testing.T) {
	g := createPatternGrid(t, 10, 10)

	result, err := DominantColors(g, 10)
	if err != nil {
		t.Fatalf("DominantColors failed: %v", err)
	}

	if len(result.Colors) != 4 {
		t.Fatalf("got %d colors, want 4", len(result.Colors))
	}

	var total float64
	for _, c := range result.Colors {
		total += c.Percentage
		if c.Percentage != 25 {
			t.Errorf("%s: got %.1f%%, want 25%%", c.Hex, c.Percentage)
		}
	}
	if total != 100 {
		t.Errorf("percentages sum to %.1f, want 100", total)
	}
}

func TestDominantColors_CountLimit(t *testing.T) {
	g := createPatternGrid(t, 10, 10)

	result, err := DominantColors(g, 2)
	if err != nil {
		t.Fatalf("DominantColors failed: %v", err)
	}
	if len(result.Colors) != 2 {
		t.Errorf("got %d colors, want 2", len(result.Colors))
	}

	if _, err := DominantColors(g, 0); err == nil {
		t.Error("expected error for count 0")
	}
}

func TestDominantColors_Quantization(t *testing.T) {
	g, _ := FromRows("q", [][]Pixel{{{0xF0, 0xF0, 0xF0}, {0xFA, 0xFA, 0xFA}, {0, 0, 0}}})

	result, err := DominantColors(g, 5)
	if err != nil {
		t.Fatalf("DominantColors failed: %v", err)
	}
	if result.Colors[0].Hex != "#F0F0F0" {
		t.Errorf("top color: got %s, want #F0F0F0", result.Colors[0].Hex)
	}
}

func TestMean(t *testing.T) {
	g, _ := FromRows("m", [][]Pixel{{{1, 2, 3}, {2, 3, 5}}})

	p, err := Mean(g)
	if err != nil {
		t.Fatalf("Mean failed: %v", err)
	}
	if p != (Pixel{1, 2, 4}) {
		t.Errorf("got %+v, want {1 2 4}", p)
	}

	if _, err := Mean(nil); err == nil {
		t.Error("expected error for nil grid")
	}
}
