package preview

import (
	"os"
	"path/filepath"
	"testing"
)

var square = [][]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

func TestProject(t *testing.T) {
	tests := []struct {
		name   string
		p      []float64
		wx, wy float64
	}{
		{"2d passes through", []float64{3, 4}, 3, 4},
		{"1d", []float64{2}, 2, 0},
		{"empty", nil, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := Project(tt.p)
			if x != tt.wx || y != tt.wy {
				t.Errorf("Project(%v) = %f, %f, want %f, %f", tt.p, x, y, tt.wx, tt.wy)
			}
		})
	}

	// Higher axes must not collapse onto x or y.
	x, y := Project([]float64{0, 0, 1})
	if x == 0 || y == 0 {
		t.Errorf("third axis projects to %f, %f", x, y)
	}
	x3, y3 := Project([]float64{0, 0, 0, 1})
	if x3 == x && y3 == y {
		t.Error("third and fourth axes coincide")
	}
}

func TestEdges(t *testing.T) {
	got := Edges([]int{0, 1, 2, 0, 2, 3})
	want := []int{0, 1, 0, 2, 0, 3, 1, 2, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("Edges() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Edges() = %v, want %v", got, want)
		}
	}
	if len(Edges(nil)) != 0 {
		t.Error("Edges(nil) should be empty")
	}
}

func TestRender(t *testing.T) {
	img, err := Render(square, []int{0, 1, 1, 2, 2, 3, 3, 0}, 128)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 128 || b.Dy() != 128 {
		t.Errorf("bounds = %v, want 128x128", b)
	}
	// Corner (0,0) lands at the bottom-left padding and is drawn.
	r, g, b, _ := img.At(padding, 128-padding).RGBA()
	if r == 0 && g == 0 && b == 0 {
		t.Error("expected a drawn point at the bottom-left corner")
	}
}

func TestRenderErrors(t *testing.T) {
	tests := []struct {
		name  string
		edges []int
		size  int
	}{
		{"too small", nil, 10},
		{"odd edges", []int{0, 1, 2}, 64},
		{"bad index", []int{0, 9}, 64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Render(square, tt.edges, tt.size); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRenderSinglePoint(t *testing.T) {
	if _, err := Render([][]float64{{1, 1, 1}}, nil, 64); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
}

func TestSavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "square.png")
	if err := SavePNG(path, square, []int{0, 1, 1, 2}, 64); err != nil {
		t.Fatalf("SavePNG failed: %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Fatalf("png not written: %v", err)
	}
}
