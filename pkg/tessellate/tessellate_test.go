package tessellate_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/chazu/mdimension/pkg/kernel"
	"github.com/chazu/mdimension/pkg/kernel/incremental"
	"github.com/chazu/mdimension/pkg/kernel/quickhull"
	"github.com/chazu/mdimension/pkg/scene"
	"github.com/chazu/mdimension/pkg/tessellate"
)

// newKernel returns a fresh incremental kernel for testing.
func newKernel() kernel.Kernel {
	return incremental.New()
}

// makeCube creates a cube polytope with the given name and corner offset.
func makeCube(name string, size, ox float64) *scene.Polytope {
	p := &scene.Polytope{Name: name}
	for i := 0; i < 8; i++ {
		p.Points = append(p.Points, []float64{
			ox + size*float64(i&1),
			size * float64(i>>1&1),
			size * float64(i>>2&1),
		})
	}
	return p
}

func TestSingleCube(t *testing.T) {
	s := scene.New()
	s.Add(makeCube("box", 1, 0))

	parts, err := tessellate.Tessellate(context.Background(), s, newKernel(), 1)
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if len(parts) != 1 {
		t.Fatalf("expected 1 part, got %d", len(parts))
	}

	m := parts[0].Mesh
	if m.IsEmpty() {
		t.Fatal("mesh should not be empty")
	}
	if m.Name != "box" {
		t.Errorf("expected Name %q, got %q", "box", m.Name)
	}
	if m.TriangleCount() != 12 {
		t.Errorf("expected 12 triangles, got %d", m.TriangleCount())
	}
	if parts[0].Solid.Dimension() != 3 {
		t.Errorf("expected dimension 3, got %d", parts[0].Solid.Dimension())
	}
}

func TestManyPolytopesKeepOrder(t *testing.T) {
	s := scene.New()
	var want []string
	for i := 0; i < 12; i++ {
		name := string(rune('a' + i))
		s.Add(makeCube(name, 1, float64(3*i)))
		want = append(want, name)
	}

	parts, err := tessellate.Tessellate(context.Background(), s, newKernel(), 3)
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	meshes := tessellate.Meshes(parts)
	if len(meshes) != len(want) {
		t.Fatalf("expected %d meshes, got %d", len(want), len(meshes))
	}
	for i, m := range meshes {
		if m.Name != want[i] {
			t.Errorf("mesh %d: Name = %q, want %q", i, m.Name, want[i])
		}
		if m.TriangleCount() != 12 {
			t.Errorf("mesh %d: %d triangles, want 12", i, m.TriangleCount())
		}
	}

	// The last cube sits at x = 33..34.
	last := meshes[len(meshes)-1]
	for i := 0; i < len(last.Vertices); i += 3 {
		if x := last.Vertices[i]; x < 33 || x > 34 {
			t.Fatalf("vertex x = %f, want within [33, 34]", x)
		}
	}
}

func TestKernelErrorNamesPolytope(t *testing.T) {
	s := scene.New()
	s.Add(makeCube("ok", 1, 0))
	s.Add(&scene.Polytope{Name: "square4d", Points: [][]float64{{0, 0, 0, 0}, {1, 0, 0, 0}}})

	_, err := tessellate.Tessellate(context.Background(), s, quickhull.New(), 2)
	if err == nil {
		t.Fatal("expected error from quickhull for 4D input")
	}
	if !errors.Is(err, kernel.ErrUnsupportedDimension) {
		t.Errorf("expected ErrUnsupportedDimension, got %v", err)
	}
	if !strings.Contains(err.Error(), "square4d") {
		t.Errorf("error should name the polytope, got %v", err)
	}
}

func TestCancelledContext(t *testing.T) {
	s := scene.New()
	s.Add(makeCube("box", 1, 0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := tessellate.Tessellate(ctx, s, newKernel(), 1)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestNilAndEmptyScene(t *testing.T) {
	parts, err := tessellate.Tessellate(context.Background(), nil, newKernel(), 0)
	if err != nil || parts != nil {
		t.Errorf("nil scene: got %v, %v", parts, err)
	}
	parts, err = tessellate.Tessellate(context.Background(), scene.New(), newKernel(), 0)
	if err != nil || len(parts) != 0 {
		t.Errorf("empty scene: got %v, %v", parts, err)
	}
}
