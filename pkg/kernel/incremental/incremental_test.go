package incremental

import (
	"errors"
	"math"
	"testing"

	"github.com/chazu/mdimension/pkg/flat"
	"github.com/chazu/mdimension/pkg/hull"
)

var cube = [][]float64{
	{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0},
	{0, 0, 1}, {1, 0, 1}, {0, 1, 1}, {1, 1, 1},
}

func TestHullCube(t *testing.T) {
	for _, ns := range []hull.NullSpace{hull.NullSpaceSVD, hull.NullSpaceRejection} {
		t.Run(ns.String(), func(t *testing.T) {
			k := New(hull.WithNullSpace(ns))
			s, err := k.Hull(cube)
			if err != nil {
				t.Fatalf("Hull failed: %v", err)
			}
			if s.Dimension() != 3 {
				t.Errorf("Dimension() = %d, want 3", s.Dimension())
			}
			if got := len(s.Triangles()) / 3; got != 12 {
				t.Errorf("triangles = %d, want 12", got)
			}
			mesh, err := k.ToMesh(s)
			if err != nil {
				t.Fatalf("ToMesh failed: %v", err)
			}
			if mesh.TriangleCount() != 12 {
				t.Errorf("mesh triangles = %d, want 12", mesh.TriangleCount())
			}
			if len(mesh.Vertices) != len(mesh.Normals) {
				t.Errorf("vertices %d != normals %d", len(mesh.Vertices), len(mesh.Normals))
			}
		})
	}
}

func TestHullTesseractShadow(t *testing.T) {
	var pts [][]float64
	for i := 0; i < 16; i++ {
		pts = append(pts, []float64{
			float64(i & 1), float64(i >> 1 & 1), float64(i >> 2 & 1), float64(i >> 3 & 1),
		})
	}
	k := New()
	s, err := k.Hull(pts)
	if err != nil {
		t.Fatalf("Hull failed: %v", err)
	}
	if s.Dimension() != 4 {
		t.Fatalf("Dimension() = %d, want 4", s.Dimension())
	}
	if got := len(s.(*Solid).Result().Facets); got == 0 {
		t.Fatal("expected facets")
	}
	mesh, _ := k.ToMesh(s)
	if mesh.IsEmpty() {
		t.Fatal("mesh is empty")
	}
	lo, hi := s.BoundingBox()
	if len(lo) != 4 || hi[3] != 1 {
		t.Errorf("BoundingBox() = %v, %v", lo, hi)
	}
}

func TestHullTrivial(t *testing.T) {
	s, err := New().Hull(cube[:2])
	if err != nil {
		t.Fatalf("Hull failed: %v", err)
	}
	if s.Triangles() != nil {
		t.Errorf("Triangles() = %v, want nil for a segment", s.Triangles())
	}
}

func TestHullRejectsBadInput(t *testing.T) {
	tests := []struct {
		name   string
		points [][]float64
		want   error
	}{
		{"ragged", [][]float64{{0, 0}, {1, 0, 0}}, flat.ErrShapeMismatch},
		{"nan", [][]float64{{0, 0, 0}, {1, 0, math.NaN()}}, flat.ErrNonFinite},
		{"inf", [][]float64{{math.Inf(1), 0}, {1, 0}}, flat.ErrNonFinite},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().Hull(tt.points)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}
