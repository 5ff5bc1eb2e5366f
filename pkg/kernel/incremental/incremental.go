// Package incremental implements the kernel.Kernel interface with the
// dimension-independent incremental hull engine in pkg/hull.
package incremental

import (
	"github.com/chazu/mdimension/pkg/flat"
	"github.com/chazu/mdimension/pkg/hull"
	"github.com/chazu/mdimension/pkg/kernel"
)

// Compile-time interface check.
var _ kernel.Kernel = (*Kernel)(nil)

// Solid wraps a finalized hull.Result to implement kernel.Solid.
type Solid struct {
	points [][]float64
	result *hull.Result
}

// Points returns the input points.
func (s *Solid) Points() [][]float64 { return s.points }

// Triangles returns the hull triangles. A trivial hull has none.
func (s *Solid) Triangles() []int {
	if s.result.Trivial {
		return nil
	}
	return s.result.Triangles
}

// Dimension returns the dimension of the points' affine hull.
func (s *Solid) Dimension() int { return s.result.Dim }

// BoundingBox returns the axis-aligned bounding box.
func (s *Solid) BoundingBox() (min, max []float64) {
	return kernel.BoundingBox(s.points)
}

// Result exposes the underlying engine result (facets, edges, stats).
func (s *Solid) Result() *hull.Result { return s.result }

// Kernel implements kernel.Kernel on top of hull.Solve.
type Kernel struct {
	opts []hull.Option
}

// New returns a kernel that passes opts to every hull computation.
func New(opts ...hull.Option) *Kernel {
	return &Kernel{opts: opts}
}

// Name returns "incremental".
func (k *Kernel) Name() string { return "incremental" }

// Hull validates points and computes their convex hull in the dimension of
// their affine hull.
func (k *Kernel) Hull(points [][]float64) (kernel.Solid, error) {
	if err := flat.Validate(points); err != nil {
		return nil, err
	}
	res, err := hull.Solve(points, k.opts...)
	if err != nil {
		return nil, err
	}
	return &Solid{points: points, result: res}, nil
}

// ToMesh converts a hull to a flat-shaded mesh of its xyz shadow.
func (k *Kernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	return kernel.NewMesh(s.Points(), s.Triangles()), nil
}
