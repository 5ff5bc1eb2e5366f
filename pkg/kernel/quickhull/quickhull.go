// Package quickhull implements the kernel.Kernel interface with the 3D
// quickhull algorithm from github.com/markus-wa/quickhull-go. It serves as a
// reference backend for three dimensional inputs.
package quickhull

import (
	"github.com/golang/geo/r3"
	qh "github.com/markus-wa/quickhull-go/v2"
	"github.com/pkg/errors"

	"github.com/chazu/mdimension/pkg/flat"
	"github.com/chazu/mdimension/pkg/kernel"
)

// Compile-time interface check.
var _ kernel.Kernel = (*Kernel)(nil)

// DefaultEps is the plane epsilon New uses.
const DefaultEps = 1e-12

type solid struct {
	points    [][]float64
	triangles []int
}

func (s *solid) Points() [][]float64 { return s.points }
func (s *solid) Triangles() []int    { return s.triangles }
func (s *solid) Dimension() int      { return 3 }

func (s *solid) BoundingBox() (min, max []float64) {
	return kernel.BoundingBox(s.points)
}

// Kernel implements kernel.Kernel using quickhull-go.
type Kernel struct {
	eps float64
}

// New returns a quickhull kernel with the default plane epsilon.
func New() *Kernel {
	return &Kernel{eps: DefaultEps}
}

// WithEps returns a copy of k using eps as the plane epsilon.
func (k *Kernel) WithEps(eps float64) *Kernel {
	return &Kernel{eps: eps}
}

// Eps returns the plane epsilon.
func (k *Kernel) Eps() float64 { return k.eps }

// Name returns "quickhull".
func (k *Kernel) Name() string { return "quickhull" }

// Hull computes the 3D convex hull of points. Triangles are wound
// counterclockwise and index the input slice. Inputs of any other
// dimension report kernel.ErrUnsupportedDimension.
func (k *Kernel) Hull(points [][]float64) (kernel.Solid, error) {
	if err := flat.Validate(points); err != nil {
		return nil, err
	}
	if len(points) > 0 && len(points[0]) != 3 {
		return nil, errors.Wrapf(kernel.ErrUnsupportedDimension, "quickhull needs 3 coordinates, got %d", len(points[0]))
	}
	if len(points) < 4 {
		return &solid{points: points}, nil
	}

	cloud := make([]r3.Vector, len(points))
	for i, p := range points {
		cloud[i] = r3.Vector{X: p[0], Y: p[1], Z: p[2]}
	}
	ch := new(qh.QuickHull).ConvexHull(cloud, true, true, k.eps)
	if len(ch.Indices)%3 != 0 {
		return nil, errors.Errorf("quickhull: %d indices do not form triangles", len(ch.Indices))
	}

	tris := make([]int, len(ch.Indices))
	copy(tris, ch.Indices)
	return &solid{points: points, triangles: tris}, nil
}

// ToMesh converts a hull to a flat-shaded mesh.
func (k *Kernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	return kernel.NewMesh(s.Points(), s.Triangles()), nil
}
