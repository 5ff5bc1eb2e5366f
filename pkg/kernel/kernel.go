// Package kernel defines the abstract hull kernel interface.
// Implementations (incremental, quickhull) compute convex hulls behind this
// interface, so callers can swap backends without changing the rest of the
// system.
package kernel

import "github.com/pkg/errors"

// ErrUnsupportedDimension is returned by kernels that only handle some
// dimensions.
var ErrUnsupportedDimension = errors.New("kernel: unsupported dimension")

// Solid is an opaque handle to a computed hull.
// Implementations wrap their internal representation.
type Solid interface {
	// Points returns the input points in the caller's order.
	Points() [][]float64
	// Triangles returns the hull's flat triangle list, indices into Points.
	Triangles() []int
	// Dimension returns the dimension the hull was computed in.
	Dimension() int
	// BoundingBox returns the axis-aligned bounding box of the points.
	BoundingBox() (min, max []float64)
}

// Kernel is the abstract hull kernel interface.
type Kernel interface {
	// Name identifies the backend ("incremental", "quickhull").
	Name() string

	// Hull computes the convex hull of points.
	Hull(points [][]float64) (Solid, error)

	// ToMesh converts a hull to a renderable triangle mesh.
	ToMesh(s Solid) (*Mesh, error)
}

// BoundingBox returns the per-coordinate minimum and maximum of points.
// Both are nil for an empty set.
func BoundingBox(points [][]float64) (min, max []float64) {
	if len(points) == 0 {
		return nil, nil
	}
	min = append([]float64(nil), points[0]...)
	max = append([]float64(nil), points[0]...)
	for _, p := range points[1:] {
		for k, v := range p {
			if k >= len(min) {
				break
			}
			if v < min[k] {
				min[k] = v
			}
			if v > max[k] {
				max[k] = v
			}
		}
	}
	return min, max
}
