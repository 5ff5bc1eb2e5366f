package hull

import "github.com/pkg/errors"

// Compute runs the whole engine over points, which must all have dim
// coordinates, and returns the finalized hull.
func Compute(points [][]float64, dim int, opts ...Option) (*Result, error) {
	e, err := NewEngine(points, dim, opts...)
	if err != nil {
		return nil, err
	}
	if err := e.Run(); err != nil {
		return nil, err
	}
	return e.Finalize(), nil
}

// ConvexHull returns the flat triangle list of the hull of points, or every
// point index when there are too few points to wrap.
func ConvexHull(points [][]float64, dim int, opts ...Option) ([]int, error) {
	res, err := Compute(points, dim, opts...)
	if err != nil {
		return nil, err
	}
	return res.Triangles, nil
}

// Solve projects points onto their affine hull and computes the hull there.
// Indices in the result refer to the original points; facet normals are
// expressed in the projected frame.
func Solve(points [][]float64, opts ...Option) (*Result, error) {
	if len(points) > 0 {
		want := len(points[0])
		for i, p := range points {
			if len(p) != want {
				return nil, errors.Wrapf(ErrDimensionMismatch, "point %d has %d coordinates, want %d", i, len(p), want)
			}
		}
	}
	projected, dim := Project(points)
	return Compute(projected, dim, opts...)
}
