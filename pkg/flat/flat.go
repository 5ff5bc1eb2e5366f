// Package flat marshals row-major coordinate buffers to and from the hull
// engine. It is the boundary the frontend and the command line talk to:
// shapes are validated here so the engine only ever sees well-formed point
// sets.
package flat

import (
	"math"

	"github.com/chazu/mdimension/pkg/hull"
	"github.com/pkg/errors"
)

var (
	// ErrShapeMismatch reports a buffer or point list whose coordinates do
	// not divide into points of one common dimension.
	ErrShapeMismatch = errors.New("flat: shape mismatch")
	// ErrNonFinite reports a NaN or infinite coordinate.
	ErrNonFinite = errors.New("flat: non-finite coordinate")
)

// Points splits a row-major buffer of N×dim scalars into N point vectors.
// The vectors alias buf.
func Points(buf []float64, dim int) ([][]float64, error) {
	if dim <= 0 {
		return nil, errors.Wrapf(ErrShapeMismatch, "dimension %d", dim)
	}
	if len(buf)%dim != 0 {
		return nil, errors.Wrapf(ErrShapeMismatch, "%d scalars do not divide into points of dimension %d", len(buf), dim)
	}
	n := len(buf) / dim
	points := make([][]float64, n)
	for i := range points {
		points[i] = buf[i*dim : (i+1)*dim : (i+1)*dim]
	}
	return points, nil
}

// Flatten is the inverse of Points.
func Flatten(points [][]float64) ([]float64, int, error) {
	if err := Validate(points); err != nil {
		return nil, 0, err
	}
	if len(points) == 0 {
		return nil, 0, nil
	}
	dim := len(points[0])
	buf := make([]float64, 0, len(points)*dim)
	for _, p := range points {
		buf = append(buf, p...)
	}
	return buf, dim, nil
}

// Validate checks that every point has the same length and only finite
// coordinates.
func Validate(points [][]float64) error {
	if len(points) == 0 {
		return nil
	}
	dim := len(points[0])
	for i, p := range points {
		if len(p) != dim {
			return errors.Wrapf(ErrShapeMismatch, "point %d has %d coordinates, want %d", i, len(p), dim)
		}
		for k, v := range p {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return errors.Wrapf(ErrNonFinite, "point %d coordinate %d is %v", i, k, v)
			}
		}
	}
	return nil
}

// ConvexHull computes the hull of the points in buf and returns a flat
// triangle index buffer into the original point order.
//
// An empty buffer yields an empty result and fewer than dim+1 points yield
// the identity list 0..N-1, both without touching the engine.
func ConvexHull(buf []float64, dim int, opts ...hull.Option) ([]uint32, error) {
	points, err := Points(buf, dim)
	if err != nil {
		return nil, err
	}
	return Hull(points, opts...)
}

// Hull is ConvexHull over already split points.
func Hull(points [][]float64, opts ...hull.Option) ([]uint32, error) {
	if err := Validate(points); err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return []uint32{}, nil
	}
	if len(points) < len(points[0])+1 {
		return Identity(len(points)), nil
	}

	res, err := hull.Solve(points, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "flat: hull")
	}
	return Indices(res.Triangles), nil
}

// Identity returns 0..n-1.
func Identity(n int) []uint32 {
	out := make([]uint32, n)
	for i := range out {
		out[i] = uint32(i)
	}
	return out
}

// Indices converts engine indices to the uint32 buffer format.
func Indices(in []int) []uint32 {
	out := make([]uint32, len(in))
	for i, v := range in {
		out[i] = uint32(v)
	}
	return out
}
