package flat

import (
	"math"
	"testing"

	"github.com/chazu/mdimension/pkg/hull"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cubeBuffer() []float64 {
	var buf []float64
	for mask := 0; mask < 8; mask++ {
		for k := 0; k < 3; k++ {
			v := -1.0
			if mask&(1<<k) != 0 {
				v = 1
			}
			buf = append(buf, v)
		}
	}
	return buf
}

func TestPoints(t *testing.T) {
	pts, err := Points([]float64{1, 2, 3, 4, 5, 6}, 3)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 2, 3}, {4, 5, 6}}, pts)

	// Appending to one point must not clobber the next.
	_ = append(pts[0], 99)
	assert.Equal(t, 4.0, pts[1][0])
}

func TestPointsShapeMismatch(t *testing.T) {
	tests := []struct {
		name string
		buf  []float64
		dim  int
	}{
		{"zero dimension", []float64{1, 2}, 0},
		{"negative dimension", []float64{1, 2}, -3},
		{"ragged buffer", []float64{1, 2, 3, 4}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Points(tt.buf, tt.dim)
			assert.ErrorIs(t, err, ErrShapeMismatch)
		})
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(nil))
	assert.NoError(t, Validate([][]float64{{1, 2}, {3, 4}}))
	assert.ErrorIs(t, Validate([][]float64{{1, 2}, {3}}), ErrShapeMismatch)
	assert.ErrorIs(t, Validate([][]float64{{1, math.NaN()}}), ErrNonFinite)
	assert.ErrorIs(t, Validate([][]float64{{math.Inf(-1), 0}}), ErrNonFinite)
}

func TestFlattenRoundTrip(t *testing.T) {
	buf := cubeBuffer()
	pts, err := Points(buf, 3)
	require.NoError(t, err)
	out, dim, err := Flatten(pts)
	require.NoError(t, err)
	assert.Equal(t, 3, dim)
	assert.Equal(t, buf, out)

	_, _, err = Flatten([][]float64{{1}, {1, 2}})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestConvexHullCube(t *testing.T) {
	tris, err := ConvexHull(cubeBuffer(), 3)
	require.NoError(t, err)
	require.Len(t, tris, 36)
	for _, v := range tris {
		assert.Less(t, v, uint32(8))
	}
}

func TestConvexHullShortCircuits(t *testing.T) {
	tris, err := ConvexHull(nil, 3)
	require.NoError(t, err)
	assert.Empty(t, tris)
	assert.NotNil(t, tris)

	tris, err = ConvexHull([]float64{0, 0, 0, 1, 0, 0, 0, 1, 0}, 3)
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 1, 2}, tris)
}

func TestConvexHullCoplanarInAmbient3D(t *testing.T) {
	// A square in the plane z = 2 has four points, enough to pass the
	// size check; the projection drops it to two dimensions.
	buf := []float64{
		0, 0, 2,
		1, 0, 2,
		1, 1, 2,
		0, 1, 2,
	}
	tris, err := ConvexHull(buf, 3)
	require.NoError(t, err)
	assert.Len(t, tris, 6)
}

func TestConvexHullIndicesReferToOriginalOrder(t *testing.T) {
	// A tetrahedron with an interior point first: index 0 must never show
	// up in the output.
	buf := []float64{
		0.1, 0.1, 0.1,
		0, 0, 0,
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
	tris, err := ConvexHull(buf, 3, hull.WithNullSpace(hull.NullSpaceRejection))
	require.NoError(t, err)
	assert.Len(t, tris, 12)
	assert.NotContains(t, tris, uint32(0))
}

func TestConvexHullRejectsNaN(t *testing.T) {
	_, err := ConvexHull([]float64{0, 0, math.NaN(), 1}, 2)
	assert.ErrorIs(t, err, ErrNonFinite)
}
