package hull

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var strategies = []NullSpace{NullSpaceSVD, NullSpaceRejection}

func TestNewFacet3DFastPath(t *testing.T) {
	pts := [][]float64{
		{0, 0, 0},
		{1, 0, 0},
		{0, 1, 0},
	}
	// Interior above the plane: the normal must point down.
	f, ok := NewFacet([]int{0, 1, 2}, pts, []float64{0.2, 0.2, 1}, NullSpaceSVD)
	require.True(t, ok)
	assert.InDeltaSlice(t, []float64{0, 0, -1}, f.Normal, 1e-12)
	assert.InDelta(t, 0.0, f.Offset, 1e-12)
	assert.Equal(t, []int{0, 1, 2}, f.Vertices)

	assert.True(t, f.Visible([]float64{0, 0, -1}))
	assert.False(t, f.Visible([]float64{0.5, 0.5, 0}))
	assert.False(t, f.Visible([]float64{0, 0, 3}))
}

func TestNewFacetCollinearFails(t *testing.T) {
	pts := [][]float64{
		{0, 0, 0},
		{1, 1, 1},
		{2, 2, 2},
	}
	_, ok := NewFacet([]int{0, 1, 2}, pts, []float64{0, 0, 1}, NullSpaceSVD)
	assert.False(t, ok)
}

func TestNewFacetWrongArity(t *testing.T) {
	pts := simplex(3)
	_, ok := NewFacet([]int{0, 1}, pts, []float64{0, 0, 0}, NullSpaceSVD)
	assert.False(t, ok)
	_, ok = NewFacet(nil, nil, nil, NullSpaceSVD)
	assert.False(t, ok)
}

func TestNewFacetGeneralPath(t *testing.T) {
	// The unit vectors of R^4 span the hyperplane x1+x2+x3+x4 = 1.
	pts := simplex(4)[1:]
	half := 0.5
	for _, ns := range strategies {
		t.Run(ns.String(), func(t *testing.T) {
			f, ok := NewFacet([]int{0, 1, 2, 3}, pts, []float64{0, 0, 0, 0}, ns)
			require.True(t, ok)
			assert.InDeltaSlice(t, []float64{half, half, half, half}, f.Normal, 1e-9)
			assert.InDelta(t, half, f.Offset, 1e-9)

			// Reversed interior flips the normal.
			g, ok := NewFacet([]int{0, 1, 2, 3}, pts, []float64{1, 1, 1, 1}, ns)
			require.True(t, ok)
			assert.InDeltaSlice(t, []float64{-half, -half, -half, -half}, g.Normal, 1e-9)
		})
	}
}

func TestNewFacetGeneralPathDegenerate(t *testing.T) {
	// Four points on a 2-plane inside R^4 span only two edge directions.
	pts := [][]float64{
		{0, 0, 0, 0},
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{1, 1, 0, 0},
	}
	for _, ns := range strategies {
		t.Run(ns.String(), func(t *testing.T) {
			_, ok := NewFacet([]int{0, 1, 2, 3}, pts, []float64{0, 0, 1, 1}, ns)
			assert.False(t, ok)
		})
	}
}

func TestNewFacet2D(t *testing.T) {
	pts := [][]float64{{0, 0}, {1, 1}}
	for _, ns := range strategies {
		t.Run(ns.String(), func(t *testing.T) {
			f, ok := NewFacet([]int{0, 1}, pts, []float64{1, 0}, ns)
			require.True(t, ok)
			s := 1 / math.Sqrt2
			assert.InDeltaSlice(t, []float64{-s, s}, f.Normal, 1e-9)
		})
	}
}

func TestNewFacet1D(t *testing.T) {
	pts := [][]float64{{-2}, {3}}
	f, ok := NewFacet([]int{1}, pts, []float64{0}, NullSpaceSVD)
	require.True(t, ok)
	assert.Equal(t, []float64{1}, f.Normal)
	assert.Equal(t, 3.0, f.Offset)

	g, ok := NewFacet([]int{0}, pts, []float64{0}, NullSpaceRejection)
	require.True(t, ok)
	assert.Equal(t, []float64{-1}, g.Normal)
	assert.Equal(t, 2.0, g.Offset)
}

func TestNewFacetStrategiesAgree(t *testing.T) {
	pts := randomCloud(7, 6, 6)
	interior := centroidOf(pts)
	svd, ok := NewFacet([]int{0, 1, 2, 3, 4, 5}, pts, interior, NullSpaceSVD)
	require.True(t, ok)
	rej, ok := NewFacet([]int{0, 1, 2, 3, 4, 5}, pts, interior, NullSpaceRejection)
	require.True(t, ok)
	assert.InDeltaSlice(t, svd.Normal, rej.Normal, 1e-7)
	assert.InDelta(t, svd.Offset, rej.Offset, 1e-7)
}

func TestParseNullSpace(t *testing.T) {
	tests := []struct {
		in      string
		want    NullSpace
		wantErr bool
	}{
		{"", NullSpaceSVD, false},
		{"svd", NullSpaceSVD, false},
		{"SVD", NullSpaceSVD, false},
		{"rejection", NullSpaceRejection, false},
		{" gram-schmidt ", NullSpaceRejection, false},
		{"qr", NullSpaceSVD, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseNullSpace(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
