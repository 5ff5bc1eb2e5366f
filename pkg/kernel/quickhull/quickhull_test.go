package quickhull

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/mdimension/pkg/kernel"
	"github.com/chazu/mdimension/pkg/kernel/incremental"
)

var cube = [][]float64{
	{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0},
	{0, 0, 1}, {1, 0, 1}, {0, 1, 1}, {1, 1, 1},
}

// sortedTriples normalizes a triangle list for set comparison.
func sortedTriples(tris []int) [][3]int {
	out := make([][3]int, 0, len(tris)/3)
	for i := 0; i+2 < len(tris); i += 3 {
		t := []int{tris[i], tris[i+1], tris[i+2]}
		sort.Ints(t)
		out = append(out, [3]int{t[0], t[1], t[2]})
	}
	sort.Slice(out, func(a, b int) bool {
		for k := 0; k < 3; k++ {
			if out[a][k] != out[b][k] {
				return out[a][k] < out[b][k]
			}
		}
		return false
	})
	return out
}

func TestHullTetrahedron(t *testing.T) {
	s, err := New().Hull(cube[:3:3])
	require.NoError(t, err)
	assert.Empty(t, s.Triangles(), "three points have no hull")

	tetra := [][]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	s, err = New().Hull(tetra)
	require.NoError(t, err)
	assert.Equal(t, [][3]int{{0, 1, 2}, {0, 1, 3}, {0, 2, 3}, {1, 2, 3}}, sortedTriples(s.Triangles()))
}

func TestHullCube(t *testing.T) {
	k := New()
	s, err := k.Hull(cube)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Dimension())
	assert.Len(t, s.Triangles(), 36)

	mesh, err := k.ToMesh(s)
	require.NoError(t, err)
	assert.Equal(t, 12, mesh.TriangleCount())
}

func TestWithEps(t *testing.T) {
	base := New()
	k := base.WithEps(1e-6)
	assert.Equal(t, DefaultEps, base.Eps())
	assert.Equal(t, 1e-6, k.Eps())

	s, err := k.Hull(cube)
	require.NoError(t, err)
	assert.Len(t, s.Triangles(), 36)
}

func TestHullUnsupportedDimension(t *testing.T) {
	_, err := New().Hull([][]float64{{0, 0, 0, 0}, {1, 0, 0, 0}})
	assert.ErrorIs(t, err, kernel.ErrUnsupportedDimension)

	_, err = New().Hull([][]float64{{0, 0}, {1, 0}, {0, 1}})
	assert.ErrorIs(t, err, kernel.ErrUnsupportedDimension)
}

// Both kernels must agree on clouds in general position, where the
// triangulation of the hull is unique.
func TestCrossCheckIncremental(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 5; trial++ {
		pts := make([][]float64, 40)
		for i := range pts {
			pts[i] = []float64{rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()}
		}

		want, err := New().Hull(pts)
		require.NoError(t, err)
		got, err := incremental.New().Hull(pts)
		require.NoError(t, err)

		assert.Equal(t, sortedTriples(want.Triangles()), sortedTriples(got.Triangles()), "trial %d", trial)
	}
}
