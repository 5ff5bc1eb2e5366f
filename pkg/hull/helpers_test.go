package hull

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

// hypercube returns the 2^dim vertices of [-1,1]^dim in binary counting
// order.
func hypercube(dim int) [][]float64 {
	pts := make([][]float64, 0, 1<<dim)
	for mask := 0; mask < 1<<dim; mask++ {
		p := make([]float64, dim)
		for k := range p {
			p[k] = -1
			if mask&(1<<k) != 0 {
				p[k] = 1
			}
		}
		pts = append(pts, p)
	}
	return pts
}

// simplex returns the origin followed by the dim unit vectors.
func simplex(dim int) [][]float64 {
	pts := [][]float64{make([]float64, dim)}
	for k := 0; k < dim; k++ {
		p := make([]float64, dim)
		p[k] = 1
		pts = append(pts, p)
	}
	return pts
}

func randomCloud(seed int64, n, dim int) [][]float64 {
	rng := rand.New(rand.NewSource(seed))
	pts := make([][]float64, n)
	for i := range pts {
		p := make([]float64, dim)
		for k := range p {
			p[k] = rng.NormFloat64()
		}
		pts[i] = p
	}
	return pts
}

func centroidOf(points [][]float64) []float64 {
	c := make([]float64, len(points[0]))
	for _, p := range points {
		for k := range c {
			c[k] += p[k]
		}
	}
	for k := range c {
		c[k] /= float64(len(points))
	}
	return c
}

// assertConvex checks that no point lies outside any facet and that the
// centroid of all points is strictly inside every facet.
func assertConvex(t *testing.T, res *Result, points [][]float64) {
	t.Helper()
	require.NotEmpty(t, res.Facets)
	c := centroidOf(points)
	for _, f := range res.Facets {
		assert.InDelta(t, 1.0, floats.Dot(f.Normal, f.Normal), 1e-9, "facet %v normal not unit", f.Vertices)
		assert.Less(t, f.Distance(c), 0.0, "centroid outside facet %v", f.Vertices)
		for i, p := range points {
			assert.LessOrEqual(t, f.Distance(p), 1e-7, "point %d outside facet %v", i, f.Vertices)
		}
	}
}

// assertClosed checks that every ridge of the hull belongs to exactly two
// facets.
func assertClosed(t *testing.T, res *Result) {
	t.Helper()
	counts := make(map[string]int)
	for _, f := range res.Facets {
		for skip := range f.Vertices {
			ridge := make([]int, 0, len(f.Vertices)-1)
			for k, v := range f.Vertices {
				if k != skip {
					ridge = append(ridge, v)
				}
			}
			slices.Sort(ridge)
			counts[ridgeString(ridge)]++
		}
	}
	for ridge, n := range counts {
		assert.Equal(t, 2, n, "ridge %s", ridge)
	}
}

func ridgeString(r []int) string {
	b := make([]byte, 0, len(r)*4)
	for _, v := range r {
		b = append(b, byte(v>>8), byte(v), ',')
	}
	return string(b)
}

func triangles(flat []int) [][3]int {
	out := make([][3]int, 0, len(flat)/3)
	for k := 0; k+2 < len(flat); k += 3 {
		out = append(out, [3]int{flat[k], flat[k+1], flat[k+2]})
	}
	return out
}
