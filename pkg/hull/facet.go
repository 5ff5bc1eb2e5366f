package hull

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
	"gonum.org/v1/gonum/floats"
)

// Facet is a (d-1)-simplex on the hull boundary. Its supporting hyperplane
// is Normal·p = Offset, with Normal a unit vector pointing out of the hull.
type Facet struct {
	Vertices []int
	Normal   []float64
	Offset   float64
}

// Distance returns the signed distance from p to the facet's hyperplane;
// positive values lie outside the hull.
func (f *Facet) Distance(p []float64) float64 {
	return floats.Dot(f.Normal, p) - f.Offset
}

// Visible reports whether p lies strictly outside the facet.
func (f *Facet) Visible(p []float64) bool {
	return f.Distance(p) > Tolerance
}

// NewFacet builds the facet spanned by the given point indices. The number
// of indices must equal the dimension of the points. The normal is oriented
// so that interior lies on its negative side.
//
// It returns false when the vertices are affinely dependent or no normal
// can be resolved; callers drop such facets.
func NewFacet(vertices []int, points [][]float64, interior []float64, ns NullSpace) (*Facet, bool) {
	if len(points) == 0 {
		return nil, false
	}
	dim := len(points[0])
	if dim == 0 || len(vertices) != dim {
		return nil, false
	}

	p0 := points[vertices[0]]

	var (
		normal []float64
		ok     bool
	)
	if dim == 3 {
		normal, ok = crossNormal(p0, points[vertices[1]], points[vertices[2]])
	} else {
		edges := make([][]float64, dim-1)
		for i := 1; i < dim; i++ {
			edges[i-1] = floats.SubTo(make([]float64, dim), points[vertices[i]], p0)
		}
		normal, ok = nullVector(edges, dim, ns)
	}
	if !ok {
		return nil, false
	}

	// Point away from the interior.
	toInterior := floats.SubTo(make([]float64, dim), interior, p0)
	if floats.Dot(toInterior, normal) > 0 {
		floats.Scale(-1, normal)
	}

	return &Facet{
		Vertices: append([]int(nil), vertices...),
		Normal:   normal,
		Offset:   floats.Dot(normal, p0),
	}, true
}

// crossNormal is the 3D fast path: the unit normal of triangle abc.
func crossNormal(a, b, c []float64) ([]float64, bool) {
	va := v3.Vec{X: a[0], Y: a[1], Z: a[2]}
	vb := v3.Vec{X: b[0], Y: b[1], Z: b[2]}
	vc := v3.Vec{X: c[0], Y: c[1], Z: c[2]}

	n := vb.Sub(va).Cross(vc.Sub(va))
	l := n.Length()
	if l < Tolerance {
		return nil, false
	}
	return []float64{n.X / l, n.Y / l, n.Z / l}, true
}
