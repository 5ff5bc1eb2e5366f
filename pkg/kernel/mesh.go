package kernel

import "github.com/golang/geo/r3"

// Mesh is a flat-shaded triangle mesh suitable for rendering.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
// Source maps each mesh vertex back to the hull point it was cut from.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	Source   []uint32  `json:"source"`   // hull point index per vertex
	Name     string    `json:"name"`     // which scene polytope this came from
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// NewMesh cuts the hull triangles out of points into a flat-shaded mesh.
// Positions are the first three coordinates of each point (missing ones
// read as zero), so hulls above three dimensions render as their shadow in
// xyz. Each triangle is wound counterclockwise when seen from outside,
// judged against the centroid of the triangulated points.
func NewMesh(points [][]float64, triangles []int) *Mesh {
	numTri := len(triangles) / 3
	m := &Mesh{
		Vertices: make([]float32, 0, numTri*9),
		Normals:  make([]float32, 0, numTri*9),
		Indices:  make([]uint32, 0, numTri*3),
		Source:   make([]uint32, 0, numTri*3),
	}
	if numTri == 0 {
		return m
	}

	var center r3.Vector
	used := make(map[int]bool)
	for _, i := range triangles[:numTri*3] {
		if !used[i] {
			used[i] = true
			center = center.Add(xyz(points[i]))
		}
	}
	center = center.Mul(1 / float64(len(used)))

	for t := 0; t < numTri; t++ {
		ia, ib, ic := triangles[3*t], triangles[3*t+1], triangles[3*t+2]
		a, b, c := xyz(points[ia]), xyz(points[ib]), xyz(points[ic])

		n := b.Sub(a).Cross(c.Sub(a))
		out := a.Add(b).Add(c).Mul(1.0 / 3).Sub(center)
		if n.Dot(out) < 0 {
			ib, ic = ic, ib
			b, c = c, b
			n = n.Mul(-1)
		}
		if n.Norm() > 1e-12 {
			n = n.Normalize()
		} else if out.Norm() > 1e-12 {
			// Flat in the xyz shadow; face the viewer away from the center.
			n = out.Normalize()
		}

		base := uint32(len(m.Source))
		for j, v := range [3]r3.Vector{a, b, c} {
			m.Vertices = append(m.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
			m.Normals = append(m.Normals, float32(n.X), float32(n.Y), float32(n.Z))
			m.Indices = append(m.Indices, base+uint32(j))
		}
		m.Source = append(m.Source, uint32(ia), uint32(ib), uint32(ic))
	}
	return m
}

// xyz reads the first three coordinates of p, padding missing ones with 0.
func xyz(p []float64) r3.Vector {
	var c [3]float64
	copy(c[:], p)
	return r3.Vector{X: c[0], Y: c[1], Z: c[2]}
}
