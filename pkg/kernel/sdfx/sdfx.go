// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library. A 3D hull becomes the
// intersection of its facet half-spaces, meshed by marching cubes.
package sdfx

import (
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/pkg/errors"

	"github.com/chazu/mdimension/pkg/hull"
	"github.com/chazu/mdimension/pkg/kernel"
	"github.com/chazu/mdimension/pkg/kernel/incremental"
)

// Compile-time interface checks.
var (
	_ kernel.Kernel = (*SdfxKernel)(nil)
	_ sdf.SDF3      = (*halfSpaces)(nil)
)

// defaultMeshCells controls marching cubes tessellation resolution.
const defaultMeshCells = 64

type plane struct {
	n v3.Vec
	d float64
}

// halfSpaces is the signed distance bound of a convex polyhedron: the
// largest signed distance to any of its facet planes.
type halfSpaces struct {
	planes []plane
	bb     sdf.Box3
}

// Evaluate returns the signed distance bound at p.
func (h *halfSpaces) Evaluate(p v3.Vec) float64 {
	d := math.Inf(-1)
	for _, pl := range h.planes {
		d = math.Max(d, pl.n.Dot(p)-pl.d)
	}
	return d
}

// BoundingBox returns the padded bounding box of the hull.
func (h *halfSpaces) BoundingBox() sdf.Box3 {
	return h.bb
}

// sdfxSolid wraps the hull and its SDF to implement kernel.Solid.
type sdfxSolid struct {
	kernel.Solid
	s *halfSpaces
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	inner *incremental.Kernel
	cells int
}

// New returns a new SdfxKernel. opts are passed to the hull engine.
func New(opts ...hull.Option) *SdfxKernel {
	return &SdfxKernel{inner: incremental.New(opts...), cells: defaultMeshCells}
}

// Name returns "sdfx".
func (k *SdfxKernel) Name() string { return "sdfx" }

// Hull computes the convex hull of 3D points that span a volume. Flat or
// higher dimensional inputs report kernel.ErrUnsupportedDimension.
func (k *SdfxKernel) Hull(points [][]float64) (kernel.Solid, error) {
	if len(points) > 0 && len(points[0]) != 3 {
		return nil, errors.Wrapf(kernel.ErrUnsupportedDimension, "sdfx needs 3 coordinates, got %d", len(points[0]))
	}
	s, err := k.inner.Hull(points)
	if err != nil {
		return nil, err
	}
	if s.Dimension() != 3 {
		return nil, errors.Wrapf(kernel.ErrUnsupportedDimension, "points span %d dimensions, need a volume", s.Dimension())
	}
	return &sdfxSolid{Solid: s, s: halfSpacesOf(s)}, nil
}

// halfSpacesOf builds one outward plane per hull triangle.
func halfSpacesOf(s kernel.Solid) *halfSpaces {
	pts := s.Points()
	var center v3.Vec
	for _, p := range pts {
		center = center.Add(vec(p))
	}
	center = center.DivScalar(float64(len(pts)))

	tris := s.Triangles()
	h := &halfSpaces{planes: make([]plane, 0, len(tris)/3)}
	for i := 0; i+2 < len(tris); i += 3 {
		a, b, c := vec(pts[tris[i]]), vec(pts[tris[i+1]]), vec(pts[tris[i+2]])
		n := b.Sub(a).Cross(c.Sub(a)).Normalize()
		d := n.Dot(a)
		if n.Dot(center)-d > 0 {
			n, d = n.Neg(), -d
		}
		h.planes = append(h.planes, plane{n: n, d: d})
	}

	lo, hi := s.BoundingBox()
	bb := sdf.Box3{Min: vec(lo), Max: vec(hi)}
	h.bb = bb.Enlarge(bb.Size().MulScalar(0.05))
	return h
}

func vec(p []float64) v3.Vec {
	return v3.Vec{X: p[0], Y: p[1], Z: p[2]}
}

// ToMesh converts a solid to a triangle mesh using marching cubes.
func (k *SdfxKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	ss, ok := s.(*sdfxSolid)
	if !ok {
		return nil, errors.New("sdfx: solid was not built by this kernel")
	}
	renderer := render.NewMarchingCubesUniform(k.cells)
	return FromTriangles(render.ToTriangles(ss.s, renderer)), nil
}

// FromTriangles flattens sdfx triangles into a flat-shaded mesh.
func FromTriangles(triangles []*sdf.Triangle3) *kernel.Mesh {
	numVerts := len(triangles) * 3

	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		n := tri.Normal()
		nx, ny, nz := float32(n.X), float32(n.Y), float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}
}

// Triangles converts a mesh back into sdfx triangles.
func Triangles(m *kernel.Mesh) []*sdf.Triangle3 {
	out := make([]*sdf.Triangle3, 0, m.TriangleCount())
	for t := 0; t < m.TriangleCount(); t++ {
		var tri sdf.Triangle3
		for j := 0; j < 3; j++ {
			v := m.Indices[3*t+j]
			tri[j] = v3.Vec{
				X: float64(m.Vertices[3*v]),
				Y: float64(m.Vertices[3*v+1]),
				Z: float64(m.Vertices[3*v+2]),
			}
		}
		out = append(out, &tri)
	}
	return out
}

// SaveSTL writes a mesh as a binary STL file.
func SaveSTL(path string, m *kernel.Mesh) error {
	if m.IsEmpty() {
		return errors.Errorf("sdfx: mesh %q is empty", m.Name)
	}
	if err := render.SaveSTL(path, Triangles(m)); err != nil {
		return errors.Wrapf(err, "save %s", path)
	}
	return nil
}
