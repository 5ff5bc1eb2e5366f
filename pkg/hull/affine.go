package hull

import "gonum.org/v1/gonum/floats"

// Basis is the affine frame a point set was projected into: coordinate k
// of a projected point is (p - Origin)·Vectors[k].
type Basis struct {
	Origin  []float64
	Vectors [][]float64
}

// Dim returns the number of basis vectors.
func (b *Basis) Dim() int {
	return len(b.Vectors)
}

// Project re-expresses points in an orthonormal basis of their affine hull
// and returns them with the hull's true dimension. Points that already span
// their ambient space are returned unchanged.
func Project(points [][]float64) ([][]float64, int) {
	projected, dim, _ := ProjectBasis(points)
	return projected, dim
}

// ProjectBasis is Project that also returns the frame used. The Basis is nil
// whenever the points are returned unchanged.
//
// Point 0 is the origin; the basis is grown by Gram-Schmidt over the
// difference vectors in input order, so the frame depends on which point
// comes first.
func ProjectBasis(points [][]float64) ([][]float64, int, *Basis) {
	if len(points) < 2 {
		if len(points) == 0 {
			return points, 0, nil
		}
		return points, len(points[0]), nil
	}

	origin := points[0]
	ambient := len(origin)
	basis := make([][]float64, 0, ambient)

	for _, p := range points[1:] {
		if len(basis) >= ambient {
			break
		}
		diff := floats.SubTo(make([]float64, ambient), p, origin)
		if reject(diff, basis) > Tolerance {
			basis = append(basis, diff)
		}
	}

	if len(basis) >= ambient {
		return points, ambient, nil
	}

	projected := make([][]float64, len(points))
	centered := make([]float64, ambient)
	for i, p := range points {
		floats.SubTo(centered, p, origin)
		coords := make([]float64, len(basis))
		for k, b := range basis {
			coords[k] = floats.Dot(centered, b)
		}
		projected[i] = coords
	}

	return projected, len(basis), &Basis{
		Origin:  append([]float64(nil), origin...),
		Vectors: basis,
	}
}

// reject removes from v its components along the orthonormal vectors in
// basis and returns the residual norm. When the residual exceeds Tolerance
// v is normalized in place.
func reject(v []float64, basis [][]float64) float64 {
	for _, b := range basis {
		floats.AddScaled(v, -floats.Dot(v, b), b)
	}
	n := floats.Norm(v, 2)
	if n > Tolerance {
		floats.Scale(1/n, v)
	}
	return n
}

// seedSimplex picks dim+1 affinely independent points, scanning in array
// order. When the first dim+1 points are independent the result is exactly
// 0..dim. It returns nil if the points do not span dim dimensions.
func seedSimplex(points [][]float64, dim int) []int {
	if len(points) < dim+1 {
		return nil
	}
	seed := make([]int, 1, dim+1)
	origin := points[0]
	basis := make([][]float64, 0, dim)
	for i := 1; i < len(points) && len(basis) < dim; i++ {
		diff := floats.SubTo(make([]float64, len(origin)), points[i], origin)
		if reject(diff, basis) > Tolerance {
			basis = append(basis, diff)
			seed = append(seed, i)
		}
	}
	if len(basis) < dim {
		return nil
	}
	return seed
}
