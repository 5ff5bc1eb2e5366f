package hull

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// nullVector returns a unit vector orthogonal to every row. The rows are the
// dim-1 edge vectors of a facet, so a well-formed facet has a 1-D null space.
func nullVector(rows [][]float64, dim int, ns NullSpace) ([]float64, bool) {
	if len(rows) == 0 {
		// A 1-D facet is a single point; any unit vector is its normal.
		e := make([]float64, dim)
		e[0] = 1
		return e, true
	}
	if ns == NullSpaceRejection {
		return rejectionNull(rows, dim)
	}
	return svdNull(rows, dim)
}

// svdNull reads the normal off the last right singular vector. Singular
// values come back in decreasing order, so the last one decides whether the
// rows are independent.
func svdNull(rows [][]float64, dim int) ([]float64, bool) {
	a := mat.NewDense(len(rows), dim, nil)
	for i, r := range rows {
		a.SetRow(i, r)
	}

	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDFullV) {
		return nil, false
	}
	values := svd.Values(nil)
	if len(values) < len(rows) {
		return nil, false
	}
	scale := 1.0
	if values[0] > scale {
		scale = values[0]
	}
	if values[len(values)-1] <= Tolerance*scale {
		return nil, false
	}

	var v mat.Dense
	svd.VTo(&v)
	normal := mat.Col(nil, dim-1, &v)

	n := floats.Norm(normal, 2)
	if n <= Tolerance {
		return nil, false
	}
	floats.Scale(1/n, normal)
	return normal, true
}

// rejectionNull orthonormalizes the rows, then rejects each standard basis
// vector against them. The candidate with the largest residual wins.
func rejectionNull(rows [][]float64, dim int) ([]float64, bool) {
	ortho := make([][]float64, 0, len(rows))
	for _, r := range rows {
		v := append([]float64(nil), r...)
		// Two passes keep the basis orthogonal when rows are nearly parallel.
		for pass := 0; pass < 2; pass++ {
			for _, q := range ortho {
				floats.AddScaled(v, -floats.Dot(v, q), q)
			}
		}
		n := floats.Norm(v, 2)
		if n <= Tolerance {
			return nil, false
		}
		floats.Scale(1/n, v)
		ortho = append(ortho, v)
	}

	var (
		best     []float64
		bestNorm float64
	)
	for k := 0; k < dim; k++ {
		e := make([]float64, dim)
		e[k] = 1
		for pass := 0; pass < 2; pass++ {
			for _, q := range ortho {
				floats.AddScaled(e, -floats.Dot(e, q), q)
			}
		}
		if n := floats.Norm(e, 2); n > bestNorm {
			best, bestNorm = e, n
		}
	}
	if bestNorm <= Tolerance {
		return nil, false
	}
	floats.Scale(1/bestNorm, best)
	return best, true
}
