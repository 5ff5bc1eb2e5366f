package hull

// Result is a finalized hull.
type Result struct {
	// Dim is the working dimension the hull was computed in.
	Dim int
	// Trivial is set when there were fewer than Dim+1 points. Triangles
	// then lists every point index instead of triangle corners.
	Trivial bool
	// Facets are the boundary facets, in the order they were created.
	Facets []*Facet
	// Triangles is a flat list of triangle corners, three per triangle,
	// each triple sorted ascending and unique across the hull.
	Triangles []int
	// Edges is a flat list of boundary edge endpoints, two per edge.
	Edges []int
	Stats Stats
}

// TriangleCount returns the number of triangles in a non-trivial result.
func (r *Result) TriangleCount() int {
	if r.Trivial {
		return 0
	}
	return len(r.Triangles) / 3
}

// Finalize extracts the triangle and edge lists from the current facets and
// closes the engine to further inserts. Repeated calls return the same
// Result.
//
// Every facet with d vertices contributes its C(d,3) vertex triples; facets
// of dimension 4 and up share most of them with their neighbours, so
// triples are deduplicated globally. A 2D hull has no triples of its own
// and is fan-triangulated from its boundary polygon instead.
func (e *Engine) Finalize() *Result {
	if e.result != nil {
		return e.result
	}

	res := &Result{Dim: e.dim, Stats: e.stats}
	switch {
	case e.trivial:
		res.Trivial = true
		res.Triangles = make([]int, len(e.points))
		for i := range res.Triangles {
			res.Triangles[i] = i
		}
	default:
		res.Facets = e.facets
		res.Triangles = triangulate(e.facets)
		res.Edges = facetEdges(e.facets)
		switch e.dim {
		case 1:
			res.Edges = segment(e.facets)
		case 2:
			res.Triangles = fan(res.Edges)
		}
	}

	e.state = StateFinalized
	e.result = res
	return res
}

func triangulate(facets []*Facet) []int {
	seen := make(map[[3]int]struct{})
	var out []int
	for _, f := range facets {
		v := f.Vertices
		for i := 0; i < len(v); i++ {
			for j := i + 1; j < len(v); j++ {
				for k := j + 1; k < len(v); k++ {
					tri := sort3(v[i], v[j], v[k])
					if _, dup := seen[tri]; dup {
						continue
					}
					seen[tri] = struct{}{}
					out = append(out, tri[0], tri[1], tri[2])
				}
			}
		}
	}
	return out
}

func facetEdges(facets []*Facet) []int {
	seen := make(map[[2]int]struct{})
	var out []int
	for _, f := range facets {
		v := f.Vertices
		for i := 0; i < len(v); i++ {
			for j := i + 1; j < len(v); j++ {
				a, b := v[i], v[j]
				if a > b {
					a, b = b, a
				}
				edge := [2]int{a, b}
				if _, dup := seen[edge]; dup {
					continue
				}
				seen[edge] = struct{}{}
				out = append(out, a, b)
			}
		}
	}
	return out
}

// segment joins the two end points of a 1D hull.
func segment(facets []*Facet) []int {
	if len(facets) != 2 {
		return nil
	}
	a, b := facets[0].Vertices[0], facets[1].Vertices[0]
	if a > b {
		a, b = b, a
	}
	return []int{a, b}
}

// fan walks the closed boundary polygon described by edges, starting at its
// lowest index, and triangulates it as a fan from that vertex. It returns
// nil when the edges do not form a single cycle.
func fan(edges []int) []int {
	adj := make(map[int][]int)
	for k := 0; k+1 < len(edges); k += 2 {
		a, b := edges[k], edges[k+1]
		adj[a] = append(adj[a], b)
		adj[b] = append(adj[b], a)
	}
	if len(adj) < 3 {
		return nil
	}

	start := -1
	for v := range adj {
		if start < 0 || v < start {
			start = v
		}
	}

	cycle := []int{start}
	prev, cur := -1, start
	for {
		nbrs := adj[cur]
		if len(nbrs) != 2 {
			return nil
		}
		next := nbrs[0]
		if next == prev {
			next = nbrs[1]
		}
		if next == start {
			break
		}
		if len(cycle) >= len(adj) {
			return nil
		}
		cycle = append(cycle, next)
		prev, cur = cur, next
	}
	if len(cycle) != len(adj) {
		return nil
	}

	out := make([]int, 0, 3*(len(cycle)-2))
	for k := 1; k+1 < len(cycle); k++ {
		tri := sort3(cycle[0], cycle[k], cycle[k+1])
		out = append(out, tri[0], tri[1], tri[2])
	}
	return out
}

func sort3(a, b, c int) [3]int {
	if a > b {
		a, b = b, a
	}
	if b > c {
		b, c = c, b
	}
	if a > b {
		a, b = b, a
	}
	return [3]int{a, b, c}
}
