package hull

import (
	"slices"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

var (
	// ErrDimensionMismatch is returned when a point's length differs from
	// the engine's dimension.
	ErrDimensionMismatch = errors.New("hull: point dimension mismatch")
	// ErrNotSeeded is returned by Insert before Seed has run.
	ErrNotSeeded = errors.New("hull: engine not seeded")
	// ErrOutOfOrder is returned when points are not inserted in order.
	ErrOutOfOrder = errors.New("hull: point inserted out of order")
	// ErrFinalized is returned by Insert once the hull is finalized.
	ErrFinalized = errors.New("hull: engine finalized")
)

// State is the lifecycle stage of an Engine.
type State int

const (
	StateUninitialized State = iota // created, no facets
	StateSeeded                     // initial simplex built
	StateGrowing                    // at least one point inserted
	StateFinalized                  // triangles extracted, no more inserts
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateSeeded:
		return "seeded"
	case StateGrowing:
		return "growing"
	case StateFinalized:
		return "finalized"
	default:
		return "unknown"
	}
}

// Stats counts what happened during a hull computation.
type Stats struct {
	Inserted       int // points processed by Insert
	Interior       int // inserted points that saw no facet
	FacetsCreated  int
	FacetFailures  int // degenerate facets dropped
	RidgeAnomalies int // ridges shared by more than two visible facets
}

// Engine grows the convex hull of a fixed point set one point at a time.
// An Engine owns its facet set and is not safe for concurrent use; separate
// Engines share nothing and may run in parallel.
type Engine struct {
	points [][]float64
	dim    int
	opts   options

	interior []float64
	facets   []*Facet
	order    []int // insertion order of the points outside the seed
	cursor   int
	state    State
	trivial  bool
	result   *Result
	stats    Stats

	ridges  ridgeTable
	visible []int
	scratch []int
}

// NewEngine prepares an engine over points, all of which must have dim
// coordinates. Points are normally the output of Project.
func NewEngine(points [][]float64, dim int, opts ...Option) (*Engine, error) {
	if dim < 0 {
		return nil, errors.Wrapf(ErrDimensionMismatch, "negative dimension %d", dim)
	}
	for i, p := range points {
		if len(p) != dim {
			return nil, errors.Wrapf(ErrDimensionMismatch, "point %d has %d coordinates, want %d", i, len(p), dim)
		}
	}
	return &Engine{
		points: points,
		dim:    dim,
		opts:   newOptions(opts),
	}, nil
}

// Dim returns the working dimension.
func (e *Engine) Dim() int { return e.dim }

// State returns the current lifecycle stage.
func (e *Engine) State() State { return e.state }

// Stats returns the counters accumulated so far.
func (e *Engine) Stats() Stats { return e.stats }

// Facets returns the current facets. The slice is a copy; the facets are
// shared and must not be modified.
func (e *Engine) Facets() []*Facet {
	return slices.Clone(e.facets)
}

// Pending returns the indices still waiting to be inserted, in order.
func (e *Engine) Pending() []int {
	if e.cursor >= len(e.order) {
		return nil
	}
	return slices.Clone(e.order[e.cursor:])
}

// Seed builds the initial simplex. With fewer than dim+1 points there is
// nothing to wrap and the engine goes straight to a trivial hull; Seed then
// returns false. Calling Seed again is a no-op.
//
// The simplex is taken from the first dim+1 points when they are affinely
// independent; otherwise the first independent points in array order are
// used. Facets are oriented against the simplex centroid, which stays
// inside every later hull.
func (e *Engine) Seed() bool {
	if e.state != StateUninitialized {
		return !e.trivial
	}
	if len(e.points) < e.dim+1 {
		e.trivial = true
		e.state = StateFinalized
		return false
	}

	seed := seedSimplex(e.points, e.dim)
	if seed == nil {
		e.logf("points do not span %d dimensions; seeding from the first %d", e.dim, e.dim+1)
		seed = make([]int, e.dim+1)
		for i := range seed {
			seed[i] = i
		}
	}

	e.interior = make([]float64, e.dim)
	for _, i := range seed {
		floats.Add(e.interior, e.points[i])
	}
	floats.Scale(1/float64(len(seed)), e.interior)

	face := make([]int, 0, e.dim)
	for omit := range seed {
		face = face[:0]
		for k, v := range seed {
			if k != omit {
				face = append(face, v)
			}
		}
		e.addFacet(face)
	}

	e.order = make([]int, 0, len(e.points)-len(seed))
	for i, k := 0, 0; i < len(e.points); i++ {
		if k < len(seed) && seed[k] == i {
			k++
			continue
		}
		e.order = append(e.order, i)
	}
	e.state = StateSeeded
	return true
}

// Insert adds point i to the hull. Points must be inserted in the order
// reported by Pending. It returns true when the hull changed; interior
// points leave every facet untouched.
func (e *Engine) Insert(i int) (bool, error) {
	switch e.state {
	case StateUninitialized:
		return false, ErrNotSeeded
	case StateFinalized:
		return false, ErrFinalized
	}
	if e.cursor >= len(e.order) || e.order[e.cursor] != i {
		want := -1
		if e.cursor < len(e.order) {
			want = e.order[e.cursor]
		}
		return false, errors.Wrapf(ErrOutOfOrder, "got point %d, want %d", i, want)
	}
	e.cursor++
	e.state = StateGrowing
	e.stats.Inserted++

	p := e.points[i]
	e.visible = e.visible[:0]
	for fi, f := range e.facets {
		if f.Visible(p) {
			e.visible = append(e.visible, fi)
		}
	}
	if len(e.visible) == 0 {
		e.stats.Interior++
		return false, nil
	}

	// Ridges seen once border an invisible facet (the horizon); ridges seen
	// twice sit between two visible facets.
	e.ridges.reset(e.dim - 1)
	for _, fi := range e.visible {
		verts := e.facets[fi].Vertices
		for skip := range verts {
			ridge := e.scratch[:0]
			for k, v := range verts {
				if k != skip {
					ridge = append(ridge, v)
				}
			}
			slices.Sort(ridge)
			e.ridges.add(ridge)
			e.scratch = ridge
		}
	}

	kept := e.facets[:0]
	next := 0
	for fi, f := range e.facets {
		if next < len(e.visible) && e.visible[next] == fi {
			next++
			continue
		}
		kept = append(kept, f)
	}
	clear(e.facets[len(kept):])
	e.facets = kept

	face := make([]int, 0, e.dim)
	for id := 0; id < e.ridges.len(); id++ {
		switch c := e.ridges.count(id); {
		case c == 1:
			face = append(face[:0], e.ridges.ridge(id)...)
			face = append(face, i)
			e.addFacet(face)
		case c > 2:
			e.stats.RidgeAnomalies++
			e.logf("ridge %v shared by %d visible facets while inserting point %d", e.ridges.ridge(id), c, i)
		}
	}
	return true, nil
}

// Run seeds the engine if needed and inserts every pending point.
func (e *Engine) Run() error {
	if e.state == StateUninitialized && !e.Seed() {
		return nil
	}
	for e.state != StateFinalized && e.cursor < len(e.order) {
		if _, err := e.Insert(e.order[e.cursor]); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) addFacet(vertices []int) {
	f, ok := NewFacet(vertices, e.points, e.interior, e.opts.nullSpace)
	if !ok {
		e.stats.FacetFailures++
		e.logf("dropped degenerate facet %v", vertices)
		return
	}
	e.facets = append(e.facets, f)
	e.stats.FacetsCreated++
}

func (e *Engine) logf(format string, args ...interface{}) {
	if e.opts.logger != nil {
		e.opts.logger.Printf("hull: "+format, args...)
	}
}
