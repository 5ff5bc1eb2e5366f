// Package scene defines the named polytopes produced by evaluating a scene
// script. A Scene is never mutated after evaluation; each evaluation
// produces a new one.
package scene

import (
	"fmt"

	"github.com/chazu/mdimension/pkg/flat"
)

// Polytope is a named point set whose convex hull the scene asks for.
type Polytope struct {
	Name   string      `json:"name"`
	Points [][]float64 `json:"points"`
	// Origin names the polytope this one was translated from, if any.
	Origin string    `json:"origin,omitempty"`
	Offset []float64 `json:"offset,omitempty"`
}

// Dim returns the coordinate count of the first point, or 0 when empty.
func (p *Polytope) Dim() int {
	if len(p.Points) == 0 {
		return 0
	}
	return len(p.Points[0])
}

// Translate returns a copy of p named name with every point moved by by.
func (p *Polytope) Translate(name string, by []float64) (*Polytope, error) {
	if len(p.Points) > 0 && len(by) != p.Dim() {
		return nil, fmt.Errorf("translate %q: offset has %d coordinates, points have %d", p.Name, len(by), p.Dim())
	}
	out := &Polytope{
		Name:   name,
		Points: make([][]float64, len(p.Points)),
		Origin: p.Name,
		Offset: append([]float64(nil), by...),
	}
	for i, pt := range p.Points {
		if len(pt) != len(by) {
			return nil, fmt.Errorf("translate %q: point %d has %d coordinates, offset has %d", p.Name, i, len(pt), len(by))
		}
		q := make([]float64, len(pt))
		for k := range pt {
			q[k] = pt[k] + by[k]
		}
		out.Points[i] = q
	}
	return out, nil
}

// Flat returns the points as one row-major buffer and their dimension.
func (p *Polytope) Flat() ([]float64, int, error) {
	return flat.Flatten(p.Points)
}

// Scene is the ordered set of polytopes defined by one evaluation.
type Scene struct {
	Polytopes []*Polytope    `json:"polytopes"`
	NameIndex map[string]int `json:"-"`
	Version   uint64         `json:"version"`
}

// New creates an empty Scene.
func New() *Scene {
	return &Scene{NameIndex: make(map[string]int)}
}

// Add appends a polytope. It does not check for duplicate names; a later
// polytope shadows an earlier one in Lookup and Validate reports the clash.
func (s *Scene) Add(p *Polytope) {
	s.NameIndex[p.Name] = len(s.Polytopes)
	s.Polytopes = append(s.Polytopes, p)
}

// Lookup returns the polytope with the given name, or nil.
func (s *Scene) Lookup(name string) *Polytope {
	i, ok := s.NameIndex[name]
	if !ok {
		return nil
	}
	return s.Polytopes[i]
}

// MustLookup returns the polytope with the given name, or panics.
func (s *Scene) MustLookup(name string) *Polytope {
	p := s.Lookup(name)
	if p == nil {
		panic(fmt.Sprintf("scene: no polytope named %q", name))
	}
	return p
}

// Len returns the number of polytopes.
func (s *Scene) Len() int {
	return len(s.Polytopes)
}

// PointCount returns the total number of points across all polytopes.
func (s *Scene) PointCount() int {
	n := 0
	for _, p := range s.Polytopes {
		n += len(p.Points)
	}
	return n
}

// Names returns polytope names in definition order.
func (s *Scene) Names() []string {
	names := make([]string, len(s.Polytopes))
	for i, p := range s.Polytopes {
		names[i] = p.Name
	}
	return names
}
