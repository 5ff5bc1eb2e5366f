// Package tessellate hulls every polytope of a scene with a kernel and
// produces one triangle mesh per polytope. Polytopes share no state, so
// they are hulled concurrently.
package tessellate

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/chazu/mdimension/pkg/kernel"
	"github.com/chazu/mdimension/pkg/scene"
)

// DefaultWorkers is the concurrency used when Tessellate is given none.
const DefaultWorkers = 4

// Part is one hulled polytope.
type Part struct {
	Polytope *scene.Polytope
	Solid    kernel.Solid
	Mesh     *kernel.Mesh
}

// Tessellate hulls each polytope in s with k, at most workers at a time,
// and returns the parts in scene order. The first failure cancels the
// remaining work. The tessellator is read-only and never mutates the scene.
func Tessellate(ctx context.Context, s *scene.Scene, k kernel.Kernel, workers int) ([]Part, error) {
	if s == nil {
		return nil, nil
	}
	if workers < 1 {
		workers = DefaultWorkers
	}

	parts := make([]Part, s.Len())
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, p := range s.Polytopes {
		i, p := i, p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			part, err := hullPolytope(k, p)
			if err != nil {
				return fmt.Errorf("tessellate: polytope %q: %w", p.Name, err)
			}
			parts[i] = part
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return parts, nil
}

// hullPolytope computes one polytope's hull and mesh.
func hullPolytope(k kernel.Kernel, p *scene.Polytope) (Part, error) {
	solid, err := k.Hull(p.Points)
	if err != nil {
		return Part{}, err
	}
	mesh, err := k.ToMesh(solid)
	if err != nil {
		return Part{}, fmt.Errorf("ToMesh failed: %w", err)
	}
	mesh.Name = p.Name
	return Part{Polytope: p, Solid: solid, Mesh: mesh}, nil
}

// Meshes returns the mesh of every part, in order.
func Meshes(parts []Part) []*kernel.Mesh {
	meshes := make([]*kernel.Mesh, len(parts))
	for i, p := range parts {
		meshes[i] = p.Mesh
	}
	return meshes
}
