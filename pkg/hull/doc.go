// Package hull computes convex hulls of point sets of any dimension.
//
// Points are first reduced to the affine subspace they span (Project), then
// inserted one at a time into a growing set of facets (Engine). A facet is a
// (d-1)-simplex carrying an outward unit normal; a new point replaces every
// facet it can see with a fan of facets built over the horizon of the
// visible region. Once every point is inserted the facets are split into
// triangles, deduplicated across neighbouring facets, and returned as a flat
// index list into the caller's point order.
//
// All arithmetic is float64 with a fixed tolerance (Tolerance). Degenerate
// facets are dropped rather than reported, so the engine never fails on
// geometric grounds; only malformed input (points of mixed length) and
// misuse of the Engine state machine produce errors.
package hull
