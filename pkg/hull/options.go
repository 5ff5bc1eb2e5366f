package hull

import (
	"log"
	"strings"

	"github.com/pkg/errors"
)

// Tolerance is the fixed epsilon used for rank decisions, degenerate facet
// detection and visibility tests.
const Tolerance = 1e-9

// NullSpace selects how facet normals are derived when the working
// dimension is not 3.
type NullSpace int

const (
	// NullSpaceSVD takes the right singular vector of the smallest
	// singular value of the facet's edge matrix.
	NullSpaceSVD NullSpace = iota
	// NullSpaceRejection orthonormalizes the edge vectors and rejects
	// standard basis vectors against them.
	NullSpaceRejection
)

func (n NullSpace) String() string {
	switch n {
	case NullSpaceSVD:
		return "svd"
	case NullSpaceRejection:
		return "rejection"
	default:
		return "unknown"
	}
}

// ParseNullSpace converts a strategy name ("svd" or "rejection") into a
// NullSpace.
func ParseNullSpace(name string) (NullSpace, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "svd":
		return NullSpaceSVD, nil
	case "rejection", "gram-schmidt", "gs":
		return NullSpaceRejection, nil
	}
	return NullSpaceSVD, errors.Errorf("hull: unknown null space strategy %q", name)
}

type options struct {
	nullSpace NullSpace
	logger    *log.Logger
}

// Option configures an Engine.
type Option func(*options)

// WithNullSpace selects the normal computation used for non-3D facets.
func WithNullSpace(ns NullSpace) Option {
	return func(o *options) {
		o.nullSpace = ns
	}
}

// WithLogger enables tracing of dropped facets and ridge anomalies.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func newOptions(opts []Option) options {
	o := options{nullSpace: NullSpaceSVD}
	for _, set := range opts {
		set(&o)
	}
	return o
}
