package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/mdimension/pkg/scene"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms scene source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: cross-polytope -> cross_polytope
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVertex wraps a point so it can be returned from `vertex` and consumed
// by `polytope` and `translate`.
type sexpVertex struct {
	coords []float64
}

func (v *sexpVertex) SexpString(ps *zygo.PrintState) string {
	parts := make([]string, len(v.coords))
	for i, c := range v.coords {
		parts[i] = fmt.Sprintf("%g", c)
	}
	return "(vertex " + strings.Join(parts, " ") + ")"
}
func (v *sexpVertex) Type() *zygo.RegisteredType { return nil }

// sexpPolytopeRef names a polytope already added to the scene.
type sexpPolytopeRef struct {
	name string
}

func (r *sexpPolytopeRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(ref %q)", r.name)
}
func (r *sexpPolytopeRef) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value; treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts a non-negative integer from a SexpInt.
func toInt(s zygo.Sexp) (int, error) {
	v, ok := s.(*zygo.SexpInt)
	if !ok {
		return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
	}
	if v.Val < 0 {
		return 0, fmt.Errorf("expected non-negative integer, got %d", v.Val)
	}
	return int(v.Val), nil
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toVertex extracts coordinates from a sexpVertex, or from a list or array
// of numbers.
func toVertex(s zygo.Sexp) ([]float64, error) {
	if v, ok := s.(*sexpVertex); ok {
		return v.coords, nil
	}
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, fmt.Errorf("expected vertex, got %T (%s)", s, s.SexpString(nil))
	}
	coords := make([]float64, len(items))
	for i, item := range items {
		if coords[i], err = toFloat64(item); err != nil {
			return nil, fmt.Errorf("coordinate %d: %w", i, err)
		}
	}
	return coords, nil
}

// toPolytopeRef extracts a polytope name from a sexpPolytopeRef.
func toPolytopeRef(s zygo.Sexp) (string, error) {
	if ref, ok := s.(*sexpPolytopeRef); ok {
		return ref.name, nil
	}
	return "", fmt.Errorf("expected polytope reference, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// ---------------------------------------------------------------------------
// Generated shapes
// ---------------------------------------------------------------------------

// hypercubePoints returns the 2^dim corners of the cube [0,size]^dim in
// binary counting order.
func hypercubePoints(dim int, size float64) [][]float64 {
	pts := make([][]float64, 1<<dim)
	for i := range pts {
		p := make([]float64, dim)
		for k := 0; k < dim; k++ {
			if i>>k&1 == 1 {
				p[k] = size
			}
		}
		pts[i] = p
	}
	return pts
}

// simplexPoints returns the origin followed by size times each unit vector.
func simplexPoints(dim int, size float64) [][]float64 {
	pts := make([][]float64, dim+1)
	pts[0] = make([]float64, dim)
	for k := 0; k < dim; k++ {
		p := make([]float64, dim)
		p[k] = size
		pts[k+1] = p
	}
	return pts
}

// crossPolytopePoints returns ±size along each axis.
func crossPolytopePoints(dim int, size float64) [][]float64 {
	pts := make([][]float64, 0, 2*dim)
	for k := 0; k < dim; k++ {
		for _, sign := range []float64{1, -1} {
			p := make([]float64, dim)
			p[k] = sign * size
			pts = append(pts, p)
		}
	}
	return pts
}

// maxGeneratedDim bounds the dimension of generated shapes; a hypercube
// has 2^dim corners.
const maxGeneratedDim = 16

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs all scene builtins into a zygomys environment.
// The builtins operate on the provided Scene, populating it during
// evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, s *scene.Scene) {
	// Unnamed translations are numbered per evaluation so names stay
	// deterministic.
	translations := 0

	add := func(fn string, p *scene.Polytope) (zygo.Sexp, error) {
		if p.Name == "" {
			return zygo.SexpNull, fmt.Errorf("%s: name must not be empty", fn)
		}
		if s.Lookup(p.Name) != nil {
			return zygo.SexpNull, fmt.Errorf("%s: polytope %q already defined", fn, p.Name)
		}
		s.Add(p)
		return &sexpPolytopeRef{name: p.Name}, nil
	}

	// -----------------------------------------------------------------------
	// (vertex 1 2 3 4)
	// -----------------------------------------------------------------------
	env.AddFunction("vertex", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) == 0 {
			return zygo.SexpNull, fmt.Errorf("vertex requires at least one coordinate")
		}
		coords := make([]float64, len(args))
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vertex: coordinate %d: %w", i, err)
			}
			coords[i] = f
		}
		return &sexpVertex{coords: coords}, nil
	})

	// -----------------------------------------------------------------------
	// (polytope "name" (vertex ...) (vertex ...) ...)
	// (polytope "name" :vertices (list (vertex ...) ...))
	// -----------------------------------------------------------------------
	env.AddFunction("polytope", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("polytope requires a name argument")
		}
		ptName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("polytope: name: %w", err)
		}

		items := pa.positional[1:]
		if v, ok := pa.kw["vertices"]; ok {
			listed, err := sexpListToSlice(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("polytope: vertices: %w", err)
			}
			items = append(items, listed...)
		}

		p := &scene.Polytope{Name: ptName}
		for i, item := range items {
			coords, err := toVertex(item)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("polytope: vertex %d: %w", i, err)
			}
			p.Points = append(p.Points, coords)
		}
		return add("polytope", p)
	})

	// -----------------------------------------------------------------------
	// (ref "name")
	// -----------------------------------------------------------------------
	env.AddFunction("ref", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("ref requires a name argument")
		}
		ptName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("ref: name: %w", err)
		}
		if s.Lookup(ptName) == nil {
			return zygo.SexpNull, fmt.Errorf("ref: no polytope named %q", ptName)
		}
		return &sexpPolytopeRef{name: ptName}, nil
	})

	// -----------------------------------------------------------------------
	// (translate (ref "cube") :by (vertex 2 0 0) :as "cube2")
	// -----------------------------------------------------------------------
	env.AddFunction("translate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("translate requires a polytope reference as first argument")
		}
		srcName, err := toPolytopeRef(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("translate: polytope: %w", err)
		}

		v, ok := pa.kw["by"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("translate: missing :by offset")
		}
		by, err := toVertex(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("translate: by: %w", err)
		}

		translations++
		outName := fmt.Sprintf("%s/translate-%d", srcName, translations)
		if v, ok := pa.kw["as"]; ok {
			if outName, err = toString(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("translate: as: %w", err)
			}
		}

		moved, err := s.MustLookup(srcName).Translate(outName, by)
		if err != nil {
			return zygo.SexpNull, err
		}
		return add("translate", moved)
	})

	// -----------------------------------------------------------------------
	// (hypercube "name" 4 :size 2)
	// (simplex "name" 4 :size 2)
	// (cross-polytope "name" 4 :size 2)
	//
	// Note: cross-polytope is registered as "cross_polytope" because zygomys
	// does not support hyphens in identifiers.
	// -----------------------------------------------------------------------
	shape := func(fn string, gen func(dim int, size float64) [][]float64) func(*zygo.Zlisp, string, []zygo.Sexp) (zygo.Sexp, error) {
		return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			pa := parseArgs(args)
			if len(pa.positional) < 2 {
				return zygo.SexpNull, fmt.Errorf("%s requires a name and a dimension", fn)
			}
			ptName, err := toString(pa.positional[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: name: %w", fn, err)
			}
			dim, err := toInt(pa.positional[1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: dimension: %w", fn, err)
			}
			if dim < 1 || dim > maxGeneratedDim {
				return zygo.SexpNull, fmt.Errorf("%s: dimension %d outside 1..%d", fn, dim, maxGeneratedDim)
			}
			size := 1.0
			if v, ok := pa.kw["size"]; ok {
				if size, err = toFloat64(v); err != nil {
					return zygo.SexpNull, fmt.Errorf("%s: size: %w", fn, err)
				}
			}
			return add(fn, &scene.Polytope{Name: ptName, Points: gen(dim, size)})
		}
	}
	env.AddFunction("hypercube", shape("hypercube", hypercubePoints))
	env.AddFunction("simplex", shape("simplex", simplexPoints))
	env.AddFunction("cross_polytope", shape("cross-polytope", crossPolytopePoints))
}
