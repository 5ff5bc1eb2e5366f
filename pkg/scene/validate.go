package scene

import (
	"errors"
	"fmt"

	"github.com/chazu/mdimension/pkg/flat"
)

// ValidationSeverity indicates whether a validation finding blocks hulling
// or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks hulling
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Polytope string             // which polytope has the problem (empty if scene-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.Polytope == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] polytope %q: %s", e.Severity, e.Polytope, e.Message)
}

// ValidationResult separates blocking errors from advisory warnings.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// OK reports whether the scene has no blocking errors.
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// Validate runs every check on the scene and returns all findings. It never
// mutates the scene.
func Validate(s *Scene) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateNames(s)...)
	for _, p := range s.Polytopes {
		errs = append(errs, validatePoints(p)...)
	}
	return errs
}

// ValidateAll runs Validate and splits its findings by severity.
func ValidateAll(s *Scene) ValidationResult {
	var result ValidationResult
	for _, e := range Validate(s) {
		if e.Severity == SeverityWarning {
			result.Warnings = append(result.Warnings, e)
		} else {
			result.Errors = append(result.Errors, e)
		}
	}
	return result
}

// validateNames checks that every polytope has a unique, non-empty name.
func validateNames(s *Scene) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]bool)
	for i, p := range s.Polytopes {
		if p.Name == "" {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("polytope %d has no name", i),
				Severity: SeverityError,
			})
			continue
		}
		if seen[p.Name] {
			errs = append(errs, ValidationError{
				Polytope: p.Name,
				Message:  "name is defined more than once",
				Severity: SeverityError,
			})
		}
		seen[p.Name] = true
	}
	return errs
}

// validatePoints checks point shape and warns about hulls that will come
// out trivial or with repeated points.
func validatePoints(p *Polytope) []ValidationError {
	if len(p.Points) == 0 {
		return []ValidationError{{
			Polytope: p.Name,
			Message:  "has no points",
			Severity: SeverityError,
		}}
	}
	if p.Dim() == 0 {
		return []ValidationError{{
			Polytope: p.Name,
			Message:  "points have no coordinates",
			Severity: SeverityError,
		}}
	}
	if err := flat.Validate(p.Points); err != nil {
		msg := err.Error()
		switch {
		case errors.Is(err, flat.ErrShapeMismatch):
			msg = "points have inconsistent dimensions: " + msg
		case errors.Is(err, flat.ErrNonFinite):
			msg = "points are not finite: " + msg
		}
		return []ValidationError{{
			Polytope: p.Name,
			Message:  msg,
			Severity: SeverityError,
		}}
	}

	var warnings []ValidationError
	if len(p.Points) < p.Dim()+1 {
		warnings = append(warnings, ValidationError{
			Polytope: p.Name,
			Message:  fmt.Sprintf("%d points cannot span %d dimensions; hull will be trivial", len(p.Points), p.Dim()),
			Severity: SeverityWarning,
		})
	}
	first := make(map[string]int)
	for i, pt := range p.Points {
		key := fmt.Sprint(pt)
		if j, ok := first[key]; ok {
			warnings = append(warnings, ValidationError{
				Polytope: p.Name,
				Message:  fmt.Sprintf("point %d repeats point %d", i, j),
				Severity: SeverityWarning,
			})
			continue
		}
		first[key] = i
	}
	return warnings
}
