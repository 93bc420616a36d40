// Package trajectory defines parametrized joint-space paths, the composite
// path vector, and the steering, projection and validation capabilities that
// operate on them.
package trajectory

import (
	"math"

	"github.com/pkg/errors"

	"go.viam.com/manipplan/jointspace"
)

// intervalEpsilon absorbs floating point noise when checking that an
// extraction interval lies within a path's time range.
const intervalEpsilon = 1e-9

// ErrProjection marks a projection that did not converge. Extractions wrap it
// when an endpoint evaluation fails; Eval itself reports failure through its
// boolean result.
var ErrProjection = errors.New("projection did not converge")

// Interval is a parameter interval. A reversed interval (U < L) requests time
// reversal on extraction.
type Interval struct {
	L, U float64
}

// Length returns the non-negative duration of the interval.
func (i Interval) Length() float64 { return math.Abs(i.U - i.L) }

// Reversed reports whether the interval runs backward.
func (i Interval) Reversed() bool { return i.U < i.L }

// Path is a parametrized map from a time range to configurations.
type Path interface {
	// Length is the duration of the time range.
	Length() float64
	TimeRange() Interval
	// Eval returns the configuration at t and whether evaluation (including
	// any constraint projection) succeeded.
	Eval(t float64) (jointspace.Configuration, bool)
	// Extract returns the sub-path over the given interval. A reversed
	// interval yields the time-reversed sub-path. The extracted path is
	// re-parametrized over [0, interval length].
	Extract(i Interval) (Path, error)
	Copy() Path
	OutputSize() int
	Constraints() *jointspace.ConstraintSet
	SetConstraints(cs *jointspace.ConstraintSet)
}

// SteeringMethod builds a candidate path between two configurations.
type SteeringMethod interface {
	Steer(from, to jointspace.Configuration) (Path, error)
}

// PathProjector maps an arbitrary path onto one satisfying a constraint. The
// boolean is true when the full path was projected; false means the result is
// a shortened prefix, possibly nil or of zero length.
type PathProjector interface {
	Apply(p Path) (Path, bool)
}

// PathValidation checks a path and returns its longest valid prefix (suffix
// when reverse), together with whether the whole path is valid.
type PathValidation interface {
	Validate(p Path, reverse bool) (Path, bool, error)
}

// checkInterval verifies that i lies within the path's time range.
func checkInterval(p Path, i Interval) error {
	tr := p.TimeRange()
	lo, hi := math.Min(i.L, i.U), math.Max(i.L, i.U)
	if lo < tr.L-intervalEpsilon || hi > tr.U+intervalEpsilon {
		return errors.Errorf("interval [%g, %g] outside of time range [%g, %g]", i.L, i.U, tr.L, tr.U)
	}
	return nil
}
