package trajectory

import (
	"github.com/pkg/errors"

	"go.viam.com/manipplan/jointspace"
)

// Straight is a leaf path interpolating linearly between two configurations,
// parametrized over [0, length]. An attached constraint set is projected at
// every evaluation.
type Straight struct {
	from, to    jointspace.Configuration
	length      float64
	constraints *jointspace.ConstraintSet
}

// NewStraight creates a straight path of the given duration.
func NewStraight(from, to jointspace.Configuration, length float64) *Straight {
	return &Straight{from: from.Copy(), to: to.Copy(), length: length}
}

// Length returns the path duration.
func (s *Straight) Length() float64 { return s.length }

// TimeRange returns [0, length].
func (s *Straight) TimeRange() Interval { return Interval{0, s.length} }

// OutputSize returns the configuration size.
func (s *Straight) OutputSize() int { return len(s.from) }

// Constraints returns the attached constraint set, possibly nil.
func (s *Straight) Constraints() *jointspace.ConstraintSet { return s.constraints }

// SetConstraints attaches a constraint set projected at evaluation time.
func (s *Straight) SetConstraints(cs *jointspace.ConstraintSet) { s.constraints = cs }

// interpolate evaluates without constraint projection.
func (s *Straight) interpolate(t float64) jointspace.Configuration {
	if s.length == 0 {
		return s.from.Copy()
	}
	frac := t / s.length
	if frac < 0 {
		frac = 0
	} else if frac > 1 {
		frac = 1
	}
	return s.from.Interpolate(s.to, frac)
}

// Eval returns the configuration at t. The success flag is false when the
// attached constraints fail to project the interpolated configuration.
func (s *Straight) Eval(t float64) (jointspace.Configuration, bool) {
	q := s.interpolate(t)
	if s.constraints != nil && !s.constraints.Project(q) {
		return q, false
	}
	return q, true
}

// Extract returns the straight sub-path over i, reversed when i is. The
// sub-path keeps the constraint set and is re-parametrized over [0, len].
func (s *Straight) Extract(i Interval) (Path, error) {
	if err := checkInterval(s, i); err != nil {
		return nil, err
	}
	q1, ok := s.Eval(i.L)
	if !ok {
		return nil, errors.Wrapf(ErrProjection, "extracting at t=%g", i.L)
	}
	q2, ok := s.Eval(i.U)
	if !ok {
		return nil, errors.Wrapf(ErrProjection, "extracting at t=%g", i.U)
	}
	out := NewStraight(q1, q2, i.Length())
	out.constraints = s.constraints
	return out, nil
}

// Copy returns a deep copy of the path. The constraint set is shared.
func (s *Straight) Copy() Path {
	out := NewStraight(s.from, s.to, s.length)
	out.constraints = s.constraints
	return out
}

// StraightLine steers along straight joint-space segments whose duration is
// the metric distance between the endpoints.
type StraightLine struct {
	metric jointspace.Metric
}

// NewStraightLine creates the steering method over the given metric.
func NewStraightLine(metric jointspace.Metric) *StraightLine {
	if metric == nil {
		metric = jointspace.L2Metric
	}
	return &StraightLine{metric: metric}
}

// Steer builds the straight path from one configuration to the other.
func (sl *StraightLine) Steer(from, to jointspace.Configuration) (Path, error) {
	if len(from) != len(to) {
		return nil, errors.Errorf("mismatched configuration sizes %d and %d", len(from), len(to))
	}
	return NewStraight(from, to, sl.metric(from, to)), nil
}
