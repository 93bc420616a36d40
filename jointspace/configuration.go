// Package jointspace holds joint-space configurations, metrics over them, and
// the constraint primitives that characterize manipulation modes.
package jointspace

import (
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// defaultEpsilon is the tolerance used for approximate configuration equality,
// consistent with what a converged projector leaves behind.
const defaultEpsilon = 1e-7

// Configuration is a dense vector of joint coordinates. It is a value object;
// helpers that modify in place say so.
type Configuration []float64

// NewConfiguration returns a zero configuration of the given size.
func NewConfiguration(size int) Configuration {
	return make(Configuration, size)
}

// Copy returns an owned copy of the configuration.
func (q Configuration) Copy() Configuration {
	out := make(Configuration, len(q))
	copy(out, q)
	return out
}

// Equal reports exact element-wise equality.
func (q Configuration) Equal(other Configuration) bool {
	if len(q) != len(other) {
		return false
	}
	return floats.Equal(q, other)
}

// ApproxEqual reports element-wise equality within the projector tolerance.
func (q Configuration) ApproxEqual(other Configuration) bool {
	if len(q) != len(other) {
		return false
	}
	if len(q) == 0 {
		return true
	}
	return floats.EqualApprox(q, other, defaultEpsilon)
}

// Interpolate returns the configuration at fraction t along the segment from q
// to other, t in [0, 1].
func (q Configuration) Interpolate(other Configuration, t float64) Configuration {
	out := make(Configuration, len(q))
	for i, v := range q {
		out[i] = v + t*(other[i]-v)
	}
	return out
}

// Metric measures distance between two configurations.
type Metric func(a, b Configuration) float64

// L2Metric is the unweighted euclidean joint-space distance.
func L2Metric(a, b Configuration) float64 {
	diff := make([]float64, len(a))
	floats.SubTo(diff, a, b)
	return floats.Norm(diff, 2)
}

// WeightedMetric returns a euclidean metric with one positive weight per
// joint. Configurations of a different size panic, as they would with a
// mismatched robot.
func WeightedMetric(weights []float64) Metric {
	return func(a, b Configuration) float64 {
		diff := make([]float64, len(a))
		floats.SubTo(diff, a, b)
		floats.Mul(diff, weights)
		return floats.Norm(diff, 2)
	}
}

// ConfigurationShooter samples random configurations.
type ConfigurationShooter interface {
	Shoot() Configuration
}

// UniformShooter samples uniformly within per-joint bounds.
type UniformShooter struct {
	lower, upper []float64
	rnd          *rand.Rand
}

// NewUniformShooter creates a shooter over the given bounds. The random source
// is owned by the shooter; planners are single-threaded.
func NewUniformShooter(lower, upper []float64, rnd *rand.Rand) (*UniformShooter, error) {
	if len(lower) != len(upper) {
		return nil, errors.Errorf("mismatched bounds: %d lower, %d upper", len(lower), len(upper))
	}
	return &UniformShooter{lower: lower, upper: upper, rnd: rnd}, nil
}

// Shoot samples one configuration.
func (s *UniformShooter) Shoot() Configuration {
	q := make(Configuration, len(s.lower))
	for i := range q {
		q[i] = s.lower[i] + s.rnd.Float64()*(s.upper[i]-s.lower[i])
	}
	return q
}
