package trajectory

import (
	"math"

	"github.com/pkg/errors"

	"go.viam.com/manipplan/jointspace"
)

// Vector is a composite path: an ordered sequence of sub-paths of identical
// output size, re-parametrized over [0, total length].
type Vector struct {
	outputSize  int
	paths       []Path
	constraints *jointspace.ConstraintSet
}

// NewVector creates an empty composite path for configurations of the given
// size.
func NewVector(outputSize int) *Vector {
	return &Vector{outputSize: outputSize}
}

// Append adds a sub-path at the end.
func (v *Vector) Append(p Path) error {
	if p.OutputSize() != v.outputSize {
		return errors.Errorf("sub-path output size %d does not match %d", p.OutputSize(), v.outputSize)
	}
	v.paths = append(v.paths, p)
	return nil
}

// NumberPaths returns the number of sub-paths.
func (v *Vector) NumberPaths() int { return len(v.paths) }

// PathAtRank returns the i-th sub-path.
func (v *Vector) PathAtRank(i int) Path { return v.paths[i] }

// Length returns the total duration.
func (v *Vector) Length() float64 {
	total := 0.0
	for _, p := range v.paths {
		total += p.Length()
	}
	return total
}

// TimeRange returns [0, total length].
func (v *Vector) TimeRange() Interval { return Interval{0, v.Length()} }

// OutputSize returns the configuration size.
func (v *Vector) OutputSize() int { return v.outputSize }

// Constraints returns the attached constraint set, possibly nil.
func (v *Vector) Constraints() *jointspace.ConstraintSet { return v.constraints }

// SetConstraints attaches a constraint set. Sub-paths keep their own.
func (v *Vector) SetConstraints(cs *jointspace.ConstraintSet) { v.constraints = cs }

// rankAt locates the sub-path containing t and the local parameter within it.
func (v *Vector) rankAt(t float64) (int, float64) {
	acc := 0.0
	for i, p := range v.paths {
		if t <= acc+p.Length()+intervalEpsilon {
			return i, t - acc
		}
		acc += p.Length()
	}
	last := len(v.paths) - 1
	return last, v.paths[last].Length()
}

// Eval evaluates the composite path at t.
func (v *Vector) Eval(t float64) (jointspace.Configuration, bool) {
	if len(v.paths) == 0 {
		return nil, false
	}
	i, local := v.rankAt(t)
	p := v.paths[i]
	return p.Eval(p.TimeRange().L + local)
}

// Extract returns the composite sub-path over i, reversed when i is.
func (v *Vector) Extract(i Interval) (Path, error) {
	if err := checkInterval(v, i); err != nil {
		return nil, err
	}
	if len(v.paths) == 0 {
		return nil, errors.New("cannot extract from an empty path vector")
	}
	if i.Reversed() {
		fw, err := v.extractForward(i.U, i.L)
		if err != nil {
			return nil, err
		}
		return fw.reverse()
	}
	return v.extractForward(i.L, i.U)
}

func (v *Vector) extractForward(l, u float64) (*Vector, error) {
	out := NewVector(v.outputSize)
	out.constraints = v.constraints
	if u-l <= intervalEpsilon {
		rank, local := v.rankAt(l)
		p := v.paths[rank]
		t := p.TimeRange().L + local
		sub, err := p.Extract(Interval{t, t})
		if err != nil {
			return nil, err
		}
		if err := out.Append(sub); err != nil {
			return nil, err
		}
		return out, nil
	}
	acc := 0.0
	for _, p := range v.paths {
		pl := p.Length()
		lo := math.Max(l, acc)
		hi := math.Min(u, acc+pl)
		if hi-lo > intervalEpsilon {
			tr := p.TimeRange()
			sub, err := p.Extract(Interval{tr.L + (lo - acc), tr.L + (hi - acc)})
			if err != nil {
				return nil, err
			}
			if err := out.Append(sub); err != nil {
				return nil, err
			}
		}
		acc += pl
	}
	return out, nil
}

// reverse returns the time-reversed composite path.
func (v *Vector) reverse() (*Vector, error) {
	out := NewVector(v.outputSize)
	out.constraints = v.constraints
	for i := len(v.paths) - 1; i >= 0; i-- {
		tr := v.paths[i].TimeRange()
		rp, err := v.paths[i].Extract(Interval{tr.U, tr.L})
		if err != nil {
			return nil, err
		}
		if err := out.Append(rp); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Copy returns a deep copy of the composite path.
func (v *Vector) Copy() Path {
	out := NewVector(v.outputSize)
	out.constraints = v.constraints
	for _, p := range v.paths {
		out.paths = append(out.paths, p.Copy())
	}
	return out
}
