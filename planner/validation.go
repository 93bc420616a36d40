package planner

import (
	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"go.viam.com/manipplan/constraintgraph"
	"go.viam.com/manipplan/trajectory"
)

// GraphPathValidation validates a path against both collision and constraint
// graph consistency. When a collision validator shortens a path past a mode
// boundary, the valid prefix is re-attributed to the transition that explains
// its endpoints and re-validated under that transition's constraints.
type GraphPathValidation struct {
	inner  trajectory.PathValidation
	graph  *constraintgraph.Graph
	logger golog.Logger
}

// NewGraphPathValidation wraps a collision-based validator with graph
// consistency checks.
func NewGraphPathValidation(
	inner trajectory.PathValidation,
	graph *constraintgraph.Graph,
	logger golog.Logger,
) *GraphPathValidation {
	return &GraphPathValidation{inner: inner, graph: graph, logger: logger}
}

// Graph returns the constraint graph consulted during validation.
func (v *GraphPathValidation) Graph() *constraintgraph.Graph { return v.graph }

// Validate returns whether the entire path is collision-free and graph
// consistent. On false, the returned path is the longest valid prefix (or
// suffix when reverse), possibly of zero length. State lookup failures are
// folded into a zero-length valid part; extraction errors propagate.
func (v *GraphPathValidation) Validate(path trajectory.Path, reverse bool) (trajectory.Path, bool, error) {
	if path == nil {
		return nil, false, errors.New("cannot validate a nil path")
	}
	return v.implValidate(path, reverse)
}

func (v *GraphPathValidation) implValidate(path trajectory.Path, reverse bool) (trajectory.Path, bool, error) {
	if vec, ok := path.(*trajectory.Vector); ok {
		return v.validateVector(vec, reverse)
	}
	return v.validateLeaf(path, reverse)
}

func (v *GraphPathValidation) validateVector(vec *trajectory.Vector, reverse bool) (trajectory.Path, bool, error) {
	if reverse {
		for i := vec.NumberPaths() - 1; i >= 0; i-- {
			validSub, ok, err := v.implValidate(vec.PathAtRank(i), true)
			if err != nil {
				return nil, false, err
			}
			if !ok {
				out := trajectory.NewVector(vec.OutputSize())
				for k := vec.NumberPaths() - 1; k > i; k-- {
					if err := out.Append(vec.PathAtRank(k).Copy()); err != nil {
						return nil, false, err
					}
				}
				if err := out.Append(validSub); err != nil {
					return nil, false, err
				}
				return out, false, nil
			}
		}
		return vec, true, nil
	}
	for i := 0; i < vec.NumberPaths(); i++ {
		validSub, ok, err := v.implValidate(vec.PathAtRank(i), false)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			out := trajectory.NewVector(vec.OutputSize())
			for k := 0; k < i; k++ {
				if err := out.Append(vec.PathAtRank(k).Copy()); err != nil {
					return nil, false, err
				}
			}
			if err := out.Append(validSub); err != nil {
				return nil, false, err
			}
			return out, false, nil
		}
	}
	return vec, true, nil
}

func (v *GraphPathValidation) validateLeaf(path trajectory.Path, reverse bool) (trajectory.Path, bool, error) {
	pathNoCollision, ok, err := v.inner.Validate(path, reverse)
	if err != nil {
		return nil, false, err
	}
	if ok {
		return path, true, nil
	}
	oldRange := path.TimeRange()
	if pathNoCollision == nil {
		return v.zeroLength(path, oldRange.L)
	}
	newRange := pathNoCollision.TimeRange()

	origStates, destStates, sameEndpoints, lookupErr := v.endpointStates(path, pathNoCollision, oldRange, newRange)
	if lookupErr != nil {
		if errors.Is(lookupErr, constraintgraph.ErrStateNotFound) {
			// A configuration without a state usually means the path could not
			// be projected; the path is invalid from the start.
			return v.zeroLength(path, oldRange.L)
		}
		return nil, false, lookupErr
	}
	if sameEndpoints {
		// Shortening was a pure collision event on the same transition.
		return pathNoCollision, false, nil
	}

	if reverse {
		return nil, false, ErrReverseLeafValidation
	}

	// The valid prefix crossed a mode boundary: find a transition explaining
	// the new endpoints and re-validate under its constraints.
	candidates := v.graph.EdgeCandidates(origStates, destStates)
	for i := len(candidates) - 1; i >= 0; i-- {
		constraints := v.graph.PathConstraint(candidates[i])
		qMin, evalOK := pathNoCollision.Eval(newRange.L)
		if !evalOK {
			continue
		}
		constraints.OffsetFromConfig(qMin)
		if !constraints.IsSatisfied(qMin) {
			v.logger.Debugw("path constraint unsatisfied at its own anchor", "constraints", constraints.Name())
			continue
		}
		qMax, evalOK := pathNoCollision.Eval(newRange.U)
		if !evalOK {
			continue
		}
		if constraints.IsSatisfied(qMax) {
			pathNoCollision.SetConstraints(constraints)
			validPart, _, err := v.implValidate(pathNoCollision, reverse)
			return validPart, false, err
		}
	}
	return v.zeroLength(path, oldRange.L)
}

// endpointStates resolves the graph states at the shortened and original
// endpoints and reports whether the two pairs coincide.
func (v *GraphPathValidation) endpointStates(
	path, pathNoCollision trajectory.Path,
	oldRange, newRange trajectory.Interval,
) (orig, dest []*constraintgraph.State, same bool, err error) {
	statesAt := func(p trajectory.Path, t float64) ([]*constraintgraph.State, error) {
		q, ok := p.Eval(t)
		if !ok {
			return nil, errors.Wrapf(constraintgraph.ErrStateNotFound, "path unprojectable at t=%g", t)
		}
		return v.graph.StatesContaining(q)
	}
	if orig, err = statesAt(pathNoCollision, newRange.L); err != nil {
		return nil, nil, false, err
	}
	if dest, err = statesAt(pathNoCollision, newRange.U); err != nil {
		return nil, nil, false, err
	}
	oldOrig, err := statesAt(path, oldRange.L)
	if err != nil {
		return nil, nil, false, err
	}
	oldDest, err := statesAt(path, oldRange.U)
	if err != nil {
		return nil, nil, false, err
	}
	return orig, dest, sameStates(orig, oldOrig) && sameStates(dest, oldDest), nil
}

func sameStates(a, b []*constraintgraph.State) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (v *GraphPathValidation) zeroLength(path trajectory.Path, t float64) (trajectory.Path, bool, error) {
	zero, err := path.Extract(trajectory.Interval{L: t, U: t})
	if err != nil {
		return nil, false, err
	}
	return zero, false, nil
}

var _ trajectory.PathValidation = (*GraphPathValidation)(nil)
