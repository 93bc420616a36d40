package planner

import "github.com/pkg/errors"

// NewInvalidProblemTypeError is returned by New when the problem is not the
// manipulation specialization.
func NewInvalidProblemTypeError() error {
	return errors.New("the problem must be a manipulation Problem")
}

// NewInvalidRoadmapTypeError is returned by New when the roadmap is not the
// manipulation specialization.
func NewInvalidRoadmapTypeError() error {
	return errors.New("the roadmap must be a manipulation Roadmap")
}

// ErrReverseLeafValidation is returned when reverse validation reaches a leaf
// path whose invalidity crosses a mode boundary; that branch has no coverage.
var ErrReverseLeafValidation = errors.New("reverse validation of a leaf path is not supported")
