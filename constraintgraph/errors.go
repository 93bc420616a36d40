package constraintgraph

import "github.com/pkg/errors"

// ErrStateNotFound is returned when no state of the graph contains a
// configuration, typically because a path could not be projected.
var ErrStateNotFound = errors.New("no constraint graph state contains the configuration")
