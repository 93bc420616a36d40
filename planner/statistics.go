package planner

import "go.viam.com/manipplan/constraintgraph"

// Reason indexes the failure bins of an edge's success statistics. The
// ordering is stable; display strings are exposed through ErrorList.
type Reason int

// The failure reasons, in display order.
const (
	ReasonProjection Reason = iota
	ReasonSteeringMethod
	ReasonPathValidationZero
	ReasonPathProjectionZero
	ReasonPathProjectionShorter
	ReasonPathValidationShorter
	ReasonPartlyExtended
	numReasons
)

var reasonStrings = [numReasons]string{
	"[Fail] Projection",
	"[Fail] SteeringMethod",
	"[Fail] Path validation returned length 0",
	"[Fail] Path could not be projected",
	"[Info] Path could not be fully projected",
	"[Info] Path could not be fully validated",
	"[Info] Extended partly",
}

func (r Reason) String() string { return reasonStrings[r] }

// SuccessStatistics counts extension outcomes for one constraint graph edge.
type SuccessStatistics struct {
	name      string
	successes int
	failures  [numReasons]int
}

// AddSuccess records one successful extension.
func (s *SuccessStatistics) AddSuccess() { s.successes++ }

// AddFailure records one failure for the given reason.
func (s *SuccessStatistics) AddFailure(r Reason) { s.failures[r]++ }

// NumSuccess returns the success count.
func (s *SuccessStatistics) NumSuccess() int { return s.successes }

// NumFailure returns the failure count for the given reason.
func (s *SuccessStatistics) NumFailure(r Reason) int { return s.failures[r] }

// edgeStatistics maps edge ids to statistics slots. Slots are dense and
// created lazily on first observation; index value -1 means never observed.
type edgeStatistics struct {
	index []int
	stats []*SuccessStatistics
}

func (es *edgeStatistics) statFor(edge constraintgraph.Edge) *SuccessStatistics {
	id := edge.ID()
	for len(es.index) <= id {
		es.index = append(es.index, -1)
	}
	if es.index[id] < 0 {
		es.index[id] = len(es.stats)
		es.stats = append(es.stats, &SuccessStatistics{name: edge.Name()})
	}
	return es.stats[es.index[id]]
}

func (es *edgeStatistics) lookup(edge constraintgraph.Edge) *SuccessStatistics {
	id := edge.ID()
	if id >= len(es.index) || es.index[id] < 0 {
		return nil
	}
	return es.stats[es.index[id]]
}

// GetEdgeStat returns, for the given edge, the success count followed by the
// failure counts of the six fail/info reasons, in ErrorList order. An edge
// never selected by extend yields seven zeros.
func (m *ManipulationPlanner) GetEdgeStat(edge constraintgraph.Edge) []int {
	out := make([]int, 0, numReasons)
	s := m.stats.lookup(edge)
	if s == nil {
		return make([]int, numReasons)
	}
	out = append(out, s.NumSuccess())
	for r := ReasonProjection; r < ReasonPartlyExtended; r++ {
		out = append(out, s.NumFailure(r))
	}
	return out
}

// PartlyExtended returns how often the edge produced a shorter-than-steered
// extension; aggregated separately from GetEdgeStat.
func (m *ManipulationPlanner) PartlyExtended(edge constraintgraph.Edge) int {
	s := m.stats.lookup(edge)
	if s == nil {
		return 0
	}
	return s.NumFailure(ReasonPartlyExtended)
}

// ErrorList returns the display strings of the extension outcomes, success
// first.
func ErrorList() []string {
	out := []string{"Success"}
	for r := ReasonProjection; r < ReasonPartlyExtended; r++ {
		out = append(out, r.String())
	}
	return out
}
