package roadmap

import (
	"math"
	"sort"
	"sync"

	"go.viam.com/utils"

	"go.viam.com/manipplan/jointspace"
)

// defaultParallelNeighbors is the candidate count above which distance
// computations fan out over goroutines. The fan-out is a query-local detail;
// the planner itself stays single-threaded.
const defaultParallelNeighbors = 1000

type neighborManager struct {
	metric            jointspace.Metric
	parallelNeighbors int
	nCPU              int
}

type neighbor struct {
	dist float64
	node *Node
}

// less orders by distance, first-inserted node winning ties.
func (nb neighbor) less(other neighbor) bool {
	if nb.dist != other.dist {
		return nb.dist < other.dist
	}
	return nb.node.index < other.node.index
}

func (nm *neighborManager) nearest(q jointspace.Configuration, candidates []*Node) (*Node, float64) {
	if len(candidates) == 0 {
		return nil, math.Inf(1)
	}
	if nm.parallelNeighbors > 0 && len(candidates) > nm.parallelNeighbors && nm.nCPU > 1 {
		return nm.parallelNearest(q, candidates)
	}
	best := neighbor{dist: math.Inf(1)}
	for _, n := range candidates {
		cand := neighbor{dist: nm.metric(q, n.q), node: n}
		if best.node == nil || cand.less(best) {
			best = cand
		}
	}
	return best.node, best.dist
}

func (nm *neighborManager) parallelNearest(q jointspace.Configuration, candidates []*Node) (*Node, float64) {
	chunk := (len(candidates) + nm.nCPU - 1) / nm.nCPU
	results := make([]neighbor, nm.nCPU)
	var wg sync.WaitGroup
	for i := 0; i < nm.nCPU; i++ {
		lo := i * chunk
		hi := lo + chunk
		if lo >= len(candidates) {
			results[i] = neighbor{dist: math.Inf(1)}
			continue
		}
		if hi > len(candidates) {
			hi = len(candidates)
		}
		wg.Add(1)
		slot := i
		part := candidates[lo:hi]
		utils.PanicCapturingGo(func() {
			defer wg.Done()
			best := neighbor{dist: math.Inf(1)}
			for _, n := range part {
				cand := neighbor{dist: nm.metric(q, n.q), node: n}
				if best.node == nil || cand.less(best) {
					best = cand
				}
			}
			results[slot] = best
		})
	}
	wg.Wait()
	best := neighbor{dist: math.Inf(1)}
	for _, r := range results {
		if r.node != nil && (best.node == nil || r.less(best)) {
			best = r
		}
	}
	return best.node, best.dist
}

// kNearest returns up to k candidates sorted by distance, first-inserted
// winning ties.
func (nm *neighborManager) kNearest(q jointspace.Configuration, candidates []*Node, k int) []neighbor {
	all := make([]neighbor, 0, len(candidates))
	for _, n := range candidates {
		all = append(all, neighbor{dist: nm.metric(q, n.q), node: n})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].less(all[j]) })
	if k > len(all) {
		k = len(all)
	}
	return all[:k]
}
