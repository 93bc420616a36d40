// Package roadmap is the planner's directed multigraph of sampled
// configurations, with connected component tracking and nearest-neighbor
// lookup partitioned by constraint graph state.
package roadmap

import (
	"runtime"

	"github.com/pkg/errors"

	"go.viam.com/manipplan/constraintgraph"
	"go.viam.com/manipplan/jointspace"
	"go.viam.com/manipplan/trajectory"
)

// Roadmap owns all nodes and edges. Every node's configuration is indexed in
// the per-state nearest-neighbor structure; component membership is the
// transitive closure of edge adjacency at all times.
type Roadmap struct {
	graph      *constraintgraph.Graph
	nn         *neighborManager
	nodes      []*Node
	components []*ConnectedComponent
	byState    map[*constraintgraph.State][]*Node
}

// New creates an empty roadmap over the given constraint graph. A nil metric
// defaults to the robot's weighted joint-space distance.
func New(graph *constraintgraph.Graph, metric jointspace.Metric) *Roadmap {
	if metric == nil {
		metric = jointspace.WeightedMetric(graph.Robot().DistanceWeights())
	}
	return &Roadmap{
		graph: graph,
		nn: &neighborManager{
			metric:            metric,
			parallelNeighbors: defaultParallelNeighbors,
			nCPU:              runtime.NumCPU(),
		},
		byState: map[*constraintgraph.State][]*Node{},
	}
}

// Graph returns the constraint graph the roadmap was built over.
func (r *Roadmap) Graph() *constraintgraph.Graph { return r.graph }

// Nodes returns all nodes in insertion order.
func (r *Roadmap) Nodes() []*Node {
	out := make([]*Node, len(r.nodes))
	copy(out, r.nodes)
	return out
}

// ConnectedComponents returns a snapshot of the current components.
func (r *Roadmap) ConnectedComponents() []*ConnectedComponent {
	out := make([]*ConnectedComponent, len(r.components))
	copy(out, r.components)
	return out
}

// AddNode creates an isolated node for q in a fresh connected component. The
// node's graph state is the first state containing q; configurations outside
// every state are rejected.
func (r *Roadmap) AddNode(q jointspace.Configuration) (*Node, error) {
	states, err := r.graph.StatesContaining(q)
	if err != nil {
		return nil, errors.Wrap(err, "roadmap rejects configuration")
	}
	n := &Node{
		index: len(r.nodes),
		q:     q.Copy(),
		state: states[0],
		out:   map[*Node]*Edge{},
		in:    map[*Node]*Edge{},
	}
	cc := &ConnectedComponent{nodes: []*Node{n}}
	n.cc = cc
	r.nodes = append(r.nodes, n)
	r.components = append(r.components, cc)
	r.byState[n.state] = append(r.byState[n.state], n)
	return n, nil
}

// AddEdge adds one directed edge carrying path and merges the endpoint
// components if they differ.
func (r *Roadmap) AddEdge(from, to *Node, path trajectory.Path) *Edge {
	e := &Edge{from: from, to: to, path: path}
	from.out[to] = e
	to.in[from] = e
	if from.cc != to.cc {
		r.merge(from.cc, to.cc)
	}
	return e
}

// AddNodeAndEdges atomically creates a node for q and both directed edges
// between from and the new node, the reverse edge carrying the time-reversed
// path.
func (r *Roadmap) AddNodeAndEdges(from *Node, q jointspace.Configuration, path trajectory.Path) (*Node, error) {
	tr := path.TimeRange()
	reversed, err := path.Extract(trajectory.Interval{L: tr.U, U: tr.L})
	if err != nil {
		return nil, errors.Wrap(err, "reversing path")
	}
	n, err := r.AddNode(q)
	if err != nil {
		return nil, err
	}
	r.AddEdge(from, n, path)
	r.AddEdge(n, from, reversed)
	return n, nil
}

func (r *Roadmap) merge(a, b *ConnectedComponent) {
	// Absorb the smaller component into the larger one.
	if a.Size() < b.Size() {
		a, b = b, a
	}
	a.absorb(b)
	for i, cc := range r.components {
		if cc == b {
			r.components = append(r.components[:i], r.components[i+1:]...)
			break
		}
	}
}

// NearestNode returns the nearest node of the given component whose graph
// state equals state, together with its distance. Returns nil when the
// component holds no such node. Ties break toward the first-inserted node.
func (r *Roadmap) NearestNode(
	q jointspace.Configuration,
	cc *ConnectedComponent,
	state *constraintgraph.State,
) (*Node, float64) {
	candidates := make([]*Node, 0)
	for _, n := range r.byState[state] {
		if n.cc == cc {
			candidates = append(candidates, n)
		}
	}
	return r.nn.nearest(q, candidates)
}

// KNearestSearch returns up to k nodes of the component nearest to q,
// roadmap-wide (not partitioned by state), with the distance to the farthest
// returned node.
func (r *Roadmap) KNearestSearch(
	q jointspace.Configuration,
	cc *ConnectedComponent,
	k int,
) ([]*Node, float64) {
	nbs := r.nn.kNearest(q, cc.nodes, k)
	out := make([]*Node, 0, len(nbs))
	dist := 0.0
	for _, nb := range nbs {
		out = append(out, nb.node)
		dist = nb.dist
	}
	return out, dist
}
