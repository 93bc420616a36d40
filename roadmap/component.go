package roadmap

// ConnectedComponent is a maximal set of nodes mutually reachable when
// directed edges are treated as undirected. Components merge on edge
// insertion.
type ConnectedComponent struct {
	nodes []*Node
}

// Nodes returns the component's nodes in insertion order.
func (cc *ConnectedComponent) Nodes() []*Node {
	out := make([]*Node, len(cc.nodes))
	copy(out, cc.nodes)
	return out
}

// Size returns the number of nodes in the component.
func (cc *ConnectedComponent) Size() int { return len(cc.nodes) }

// absorb moves every node of other into cc. The caller drops other from the
// roadmap's component list.
func (cc *ConnectedComponent) absorb(other *ConnectedComponent) {
	for _, n := range other.nodes {
		n.cc = cc
		cc.nodes = append(cc.nodes, n)
	}
	other.nodes = nil
}
