package flow

import "fmt"

// Graph is the immutable-per-run representation of a workflow: a set of
// nodes, a set of edges, and the dependency/dependent adjacency derived
// from them in a single O(E) pass at construction time.
//
// A Graph does not have to be acyclic. Cycles are not rejected here because
// the canvas may legitimately hold a work-in-progress graph; instead the
// scheduler detects the condition at run time and fails the run with an
// UnresolvableGraphError naming the stuck nodes.
type Graph struct {
	workflowID string
	nodes      map[string]Node
	order      []string // node IDs in registration order, for deterministic scheduling
	edges      []Edge
	deps       map[string][]string // node ID -> IDs that must complete first
	dependents map[string][]string // inverse of deps
}

// NewGraph builds a Graph from nodes and edges.
//
// Returns an error if a node ID is empty or duplicated, or if an edge
// references a node that is not part of the graph.
func NewGraph(workflowID string, nodes []Node, edges []Edge) (*Graph, error) {
	g := &Graph{
		workflowID: workflowID,
		nodes:      make(map[string]Node, len(nodes)),
		order:      make([]string, 0, len(nodes)),
		edges:      edges,
		deps:       make(map[string][]string),
		dependents: make(map[string][]string),
	}

	for _, n := range nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("graph %q: node ID cannot be empty", workflowID)
		}
		if _, exists := g.nodes[n.ID]; exists {
			return nil, fmt.Errorf("graph %q: duplicate node ID %q", workflowID, n.ID)
		}
		g.nodes[n.ID] = n
		g.order = append(g.order, n.ID)
	}

	for _, e := range edges {
		if _, ok := g.nodes[e.From]; !ok {
			return nil, fmt.Errorf("graph %q: edge references unknown source node %q", workflowID, e.From)
		}
		if _, ok := g.nodes[e.To]; !ok {
			return nil, fmt.Errorf("graph %q: edge references unknown target node %q", workflowID, e.To)
		}
		if !containsID(g.deps[e.To], e.From) {
			g.deps[e.To] = append(g.deps[e.To], e.From)
		}
		if !containsID(g.dependents[e.From], e.To) {
			g.dependents[e.From] = append(g.dependents[e.From], e.To)
		}
	}

	return g, nil
}

// WorkflowID returns the identifier of the workflow this graph was built from.
func (g *Graph) WorkflowID() string { return g.workflowID }

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int { return len(g.order) }

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// NodeIDs returns all node IDs in registration order.
func (g *Graph) NodeIDs() []string {
	ids := make([]string, len(g.order))
	copy(ids, g.order)
	return ids
}

// Dependencies returns the IDs of the nodes that must complete before the
// given node may run, in edge registration order.
func (g *Graph) Dependencies(id string) []string {
	return g.deps[id]
}

// Dependents returns the IDs of the nodes that depend on the given node.
func (g *Graph) Dependents(id string) []string {
	return g.dependents[id]
}

// ReadyNodes returns the IDs of all nodes that are eligible to start: not
// yet completed, running, or failed, and with every dependency present in
// the completed set. The result preserves node registration order so that
// scheduling is deterministic.
//
// ReadyNodes is a pure function of the three state sets; it never mutates
// the graph or the sets.
func (g *Graph) ReadyNodes(completed, running, failed map[string]struct{}) []string {
	var ready []string
	for _, id := range g.order {
		if _, ok := completed[id]; ok {
			continue
		}
		if _, ok := running[id]; ok {
			continue
		}
		if _, ok := failed[id]; ok {
			continue
		}
		if g.depsSatisfied(id, completed) {
			ready = append(ready, id)
		}
	}
	return ready
}

func (g *Graph) depsSatisfied(id string, completed map[string]struct{}) bool {
	for _, dep := range g.deps[id] {
		if _, ok := completed[dep]; !ok {
			return false
		}
	}
	return true
}

// closure restricts the given node ID set to its dependency closure: a node
// stays in the result only if every one of its (transitive) dependencies is
// also in the set. Used when seeding completed nodes from a checkpoint so a
// resume can never skip a node whose ancestors have not actually run.
func (g *Graph) closure(ids map[string]struct{}) map[string]struct{} {
	valid := make(map[string]struct{}, len(ids))
	for id := range ids {
		if _, ok := g.nodes[id]; ok {
			valid[id] = struct{}{}
		}
	}

	// Iterate to a fixpoint; each pass removes nodes with unsatisfied deps.
	for {
		removed := false
		for id := range valid {
			for _, dep := range g.deps[id] {
				if _, ok := valid[dep]; !ok {
					delete(valid, id)
					removed = true
					break
				}
			}
		}
		if !removed {
			return valid
		}
	}
}

// dependsOnAny reports whether the node transitively depends on any node in
// the given set. Used to tell nodes stranded behind a failed ancestor (an
// expected terminal condition) apart from nodes stuck in a cycle.
func (g *Graph) dependsOnAny(id string, ids map[string]struct{}) bool {
	stack := append([]string(nil), g.deps[id]...)
	seen := make(map[string]struct{})
	for len(stack) > 0 {
		d := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		if _, ok := ids[d]; ok {
			return true
		}
		stack = append(stack, g.deps[d]...)
	}
	return false
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
