package compiler

import (
	"slices"
)

// Stratification is the result of dependency analysis over a program's
// relations: the strongly connected components of the dependency graph,
// emitted in dependency order (a component depended upon precedes every
// component that depends on it), plus the component index of each
// relation.
type Stratification struct {
	// Components lists the strata. Each component is the set of mutually
	// dependent relation identifiers, sorted ascending.
	Components [][]int

	// ComponentOf maps a relation identifier to its component index.
	ComponentOf []int

	// graph is the dependency adjacency: relation → sorted relations
	// referenced (positively or negatively) by any clause defining it.
	graph [][]int
}

// Stratify builds the relation dependency graph for the normalized
// clauses, computes its strongly connected components, and validates the
// negation-stratification condition. numRelations must cover every
// relation identifier the clauses mention (universe relation included).
//
// Fails with ErrCodeUnstratifiedNegation when any clause negates a
// relation whose stratum is not strictly earlier than the head's.
func Stratify(numRelations int, clauses []*NormalizedClause) (*Stratification, error) {
	graph := dependencyGraph(numRelations, clauses)
	components := tarjanSCC(graph)

	componentOf := make([]int, numRelations)
	for i, component := range components {
		for _, r := range component {
			componentOf[r] = i
		}
	}

	s := &Stratification{
		Components:  components,
		ComponentOf: componentOf,
		graph:       graph,
	}
	if err := checkStratified(clauses, componentOf); err != nil {
		return nil, err
	}
	return s, nil
}

// Recursive reports whether a component needs fixpoint iteration: more
// than one relation, or a single relation that depends on itself.
func (s *Stratification) Recursive(component int) bool {
	c := s.Components[component]
	if len(c) > 1 {
		return true
	}
	return slices.Contains(s.graph[c[0]], c[0])
}

// dependencyGraph builds adjacency from each head relation to every
// relation referenced in a body defining it.
func dependencyGraph(numRelations int, clauses []*NormalizedClause) [][]int {
	adj := make([]map[int]struct{}, numRelations)
	for i := range adj {
		adj[i] = make(map[int]struct{})
	}
	for _, clause := range clauses {
		head := clause.Head.Relation
		for _, atom := range clause.Positive {
			adj[head][atom.Relation] = struct{}{}
		}
		for _, atom := range clause.Negative {
			adj[head][atom.Relation] = struct{}{}
		}
	}

	graph := make([][]int, numRelations)
	for i, set := range adj {
		graph[i] = make([]int, 0, len(set))
		for r := range set {
			graph[i] = append(graph[i], r)
		}
		slices.Sort(graph[i])
	}
	return graph
}

// checkStratified is a pure check over the computed components: every
// negated atom's relation must sit in a strictly earlier component than
// the clause head. Components come out of Tarjan's algorithm dependencies
// first, so the index comparison is sufficient.
func checkStratified(clauses []*NormalizedClause, componentOf []int) error {
	for i, clause := range clauses {
		head := componentOf[clause.Head.Relation]
		for _, atom := range clause.Negative {
			if componentOf[atom.Relation] >= head {
				return NewUnstratifiedNegationError(i, atom.Relation)
			}
		}
	}
	return nil
}

// tarjanSCC finds strongly connected components using Tarjan's algorithm.
//
// Components are emitted in reverse topological order of the condensation:
// a component's dependencies always precede it in the result. Relations
// are visited in ascending order, so the output is deterministic.
func tarjanSCC(graph [][]int) [][]int {
	var (
		index   = 0
		stack   []int
		indices = make([]int, len(graph))
		lowlink = make([]int, len(graph))
		onStack = make([]bool, len(graph))
		sccs    [][]int
	)
	for i := range indices {
		indices[i] = -1
	}

	var strongConnect func(int)
	strongConnect = func(v int) {
		// Set the depth index for v
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		// Consider successors of v
		for _, w := range graph[v] {
			if indices[w] < 0 {
				// Successor w has not yet been visited; recurse on it
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				// Successor w is on stack and hence in the current SCC
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		// If v is a root node, pop the stack and create an SCC
		if lowlink[v] == indices[v] {
			var scc []int
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			slices.Sort(scc)
			sccs = append(sccs, scc)
		}
	}

	// Visit all nodes
	for node := range graph {
		if indices[node] < 0 {
			strongConnect(node)
		}
	}

	return sccs
}
