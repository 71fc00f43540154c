package planner

import (
	"slices"

	"github.com/roach88/strata/internal/ir"
)

// JoinGraph is the planning view of one clause body: positive atoms are
// joinable relation scans, negative atoms are existence-negation
// constraints folded in as anti-joins. Two atoms are adjacent when they
// share at least one variable.
type JoinGraph struct {
	positive []ir.Atom
	negative []ir.Atom

	// vars[i] caches the distinct variables of positive[i].
	vars [][]int
}

// NewJoinGraph builds the join graph for a clause body. Atom order is
// preserved: it is the deterministic tie-break for the greedy optimizer.
func NewJoinGraph(positive, negative []ir.Atom) *JoinGraph {
	g := &JoinGraph{
		positive: slices.Clone(positive),
		negative: slices.Clone(negative),
		vars:     make([][]int, len(positive)),
	}
	for i, atom := range positive {
		g.vars[i] = atom.Variables()
	}
	return g
}

// NumPositive returns the number of joinable scan nodes.
func (g *JoinGraph) NumPositive() int { return len(g.positive) }

// Adjacent reports whether positive atoms i and j share a variable.
func (g *JoinGraph) Adjacent(i, j int) bool {
	return len(sharedVars(g.vars[i], g.vars[j])) > 0
}

// sharedVars returns the variables common to both ascending lists.
func sharedVars(a, b []int) []int {
	var out []int
	for _, v := range a {
		if slices.Contains(b, v) {
			out = append(out, v)
		}
	}
	return out
}
