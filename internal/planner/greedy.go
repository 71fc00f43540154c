package planner

import (
	"slices"

	"github.com/roach88/strata/internal/queryir"
)

// CostFunc scores a candidate merge of two partial plans; the greedy
// optimizer always merges the lowest-cost pair. shared holds the
// variables common to both sides.
type CostFunc func(leftVars, rightVars, shared []int) int

// DefaultCost prefers the pair with the largest variable overlap,
// greedily minimizing intermediate fan-out without exhaustive search.
func DefaultCost(leftVars, rightVars, shared []int) int {
	return -len(shared)
}

// partial is one in-progress plan over a subset of the positive atoms.
type partial struct {
	node queryir.Node
	vars []int
}

// Order produces the join tree for the graph's body. Positive atoms start
// as scans; pairs merge greedily by cost (ties break on the lowest pair
// index). Negative atoms fold in afterwards as anti-joins against the
// accumulated positive result - never as a first operand.
//
// The normalizer guarantees at least one positive atom, so Order never
// sees an empty graph.
func (g *JoinGraph) Order(cost CostFunc) queryir.Node {
	if cost == nil {
		cost = DefaultCost
	}

	plans := make([]partial, len(g.positive))
	for i, atom := range g.positive {
		plans[i] = partial{
			node: &queryir.Scan{Relation: atom.Relation, Args: atom.Args},
			vars: g.vars[i],
		}
	}

	for len(plans) > 1 {
		bestI, bestJ := 0, 1
		bestCost := cost(plans[0].vars, plans[1].vars, sharedVars(plans[0].vars, plans[1].vars))
		for i := 0; i < len(plans); i++ {
			for j := i + 1; j < len(plans); j++ {
				if i == 0 && j == 1 {
					continue
				}
				c := cost(plans[i].vars, plans[j].vars, sharedVars(plans[i].vars, plans[j].vars))
				if c < bestCost {
					bestI, bestJ, bestCost = i, j, c
				}
			}
		}

		merged := partial{
			node: &queryir.Join{Left: plans[bestI].node, Right: plans[bestJ].node},
			vars: unionVars(plans[bestI].vars, plans[bestJ].vars),
		}
		plans[bestI] = merged
		plans = append(plans[:bestJ], plans[bestJ+1:]...)
	}

	node := plans[0].node
	for _, atom := range g.negative {
		node = &queryir.Antijoin{
			Input: node,
			Atom:  queryir.Scan{Relation: atom.Relation, Args: atom.Args},
		}
	}
	return node
}

func unionVars(a, b []int) []int {
	out := make([]int, 0, len(a)+len(b))
	out = append(out, a...)
	for _, v := range b {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return out
}
