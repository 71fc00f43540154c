package compiler

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/strata/internal/ir"
	"github.com/roach88/strata/internal/planner"
	"github.com/roach88/strata/internal/queryexec"
	"github.com/roach88/strata/internal/queryir"
)

// ErrFixpointRunaway signals that a fixpoint stratum failed to converge
// within the configured iteration budget. Tables grow monotonically over
// a finite universe, so hitting the guard indicates an internal evaluation
// defect, never a problem with the caller's input.
var ErrFixpointRunaway = errors.New("fixpoint iteration guard tripped")

// Executable is a compiled program: one step per stratum, in dependency
// order. It is immutable and safe to share across concurrent evaluation
// calls with disjoint environments.
type Executable struct {
	steps         []step
	maxIterations int
}

// step evaluates the clauses of one stratum: a single pass for
// non-recursive strata, joint fixpoint iteration for recursive ones.
type step struct {
	fixpoint bool
	rules    []rule
}

// rule is one clause's compiled plan together with its target relation.
type rule struct {
	relation int
	plan     queryir.Node
}

// StepInfo describes one compiled step, for introspection and tests.
type StepInfo struct {
	Fixpoint  bool
	Relations []int // target relation per rule, in clause order
}

// BuildPlan compiles one normalized clause body into its plan tree:
// greedy join ordering over the join graph, residual filters, numeric
// constraint filters, and the head projection.
func BuildPlan(nc *NormalizedClause, cost planner.CostFunc) queryir.Node {
	node := planner.NewJoinGraph(nc.Positive, nc.Negative).Order(cost)
	node = planner.InsertFilters(node, nc.VarsEq, nc.VarsNeq, nc.ObjEq, nc.ObjNeq, nc.Constraints)
	return planner.InsertProjection(node, nc.Head.Args)
}

// CompileStrata produces the executable program: clause plans grouped by
// stratum in dependency order. Strata without rules (base relations, the
// universe relation) compile to nothing. maxIterations bounds fixpoint
// rounds per stratum as a runaway guard.
func CompileStrata(
	clauses []*NormalizedClause,
	strat *Stratification,
	cost planner.CostFunc,
	maxIterations int,
) *Executable {
	exe := &Executable{maxIterations: maxIterations}

	plans := make([]queryir.Node, len(clauses))
	for i, nc := range clauses {
		plans[i] = BuildPlan(nc, cost)
	}

	for ci, component := range strat.Components {
		var st step
		st.fixpoint = strat.Recursive(ci)
		for i, nc := range clauses {
			if strat.ComponentOf[nc.Head.Relation] == ci {
				st.rules = append(st.rules, rule{relation: nc.Head.Relation, plan: plans[i]})
			}
		}
		if len(st.rules) == 0 {
			continue
		}
		slog.Debug("stratum compiled",
			"component", ci,
			"relations", component,
			"rules", len(st.rules),
			"fixpoint", st.fixpoint,
		)
		exe.steps = append(exe.steps, st)
	}
	return exe
}

// Steps returns a description of the compiled steps in execution order.
func (e *Executable) Steps() []StepInfo {
	infos := make([]StepInfo, len(e.steps))
	for i, st := range e.steps {
		info := StepInfo{Fixpoint: st.fixpoint}
		for _, r := range st.rules {
			info.Relations = append(info.Relations, r.relation)
		}
		infos[i] = info
	}
	return infos
}

// Run evaluates the compiled program against the environment, mutating
// env.Relations in place until every stratum is saturated.
//
// The only error path is the fixpoint runaway guard; a validated program
// over well-formed tables cannot otherwise fail here.
func (e *Executable) Run(env *queryexec.Env) error {
	for si, st := range e.steps {
		if !st.fixpoint {
			for _, r := range st.rules {
				union(env, r)
			}
			continue
		}

		rounds := 0
		for {
			changed := false
			for _, r := range st.rules {
				if union(env, r) {
					changed = true
				}
			}
			if !changed {
				break
			}
			rounds++
			if rounds > e.maxIterations {
				return fmt.Errorf("stratum %d after %d rounds: %w", si, rounds, ErrFixpointRunaway)
			}
		}
		slog.Debug("fixpoint stratum saturated", "step", si, "rounds", rounds)
	}
	return nil
}

// union evaluates one rule and merges the result into its target table,
// reporting whether any tuple was new.
func union(env *queryexec.Env, r rule) bool {
	result := queryexec.Run(r.plan, env)
	changed := false
	result.Each(func(tp ir.Tuple) {
		if env.Relations[r.relation].Insert(tp) {
			changed = true
		}
	})
	return changed
}
