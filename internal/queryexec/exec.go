package queryexec

import (
	"slices"

	"github.com/roach88/strata/internal/ir"
	"github.com/roach88/strata/internal/queryir"
)

// Env is the evaluation environment one call owns: the working relation
// tables (indexed by relation identifier, universe relation included) and
// the optional fluents consulted by constraint filters.
//
// An Env is never shared across concurrent evaluation calls.
type Env struct {
	Relations ir.Database
	Fluents   ir.FluentsDatabase
}

// Run evaluates a plan tree against the environment and returns the
// resulting tuple set. For a Project root the tuples are in head-argument
// order; for any other root they are in ascending-variable column order.
func Run(root queryir.Node, env *Env) *ir.Table {
	res := eval(root, env)
	out := ir.NewTable()
	for _, tp := range res.tuples {
		out.Insert(tp)
	}
	return out
}

// rows is an intermediate result: a set of tuples where column i holds the
// object bound to vars[i]. vars is ascending. For Project output vars is
// nil and columns follow the projection arguments.
type rows struct {
	vars   []int
	tuples map[string]ir.Tuple
}

func newRows(vars []int) rows {
	return rows{vars: vars, tuples: make(map[string]ir.Tuple)}
}

func (r *rows) add(tp ir.Tuple) {
	r.tuples[tp.Key()] = tp
}

// col returns the column index binding varID, or -1.
func (r *rows) col(varID int) int {
	return slices.Index(r.vars, varID)
}

func eval(n queryir.Node, env *Env) rows {
	switch node := n.(type) {
	case *queryir.Scan:
		return evalScan(node, env)
	case *queryir.Join:
		return evalJoin(eval(node.Left, env), eval(node.Right, env))
	case *queryir.Antijoin:
		return evalAntijoin(eval(node.Input, env), evalScan(&node.Atom, env))
	case *queryir.VarEqFilter:
		in := eval(node.Input, env)
		x, y := in.col(node.X), in.col(node.Y)
		return filter(in, func(tp ir.Tuple) bool { return tp[x] == tp[y] })
	case *queryir.VarNeqFilter:
		in := eval(node.Input, env)
		x, y := in.col(node.X), in.col(node.Y)
		return filter(in, func(tp ir.Tuple) bool { return tp[x] != tp[y] })
	case *queryir.ConstEqFilter:
		in := eval(node.Input, env)
		x := in.col(node.Var)
		return filter(in, func(tp ir.Tuple) bool { return tp[x] == node.Object })
	case *queryir.ConstNeqFilter:
		in := eval(node.Input, env)
		x := in.col(node.Var)
		return filter(in, func(tp ir.Tuple) bool { return tp[x] != node.Object })
	case *queryir.ConstraintFilter:
		return evalConstraint(node, eval(node.Input, env), env)
	case *queryir.Project:
		return evalProject(node, eval(node.Input, env))
	default:
		// Sealed interface: unreachable for planner-built trees.
		return newRows(nil)
	}
}

// evalScan matches the atom against its relation's table. Constants and
// repeated variables act as selection predicates; output columns are the
// atom's distinct variables, ascending.
func evalScan(s *queryir.Scan, env *Env) rows {
	vars := queryir.Vars(s)
	out := newRows(vars)

	// Precompute per-argument actions against the output row.
	colOf := make([]int, len(s.Args))
	for i, arg := range s.Args {
		if arg.Variable {
			colOf[i] = slices.Index(vars, arg.ID)
		} else {
			colOf[i] = -1
		}
	}

	env.Relations[s.Relation].Each(func(tp ir.Tuple) {
		if len(tp) != len(s.Args) {
			return
		}
		row := make(ir.Tuple, len(vars))
		seen := make([]bool, len(vars))
		for i, arg := range s.Args {
			if !arg.Variable {
				if tp[i] != arg.ID {
					return
				}
				continue
			}
			c := colOf[i]
			if seen[c] {
				if row[c] != tp[i] {
					return
				}
				continue
			}
			row[c] = tp[i]
			seen[c] = true
		}
		out.add(row)
	})
	return out
}

// evalJoin hash-joins two row sets on their shared variables. With no
// shared variables every pair combines (cross product).
func evalJoin(left, right rows) rows {
	shared := intersect(left.vars, right.vars)
	outVars := unionVars(left.vars, right.vars)
	out := newRows(outVars)

	// Column maps from each side into the output row.
	leftPos := positions(left.vars, outVars)
	rightPos := positions(right.vars, outVars)

	index := make(map[string][]ir.Tuple, len(right.tuples))
	for _, tp := range right.tuples {
		key := projectKey(tp, right.vars, shared)
		index[key] = append(index[key], tp)
	}

	for _, ltp := range left.tuples {
		for _, rtp := range index[projectKey(ltp, left.vars, shared)] {
			row := make(ir.Tuple, len(outVars))
			for i, pos := range leftPos {
				row[pos] = ltp[i]
			}
			for i, pos := range rightPos {
				row[pos] = rtp[i]
			}
			out.add(row)
		}
	}
	return out
}

// evalAntijoin keeps input rows with no matching tuple in the negated
// atom's scan result. The atom's variables are a subset of the input's
// variables (range restriction), so the shared projection is exactly the
// atom's variable set.
func evalAntijoin(in, neg rows) rows {
	shared := intersect(in.vars, neg.vars)
	out := newRows(in.vars)

	matches := make(map[string]bool, len(neg.tuples))
	for _, tp := range neg.tuples {
		matches[projectKey(tp, neg.vars, shared)] = true
	}

	for _, tp := range in.tuples {
		if !matches[projectKey(tp, in.vars, shared)] {
			out.add(tp)
		}
	}
	return out
}

func evalConstraint(node *queryir.ConstraintFilter, in rows, env *Env) rows {
	return filter(in, func(tp ir.Tuple) bool {
		binding := func(varID int) int {
			c := in.col(varID)
			if c < 0 {
				return -1
			}
			return tp[c]
		}
		return node.Constraint.Holds(binding, env.Fluents)
	})
}

// evalProject maps variable-keyed rows to head tuples. Output arity equals
// the head arity; constants and repeated variables are filled positionally.
func evalProject(node *queryir.Project, in rows) rows {
	out := newRows(nil)
	cols := make([]int, len(node.Args))
	for i, arg := range node.Args {
		if arg.Variable {
			cols[i] = in.col(arg.ID)
		} else {
			cols[i] = -1
		}
	}
	for _, tp := range in.tuples {
		row := make(ir.Tuple, len(node.Args))
		for i, arg := range node.Args {
			if arg.Variable {
				row[i] = tp[cols[i]]
			} else {
				row[i] = arg.ID
			}
		}
		out.add(row)
	}
	return out
}

func filter(in rows, keep func(ir.Tuple) bool) rows {
	out := newRows(in.vars)
	for _, tp := range in.tuples {
		if keep(tp) {
			out.add(tp)
		}
	}
	return out
}

// positions maps each variable's column to its column in outVars.
func positions(vars, outVars []int) []int {
	out := make([]int, len(vars))
	for i, v := range vars {
		out[i] = slices.Index(outVars, v)
	}
	return out
}

// projectKey encodes the projection of a row onto the given variables.
func projectKey(tp ir.Tuple, vars, onto []int) string {
	if len(onto) == 0 {
		return ""
	}
	proj := make(ir.Tuple, len(onto))
	for i, v := range onto {
		proj[i] = tp[slices.Index(vars, v)]
	}
	return proj.Key()
}

func intersect(a, b []int) []int {
	var out []int
	for _, v := range a {
		if slices.Contains(b, v) {
			out = append(out, v)
		}
	}
	return out
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
