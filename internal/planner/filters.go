package planner

import (
	"github.com/roach88/strata/internal/ir"
	"github.com/roach88/strata/internal/queryir"
)

// InsertFilters wraps a join result with the residual predicates extracted
// during normalization, in a fixed order: variable equalities, variable
// inequalities, constant equalities, constant inequalities, then numeric
// constraint filters. These predicates could not be expressed as join
// conditions because equality atoms were removed from the atom lists.
func InsertFilters(
	node queryir.Node,
	varsEq, varsNeq, objEq, objNeq [][2]int,
	constraints []ir.NumericConstraint,
) queryir.Node {
	for _, p := range varsEq {
		node = &queryir.VarEqFilter{Input: node, X: p[0], Y: p[1]}
	}
	for _, p := range varsNeq {
		node = &queryir.VarNeqFilter{Input: node, X: p[0], Y: p[1]}
	}
	for _, p := range objEq {
		node = &queryir.ConstEqFilter{Input: node, Var: p[0], Object: p[1]}
	}
	for _, p := range objNeq {
		node = &queryir.ConstNeqFilter{Input: node, Var: p[0], Object: p[1]}
	}
	for _, c := range constraints {
		node = &queryir.ConstraintFilter{Input: node, Constraint: c}
	}
	return node
}

// InsertProjection wraps the plan with the final head projection. Columns
// follow head-argument order; the underlying table is a set, so the
// projection also deduplicates.
func InsertProjection(node queryir.Node, headArgs []ir.Term) queryir.Node {
	return &queryir.Project{Input: node, Args: headArgs}
}
