package compiler

import (
	"fmt"
	"slices"

	"github.com/roach88/strata/internal/ir"
)

// NormalizedClause is the canonical form of one clause: equality literals
// extracted into residual predicate lists, every variable bound by at
// least one positive atom. Built once at compile time, immutable after.
type NormalizedClause struct {
	Head         ir.Atom
	NumVariables int

	// Positive and Negative hold the non-equality body atoms, in clause
	// order. Positive includes any synthetic universe-relation bindings
	// appended for otherwise-unbound variables.
	Positive []ir.Atom
	Negative []ir.Atom

	// Residual predicates extracted from equality literals. Variable
	// pairs are canonicalized with the smaller index first; object pairs
	// are (variable, object).
	VarsEq  [][2]int
	VarsNeq [][2]int
	ObjEq   [][2]int
	ObjNeq  [][2]int

	Constraints []ir.NumericConstraint
}

// RangeRestricted reports whether every variable index in
// [0, NumVariables) occurs in at least one positive atom. Normalize
// guarantees this; the method exists for invariant tests.
func (nc *NormalizedClause) RangeRestricted() bool {
	for varID := 0; varID < nc.NumVariables; varID++ {
		bound := false
		for _, atom := range nc.Positive {
			if atom.HasVariable(varID) {
				bound = true
				break
			}
		}
		if !bound {
			return false
		}
	}
	return true
}

// Normalize converts a clause into canonical form.
//
// Atoms over eqRelation are removed from the body and classified into the
// four residual predicate lists; a constant/constant or wrong-arity
// equality literal is a malformed program (ErrCodeMalformedLiteral).
// NumVariables is one past the largest variable index referenced anywhere
// in the clause, including residual predicates and numeric constraint
// expressions. Every variable not bound by a remaining positive atom gets
// a synthetic positive binding against universeRelation.
//
// Pass eqRelation = -1 for programs without equality literals.
func Normalize(clause ir.Clause, eqRelation, universeRelation int) (*NormalizedClause, error) {
	nc := &NormalizedClause{
		Head:        clause.Head,
		Constraints: slices.Clone(clause.Constraints),
	}

	var err error
	nc.Positive, nc.VarsEq, nc.ObjEq, err = extractEqualities(clause.Positive, eqRelation)
	if err != nil {
		return nil, err
	}
	nc.Negative, nc.VarsNeq, nc.ObjNeq, err = extractEqualities(clause.Negative, eqRelation)
	if err != nil {
		return nil, err
	}

	nc.NumVariables = countVariables(nc)

	// A ground clause with an empty body derives its head whenever the
	// universe is non-empty. Give the planner something to scan.
	if nc.NumVariables == 0 && len(nc.Positive) == 0 {
		nc.NumVariables = 1
	}

	// Range restriction: bind every free variable against the universe
	// relation so negation and residual filters always see bound values.
	for varID := 0; varID < nc.NumVariables; varID++ {
		bound := false
		for _, atom := range nc.Positive {
			if atom.HasVariable(varID) {
				bound = true
				break
			}
		}
		if !bound {
			nc.Positive = append(nc.Positive, ir.NewAtom(universeRelation, ir.Var(varID)))
		}
	}

	return nc, nil
}

// extractEqualities splits a body atom list into kept atoms and residual
// equality predicates.
func extractEqualities(source []ir.Atom, eqRelation int) (kept []ir.Atom, vars, objs [][2]int, err error) {
	for _, atom := range source {
		if eqRelation < 0 || atom.Relation != eqRelation {
			kept = append(kept, atom)
			continue
		}
		if len(atom.Args) != 2 {
			return nil, nil, nil, NewMalformedLiteralError(
				fmt.Sprintf("equality literal %s must have arity 2, got %d", atom, len(atom.Args)))
		}
		x, y := atom.Args[0], atom.Args[1]
		switch {
		case x.Variable && y.Variable:
			vars = append(vars, [2]int{min(x.ID, y.ID), max(x.ID, y.ID)})
		case x.Variable:
			objs = append(objs, [2]int{x.ID, y.ID})
		case y.Variable:
			objs = append(objs, [2]int{y.ID, x.ID})
		default:
			return nil, nil, nil, NewMalformedLiteralError(
				fmt.Sprintf("equality literal %s relates two constants", atom))
		}
	}
	return kept, vars, objs, nil
}

// countVariables returns one past the largest variable index referenced in
// the head, the kept atoms, the residual predicates, or any numeric
// constraint expression. Zero when the clause is ground.
func countVariables(nc *NormalizedClause) int {
	maxVar := nc.Head.MaxVariable()
	for _, atom := range nc.Positive {
		maxVar = max(maxVar, atom.MaxVariable())
	}
	for _, atom := range nc.Negative {
		maxVar = max(maxVar, atom.MaxVariable())
	}
	for _, p := range nc.VarsEq {
		maxVar = max(maxVar, p[1])
	}
	for _, p := range nc.VarsNeq {
		maxVar = max(maxVar, p[1])
	}
	for _, p := range nc.ObjEq {
		maxVar = max(maxVar, p[0])
	}
	for _, p := range nc.ObjNeq {
		maxVar = max(maxVar, p[0])
	}
	for _, c := range nc.Constraints {
		for _, v := range c.Variables() {
			maxVar = max(maxVar, v)
		}
	}
	return maxVar + 1
}
