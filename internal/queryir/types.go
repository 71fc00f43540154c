package queryir

import (
	"slices"

	"github.com/roach88/strata/internal/ir"
)

// Node represents one operator of a clause's plan tree.
//
// This is a sealed interface - only types in this package implement it.
// The marker method pattern prevents external implementations and enables
// exhaustive type switches in backends.
type Node interface {
	planNode() // Marker method - seals interface to this package
}

// Scan reads one body atom against its relation's current table.
//
// Constant arguments and repeated variables act as selection predicates:
// a table tuple matches only if constants agree positionally and every
// occurrence of the same variable carries the same object. The scan's
// output rows bind the atom's distinct variables.
type Scan struct {
	Relation int
	Args     []ir.Term
}

func (*Scan) planNode() {}

// Join is the natural join of two subtrees on their shared variables.
// With no shared variables it degrades to a cross product.
type Join struct {
	Left  Node
	Right Node
}

func (*Join) planNode() {}

// Antijoin keeps the input rows for which the negated atom has no
// matching tuple. The atom's variables must all be bound by Input - the
// normalizer's range-restriction guarantee, not a runtime check.
type Antijoin struct {
	Input Node
	Atom  Scan
}

func (*Antijoin) planNode() {}

// VarEqFilter keeps rows where variables X and Y are bound to the same
// object. Canonical form: X < Y.
type VarEqFilter struct {
	Input Node
	X, Y  int
}

func (*VarEqFilter) planNode() {}

// VarNeqFilter keeps rows where variables X and Y are bound to different
// objects. Canonical form: X < Y.
type VarNeqFilter struct {
	Input Node
	X, Y  int
}

func (*VarNeqFilter) planNode() {}

// ConstEqFilter keeps rows where Var is bound to Object.
type ConstEqFilter struct {
	Input  Node
	Var    int
	Object int
}

func (*ConstEqFilter) planNode() {}

// ConstNeqFilter keeps rows where Var is not bound to Object.
type ConstNeqFilter struct {
	Input  Node
	Var    int
	Object int
}

func (*ConstNeqFilter) planNode() {}

// ConstraintFilter keeps rows satisfying an opaque numeric constraint.
// The constraint sees a complete binding: constraint filters sit above the
// full body join, where every clause variable is bound.
type ConstraintFilter struct {
	Input      Node
	Constraint ir.NumericConstraint
}

func (*ConstraintFilter) planNode() {}

// Project maps variable-keyed rows to head tuples, one column per head
// argument in head-argument order. Constants and repeated variables are
// permitted. Output is a set, so projection deduplicates.
type Project struct {
	Input Node
	Args  []ir.Term
}

func (*Project) planNode() {}

// Vars returns the distinct variable indices bound by the rows a subtree
// produces, ascending. Project output is positional; its Vars are defined
// as the variables of its projection arguments.
func Vars(n Node) []int {
	switch node := n.(type) {
	case *Scan:
		return ir.Atom{Relation: node.Relation, Args: node.Args}.Variables()
	case *Join:
		return union(Vars(node.Left), Vars(node.Right))
	case *Antijoin:
		return Vars(node.Input)
	case *VarEqFilter:
		return Vars(node.Input)
	case *VarNeqFilter:
		return Vars(node.Input)
	case *ConstEqFilter:
		return Vars(node.Input)
	case *ConstNeqFilter:
		return Vars(node.Input)
	case *ConstraintFilter:
		return Vars(node.Input)
	case *Project:
		return ir.Atom{Args: node.Args}.Variables()
	default:
		return nil
	}
}

// union merges two ascending variable lists into one.
func union(a, b []int) []int {
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
