package queryir

import (
	"fmt"
	"slices"
)

// ValidationResult reports structural problems in a plan tree.
//
// A well-formed tree produced by the planner never has problems; Validate
// exists so tests and embedders building trees by hand can catch mistakes
// before handing the tree to a backend.
type ValidationResult struct {
	// OK is true when no problems were found.
	OK bool

	// Problems lists human-readable structural violations.
	Problems []string
}

// Validate checks the structural invariants the queryexec backend relies
// on: no nil children, filters and anti-joins only over variables their
// input binds, and Project occurring at the root only.
//
// Validate is a pure function with no side effects.
func Validate(root Node) ValidationResult {
	v := &validator{}
	if p, ok := root.(*Project); ok {
		v.check(p.Input)
		v.requireBound(p.Input, Vars(root), "project")
	} else {
		v.check(root)
	}
	return ValidationResult{OK: len(v.problems) == 0, Problems: v.problems}
}

type validator struct {
	problems []string
}

func (v *validator) addProblem(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

// requireBound checks that every variable in want is bound by node.
func (v *validator) requireBound(node Node, want []int, where string) {
	have := Vars(node)
	for _, varID := range want {
		if !slices.Contains(have, varID) {
			v.addProblem("%s references variable ?%d not bound by its input", where, varID)
		}
	}
}

func (v *validator) check(n Node) {
	switch node := n.(type) {
	case nil:
		v.addProblem("nil plan node")

	case *Scan:
		if len(node.Args) == 0 {
			// Zero-arity relations are legal (propositional atoms).
			return
		}

	case *Join:
		v.check(node.Left)
		v.check(node.Right)

	case *Antijoin:
		v.check(node.Input)
		v.requireBound(node.Input, Vars(&node.Atom), "antijoin")

	case *VarEqFilter:
		v.check(node.Input)
		v.requireBound(node.Input, []int{node.X, node.Y}, "equality filter")

	case *VarNeqFilter:
		v.check(node.Input)
		v.requireBound(node.Input, []int{node.X, node.Y}, "inequality filter")

	case *ConstEqFilter:
		v.check(node.Input)
		v.requireBound(node.Input, []int{node.Var}, "constant equality filter")

	case *ConstNeqFilter:
		v.check(node.Input)
		v.requireBound(node.Input, []int{node.Var}, "constant inequality filter")

	case *ConstraintFilter:
		v.check(node.Input)
		if node.Constraint == nil {
			v.addProblem("constraint filter with nil constraint")
			return
		}
		v.requireBound(node.Input, node.Constraint.Variables(), "constraint filter")

	case *Project:
		v.addProblem("project below the root")
		v.check(node.Input)

	default:
		v.addProblem("unknown plan node type %T", n)
	}
}
