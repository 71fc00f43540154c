// Package queryir provides the plan-node intermediate representation for
// one clause's body query.
//
// A plan tree is built once per clause at compile time by the planner and
// reused on every evaluation call. The tree combines relation scans with
// joins, anti-joins (existence negation), residual filters, and a final
// head projection:
//
//	[normalized clause] → [planner] → [plan tree] → [queryexec backend]
//
// SEALED INTERFACE:
//
// Node is a sealed interface using the marker method pattern. Only types
// in this package implement Node, which keeps type switches in backends
// exhaustive:
//
//	switch n := node.(type) {
//	case *Scan:
//	case *Join:
//	case *Antijoin:
//	case *VarEqFilter, *VarNeqFilter, *ConstEqFilter, *ConstNeqFilter:
//	case *ConstraintFilter:
//	case *Project:
//	}
//
// Every node conceptually produces a set of rows over the clause's
// variables; Vars reports which variables a subtree binds. Project is the
// only node whose output is positional (head-argument order) rather than
// variable-keyed, and it is only valid at the root.
//
// Plan trees are immutable after construction and carry no evaluation
// state, so a compiled tree may be shared by concurrent evaluation calls.
package queryir
