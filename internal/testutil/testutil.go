// Package testutil provides deterministic builders shared by tests:
// tuple/table/database literals and canned numeric constraints.
package testutil

import (
	"github.com/roach88/strata/internal/ir"
)

// Tup builds a tuple literal.
func Tup(vals ...int) ir.Tuple {
	return ir.Tuple(vals)
}

// Tbl builds a table holding the given tuples.
func Tbl(tuples ...ir.Tuple) *ir.Table {
	return ir.TableOf(tuples...)
}

// DB builds a database from tables in relation order.
func DB(tables ...*ir.Table) ir.Database {
	return ir.Database(tables)
}

// FluentAtLeast is a numeric constraint holding when the fluent relation's
// value at the tuple formed by the bound variables is at least Threshold.
// Rows whose tuple has no fluent value fail the constraint.
func FluentAtLeast(fluent int, vars []int, threshold float64) ir.ConstraintFunc {
	return ir.ConstraintFunc{
		Vars: vars,
		Fn: func(binding ir.Binding, fluents ir.FluentsDatabase) bool {
			if fluents == nil || fluent >= len(fluents) || fluents[fluent] == nil {
				return false
			}
			key := make(ir.Tuple, len(vars))
			for i, v := range vars {
				key[i] = binding(v)
			}
			val, ok := fluents[fluent].Get(key)
			return ok && val >= threshold
		},
	}
}

// ConstantConstraint ignores its binding and always answers the same.
func ConstantConstraint(vars []int, holds bool) ir.ConstraintFunc {
	return ir.ConstraintFunc{
		Vars: vars,
		Fn: func(ir.Binding, ir.FluentsDatabase) bool {
			return holds
		},
	}
}
