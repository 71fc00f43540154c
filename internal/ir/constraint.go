package ir

// Binding resolves a clause-local variable index to the object bound to it
// in the row under evaluation.
type Binding func(varID int) int

// NumericConstraint is the external predicate oracle for numeric
// side-conditions over fluent relations. The planner and evaluator treat
// it as opaque: Variables contributes to the clause's variable count and
// range-restriction analysis, Holds is called once per candidate row with
// a complete binding.
//
// Implementations must be pure: same binding and fluents, same answer.
type NumericConstraint interface {
	// Variables returns the distinct variable indices the constraint
	// expression references.
	Variables() []int

	// Holds reports whether the constraint is satisfied under the binding.
	// The fluents database may be nil when the caller supplied none.
	Holds(binding Binding, fluents FluentsDatabase) bool
}

// ConstraintFunc adapts a plain function to NumericConstraint.
type ConstraintFunc struct {
	Vars []int
	Fn   func(binding Binding, fluents FluentsDatabase) bool
}

// Variables implements NumericConstraint.
func (c ConstraintFunc) Variables() []int { return c.Vars }

// Holds implements NumericConstraint.
func (c ConstraintFunc) Holds(binding Binding, fluents FluentsDatabase) bool {
	return c.Fn(binding, fluents)
}
