package ir

import (
	"fmt"
	"slices"
	"strings"
)

// Term is one argument position of an atom: either a clause-local variable
// (identified by a small non-negative index) or an object constant.
type Term struct {
	ID       int
	Variable bool
}

// Var returns a variable term with the given clause-local index.
func Var(id int) Term { return Term{ID: id, Variable: true} }

// Obj returns a constant term naming an object of the universe.
func Obj(id int) Term { return Term{ID: id} }

// String renders variables as ?N and constants as bare object ids.
func (t Term) String() string {
	if t.Variable {
		return fmt.Sprintf("?%d", t.ID)
	}
	return fmt.Sprintf("%d", t.ID)
}

// Atom is a relation identifier applied to an ordered argument list.
type Atom struct {
	Relation int
	Args     []Term
}

// NewAtom builds an atom over the given relation and arguments.
func NewAtom(relation int, args ...Term) Atom {
	return Atom{Relation: relation, Args: args}
}

// Variables returns the distinct variable indices of the atom, ascending.
func (a Atom) Variables() []int {
	var vars []int
	for _, arg := range a.Args {
		if arg.Variable && !slices.Contains(vars, arg.ID) {
			vars = append(vars, arg.ID)
		}
	}
	slices.Sort(vars)
	return vars
}

// HasVariable reports whether the variable index occurs in the atom.
func (a Atom) HasVariable(id int) bool {
	for _, arg := range a.Args {
		if arg.Variable && arg.ID == id {
			return true
		}
	}
	return false
}

// MaxVariable returns the largest variable index in the atom, or -1 if the
// atom is ground.
func (a Atom) MaxVariable() int {
	maxVar := -1
	for _, arg := range a.Args {
		if arg.Variable && arg.ID > maxVar {
			maxVar = arg.ID
		}
	}
	return maxVar
}

// Ground converts a constant-only atom into its tuple. It is the caller's
// responsibility to only pass ground atoms (static facts).
func (a Atom) Ground() Tuple {
	t := make(Tuple, len(a.Args))
	for i, arg := range a.Args {
		t[i] = arg.ID
	}
	return t
}

// String renders the atom as rN(arg, ...).
func (a Atom) String() string {
	parts := make([]string, len(a.Args))
	for i, arg := range a.Args {
		parts[i] = arg.String()
	}
	return fmt.Sprintf("r%d(%s)", a.Relation, strings.Join(parts, ", "))
}

// Clause is one rule of the program: Head holds whenever every positive
// atom holds, no negative atom holds, and every numeric constraint holds.
// Equality literals (atoms over the program's equality relation) may appear
// in either body list; the compiler extracts them during normalization.
type Clause struct {
	Head        Atom
	Positive    []Atom
	Negative    []Atom
	Constraints []NumericConstraint
}

// Program is the input boundary of the engine: rules, unconditional ground
// facts, the relation count, and which relation identifier (if any) carries
// built-in equality semantics.
//
// Relations are indexed 0..NumRelations-1. EqualityRelation is -1 when the
// program uses no equality literals.
type Program struct {
	Clauses          []Clause
	Facts            []Atom
	NumRelations     int
	EqualityRelation int
}
