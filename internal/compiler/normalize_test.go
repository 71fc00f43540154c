package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/strata/internal/ir"
	"github.com/roach88/strata/internal/testutil"
)

const (
	eqRel       = 10
	universeRel = 11
)

// TestNormalize_PlainClause keeps non-equality atoms in order and counts
// variables from the head and body.
func TestNormalize_PlainClause(t *testing.T) {
	clause := ir.Clause{
		Head: ir.NewAtom(2, ir.Var(0), ir.Var(2)),
		Positive: []ir.Atom{
			ir.NewAtom(0, ir.Var(0), ir.Var(1)),
			ir.NewAtom(1, ir.Var(1), ir.Var(2)),
		},
	}

	nc, err := Normalize(clause, eqRel, universeRel)
	require.NoError(t, err)

	assert.Equal(t, 3, nc.NumVariables)
	assert.Len(t, nc.Positive, 2)
	assert.Empty(t, nc.Negative)
	assert.True(t, nc.RangeRestricted())
}

// TestNormalize_EqualityExtraction classifies equality literals into the
// four residual lists, canonicalizing variable pairs smaller-first.
func TestNormalize_EqualityExtraction(t *testing.T) {
	clause := ir.Clause{
		Head: ir.NewAtom(0, ir.Var(0)),
		Positive: []ir.Atom{
			ir.NewAtom(1, ir.Var(0), ir.Var(1), ir.Var(2)),
			ir.NewAtom(eqRel, ir.Var(2), ir.Var(1)), // var/var, reversed
			ir.NewAtom(eqRel, ir.Obj(5), ir.Var(0)), // const/var, reversed
		},
		Negative: []ir.Atom{
			ir.NewAtom(eqRel, ir.Var(0), ir.Var(1)),
			ir.NewAtom(eqRel, ir.Var(2), ir.Obj(3)),
		},
	}

	nc, err := Normalize(clause, eqRel, universeRel)
	require.NoError(t, err)

	assert.Equal(t, [][2]int{{1, 2}}, nc.VarsEq)
	assert.Equal(t, [][2]int{{0, 1}}, nc.VarsNeq)
	assert.Equal(t, [][2]int{{0, 5}}, nc.ObjEq)
	assert.Equal(t, [][2]int{{2, 3}}, nc.ObjNeq)

	// Equality atoms are gone from the atom lists.
	assert.Len(t, nc.Positive, 1)
	assert.Empty(t, nc.Negative)
}

// TestNormalize_UniverseBinding binds negation-only and head-only
// variables against the universe relation.
func TestNormalize_UniverseBinding(t *testing.T) {
	clause := ir.Clause{
		Head:     ir.NewAtom(0, ir.Var(0)),
		Negative: []ir.Atom{ir.NewAtom(1, ir.Var(0))},
	}

	nc, err := Normalize(clause, eqRel, universeRel)
	require.NoError(t, err)

	require.Len(t, nc.Positive, 1)
	assert.Equal(t, universeRel, nc.Positive[0].Relation)
	assert.Equal(t, []ir.Term{ir.Var(0)}, nc.Positive[0].Args)
	assert.True(t, nc.RangeRestricted())
}

// TestNormalize_ConstraintVariables counts variables referenced only by a
// numeric constraint and binds them against the universe relation.
func TestNormalize_ConstraintVariables(t *testing.T) {
	clause := ir.Clause{
		Head:        ir.NewAtom(0, ir.Var(0)),
		Positive:    []ir.Atom{ir.NewAtom(1, ir.Var(0))},
		Constraints: []ir.NumericConstraint{testutil.ConstantConstraint([]int{2}, true)},
	}

	nc, err := Normalize(clause, eqRel, universeRel)
	require.NoError(t, err)

	assert.Equal(t, 3, nc.NumVariables)
	assert.True(t, nc.RangeRestricted())

	// ?1 and ?2 get universe bindings, in index order.
	require.Len(t, nc.Positive, 3)
	assert.Equal(t, universeRel, nc.Positive[1].Relation)
	assert.Equal(t, universeRel, nc.Positive[2].Relation)
}

// TestNormalize_GroundClause has no variables and nothing to bind.
func TestNormalize_GroundClause(t *testing.T) {
	clause := ir.Clause{
		Head:     ir.NewAtom(0, ir.Obj(1)),
		Positive: []ir.Atom{ir.NewAtom(1, ir.Obj(2))},
	}

	nc, err := Normalize(clause, eqRel, universeRel)
	require.NoError(t, err)

	assert.Equal(t, 0, nc.NumVariables)
	assert.Len(t, nc.Positive, 1)
}

// TestNormalize_ConstantEquality rejects an equality literal over two
// constants as a malformed program.
func TestNormalize_ConstantEquality(t *testing.T) {
	clause := ir.Clause{
		Head: ir.NewAtom(0, ir.Var(0)),
		Positive: []ir.Atom{
			ir.NewAtom(1, ir.Var(0)),
			ir.NewAtom(eqRel, ir.Obj(1), ir.Obj(2)),
		},
	}

	_, err := Normalize(clause, eqRel, universeRel)
	require.Error(t, err)
	assert.True(t, IsMalformedLiteral(err))
	assert.False(t, IsUnstratifiedNegation(err))
}

// TestNormalize_EqualityArity rejects equality literals that are not
// binary.
func TestNormalize_EqualityArity(t *testing.T) {
	clause := ir.Clause{
		Head: ir.NewAtom(0, ir.Var(0)),
		Positive: []ir.Atom{
			ir.NewAtom(1, ir.Var(0)),
			ir.NewAtom(eqRel, ir.Var(0)),
		},
	}

	_, err := Normalize(clause, eqRel, universeRel)
	require.Error(t, err)
	assert.True(t, IsMalformedLiteral(err))
}

// TestNormalize_NoEqualityRelation passes -1 through untouched: nothing
// is extracted.
func TestNormalize_NoEqualityRelation(t *testing.T) {
	clause := ir.Clause{
		Head:     ir.NewAtom(0, ir.Var(0)),
		Positive: []ir.Atom{ir.NewAtom(1, ir.Var(0), ir.Var(0))},
	}

	nc, err := Normalize(clause, -1, universeRel)
	require.NoError(t, err)
	assert.Len(t, nc.Positive, 1)
	assert.Empty(t, nc.ObjEq)
}
