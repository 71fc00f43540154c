package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/strata/internal/compiler"
	"github.com/roach88/strata/internal/ir"
	"github.com/roach88/strata/internal/testutil"
)

// closureProgram is the canonical transitive-closure program:
// path(X, Y) :- edge(X, Y); path(X, Z) :- path(X, Y), edge(Y, Z).
// edge=0, path=1.
func closureProgram() *ir.Program {
	return &ir.Program{
		NumRelations:     2,
		EqualityRelation: -1,
		Clauses: []ir.Clause{
			{
				Head:     ir.NewAtom(1, ir.Var(0), ir.Var(1)),
				Positive: []ir.Atom{ir.NewAtom(0, ir.Var(0), ir.Var(1))},
			},
			{
				Head: ir.NewAtom(1, ir.Var(0), ir.Var(2)),
				Positive: []ir.Atom{
					ir.NewAtom(1, ir.Var(0), ir.Var(1)),
					ir.NewAtom(0, ir.Var(1), ir.Var(2)),
				},
			},
		},
	}
}

func TestEvaluate_TransitiveClosure(t *testing.T) {
	eng, err := New(closureProgram(), 4)
	require.NoError(t, err)

	facts := testutil.DB(
		testutil.Tbl(testutil.Tup(0, 1), testutil.Tup(1, 2), testutil.Tup(2, 3)),
		nil,
	)
	out, err := eng.Evaluate(facts, nil)
	require.NoError(t, err)
	require.Len(t, out, 2)

	want := testutil.Tbl(
		testutil.Tup(0, 1), testutil.Tup(1, 2), testutil.Tup(2, 3),
		testutil.Tup(0, 2), testutil.Tup(1, 3),
		testutil.Tup(0, 3),
	)
	assert.True(t, out[1].Equal(want), "got %v", out[1].Tuples())

	// Inputs stay untouched.
	assert.Equal(t, 3, facts[0].Len())
}

// TestEvaluate_Deterministic evaluates the same inputs repeatedly on one
// compiled engine and expects identical tables every time.
func TestEvaluate_Deterministic(t *testing.T) {
	eng, err := New(closureProgram(), 4)
	require.NoError(t, err)

	facts := testutil.DB(
		testutil.Tbl(testutil.Tup(0, 1), testutil.Tup(1, 2), testutil.Tup(2, 3)),
		nil,
	)
	first, err := eng.Evaluate(facts, nil)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := eng.Evaluate(facts, nil)
		require.NoError(t, err)
		for rel := range first {
			assert.True(t, first[rel].Equal(again[rel]), "relation %d run %d", rel, i)
		}
	}
}

// TestEvaluate_SinglePassStratum compiles a non-recursive program to a
// single non-fixpoint step and still unions every clause's result.
func TestEvaluate_SinglePassStratum(t *testing.T) {
	// r(X, Y) :- p(X, Y), q(Y). p=0, q=1, r=2.
	program := &ir.Program{
		NumRelations:     3,
		EqualityRelation: -1,
		Clauses: []ir.Clause{{
			Head: ir.NewAtom(2, ir.Var(0), ir.Var(1)),
			Positive: []ir.Atom{
				ir.NewAtom(0, ir.Var(0), ir.Var(1)),
				ir.NewAtom(1, ir.Var(1)),
			},
		}},
	}
	eng, err := New(program, 3)
	require.NoError(t, err)

	for _, st := range eng.Executable().Steps() {
		assert.False(t, st.Fixpoint)
	}

	out, err := eng.Evaluate(testutil.DB(
		testutil.Tbl(testutil.Tup(0, 1), testutil.Tup(1, 2)),
		testutil.Tbl(testutil.Tup(1)),
		nil,
	), nil)
	require.NoError(t, err)
	assert.True(t, out[2].Equal(testutil.Tbl(testutil.Tup(0, 1))))
}

// TestEvaluate_EqualityFilter resolves equality literals as filters over
// the synthetic equality relation identifier.
func TestEvaluate_EqualityFilter(t *testing.T) {
	// r(X) :- p(X), X = 0. p=0, r=1, eq=2.
	program := &ir.Program{
		NumRelations:     3,
		EqualityRelation: 2,
		Clauses: []ir.Clause{{
			Head: ir.NewAtom(1, ir.Var(0)),
			Positive: []ir.Atom{
				ir.NewAtom(0, ir.Var(0)),
				ir.NewAtom(2, ir.Var(0), ir.Obj(0)),
			},
		}},
	}
	eng, err := New(program, 3)
	require.NoError(t, err)

	out, err := eng.Evaluate(testutil.DB(
		testutil.Tbl(testutil.Tup(0), testutil.Tup(1), testutil.Tup(2)),
	), nil)
	require.NoError(t, err)
	assert.True(t, out[1].Equal(testutil.Tbl(testutil.Tup(0))))
	// The equality relation carries no materialized tuples.
	assert.Equal(t, 0, out[2].Len())
}

// TestEvaluate_StratifiedNegation derives through negation against an
// earlier stratum, with universe binding for the negation-only variable.
func TestEvaluate_StratifiedNegation(t *testing.T) {
	// reach(Y) :- edge(X, Y); isolated(X) :- not reach(X).
	// edge=0, reach=1, isolated=2.
	program := &ir.Program{
		NumRelations:     3,
		EqualityRelation: -1,
		Clauses: []ir.Clause{
			{
				Head:     ir.NewAtom(1, ir.Var(1)),
				Positive: []ir.Atom{ir.NewAtom(0, ir.Var(0), ir.Var(1))},
			},
			{
				Head:     ir.NewAtom(2, ir.Var(0)),
				Negative: []ir.Atom{ir.NewAtom(1, ir.Var(0))},
			},
		},
	}
	eng, err := New(program, 3)
	require.NoError(t, err)

	out, err := eng.Evaluate(testutil.DB(
		testutil.Tbl(testutil.Tup(0, 1), testutil.Tup(1, 2)),
	), nil)
	require.NoError(t, err)
	assert.True(t, out[1].Equal(testutil.Tbl(testutil.Tup(1), testutil.Tup(2))))
	assert.True(t, out[2].Equal(testutil.Tbl(testutil.Tup(0))))
}

// TestEvaluate_UniverseHidden never exposes the universe relation's table,
// while a head-only variable still ranges over every object.
func TestEvaluate_UniverseHidden(t *testing.T) {
	// all(X) with an empty body ranges X over the universe. all=0.
	program := &ir.Program{
		NumRelations:     1,
		EqualityRelation: -1,
		Clauses: []ir.Clause{{
			Head: ir.NewAtom(0, ir.Var(0)),
		}},
	}
	eng, err := New(program, 3)
	require.NoError(t, err)

	out, err := eng.Evaluate(nil, nil)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.True(t, out[0].Equal(testutil.Tbl(testutil.Tup(0), testutil.Tup(1), testutil.Tup(2))))
}

// TestEvaluate_StaticFacts seeds program facts into every call.
func TestEvaluate_StaticFacts(t *testing.T) {
	program := closureProgram()
	program.Facts = []ir.Atom{ir.NewAtom(0, ir.Obj(2), ir.Obj(0))}

	eng, err := New(program, 3)
	require.NoError(t, err)

	out, err := eng.Evaluate(testutil.DB(testutil.Tbl(testutil.Tup(0, 1))), nil)
	require.NoError(t, err)
	assert.True(t, out[0].Has(testutil.Tup(2, 0)))
	assert.True(t, out[1].Has(testutil.Tup(2, 1))) // 2 -> 0 -> 1
}

// TestEvaluate_NumericConstraint filters derived rows through the fluents
// database.
func TestEvaluate_NumericConstraint(t *testing.T) {
	// ok(X) :- p(X), level(X) >= 5. p=0, ok=1, fluent level=0.
	program := &ir.Program{
		NumRelations:     2,
		EqualityRelation: -1,
		Clauses: []ir.Clause{{
			Head:        ir.NewAtom(1, ir.Var(0)),
			Positive:    []ir.Atom{ir.NewAtom(0, ir.Var(0))},
			Constraints: []ir.NumericConstraint{testutil.FluentAtLeast(0, []int{0}, 5)},
		}},
	}
	eng, err := New(program, 3)
	require.NoError(t, err)

	levels := ir.NewFluentsTable()
	levels.Set(testutil.Tup(0), 10)
	levels.Set(testutil.Tup(1), 2)

	out, err := eng.Evaluate(
		testutil.DB(testutil.Tbl(testutil.Tup(0), testutil.Tup(1), testutil.Tup(2))),
		ir.FluentsDatabase{levels},
	)
	require.NoError(t, err)
	assert.True(t, out[1].Equal(testutil.Tbl(testutil.Tup(0))))
}

// TestNew_UnstratifiedNegation rejects negation through a cycle at
// construction time.
func TestNew_UnstratifiedNegation(t *testing.T) {
	// p(X) :- not q(X); q(X) :- not p(X).
	program := &ir.Program{
		NumRelations:     2,
		EqualityRelation: -1,
		Clauses: []ir.Clause{
			{
				Head:     ir.NewAtom(0, ir.Var(0)),
				Negative: []ir.Atom{ir.NewAtom(1, ir.Var(0))},
			},
			{
				Head:     ir.NewAtom(1, ir.Var(0)),
				Negative: []ir.Atom{ir.NewAtom(0, ir.Var(0))},
			},
		},
	}
	eng, err := New(program, 2)
	require.Error(t, err)
	assert.Nil(t, eng)
	assert.True(t, compiler.IsUnstratifiedNegation(err))
}

// TestNew_MalformedLiteral rejects a constant-only equality literal at
// construction time.
func TestNew_MalformedLiteral(t *testing.T) {
	program := &ir.Program{
		NumRelations:     2,
		EqualityRelation: 1,
		Clauses: []ir.Clause{{
			Head: ir.NewAtom(0, ir.Var(0)),
			Positive: []ir.Atom{
				ir.NewAtom(0, ir.Var(0)),
				ir.NewAtom(1, ir.Obj(1), ir.Obj(2)),
			},
		}},
	}
	eng, err := New(program, 2)
	require.Error(t, err)
	assert.Nil(t, eng)
	assert.True(t, compiler.IsMalformedLiteral(err))
}

// TestEvaluate_FixpointGuard surfaces the runaway guard as an Evaluate
// error when the iteration budget is too small to converge.
func TestEvaluate_FixpointGuard(t *testing.T) {
	eng, err := New(closureProgram(), 3, WithMaxIterations(0))
	require.NoError(t, err)

	_, err = eng.Evaluate(testutil.DB(testutil.Tbl(testutil.Tup(0, 1))), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, compiler.ErrFixpointRunaway)
}

// TestEvaluate_SparseFacts tolerates short fact slices and nil tables.
func TestEvaluate_SparseFacts(t *testing.T) {
	eng, err := New(closureProgram(), 2)
	require.NoError(t, err)

	// No facts at all: everything is empty but the call succeeds.
	out, err := eng.Evaluate(nil, nil)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, 0, out[0].Len())
	assert.Equal(t, 0, out[1].Len())

	// A nil slot followed by a populated one.
	out, err = eng.Evaluate(testutil.DB(nil, testutil.Tbl(testutil.Tup(0, 1))), nil)
	require.NoError(t, err)
	assert.True(t, out[1].Has(testutil.Tup(0, 1)))
}

// TestEvaluate_CustomCost produces the same fixpoint under a different
// join order: planning affects shape, never semantics.
func TestEvaluate_CustomCost(t *testing.T) {
	inverted := func(left, right, shared []int) int { return len(shared) }

	base, err := New(closureProgram(), 4)
	require.NoError(t, err)
	alt, err := New(closureProgram(), 4, WithCostFunction(inverted))
	require.NoError(t, err)

	facts := testutil.DB(
		testutil.Tbl(testutil.Tup(0, 1), testutil.Tup(1, 2), testutil.Tup(2, 3)),
	)
	want, err := base.Evaluate(facts, nil)
	require.NoError(t, err)
	got, err := alt.Evaluate(facts, nil)
	require.NoError(t, err)
	for rel := range want {
		assert.True(t, want[rel].Equal(got[rel]), "relation %d", rel)
	}
}
