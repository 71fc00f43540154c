package engine

import (
	"fmt"
	"log/slog"

	"github.com/roach88/strata/internal/compiler"
	"github.com/roach88/strata/internal/ir"
	"github.com/roach88/strata/internal/planner"
	"github.com/roach88/strata/internal/queryexec"
)

// DefaultMaxIterations is the default fixpoint-round budget per stratum.
// Monotone growth over a finite universe terminates long before this; the
// bound exists to turn a non-monotone evaluation bug into an error instead
// of a hang.
const DefaultMaxIterations = 1_000_000

// Engine is a compiled stratified Datalog program. Construction compiles
// and validates once; Evaluate replays the compiled plan against fresh
// tables. Immutable after New, safe for concurrent Evaluate calls.
type Engine struct {
	numRelations int // program relations + 1 (universe slot)
	universe     int // universe relation identifier
	exe          *compiler.Executable
	static       []ir.Atom // ground atoms seeded into every call

	cost          planner.CostFunc
	maxIterations int
}

// Option configures engine construction.
type Option func(*Engine)

// WithCostFunction overrides the greedy join planner's cost function.
// The default prefers joins maximizing shared-variable overlap.
func WithCostFunction(cost planner.CostFunc) Option {
	return func(e *Engine) {
		e.cost = cost
	}
}

// WithMaxIterations overrides the fixpoint-round guard. Use small values
// only in tests exercising the guard itself.
func WithMaxIterations(n int) Option {
	return func(e *Engine) {
		e.maxIterations = n
	}
}

// New compiles a program over a universe of numObjects objects.
//
// The extra relation slot numbered program.NumRelations is the synthetic
// universe relation: it range-restricts otherwise-unbound variables and
// never appears in Evaluate output.
//
// Fails with a compiler.CompileError when the program is malformed
// (equality literal over two constants or with wrong arity) or not
// stratifiable; no engine is returned in that case.
func New(program *ir.Program, numObjects int, opts ...Option) (*Engine, error) {
	e := &Engine{
		numRelations:  program.NumRelations + 1,
		universe:      program.NumRelations,
		cost:          planner.DefaultCost,
		maxIterations: DefaultMaxIterations,
	}
	for _, opt := range opts {
		opt(e)
	}

	clauses := make([]*compiler.NormalizedClause, len(program.Clauses))
	for i, clause := range program.Clauses {
		nc, err := compiler.Normalize(clause, program.EqualityRelation, e.universe)
		if err != nil {
			return nil, fmt.Errorf("normalize clause %d: %w", i, err)
		}
		clauses[i] = nc
	}

	strat, err := compiler.Stratify(e.numRelations, clauses)
	if err != nil {
		return nil, fmt.Errorf("stratify program: %w", err)
	}

	e.exe = compiler.CompileStrata(clauses, strat, e.cost, e.maxIterations)

	e.static = make([]ir.Atom, 0, len(program.Facts)+numObjects)
	e.static = append(e.static, program.Facts...)
	for obj := 0; obj < numObjects; obj++ {
		e.static = append(e.static, ir.NewAtom(e.universe, ir.Obj(obj)))
	}

	slog.Debug("engine compiled",
		"relations", program.NumRelations,
		"clauses", len(program.Clauses),
		"strata", len(strat.Components),
		"objects", numObjects,
	)
	return e, nil
}

// Executable exposes the compiled program for introspection and tests.
func (e *Engine) Executable() *compiler.Executable {
	return e.exe
}

// Evaluate computes the saturated extension of every relation from the
// given base facts and optional fluents.
//
// facts holds one table per original program relation; missing or nil
// trailing tables are treated as empty. fluents may be nil when no
// numeric constraints consult it. Inputs are copied, never mutated, and
// the output never contains the universe relation's table.
//
// Given the immutable compiled program, Evaluate is a pure function of
// its inputs: identical facts and fluents yield identical tables. The
// only error path is the internal fixpoint runaway guard.
func (e *Engine) Evaluate(facts ir.Database, fluents ir.FluentsDatabase) (ir.Database, error) {
	working := ir.NewDatabase(e.numRelations)
	for i, table := range facts {
		if i >= e.numRelations-1 {
			break
		}
		if table == nil {
			continue
		}
		working[i] = table.Clone()
	}
	for _, atom := range e.static {
		working[atom.Relation].Insert(atom.Ground())
	}

	env := &queryexec.Env{Relations: working, Fluents: fluents}
	if err := e.exe.Run(env); err != nil {
		return nil, fmt.Errorf("evaluate program: %w", err)
	}

	// The universe relation is an implementation detail: strip it.
	return working[:e.numRelations-1], nil
}
