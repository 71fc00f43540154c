// Package ir defines the core representation of a Datalog program and of
// the relation tables the engine evaluates over.
//
// A program is a list of clauses over integer-identified relations and an
// integer-identified object universe. Terms, atoms, and clauses are plain
// immutable values: the compiler owns them after construction and never
// mutates them.
//
// Tables are sets of fixed-arity object tuples. Duplicates collapse on
// insert, and Insert reports whether the tuple was new - that novelty
// signal is what drives fixpoint termination in the stratum evaluator.
//
// DETERMINISM:
// Tuple sets are backed by maps, but every observable ordering goes
// through Table.Tuples(), which sorts. Nothing in this package (or its
// consumers) may iterate a table map directly into output.
//
// Fluent tables map object tuples to numeric values. They are consulted
// only by NumericConstraint oracles during filter evaluation and are never
// mutated by the engine.
package ir
