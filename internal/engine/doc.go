// Package engine is the façade over the Datalog compiler/evaluator
// pipeline.
//
// ARCHITECTURE:
//
// Compile once, evaluate many:
//
//	[ir.Program] → New() → normalize → stratify → plan → [Executable]
//	[facts, fluents] → Evaluate() → seed tables → run strata → [Database]
//
// New validates and compiles the program exactly once. The compiled
// engine is logically immutable: it holds the executable plan and the
// precomputed static extension (the program's unconditional facts plus
// one universe-relation tuple per object), nothing else.
//
// Evaluate allocates a private working table set per call, seeds it with
// a copy of the input facts and the static extension, runs the compiled
// strata to saturation, strips the synthetic universe relation, and
// returns the saturated tables. Repeated calls with identical inputs
// produce identical outputs.
//
// CONCURRENCY:
// Everything is plain synchronous computation with no suspension points.
// A compiled engine may be shared read-only across goroutines; each
// Evaluate call mutates only its own working set, so concurrent calls
// are safe as long as callers do not share input databases.
package engine
