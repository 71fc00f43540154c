// Package harness runs declarative conformance scenarios against the
// engine.
//
// A scenario is a YAML file naming relations, clauses, base facts, and
// expected saturated tables. The harness compiles the scenario's program,
// evaluates it, asserts the expected tables with testify, and pins the
// full rendered output database against a golden file with goldie.
//
// Scenario YAML uses structured data, not Datalog surface syntax: atom
// arguments are either integers (object constants) or "?N" strings
// (clause-local variables). Relation names exist only in fixtures - the
// loader resolves them to identifiers in declaration order before the
// program reaches the engine.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
package harness
