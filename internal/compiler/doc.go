// Package compiler turns a Datalog program into an executable evaluation
// plan.
//
// Compilation runs once, at engine construction:
//
//  1. Normalize extracts equality literals from each clause body into
//     residual filter lists and binds every otherwise-unbound variable
//     against the synthetic universe relation (range restriction).
//  2. Stratify builds the relation dependency graph, computes strongly
//     connected components with Tarjan's algorithm, and validates that no
//     negated atom reaches into its own or a later stratum.
//  3. CompileStrata groups clause plans by stratum, in dependency order,
//     choosing single-pass evaluation for non-recursive strata and joint
//     fixpoint iteration for recursive ones.
//
// Both failure modes are construction-time CompileErrors with stable
// codes: a malformed equality literal (ErrCodeMalformedLiteral) or an
// unstratifiable negation (ErrCodeUnstratifiedNegation). Evaluation of a
// compiled program replays an already-validated plan and has no
// user-facing error paths.
//
// DETERMINISM:
// Clause order, stratum order, and the greedy planner's tie-breaks are
// all fixed, so compiling the same program twice yields the same
// executable and evaluating it is a pure function of the input tables.
package compiler
