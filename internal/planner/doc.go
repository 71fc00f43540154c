// Package planner turns a normalized clause body into a queryir plan tree.
//
// Planning happens in three steps, composed by the compiler:
//
//  1. NewJoinGraph builds the join graph over the body's positive and
//     negative atoms (edges connect atoms sharing a variable).
//  2. JoinGraph.Order greedily merges the pair of partial plans with the
//     best (lowest) cost until one plan remains, then folds negative atoms
//     in as anti-joins against the accumulated result.
//  3. InsertFilters and InsertProjection wrap the join result with the
//     residual equality/inequality filters, the numeric constraint
//     filters, and the final head projection.
//
// The default cost is the negative shared-variable count: always join the
// two sides with the largest variable overlap first. Ties break on the
// lowest partial-plan index, so a fixed cost function yields exactly one
// plan for a given clause - plan shape is part of the engine's
// determinism contract.
package planner
