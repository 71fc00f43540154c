// Package queryexec is the in-memory backend for queryir plan trees.
//
// It interprets a plan recursively against an Env snapshot of relation
// tables (plus optional fluents), producing the tuple set for one clause:
//
//	[plan tree] → [queryexec.Run] → [ir.Table]
//
// Intermediate results are variable-keyed row sets; joins are hash joins
// on the shared-variable projection, negation is an anti-join against the
// accumulated rows. The backend holds no state between calls - all state
// lives in the Env the caller owns - so one compiled plan may be executed
// by concurrent evaluation calls with disjoint Envs.
package queryexec
