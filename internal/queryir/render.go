package queryir

import (
	"fmt"
	"strings"

	"github.com/roach88/strata/internal/ir"
)

// Render produces a deterministic single-line description of a plan tree.
// The rendering is stable across runs and is what plan golden tests pin.
func Render(n Node) string {
	var b strings.Builder
	render(&b, n)
	return b.String()
}

func render(b *strings.Builder, n Node) {
	switch node := n.(type) {
	case *Scan:
		b.WriteString(renderAtom(node.Relation, node.Args))

	case *Join:
		b.WriteString("join(")
		render(b, node.Left)
		b.WriteString(", ")
		render(b, node.Right)
		b.WriteString(")")

	case *Antijoin:
		b.WriteString("antijoin(")
		render(b, node.Input)
		b.WriteString(", not ")
		b.WriteString(renderAtom(node.Atom.Relation, node.Atom.Args))
		b.WriteString(")")

	case *VarEqFilter:
		renderFilter(b, node.Input, fmt.Sprintf("?%d = ?%d", node.X, node.Y))

	case *VarNeqFilter:
		renderFilter(b, node.Input, fmt.Sprintf("?%d != ?%d", node.X, node.Y))

	case *ConstEqFilter:
		renderFilter(b, node.Input, fmt.Sprintf("?%d = %d", node.Var, node.Object))

	case *ConstNeqFilter:
		renderFilter(b, node.Input, fmt.Sprintf("?%d != %d", node.Var, node.Object))

	case *ConstraintFilter:
		vars := node.Constraint.Variables()
		parts := make([]string, len(vars))
		for i, v := range vars {
			parts[i] = fmt.Sprintf("?%d", v)
		}
		renderFilter(b, node.Input, fmt.Sprintf("constraint(%s)", strings.Join(parts, ", ")))

	case *Project:
		b.WriteString("project(")
		render(b, node.Input)
		parts := make([]string, len(node.Args))
		for i, arg := range node.Args {
			parts[i] = arg.String()
		}
		b.WriteString(", [")
		b.WriteString(strings.Join(parts, ", "))
		b.WriteString("])")

	default:
		fmt.Fprintf(b, "unknown(%T)", n)
	}
}

func renderFilter(b *strings.Builder, input Node, cond string) {
	b.WriteString("filter(")
	render(b, input)
	b.WriteString(", ")
	b.WriteString(cond)
	b.WriteString(")")
}

func renderAtom(relation int, args []ir.Term) string {
	return ir.Atom{Relation: relation, Args: args}.String()
}
