package harness

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/strata/internal/engine"
	"github.com/roach88/strata/internal/ir"
)

// Scenario defines a conformance test scenario: a small Datalog program,
// its base facts, and the expected saturated tables.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Objects is the universe size; object identifiers are 0..Objects-1.
	Objects int `yaml:"objects"`

	// Relations declares the program's relations in identifier order.
	Relations []RelationSpec `yaml:"relations"`

	// Equality optionally names the relation carrying built-in equality
	// semantics. Empty means the program uses no equality literals.
	Equality string `yaml:"equality,omitempty"`

	// Clauses lists the program rules.
	Clauses []ClauseSpec `yaml:"clauses"`

	// Facts maps relation names to base tuples.
	Facts map[string][][]int `yaml:"facts,omitempty"`

	// Expect maps relation names to the tuples their saturated table
	// must hold exactly. Relations absent from Expect are unchecked.
	Expect map[string][][]int `yaml:"expect,omitempty"`
}

// RelationSpec declares one relation.
type RelationSpec struct {
	Name  string `yaml:"name"`
	Arity int    `yaml:"arity"`
}

// ClauseSpec is one rule in fixture form.
type ClauseSpec struct {
	Head     AtomSpec   `yaml:"head"`
	Positive []AtomSpec `yaml:"positive,omitempty"`
	Negative []AtomSpec `yaml:"negative,omitempty"`
}

// AtomSpec is one atom in fixture form. Args entries are integers (object
// constants) or "?N" strings (variables).
type AtomSpec struct {
	Rel  string `yaml:"rel"`
	Args []any  `yaml:"args"`
}

// Load reads a scenario from a YAML file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode scenario %s: %w", path, err)
	}
	if s.Name == "" {
		return nil, fmt.Errorf("scenario %s: missing name", path)
	}
	if len(s.Relations) == 0 {
		return nil, fmt.Errorf("scenario %s: no relations declared", path)
	}
	return &s, nil
}

// relationID resolves a relation name to its identifier.
func (s *Scenario) relationID(name string) (int, error) {
	for i, r := range s.Relations {
		if r.Name == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown relation %q", name)
}

// Program converts the scenario into the engine's input representation.
func (s *Scenario) Program() (*ir.Program, error) {
	p := &ir.Program{
		NumRelations:     len(s.Relations),
		EqualityRelation: -1,
	}
	if s.Equality != "" {
		id, err := s.relationID(s.Equality)
		if err != nil {
			return nil, fmt.Errorf("equality: %w", err)
		}
		p.EqualityRelation = id
	}

	for ci, cs := range s.Clauses {
		clause, err := s.clause(cs)
		if err != nil {
			return nil, fmt.Errorf("clause %d: %w", ci, err)
		}
		p.Clauses = append(p.Clauses, clause)
	}
	return p, nil
}

func (s *Scenario) clause(cs ClauseSpec) (ir.Clause, error) {
	head, err := s.atom(cs.Head)
	if err != nil {
		return ir.Clause{}, fmt.Errorf("head: %w", err)
	}
	clause := ir.Clause{Head: head}
	for i, as := range cs.Positive {
		atom, err := s.atom(as)
		if err != nil {
			return ir.Clause{}, fmt.Errorf("positive atom %d: %w", i, err)
		}
		clause.Positive = append(clause.Positive, atom)
	}
	for i, as := range cs.Negative {
		atom, err := s.atom(as)
		if err != nil {
			return ir.Clause{}, fmt.Errorf("negative atom %d: %w", i, err)
		}
		clause.Negative = append(clause.Negative, atom)
	}
	return clause, nil
}

func (s *Scenario) atom(as AtomSpec) (ir.Atom, error) {
	rel, err := s.relationID(as.Rel)
	if err != nil {
		return ir.Atom{}, err
	}
	args := make([]ir.Term, len(as.Args))
	for i, raw := range as.Args {
		term, err := parseTerm(raw)
		if err != nil {
			return ir.Atom{}, fmt.Errorf("arg %d: %w", i, err)
		}
		args[i] = term
	}
	return ir.Atom{Relation: rel, Args: args}, nil
}

// parseTerm decodes a fixture argument: int → object constant,
// "?N" → variable N.
func parseTerm(raw any) (ir.Term, error) {
	switch v := raw.(type) {
	case int:
		return ir.Obj(v), nil
	case string:
		if !strings.HasPrefix(v, "?") {
			return ir.Term{}, fmt.Errorf("string argument %q must be a ?N variable", v)
		}
		id, err := strconv.Atoi(v[1:])
		if err != nil || id < 0 {
			return ir.Term{}, fmt.Errorf("bad variable %q", v)
		}
		return ir.Var(id), nil
	default:
		return ir.Term{}, fmt.Errorf("unsupported argument type %T", raw)
	}
}

// Database builds the base-fact database in relation order.
func (s *Scenario) Database() (ir.Database, error) {
	db := ir.NewDatabase(len(s.Relations))
	for name, tuples := range s.Facts {
		id, err := s.relationID(name)
		if err != nil {
			return nil, fmt.Errorf("facts: %w", err)
		}
		for _, vals := range tuples {
			if len(vals) != s.Relations[id].Arity {
				return nil, fmt.Errorf("facts: %s tuple %v has arity %d, want %d",
					name, vals, len(vals), s.Relations[id].Arity)
			}
			db[id].Insert(ir.Tuple(vals))
		}
	}
	return db, nil
}

// Run compiles the scenario's program and evaluates it over its facts.
func Run(s *Scenario) (ir.Database, error) {
	program, err := s.Program()
	if err != nil {
		return nil, err
	}
	eng, err := engine.New(program, s.Objects)
	if err != nil {
		return nil, fmt.Errorf("compile scenario %s: %w", s.Name, err)
	}
	facts, err := s.Database()
	if err != nil {
		return nil, err
	}
	return eng.Evaluate(facts, nil)
}

// RenderDatabase renders a saturated database with the scenario's relation
// names, tuples in lexicographic order. This is the golden-file format.
func RenderDatabase(s *Scenario, db ir.Database) string {
	var b strings.Builder
	for i, r := range s.Relations {
		fmt.Fprintf(&b, "%s/%d:\n", r.Name, r.Arity)
		for _, tp := range db[i].Tuples() {
			fmt.Fprintf(&b, "  %s\n", tp)
		}
	}
	return b.String()
}
