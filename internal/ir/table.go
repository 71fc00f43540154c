package ir

import (
	"slices"
	"strconv"
	"strings"
)

// Tuple is a fixed-arity sequence of object identifiers.
type Tuple []int

// Key returns the canonical encoding of the tuple used for set membership
// and fluent lookups. Two tuples have equal keys iff they are equal.
func (t Tuple) Key() string {
	var b strings.Builder
	for i, v := range t {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(v))
	}
	return b.String()
}

// Compare orders tuples lexicographically. Used only for deterministic
// rendering and test output, never by the evaluator itself.
func (t Tuple) Compare(o Tuple) int {
	return slices.Compare(t, o)
}

// String renders the tuple as (a, b, ...).
func (t Tuple) String() string {
	parts := make([]string, len(t))
	for i, v := range t {
		parts[i] = strconv.Itoa(v)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Table is a set of tuples for one relation. Duplicates collapse; tuples
// are never removed. The zero value is not usable - use NewTable.
type Table struct {
	tuples map[string]Tuple
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{tuples: make(map[string]Tuple)}
}

// TableOf returns a table holding the given tuples.
func TableOf(tuples ...Tuple) *Table {
	t := NewTable()
	for _, tp := range tuples {
		t.Insert(tp)
	}
	return t
}

// Insert adds the tuple and reports whether it was not already present.
// The novelty signal drives fixpoint termination.
func (t *Table) Insert(tp Tuple) bool {
	k := tp.Key()
	if _, ok := t.tuples[k]; ok {
		return false
	}
	t.tuples[k] = tp
	return true
}

// Has reports membership.
func (t *Table) Has(tp Tuple) bool {
	_, ok := t.tuples[tp.Key()]
	return ok
}

// Len returns the number of tuples.
func (t *Table) Len() int { return len(t.tuples) }

// Each calls fn for every tuple in unspecified order. Iteration order must
// never leak into observable output; use Tuples for that.
func (t *Table) Each(fn func(Tuple)) {
	for _, tp := range t.tuples {
		fn(tp)
	}
}

// Tuples returns the tuples in lexicographic order.
func (t *Table) Tuples() []Tuple {
	out := make([]Tuple, 0, len(t.tuples))
	for _, tp := range t.tuples {
		out = append(out, tp)
	}
	slices.SortFunc(out, Tuple.Compare)
	return out
}

// Clone returns an independent copy sharing no state with the receiver.
func (t *Table) Clone() *Table {
	c := &Table{tuples: make(map[string]Tuple, len(t.tuples))}
	for k, tp := range t.tuples {
		c.tuples[k] = tp
	}
	return c
}

// Equal reports whether both tables hold exactly the same tuple set.
func (t *Table) Equal(o *Table) bool {
	if t.Len() != o.Len() {
		return false
	}
	for k := range t.tuples {
		if _, ok := o.tuples[k]; !ok {
			return false
		}
	}
	return true
}

// Database is an ordered collection of tables, one per relation identifier.
type Database []*Table

// NewDatabase returns a database of n empty tables.
func NewDatabase(n int) Database {
	db := make(Database, n)
	for i := range db {
		db[i] = NewTable()
	}
	return db
}

// Clone deep-copies the database. Nil table slots clone to empty tables so
// callers may pass sparsely populated input databases.
func (db Database) Clone() Database {
	c := make(Database, len(db))
	for i, t := range db {
		if t == nil {
			c[i] = NewTable()
			continue
		}
		c[i] = t.Clone()
	}
	return c
}

// FluentsTable maps object tuples to a numeric value for one fluent
// relation. Read-only from the engine's point of view.
type FluentsTable struct {
	vals map[string]float64
}

// NewFluentsTable returns an empty fluent table.
func NewFluentsTable() *FluentsTable {
	return &FluentsTable{vals: make(map[string]float64)}
}

// Set associates the tuple with a value.
func (f *FluentsTable) Set(tp Tuple, v float64) {
	f.vals[tp.Key()] = v
}

// Get returns the value for the tuple, if any.
func (f *FluentsTable) Get(tp Tuple) (float64, bool) {
	v, ok := f.vals[tp.Key()]
	return v, ok
}

// Len returns the number of mapped tuples.
func (f *FluentsTable) Len() int { return len(f.vals) }

// FluentsDatabase is an ordered collection of fluent tables, one per
// numeric relation identifier.
type FluentsDatabase []*FluentsTable
