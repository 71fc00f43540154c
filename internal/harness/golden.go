package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/strata/internal/ir"
)

// RunWithGolden executes a scenario, checks its Expect tables, and pins
// the rendered output database against testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, path string) {
	t.Helper()

	s, err := Load(path)
	require.NoError(t, err)

	out, err := Run(s)
	require.NoError(t, err, "scenario %s failed to evaluate", s.Name)

	AssertExpected(t, s, out)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, s.Name, []byte(RenderDatabase(s, out)))
}

// AssertExpected checks every Expect table for exact set equality.
func AssertExpected(t *testing.T, s *Scenario, out ir.Database) {
	t.Helper()

	for name, tuples := range s.Expect {
		id, err := s.relationID(name)
		require.NoError(t, err)

		want := ir.NewTable()
		for _, vals := range tuples {
			want.Insert(ir.Tuple(vals))
		}
		assert.True(t, want.Equal(out[id]),
			"scenario %s relation %s: got %v, want %v",
			s.Name, name, out[id].Tuples(), want.Tuples())
	}
}
