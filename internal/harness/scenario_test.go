package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.ttl"), []byte("@prefix : <http://example.com/> .\n:a :b :c .\n"), 0o644))
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadScenario_ResolvesPathsAndDefaults(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/add_restriction.yaml")
	require.NoError(t, err)

	assert.Equal(t, "add_restriction", s.Name)
	assert.Equal(t, filepath.Join("testdata", "scenarios", "structure_01.ttl"), s.Current)
	assert.Equal(t, filepath.Join("testdata", "scenarios", "structure_02.ttl"), s.Destination)
	assert.Equal(t, DefaultGraph, s.Graph)
	assert.Equal(t, DefaultMigrationGraph, s.MigrationGraph)
	assert.True(t, s.Golden)
	require.Len(t, s.Assertions, 6)
	assert.Equal(t, AssertUpKinds, s.Assertions[0].Type)
	assert.Equal(t, 3, s.Assertions[4].Count)
}

func TestLoadScenarios(t *testing.T) {
	all, err := LoadScenarios("testdata/scenarios")
	require.NoError(t, err)
	require.Len(t, all, 8)
	assert.Equal(t, "add_restriction", all[0].Name)
}

func TestLoadScenario_Invalid(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"unknown field", "name: x\ndescription: d\ndestination: a.ttl\nasertions: []\n", "field asertions not found"},
		{"missing name", "description: d\ndestination: a.ttl\nassertions: [{type: round_trip}]\n", "name is required"},
		{"missing description", "name: x\ndestination: a.ttl\nassertions: [{type: round_trip}]\n", "description is required"},
		{"nothing to plan", "name: x\ndescription: d\nassertions: [{type: round_trip}]\n", "destination or load is required"},
		{"load with destination", "name: x\ndescription: d\nload: a.ttl\ndestination: a.ttl\nassertions: [{type: round_trip}]\n", "load excludes"},
		{"no assertions", "name: x\ndescription: d\ndestination: a.ttl\n", "assertions list is required"},
		{"missing file", "name: x\ndescription: d\ndestination: b.ttl\nassertions: [{type: round_trip}]\n", "turtle file not found"},
		{"unknown type", "name: x\ndescription: d\ndestination: a.ttl\nassertions: [{type: trace_order}]\n", `unknown assertion type "trace_order"`},
		{"unknown kind", "name: x\ndescription: d\ndestination: a.ttl\nassertions: [{type: up_kinds, kinds: [upsert]}]\n", `unknown statement kind "upsert"`},
		{"kinds missing", "name: x\ndescription: d\ndestination: a.ttl\nassertions: [{type: down_kinds}]\n", "kinds list is required"},
		{"statement missing", "name: x\ndescription: d\ndestination: a.ttl\nassertions: [{type: up_contains}]\n", "statement is required"},
		{"negative count", "name: x\ndescription: d\ndestination: a.ttl\nassertions: [{type: changes, count: -1}]\n", "count must be non-negative"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tc.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("testdata/scenarios/nope.yaml")
	assert.ErrorContains(t, err, "failed to read scenario file")
}
