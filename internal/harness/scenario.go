package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/ontomig/internal/update"
)

// Defaults applied to scenarios that leave them out.
const (
	DefaultGraph          = "test"
	DefaultMigrationGraph = "http://example.com/"
)

// Scenario defines one migration to plan and check.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Current and Destination are Turtle files. Current may be empty.
	Current     string `yaml:"current,omitempty"`
	Destination string `yaml:"destination,omitempty"`

	// Load is a raw data file. It excludes Destination.
	Load string `yaml:"load,omitempty"`

	// Version labels the ledger record.
	Version string `yaml:"version"`
	Origin  string `yaml:"origin"`

	Graph          string `yaml:"graph,omitempty"`
	MigrationGraph string `yaml:"migration_graph,omitempty"`

	// Golden compares the rendered scripts with testdata/golden/<name>.golden.
	Golden bool `yaml:"golden,omitempty"`

	Assertions []Assertion `yaml:"assertions"`
}

// Assertion checks one property of the planned migration.
type Assertion struct {
	Type string `yaml:"type"`

	// Kinds is the expected statement kind sequence (up_kinds, down_kinds).
	Kinds []string `yaml:"kinds,omitempty"`

	// Statement is the expected statement text (up_contains, down_contains).
	Statement string `yaml:"statement,omitempty"`

	// Count is the expected number of changes (changes).
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertUpKinds      = "up_kinds"
	AssertDownKinds    = "down_kinds"
	AssertUpContains   = "up_contains"
	AssertDownContains = "down_contains"
	AssertChanges      = "changes"
	AssertRoundTrip    = "round_trip"
)

var knownKinds = map[string]bool{
	string(update.KindInsertData):     true,
	string(update.KindDeleteTriple):   true,
	string(update.KindInsertShape):    true,
	string(update.KindDeleteShape):    true,
	string(update.KindDeleteMatching): true,
}

// LoadScenario reads and parses a scenario YAML file. Turtle paths are
// resolved against the directory of the file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	base := filepath.Dir(path)
	for _, p := range []*string{&scenario.Current, &scenario.Destination, &scenario.Load} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
	if scenario.Graph == "" {
		scenario.Graph = DefaultGraph
	}
	if scenario.MigrationGraph == "" {
		scenario.MigrationGraph = DefaultMigrationGraph
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadScenarios loads every *.yaml file of dir in name order.
func LoadScenarios(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	out := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(p), err)
		}
		out = append(out, s)
	}
	return out, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	switch {
	case s.Load != "" && (s.Destination != "" || s.Current != ""):
		return fmt.Errorf("load excludes current and destination")
	case s.Load == "" && s.Destination == "":
		return fmt.Errorf("destination or load is required")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for _, p := range []string{s.Current, s.Destination, s.Load} {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); os.IsNotExist(err) {
			return fmt.Errorf("turtle file not found: %s", p)
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, a); err != nil {
			return err
		}
	}
	return nil
}

func validateAssertion(index int, a Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertUpKinds, AssertDownKinds:
		if len(a.Kinds) == 0 {
			return fmt.Errorf("assertions[%d]: kinds list is required for %s", index, a.Type)
		}
		for _, k := range a.Kinds {
			if !knownKinds[k] {
				return fmt.Errorf("assertions[%d]: unknown statement kind %q", index, k)
			}
		}
	case AssertUpContains, AssertDownContains:
		if a.Statement == "" {
			return fmt.Errorf("assertions[%d]: statement is required for %s", index, a.Type)
		}
	case AssertChanges:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for changes", index)
		}
	case AssertRoundTrip:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
