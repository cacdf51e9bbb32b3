package harness

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/listq/internal/filter"
)

// Scenario defines a conformance scenario: a schema, the records to seed
// and a list of list requests with what each should produce.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario covers.
	Description string `yaml:"description"`

	// Schema is the CUE schema directory, relative to the scenario file.
	Schema string `yaml:"schema"`

	// Fixtures is an optional fixture file, relative to the scenario file.
	// Its records are inserted before Seed.
	Fixtures string `yaml:"fixtures,omitempty"`

	// Seed holds inline records.
	Seed []Record `yaml:"seed,omitempty"`

	// Cases are the list requests to run, in order.
	Cases []Case `yaml:"cases"`
}

// Record is one row to insert.
type Record struct {
	Type   string         `yaml:"type"`
	Values map[string]any `yaml:"values"`
}

// Case is one list request.
type Case struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	Filter  string `yaml:"filter,omitempty"`
	Sort    string `yaml:"sort,omitempty"`
	Include string `yaml:"include,omitempty"`
	Page    int    `yaml:"page,omitempty"`
	PerPage int    `yaml:"per_page,omitempty"`
	Expect  Expect `yaml:"expect"`
}

// Expect lists what a case must produce. Only the fields that are set
// are checked.
type Expect struct {
	// Error is the filter error code; empty means compilation succeeds.
	Error string `yaml:"error,omitempty"`

	// Predicate is the compiled filter in queryir.Format form.
	Predicate string `yaml:"predicate,omitempty"`

	// Sort is the compiled sort in queryir.FormatSort form.
	Sort string `yaml:"sort,omitempty"`

	// Include lists the include paths, sorted.
	Include []string `yaml:"include,omitempty"`

	// IDs are the route keys of the returned page, in order.
	IDs []string `yaml:"ids,omitempty"`

	// Total is the number of records matching the filter.
	Total *int `yaml:"total,omitempty"`
}

// fixtureFile is the layout of a fixture file.
type fixtureFile struct {
	Records []Record `yaml:"records"`
}

// LoadScenario reads and parses a scenario YAML file. Schema and fixture
// paths are resolved relative to the file.
func LoadScenario(path string) (*Scenario, error) {
	var scenario Scenario
	if err := decodeStrict(path, &scenario); err != nil {
		return nil, err
	}

	base := filepath.Dir(path)
	scenario.Schema = resolve(base, scenario.Schema)
	scenario.Fixtures = resolve(base, scenario.Fixtures)

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadFixtures reads a fixture file:
//
//	records:
//	  - type: users
//	    values: {id: 1, name: alice}
func LoadFixtures(path string) ([]Record, error) {
	var f fixtureFile
	if err := decodeStrict(path, &f); err != nil {
		return nil, err
	}
	for i, r := range f.Records {
		if err := validateRecord(r); err != nil {
			return nil, fmt.Errorf("records[%d]: %w", i, err)
		}
	}
	return f.Records, nil
}

// decodeStrict decodes a YAML file, rejecting unknown fields to catch typos.
func decodeStrict(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

func resolve(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return errors.New("name is required")
	}
	if s.Description == "" {
		return errors.New("description is required")
	}
	if s.Schema == "" {
		return errors.New("schema is required")
	}
	if _, err := os.Stat(s.Schema); os.IsNotExist(err) {
		return fmt.Errorf("schema directory not found: %s", s.Schema)
	}
	if s.Fixtures != "" {
		if _, err := os.Stat(s.Fixtures); os.IsNotExist(err) {
			return fmt.Errorf("fixture file not found: %s", s.Fixtures)
		}
	}
	if len(s.Cases) == 0 {
		return errors.New("cases list is required and must be non-empty")
	}

	for i, r := range s.Seed {
		if err := validateRecord(r); err != nil {
			return fmt.Errorf("seed[%d]: %w", i, err)
		}
	}

	seen := make(map[string]bool, len(s.Cases))
	for i, c := range s.Cases {
		if err := validateCase(c); err != nil {
			return fmt.Errorf("cases[%d]: %w", i, err)
		}
		if seen[c.Name] {
			return fmt.Errorf("cases[%d]: duplicate case name %q", i, c.Name)
		}
		seen[c.Name] = true
	}

	return nil
}

func validateRecord(r Record) error {
	if r.Type == "" {
		return errors.New("type is required")
	}
	if r.Values == nil {
		return errors.New("values is required")
	}
	return nil
}

func validateCase(c Case) error {
	if c.Name == "" {
		return errors.New("name is required")
	}
	if c.Type == "" {
		return errors.New("type is required")
	}
	if c.Page < 0 || c.PerPage < 0 {
		return errors.New("page and per_page must not be negative")
	}

	switch filter.ErrorCode(c.Expect.Error) {
	case "":
	case filter.ErrCodeMalformed, filter.ErrCodeAmbiguous:
		if c.Expect.Predicate != "" || c.Expect.IDs != nil || c.Expect.Total != nil {
			return fmt.Errorf("expect: error %s cannot be combined with results", c.Expect.Error)
		}
	default:
		return fmt.Errorf("expect: unknown error code %q", c.Expect.Error)
	}
	return nil
}
