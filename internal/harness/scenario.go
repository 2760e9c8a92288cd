package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/ddverify/internal/dd"
)

// Scenario defines a verification scenario: a table, a DD and the expected
// outcome of verifying one against the other.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Table is the relation to verify against.
	Table TableSource `yaml:"table"`

	// DD is the dependency in textual form, e.g. "age [0;5] -> salary [0;100]".
	DD string `yaml:"dd"`

	// Workers is passed to verifier.WithWorkers. Zero means sequential.
	Workers int `yaml:"workers,omitempty"`

	// Expect is the expected outcome.
	Expect Expectation `yaml:"expect"`
}

// TableSource is either a CSV file or an inline table.
type TableSource struct {
	// CSV is a path to a CSV file with a header row.
	// Relative paths are resolved against the scenario file's directory.
	CSV string `yaml:"csv,omitempty"`

	// Columns and Rows define an inline table. A YAML null cell (~, null)
	// is a null value and "" is an empty value.
	Columns []string    `yaml:"columns,omitempty"`
	Rows    [][]*string `yaml:"rows,omitempty"`

	// NullTokens overrides the default null tokens for text cells.
	NullTokens []string `yaml:"null_tokens,omitempty"`
}

// Expectation lists the checked parts of the outcome. Unset fields are not
// checked. Error is exclusive with the report fields.
type Expectation struct {
	Holds          *bool             `yaml:"holds,omitempty"`
	ViolatingPairs *int              `yaml:"violating_pairs,omitempty"`
	LhsPairs       *int              `yaml:"lhs_pairs,omitempty"`
	ErrorRate      *float64          `yaml:"error_rate,omitempty"`
	Highlights     []HighlightExpect `yaml:"highlights,omitempty"`
	Error          string            `yaml:"error,omitempty"`
}

// HighlightExpect is one expected highlight, by column name.
// An explicit empty list (highlights: []) asserts there are none.
type HighlightExpect struct {
	Column string `yaml:"column"`
	Rows   []int  `yaml:"rows"`
}

// LoadScenario reads and parses a scenario YAML file.
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

	// Resolve the CSV path relative to the scenario BEFORE validation
	if scenario.Table.CSV != "" && !filepath.IsAbs(scenario.Table.CSV) {
		scenario.Table.CSV = filepath.Join(filepath.Dir(path), scenario.Table.CSV)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.DD == "" {
		return fmt.Errorf("dd is required")
	}
	if _, err := dd.Parse(s.DD); err != nil {
		return fmt.Errorf("dd: %w", err)
	}

	if s.Workers < 0 {
		return fmt.Errorf("workers must be non-negative")
	}

	if err := validateTable(&s.Table); err != nil {
		return fmt.Errorf("table: %w", err)
	}

	return validateExpectation(&s.Expect)
}

func validateTable(t *TableSource) error {
	inline := len(t.Columns) > 0 || len(t.Rows) > 0
	switch {
	case t.CSV == "" && !inline:
		return fmt.Errorf("csv or columns is required")
	case t.CSV != "" && inline:
		return fmt.Errorf("csv and inline columns are mutually exclusive")
	case t.CSV != "":
		if _, err := os.Stat(t.CSV); os.IsNotExist(err) {
			return fmt.Errorf("csv file not found: %s", t.CSV)
		}
	case len(t.Columns) == 0:
		return fmt.Errorf("columns is required for inline rows")
	}

	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("rows[%d]: has %d values, expected %d", i, len(row), len(t.Columns))
		}
	}
	return nil
}

func validateExpectation(e *Expectation) error {
	reportChecks := e.Holds != nil || e.ViolatingPairs != nil || e.LhsPairs != nil ||
		e.ErrorRate != nil || e.Highlights != nil

	if e.Error != "" {
		if _, ok := dd.ParseErrorCode(e.Error); !ok {
			return fmt.Errorf("expect.error: unknown error code %q", e.Error)
		}
		if reportChecks {
			return fmt.Errorf("expect.error is exclusive with report expectations")
		}
		return nil
	}

	if !reportChecks {
		return fmt.Errorf("expect must set error or at least one report field")
	}

	for i, h := range e.Highlights {
		if h.Column == "" {
			return fmt.Errorf("expect.highlights[%d]: column is required", i)
		}
		if len(h.Rows) != 2 || h.Rows[0] >= h.Rows[1] {
			return fmt.Errorf("expect.highlights[%d]: rows must be [i, j] with i < j", i)
		}
	}
	return nil
}
