package harness

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/ddverify/internal/dd"
)

// OutcomeSnapshot captures a scenario outcome for golden comparison.
type OutcomeSnapshot struct {
	Scenario   string     `json:"scenario"`
	DD         string     `json:"dd"`
	Report     *dd.Report `json:"report,omitempty"`
	Highlights []string   `json:"highlights,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// Snapshot renders the outcome of a scenario as indented JSON.
// Errors are recorded by code only so message wording can evolve.
func Snapshot(scenario *Scenario, result *Result) ([]byte, error) {
	snap := OutcomeSnapshot{
		Scenario: scenario.Name,
		DD:       scenario.DD,
		Report:   result.Report,
	}
	for _, h := range result.Highlights {
		snap.Highlights = append(snap.Highlights, h.String())
	}
	if result.Err != nil {
		snap.Error = string(dd.CodeOf(result.Err))
		if snap.Error == "" {
			snap.Error = result.Err.Error()
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false) // keep "->" readable
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RunWithGolden executes a scenario and compares its outcome against a golden
// file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails. Expectation failures and golden
// mismatches fail t.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	for _, msg := range result.Errors {
		t.Errorf("%s: %s", scenario.Name, msg)
	}

	return AssertGolden(t, scenario, result)
}

// AssertGolden compares an existing result against its golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenario *Scenario, result *Result) error {
	t.Helper()

	data, err := Snapshot(scenario, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)

	return nil
}
