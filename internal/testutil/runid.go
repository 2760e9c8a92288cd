package testutil

// FixedRunIDGenerator generates the same run id every time.
//
// This enables deterministic observability output: the same verification with
// the same FixedRunIDGenerator produces byte-identical summaries.
//
// Thread-safety: FixedRunIDGenerator is stateless and safe for concurrent use.
type FixedRunIDGenerator struct {
	id string
}

// NewFixedRunIDGenerator creates a new fixed run id generator.
//
// If id is empty, Generate() returns "test-run-default".
func NewFixedRunIDGenerator(id string) *FixedRunIDGenerator {
	if id == "" {
		id = "test-run-default"
	}
	return &FixedRunIDGenerator{id: id}
}

// Generate returns the fixed run id.
//
// Implements verifier.RunIDGenerator interface.
func (g *FixedRunIDGenerator) Generate() string {
	return g.id
}
