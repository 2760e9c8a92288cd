// Package harness runs DD verification scenarios described in YAML.
//
// A scenario pairs a table (CSV file or inline rows) with a DD in textual
// form and states the expected outcome: either report fields (holds,
// violating_pairs, lhs_pairs, error_rate, highlights) or an error code.
//
//	name: close_ages_close_salaries
//	description: "ages within 2 years earn within 60"
//	table:
//	  csv: people.csv
//	dd: "age [0;2] -> salary [0;60]"
//	expect:
//	  holds: false
//	  violating_pairs: 2
//	  highlights:
//	    - {column: salary, rows: [0, 1]}
//
// Each run uses a fixed run id and a step clock, so the report and every
// piece of sink output are reproducible. RunWithGolden additionally compares
// a JSON snapshot of the outcome with testdata/golden/<name>.golden.
package harness
