// Package store provides SQLite access for ddverify.
//
// Two uses share one connection type:
//   - Relation source: LoadRelation reads any table into a table.Relation,
//     converting driver values to raw text so the same type inference used
//     for CSV applies.
//   - Run history: RecordRun appends one row per verification run and
//     ListRuns returns them in insertion order.
//
// # Ordering
//
// Relations are read ORDER BY rowid so row indexes in reports match the
// physical insertion order. History queries order by seq, never by time.
//
// # Database Configuration
//
// Open (read-write, history enabled):
//   - WAL mode
//   - synchronous=NORMAL
//   - busy_timeout=5000
//
// OpenReadOnly opens with mode=ro and never creates tables, so pointing
// ddverify at a production database leaves it untouched.
package store
