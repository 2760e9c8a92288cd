// Package table provides the typed, column-oriented relation consumed by the
// verifier.
//
// A Relation is built once from raw text cells and is immutable afterwards.
// Every cell is Present, Null (matches a configured null token or came from an
// SQL NULL) or Empty (the raw text is ""). Each column gets a runtime type by
// inference over its present cells:
//
//	Int, Double       absolute difference
//	Date (YYYY-MM-DD) absolute difference in days
//	String            Levenshtein distance over NFC-normalised text
//	Bool              no distance (non-metrizable)
//
// Columns without present cells are Undefined; columns mixing types are Mixed,
// except that Int and Double promote to Double.
//
// Only metrizable columns carry a Metric. Callers reach distances through
// Relation.Distance and never see the stored representation of a value.
package table
