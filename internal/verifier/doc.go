// Package verifier checks whether a differential dependency holds over a
// typed table and measures how badly it fails when it does not.
//
// ARCHITECTURE:
//
// Verify runs a pure pipeline. Each stage returns a value consumed by the next
// and no state survives past one call:
//
//	validate DD -> resolve columns -> check metrizability
//	    -> LhsMatcher (pairs satisfying every LHS interval)
//	    -> RhsChecker (violations and highlights)
//	    -> dd.Report
//
// The first three stages fail fast before any distance is computed, so a
// malformed DD or an unusable column is diagnosed deterministically instead
// of midway through a pairwise scan.
//
// LhsMatcher enumerates all pairs (i, j), i < j, once, keeping those whose
// distance on the first LHS column is inside its interval. Every further LHS
// constraint only narrows that candidate list. The order of LHS constraints
// changes the work done, never the result.
//
// RhsChecker evaluates every RHS constraint for every candidate pair without
// short-circuiting, emitting one highlight per violated column and counting
// each violating pair once.
//
// CONCURRENCY:
//
// With WithWorkers(n > 1) the first LHS pass and the RHS pass are split into
// contiguous chunks run on an errgroup. Chunk results are concatenated in
// chunk order, so pair and highlight order are identical to a sequential run,
// and when several chunks fail the error of the lowest chunk is returned,
// which is the error a sequential run would have hit first.
//
// FAILURES:
//
// Every failure is a *dd.VerificationError. A null or empty cell, or a
// non-finite distance, met during a scan aborts the whole run with
// MISSING_VALUE; pairs are never silently skipped.
package verifier
