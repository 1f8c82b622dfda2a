// Package reconcile checks how well a curated ingredient table is covered by
// an external product table.
//
// Reconciliation runs in two passes. The first pass classifies every curated
// ingredient with an exact (canonical name, unit) counterpart. The second pass
// scores the remaining names against the external table with a token-order
// insensitive similarity function and hands the surviving candidates to a
// Decider, which may be a person at a terminal, a scripted function, or an
// automatic score cutoff. The matcher itself never touches files.
package reconcile
