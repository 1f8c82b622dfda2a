// Package dataset reads and writes the flat ingredient records the rest of
// mealprep works from.
//
// The curated ingredient table and the external product table share one CSV
// layout (see Columns). LoadTable and WriteTable coordinate through a sidecar
// file lock so a dedup rewrite never races a concurrent reader. The package
// also decodes the YAML ingredient list and recipe files, removes duplicate
// external rows, and validates a table the way an editor of the CSV would want
// it checked.
package dataset
