// Package textutil provides the text handling shared by the ingredient
// pipelines: canonical ingredient names, token-sort similarity scoring, title
// casing for category labels, and slug generation.
//
// The primary use cases are:
//   - Normalizing ingredient names once at ingestion so catalog lookups,
//     deduplication, and reconciliation agree on identity
//   - Scoring curated names against external names for fuzzy candidates
//   - Producing filesystem and URL safe slugs for recipe pages
//
// Similarity scores are token-order insensitive: both inputs are lowercased,
// split on non letter/digit runes, sorted, and rejoined before an indel-based
// ratio is computed over runes.
package textutil
