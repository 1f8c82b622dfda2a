// Package nutrition holds the ingredient and recipe model together with the
// two pure building blocks every front end relies on: the ingredient Catalog
// and the recipe Aggregator.
//
// A Catalog is built once per run from validated ingredient records and maps
// canonical ingredient keys to their nutrition profile. Lookups are exact;
// ingestion code is responsible for producing canonical keys (see
// textutil.CanonicalName) so that identity is stable under case and
// whitespace variation.
//
// Aggregate turns a recipe into totals, per-100 values, and a shopping-list
// style listing. It never fails: references that do not resolve contribute
// nothing and are reported through Aggregated.Unresolved so callers can log
// or assert on them. Values are returned at full precision; rounding is a
// presentation concern.
package nutrition
