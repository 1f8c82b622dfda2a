// Package store mirrors a loaded cookbook into SQLite.
//
// The database is an output sink for ad-hoc SQL and dashboards. Each sync
// truncates every table and re-inserts the book in one transaction, so the
// mirror never holds a mix of two loads. Nothing in mealprep reads recipes
// back from it except the summary query.
//
// Schema changes bump schemaVersion in schema.go; users delete the database
// to adopt the new schema.
package store
