// Package main hosts the mealprep command-line interface.
//
// The CLI loads the recipe tree and curated ingredient catalog named by the
// configuration file and exposes the pipeline as subcommands: listing and
// showing recipes with their nutrition, validating the curated data,
// deduplicating and reconciling the external Open Food Facts table, fetching
// that table, and publishing the cookbook as a static site, a web server, an
// Excel workbook, or a SQLite mirror.
//
// Command output goes to stdout; logs go to stderr and the optional log file.
package main
