// Package cookbook loads a configuration tree of recipe files and the
// ingredient catalog into a Book of recipes with aggregated nutrition.
//
// The Book is what every display surface consumes: the web server, the
// static site generator, the spreadsheet export, and the SQLite mirror.
package cookbook
