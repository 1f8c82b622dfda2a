// Package web renders a cookbook as HTML.
//
// GenerateSite writes a static site to disk. NewServer exposes the same pages
// plus a JSON API over gin, loading the cookbook fresh for every request so
// edits to the recipe files show up without a restart.
package web
