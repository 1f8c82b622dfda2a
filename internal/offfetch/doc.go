// Package offfetch downloads products from the Open Food Facts search API
// and appends the usable ones to an external ingredient table.
//
// Client issues single page requests and retries transport failures with a
// fixed backoff schedule. Fetcher drives the paging loop and keeps a
// checkpoint beside the output file so an interrupted run resumes where it
// stopped.
package offfetch
