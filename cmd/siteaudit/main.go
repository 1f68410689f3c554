// Package main provides the entry point for the siteaudit CLI.
//
// siteaudit audits a business website. It runs a fixed set of analysis
// modules concurrently, merges their findings into one scored report with
// recommendations and a revenue projection, and keeps a scan history.
//
// Usage:
//
//	siteaudit scan <website-url>
//	siteaudit compare <website-url>
//	siteaudit serve --addr :8080
//
// See --help for all available options.
package main

// main is the entry point for siteaudit.
func main() {
	Execute()
}
