// Package model defines the core data structures used throughout siteaudit.
//
// This package contains the following main types:
//   - Target: The immutable description of the website being audited
//   - Insight and Recommendation: Actionable observations and their prioritized form
//   - PartialResult: The output of one analysis module
//   - ScanResult: The unified, synthesized outcome of one audit
//   - Summary: A condensed view used for listings and comparison
//
// The models are serializable to JSON; the field names of ScanResult form the
// contract consumed by report writers, the HTTP API, and the history database.
package model
