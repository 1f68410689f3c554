// Package report renders scan results.
//
// Writers receive a fully synthesized model.ScanResult; every score,
// ranking, and projection is already computed and writers only format it.
//
//   - SimpleWriter: plain text for terminal display
//   - JSONWriter and FullJSONWriter: JSON for tool integration
//   - MarkdownWriter: GitHub-flavored Markdown for sharing
//
// Writers implement the Writer interface and can be combined with
// MultiWriter.
package report
