// Package database provides SQLite-based storage for scan history.
//
// Every completed scan is stored as a JSON document together with a SHA3-256
// digest of that document, the score, and a severity summary. The digest is
// checked whenever a result is loaded so that a row edited outside siteaudit
// is reported instead of silently compared.
//
// The store uses modernc.org/sqlite, a CGO-free driver, and keeps a single
// database file in the XDG data directory.
package database
