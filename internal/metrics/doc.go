// Package metrics exposes Prometheus metrics for scans.
//
// A Collector owns a private registry so that several collectors (one per
// test, or one per server) never collide on the global registry. It records
// per-module outcomes and durations, whole-scan durations and scores, AI
// circuit breaker transitions, and HTTP requests served by the API.
package metrics
