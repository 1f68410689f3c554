// Package pipeline runs the analysis modules for a target and turns their
// partial results into a ScanResult.
//
// The Orchestrator fans the registered modules out concurrently with errgroup,
// bounds each one with its own timeout, and joins every result, substituting
// a generic fallback for modules that fail, panic, or overrun. The Engine
// combines an Orchestrator with the synthesizer, and the BatchProcessor runs
// the Engine over several targets with a concurrency limit.
package pipeline
