// Package synthesis merges the partial results of the analysis modules into
// one ScanResult.
//
// The synthesizer is a pure function of its inputs apart from logging: it
// concatenates insights in completion order, resolves singleton subsections
// by module priority, computes the overall score, derives one recommendation
// per insight, and projects the revenue impact of the first conversion
// opportunity.
package synthesis
