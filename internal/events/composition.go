// Package events defines the lifecycle events published while composing a
// supergraph. Events of one composition share the run id stored in the
// context they are published with.
package events

import "time"

// CompositionStart is emitted before a composition run.
type CompositionStart struct {
	Subgraphs []string
	Contract  string
}

// CompositionFinish is emitted after a composition run.
type CompositionFinish struct {
	Subgraphs []string
	Contract  string
	Errors    []error
	Warnings  int
	Duration  time.Duration
}

// NormalizationStart is emitted before one subgraph is normalized.
type NormalizationStart struct {
	Contract string
	Subgraph string
}

// NormalizationFinish is emitted after one subgraph is normalized.
type NormalizationFinish struct {
	Contract string
	Subgraph string
	Errors   []error
	Warnings int
	Duration time.Duration
}

// FederationStart is emitted before normalized subgraphs are merged.
type FederationStart struct {
	Contract  string
	Subgraphs int
}

// FederationFinish is emitted after the merge.
type FederationFinish struct {
	Contract string
	Errors   []error
	Warnings int
	Duration time.Duration
}

// ResolvabilityStart is emitted before the merged graph is checked.
type ResolvabilityStart struct {
	Contract string
}

// ResolvabilityFinish is emitted after the merged graph is checked.
type ResolvabilityFinish struct {
	Contract string
	Errors   []error
	Warnings int
	Duration time.Duration
}
