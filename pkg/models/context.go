package models

import "time"

// ContextEntry is an immutable record of a past agent output, kept by
// the context manager for future agents' consumption. Entries are
// appended only and removed solely by bulk age-out sweeps.
type ContextEntry struct {
	// Agent is the name of the agent that produced the output.
	Agent string `json:"agent"`
	// Output is the raw textual output.
	Output string `json:"output"`
	// Metadata carries optional key/value annotations.
	Metadata map[string]string `json:"metadata,omitempty"`
	// Timestamp is when the output was produced.
	Timestamp time.Time `json:"timestamp"`
}
