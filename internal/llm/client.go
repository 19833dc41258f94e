// Package llm integrates an external text-generation service as a
// model-proposal assist. Its output is treated as noisy input: everything is
// validated before use and malformed responses degrade to an empty proposal,
// never an aborted pipeline.
package llm

import "context"

// Client is the minimal contract for a text-generation backend.
type Client interface {
	// Complete returns the model's text completion for a prompt.
	Complete(ctx context.Context, prompt string) (string, error)
}

// ProposalRequest describes the business for which a model is proposed.
type ProposalRequest struct {
	BusinessDescription string
	SampleSheets        []SampleSheet
}

// SampleSheet is a small excerpt of an uploaded dataset included in the
// prompt so the proposal can reference real column names.
type SampleSheet struct {
	Name    string
	Columns []string
}
