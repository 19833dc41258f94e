package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/finweave/finweave/internal/common"
	"github.com/finweave/finweave/internal/model"
	"github.com/finweave/finweave/internal/schema"
	"github.com/finweave/finweave/internal/service"
)

// Proposer asks a text-generation backend for a business-model proposal and
// validates whatever comes back.
type Proposer struct {
	client    Client
	retryOpts service.RetryOptions
}

// NewProposer creates a proposer around a client.
func NewProposer(client Client) *Proposer {
	return &Proposer{
		client: client,
		retryOpts: service.RetryOptions{
			MaxAttempts: 3,
		},
	}
}

// ProposeModel requests a proposal. Transport errors propagate; an
// unparseable or structurally invalid response falls back to an empty
// proposal so the caller always has something to reconcile against.
func (p *Proposer) ProposeModel(ctx context.Context, req ProposalRequest) (*model.Proposal, error) {
	prompt := buildPrompt(req)

	var response string
	err := common.WithRetry(ctx, func() error {
		var callErr error
		response, callErr = p.client.Complete(ctx, prompt)
		return callErr
	}, p.retryOpts)
	if err != nil {
		return nil, fmt.Errorf("proposal request failed: %w", err)
	}

	proposal, err := schema.ValidateProposal([]byte(response))
	if err != nil {
		if errors.Is(err, common.ErrProposalUnparseable) || errors.Is(err, common.ErrMissingTables) {
			slog.Warn("Discarding invalid proposal response", "error", err)
			return emptyProposal(req.BusinessDescription), nil
		}
		return nil, err
	}

	proposal.Meta.GeneratedBy = "assist"
	return proposal, nil
}

func emptyProposal(businessType string) *model.Proposal {
	return &model.Proposal{
		BusinessType:      businessType,
		RecommendedTables: []model.TableDef{},
		Meta:              model.ProposalMeta{GeneratedBy: "assist-fallback"},
	}
}

func buildPrompt(req ProposalRequest) string {
	var b strings.Builder
	b.WriteString("Propose a relational business-data model as a single JSON object with keys ")
	b.WriteString(`"businessType", "recommendedTables" (name, fields with name/type/primaryKey/references) and "relationships" (from, to as "Table.field").`)
	b.WriteString("\n\nBusiness: ")
	b.WriteString(req.BusinessDescription)
	for _, sheet := range req.SampleSheets {
		fmt.Fprintf(&b, "\nUploaded sheet %q with columns: %s", sheet.Name, strings.Join(sheet.Columns, ", "))
	}
	b.WriteString("\n\nRespond with JSON only.")
	return b.String()
}
