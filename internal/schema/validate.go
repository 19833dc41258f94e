package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/finweave/finweave/internal/common"
	"github.com/finweave/finweave/internal/model"
)

// ValidateProposal parses and sanitizes a proposal arriving as JSON text,
// typically from the text-generation assist. The output is never trusted as
// ground truth: surrounding prose is stripped, field types default to
// string, relationships with malformed or dangling endpoints are dropped,
// and duplicates are removed. A payload without a recommendedTables array is
// the one fatal condition.
func ValidateProposal(data []byte) (*model.Proposal, error) {
	payload := extractJSONObject(string(data))
	if payload == "" {
		return nil, fmt.Errorf("%w: no JSON object found", common.ErrProposalUnparseable)
	}

	var p model.Proposal
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrProposalUnparseable, err)
	}

	if p.RecommendedTables == nil {
		return nil, common.ErrMissingTables
	}

	tables := p.RecommendedTables[:0]
	for _, table := range p.RecommendedTables {
		if strings.TrimSpace(table.Name) == "" {
			continue
		}
		for i := range table.Fields {
			if table.Fields[i].Type == "" {
				table.Fields[i].Type = "string"
			}
		}
		tables = append(tables, table)
	}
	p.RecommendedTables = tables

	seen := make(map[string]bool)
	rels := p.Relationships[:0]
	for _, rel := range p.Relationships {
		fromTable, _, okFrom := SplitEndpoint(rel.From)
		toTable, _, okTo := SplitEndpoint(rel.To)
		if !okFrom || !okTo {
			continue
		}
		if p.Table(fromTable) == nil || p.Table(toTable) == nil {
			continue
		}
		key := rel.From + "->" + rel.To
		if seen[key] {
			continue
		}
		seen[key] = true
		rels = append(rels, rel)
	}
	p.Relationships = rels

	return &p, nil
}

// extractJSONObject returns the outermost {...} block of a text, tolerating
// prose or code fences around it.
func extractJSONObject(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}
