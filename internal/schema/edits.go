package schema

import (
	"fmt"

	"github.com/finweave/finweave/internal/model"
)

// Every edit operation takes a proposal and returns a new one; the input is
// never mutated. Edits deep-clone up front, which also guarantees no array
// aliasing between the caller's copy and the result.

func cloneProposal(p *model.Proposal) *model.Proposal {
	if p == nil {
		return &model.Proposal{}
	}
	clone := &model.Proposal{
		BusinessType: p.BusinessType,
		Meta: model.ProposalMeta{
			GeneratedBy: p.Meta.GeneratedBy,
			Notes:       append([]string(nil), p.Meta.Notes...),
		},
	}
	if p.RecommendedTables != nil {
		clone.RecommendedTables = make([]model.TableDef, len(p.RecommendedTables))
		for i, table := range p.RecommendedTables {
			cloned := table
			cloned.Fields = append([]model.FieldDef(nil), table.Fields...)
			clone.RecommendedTables[i] = cloned
		}
	}
	if p.Relationships != nil {
		clone.Relationships = append([]model.RelationshipDef(nil), p.Relationships...)
	}
	return clone
}

// RenameField renames a field and rewrites every relationship endpoint that
// referenced the old name, so relationship integrity survives renames.
func RenameField(p *model.Proposal, table, oldName, newName string) *model.Proposal {
	clone := cloneProposal(p)

	t := clone.Table(table)
	if t == nil {
		return clone
	}
	for i := range t.Fields {
		if t.Fields[i].Name == oldName {
			t.Fields[i].Name = newName
		}
	}

	oldEndpoint := endpoint(table, oldName)
	newEndpoint := endpoint(table, newName)
	for i := range clone.Relationships {
		if clone.Relationships[i].From == oldEndpoint {
			clone.Relationships[i].From = newEndpoint
		}
		if clone.Relationships[i].To == oldEndpoint {
			clone.Relationships[i].To = newEndpoint
		}
	}
	return clone
}

// AddField appends a field to a table. Adding to an unknown table or adding
// a duplicate field name is a no-op on the clone.
func AddField(p *model.Proposal, table string, field model.FieldDef) *model.Proposal {
	clone := cloneProposal(p)

	t := clone.Table(table)
	if t == nil || hasField(t.Fields, field.Name) {
		return clone
	}
	if field.Type == "" {
		field.Type = "string"
	}
	t.Fields = append(t.Fields, field)
	return clone
}

// RemoveField removes a field and drops every relationship referencing it.
// No dangling endpoint may exist after any edit.
func RemoveField(p *model.Proposal, table, field string) *model.Proposal {
	clone := cloneProposal(p)

	t := clone.Table(table)
	if t == nil {
		return clone
	}
	kept := t.Fields[:0]
	for _, f := range t.Fields {
		if f.Name != field {
			kept = append(kept, f)
		}
	}
	t.Fields = kept

	removed := endpoint(table, field)
	rels := clone.Relationships[:0]
	for _, rel := range clone.Relationships {
		if rel.From == removed || rel.To == removed {
			continue
		}
		rels = append(rels, rel)
	}
	clone.Relationships = rels
	return clone
}

// AddRelationship appends a relationship unless one with the same from and
// to endpoints already exists.
func AddRelationship(p *model.Proposal, rel model.RelationshipDef) *model.Proposal {
	clone := cloneProposal(p)
	for _, existing := range clone.Relationships {
		if existing.From == rel.From && existing.To == rel.To {
			return clone
		}
	}
	clone.Relationships = append(clone.Relationships, rel)
	return clone
}

// RelationshipMatcher matches relationships by their endpoints. Empty parts
// are wildcards; every provided part must match exactly.
type RelationshipMatcher struct {
	From string
	To   string
}

func (m RelationshipMatcher) matches(rel model.RelationshipDef) bool {
	if m.From != "" && rel.From != m.From {
		return false
	}
	if m.To != "" && rel.To != m.To {
		return false
	}
	return true
}

// RemoveRelationships removes every relationship the matcher covers.
func RemoveRelationships(p *model.Proposal, matcher RelationshipMatcher) *model.Proposal {
	return RemoveRelationshipsFunc(p, matcher.matches)
}

// RemoveRelationshipsFunc removes every relationship the predicate accepts.
func RemoveRelationshipsFunc(p *model.Proposal, predicate func(model.RelationshipDef) bool) *model.Proposal {
	clone := cloneProposal(p)
	kept := clone.Relationships[:0]
	for _, rel := range clone.Relationships {
		if !predicate(rel) {
			kept = append(kept, rel)
		}
	}
	clone.Relationships = kept
	return clone
}

// UpsertFileMapping sets the source-file mapping on a table.
func UpsertFileMapping(p *model.Proposal, table, fileName string) *model.Proposal {
	clone := cloneProposal(p)
	if t := clone.Table(table); t != nil {
		t.FileMapping = fileName
	}
	return clone
}

func endpoint(table, field string) string {
	return fmt.Sprintf("%s.%s", table, field)
}
