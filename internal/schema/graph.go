// Package schema builds and reconciles the business-data model: proposal
// validation, graph projection, copy-on-write edits, and dataset linking.
package schema

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/finweave/finweave/internal/model"
)

// GraphOptions controls graph projection.
type GraphOptions struct {
	// FKFieldHints synthesizes a foreign-key-typed field on a relationship's
	// source table when no field of that name exists. Hints live on the
	// graph's copy of the field lists only; the proposal is never touched.
	FKFieldHints bool
}

// DefaultGraphOptions enables foreign-key field hints.
func DefaultGraphOptions() *GraphOptions {
	return &GraphOptions{FKFieldHints: true}
}

// BuildGraph projects a proposal into a visualization graph. Node and edge
// ids are deterministic, so two builds over the same proposal are identical.
// A proposal without recommended tables yields an empty graph rather than an
// error, so visualization never fails on an in-flight or malformed proposal.
func BuildGraph(p *model.Proposal, opts *GraphOptions) model.Graph {
	if opts == nil {
		opts = DefaultGraphOptions()
	}
	if p == nil || p.RecommendedTables == nil {
		slog.Warn("Proposal has no recommended tables, rendering empty graph")
		return model.Graph{Nodes: []model.GraphNode{}, Edges: []model.GraphEdge{}}
	}

	// Slug collisions between distinct table names get a numeric suffix;
	// tables are never silently merged.
	slugByTable := make(map[string]string, len(p.RecommendedTables))
	used := make(map[string]int)
	nodes := make([]model.GraphNode, 0, len(p.RecommendedTables))
	nodeIndex := make(map[string]int)

	for _, table := range p.RecommendedTables {
		slug := Slugify(table.Name)
		used[slug]++
		if used[slug] > 1 {
			slug = fmt.Sprintf("%s-%d", slug, used[slug])
		}
		slugByTable[table.Name] = slug

		fields := make([]model.FieldDef, len(table.Fields))
		copy(fields, table.Fields)

		nodeIndex[table.Name] = len(nodes)
		nodes = append(nodes, model.GraphNode{
			ID:     "table:" + slug,
			Label:  table.Name,
			Fields: fields,
		})
	}

	// Duplicate relationships are kept as-is; dedup is an edit-time concern.
	edges := make([]model.GraphEdge, 0, len(p.Relationships))
	for i, rel := range p.Relationships {
		fromTable, fromField, okFrom := SplitEndpoint(rel.From)
		toTable, toField, okTo := SplitEndpoint(rel.To)
		if !okFrom || !okTo {
			continue
		}
		fromSlug, fromExists := slugByTable[fromTable]
		toSlug, toExists := slugByTable[toTable]
		if !fromExists || !toExists {
			continue
		}

		edges = append(edges, model.GraphEdge{
			ID:        fmt.Sprintf("rel:%d:%s:%s", i, fromSlug, toSlug),
			From:      "table:" + fromSlug,
			To:        "table:" + toSlug,
			FromField: fromField,
			ToField:   toField,
			Type:      rel.Type,
		})

		if opts.FKFieldHints {
			idx := nodeIndex[fromTable]
			if !hasField(nodes[idx].Fields, fromField) {
				nodes[idx].Fields = append(nodes[idx].Fields, model.FieldDef{
					Name:       fromField,
					Type:       "foreign_key",
					References: rel.To,
				})
			}
		}
	}

	return model.Graph{Nodes: nodes, Edges: edges}
}

// Slugify normalizes a display name into an id-safe slug: lower case, runs
// of non-alphanumerics collapsed to a single hyphen, edge hyphens trimmed.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(name) {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if isAlnum {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// SplitEndpoint splits a "Table.field" endpoint. The field is everything
// after the last dot, so table names containing dots stay intact.
func SplitEndpoint(endpoint string) (table, field string, ok bool) {
	idx := strings.LastIndex(endpoint, ".")
	if idx <= 0 || idx == len(endpoint)-1 {
		return "", "", false
	}
	return endpoint[:idx], endpoint[idx+1:], true
}

func hasField(fields []model.FieldDef, name string) bool {
	for _, f := range fields {
		if f.Name == name {
			return true
		}
	}
	return false
}
