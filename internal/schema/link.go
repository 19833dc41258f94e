package schema

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/finweave/finweave/internal/model"
)

// Archetype is one of the fixed business-entity categories used for
// heuristic table-type detection.
type Archetype string

// Known archetypes.
const (
	ArchetypeSessions  Archetype = "sessions"
	ArchetypeBookings  Archetype = "bookings"
	ArchetypePayments  Archetype = "payments"
	ArchetypeCustomers Archetype = "customers"
	ArchetypeCoaches   Archetype = "coaches"
)

// archetypePatterns is tested in order; the first matching archetype wins.
var archetypePatterns = []struct {
	Archetype Archetype
	Pattern   *regexp.Regexp
}{
	{ArchetypePayments, regexp.MustCompile(`(?i)payment|zahlung|invoice|rechnung|transaktion|umsatz`)},
	{ArchetypeBookings, regexp.MustCompile(`(?i)booking|buchung|appointment|termin|reservation`)},
	{ArchetypeSessions, regexp.MustCompile(`(?i)session|sitzung|class|kurs|training|stunde`)},
	{ArchetypeCustomers, regexp.MustCompile(`(?i)customer|kunde|client|klient|member|mitglied|teilnehmer`)},
	{ArchetypeCoaches, regexp.MustCompile(`(?i)coach|trainer|instructor|dozent|mitarbeiter`)},
}

// upstreamTables keeps the graph connected: linking an archetype ensures its
// minimal upstream tables exist, each with a single identifier field.
var upstreamTables = map[Archetype][]Archetype{
	ArchetypeBookings: {ArchetypeSessions, ArchetypeCustomers},
	ArchetypePayments: {ArchetypeBookings, ArchetypeCustomers},
}

// archetypeAdjacency is the fixed relationship table per archetype.
var archetypeAdjacency = map[Archetype][]model.RelationshipDef{
	ArchetypePayments: {
		{From: "payments.booking_id", To: "bookings.booking_id"},
		{From: "payments.customer_id", To: "customers.customer_id"},
	},
	ArchetypeBookings: {
		{From: "bookings.session_id", To: "sessions.session_id"},
		{From: "bookings.customer_id", To: "customers.customer_id"},
	},
	ArchetypeSessions: {
		{From: "sessions.coach_id", To: "coaches.coach_id"},
	},
}

// identifierField returns the single identifier field name for an archetype
// table, e.g. bookings -> booking_id.
func identifierField(a Archetype) string {
	if a == ArchetypeCoaches {
		return "coach_id"
	}
	return strings.TrimSuffix(string(a), "s") + "_id"
}

// SheetInfo describes one parsed sheet for reconciliation.
type SheetInfo struct {
	Name    string
	Columns []string
}

// LinkResult is the outcome of single-sheet reconciliation. The caller
// decides whether to accept the updated model.
type LinkResult struct {
	UpdatedModel           *model.Proposal
	TargetTable            string
	SuggestedRelationships []model.RelationshipDef
}

// DetectTableType classifies a sheet into an archetype using the regex
// families over the sheet name and its columns. Bookings is the default when
// nothing matches.
func DetectTableType(name string, columns []string) Archetype {
	haystack := name + " " + strings.Join(columns, " ")
	for _, ap := range archetypePatterns {
		if ap.Pattern.MatchString(haystack) {
			return ap.Archetype
		}
	}
	return ArchetypeBookings
}

// LinkSheet reconciles a single parsed sheet with the model. The model is
// cloned first; the caller's copy shares no mutable state with the result.
func LinkSheet(p *model.Proposal, sheet SheetInfo) LinkResult {
	clone := cloneProposal(p)

	targetTable, archetype := resolveTarget(clone, sheet)

	ensureTable(clone, targetTable, sheet.Columns)

	for _, upstream := range upstreamTables[archetype] {
		if clone.Table(string(upstream)) == nil {
			ensureTable(clone, string(upstream), []string{identifierField(upstream)})
		}
	}

	var suggested []model.RelationshipDef
	for _, rel := range archetypeAdjacency[archetype] {
		toTable, _, ok := SplitEndpoint(rel.To)
		if !ok || clone.Table(toTable) == nil {
			continue
		}
		if hasRelationship(clone.Relationships, rel) {
			continue
		}
		clone.Relationships = append(clone.Relationships, rel)
		suggested = append(suggested, rel)
	}

	clone.Meta.Notes = append(clone.Meta.Notes,
		fmt.Sprintf("Linked sheet %q to table %q (%d relationship suggestions)",
			sheet.Name, targetTable, len(suggested)))

	return LinkResult{
		UpdatedModel:           clone,
		TargetTable:            targetTable,
		SuggestedRelationships: suggested,
	}
}

// resolveTarget finds the table a sheet belongs to: first by singularized
// name match against existing tables, then by archetype detection.
func resolveTarget(p *model.Proposal, sheet SheetInfo) (string, Archetype) {
	singular := singularize(strings.ToLower(strings.TrimSpace(sheet.Name)))
	for _, table := range p.RecommendedTables {
		lower := strings.ToLower(table.Name)
		if lower == singular || strings.Contains(lower, singular) || strings.Contains(singular, lower) {
			return table.Name, DetectTableType(table.Name, sheet.Columns)
		}
	}
	archetype := DetectTableType(sheet.Name, sheet.Columns)
	return string(archetype), archetype
}

// ensureTable creates the table with string-typed fields if absent, or
// appends only the columns not already present. Existing field definitions
// are never overwritten.
func ensureTable(p *model.Proposal, name string, columns []string) {
	t := p.Table(name)
	if t == nil {
		fields := make([]model.FieldDef, 0, len(columns))
		for _, column := range columns {
			fields = append(fields, model.FieldDef{Name: column, Type: "string"})
		}
		p.RecommendedTables = append(p.RecommendedTables, model.TableDef{
			Name:   name,
			Fields: fields,
		})
		return
	}
	for _, column := range columns {
		if !hasField(t.Fields, column) {
			t.Fields = append(t.Fields, model.FieldDef{Name: column, Type: "string"})
		}
	}
}

// AutoLink associates every table of the model with the first dataset that
// satisfies, in order: detected-table name match, sheet-name match, display
// name containment. Tables with no satisfying dataset are marked unlinked,
// which is a state, not an error. The operation is idempotent: the same
// inputs always yield the same assignments.
func AutoLink(p *model.Proposal, datasets []model.LinkedDataset) *model.Proposal {
	clone := cloneProposal(p)

	for i := range clone.RecommendedTables {
		table := &clone.RecommendedTables[i]
		table.IsLinked = false
		table.LinkedDatasetID = ""

		for _, ds := range datasets {
			if matchesDataset(table.Name, ds) {
				table.IsLinked = true
				table.LinkedDatasetID = ds.ID
				break
			}
		}
	}
	return clone
}

func matchesDataset(tableName string, ds model.LinkedDataset) bool {
	if ds.DetectedTable != "" && containsEitherWay(tableName, ds.DetectedTable) {
		return true
	}
	if ds.SheetName != "" && containsEitherWay(tableName, ds.SheetName) {
		return true
	}
	return ds.Name != "" && containsEitherWay(tableName, ds.Name)
}

func containsEitherWay(a, b string) bool {
	la, lb := strings.ToLower(strings.TrimSpace(a)), strings.ToLower(strings.TrimSpace(b))
	if la == "" || lb == "" {
		return false
	}
	return strings.Contains(la, lb) || strings.Contains(lb, la)
}

func hasRelationship(rels []model.RelationshipDef, rel model.RelationshipDef) bool {
	for _, existing := range rels {
		if existing.From == rel.From && existing.To == rel.To {
			return true
		}
	}
	return false
}

// singularize strips a simple plural suffix for table-name matching. It is a
// heuristic, not a stemmer; archetype detection backs it up.
func singularize(name string) string {
	switch {
	case strings.HasSuffix(name, "ies"):
		return strings.TrimSuffix(name, "ies") + "y"
	case strings.HasSuffix(name, "sses"):
		return strings.TrimSuffix(name, "es")
	case strings.HasSuffix(name, "s") && !strings.HasSuffix(name, "ss"):
		return strings.TrimSuffix(name, "s")
	}
	return name
}
