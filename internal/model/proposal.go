package model

// FieldDef describes one column of a proposed table.
type FieldDef struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	References string `json:"references,omitempty"` // "Table.field"
	Nullable   bool   `json:"nullable,omitempty"`
	PrimaryKey bool   `json:"primaryKey,omitempty"`
}

// TableDef describes one table of a proposed business-data model.
// IsLinked and LinkedDatasetID are advisory metadata written by auto-link;
// a table may exist with no linked dataset.
type TableDef struct {
	Name            string     `json:"name"`
	FileMapping     string     `json:"fileMapping,omitempty"`
	LinkedDatasetID string     `json:"linkedDatasetId,omitempty"`
	Fields          []FieldDef `json:"fields"`
	IsLinked        bool       `json:"isLinked,omitempty"`
}

// RelationshipDef connects two table fields, each written as "Table.field".
type RelationshipDef struct {
	From string `json:"from"`
	To   string `json:"to"`
	Type string `json:"type,omitempty"`
}

// ProposalMeta carries provenance and the append-only reconciliation notes.
type ProposalMeta struct {
	GeneratedBy string   `json:"generatedBy,omitempty"`
	Notes       []string `json:"notes,omitempty"`
}

// Proposal is the editable business schema for a workspace. It is mutated
// only through the copy-on-write edit operations in the schema package.
type Proposal struct {
	BusinessType      string            `json:"businessType"`
	RecommendedTables []TableDef        `json:"recommendedTables"`
	Relationships     []RelationshipDef `json:"relationships"`
	Meta              ProposalMeta      `json:"meta"`
}

// Table returns a pointer to the named table, or nil. Matching is exact.
func (p *Proposal) Table(name string) *TableDef {
	for i := range p.RecommendedTables {
		if p.RecommendedTables[i].Name == name {
			return &p.RecommendedTables[i]
		}
	}
	return nil
}

// LinkedDataset is the identity record of an uploaded dataset, used by
// auto-link to associate uploads with proposed tables.
type LinkedDataset struct {
	ID            string
	Name          string // Display name shown to the user
	SheetName     string
	DetectedTable string // Detected or AI-suggested table name, may be empty
	Confidence    float64
	Columns       []string // Header row of the upload, for proposal prompts
}
