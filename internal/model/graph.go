package model

// GraphNode is one table rendered as a node. The field list is the graph's
// own copy; foreign-key hints added at build time never touch the proposal.
type GraphNode struct {
	ID     string // "table:<slug>"
	Label  string
	Fields []FieldDef
}

// GraphEdge is one relationship rendered as an edge.
type GraphEdge struct {
	ID        string // "rel:<index>:<from-slug>:<to-slug>"
	From      string // Node ID
	To        string // Node ID
	FromField string
	ToField   string
	Type      string
}

// Graph is a derived, disposable projection of a Proposal for visualization.
// It is recomputed on every proposal change and is never the source of truth.
type Graph struct {
	Nodes []GraphNode
	Edges []GraphEdge
}
