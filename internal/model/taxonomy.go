package model

// TransactionType is the top level of the accounting taxonomy.
type TransactionType string

// Taxonomy types.
const (
	TypeRevenue TransactionType = "revenue"
	TypeCOGS    TransactionType = "cogs"
	TypeExpense TransactionType = "expense"
)

// Taxonomy subtypes. Revenue splits into subscription and one-time; costs
// split into direct costs and six expense subtypes.
const (
	SubtypeSubscription = "subscription"
	SubtypeOneTime      = "one-time"
	SubtypeDirect       = "direct"
	SubtypeSalaries     = "salaries"
	SubtypeMarketing    = "marketing"
	SubtypeSoftware     = "software"
	SubtypeRent         = "rent"
	SubtypeTravel       = "travel"
	SubtypeOther        = "other"
)

// Classification is a derived taxonomy tag for a transaction. It is computed
// on read from the transaction's text and sign and is never stored; identical
// inputs always produce an identical Classification.
type Classification struct {
	Type    TransactionType
	Subtype string
}
