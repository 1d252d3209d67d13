package db

// SortKey is one SORTBY property of an FT.AGGREGATE query.
type SortKey struct {
	Field string
	Desc  bool
}

// AggregateQuery is the input for a sorted FT.AGGREGATE retrieval.
type AggregateQuery struct {
	IndexName string
	Query     string
	Load      []string
	SortBy    []SortKey
	Limit     int
}

// AggregateResult holds the rows of an FT.AGGREGATE reply in order.
type AggregateResult struct {
	Rows []map[string]string
}
