package types

// ListResult is one page of rows. Total is set for offset paging,
// HasMore for keyset paging; never both.
type ListResult[T any] struct {
	Rows    []T
	Total   *uint64
	HasMore *bool
	Page    uint64
	Limit   uint64
}
