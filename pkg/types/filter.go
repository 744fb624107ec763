package types

// ListOptions are the recognized list query parameters, already defaulted.
type ListOptions struct {
	Search    string            `json:"search,omitempty"`
	Filters   map[string]string `json:"filters,omitempty"`
	DateRange string            `json:"dateRange,omitempty"`
	StartDate string            `json:"startDate,omitempty"`
	EndDate   string            `json:"endDate,omitempty"`
	SortBy    string            `json:"sort_by,omitempty"`
	SortOrder string            `json:"sort_order,omitempty"`
	Page      uint64            `json:"page"`
	Limit     uint64            `json:"itemsPerPage"`
	Offset    uint64            `json:"offset"`
	LastDate  string            `json:"lastDate,omitempty"`
}

// Keyset reports whether the request pages by lastDate instead of offset.
func (o ListOptions) Keyset() bool {
	return o.LastDate != ""
}
