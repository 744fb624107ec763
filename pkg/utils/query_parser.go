package utils

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"repair-office/pkg/types"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

var reservedListParams = map[string]struct{}{
	"search": {}, "dateRange": {}, "startDate": {}, "endDate": {},
	"sort_by": {}, "sort_order": {}, "page": {}, "itemsPerPage": {}, "lastDate": {},
}

// ParseListOptions reads list parameters. page and itemsPerPage fall back to
// their defaults when absent, non-numeric or not positive.
func ParseListOptions(query url.Values) types.ListOptions {
	opts := types.ListOptions{
		Filters:   make(map[string]string),
		Search:    strings.TrimSpace(query.Get("search")),
		DateRange: query.Get("dateRange"),
		StartDate: query.Get("startDate"),
		EndDate:   query.Get("endDate"),
		SortBy:    query.Get("sort_by"),
		SortOrder: strings.ToLower(query.Get("sort_order")),
		LastDate:  query.Get("lastDate"),
		Page:      parsePositive(query.Get("page"), 1),
		Limit:     parsePositive(query.Get("itemsPerPage"), DefaultLimit),
	}
	if opts.Limit > MaxLimit {
		opts.Limit = MaxLimit
	}
	// Offset must stay representable as a signed 64-bit OFFSET.
	if maxPage := uint64(math.MaxInt64)/opts.Limit + 1; opts.Page > maxPage {
		opts.Page = maxPage
	}
	opts.Offset = (opts.Page - 1) * opts.Limit

	for key, values := range query {
		if _, reserved := reservedListParams[key]; reserved {
			continue
		}
		if len(values) == 0 || values[0] == "" {
			continue
		}
		opts.Filters[key] = values[0]
	}

	return opts
}

func parsePositive(raw string, fallback uint64) uint64 {
	if raw == "" {
		return fallback
	}
	n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || n == 0 {
		return fallback
	}
	return n
}

// ParseLimit parses a bounded positive limit such as ?limit=.
func ParseLimit(raw string, fallback, max uint64) uint64 {
	n := parsePositive(raw, fallback)
	if n > max {
		return max
	}
	return n
}
