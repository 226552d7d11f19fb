package listings

import (
	"fmt"
	"strconv"
	"strings"
)

// SortField is the closed set of orderings a search can request.
type SortField int

const (
	SortLocation SortField = iota
	SortPrice
	SortName
)

func (f SortField) String() string {
	switch f {
	case SortLocation:
		return "location"
	case SortPrice:
		return "price"
	default:
		return "name"
	}
}

type SortOrder int

const (
	Ascending SortOrder = iota
	Descending
)

func (o SortOrder) String() string {
	if o == Descending {
		return "desc"
	}
	return "asc"
}

const (
	DefaultSort  = "location-asc"
	DefaultLimit = 50
	maxLimit     = 1000
)

// SearchRequest carries the raw, optional parameters of a search.
// A nil field means the parameter was absent.
type SearchRequest struct {
	Query  *string
	Filter *string
	Sort   *string
	Limit  *string
}

// SearchParams is a normalized SearchRequest.
type SearchParams struct {
	Query  string
	Filter string
	SortBy SortField
	Order  SortOrder
	Limit  int
}

// Sort renders the normalized sort back in its wire form.
func (p SearchParams) Sort() string {
	return p.SortBy.String() + "-" + p.Order.String()
}

// Geographic reports whether the request is answered by distance ranking.
// Only the exact empty query counts as empty.
func (p SearchParams) Geographic() bool {
	return p.SortBy == SortLocation || p.Query == ""
}

// Normalize applies defaults and validates the request. Malformed sort or
// limit values yield ErrInvalidRequest.
func (r SearchRequest) Normalize() (SearchParams, error) {
	params := SearchParams{
		Filter: "all",
		Limit:  DefaultLimit,
	}
	if r.Query != nil {
		params.Query = *r.Query
	}
	if r.Filter != nil {
		params.Filter = *r.Filter
	}

	sort := DefaultSort
	if r.Sort != nil {
		sort = *r.Sort
	}
	field, order, ok := strings.Cut(sort, "-")
	if !ok {
		return SearchParams{}, fmt.Errorf("%w: sort %q must look like <field>-<asc|desc>", ErrInvalidRequest, sort)
	}
	params.SortBy = parseSortField(field)
	switch order {
	case "asc":
		params.Order = Ascending
	case "desc":
		params.Order = Descending
	default:
		return SearchParams{}, fmt.Errorf("%w: sort direction %q", ErrInvalidRequest, order)
	}

	if r.Limit != nil {
		limit, err := strconv.Atoi(*r.Limit)
		if err != nil {
			return SearchParams{}, fmt.Errorf("%w: limit %q is not a number", ErrInvalidRequest, *r.Limit)
		}
		if limit < 1 || limit > maxLimit {
			return SearchParams{}, fmt.Errorf("%w: limit %d out of range [1, %d]", ErrInvalidRequest, limit, maxLimit)
		}
		params.Limit = limit
	}
	return params, nil
}

func parseSortField(raw string) SortField {
	switch raw {
	case "location":
		return SortLocation
	case "price":
		return SortPrice
	default:
		return SortName
	}
}
