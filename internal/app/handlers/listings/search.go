package listings

import (
	"context"
	"errors"
	"log/slog"

	"roomies/internal/app/dto"
	"roomies/internal/app/queries"
	domainlistings "roomies/internal/domain/listings"
)

const searchKey = "listings.search"

// SearchQuery is one search as received from the visitor.
type SearchQuery struct {
	Request  domainlistings.SearchRequest
	ClientIP string
}

func (q SearchQuery) Key() string { return searchKey }

// Announcement describes an answered search for analytics consumers.
func (q SearchQuery) Announcement(result any) (string, any, bool) {
	page, ok := result.(dto.SearchPage)
	if !ok {
		return "", nil, false
	}
	return page.Request.Query, searchPerformed{
		Query:   page.Request.Query,
		Sort:    page.Request.Sort,
		Limit:   page.Request.Limit,
		Results: len(page.Items),
	}, true
}

type searchPerformed struct {
	Query   string `json:"query"`
	Sort    string `json:"sort"`
	Limit   int    `json:"limit"`
	Results int    `json:"results"`
}

// SearchHandler merges text search, distance ranking and price/name
// ordering into one result list.
type SearchHandler struct {
	Listings domainlistings.Repository
	Locator  Locator
	Logger   *slog.Logger
}

func (h *SearchHandler) Handle(ctx context.Context, q SearchQuery) (dto.SearchPage, error) {
	if h.Listings == nil || h.Locator == nil {
		return dto.SearchPage{}, errors.New("listings: search handler not configured")
	}
	params, err := q.Request.Normalize()
	if err != nil {
		return dto.SearchPage{}, err
	}

	var ranked []domainlistings.Ranked
	switch {
	case params.Geographic():
		ranked, err = rankNearby(ctx, h.Listings, h.Locator, q.ClientIP, params.Query, params.Order)
	case params.SortBy == domainlistings.SortPrice:
		ranked, err = h.matchAndSort(ctx, params, domainlistings.SortByPrice)
	default:
		ranked, err = h.matchAndSort(ctx, params, domainlistings.SortByName)
	}
	if err != nil {
		return dto.SearchPage{}, err
	}

	if h.Logger != nil {
		h.Logger.Debug("search resolved", "query", params.Query, "sort", params.Sort(), "results", len(ranked))
	}
	return dto.MapSearchPage(ranked, params), nil
}

type sorter func(candidates []*domainlistings.Listing, order domainlistings.SortOrder, limit int) []domainlistings.Ranked

func (h *SearchHandler) matchAndSort(ctx context.Context, params domainlistings.SearchParams, sortFn sorter) ([]domainlistings.Ranked, error) {
	candidates, err := h.Listings.Search(ctx, params.Query)
	if err != nil {
		return nil, err
	}
	return sortFn(candidates, params.Order, params.Limit), nil
}

var _ queries.Handler[SearchQuery, dto.SearchPage] = (*SearchHandler)(nil)
