package dto

import (
	domainlistings "roomies/internal/domain/listings"
)

// ListingCard is the flat record rendered for each ranked listing.
type ListingCard struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Location   string   `json:"location"`
	Price      string   `json:"price"`
	Icons      []string `json:"icons"`
	Pictures   []string `json:"pictures"`
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

// SearchEcho mirrors the normalized request so pages can keep form state.
type SearchEcho struct {
	Query  string `json:"query"`
	Filter string `json:"filter"`
	Sort   string `json:"sort"`
	Limit  int    `json:"limit"`
}

// SearchPage is the result of a search, in ranking order.
type SearchPage struct {
	Items    []ListingCard `json:"items"`
	Request  SearchEcho    `json:"request"`
	LoggedIn bool          `json:"logged_in"`
}

// NearbyPage backs the listings index ("near you").
type NearbyPage struct {
	Items    []ListingCard `json:"items"`
	UserName string        `json:"user_name"`
	LoggedIn bool          `json:"logged_in"`
}

// MapSearchPage assembles cards preserving ranking order.
func MapSearchPage(ranked []domainlistings.Ranked, params domainlistings.SearchParams) SearchPage {
	return SearchPage{
		Items: MapCards(ranked),
		Request: SearchEcho{
			Query:  params.Query,
			Filter: params.Filter,
			Sort:   params.Sort(),
			Limit:  params.Limit,
		},
	}
}

func MapCards(ranked []domainlistings.Ranked) []ListingCard {
	items := make([]ListingCard, 0, len(ranked))
	for _, r := range ranked {
		card := MapListingCard(r.Listing)
		if r.Distance != nil {
			distance := *r.Distance
			card.DistanceKm = &distance
		}
		items = append(items, card)
	}
	return items
}

// MapListingCard copies domain data for rendering.
func MapListingCard(listing *domainlistings.Listing) ListingCard {
	if listing == nil {
		return ListingCard{}
	}
	return ListingCard{
		ID:       string(listing.ID),
		Name:     listing.Name,
		Location: listing.Location,
		Price:    FormatPrice(listing.Price),
		Icons:    domainlistings.IconsFor(listing.Facilities),
		Pictures: append([]string{}, listing.Pictures...),
	}
}
