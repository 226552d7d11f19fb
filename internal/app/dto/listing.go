package dto

import (
	domainlistings "roomies/internal/domain/listings"
)

// ListingDetail is the full view of a single listing.
type ListingDetail struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Location         string   `json:"location"`
	Price            string   `json:"price"`
	PriceDescription string   `json:"price_description"`
	Description      string   `json:"description"`
	Facilities       []string `json:"facilities"`
	Icons            []string `json:"icons"`
	Pictures         []string `json:"pictures"`
	Area             string   `json:"area,omitempty"`
	LoggedIn         bool     `json:"logged_in"`
}

func MapListingDetail(listing *domainlistings.Listing) ListingDetail {
	if listing == nil {
		return ListingDetail{}
	}
	detail := ListingDetail{
		ID:               string(listing.ID),
		Name:             listing.Name,
		Location:         listing.Location,
		Price:            FormatPrice(listing.Price),
		PriceDescription: listing.PriceDescription,
		Description:      listing.Description,
		Facilities:       append([]string{}, listing.Facilities...),
		Icons:            domainlistings.IconsFor(listing.Facilities),
		Pictures:         append([]string{}, listing.Pictures...),
	}
	if position, ok := listing.Position(); ok {
		detail.Area = position.Area()
	}
	return detail
}
