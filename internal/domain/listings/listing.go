package listings

import (
	"context"
	"errors"

	"roomies/internal/domain/geo"
)

var (
	ErrNotFound       = errors.New("listings: not found")
	ErrRepository     = errors.New("listings: repository failure")
	ErrInvalidRequest = errors.New("listings: invalid request")
)

type ListingID string

// Listing is a rentable property as persisted in the store.
type Listing struct {
	ID               ListingID
	Name             string
	Location         string
	Price            float64
	PriceDescription string
	Description      string
	Facilities       []string
	Pictures         []string
	Coordinates      *geo.LonLat
}

// Position returns the listing location as (lat, lon), or false when the
// listing has no stored coordinates.
func (l *Listing) Position() (geo.Coordinate, bool) {
	if l == nil || l.Coordinates == nil {
		return geo.Coordinate{}, false
	}
	return l.Coordinates.Coordinate(), true
}

// Repository is the read side of the listing store. Implementations wrap
// store-native failures with ErrRepository.
type Repository interface {
	All(ctx context.Context) ([]*Listing, error)
	Search(ctx context.Context, text string) ([]*Listing, error)
	ByID(ctx context.Context, id ListingID) (*Listing, error)
}
