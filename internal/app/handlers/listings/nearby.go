package listings

import (
	"context"
	"errors"

	"roomies/internal/app/dto"
	"roomies/internal/app/queries"
	domainlistings "roomies/internal/domain/listings"
)

const (
	nearbyKey          = "listings.nearby"
	DefaultNearbyLimit = 5
)

// NearbyQuery loads the listings closest to the visitor.
type NearbyQuery struct {
	ClientIP string
}

func (q NearbyQuery) Key() string { return nearbyKey }

// NearbyHandler backs the listings index page.
type NearbyHandler struct {
	Listings domainlistings.Repository
	Locator  Locator
	Limit    int
}

func (h *NearbyHandler) Handle(ctx context.Context, q NearbyQuery) (dto.NearbyPage, error) {
	if h.Listings == nil || h.Locator == nil {
		return dto.NearbyPage{}, errors.New("listings: nearby handler not configured")
	}
	ranked, err := rankNearby(ctx, h.Listings, h.Locator, q.ClientIP, "", domainlistings.Ascending)
	if err != nil {
		return dto.NearbyPage{}, err
	}
	if limit := h.limit(); len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return dto.NearbyPage{Items: dto.MapCards(ranked)}, nil
}

func (h *NearbyHandler) limit() int {
	if h.Limit > 0 {
		return h.Limit
	}
	return DefaultNearbyLimit
}

var _ queries.Handler[NearbyQuery, dto.NearbyPage] = (*NearbyHandler)(nil)
