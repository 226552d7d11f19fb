package listings

import (
	"context"
	"errors"
	"strings"

	"roomies/internal/app/dto"
	"roomies/internal/app/queries"
	domainlistings "roomies/internal/domain/listings"
)

const getDetailKey = "listings.detail"

type GetDetailQuery struct {
	ListingID string
}

func (q GetDetailQuery) Key() string { return getDetailKey }

type GetDetailHandler struct {
	Listings domainlistings.Repository
}

func (h *GetDetailHandler) Handle(ctx context.Context, q GetDetailQuery) (dto.ListingDetail, error) {
	if h.Listings == nil {
		return dto.ListingDetail{}, errors.New("listings: detail handler not configured")
	}
	id := strings.TrimSpace(q.ListingID)
	if id == "" {
		return dto.ListingDetail{}, domainlistings.ErrNotFound
	}
	listing, err := h.Listings.ByID(ctx, domainlistings.ListingID(id))
	if err != nil {
		return dto.ListingDetail{}, err
	}
	return dto.MapListingDetail(listing), nil
}

var _ queries.Handler[GetDetailQuery, dto.ListingDetail] = (*GetDetailHandler)(nil)
