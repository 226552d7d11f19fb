package listings

import (
	"context"

	"golang.org/x/sync/errgroup"

	"roomies/internal/domain/geo"
	domainlistings "roomies/internal/domain/listings"
)

// Locator resolves a client address to a coordinate. It never fails;
// unknown addresses resolve to geo.Origin.
type Locator interface {
	Resolve(ctx context.Context, ip string) geo.Coordinate
}

// rankNearby answers the geographic branch: the visitor lookup and the
// candidate fetch are independent and run side by side.
func rankNearby(
	ctx context.Context,
	repo domainlistings.Repository,
	locator Locator,
	clientIP string,
	text string,
	order domainlistings.SortOrder,
) ([]domainlistings.Ranked, error) {
	var (
		origin     geo.Coordinate
		candidates []*domainlistings.Listing
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		origin = locator.Resolve(gctx, clientIP)
		return nil
	})
	g.Go(func() error {
		var err error
		candidates, err = fetchCandidates(gctx, repo, text)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if text == "" {
		order = domainlistings.Ascending
	}
	return domainlistings.RankByDistance(candidates, origin, order), nil
}

func fetchCandidates(ctx context.Context, repo domainlistings.Repository, text string) ([]*domainlistings.Listing, error) {
	if text == "" {
		return repo.All(ctx)
	}
	return repo.Search(ctx, text)
}
