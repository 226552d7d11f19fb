package listings

import (
	"cmp"
	"slices"

	"roomies/internal/domain/geo"
)

// Ranked is a listing in result order with its distance from the visitor,
// when the result was ranked geographically.
type Ranked struct {
	Listing  *Listing
	Distance *float64
}

// RankByDistance drops listings without coordinates and stable-sorts the
// rest by great-circle distance from origin. Ties keep corpus order.
func RankByDistance(candidates []*Listing, origin geo.Coordinate, order SortOrder) []Ranked {
	ranked := make([]Ranked, 0, len(candidates))
	for _, listing := range candidates {
		position, ok := listing.Position()
		if !ok {
			continue
		}
		distance := geo.DistanceKm(origin, position)
		ranked = append(ranked, Ranked{Listing: listing, Distance: &distance})
	}
	slices.SortStableFunc(ranked, func(a, b Ranked) int {
		return directed(cmp.Compare(*a.Distance, *b.Distance), order)
	})
	return ranked
}

// SortByPrice stable-sorts by price and keeps at most limit entries.
func SortByPrice(candidates []*Listing, order SortOrder, limit int) []Ranked {
	return sortAndLimit(candidates, limit, func(a, b *Listing) int {
		return directed(cmp.Compare(a.Price, b.Price), order)
	})
}

// SortByName stable-sorts by name (byte-wise) and keeps at most limit entries.
func SortByName(candidates []*Listing, order SortOrder, limit int) []Ranked {
	return sortAndLimit(candidates, limit, func(a, b *Listing) int {
		return directed(cmp.Compare(a.Name, b.Name), order)
	})
}

func sortAndLimit(candidates []*Listing, limit int, compare func(a, b *Listing) int) []Ranked {
	sorted := slices.Clone(candidates)
	slices.SortStableFunc(sorted, compare)
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	ranked := make([]Ranked, 0, len(sorted))
	for _, listing := range sorted {
		ranked = append(ranked, Ranked{Listing: listing})
	}
	return ranked
}

func directed(c int, order SortOrder) int {
	if order == Descending {
		return -c
	}
	return c
}
