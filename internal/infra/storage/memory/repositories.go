package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	domainlistings "roomies/internal/domain/listings"
)

// ListingRepository keeps listings in insertion order, which is the corpus
// order used to break ranking ties.
type ListingRepository struct {
	mu    sync.RWMutex
	order []domainlistings.ListingID
	items map[domainlistings.ListingID]*domainlistings.Listing
}

func NewListingRepository() *ListingRepository {
	return &ListingRepository{
		items: make(map[domainlistings.ListingID]*domainlistings.Listing),
	}
}

// Save stores or replaces a listing, assigning an ID when missing.
func (r *ListingRepository) Save(ctx context.Context, listing *domainlistings.Listing) error {
	if listing == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if strings.TrimSpace(string(listing.ID)) == "" {
		listing.ID = domainlistings.ListingID(uuid.NewString())
	}
	if _, exists := r.items[listing.ID]; !exists {
		r.order = append(r.order, listing.ID)
	}
	r.items[listing.ID] = cloneListing(listing)
	return nil
}

func (r *ListingRepository) All(ctx context.Context) ([]*domainlistings.Listing, error) {
	return r.collect(ctx, func(*domainlistings.Listing) bool { return true })
}

// Search returns listings where any query term occurs in the name,
// location or description, ignoring case.
func (r *ListingRepository) Search(ctx context.Context, text string) ([]*domainlistings.Listing, error) {
	terms := strings.Fields(strings.ToLower(text))
	if len(terms) == 0 {
		return []*domainlistings.Listing{}, nil
	}
	return r.collect(ctx, func(l *domainlistings.Listing) bool {
		haystack := strings.ToLower(strings.Join([]string{l.Name, l.Location, l.Description}, " "))
		for _, term := range terms {
			if strings.Contains(haystack, term) {
				return true
			}
		}
		return false
	})
}

func (r *ListingRepository) ByID(ctx context.Context, id domainlistings.ListingID) (*domainlistings.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	listing, ok := r.items[id]
	if !ok {
		return nil, domainlistings.ErrNotFound
	}
	return cloneListing(listing), nil
}

func (r *ListingRepository) collect(ctx context.Context, keep func(*domainlistings.Listing) bool) ([]*domainlistings.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainlistings.Listing, 0, len(r.order))
	for _, id := range r.order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		listing := r.items[id]
		if keep(listing) {
			out = append(out, cloneListing(listing))
		}
	}
	return out, nil
}

func cloneListing(l *domainlistings.Listing) *domainlistings.Listing {
	c := *l
	c.Facilities = append([]string(nil), l.Facilities...)
	c.Pictures = append([]string(nil), l.Pictures...)
	if l.Coordinates != nil {
		coords := *l.Coordinates
		c.Coordinates = &coords
	}
	return &c
}

var _ domainlistings.Repository = (*ListingRepository)(nil)
