package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"roomies/internal/domain/geo"
	domainlistings "roomies/internal/domain/listings"
)

// ListingRepository reads the properties collection. Results come back in
// _id order so rankings break ties the same way on every request.
type ListingRepository struct {
	col *mongo.Collection
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	return &ListingRepository{col: db.Collection(listingsCollection)}
}

func (r *ListingRepository) All(ctx context.Context) ([]*domainlistings.Listing, error) {
	return r.find(ctx, bson.M{})
}

// Search runs a $text query against the name, location and description
// index.
func (r *ListingRepository) Search(ctx context.Context, text string) ([]*domainlistings.Listing, error) {
	return r.find(ctx, bson.M{"$text": bson.M{"$search": text}})
}

func (r *ListingRepository) ByID(ctx context.Context, id domainlistings.ListingID) (*domainlistings.Listing, error) {
	oid, err := primitive.ObjectIDFromHex(string(id))
	if err != nil {
		return nil, fmt.Errorf("%w: malformed id %q", domainlistings.ErrRepository, id)
	}
	var doc listingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainlistings.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", domainlistings.ErrRepository, err)
	}
	return doc.toListing(), nil
}

func (r *ListingRepository) find(ctx context.Context, filter bson.M) ([]*domainlistings.Listing, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainlistings.ErrRepository, err)
	}
	defer cur.Close(ctx)

	var out []*domainlistings.Listing
	for cur.Next(ctx) {
		var doc listingDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: decode listing: %v", domainlistings.ErrRepository, err)
		}
		out = append(out, doc.toListing())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domainlistings.ErrRepository, err)
	}
	return out, nil
}

type listingDocument struct {
	ID               primitive.ObjectID `bson:"_id"`
	Name             string             `bson:"name"`
	Location         string             `bson:"location"`
	Price            float64            `bson:"price"`
	PriceDescription string             `bson:"price_description,omitempty"`
	Description      string             `bson:"description,omitempty"`
	Facilities       []string           `bson:"fasilitas,omitempty"`
	Pictures         []string           `bson:"pictures,omitempty"`
	Coordinates      []float64          `bson:"coordinates,omitempty"`
}

func (d listingDocument) toListing() *domainlistings.Listing {
	listing := &domainlistings.Listing{
		ID:               domainlistings.ListingID(d.ID.Hex()),
		Name:             d.Name,
		Location:         d.Location,
		Price:            d.Price,
		PriceDescription: d.PriceDescription,
		Description:      d.Description,
		Facilities:       d.Facilities,
		Pictures:         d.Pictures,
	}
	if len(d.Coordinates) == 2 {
		listing.Coordinates = &geo.LonLat{d.Coordinates[0], d.Coordinates[1]}
	}
	return listing
}

var _ domainlistings.Repository = (*ListingRepository)(nil)
