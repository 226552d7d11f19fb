package memory

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"roomies/internal/domain/geo"
	domainlistings "roomies/internal/domain/listings"
)

//go:embed listings.schema.json
var listingsSchemaJSON []byte

const listingsSchemaURL = "listings.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// listingFixture mirrors the document layout of the properties collection.
type listingFixture struct {
	ID               string    `json:"_id"`
	Name             string    `json:"name"`
	Location         string    `json:"location"`
	Price            float64   `json:"price"`
	PriceDescription string    `json:"price_description"`
	Description      string    `json:"description"`
	Facilities       []string  `json:"fasilitas"`
	Pictures         []string  `json:"pictures"`
	Coordinates      []float64 `json:"coordinates"`
}

// LoadFixtures validates data against the listing schema and saves every
// entry in file order. It returns the number of imported listings.
func (r *ListingRepository) LoadFixtures(ctx context.Context, data []byte) (int, error) {
	compiled, err := fixtureSchema()
	if err != nil {
		return 0, err
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return 0, fmt.Errorf("decode fixtures: %w", err)
	}
	if err := compiled.Validate(raw); err != nil {
		return 0, fmt.Errorf("invalid fixtures: %w", err)
	}

	var fixtures []listingFixture
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return 0, fmt.Errorf("decode fixtures: %w", err)
	}
	for _, fx := range fixtures {
		if err := r.Save(ctx, fx.toListing()); err != nil {
			return 0, err
		}
	}
	return len(fixtures), nil
}

func (fx listingFixture) toListing() *domainlistings.Listing {
	listing := &domainlistings.Listing{
		ID:               domainlistings.ListingID(fx.ID),
		Name:             fx.Name,
		Location:         fx.Location,
		Price:            fx.Price,
		PriceDescription: fx.PriceDescription,
		Description:      fx.Description,
		Facilities:       append([]string(nil), fx.Facilities...),
		Pictures:         append([]string(nil), fx.Pictures...),
	}
	if len(fx.Coordinates) == 2 {
		listing.Coordinates = &geo.LonLat{fx.Coordinates[0], fx.Coordinates[1]}
	}
	return listing
}

func fixtureSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(listingsSchemaURL, bytes.NewReader(listingsSchemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add fixture schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile(listingsSchemaURL)
	})
	return schema, schemaErr
}
