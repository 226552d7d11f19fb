package memory

import (
	"context"
	"errors"
	"testing"

	domainlistings "roomies/internal/domain/listings"
	domainuser "roomies/internal/domain/user"
)

const fixturesJSON = `[
  {"_id": "a1", "name": "Kos Melati", "location": "Depok", "price": 1500000, "description": "Near UI campus", "fasilitas": ["Wifi"], "pictures": ["melati.jpg"], "coordinates": [106.8272, -6.3606]},
  {"_id": "a2", "name": "Wisma Mawar", "location": "Jakarta Selatan", "price": 2500000, "description": "Quiet apartment"},
  {"name": "Griya Anggrek", "location": "Bandung", "price": 900000, "description": "Cozy apartment near Dago", "coordinates": [107.6191, -6.9175]}
]`

func TestLoadFixtures_ImportsInOrder(t *testing.T) {
	t.Parallel()

	repo := NewListingRepository()
	n, err := repo.LoadFixtures(context.Background(), []byte(fixturesJSON))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if n != 3 {
		t.Fatalf("imported=%d want=3", n)
	}

	all, err := repo.All(context.Background())
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(all) != 3 || all[0].ID != "a1" || all[1].ID != "a2" || all[2].Name != "Griya Anggrek" {
		t.Fatalf("order=%v", all)
	}
	if all[2].ID == "" {
		t.Fatal("missing id must be generated")
	}
	if all[0].Coordinates == nil || all[0].Coordinates[0] != 106.8272 {
		t.Fatalf("coordinates=%v", all[0].Coordinates)
	}
	if all[1].Coordinates != nil {
		t.Fatal("listing without coordinates must stay without")
	}
}

func TestLoadFixtures_RejectsInvalidDocuments(t *testing.T) {
	t.Parallel()

	cases := []string{
		`{"name": "not an array"}`,
		`[{"location": "no name", "price": 1}]`,
		`[{"name": "negative", "location": "x", "price": -5}]`,
		`[{"name": "bad coords", "location": "x", "price": 1, "coordinates": [1]}]`,
		`[{"name": "lat out of range", "location": "x", "price": 1, "coordinates": [10, 95]}]`,
	}
	for _, doc := range cases {
		repo := NewListingRepository()
		if _, err := repo.LoadFixtures(context.Background(), []byte(doc)); err == nil {
			t.Fatalf("fixture %s accepted", doc)
		}
	}
}

func TestSearch_MatchesAnyTermIgnoringCase(t *testing.T) {
	t.Parallel()

	repo := NewListingRepository()
	if _, err := repo.LoadFixtures(context.Background(), []byte(fixturesJSON)); err != nil {
		t.Fatalf("load: %v", err)
	}

	got, err := repo.Search(context.Background(), "APARTMENT")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 2 || got[0].ID != "a2" {
		t.Fatalf("matches=%v", got)
	}

	got, err = repo.Search(context.Background(), "depok bandung")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("matches=%d want=2", len(got))
	}

	got, err = repo.Search(context.Background(), "   ")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("blank search matched %d listings", len(got))
	}
}

func TestByID(t *testing.T) {
	t.Parallel()

	repo := NewListingRepository()
	if err := repo.Save(context.Background(), &domainlistings.Listing{ID: "x", Name: "X", Facilities: []string{"Gym"}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := repo.ByID(context.Background(), "x")
	if err != nil {
		t.Fatalf("by id: %v", err)
	}
	got.Facilities[0] = "mutated"
	again, _ := repo.ByID(context.Background(), "x")
	if again.Facilities[0] != "Gym" {
		t.Fatal("repository leaked internal state")
	}
	if _, err := repo.ByID(context.Background(), "missing"); !errors.Is(err, domainlistings.ErrNotFound) {
		t.Fatalf("err=%v want ErrNotFound", err)
	}
}

func TestUserRepository(t *testing.T) {
	t.Parallel()

	repo := NewUserRepository()
	u := &domainuser.User{Email: "Sari@Example.com", PasswordHash: "h", FirstName: "Sari"}
	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.ID == "" {
		t.Fatal("id not assigned")
	}
	if err := repo.Create(context.Background(), &domainuser.User{Email: "sari@example.com", PasswordHash: "h", FirstName: "S"}); !errors.Is(err, domainuser.ErrEmailAlreadyUsed) {
		t.Fatalf("err=%v want ErrEmailAlreadyUsed", err)
	}
	got, err := repo.ByEmail(context.Background(), " SARI@example.com ")
	if err != nil || got.ID != u.ID {
		t.Fatalf("by email: %v %v", got, err)
	}
	if _, err := repo.ByID(context.Background(), "nope"); !errors.Is(err, domainuser.ErrNotFound) {
		t.Fatalf("err=%v want ErrNotFound", err)
	}
}
