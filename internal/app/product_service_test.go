package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/four2theizz0/gearz/internal/clock"
	"github.com/four2theizz0/gearz/internal/domain"
)

func TestProductService_CreateProduct(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	baseInput := func() CreateProductInput {
		return CreateProductInput{
			Name:        "Boxing gloves",
			Description: "16oz, lightly used",
			Price:       decimal.NewFromInt(60),
			Inventory:   1,
			Category:    "Gloves",
			Quality:     "Good",
		}
	}

	t.Run("creates product with uploaded images", func(t *testing.T) {
		repo := newFakeProductRepo()
		uploader := &fakeUploader{urls: []string{"https://ik.example/a.jpg", "https://ik.example/b.jpg"}}
		svc := NewProductService(repo, newFakeHoldRepo(), uploader, clock.NewFixed(now))

		in := baseInput()
		in.Images = []ImageUpload{
			{Filename: "a.jpg", Data: []byte("aa")},
			{Filename: "b.jpg", Data: []byte("bb")},
		}

		p, err := svc.CreateProduct(context.Background(), in)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if p.ID == "" {
			t.Fatalf("expected product ID assigned")
		}
		if p.ImageURLs[0] != "https://ik.example/a.jpg" || p.ImageURLs[1] != "https://ik.example/b.jpg" {
			t.Fatalf("unexpected image slots: %v", p.ImageURLs)
		}
	})

	t.Run("upload failure keeps the listing", func(t *testing.T) {
		repo := newFakeProductRepo()
		uploader := &fakeUploader{err: errors.New("imagekit down")}
		svc := NewProductService(repo, newFakeHoldRepo(), uploader, clock.NewFixed(now))

		in := baseInput()
		in.Images = []ImageUpload{{Filename: "a.jpg", Data: []byte("aa")}}

		p, err := svc.CreateProduct(context.Background(), in)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if p.ImageURLs != [4]string{} {
			t.Fatalf("expected no images stored, got %v", p.ImageURLs)
		}
	})

	t.Run("validation", func(t *testing.T) {
		svc := NewProductService(newFakeProductRepo(), newFakeHoldRepo(), nil, clock.NewFixed(now))

		in := baseInput()
		in.Name = ""
		if _, err := svc.CreateProduct(context.Background(), in); !errors.Is(err, domain.ErrMissingRequiredField) {
			t.Fatalf("expected ErrMissingRequiredField, got %v", err)
		}

		in = baseInput()
		in.Price = decimal.Zero
		if _, err := svc.CreateProduct(context.Background(), in); !errors.Is(err, domain.ErrInvalidPrice) {
			t.Fatalf("expected ErrInvalidPrice, got %v", err)
		}

		in = baseInput()
		in.Inventory = -1
		if _, err := svc.CreateProduct(context.Background(), in); !errors.Is(err, domain.ErrInvalidInventory) {
			t.Fatalf("expected ErrInvalidInventory, got %v", err)
		}
	})
}

func TestProductService_ListProducts(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	future := now.Add(time.Hour)

	repo := newFakeProductRepo(
		domain.Product{ID: "rec-1", Name: "Gloves", Inventory: 1},
		domain.Product{ID: "rec-2", Name: "Headgear", Inventory: 0},
		domain.Product{ID: "rec-3", Name: "Shin guards", Inventory: 1},
	)
	holds := newFakeHoldRepo(domain.Hold{
		ID:         "hold-1",
		ProductIDs: []string{"rec-3"},
		Status:     domain.HoldStatusActive,
		ExpiresAt:  &future,
	})
	svc := NewProductService(repo, holds, nil, clock.NewFixed(now))

	list, err := svc.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	want := map[string]domain.Availability{
		"rec-1": domain.AvailabilityActive,
		"rec-2": domain.AvailabilitySold,
		"rec-3": domain.AvailabilityOnHold,
	}
	if len(list) != len(want) {
		t.Fatalf("expected %d products, got %d", len(want), len(list))
	}
	for _, item := range list {
		if item.Status != want[item.Product.ID] {
			t.Fatalf("product %s: expected %s, got %s", item.Product.ID, want[item.Product.ID], item.Status)
		}
	}
}

func TestProductService_MarkSold(t *testing.T) {
	t.Parallel()

	repo := newFakeProductRepo(domain.Product{ID: "rec-1", Inventory: 3})
	svc := NewProductService(repo, newFakeHoldRepo(), nil, clock.NewFixed(time.Now()))

	p, err := svc.MarkSold(context.Background(), "rec-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if p.Inventory != 0 {
		t.Fatalf("expected inventory zeroed, got %d", p.Inventory)
	}
}

func TestProductService_FieldValues(t *testing.T) {
	t.Parallel()

	repo := newFakeProductRepo(
		domain.Product{ID: "rec-1", Category: "Gloves", Brand: "Fairtex"},
		domain.Product{ID: "rec-2", Category: "Gloves ", Brand: "Twins"},
		domain.Product{ID: "rec-3", Category: "Headgear", Brand: ""},
	)
	svc := NewProductService(repo, newFakeHoldRepo(), nil, clock.NewFixed(time.Now()))

	values, err := svc.FieldValues(context.Background(), "category")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(values) != 2 || values[0] != "Gloves" || values[1] != "Headgear" {
		t.Fatalf("expected deduplicated sorted values, got %v", values)
	}

	brands, err := svc.FieldValues(context.Background(), "brand")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(brands) != 2 {
		t.Fatalf("empty values must be dropped, got %v", brands)
	}

	if _, err := svc.FieldValues(context.Background(), "price"); !errors.Is(err, domain.ErrInvalidFieldName) {
		t.Fatalf("expected ErrInvalidFieldName, got %v", err)
	}
}

func TestProductService_UpdateProduct(t *testing.T) {
	t.Parallel()

	repo := newFakeProductRepo(domain.Product{ID: "rec-1", Name: "Gloves", Price: decimal.NewFromInt(60), Inventory: 1})
	svc := NewProductService(repo, newFakeHoldRepo(), nil, clock.NewFixed(time.Now()))

	bad := decimal.NewFromInt(-5)
	if _, err := svc.UpdateProduct(context.Background(), "rec-1", ProductPatch{Price: &bad}); !errors.Is(err, domain.ErrInvalidPrice) {
		t.Fatalf("expected ErrInvalidPrice, got %v", err)
	}

	newName := "Sparring gloves"
	price := decimal.NewFromInt(75)
	p, err := svc.UpdateProduct(context.Background(), "rec-1", ProductPatch{Name: &newName, Price: &price})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if p.Name != newName || !p.Price.Equal(price) {
		t.Fatalf("patch not applied: %+v", p)
	}
}
