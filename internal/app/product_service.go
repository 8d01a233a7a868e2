package app

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/four2theizz0/gearz/internal/clock"
	"github.com/four2theizz0/gearz/internal/domain"
)

// ProductRepository is the full persistence surface for the catalog.
type ProductRepository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (domain.Product, error)
	CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error)
	UpdateProduct(ctx context.Context, id string, patch ProductPatch) (domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	SetInventoryZero(ctx context.Context, id string) (domain.Product, error)
}

// HoldReader supplies the hold set availability is derived from.
type HoldReader interface {
	ListHolds(ctx context.Context) ([]domain.Hold, error)
}

// Uploader pushes image bytes to the hosting service and returns the public
// URL.
type Uploader interface {
	Upload(ctx context.Context, filename string, data []byte) (string, error)
}

// ProductPatch is a partial update of a stored product. Nil fields are left
// untouched.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Inventory   *int
	Category    *string
	Quality     *string
	Brand       *string
	Size        *string
	Weight      *string
	Color       *string
	ImageURLs   *[4]string
	Status      *string
}

type ProductService struct {
	products ProductRepository
	holds    HoldReader
	uploader Uploader
	clock    clock.Clock
}

func NewProductService(products ProductRepository, holds HoldReader, uploader Uploader, clk clock.Clock) *ProductService {
	return &ProductService{
		products: products,
		holds:    holds,
		uploader: uploader,
		clock:    clk,
	}
}

type ImageUpload struct {
	Filename string
	Data     []byte
}

type CreateProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Inventory   int
	Category    string
	Quality     string
	Brand       string
	Size        string
	Weight      string
	Color       string
	// Images are uploaded in slot order, at most four.
	Images []ImageUpload
}

// CreateProduct validates and stores a new listing. Image uploads are
// best-effort: a failed upload drops the images rather than failing the
// listing, matching how the storefront has always behaved.
func (s *ProductService) CreateProduct(ctx context.Context, in CreateProductInput) (domain.Product, error) {
	if strings.TrimSpace(in.Name) == "" ||
		strings.TrimSpace(in.Description) == "" ||
		strings.TrimSpace(in.Category) == "" ||
		strings.TrimSpace(in.Quality) == "" {
		return domain.Product{}, domain.ErrMissingRequiredField
	}
	if in.Price.LessThanOrEqual(decimal.Zero) {
		return domain.Product{}, domain.ErrInvalidPrice
	}
	if in.Inventory < 0 {
		return domain.Product{}, domain.ErrInvalidInventory
	}

	product := domain.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		Inventory:   in.Inventory,
		Category:    strings.TrimSpace(in.Category),
		Quality:     strings.TrimSpace(in.Quality),
		Brand:       strings.TrimSpace(in.Brand),
		Size:        strings.TrimSpace(in.Size),
		Weight:      strings.TrimSpace(in.Weight),
		Color:       strings.TrimSpace(in.Color),
	}

	if s.uploader != nil {
		slot := 0
		for _, img := range in.Images {
			if slot >= len(product.ImageURLs) {
				break
			}
			if len(img.Data) == 0 {
				continue
			}
			url, err := s.uploader.Upload(ctx, img.Filename, img.Data)
			if err != nil {
				// Listing without images beats failing the listing.
				break
			}
			product.ImageURLs[slot] = url
			slot++
		}
	}

	return s.products.CreateProduct(ctx, product)
}

// UpdateProduct applies an admin edit.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, patch ProductPatch) (domain.Product, error) {
	if id == "" {
		return domain.Product{}, domain.ErrInvalidID
	}
	if patch.Price != nil && patch.Price.LessThanOrEqual(decimal.Zero) {
		return domain.Product{}, domain.ErrInvalidPrice
	}
	if patch.Inventory != nil && *patch.Inventory < 0 {
		return domain.Product{}, domain.ErrInvalidInventory
	}
	return s.products.UpdateProduct(ctx, id, patch)
}

// DeleteProduct removes a listing permanently.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidID
	}
	return s.products.DeleteProduct(ctx, id)
}

// MarkSold forces a product's inventory to zero so it renders as Sold
// everywhere.
func (s *ProductService) MarkSold(ctx context.Context, id string) (domain.Product, error) {
	if id == "" {
		return domain.Product{}, domain.ErrInvalidID
	}
	return s.products.SetInventoryZero(ctx, id)
}

// ProductWithStatus pairs a product with its effective availability.
type ProductWithStatus struct {
	Product domain.Product
	Status  domain.Availability
}

// ListProducts returns the catalog annotated with effective availability
// derived from the current hold set.
func (s *ProductService) ListProducts(ctx context.Context) ([]ProductWithStatus, error) {
	products, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	holds, err := s.holds.ListHolds(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	out := make([]ProductWithStatus, 0, len(products))
	for _, p := range products {
		out = append(out, ProductWithStatus{
			Product: p,
			Status:  domain.ResolveAvailability(p, holds, now),
		})
	}
	return out, nil
}

// GetProductWithStatus returns a single listing annotated with effective
// availability.
func (s *ProductService) GetProductWithStatus(ctx context.Context, id string) (ProductWithStatus, error) {
	if id == "" {
		return ProductWithStatus{}, domain.ErrInvalidID
	}
	product, err := s.products.GetProduct(ctx, id)
	if err != nil {
		return ProductWithStatus{}, err
	}
	holds, err := s.holds.ListHolds(ctx)
	if err != nil {
		return ProductWithStatus{}, err
	}
	return ProductWithStatus{
		Product: product,
		Status:  domain.ResolveAvailability(product, holds, s.clock.Now()),
	}, nil
}

// autocompleteFields are the product attributes exposed for form
// autocomplete.
var autocompleteFields = map[string]func(domain.Product) string{
	"category": func(p domain.Product) string { return p.Category },
	"quality":  func(p domain.Product) string { return p.Quality },
	"brand":    func(p domain.Product) string { return p.Brand },
	"size":     func(p domain.Product) string { return p.Size },
	"weight":   func(p domain.Product) string { return p.Weight },
	"color":    func(p domain.Product) string { return p.Color },
}

// FieldValues returns the distinct non-empty values of an allow-listed
// product field, sorted.
func (s *ProductService) FieldValues(ctx context.Context, field string) ([]string, error) {
	pick, ok := autocompleteFields[field]
	if !ok {
		return nil, domain.ErrInvalidFieldName
	}

	products, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	for _, p := range products {
		v := strings.TrimSpace(pick(p))
		if v == "" {
			continue
		}
		seen[v] = struct{}{}
	}

	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)
	return values, nil
}
