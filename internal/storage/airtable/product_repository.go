package airtable

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/four2theizz0/gearz/internal/app"
	"github.com/four2theizz0/gearz/internal/domain"
)

const DefaultProductsTable = "Products"

type ProductRepository struct {
	client *Client
	table  string
}

func NewProductRepository(client *Client, table string) *ProductRepository {
	if table == "" {
		table = DefaultProductsTable
	}
	return &ProductRepository{client: client, table: table}
}

func (r *ProductRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	records, err := r.client.List(ctx, r.table)
	if err != nil {
		return nil, err
	}
	products := make([]domain.Product, 0, len(records))
	for _, rec := range records {
		products = append(products, productFromRecord(rec))
	}
	return products, nil
}

func (r *ProductRepository) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	rec, err := r.client.Get(ctx, r.table, id)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, err
	}
	return productFromRecord(rec), nil
}

func (r *ProductRepository) CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	fields := map[string]any{
		"name":        product.Name,
		"description": product.Description,
		"price":       product.Price.InexactFloat64(),
		"inventory":   product.Inventory,
		"category":    product.Category,
		"quality":     product.Quality,
	}
	// Optional fields are only sent when non-empty.
	setIfPresent(fields, "brand", product.Brand)
	setIfPresent(fields, "size", product.Size)
	setIfPresent(fields, "weight", product.Weight)
	setIfPresent(fields, "color", product.Color)
	for i, key := range imageFieldNames {
		setIfPresent(fields, key, product.ImageURLs[i])
	}
	setIfPresent(fields, "status", product.Status)

	rec, err := r.client.Create(ctx, r.table, fields)
	if err != nil {
		return domain.Product{}, err
	}
	return productFromRecord(rec), nil
}

func (r *ProductRepository) UpdateProduct(ctx context.Context, id string, patch app.ProductPatch) (domain.Product, error) {
	fields := map[string]any{}
	if patch.Name != nil {
		fields["name"] = *patch.Name
	}
	if patch.Description != nil {
		fields["description"] = *patch.Description
	}
	if patch.Price != nil {
		fields["price"] = patch.Price.InexactFloat64()
	}
	if patch.Inventory != nil {
		fields["inventory"] = *patch.Inventory
	}
	if patch.Category != nil {
		fields["category"] = *patch.Category
	}
	if patch.Quality != nil {
		fields["quality"] = *patch.Quality
	}
	if patch.Brand != nil {
		fields["brand"] = emptyToNil(*patch.Brand)
	}
	if patch.Size != nil {
		fields["size"] = emptyToNil(*patch.Size)
	}
	if patch.Weight != nil {
		fields["weight"] = emptyToNil(*patch.Weight)
	}
	if patch.Color != nil {
		fields["color"] = emptyToNil(*patch.Color)
	}
	if patch.ImageURLs != nil {
		for i, key := range imageFieldNames {
			fields[key] = emptyToNil(patch.ImageURLs[i])
		}
	}
	if patch.Status != nil {
		fields["status"] = emptyToNil(*patch.Status)
	}

	rec, err := r.client.Update(ctx, r.table, id, fields)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, err
	}
	return productFromRecord(rec), nil
}

func (r *ProductRepository) DeleteProduct(ctx context.Context, id string) error {
	if err := r.client.Delete(ctx, r.table, id); err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return domain.ErrProductNotFound
		}
		return err
	}
	return nil
}

func (r *ProductRepository) SetInventoryZero(ctx context.Context, id string) (domain.Product, error) {
	zero := 0
	return r.UpdateProduct(ctx, id, app.ProductPatch{Inventory: &zero})
}

var imageFieldNames = [4]string{"image_url", "image_url_2", "image_url_3", "image_url_4"}

func productFromRecord(rec Record) domain.Product {
	f := rec.Fields
	p := domain.Product{
		ID:          rec.ID,
		Name:        stringField(f, "name"),
		Description: stringField(f, "description"),
		Price:       decimalField(f, "price"),
		Inventory:   intField(f, "inventory"),
		Category:    stringField(f, "category"),
		Quality:     stringField(f, "quality"),
		Brand:       stringField(f, "brand"),
		Size:        stringField(f, "size"),
		Weight:      stringField(f, "weight"),
		Color:       stringField(f, "color"),
		Status:      stringField(f, "status"),
	}
	for i, key := range imageFieldNames {
		p.ImageURLs[i] = stringField(f, key)
	}
	return p
}

func setIfPresent(fields map[string]any, key, value string) {
	if v := strings.TrimSpace(value); v != "" {
		fields[key] = v
	}
}

// emptyToNil maps an empty string to nil so the backend clears the cell
// instead of storing "".
func emptyToNil(value string) any {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return nil
}

func stringField(fields map[string]any, key string) string {
	v, _ := fields[key].(string)
	return v
}

func intField(fields map[string]any, key string) int {
	if v, ok := fields[key].(float64); ok {
		return int(v)
	}
	return 0
}

func decimalField(fields map[string]any, key string) decimal.Decimal {
	if v, ok := fields[key].(float64); ok {
		return decimal.NewFromFloat(v)
	}
	return decimal.Zero
}
