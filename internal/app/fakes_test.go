package app

import (
	"context"
	"fmt"

	"github.com/four2theizz0/gearz/internal/domain"
)

type fakeHoldRepo struct {
	holds   []domain.Hold
	nextID  int
	listErr error
	saveErr error
}

func newFakeHoldRepo(holds ...domain.Hold) *fakeHoldRepo {
	return &fakeHoldRepo{holds: holds, nextID: len(holds) + 1}
}

func (f *fakeHoldRepo) ListHolds(ctx context.Context) ([]domain.Hold, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.Hold, len(f.holds))
	copy(out, f.holds)
	return out, nil
}

func (f *fakeHoldRepo) GetHold(ctx context.Context, id string) (domain.Hold, error) {
	for _, h := range f.holds {
		if h.ID == id {
			return h, nil
		}
	}
	return domain.Hold{}, domain.ErrHoldNotFound
}

func (f *fakeHoldRepo) CreateHold(ctx context.Context, hold domain.Hold) (domain.Hold, error) {
	if f.saveErr != nil {
		return domain.Hold{}, f.saveErr
	}
	hold.ID = fmt.Sprintf("hold-%d", f.nextID)
	f.nextID++
	f.holds = append(f.holds, hold)
	return hold, nil
}

func (f *fakeHoldRepo) UpdateHold(ctx context.Context, id string, patch HoldPatch) (domain.Hold, error) {
	if f.saveErr != nil {
		return domain.Hold{}, f.saveErr
	}
	for i, h := range f.holds {
		if h.ID != id {
			continue
		}
		if patch.Status != nil {
			h.Status = *patch.Status
		}
		if patch.ExpiresAt != nil {
			at := *patch.ExpiresAt
			h.ExpiresAt = &at
		}
		if patch.PickupDay != nil {
			h.PickupDay = *patch.PickupDay
		}
		if patch.PickupCustom != nil {
			h.PickupCustom = *patch.PickupCustom
		}
		if patch.Notes != nil {
			h.Notes = *patch.Notes
		}
		f.holds[i] = h
		return h, nil
	}
	return domain.Hold{}, domain.ErrHoldNotFound
}

type fakeProductRepo struct {
	products []domain.Product
	nextID   int
}

func newFakeProductRepo(products ...domain.Product) *fakeProductRepo {
	return &fakeProductRepo{products: products, nextID: len(products) + 1}
}

func (f *fakeProductRepo) ListProducts(ctx context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, len(f.products))
	copy(out, f.products)
	return out, nil
}

func (f *fakeProductRepo) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, domain.ErrProductNotFound
}

func (f *fakeProductRepo) CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	product.ID = fmt.Sprintf("rec-%d", f.nextID)
	f.nextID++
	f.products = append(f.products, product)
	return product, nil
}

func (f *fakeProductRepo) UpdateProduct(ctx context.Context, id string, patch ProductPatch) (domain.Product, error) {
	for i, p := range f.products {
		if p.ID != id {
			continue
		}
		if patch.Name != nil {
			p.Name = *patch.Name
		}
		if patch.Description != nil {
			p.Description = *patch.Description
		}
		if patch.Price != nil {
			p.Price = *patch.Price
		}
		if patch.Inventory != nil {
			p.Inventory = *patch.Inventory
		}
		if patch.Category != nil {
			p.Category = *patch.Category
		}
		if patch.Quality != nil {
			p.Quality = *patch.Quality
		}
		if patch.Brand != nil {
			p.Brand = *patch.Brand
		}
		if patch.Size != nil {
			p.Size = *patch.Size
		}
		if patch.Weight != nil {
			p.Weight = *patch.Weight
		}
		if patch.Color != nil {
			p.Color = *patch.Color
		}
		if patch.ImageURLs != nil {
			p.ImageURLs = *patch.ImageURLs
		}
		if patch.Status != nil {
			p.Status = *patch.Status
		}
		f.products[i] = p
		return p, nil
	}
	return domain.Product{}, domain.ErrProductNotFound
}

func (f *fakeProductRepo) DeleteProduct(ctx context.Context, id string) error {
	for i, p := range f.products {
		if p.ID == id {
			f.products = append(f.products[:i], f.products[i+1:]...)
			return nil
		}
	}
	return domain.ErrProductNotFound
}

func (f *fakeProductRepo) SetInventoryZero(ctx context.Context, id string) (domain.Product, error) {
	zero := 0
	return f.UpdateProduct(ctx, id, ProductPatch{Inventory: &zero})
}

type fakeSaleRepo struct {
	sales  []domain.Sale
	nextID int
	err    error
}

func newFakeSaleRepo(sales ...domain.Sale) *fakeSaleRepo {
	return &fakeSaleRepo{sales: sales, nextID: len(sales) + 1}
}

func (f *fakeSaleRepo) ListSales(ctx context.Context) ([]domain.Sale, error) {
	out := make([]domain.Sale, len(f.sales))
	copy(out, f.sales)
	return out, nil
}

func (f *fakeSaleRepo) GetSaleByHoldID(ctx context.Context, holdID string) (*domain.Sale, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, s := range f.sales {
		if s.HoldID == holdID {
			sale := s
			return &sale, nil
		}
	}
	return nil, nil
}

func (f *fakeSaleRepo) CreateSale(ctx context.Context, sale domain.Sale) (domain.Sale, error) {
	if f.err != nil {
		return domain.Sale{}, f.err
	}
	sale.ID = fmt.Sprintf("sale-%d", f.nextID)
	f.nextID++
	f.sales = append(f.sales, sale)
	return sale, nil
}

type fakeNotifier struct {
	calls int
	holds []domain.Hold
	err   error
}

func (f *fakeNotifier) NotifyHoldCreated(ctx context.Context, hold domain.Hold, products []domain.Product) error {
	f.calls++
	f.holds = append(f.holds, hold)
	return f.err
}

type fakeUploader struct {
	urls  []string
	err   error
	calls int
}

func (f *fakeUploader) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if len(f.urls) == 0 {
		return "https://ik.example/" + filename, nil
	}
	url := f.urls[0]
	f.urls = f.urls[1:]
	return url, nil
}
