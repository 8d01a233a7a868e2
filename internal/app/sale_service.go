package app

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/four2theizz0/gearz/internal/clock"
	"github.com/four2theizz0/gearz/internal/domain"
)

// SaleRepository is the persistence surface for completed sales.
type SaleRepository interface {
	ListSales(ctx context.Context) ([]domain.Sale, error)
	// GetSaleByHoldID returns nil when no sale references the hold.
	GetSaleByHoldID(ctx context.Context, holdID string) (*domain.Sale, error)
	CreateSale(ctx context.Context, sale domain.Sale) (domain.Sale, error)
}

// ProductSeller marks held products as sold.
type ProductSeller interface {
	GetProduct(ctx context.Context, id string) (domain.Product, error)
	SetInventoryZero(ctx context.Context, id string) (domain.Product, error)
}

type SaleService struct {
	sales    SaleRepository
	holds    HoldRepository
	products ProductSeller
	clock    clock.Clock
}

func NewSaleService(sales SaleRepository, holds HoldRepository, products ProductSeller, clk clock.Clock) *SaleService {
	return &SaleService{
		sales:    sales,
		holds:    holds,
		products: products,
		clock:    clk,
	}
}

type SaleDetails struct {
	PaymentMethod string
	TransactionID string
	// FinalPrice overrides the computed sum of the held products' listed
	// prices when set.
	FinalPrice *decimal.Decimal
	AdminNotes string
}

type ConvertHoldResult struct {
	Sale            domain.Sale
	UpdatedProducts []domain.Product
	// Created is false when an earlier attempt already wrote the sale and
	// this call only re-applied the product and hold updates.
	Created bool
}

// ConvertHoldToSale turns a hold into a permanent sale: it writes the sale
// record, forces every held product's inventory to zero, and marks the hold
// Completed. The backend offers no transactions, so the steps run in order
// and a failure can leave later steps undone. Retrying is safe: an existing
// sale referencing the hold is reused instead of duplicated, and re-zeroing
// inventory or re-completing the hold is harmless.
func (s *SaleService) ConvertHoldToSale(ctx context.Context, holdID string, details SaleDetails) (ConvertHoldResult, error) {
	if holdID == "" {
		return ConvertHoldResult{}, domain.ErrInvalidID
	}

	hold, err := s.holds.GetHold(ctx, holdID)
	if err != nil {
		return ConvertHoldResult{}, err
	}
	if len(hold.ProductIDs) == 0 {
		return ConvertHoldResult{}, domain.ErrNoProductsOnHold
	}

	var result ConvertHoldResult

	existing, err := s.sales.GetSaleByHoldID(ctx, holdID)
	if err != nil {
		return ConvertHoldResult{}, err
	}
	if existing != nil {
		result.Sale = *existing
	} else {
		finalPrice := decimal.Zero
		if details.FinalPrice != nil {
			finalPrice = *details.FinalPrice
		} else {
			for _, id := range hold.ProductIDs {
				p, err := s.products.GetProduct(ctx, id)
				if err != nil {
					return ConvertHoldResult{}, err
				}
				finalPrice = finalPrice.Add(p.Price)
			}
		}

		sale := domain.Sale{
			HoldID:        holdID,
			ProductIDs:    hold.ProductIDs,
			CustomerName:  hold.CustomerName,
			CustomerEmail: hold.CustomerEmail,
			CustomerPhone: hold.CustomerPhone,
			SaleDate:      s.clock.Now(),
			PaymentMethod: details.PaymentMethod,
			TransactionID: details.TransactionID,
			FinalPrice:    finalPrice,
			AdminNotes:    details.AdminNotes,
		}

		created, err := s.sales.CreateSale(ctx, sale)
		if err != nil {
			return ConvertHoldResult{}, err
		}
		result.Sale = created
		result.Created = true
	}

	for _, id := range hold.ProductIDs {
		updated, err := s.products.SetInventoryZero(ctx, id)
		if err != nil {
			return result, err
		}
		result.UpdatedProducts = append(result.UpdatedProducts, updated)
	}

	status := domain.HoldStatusCompleted
	if _, err := s.holds.UpdateHold(ctx, holdID, HoldPatch{Status: &status}); err != nil {
		return result, err
	}

	return result, nil
}

// ListSales returns every recorded sale.
func (s *SaleService) ListSales(ctx context.Context) ([]domain.Sale, error) {
	return s.sales.ListSales(ctx)
}
