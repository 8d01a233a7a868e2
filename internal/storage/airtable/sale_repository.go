package airtable

import (
	"context"
	"time"

	"github.com/four2theizz0/gearz/internal/domain"
)

const DefaultSalesTable = "Sales"

type SaleRepository struct {
	client *Client
	table  string
}

func NewSaleRepository(client *Client, table string) *SaleRepository {
	if table == "" {
		table = DefaultSalesTable
	}
	return &SaleRepository{client: client, table: table}
}

func (r *SaleRepository) ListSales(ctx context.Context) ([]domain.Sale, error) {
	records, err := r.client.List(ctx, r.table)
	if err != nil {
		return nil, err
	}
	sales := make([]domain.Sale, 0, len(records))
	for _, rec := range records {
		sales = append(sales, saleFromRecord(rec))
	}
	return sales, nil
}

// GetSaleByHoldID scans for a sale referencing the hold. The hold_id column
// exists exactly for this lookup: it is the duplicate-sale guard for retried
// conversions.
func (r *SaleRepository) GetSaleByHoldID(ctx context.Context, holdID string) (*domain.Sale, error) {
	sales, err := r.ListSales(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range sales {
		if s.HoldID == holdID {
			sale := s
			return &sale, nil
		}
	}
	return nil, nil
}

func (r *SaleRepository) CreateSale(ctx context.Context, sale domain.Sale) (domain.Sale, error) {
	fields := map[string]any{
		"Products":       sale.ProductIDs,
		"hold_id":        sale.HoldID,
		"customer_name":  sale.CustomerName,
		"customer_email": sale.CustomerEmail,
		"customer_phone": sale.CustomerPhone,
		"sale_date":      sale.SaleDate.UTC().Format(time.RFC3339),
		"final_price":    sale.FinalPrice.InexactFloat64(),
	}
	setIfPresent(fields, "payment_method", sale.PaymentMethod)
	setIfPresent(fields, "transaction_id", sale.TransactionID)
	setIfPresent(fields, "admin_notes", sale.AdminNotes)

	rec, err := r.client.Create(ctx, r.table, fields)
	if err != nil {
		return domain.Sale{}, err
	}
	return saleFromRecord(rec), nil
}

func saleFromRecord(rec Record) domain.Sale {
	f := rec.Fields
	s := domain.Sale{
		ID:            rec.ID,
		HoldID:        stringField(f, "hold_id"),
		ProductIDs:    stringSliceField(f, "Products"),
		CustomerName:  stringField(f, "customer_name"),
		CustomerEmail: stringField(f, "customer_email"),
		CustomerPhone: stringField(f, "customer_phone"),
		PaymentMethod: stringField(f, "payment_method"),
		TransactionID: stringField(f, "transaction_id"),
		FinalPrice:    decimalField(f, "final_price"),
		AdminNotes:    stringField(f, "admin_notes"),
	}
	if raw := stringField(f, "sale_date"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			s.SaleDate = t
		}
	}
	return s
}
