package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/four2theizz0/gearz/internal/domain"
)

// SaleLister is the minimal interface needed for the admin sales view.
type SaleLister interface {
	ListSales(ctx context.Context) ([]domain.Sale, error)
}

// HandleAdminSales returns an HTTP handler listing completed sales.
func HandleAdminSales(svc SaleLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		sales, err := svc.ListSales(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}

		resp := saleListResponse{Success: true, Sales: make([]saleResponse, 0, len(sales))}
		for _, s := range sales {
			resp.Sales = append(resp.Sales, toSaleResponse(s))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

type saleResponse struct {
	ID            string      `json:"id"`
	HoldID        string      `json:"hold_id,omitempty"`
	ProductIDs    []string    `json:"product_ids"`
	CustomerName  string      `json:"customer_name"`
	CustomerEmail string      `json:"customer_email"`
	CustomerPhone string      `json:"customer_phone,omitempty"`
	SaleDate      time.Time   `json:"sale_date"`
	PaymentMethod string      `json:"payment_method,omitempty"`
	TransactionID string      `json:"transaction_id,omitempty"`
	FinalPrice    json.Number `json:"final_price"`
	AdminNotes    string      `json:"admin_notes,omitempty"`
}

type saleListResponse struct {
	Success bool           `json:"success"`
	Sales   []saleResponse `json:"sales"`
}

func toSaleResponse(s domain.Sale) saleResponse {
	return saleResponse{
		ID:            s.ID,
		HoldID:        s.HoldID,
		ProductIDs:    s.ProductIDs,
		CustomerName:  s.CustomerName,
		CustomerEmail: s.CustomerEmail,
		CustomerPhone: s.CustomerPhone,
		SaleDate:      s.SaleDate,
		PaymentMethod: s.PaymentMethod,
		TransactionID: s.TransactionID,
		FinalPrice:    json.Number(s.FinalPrice.String()),
		AdminNotes:    s.AdminNotes,
	}
}
