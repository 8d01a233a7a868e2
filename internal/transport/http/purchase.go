package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/four2theizz0/gearz/internal/app"
	"github.com/four2theizz0/gearz/internal/cache"
	"github.com/four2theizz0/gearz/internal/domain"
)

// HoldCreator is the minimal interface needed to place a hold.
type HoldCreator interface {
	CreateHold(ctx context.Context, in app.CreateHoldInput) (app.CreateHoldResult, error)
}

// HandleCreateHold returns an HTTP handler for the storefront purchase form.
// A placed hold takes the products off the shelf, so the cached listing is
// invalidated on success.
func HandleCreateHold(svc HoldCreator, store cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		var req createHoldRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		productIDs := req.ProductIDs
		if len(productIDs) == 0 && req.ProductID != "" {
			productIDs = []string{req.ProductID}
		}

		result, err := svc.CreateHold(r.Context(), app.CreateHoldInput{
			ProductIDs:    productIDs,
			CustomerName:  req.Name,
			CustomerEmail: req.Email,
			CustomerPhone: req.Phone,
			PickupDay:     req.PickupDay,
			OtherPickup:   req.OtherPickup,
			Notes:         req.Notes,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		if store != nil {
			_ = store.Delete(r.Context(), productListCacheKey)
		}

		resp := createHoldResponse{
			Success: true,
			Hold:    toHoldResponse(result.Hold),
		}
		if result.NotifyErr != nil {
			resp.EmailError = result.NotifyErr.Error()
		}
		writeJSON(w, http.StatusCreated, resp)
	}
}

type createHoldRequest struct {
	ProductIDs  []string `json:"product_ids"`
	ProductID   string   `json:"product_id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Phone       string   `json:"phone"`
	PickupDay   string   `json:"pickup_day"`
	OtherPickup string   `json:"other_pickup"`
	Notes       string   `json:"notes"`
}

type holdResponse struct {
	ID            string     `json:"id"`
	ProductIDs    []string   `json:"product_ids"`
	CustomerName  string     `json:"customer_name"`
	CustomerEmail string     `json:"customer_email"`
	CustomerPhone string     `json:"customer_phone,omitempty"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	ExpiresAt     *time.Time `json:"expires_at"`
	PickupDay     string     `json:"pickup_day"`
	PickupCustom  string     `json:"pickup_custom,omitempty"`
	PickupDisplay string     `json:"pickup_display"`
	Notes         string     `json:"notes,omitempty"`
}

type createHoldResponse struct {
	Success bool         `json:"success"`
	Hold    holdResponse `json:"hold"`
	// EmailError is set when the hold was stored but one of the
	// confirmation emails failed to send.
	EmailError string `json:"email_error,omitempty"`
}

func toHoldResponse(h domain.Hold) holdResponse {
	return holdResponse{
		ID:            h.ID,
		ProductIDs:    h.ProductIDs,
		CustomerName:  h.CustomerName,
		CustomerEmail: h.CustomerEmail,
		CustomerPhone: h.CustomerPhone,
		Status:        string(h.Status),
		CreatedAt:     h.CreatedAt,
		ExpiresAt:     h.ExpiresAt,
		PickupDay:     h.PickupDay,
		PickupCustom:  h.PickupCustom,
		PickupDisplay: domain.FormatPickupDay(h.PickupDay, h.PickupCustom),
		Notes:         h.Notes,
	}
}
