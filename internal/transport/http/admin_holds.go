package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/four2theizz0/gearz/internal/app"
	"github.com/four2theizz0/gearz/internal/cache"
	"github.com/four2theizz0/gearz/internal/domain"
	"github.com/shopspring/decimal"
)

// HoldAdminService is the minimal interface needed for the admin hold
// endpoints.
type HoldAdminService interface {
	ListHolds(ctx context.Context) ([]domain.Hold, error)
	UpdateHold(ctx context.Context, holdID string, patch app.HoldPatch) (domain.Hold, error)
	ExtendHold(ctx context.Context, holdID string, additional time.Duration) (domain.Hold, error)
	CancelHold(ctx context.Context, holdID string) (domain.Hold, error)
	ExpireDueHolds(ctx context.Context) ([]domain.Hold, error)
}

// SaleConverter is the minimal interface needed to complete a hold.
type SaleConverter interface {
	ConvertHoldToSale(ctx context.Context, holdID string, details app.SaleDetails) (app.ConvertHoldResult, error)
}

// HandleAdminListHolds returns an HTTP handler listing every stored hold.
func HandleAdminListHolds(svc HoldAdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		holds, err := svc.ListHolds(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}

		resp := holdListResponse{Success: true, Holds: make([]holdResponse, 0, len(holds))}
		for _, h := range holds {
			resp.Holds = append(resp.Holds, toHoldResponse(h))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// HandleAdminHoldActions returns an HTTP handler for the hold mutation
// endpoints under /api/admin/holds/. Every mutation can change product
// availability, so each one drops the cached storefront listing.
func HandleAdminHoldActions(holds HoldAdminService, sales SaleConverter, store cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, action, ok := parseAdminHoldPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		invalidate := func() {
			if store != nil {
				_ = store.Delete(r.Context(), productListCacheKey)
			}
		}

		switch action {
		case "expire":
			expired, err := holds.ExpireDueHolds(r.Context())
			if err != nil {
				writeServiceError(w, err)
				return
			}
			invalidate()
			resp := holdListResponse{Success: true, Holds: make([]holdResponse, 0, len(expired))}
			for _, h := range expired {
				resp.Holds = append(resp.Holds, toHoldResponse(h))
			}
			writeJSON(w, http.StatusOK, resp)

		case "extend":
			var req extendHoldRequest
			if err := decodeBody(r, &req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
			hours := req.Hours
			if hours == 0 {
				hours = 48
			}
			if hours < 0 {
				writeError(w, http.StatusBadRequest, "hours must be positive")
				return
			}
			hold, err := holds.ExtendHold(r.Context(), id, time.Duration(hours)*time.Hour)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			invalidate()
			writeJSON(w, http.StatusOK, holdDetailResponse{Success: true, Hold: toHoldResponse(hold)})

		case "cancel":
			hold, err := holds.CancelHold(r.Context(), id)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			invalidate()
			writeJSON(w, http.StatusOK, holdDetailResponse{Success: true, Hold: toHoldResponse(hold)})

		case "complete":
			var req completeHoldRequest
			if err := decodeBody(r, &req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
			details := app.SaleDetails{
				PaymentMethod: req.PaymentMethod,
				TransactionID: req.TransactionID,
				AdminNotes:    req.AdminNotes,
			}
			if req.FinalPrice != "" {
				price, err := decimal.NewFromString(string(req.FinalPrice))
				if err != nil {
					writeError(w, http.StatusBadRequest, domain.ErrInvalidPrice.Error())
					return
				}
				details.FinalPrice = &price
			}
			result, err := sales.ConvertHoldToSale(r.Context(), id, details)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			invalidate()
			status := http.StatusCreated
			if !result.Created {
				status = http.StatusOK
			}
			writeJSON(w, status, completeHoldResponse{
				Success: true,
				Sale:    toSaleResponse(result.Sale),
				Created: result.Created,
			})

		default:
			var req updateHoldRequest
			if err := decodeBody(r, &req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
			patch, err := req.toPatch()
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			hold, err := holds.UpdateHold(r.Context(), id, patch)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			invalidate()
			writeJSON(w, http.StatusOK, holdDetailResponse{Success: true, Hold: toHoldResponse(hold)})
		}
	}
}

func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

type extendHoldRequest struct {
	Hours int `json:"hours"`
}

type completeHoldRequest struct {
	PaymentMethod string      `json:"payment_method"`
	TransactionID string      `json:"transaction_id"`
	FinalPrice    json.Number `json:"final_price"`
	AdminNotes    string      `json:"admin_notes"`
}

type updateHoldRequest struct {
	Status       *string `json:"status"`
	ExpiresAt    *string `json:"expires_at"`
	PickupDay    *string `json:"pickup_day"`
	PickupCustom *string `json:"pickup_custom"`
	Notes        *string `json:"notes"`
}

var (
	errInvalidHoldStatus = errors.New("invalid hold status")
	errInvalidExpiresAt  = errors.New("invalid expires_at format")
)

var holdStatuses = map[string]domain.HoldStatus{
	string(domain.HoldStatusActive):    domain.HoldStatusActive,
	string(domain.HoldStatusCancelled): domain.HoldStatusCancelled,
	string(domain.HoldStatusCompleted): domain.HoldStatusCompleted,
	string(domain.HoldStatusExpired):   domain.HoldStatusExpired,
}

func (r updateHoldRequest) toPatch() (app.HoldPatch, error) {
	var patch app.HoldPatch
	if r.Status != nil {
		status, ok := holdStatuses[*r.Status]
		if !ok {
			return app.HoldPatch{}, errInvalidHoldStatus
		}
		patch.Status = &status
	}
	if r.ExpiresAt != nil {
		parsed, err := time.Parse(time.RFC3339, *r.ExpiresAt)
		if err != nil {
			return app.HoldPatch{}, errInvalidExpiresAt
		}
		patch.ExpiresAt = &parsed
	}
	patch.PickupDay = r.PickupDay
	patch.PickupCustom = r.PickupCustom
	patch.Notes = r.Notes
	return patch, nil
}

type holdListResponse struct {
	Success bool           `json:"success"`
	Holds   []holdResponse `json:"holds"`
}

type holdDetailResponse struct {
	Success bool         `json:"success"`
	Hold    holdResponse `json:"hold"`
}

type completeHoldResponse struct {
	Success bool         `json:"success"`
	Sale    saleResponse `json:"sale"`
	// Created is false when an earlier completion attempt already wrote the
	// sale and this request only re-applied the follow-up updates.
	Created bool `json:"created"`
}

func parseAdminHoldPath(path string) (id, action string, ok bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 4 || len(parts) > 5 {
		return "", "", false
	}
	if parts[0] != "api" || parts[1] != "admin" || parts[2] != "holds" {
		return "", "", false
	}
	if len(parts) == 4 {
		if parts[3] == "" {
			return "", "", false
		}
		if parts[3] == "expire" {
			return "", "expire", true
		}
		return parts[3], "", true
	}
	switch parts[4] {
	case "extend", "cancel", "complete":
		return parts[3], parts[4], parts[3] != ""
	}
	return "", "", false
}
