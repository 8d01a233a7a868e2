package domain

import "time"

type HoldStatus string

const (
	HoldStatusActive    HoldStatus = "Active"
	HoldStatusCancelled HoldStatus = "Cancelled"
	HoldStatusCompleted HoldStatus = "Completed"
	// HoldStatusExpired is normally a derived state; it is only persisted by
	// an explicit sweep.
	HoldStatusExpired HoldStatus = "Expired"
)

// Terminal reports whether the status can no longer transition.
func (s HoldStatus) Terminal() bool {
	return s == HoldStatusCancelled || s == HoldStatusCompleted || s == HoldStatusExpired
}

// Hold is a time-bounded reservation of one or more products for a customer
// while a pickup is arranged.
type Hold struct {
	ID            string
	ProductIDs    []string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Status        HoldStatus
	CreatedAt     time.Time
	// ExpiresAt is nil for holds that never expire until manually resolved.
	ExpiresAt *time.Time
	// PickupDay is an ISO timestamp when the requested slot resolved to a
	// concrete time, otherwise the raw preset label.
	PickupDay string
	// PickupCustom carries free-text pickup requests that did not parse as a
	// date.
	PickupCustom string
	Notes        string
}

// ExpiredAt reports whether the hold's expiration has passed at t. A nil
// expiration never expires.
func (h Hold) ExpiredAt(t time.Time) bool {
	return h.ExpiresAt != nil && !h.ExpiresAt.After(t)
}

// BlocksAt reports whether the hold blocks availability of its products at t:
// stored status is exactly Active and the expiration, if any, is still in the
// future.
func (h Hold) BlocksAt(t time.Time) bool {
	return h.Status == HoldStatusActive && !h.ExpiredAt(t)
}

// Covers reports whether the hold reserves the given product.
func (h Hold) Covers(productID string) bool {
	for _, id := range h.ProductIDs {
		if id == productID {
			return true
		}
	}
	return false
}
