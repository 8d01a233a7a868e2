package domain

import "time"

// Availability is the derived selling state of a product. It is computed from
// the product's own fields plus the current hold set and clock, never stored.
type Availability string

const (
	AvailabilityActive Availability = "Active"
	AvailabilityOnHold Availability = "On Hold"
	AvailabilitySold   Availability = "Sold"
)

// ResolveAvailability derives a product's effective status at time now.
//
// A product with zero inventory or an explicit "Sold" override is Sold no
// matter what holds exist. Otherwise any hold covering the product whose
// stored status is exactly "Active" (matching is case-sensitive; the engine
// writes canonical casing) and whose expiration is unset or still in the
// future puts the product On Hold. Everything else is Active.
func ResolveAvailability(p Product, holds []Hold, now time.Time) Availability {
	if p.Status == string(AvailabilitySold) || p.Inventory <= 0 {
		return AvailabilitySold
	}
	for _, h := range holds {
		if h.Covers(p.ID) && h.BlocksAt(now) {
			return AvailabilityOnHold
		}
	}
	return AvailabilityActive
}
