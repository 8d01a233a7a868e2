package app

import (
	"context"
	"strings"
	"time"

	"github.com/four2theizz0/gearz/internal/clock"
	"github.com/four2theizz0/gearz/internal/domain"
)

// HoldRepository is the persistence surface the hold lifecycle needs.
type HoldRepository interface {
	ListHolds(ctx context.Context) ([]domain.Hold, error)
	GetHold(ctx context.Context, id string) (domain.Hold, error)
	CreateHold(ctx context.Context, hold domain.Hold) (domain.Hold, error)
	UpdateHold(ctx context.Context, id string, patch HoldPatch) (domain.Hold, error)
}

// ProductReader resolves product records referenced by holds.
type ProductReader interface {
	GetProduct(ctx context.Context, id string) (domain.Product, error)
}

// HoldNotifier dispatches the admin alert and customer confirmation for a new
// hold. Implementations report per-recipient failures so callers can retry a
// single leg.
type HoldNotifier interface {
	NotifyHoldCreated(ctx context.Context, hold domain.Hold, products []domain.Product) error
}

// HoldPatch is a partial update of a stored hold. Nil fields are left
// untouched.
type HoldPatch struct {
	Status       *domain.HoldStatus
	ExpiresAt    *time.Time
	PickupDay    *string
	PickupCustom *string
	Notes        *string
}

type HoldService struct {
	holds    HoldRepository
	products ProductReader
	notifier HoldNotifier
	clock    clock.Clock
	holdTTL  time.Duration
}

const defaultHoldTTL = 48 * time.Hour

func NewHoldService(holds HoldRepository, products ProductReader, notifier HoldNotifier, clk clock.Clock, opts ...HoldServiceOption) *HoldService {
	svc := &HoldService{
		holds:    holds,
		products: products,
		notifier: notifier,
		clock:    clk,
		holdTTL:  defaultHoldTTL,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type HoldServiceOption func(*HoldService)

// WithHoldTTL overrides the default 48-hour expiry for new holds.
func WithHoldTTL(d time.Duration) HoldServiceOption {
	return func(s *HoldService) {
		if d > 0 {
			s.holdTTL = d
		}
	}
}

type CreateHoldInput struct {
	ProductIDs    []string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	// PickupDay is one of the form presets (Today, Tomorrow, Other).
	PickupDay string
	// OtherPickup carries the free-text slot when PickupDay is Other.
	OtherPickup string
	Notes       string
}

type CreateHoldResult struct {
	Hold     domain.Hold
	Products []domain.Product
	// NotifyErr reports email dispatch failures. The hold row is already
	// written when dispatch runs, so a failed send never rolls it back.
	NotifyErr error
}

// CreateHold reserves the given products for a customer. Every referenced
// product must exist and must not already carry a blocking hold. The check is
// read-then-write, not atomic: the backing store offers no conditional
// writes, so two simultaneous requests can still race past it.
func (s *HoldService) CreateHold(ctx context.Context, in CreateHoldInput) (CreateHoldResult, error) {
	if err := validateCreateHold(in); err != nil {
		return CreateHoldResult{}, err
	}

	now := s.clock.Now()

	products := make([]domain.Product, 0, len(in.ProductIDs))
	for _, id := range in.ProductIDs {
		p, err := s.products.GetProduct(ctx, id)
		if err != nil {
			return CreateHoldResult{}, err
		}
		products = append(products, p)
	}

	existing, err := s.holds.ListHolds(ctx)
	if err != nil {
		return CreateHoldResult{}, err
	}
	for _, h := range existing {
		if !h.BlocksAt(now) {
			continue
		}
		for _, id := range in.ProductIDs {
			if h.Covers(id) {
				return CreateHoldResult{}, domain.ErrProductOnHold
			}
		}
	}

	expiresAt := s.resolveExpiry(now, in.PickupDay, in.OtherPickup)
	pickupDay, pickupCustom := normalizePickup(now, in.PickupDay, in.OtherPickup)

	hold := domain.Hold{
		ProductIDs:    in.ProductIDs,
		CustomerName:  strings.TrimSpace(in.CustomerName),
		CustomerEmail: strings.TrimSpace(in.CustomerEmail),
		CustomerPhone: strings.TrimSpace(in.CustomerPhone),
		Status:        domain.HoldStatusActive,
		CreatedAt:     now,
		ExpiresAt:     &expiresAt,
		PickupDay:     pickupDay,
		PickupCustom:  pickupCustom,
		Notes:         in.Notes,
	}

	created, err := s.holds.CreateHold(ctx, hold)
	if err != nil {
		return CreateHoldResult{}, err
	}

	result := CreateHoldResult{Hold: created, Products: products}
	if s.notifier != nil {
		result.NotifyErr = s.notifier.NotifyHoldCreated(ctx, created, products)
	}
	return result, nil
}

// resolveExpiry applies the 48-hour default, except that a parseable custom
// pickup time becomes the expiry itself.
func (s *HoldService) resolveExpiry(now time.Time, pickupDay, otherPickup string) time.Time {
	if pickupDay == domain.PickupOther {
		if t, ok := domain.ParsePickupTime(otherPickup); ok {
			return t
		}
	}
	return now.Add(s.holdTTL)
}

// normalizePickup stores an ISO timestamp whenever the requested slot resolves
// to a concrete time (presets default to noon), otherwise keeps the raw label
// and moves free text into pickup_custom.
func normalizePickup(now time.Time, pickupDay, otherPickup string) (string, string) {
	noonOf := func(t time.Time) string {
		y, m, d := t.Date()
		return time.Date(y, m, d, 12, 0, 0, 0, t.Location()).Format(time.RFC3339)
	}

	switch pickupDay {
	case domain.PickupToday:
		return noonOf(now), ""
	case domain.PickupTomorrow:
		return noonOf(now.Add(24 * time.Hour)), ""
	case domain.PickupOther:
		if t, ok := domain.ParsePickupTime(otherPickup); ok {
			return t.Format(time.RFC3339), ""
		}
		return pickupDay, otherPickup
	default:
		return pickupDay, ""
	}
}

func validateCreateHold(in CreateHoldInput) error {
	if len(in.ProductIDs) == 0 {
		return domain.ErrInvalidID
	}
	for _, id := range in.ProductIDs {
		if strings.TrimSpace(id) == "" {
			return domain.ErrInvalidID
		}
	}
	if strings.TrimSpace(in.CustomerName) == "" {
		return domain.ErrNameRequired
	}
	email := strings.TrimSpace(in.CustomerEmail)
	if email == "" {
		return domain.ErrEmailRequired
	}
	if !validEmail(email) {
		return domain.ErrInvalidEmail
	}
	if phone := strings.TrimSpace(in.CustomerPhone); phone != "" && !validPhone(phone) {
		return domain.ErrInvalidPhone
	}
	return nil
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domainPart := email[at+1:]
	return strings.Contains(domainPart, ".") && !strings.ContainsAny(email, " \t")
}

func validPhone(phone string) bool {
	digits := 0
	for _, r := range phone {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '+' || r == '.':
		default:
			return false
		}
	}
	return digits >= 7
}

// ExtendHold pushes the stored expiration out by additional. Extensions
// compound from the current expiration, not from now, so repeated extensions
// stay anchored to the original schedule.
func (s *HoldService) ExtendHold(ctx context.Context, holdID string, additional time.Duration) (domain.Hold, error) {
	if holdID == "" {
		return domain.Hold{}, domain.ErrInvalidID
	}
	hold, err := s.holds.GetHold(ctx, holdID)
	if err != nil {
		return domain.Hold{}, err
	}
	if hold.ExpiresAt == nil {
		return domain.Hold{}, domain.ErrNoExpirationSet
	}

	newExpiry := hold.ExpiresAt.Add(additional)
	return s.holds.UpdateHold(ctx, holdID, HoldPatch{ExpiresAt: &newExpiry})
}

// CancelHold marks the hold Cancelled. Cancelling a hold that already reached
// a terminal status is a no-op success.
func (s *HoldService) CancelHold(ctx context.Context, holdID string) (domain.Hold, error) {
	if holdID == "" {
		return domain.Hold{}, domain.ErrInvalidID
	}
	hold, err := s.holds.GetHold(ctx, holdID)
	if err != nil {
		return domain.Hold{}, err
	}
	if hold.Status.Terminal() {
		return hold, nil
	}

	status := domain.HoldStatusCancelled
	return s.holds.UpdateHold(ctx, holdID, HoldPatch{Status: &status})
}

// UpdateHold applies an admin edit to a stored hold.
func (s *HoldService) UpdateHold(ctx context.Context, holdID string, patch HoldPatch) (domain.Hold, error) {
	if holdID == "" {
		return domain.Hold{}, domain.ErrInvalidID
	}
	return s.holds.UpdateHold(ctx, holdID, patch)
}

// ListHolds returns every stored hold, newest first left to the backend order.
func (s *HoldService) ListHolds(ctx context.Context) ([]domain.Hold, error) {
	return s.holds.ListHolds(ctx)
}

// ExpireDueHolds persists the Expired status on every Active hold whose
// expiration has passed. Expiry is otherwise a derived state; this sweep only
// exists so the admin view can clean up stale rows.
func (s *HoldService) ExpireDueHolds(ctx context.Context) ([]domain.Hold, error) {
	holds, err := s.holds.ListHolds(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	expired := make([]domain.Hold, 0)
	for _, h := range holds {
		if h.Status != domain.HoldStatusActive || !h.ExpiredAt(now) {
			continue
		}
		status := domain.HoldStatusExpired
		updated, err := s.holds.UpdateHold(ctx, h.ID, HoldPatch{Status: &status})
		if err != nil {
			return expired, err
		}
		expired = append(expired, updated)
	}
	return expired, nil
}
