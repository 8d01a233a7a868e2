package airtable

import (
	"context"
	"errors"
	"time"

	"github.com/four2theizz0/gearz/internal/app"
	"github.com/four2theizz0/gearz/internal/domain"
)

const DefaultHoldsTable = "Holds"

type HoldRepository struct {
	client *Client
	table  string
}

func NewHoldRepository(client *Client, table string) *HoldRepository {
	if table == "" {
		table = DefaultHoldsTable
	}
	return &HoldRepository{client: client, table: table}
}

func (r *HoldRepository) ListHolds(ctx context.Context) ([]domain.Hold, error) {
	records, err := r.client.List(ctx, r.table)
	if err != nil {
		return nil, err
	}
	holds := make([]domain.Hold, 0, len(records))
	for _, rec := range records {
		holds = append(holds, holdFromRecord(rec))
	}
	return holds, nil
}

func (r *HoldRepository) GetHold(ctx context.Context, id string) (domain.Hold, error) {
	rec, err := r.client.Get(ctx, r.table, id)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return domain.Hold{}, domain.ErrHoldNotFound
		}
		return domain.Hold{}, err
	}
	return holdFromRecord(rec), nil
}

func (r *HoldRepository) CreateHold(ctx context.Context, hold domain.Hold) (domain.Hold, error) {
	fields := map[string]any{
		"Products":       hold.ProductIDs,
		"customer_name":  hold.CustomerName,
		"customer_email": hold.CustomerEmail,
		"customer_phone": hold.CustomerPhone,
		"hold_status":    string(hold.Status),
		"pickup_day":     hold.PickupDay,
		"pickup_custom":  hold.PickupCustom,
		"notes":          hold.Notes,
	}
	if hold.ExpiresAt != nil {
		fields["hold_expires_at"] = hold.ExpiresAt.UTC().Format(time.RFC3339)
	}

	rec, err := r.client.Create(ctx, r.table, fields)
	if err != nil {
		return domain.Hold{}, err
	}
	return holdFromRecord(rec), nil
}

func (r *HoldRepository) UpdateHold(ctx context.Context, id string, patch app.HoldPatch) (domain.Hold, error) {
	fields := map[string]any{}
	if patch.Status != nil {
		fields["hold_status"] = string(*patch.Status)
	}
	if patch.ExpiresAt != nil {
		fields["hold_expires_at"] = patch.ExpiresAt.UTC().Format(time.RFC3339)
	}
	if patch.PickupDay != nil {
		fields["pickup_day"] = *patch.PickupDay
	}
	if patch.PickupCustom != nil {
		fields["pickup_custom"] = *patch.PickupCustom
	}
	if patch.Notes != nil {
		fields["notes"] = *patch.Notes
	}

	rec, err := r.client.Update(ctx, r.table, id, fields)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return domain.Hold{}, domain.ErrHoldNotFound
		}
		return domain.Hold{}, err
	}
	return holdFromRecord(rec), nil
}

func holdFromRecord(rec Record) domain.Hold {
	f := rec.Fields
	h := domain.Hold{
		ID:            rec.ID,
		ProductIDs:    stringSliceField(f, "Products"),
		CustomerName:  stringField(f, "customer_name"),
		CustomerEmail: stringField(f, "customer_email"),
		CustomerPhone: stringField(f, "customer_phone"),
		Status:        domain.HoldStatus(stringField(f, "hold_status")),
		CreatedAt:     rec.CreatedTime,
		PickupDay:     stringField(f, "pickup_day"),
		PickupCustom:  stringField(f, "pickup_custom"),
		Notes:         stringField(f, "notes"),
	}
	if raw := stringField(f, "hold_expires_at"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			h.ExpiresAt = &t
		}
	}
	return h
}

func stringSliceField(fields map[string]any, key string) []string {
	raw, ok := fields[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
