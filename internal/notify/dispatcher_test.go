package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/four2theizz0/gearz/internal/domain"
)

type fakeSender struct {
	sent    []Email
	failFor map[string]error
}

func (f *fakeSender) Send(ctx context.Context, email Email) error {
	if err, ok := f.failFor[email.To]; ok {
		return err
	}
	f.sent = append(f.sent, email)
	return nil
}

func testHold() domain.Hold {
	expires := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	return domain.Hold{
		ID:            "hold-1",
		ProductIDs:    []string{"rec-1"},
		CustomerName:  "Jo Silva",
		CustomerEmail: "jo@example.com",
		CustomerPhone: "555-010-2233",
		Status:        domain.HoldStatusActive,
		ExpiresAt:     &expires,
		PickupDay:     "2025-03-02T12:00:00Z",
		Notes:         "side gate please",
	}
}

func testProducts() []domain.Product {
	return []domain.Product{
		{ID: "rec-1", Name: "Boxing gloves", Price: decimal.NewFromInt(80)},
	}
}

func TestDispatcher_NotifyHoldCreated(t *testing.T) {
	t.Parallel()

	t.Run("sends both legs with hold details", func(t *testing.T) {
		sender := &fakeSender{}
		d, err := NewDispatcher(sender, "shop@example.com", "admin@example.com")
		require.NoError(t, err)

		err = d.NotifyHoldCreated(context.Background(), testHold(), testProducts())
		require.NoError(t, err)
		require.Len(t, sender.sent, 2)

		admin, customer := sender.sent[0], sender.sent[1]
		assert.Equal(t, "admin@example.com", admin.To)
		assert.Equal(t, "jo@example.com", customer.To)
		assert.Equal(t, "New Local Pickup Request: Boxing gloves", admin.Subject)

		for _, email := range sender.sent {
			assert.Contains(t, email.HTML, "Jo Silva")
			assert.Contains(t, email.HTML, "555-010-2233")
			assert.Contains(t, email.HTML, "Boxing gloves (ID: rec-1) at $80.00")
			assert.Contains(t, email.HTML, "Mar 2, 2025, 12:00 PM")
			assert.Contains(t, email.HTML, "side gate please")
			assert.Contains(t, email.HTML, "48 hours")
		}
	})

	t.Run("partial failure names the failed leg", func(t *testing.T) {
		sender := &fakeSender{failFor: map[string]error{"jo@example.com": errors.New("mailbox full")}}
		d, err := NewDispatcher(sender, "shop@example.com", "admin@example.com")
		require.NoError(t, err)

		err = d.NotifyHoldCreated(context.Background(), testHold(), testProducts())
		require.Error(t, err)

		var dispatchErr *DispatchError
		require.ErrorAs(t, err, &dispatchErr)
		assert.NoError(t, dispatchErr.AdminErr)
		assert.ErrorContains(t, dispatchErr.CustomerErr, "mailbox full")
		// The admin leg still went out.
		require.Len(t, sender.sent, 1)
		assert.Equal(t, "admin@example.com", sender.sent[0].To)
	})

	t.Run("free text pickup renders verbatim", func(t *testing.T) {
		sender := &fakeSender{}
		d, err := NewDispatcher(sender, "shop@example.com", "admin@example.com")
		require.NoError(t, err)

		hold := testHold()
		hold.PickupDay = "Other"
		hold.PickupCustom = "Saturday 2pm"

		require.NoError(t, d.NotifyHoldCreated(context.Background(), hold, testProducts()))
		assert.Contains(t, sender.sent[0].HTML, "Saturday 2pm")
	})
}

func TestDispatcher_NotifyQuestion(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	d, err := NewDispatcher(sender, "shop@example.com", "admin@example.com")
	require.NoError(t, err)

	require.NoError(t, d.NotifyQuestion(context.Background(), "Sam", "sam@example.com", "Is the headgear still available?"))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "admin@example.com", sender.sent[0].To)
	assert.Contains(t, sender.sent[0].HTML, "headgear still available")
}

func TestNewDispatcher_MissingConfig(t *testing.T) {
	t.Parallel()

	_, err := NewDispatcher(&fakeSender{}, "", "admin@example.com")
	assert.ErrorIs(t, err, ErrMissingConfig)
}
