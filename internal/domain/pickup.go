package domain

import (
	"strings"
	"time"
)

// Pickup slot presets offered on the purchase form. Anything else arrives as
// PickupOther plus free text.
const (
	PickupToday    = "Today"
	PickupTomorrow = "Tomorrow"
	PickupOther    = "Other"
)

const dateDisplayLayout = "Jan 2, 2006, 3:04 PM"

var pickupParseLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"January 2, 2006 3:04 PM",
	"January 2, 2006",
}

// ParsePickupTime attempts to interpret a free-form pickup value as a concrete
// date/time. Rendering and expiry math treat unparseable values as free text.
func ParsePickupTime(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range pickupParseLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders a stored timestamp string for display. Unparseable or
// empty input renders as "-". Output is UTC so server rendering stays
// deterministic.
func FormatDate(value string) string {
	t, ok := ParsePickupTime(value)
	if !ok {
		return "-"
	}
	return t.UTC().Format(dateDisplayLayout)
}

// FormatPickupDay resolves the display string for a requested pickup slot:
// a parseable pickupDay renders as a long-form date, otherwise non-empty
// custom text wins, otherwise the raw pickupDay label, otherwise "-".
func FormatPickupDay(pickupDay, pickupCustom string) string {
	if _, ok := ParsePickupTime(pickupDay); ok {
		return FormatDate(pickupDay)
	}
	if pickupCustom != "" {
		return pickupCustom
	}
	if pickupDay != "" {
		return pickupDay
	}
	return "-"
}
