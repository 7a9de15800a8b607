package booking

import (
	"slices"
	"strings"
	"time"

	"wastewise/apperr"
	"wastewise/models"
)

// DefaultSlots are the fixed pickup windows, in display order.
var DefaultSlots = []string{
	"8:00 AM - 11:00 AM",
	"11:00 AM - 2:00 PM",
	"2:00 PM - 5:00 PM",
}

const DefaultCapacity = 5

const dateLayout = "2006-01-02"

// ParseDate accepts YYYY-MM-DD or an RFC 3339 timestamp and returns UTC
// midnight of that day. Timestamps are converted to UTC before the time of
// day is dropped.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, apperr.Validation("date is required")
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		t, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, apperr.Validation("invalid date")
		}
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// DayBounds returns the inclusive [start, end] of day in UTC at millisecond
// precision, matching what MongoDB stores.
func DayBounds(day time.Time) (time.Time, time.Time) {
	day = day.UTC()
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24*time.Hour - time.Millisecond)
	return start, end
}

// AvailableSlots returns the labels whose booking count is below capacity,
// in the order of labels.
func AvailableSlots(bookings []models.Booking, labels []string, capacity int) []string {
	counts := make(map[string]int, len(labels))
	for _, b := range bookings {
		counts[b.TimeSlot]++
	}
	available := make([]string, 0, len(labels))
	for _, label := range labels {
		if counts[label] < capacity {
			available = append(available, label)
		}
	}
	return available
}

func validSlot(labels []string, slot string) bool {
	return slices.Contains(labels, slot)
}
