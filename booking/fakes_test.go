package booking

import (
	"context"
	"sync"
	"time"

	"wastewise/models"

	"go.uber.org/zap"
)

type fakeStore struct {
	mu       sync.Mutex
	bookings []models.Booking
	err      error
	queries  int
}

func (f *fakeStore) Insert(ctx context.Context, b *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.bookings = append(f.bookings, *b)
	return nil
}

func (f *fakeStore) FindBetween(ctx context.Context, start, end time.Time) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries++
	if f.err != nil {
		return nil, f.err
	}
	out := []models.Booking{}
	for _, b := range f.bookings {
		if !b.Date.Before(start) && !b.Date.After(end) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeStore) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, b := range f.bookings {
		if b.ID == id {
			clone := b
			return &clone, nil
		}
	}
	return nil, ErrBookingNotFound
}

func (f *fakeStore) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := []models.Booking{}
	for i := len(f.bookings) - 1; i >= 0; i-- {
		if f.bookings[i].UserID == userID {
			out = append(out, f.bookings[i])
		}
	}
	return out, nil
}

func (f *fakeStore) seed(day time.Time, slot string, n int) {
	for i := 0; i < n; i++ {
		f.bookings = append(f.bookings, models.Booking{
			ID:       slot + "-" + string(rune('a'+i)),
			UserID:   "u-seed",
			Date:     day,
			TimeSlot: slot,
			Address:  "1 Ring Road",
			Status:   models.BookingPending,
		})
	}
}

type fakeNotifier struct {
	mu   sync.Mutex
	days []time.Time
}

func (f *fakeNotifier) NotifyDay(day time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.days = append(f.days, day)
}

var testNow = time.Date(2025, 10, 28, 9, 0, 0, 0, time.UTC)

func newTestService(store *fakeStore, notifier Notifier) *Service {
	svc := NewService(store, 0, notifier, zap.NewNop().Sugar())
	svc.now = func() time.Time { return testNow }
	return svc
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
