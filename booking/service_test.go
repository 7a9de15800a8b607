package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"wastewise/apperr"
	"wastewise/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckAvailabilityFullSlot(t *testing.T) {
	store := &fakeStore{}
	store.seed(day(2025, 10, 30), "8:00 AM - 11:00 AM", 5)
	svc := newTestService(store, nil)

	slots, err := svc.CheckAvailability(context.Background(), "2025-10-30")
	require.NoError(t, err)
	assert.Equal(t, []string{"11:00 AM - 2:00 PM", "2:00 PM - 5:00 PM"}, slots)
}

func TestCheckAvailabilityOnlyCountsThatDay(t *testing.T) {
	store := &fakeStore{}
	store.seed(day(2025, 10, 29), DefaultSlots[0], 5)
	store.seed(day(2025, 10, 31), DefaultSlots[0], 5)
	svc := newTestService(store, nil)

	slots, err := svc.CheckAvailability(context.Background(), "2025-10-30")
	require.NoError(t, err)
	assert.Equal(t, DefaultSlots, slots)
}

func TestCheckAvailabilityBelowCapacityUnderConcurrency(t *testing.T) {
	store := &fakeStore{}
	store.seed(day(2025, 10, 30), DefaultSlots[0], 4)
	svc := newTestService(store, nil)

	var wg sync.WaitGroup
	results := make([][]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			slots, err := svc.CheckAvailability(context.Background(), "2025-10-30")
			assert.NoError(t, err)
			results[i] = slots
		}(i)
	}
	wg.Wait()

	for _, slots := range results {
		assert.Equal(t, DefaultSlots, slots)
	}
	assert.Len(t, store.bookings, 4)
}

func TestCheckAvailabilityErrors(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store, nil)

	_, err := svc.CheckAvailability(context.Background(), "")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Equal(t, 0, store.queries)

	_, err = svc.CheckAvailability(context.Background(), "tomorrow")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	store.err = errors.New("connection reset")
	_, err = svc.CheckAvailability(context.Background(), "2025-10-30")
	assert.True(t, apperr.Is(err, apperr.KindInternal))
}

func TestCreateBooking(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	svc := newTestService(store, notifier)

	b, err := svc.Create(context.Background(), "u-1", CreateInput{
		Date:       "2025-10-30",
		TimeSlot:   "11:00 AM - 2:00 PM",
		Address:    " 12 Palm Street ",
		WasteTypes: []string{"furniture"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, "u-1", b.UserID)
	assert.Equal(t, day(2025, 10, 30), b.Date)
	assert.Equal(t, "12 Palm Street", b.Address)
	assert.Equal(t, models.BookingPending, b.Status)
	assert.Len(t, store.bookings, 1)
	assert.Equal(t, []time.Time{day(2025, 10, 30)}, notifier.days)
}

func TestCreateBookingDoesNotEnforceCapacity(t *testing.T) {
	store := &fakeStore{}
	store.seed(day(2025, 10, 30), DefaultSlots[0], 5)
	svc := newTestService(store, nil)

	_, err := svc.Create(context.Background(), "u-1", CreateInput{Date: "2025-10-30", TimeSlot: DefaultSlots[0], Address: "x"})
	require.NoError(t, err)
	assert.Len(t, store.bookings, 6)
}

func TestCreateBookingValidation(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	svc := newTestService(store, notifier)

	cases := map[string]CreateInput{
		"missing date": {TimeSlot: DefaultSlots[0], Address: "x"},
		"past date":    {Date: "2025-10-27", TimeSlot: DefaultSlots[0], Address: "x"},
		"bad slot":     {Date: "2025-10-30", TimeSlot: "9:00 PM - 10:00 PM", Address: "x"},
		"no address":   {Date: "2025-10-30", TimeSlot: DefaultSlots[0], Address: "  "},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), "u-1", in)
			assert.True(t, apperr.Is(err, apperr.KindValidation))
		})
	}
	assert.Empty(t, store.bookings)
	assert.Empty(t, notifier.days)

	// Today is still bookable.
	_, err := svc.Create(context.Background(), "u-1", CreateInput{Date: "2025-10-28", TimeSlot: DefaultSlots[2], Address: "x"})
	assert.NoError(t, err)
}

func TestGetBookingAccess(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store, nil)
	b, err := svc.Create(context.Background(), "u-1", CreateInput{Date: "2025-10-30", TimeSlot: DefaultSlots[0], Address: "x"})
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), b.ID, "u-1", false)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	_, err = svc.Get(context.Background(), b.ID, "u-2", false)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	_, err = svc.Get(context.Background(), b.ID, "u-2", true)
	assert.NoError(t, err)

	_, err = svc.Get(context.Background(), "missing", "u-1", false)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestListForUserNewestFirst(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store, nil)
	first, _ := svc.Create(context.Background(), "u-1", CreateInput{Date: "2025-10-30", TimeSlot: DefaultSlots[0], Address: "x"})
	_, _ = svc.Create(context.Background(), "u-2", CreateInput{Date: "2025-10-30", TimeSlot: DefaultSlots[0], Address: "y"})
	second, _ := svc.Create(context.Background(), "u-1", CreateInput{Date: "2025-10-31", TimeSlot: DefaultSlots[1], Address: "x"})

	list, err := svc.ListForUser(context.Background(), "u-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}
