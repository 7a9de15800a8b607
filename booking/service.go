package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"wastewise/apperr"
	"wastewise/models"
	"wastewise/utils"

	"go.uber.org/zap"
)

// Notifier is told about days whose availability may have changed.
type Notifier interface {
	NotifyDay(day time.Time)
}

type Service struct {
	store    Store
	slots    []string
	capacity int
	notifier Notifier
	now      func() time.Time
	log      *zap.SugaredLogger
}

func NewService(store Store, capacity int, notifier Notifier, log *zap.SugaredLogger) *Service {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Service{
		store:    store,
		slots:    DefaultSlots,
		capacity: capacity,
		notifier: notifier,
		now:      time.Now,
		log:      log,
	}
}

// CheckAvailability lists the slots of the given day that are under capacity.
// It is advisory: nothing is reserved, and Create does not re-check, so two
// callers can both see a slot as open and both book it.
func (s *Service) CheckAvailability(ctx context.Context, rawDate string) ([]string, error) {
	day, err := ParseDate(rawDate)
	if err != nil {
		return nil, err
	}
	start, end := DayBounds(day)
	bookings, err := s.store.FindBetween(ctx, start, end)
	if err != nil {
		return nil, apperr.Internal("could not check availability", err)
	}
	return AvailableSlots(bookings, s.slots, s.capacity), nil
}

type CreateInput struct {
	Date       string   `json:"date"`
	TimeSlot   string   `json:"timeSlot"`
	Address    string   `json:"address"`
	WasteTypes []string `json:"wasteTypes"`
	Notes      string   `json:"notes"`
}

func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (*models.Booking, error) {
	day, err := ParseDate(in.Date)
	if err != nil {
		return nil, err
	}
	today, _ := DayBounds(s.now())
	if day.Before(today) {
		return nil, apperr.Validation("date must not be in the past")
	}
	slot := strings.TrimSpace(in.TimeSlot)
	if !validSlot(s.slots, slot) {
		return nil, apperr.Validation("invalid time slot")
	}
	address := strings.TrimSpace(in.Address)
	if address == "" {
		return nil, apperr.Validation("address is required")
	}

	b := &models.Booking{
		ID:         utils.GetUUID(),
		UserID:     userID,
		Date:       day,
		TimeSlot:   slot,
		Address:    address,
		WasteTypes: in.WasteTypes,
		Notes:      strings.TrimSpace(in.Notes),
		Status:     models.BookingPending,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.store.Insert(ctx, b); err != nil {
		return nil, apperr.Internal("could not create booking", err)
	}

	s.log.Infow("special collection booked", "booking", b.ID, "date", day.Format(dateLayout), "slot", slot)
	if s.notifier != nil {
		s.notifier.NotifyDay(day)
	}
	return b, nil
}

func (s *Service) ListForUser(ctx context.Context, userID string) ([]models.Booking, error) {
	bookings, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("could not load bookings", err)
	}
	return bookings, nil
}

// Get returns a booking visible to the caller: its owner, or an admin.
func (s *Service) Get(ctx context.Context, id, userID string, isAdmin bool) (*models.Booking, error) {
	b, err := s.store.FindByID(ctx, id)
	if errors.Is(err, ErrBookingNotFound) {
		return nil, apperr.NotFound("booking not found")
	}
	if err != nil {
		return nil, apperr.Internal("could not load booking", err)
	}
	if b.UserID != userID && !isAdmin {
		return nil, apperr.Forbidden("not your booking")
	}
	return b, nil
}

// CheckReceipt confirms a scanned receipt still describes a stored booking.
func (s *Service) CheckReceipt(ctx context.Context, claim *ReceiptClaim) (*models.Booking, error) {
	b, err := s.Get(ctx, claim.BookingID, "", true)
	if err != nil {
		return nil, err
	}
	if b.Date.UTC().Format(dateLayout) != claim.Date || b.TimeSlot != claim.TimeSlot {
		return nil, apperr.Validation("receipt does not match booking")
	}
	return b, nil
}
