package models

import "time"

const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCompleted = "completed"
	BookingCancelled = "cancelled"
)

// Booking is a special-collection pickup request for one slot on one day.
type Booking struct {
	ID         string    `json:"id" bson:"id"`
	UserID     string    `json:"userid" bson:"userid"`
	Date       time.Time `json:"date" bson:"date"` // UTC midnight of the booked day
	TimeSlot   string    `json:"timeSlot" bson:"time_slot"`
	Address    string    `json:"address" bson:"address"`
	WasteTypes []string  `json:"wasteTypes,omitempty" bson:"waste_types,omitempty"`
	Notes      string    `json:"notes,omitempty" bson:"notes,omitempty"`
	Status     string    `json:"status" bson:"status"`
	CreatedAt  time.Time `json:"createdAt" bson:"created_at"`
}
