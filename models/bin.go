package models

import "time"

var BinTypes = []string{"general", "recyclable", "organic", "hazardous", "e-waste"}

var BinStatuses = []string{"active", "full", "inactive"}

type Location struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

type Bin struct {
	ID        string    `json:"id" bson:"id"`
	OwnerID   string    `json:"ownerId" bson:"owner_id"`
	Type      string    `json:"type" bson:"type"`
	Capacity  int       `json:"capacity" bson:"capacity"` // litres
	Location  Location  `json:"location" bson:"location"`
	Address   string    `json:"address,omitempty" bson:"address,omitempty"`
	Status    string    `json:"status" bson:"status"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at"`
}

// BinTypeStats is one row of the per-type aggregation.
type BinTypeStats struct {
	Type          string `json:"type" bson:"_id"`
	Count         int    `json:"count" bson:"count"`
	TotalCapacity int    `json:"totalCapacity" bson:"total_capacity"`
}
