package domain

import (
	"time"
)

// Shop is a seller posting surplus-food surprise bags.
type Shop struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Address      string    `json:"address,omitempty"`
	Location     GeoPoint  `json:"location"`
	Phone        string    `json:"phone,omitempty"`
	OpeningHours string    `json:"opening_hours,omitempty"`
	Rating       float64   `json:"rating"`
	IsActive     bool      `json:"is_active"`
	Distance     *float64  `json:"distance,omitempty"` // computed field, km
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CollectionWindow is the pickup time-of-day window for a bag, HH:MM.
type CollectionWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Bag is a discounted surprise bag of surplus food. Its lifecycle status is
// never stored; it is derived from the collection window and the two
// availability flags on every read (see Classify).
type Bag struct {
	ID                string           `json:"id"`
	ShopID            string           `json:"shop_id"`
	Title             string           `json:"title"`
	Description       string           `json:"description,omitempty"`
	Category          string           `json:"category,omitempty"`
	OriginalPrice     float64          `json:"original_price"`
	DiscountedPrice   float64          `json:"discounted_price"`
	TotalQuantity     int              `json:"total_quantity"`
	RemainingQuantity int              `json:"remaining_quantity"`
	CollectionDate    string           `json:"collection_date"` // YYYY-MM-DD
	CollectionWindow  CollectionWindow `json:"collection_window"`
	IsActive          bool             `json:"is_active"`
	IsAvailable       bool             `json:"is_available"`
	Location          *GeoPoint        `json:"location,omitempty"`
	Distance          *float64         `json:"distance,omitempty"` // computed field, km
	Status            BagStatus        `json:"status,omitempty"`   // computed field
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// ReservationStatus is the state of a customer's claim on a bag.
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCollected ReservationStatus = "collected"
	ReservationCancelled ReservationStatus = "cancelled"
)

// Reservation is a customer's claim on part of a bag's quantity.
type Reservation struct {
	ID          string            `json:"id"`
	BagID       string            `json:"bag_id"`
	CustomerID  string            `json:"customer_id"`
	Quantity    int               `json:"quantity"`
	PickupCode  string            `json:"pickup_code"`
	Status      ReservationStatus `json:"status"`
	ReservedAt  time.Time         `json:"reserved_at"`
	CollectedAt *time.Time        `json:"collected_at,omitempty"`
}

// Favorite marks a shop a customer wants to follow.
type Favorite struct {
	CustomerID string    `json:"customer_id"`
	ShopID     string    `json:"shop_id"`
	CreatedAt  time.Time `json:"created_at"`
}
