package models

import (
	"time"
)

const (
	OrderStatusScheduled = "scheduled"
	OrderStatusProcessed = "processed"
)

// UpcomingOrder is a normalized, not-yet-processed order row for one
// client/day/service-type. Status transitions belong to the external batches;
// this module reads status but never writes it.
type UpcomingOrder struct {
	ID          int       `json:"id"`
	ClientID    int       `json:"client_id"`
	DeliveryDay *string   `json:"delivery_day,omitempty"`
	ServiceType string    `json:"service_type"`
	Status      string    `json:"status"`
	MealType    *string   `json:"meal_type,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// VendorSelection groups one vendor's line items within an upcoming order.
type VendorSelection struct {
	ID              int  `json:"id"`
	UpcomingOrderID int  `json:"upcoming_order_id"`
	VendorID        *int `json:"vendor_id,omitempty"`
}

type OrderItem struct {
	ID                int     `json:"id"`
	VendorSelectionID int     `json:"vendor_selection_id"`
	UpcomingOrderID   int     `json:"upcoming_order_id"`
	ItemRef           int     `json:"item_ref"`
	Quantity          int     `json:"quantity"`
	UnitValue         float64 `json:"unit_value"`
	TotalValue        float64 `json:"total_value"`
	Notes             string  `json:"notes,omitempty"`
}

var weekdays = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// IsWeekday reports whether day is one of the seven weekday names used as
// delivery days.
func IsWeekday(day string) bool {
	for _, d := range weekdays {
		if d == day {
			return true
		}
	}
	return false
}

// WeekdayIndex returns the position of day in the Monday-first week, or -1.
// Used only for stable report ordering.
func WeekdayIndex(day string) int {
	for i, d := range weekdays {
		if d == day {
			return i
		}
	}
	return -1
}
