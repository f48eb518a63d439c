package models

import (
	"encoding/json"
	"time"
)

// Client is a social-services client. ActiveOrder is the raw denormalized
// order document (legacy cache shape); parse it with ParseActiveOrder.
type Client struct {
	ID          int             `json:"id"`
	FullName    string          `json:"full_name"`
	ServiceType string          `json:"service_type"`
	ActiveOrder json.RawMessage `json:"active_order,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Vendor carries the delivery-day whitelist used by the vendor-day checks.
type Vendor struct {
	ID                    int      `json:"id"`
	Name                  string   `json:"name"`
	SupportedDeliveryDays []string `json:"supported_delivery_days"`
}

// SupportsDay reports whether the vendor delivers on day. An empty
// supported-day set means no restriction.
func (v Vendor) SupportsDay(day string) bool {
	if len(v.SupportedDeliveryDays) == 0 {
		return true
	}
	for _, d := range v.SupportedDeliveryDays {
		if d == day {
			return true
		}
	}
	return false
}

// SingleDay returns the vendor's only supported day when exactly one exists.
func (v Vendor) SingleDay() (string, bool) {
	if len(v.SupportedDeliveryDays) == 1 {
		return v.SupportedDeliveryDays[0], true
	}
	return "", false
}

// MealTypeCategory is the source of truth for valid meal-type strings.
type MealTypeCategory struct {
	ID       int    `json:"id"`
	MealType string `json:"meal_type"`
}
