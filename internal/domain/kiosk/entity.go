package kiosk

import "time"

// Registration is a customer signup captured at the kiosk.
type Registration struct {
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone,omitempty"`
	BirthDate      string    `json:"birth_date,omitempty"`
	MarketingOptIn bool      `json:"marketing_opt_in"`
	CapturedAt     time.Time `json:"captured_at"`
}
