package domain

import "time"

// Timestamps holds standard bookkeeping times for persisted domain entities.
type Timestamps struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DefaultCurrency is the only currency the gateway is asked to charge in.
const DefaultCurrency = "INR"
