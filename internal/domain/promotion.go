package domain

import "time"

// Promotion kinds.
const (
	KindHotel      = "hotel"
	KindRestaurant = "restaurant"
	KindTour       = "tour"
)

// Promotion statuses.
const (
	StatusPending  = "pending"
	StatusActive   = "active"
	StatusRejected = "rejected"
	StatusExpired  = "expired"
)

type Promotion struct {
	ID           int64      `json:"id"`
	BusinessName string     `json:"business_name"`
	Kind         string     `json:"kind"`
	Title        string     `json:"title"`
	Description  *string    `json:"description,omitempty"`
	City         *string    `json:"city,omitempty"`
	Country      *string    `json:"country,omitempty"`
	URL          *string    `json:"url,omitempty"`
	ContactEmail *string    `json:"contact_email,omitempty"`
	Images       []string   `json:"images"`
	Status       string     `json:"status"`
	StartsAt     *time.Time `json:"starts_at,omitempty"`
	EndsAt       *time.Time `json:"ends_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

type NewPromotion struct {
	BusinessName string     `json:"business_name"`
	Kind         string     `json:"kind"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	City         string     `json:"city"`
	Country      string     `json:"country"`
	URL          string     `json:"url"`
	ContactEmail string     `json:"contact_email"`
	Images       []string   `json:"images"`
	StartsAt     *time.Time `json:"starts_at"`
	EndsAt       *time.Time `json:"ends_at"`
}

type PromotionQuery struct {
	City *string
	Kind *string
	PageQuery
}

type PromotionsPage struct {
	Items      []Promotion `json:"items"`
	NextCursor *string     `json:"next_cursor,omitempty"`
}

// IsPromotionStatus reports whether s is one of the lifecycle states.
func IsPromotionStatus(s string) bool {
	switch s {
	case StatusPending, StatusActive, StatusRejected, StatusExpired:
		return true
	}
	return false
}

// CanTransition reports whether a promotion may move from one status to another.
func CanTransition(from, to string) bool {
	switch from {
	case StatusPending:
		return to == StatusActive || to == StatusRejected
	case StatusActive:
		return to == StatusExpired
	}
	return false
}

// LiveAt reports whether an active promotion's window contains t. Nil bounds are open.
func (p Promotion) LiveAt(t time.Time) bool {
	if p.Status != StatusActive {
		return false
	}
	if p.StartsAt != nil && t.Before(*p.StartsAt) {
		return false
	}
	if p.EndsAt != nil && !t.Before(*p.EndsAt) {
		return false
	}
	return true
}
