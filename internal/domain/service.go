package domain

import "time"

// Promotion is a temporary discounted price for a service
type Promotion struct {
	IsActive        bool
	DiscountedPrice float64
	ValidUntil      *time.Time
}

// Service represents an offering of the barbershop (haircut, beard trim, ...)
type Service struct {
	ID              int64
	Name            string
	Description     string
	DurationMinutes int
	Price           float64
	Promotion       *Promotion

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasActivePromotion returns true if the promotion applies at the given moment
func (s *Service) HasActivePromotion(now time.Time) bool {
	if s.Promotion == nil || !s.Promotion.IsActive {
		return false
	}
	return s.Promotion.ValidUntil == nil || !now.After(*s.Promotion.ValidUntil)
}

// EffectivePrice returns the price charged for the service at the given moment
func (s *Service) EffectivePrice(now time.Time) float64 {
	if s.HasActivePromotion(now) {
		return s.Promotion.DiscountedPrice
	}
	return s.Price
}
