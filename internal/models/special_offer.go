package models

import (
	"time"

	"github.com/lib/pq"
)

type OfferType string

const (
	OfferEarlyBird  OfferType = "early-bird"
	OfferLastMinute OfferType = "last-minute"
	OfferLongStay   OfferType = "long-stay"
	OfferWeekend    OfferType = "weekend"
	OfferCorporate  OfferType = "corporate"
	OfferCustom     OfferType = "custom"
)

// SpecialOffer is a percentage discount rule active within a date window.
// Weekend, corporate and custom offers are accepted from external data but the
// discount evaluator only considers early-bird, last-minute and long-stay.
type SpecialOffer struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Name            string         `gorm:"not null" json:"name"`
	OfferType       OfferType      `gorm:"type:varchar(20);not null" json:"offer_type"`
	DiscountPercent float64        `gorm:"not null" json:"discount_percent"`
	StartDate       time.Time      `gorm:"type:date" json:"start_date"`
	EndDate         time.Time      `gorm:"type:date" json:"end_date"`
	MinDaysBefore   int            `json:"min_days_before"`
	MaxDaysBefore   int            `json:"max_days_before"`
	MinNights       int            `json:"min_nights"`
	Weekdays        pq.StringArray `gorm:"type:text[]" json:"weekdays"`
	PromoCode       string         `json:"promo_code"`
	Active          bool           `gorm:"not null;default:true" json:"active"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// InWindow reports whether d falls inside the offer's validity window.
// A zero start or end date leaves that side of the window open.
func (o *SpecialOffer) InWindow(d time.Time) bool {
	day := DateOnly(d)
	if !o.StartDate.IsZero() && day.Before(DateOnly(o.StartDate)) {
		return false
	}
	if !o.EndDate.IsZero() && day.After(DateOnly(o.EndDate)) {
		return false
	}
	return true
}
