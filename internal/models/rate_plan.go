package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

type SeasonType string

const (
	SeasonLow     SeasonType = "low"
	SeasonMid     SeasonType = "mid"
	SeasonHigh    SeasonType = "high"
	SeasonPeak    SeasonType = "peak"
	SeasonSpecial SeasonType = "special"

	// SeasonBase is reported when no rate plan covers a date.
	SeasonBase SeasonType = "base"
)

// PriceTable maps a room category to its nightly price. Stored as JSONB.
type PriceTable map[string]float64

func (p PriceTable) Value() (driver.Value, error) {
	if p == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(p)
}

func (p *PriceTable) Scan(value interface{}) error {
	if value == nil {
		*p = PriceTable{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return errors.New("unsupported type for PriceTable")
	}
}

type RatePlan struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Name       string     `gorm:"not null" json:"name"`
	SeasonType SeasonType `gorm:"type:varchar(20);not null" json:"season_type"`
	StartDate  time.Time  `gorm:"type:date;not null" json:"start_date"`
	EndDate    time.Time  `gorm:"type:date;not null" json:"end_date"`
	Prices     PriceTable `gorm:"type:jsonb;not null" json:"prices"`
	MinStay    int        `gorm:"not null;default:1" json:"min_stay"`
	Priority   int        `gorm:"not null;default:0" json:"priority"`
	Active     bool       `gorm:"not null;default:true" json:"active"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Covers reports whether the plan's date interval contains d, inclusive on both ends.
func (p *RatePlan) Covers(d time.Time) bool {
	day := DateOnly(d)
	return !day.Before(DateOnly(p.StartDate)) && !day.After(DateOnly(p.EndDate))
}

// DateOnly truncates t to a calendar date at UTC midnight.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
