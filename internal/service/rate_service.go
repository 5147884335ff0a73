package service

import (
	"context"
	"math"
	"time"

	"hotel-pms/internal/models"
	"hotel-pms/internal/repository"
)

// BasePriceLabel names the fallback rate in quote breakdowns.
const BasePriceLabel = "base price"

// DefaultBaseRates are the per-category nightly prices used when no rate plan
// covers a date or a plan has no price for the requested category.
var DefaultBaseRates = models.PriceTable{
	"standard": 1500,
	"superior": 2200,
	"deluxe":   3000,
	"suite":    4500,
	"family":   3800,
}

// DefaultBaseRate applies when the category is absent from the base table too.
const DefaultBaseRate = 1500

type NightRate struct {
	Date   time.Time         `json:"date"`
	Rate   float64           `json:"rate"`
	Plan   string            `json:"plan"`
	Season models.SeasonType `json:"season"`
}

type StayQuote struct {
	Nights      int         `json:"nights"`
	TotalAmount float64     `json:"total_amount"`
	AvgRate     float64     `json:"avg_rate"`
	Breakdown   []NightRate `json:"breakdown"`
}

type Discount struct {
	Offer   *models.SpecialOffer `json:"offer"`
	Percent float64              `json:"percent"`
}

// RateService resolves nightly prices from the seasonal rate-plan set.
// All methods are read-only and degrade to base-price / no-discount defaults
// when data is missing; only storage errors propagate.
type RateService interface {
	RateForDate(ctx context.Context, date time.Time, category string) (float64, error)
	SeasonForDate(ctx context.Context, date time.Time) (*models.RatePlan, models.SeasonType, error)
	QuoteStay(ctx context.Context, checkIn, checkOut time.Time, category string) (*StayQuote, error)
	Discount(ctx context.Context, checkIn time.Time, nights int, bookingDate time.Time) (*Discount, error)
}

type rateService struct {
	planRepo  repository.RatePlanRepository
	offerRepo repository.SpecialOfferRepository
	baseRates models.PriceTable
	baseRate  float64
}

func NewRateService(planRepo repository.RatePlanRepository, offerRepo repository.SpecialOfferRepository, baseRates models.PriceTable, baseRate float64) RateService {
	if baseRates == nil {
		baseRates = DefaultBaseRates
	}
	if baseRate <= 0 {
		baseRate = DefaultBaseRate
	}
	return &rateService{
		planRepo:  planRepo,
		offerRepo: offerRepo,
		baseRates: baseRates,
		baseRate:  baseRate,
	}
}

func (s *rateService) RateForDate(ctx context.Context, date time.Time, category string) (float64, error) {
	plans, err := s.planRepo.FindActive(ctx)
	if err != nil {
		return 0, err
	}
	return s.priceFor(winningPlan(plans, date), category), nil
}

func (s *rateService) SeasonForDate(ctx context.Context, date time.Time) (*models.RatePlan, models.SeasonType, error) {
	plans, err := s.planRepo.FindActive(ctx)
	if err != nil {
		return nil, "", err
	}
	plan := winningPlan(plans, date)
	if plan == nil {
		return nil, models.SeasonBase, nil
	}
	return plan, plan.SeasonType, nil
}

func (s *rateService) QuoteStay(ctx context.Context, checkIn, checkOut time.Time, category string) (*StayQuote, error) {
	plans, err := s.planRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}

	nights := NightsBetween(checkIn, checkOut)
	quote := &StayQuote{
		Nights:    nights,
		Breakdown: make([]NightRate, 0, nights),
	}

	start := models.DateOnly(checkIn)
	for i := 0; i < nights; i++ {
		night := start.AddDate(0, 0, i)
		plan := winningPlan(plans, night)
		rate := s.priceFor(plan, category)

		nr := NightRate{Date: night, Rate: rate, Plan: BasePriceLabel, Season: models.SeasonBase}
		if plan != nil {
			nr.Plan = plan.Name
			nr.Season = plan.SeasonType
		}
		quote.Breakdown = append(quote.Breakdown, nr)
		quote.TotalAmount += rate
	}

	quote.AvgRate = math.Round(quote.TotalAmount / float64(nights))
	return quote, nil
}

// Discount evaluates active offers in fixed precedence order: early-bird,
// then last-minute, then long-stay. The first satisfied offer wins; offers
// never stack. Other offer types are carried in the data model but take no
// part in evaluation.
func (s *rateService) Discount(ctx context.Context, checkIn time.Time, nights int, bookingDate time.Time) (*Discount, error) {
	if bookingDate.IsZero() {
		bookingDate = time.Now()
	}
	offers, err := s.offerRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}

	days := DaysBefore(checkIn, bookingDate)
	for _, typ := range []models.OfferType{models.OfferEarlyBird, models.OfferLastMinute, models.OfferLongStay} {
		for i := range offers {
			o := &offers[i]
			if o.OfferType != typ || !o.InWindow(checkIn) {
				continue
			}
			if offerApplies(o, days, nights) {
				return &Discount{Offer: o, Percent: o.DiscountPercent}, nil
			}
		}
	}
	return &Discount{Percent: 0}, nil
}

func offerApplies(o *models.SpecialOffer, daysBefore, nights int) bool {
	switch o.OfferType {
	case models.OfferEarlyBird:
		return daysBefore >= o.MinDaysBefore
	case models.OfferLastMinute:
		return daysBefore >= 0 && daysBefore <= o.MaxDaysBefore
	case models.OfferLongStay:
		return nights >= o.MinNights
	default:
		return false
	}
}

// winningPlan picks the covering plan with the highest priority. Equal
// priorities break on the lowest ID so the result is deterministic.
func winningPlan(plans []models.RatePlan, date time.Time) *models.RatePlan {
	var best *models.RatePlan
	for i := range plans {
		p := &plans[i]
		if !p.Active || !p.Covers(date) {
			continue
		}
		if best == nil || p.Priority > best.Priority || (p.Priority == best.Priority && p.ID < best.ID) {
			best = p
		}
	}
	return best
}

func (s *rateService) priceFor(plan *models.RatePlan, category string) float64 {
	if plan != nil {
		if price, ok := plan.Prices[category]; ok {
			return price
		}
	}
	if price, ok := s.baseRates[category]; ok {
		return price
	}
	return s.baseRate
}

// NightsBetween returns the stay length in nights, never less than 1 even for
// same-day or inverted inputs.
func NightsBetween(checkIn, checkOut time.Time) int {
	n := int(math.Ceil(checkOut.Sub(checkIn).Hours() / 24))
	if n < 1 {
		return 1
	}
	return n
}

// DaysBefore is the ceiling day difference between check-in and booking date.
// Negative when the booking date is after check-in.
func DaysBefore(checkIn, bookingDate time.Time) int {
	return int(math.Ceil(checkIn.Sub(bookingDate).Hours() / 24))
}
