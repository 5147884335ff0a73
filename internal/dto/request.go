package dto

type QuoteRequest struct {
	CheckIn      string `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut     string `json:"check_out" validate:"required,datetime=2006-01-02"`
	RoomCategory string `json:"room_category" validate:"required"`
	BookingDate  string `json:"booking_date" validate:"omitempty,datetime=2006-01-02"`
}

type RatePlanRequest struct {
	Name       string             `json:"name" validate:"required"`
	SeasonType string             `json:"season_type" validate:"required,oneof=low mid high peak special"`
	StartDate  string             `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate    string             `json:"end_date" validate:"required,datetime=2006-01-02"`
	Prices     map[string]float64 `json:"prices" validate:"required,min=1,dive,gt=0"`
	MinStay    int                `json:"min_stay" validate:"gte=0"`
	Priority   int                `json:"priority"`
	Active     *bool              `json:"active"`
}

type SpecialOfferRequest struct {
	Name            string   `json:"name" validate:"required"`
	OfferType       string   `json:"offer_type" validate:"required,oneof=early-bird last-minute long-stay weekend corporate custom"`
	DiscountPercent float64  `json:"discount_percent" validate:"required,gt=0,lte=100"`
	StartDate       string   `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate         string   `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	MinDaysBefore   int      `json:"min_days_before" validate:"gte=0"`
	MaxDaysBefore   int      `json:"max_days_before" validate:"gte=0"`
	MinNights       int      `json:"min_nights" validate:"gte=0"`
	Weekdays        []string `json:"weekdays" validate:"omitempty,dive,oneof=mon tue wed thu fri sat sun"`
	PromoCode       string   `json:"promo_code"`
	Active          *bool    `json:"active"`
}

type OfflineReservationRequest struct {
	GuestName    string `json:"guest_name" validate:"required"`
	GuestEmail   string `json:"guest_email" validate:"omitempty,email"`
	GuestPhone   string `json:"guest_phone"`
	RoomCategory string `json:"room_category" validate:"required"`
	CheckIn      string `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut     string `json:"check_out" validate:"required,datetime=2006-01-02"`
	Adults       int    `json:"adults" validate:"gte=1"`
	Children     int    `json:"children" validate:"gte=0"`
	Notes        string `json:"notes"`
}

type ResolveConflictRequest struct {
	Resolution string `json:"resolution" validate:"required,oneof=keep-local keep-remote merge dismiss"`
}
