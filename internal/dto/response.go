package dto

import (
	"time"

	"hotel-pms/internal/models"
	"hotel-pms/internal/service"
)

type RateResponse struct {
	Date         string            `json:"date"`
	RoomCategory string            `json:"room_category"`
	Rate         float64           `json:"rate"`
	Season       models.SeasonType `json:"season"`
	PlanName     string            `json:"plan_name,omitempty"`
}

type NightRateResponse struct {
	Date   string            `json:"date"`
	Rate   float64           `json:"rate"`
	Plan   string            `json:"plan"`
	Season models.SeasonType `json:"season"`
}

type QuoteResponse struct {
	Nights          int                 `json:"nights"`
	TotalAmount     float64             `json:"total_amount"`
	AvgRate         float64             `json:"avg_rate"`
	Breakdown       []NightRateResponse `json:"breakdown"`
	OfferName       string              `json:"offer_name,omitempty"`
	DiscountPercent float64             `json:"discount_percent"`
	DiscountedTotal float64             `json:"discounted_total"`
}

type ReservationResponse struct {
	LocalID          string            `json:"local_id"`
	ConfirmationCode string            `json:"confirmation_code"`
	GuestName        string            `json:"guest_name"`
	RoomCategory     string            `json:"room_category"`
	CheckIn          string            `json:"check_in"`
	CheckOut         string            `json:"check_out"`
	SyncStatus       models.SyncStatus `json:"sync_status"`
	SyncError        string            `json:"sync_error,omitempty"`
	SyncedAt         *time.Time        `json:"synced_at,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
}

type ConflictResponse struct {
	ID          string                  `json:"id"`
	LocalID     string                  `json:"local_id"`
	ChannelID   string                  `json:"channel_id"`
	Type        models.ConflictType     `json:"type"`
	Severity    models.ConflictSeverity `json:"severity"`
	Description string                  `json:"description"`
	Resolution  models.Resolution       `json:"resolution,omitempty"`
	ResolvedAt  *time.Time              `json:"resolved_at,omitempty"`
	CreatedAt   time.Time               `json:"created_at"`
}

type SyncResultResponse struct {
	Synced    int                `json:"synced"`
	Errors    int                `json:"errors"`
	Conflicts []ConflictResponse `json:"conflicts"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

func ToQuoteResponse(q *service.StayQuote, d *service.Discount) QuoteResponse {
	resp := QuoteResponse{
		Nights:          q.Nights,
		TotalAmount:     q.TotalAmount,
		AvgRate:         q.AvgRate,
		Breakdown:       make([]NightRateResponse, len(q.Breakdown)),
		DiscountedTotal: q.TotalAmount,
	}
	for i, n := range q.Breakdown {
		resp.Breakdown[i] = NightRateResponse{
			Date:   n.Date.Format("2006-01-02"),
			Rate:   n.Rate,
			Plan:   n.Plan,
			Season: n.Season,
		}
	}
	if d != nil && d.Offer != nil {
		resp.OfferName = d.Offer.Name
		resp.DiscountPercent = d.Percent
		resp.DiscountedTotal = q.TotalAmount * (1 - d.Percent/100)
	}
	return resp
}

func ToReservationResponse(r *models.OfflineReservation) ReservationResponse {
	return ReservationResponse{
		LocalID:          r.LocalID,
		ConfirmationCode: r.ConfirmationCode,
		GuestName:        r.GuestName,
		RoomCategory:     r.RoomCategory,
		CheckIn:          r.CheckIn.Format("2006-01-02"),
		CheckOut:         r.CheckOut.Format("2006-01-02"),
		SyncStatus:       r.SyncStatus,
		SyncError:        r.SyncError,
		SyncedAt:         r.SyncedAt,
		CreatedAt:        r.CreatedAt,
	}
}

func ToConflictResponse(c *models.SyncConflict) ConflictResponse {
	return ConflictResponse{
		ID:          c.ID,
		LocalID:     c.LocalID,
		ChannelID:   c.ChannelID,
		Type:        c.Type,
		Severity:    c.Severity,
		Description: c.Description,
		Resolution:  c.Resolution,
		ResolvedAt:  c.ResolvedAt,
		CreatedAt:   c.CreatedAt,
	}
}

func ToSyncResultResponse(r *service.SyncResult) SyncResultResponse {
	resp := SyncResultResponse{
		Synced:    r.Synced,
		Errors:    r.Errors,
		Conflicts: make([]ConflictResponse, len(r.Conflicts)),
	}
	for i := range r.Conflicts {
		resp.Conflicts[i] = ToConflictResponse(&r.Conflicts[i])
	}
	return resp
}
