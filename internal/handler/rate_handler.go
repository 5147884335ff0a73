package handler

import (
	"net/http"
	"strconv"
	"time"

	"hotel-pms/internal/dto"
	"hotel-pms/internal/models"
	"hotel-pms/internal/repository"
	"hotel-pms/internal/service"
	"github.com/labstack/echo/v4"
)

type RateHandler struct {
	svc       service.RateService
	planRepo  repository.RatePlanRepository
	offerRepo repository.SpecialOfferRepository
}

func NewRateHandler(svc service.RateService, planRepo repository.RatePlanRepository, offerRepo repository.SpecialOfferRepository) *RateHandler {
	return &RateHandler{svc: svc, planRepo: planRepo, offerRepo: offerRepo}
}

func (h *RateHandler) RegisterRoutes(e *echo.Echo) {
	rates := e.Group("/api/v1/rates")
	rates.GET("", h.GetRate)
	rates.POST("/quote", h.QuoteStay)
	rates.GET("/plans", h.ListPlans)
	rates.POST("/plans", h.CreatePlan)
	rates.PUT("/plans/:id", h.UpdatePlan)
	rates.DELETE("/plans/:id", h.DeletePlan)
	rates.GET("/offers", h.ListOffers)
	rates.POST("/offers", h.CreateOffer)
}

func (h *RateHandler) GetRate(c echo.Context) error {
	category := c.QueryParam("category")
	if category == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "category is required")
	}

	date := time.Now()
	if s := c.QueryParam("date"); s != "" {
		var err error
		if date, err = parseDate(s); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		}
	}

	ctx := c.Request().Context()
	rate, err := h.svc.RateForDate(ctx, date, category)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	plan, season, err := h.svc.SeasonForDate(ctx, date)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := dto.RateResponse{
		Date:         models.DateOnly(date).Format("2006-01-02"),
		RoomCategory: category,
		Rate:         rate,
		Season:       season,
	}
	if plan != nil {
		resp.PlanName = plan.Name
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *RateHandler) QuoteStay(c echo.Context) error {
	var req dto.QuoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	checkIn, _ := parseDate(req.CheckIn)
	checkOut, _ := parseDate(req.CheckOut)
	if !checkOut.After(checkIn) {
		return echo.NewHTTPError(http.StatusBadRequest, "check_out must be after check_in")
	}

	bookingDate := time.Time{}
	if req.BookingDate != "" {
		bookingDate, _ = parseDate(req.BookingDate)
	}

	ctx := c.Request().Context()
	quote, err := h.svc.QuoteStay(ctx, checkIn, checkOut, req.RoomCategory)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	discount, err := h.svc.Discount(ctx, checkIn, quote.Nights, bookingDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, dto.ToQuoteResponse(quote, discount))
}

func (h *RateHandler) ListPlans(c echo.Context) error {
	plans, err := h.planRepo.FindAll(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, plans)
}

func (h *RateHandler) CreatePlan(c echo.Context) error {
	plan, err := h.bindPlan(c)
	if err != nil {
		return err
	}
	if err := h.planRepo.Create(c.Request().Context(), plan); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, plan)
}

func (h *RateHandler) UpdatePlan(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid plan id")
	}

	existing, err := h.planRepo.FindByID(c.Request().Context(), uint(id))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "rate plan not found")
	}

	updated, err := h.bindPlan(c)
	if err != nil {
		return err
	}
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt

	if err := h.planRepo.Update(c.Request().Context(), updated); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *RateHandler) DeletePlan(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid plan id")
	}
	if err := h.planRepo.Delete(c.Request().Context(), uint(id)); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *RateHandler) ListOffers(c echo.Context) error {
	offers, err := h.offerRepo.FindAll(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, offers)
}

func (h *RateHandler) CreateOffer(c echo.Context) error {
	var req dto.SpecialOfferRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	offer := &models.SpecialOffer{
		Name:            req.Name,
		OfferType:       models.OfferType(req.OfferType),
		DiscountPercent: req.DiscountPercent,
		MinDaysBefore:   req.MinDaysBefore,
		MaxDaysBefore:   req.MaxDaysBefore,
		MinNights:       req.MinNights,
		Weekdays:        req.Weekdays,
		PromoCode:       req.PromoCode,
		Active:          true,
	}
	if req.StartDate != "" {
		offer.StartDate, _ = parseDate(req.StartDate)
	}
	if req.EndDate != "" {
		offer.EndDate, _ = parseDate(req.EndDate)
	}
	if req.Active != nil {
		offer.Active = *req.Active
	}

	if err := h.offerRepo.Create(c.Request().Context(), offer); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, offer)
}

func (h *RateHandler) bindPlan(c echo.Context) (*models.RatePlan, error) {
	var req dto.RatePlanRequest
	if err := c.Bind(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return nil, err
	}

	start, _ := parseDate(req.StartDate)
	end, _ := parseDate(req.EndDate)
	if end.Before(start) {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "end_date must not be before start_date")
	}

	plan := &models.RatePlan{
		Name:       req.Name,
		SeasonType: models.SeasonType(req.SeasonType),
		StartDate:  start,
		EndDate:    end,
		Prices:     req.Prices,
		MinStay:    req.MinStay,
		Priority:   req.Priority,
		Active:     true,
	}
	if plan.MinStay < 1 {
		plan.MinStay = 1
	}
	if req.Active != nil {
		plan.Active = *req.Active
	}
	return plan, nil
}

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, time.UTC)
}
