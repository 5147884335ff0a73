package handler

import (
	"errors"
	"net/http"
	"strconv"

	"hotel-pms/internal/dto"
	"hotel-pms/internal/models"
	"hotel-pms/internal/repository"
	"hotel-pms/internal/service"
	"github.com/labstack/echo/v4"
)

type SyncHandler struct {
	svc          service.SyncService
	queueRepo    repository.OfflineQueueRepository
	channelRepo  repository.ChannelBufferRepository
	conflictRepo repository.ConflictRepository
	logRepo      repository.SyncLogRepository
}

func NewSyncHandler(
	svc service.SyncService,
	queueRepo repository.OfflineQueueRepository,
	channelRepo repository.ChannelBufferRepository,
	conflictRepo repository.ConflictRepository,
	logRepo repository.SyncLogRepository,
) *SyncHandler {
	return &SyncHandler{
		svc:          svc,
		queueRepo:    queueRepo,
		channelRepo:  channelRepo,
		conflictRepo: conflictRepo,
		logRepo:      logRepo,
	}
}

func (h *SyncHandler) RegisterRoutes(e *echo.Echo) {
	sync := e.Group("/api/v1/sync")
	sync.POST("/queue", h.AddToQueue)
	sync.GET("/queue", h.ListQueue)
	sync.POST("/run", h.RunSync)
	sync.GET("/conflicts", h.ListConflicts)
	sync.POST("/conflicts/:id/resolve", h.ResolveConflict)
	sync.GET("/channel", h.ListChannelReservations)
	sync.GET("/log", h.GetLog)
}

func (h *SyncHandler) AddToQueue(c echo.Context) error {
	var req dto.OfflineReservationRequest
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

	res := &models.OfflineReservation{
		GuestName:    req.GuestName,
		GuestEmail:   req.GuestEmail,
		GuestPhone:   req.GuestPhone,
		RoomCategory: req.RoomCategory,
		CheckIn:      checkIn,
		CheckOut:     checkOut,
		Adults:       req.Adults,
		Children:     req.Children,
		Notes:        req.Notes,
	}
	if res.Adults < 1 {
		res.Adults = 1
	}

	created, err := h.svc.AddToQueue(c.Request().Context(), res)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, dto.ToReservationResponse(created))
}

func (h *SyncHandler) ListQueue(c echo.Context) error {
	ctx := c.Request().Context()

	var (
		items []models.OfflineReservation
		err   error
	)
	if s := c.QueryParam("status"); s != "" {
		items, err = h.queueRepo.FindByStatus(ctx, models.SyncStatus(s))
	} else {
		items, err = h.queueRepo.FindAll(ctx)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]dto.ReservationResponse, len(items))
	for i := range items {
		resp[i] = dto.ToReservationResponse(&items[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *SyncHandler) RunSync(c echo.Context) error {
	result, err := h.svc.SyncReservations(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, dto.ToSyncResultResponse(result))
}

func (h *SyncHandler) ListConflicts(c echo.Context) error {
	ctx := c.Request().Context()

	var (
		items []models.SyncConflict
		err   error
	)
	if c.QueryParam("unresolved") == "true" {
		items, err = h.conflictRepo.FindUnresolved(ctx)
	} else {
		items, err = h.conflictRepo.FindAll(ctx)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]dto.ConflictResponse, len(items))
	for i := range items {
		resp[i] = dto.ToConflictResponse(&items[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *SyncHandler) ResolveConflict(c echo.Context) error {
	var req dto.ResolveConflictRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	conflict, err := h.svc.ResolveConflict(c.Request().Context(), c.Param("id"), models.Resolution(req.Resolution))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrConflictNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrConflictResolved):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrInvalidResolution):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusOK, dto.ToConflictResponse(conflict))
}

func (h *SyncHandler) ListChannelReservations(c echo.Context) error {
	items, err := h.channelRepo.FindAll(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *SyncHandler) GetLog(c echo.Context) error {
	limit := 0
	if s := c.QueryParam("limit"); s != "" {
		limit, _ = strconv.Atoi(s)
	}
	entries, err := h.logRepo.Recent(c.Request().Context(), limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, entries)
}
