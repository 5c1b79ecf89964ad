package booking

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/heinthant2k4/sports-arena-booking/internal/api"
	"github.com/heinthant2k4/sports-arena-booking/internal/auth"
	"github.com/heinthant2k4/sports-arena-booking/internal/logger"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func pathID(c *gin.Context, name, label string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid " + label + " ID"})
		return 0, false
	}
	return id, true
}

func queryTime(c *gin.Context, key string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339, c.Query(key))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: key + " must be an RFC3339 timestamp"})
		return time.Time{}, false
	}
	return t, true
}

func session(c *gin.Context) (auth.Session, bool) {
	s, ok := auth.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
	}
	return s, ok
}

func respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrFacilityNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Facility not found"})
	case errors.Is(err, ErrBookingNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Booking not found"})
	case errors.Is(err, ErrSlotUnavailable), errors.Is(err, ErrInvalidTransition):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrCancellationNotAllowed):
		c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrForbidden):
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "Access denied"})
	case errors.Is(err, ErrInvalidBookingTime),
		errors.Is(err, ErrFacilityInactive),
		errors.Is(err, ErrInvalidDate),
		errors.Is(err, ErrInvalidFilter):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	default:
		logger.Error(fallback, "error", err, "path", c.FullPath())
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: fallback})
	}
}

// GetAvailability godoc
// @Summary      Daily slot availability
// @Description  Reports every hourly slot from 08:00 to 22:00 of the given date as available or not.
// @Tags         availability
// @Security     BearerAuth
// @Produce      json
// @Param        facilityID  path      int     true  "Facility ID"
// @Param        date        query     string  true  "Date (YYYY-MM-DD)"
// @Success      200         {object}  AvailabilityResponse
// @Failure      400         {object}  api.ErrorResponse
// @Failure      404         {object}  api.ErrorResponse
// @Failure      500         {object}  api.ErrorResponse
// @Router       /facilities/{facilityID}/availability [get]
func (h *Handler) GetAvailability(c *gin.Context) {
	facilityID, ok := pathID(c, "facilityID", "facility")
	if !ok {
		return
	}

	resp, err := h.service.CheckAvailability(c.Request.Context(), facilityID, c.Query("date"))
	if err != nil {
		respondError(c, err, "Failed to check availability")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// CheckInterval godoc
// @Summary      Check a time range
// @Description  Reports whether [start, end) is free and lists the intervals it collides with.
// @Tags         availability
// @Security     BearerAuth
// @Produce      json
// @Param        facilityID  path      int     true  "Facility ID"
// @Param        start       query     string  true  "Start (RFC3339)"
// @Param        end         query     string  true  "End (RFC3339)"
// @Param        exclude     query     int     false  "Booking ID to ignore, when checking where it could move"
// @Success      200         {object}  IntervalCheck
// @Failure      400         {object}  api.ErrorResponse
// @Failure      404         {object}  api.ErrorResponse
// @Failure      500         {object}  api.ErrorResponse
// @Router       /facilities/{facilityID}/availability/check [get]
func (h *Handler) CheckInterval(c *gin.Context) {
	facilityID, ok := pathID(c, "facilityID", "facility")
	if !ok {
		return
	}
	start, ok := queryTime(c, "start")
	if !ok {
		return
	}
	end, ok := queryTime(c, "end")
	if !ok {
		return
	}

	exclude := 0
	if raw := c.Query("exclude"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid booking ID"})
			return
		}
		exclude = id
	}

	resp, err := h.service.CheckInterval(c.Request.Context(), facilityID, start, end, exclude)
	if err != nil {
		respondError(c, err, "Failed to check availability")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// CreateBooking godoc
// @Summary      Book a facility
// @Description  Books [start_time, end_time) on a facility. Fails with 409 when the range is taken.
// @Tags         bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateBookingRequest  true  "Booking"
// @Success      201      {object}  Booking
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /bookings [post]
func (h *Handler) CreateBooking(c *gin.Context) {
	s, ok := session(c)
	if !ok {
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, err)
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), s, req)
	if err != nil {
		respondError(c, err, "Failed to create booking")
		return
	}

	c.JSON(http.StatusCreated, b)
}

// UpdateBooking godoc
// @Summary      Move a pending booking
// @Description  Changes the range of a pending booking. Its own interval never counts as a conflict.
// @Tags         bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        bookingID  path      int                   true  "Booking ID"
// @Param        request    body      UpdateBookingRequest  true  "New range"
// @Success      200        {object}  Booking
// @Failure      400        {object}  api.ErrorResponse
// @Failure      403        {object}  api.ErrorResponse
// @Failure      404        {object}  api.ErrorResponse
// @Failure      409        {object}  api.ErrorResponse
// @Failure      500        {object}  api.ErrorResponse
// @Router       /bookings/{bookingID} [put]
func (h *Handler) UpdateBooking(c *gin.Context) {
	s, ok := session(c)
	if !ok {
		return
	}
	bookingID, ok := pathID(c, "bookingID", "booking")
	if !ok {
		return
	}

	var req UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, err)
		return
	}

	b, err := h.service.UpdateBooking(c.Request.Context(), s, bookingID, req)
	if err != nil {
		respondError(c, err, "Failed to update booking")
		return
	}

	c.JSON(http.StatusOK, b)
}

// ListMyBookings godoc
// @Summary      List my bookings
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        filter  query     string  false  "all, upcoming, past, cancelled or cancellable"
// @Success      200     {array}   BookingView
// @Failure      400     {object}  api.ErrorResponse
// @Failure      500     {object}  api.ErrorResponse
// @Router       /bookings [get]
func (h *Handler) ListMyBookings(c *gin.Context) {
	s, ok := session(c)
	if !ok {
		return
	}

	bookings, err := h.service.ListMyBookings(c.Request.Context(), s, ListFilter(c.Query("filter")))
	if err != nil {
		respondError(c, err, "Failed to fetch bookings")
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// GetBooking godoc
// @Summary      Get booking
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        bookingID  path      int  true  "Booking ID"
// @Success      200        {object}  BookingView
// @Failure      403        {object}  api.ErrorResponse
// @Failure      404        {object}  api.ErrorResponse
// @Router       /bookings/{bookingID} [get]
func (h *Handler) GetBooking(c *gin.Context) {
	s, ok := session(c)
	if !ok {
		return
	}
	bookingID, ok := pathID(c, "bookingID", "booking")
	if !ok {
		return
	}

	b, err := h.service.GetBooking(c.Request.Context(), s, bookingID)
	if err != nil {
		respondError(c, err, "Failed to fetch booking")
		return
	}

	c.JSON(http.StatusOK, b)
}

// CancelBooking godoc
// @Summary      Cancel booking
// @Description  Cancels an active booking that starts more than 2 hours from now.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        bookingID  path      int  true  "Booking ID"
// @Success      200        {object}  Booking
// @Failure      403        {object}  api.ErrorResponse
// @Failure      404        {object}  api.ErrorResponse
// @Failure      422        {object}  api.ErrorResponse
// @Failure      500        {object}  api.ErrorResponse
// @Router       /bookings/{bookingID}/cancel [post]
func (h *Handler) CancelBooking(c *gin.Context) {
	s, ok := session(c)
	if !ok {
		return
	}
	bookingID, ok := pathID(c, "bookingID", "booking")
	if !ok {
		return
	}

	b, err := h.service.CancelBooking(c.Request.Context(), s, bookingID)
	if err != nil {
		respondError(c, err, "Failed to cancel booking")
		return
	}

	c.JSON(http.StatusOK, b)
}

// ConfirmBooking godoc
// @Summary      Confirm a pending booking
// @Tags         admin,bookings
// @Security     BearerAuth
// @Produce      json
// @Param        bookingID  path      int  true  "Booking ID"
// @Success      200        {object}  Booking
// @Failure      404        {object}  api.ErrorResponse
// @Failure      409        {object}  api.ErrorResponse
// @Router       /admin/bookings/{bookingID}/confirm [post]
func (h *Handler) ConfirmBooking(c *gin.Context) {
	bookingID, ok := pathID(c, "bookingID", "booking")
	if !ok {
		return
	}

	b, err := h.service.ConfirmBooking(c.Request.Context(), bookingID)
	if err != nil {
		respondError(c, err, "Failed to confirm booking")
		return
	}

	c.JSON(http.StatusOK, b)
}

// CompleteBooking godoc
// @Summary      Mark a finished booking completed
// @Tags         admin,bookings
// @Security     BearerAuth
// @Produce      json
// @Param        bookingID  path      int  true  "Booking ID"
// @Success      200        {object}  Booking
// @Failure      404        {object}  api.ErrorResponse
// @Failure      409        {object}  api.ErrorResponse
// @Router       /admin/bookings/{bookingID}/complete [post]
func (h *Handler) CompleteBooking(c *gin.Context) {
	bookingID, ok := pathID(c, "bookingID", "booking")
	if !ok {
		return
	}

	b, err := h.service.CompleteBooking(c.Request.Context(), bookingID)
	if err != nil {
		respondError(c, err, "Failed to complete booking")
		return
	}

	c.JSON(http.StatusOK, b)
}

// ListFacilityBookings godoc
// @Summary      List bookings of a facility
// @Tags         admin,bookings
// @Security     BearerAuth
// @Produce      json
// @Param        facilityID  path      int  true  "Facility ID"
// @Success      200         {array}   Booking
// @Failure      404         {object}  api.ErrorResponse
// @Router       /admin/facilities/{facilityID}/bookings [get]
func (h *Handler) ListFacilityBookings(c *gin.Context) {
	facilityID, ok := pathID(c, "facilityID", "facility")
	if !ok {
		return
	}

	bookings, err := h.service.ListByFacility(c.Request.Context(), facilityID)
	if err != nil {
		respondError(c, err, "Failed to fetch bookings")
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// ListBookings godoc
// @Summary      List bookings by status or start range
// @Description  Pass either status, or both from and to (RFC3339).
// @Tags         admin,bookings
// @Security     BearerAuth
// @Produce      json
// @Param        status  query     string  false  "pending, confirmed, cancelled or completed"
// @Param        from    query     string  false  "Range start (RFC3339)"
// @Param        to      query     string  false  "Range end (RFC3339)"
// @Success      200     {array}   Booking
// @Failure      400     {object}  api.ErrorResponse
// @Router       /admin/bookings [get]
func (h *Handler) ListBookings(c *gin.Context) {
	if status := Status(c.Query("status")); status != "" {
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Unknown booking status"})
			return
		}
		bookings, err := h.service.ListByStatus(c.Request.Context(), status)
		if err != nil {
			respondError(c, err, "Failed to fetch bookings")
			return
		}
		c.JSON(http.StatusOK, bookings)
		return
	}

	from, ok := queryTime(c, "from")
	if !ok {
		return
	}
	to, ok := queryTime(c, "to")
	if !ok {
		return
	}

	bookings, err := h.service.ListInRange(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err, "Failed to fetch bookings")
		return
	}

	c.JSON(http.StatusOK, bookings)
}
