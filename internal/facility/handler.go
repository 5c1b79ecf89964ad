package facility

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/heinthant2k4/sports-arena-booking/internal/api"
	"github.com/heinthant2k4/sports-arena-booking/internal/logger"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func facilityID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("facilityID"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid facility ID"})
		return 0, false
	}
	return id, true
}

func respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrFacilityNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Facility not found"})
	case errors.Is(err, ErrFacilityExists), errors.Is(err, ErrFacilityInUse):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrInvalidType):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	default:
		logger.Error(fallback, "error", err, "path", c.FullPath())
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: fallback})
	}
}

// @Summary      List active facilities
// @Tags         facilities
// @Produce      json
// @Security     BearerAuth
// @Param        type query string false "futsal or badminton"
// @Success      200 {array} facility.Facility
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /facilities [get]
func (h *Handler) ListFacilities(c *gin.Context) {
	facilities, err := h.service.List(c.Request.Context(), c.Query("type"))
	if err != nil {
		respondError(c, err, "Failed to fetch facilities")
		return
	}

	c.JSON(http.StatusOK, facilities)
}

// @Summary      List all facilities including inactive ones
// @Tags         admin,facilities
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} facility.Facility
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/facilities [get]
func (h *Handler) ListAllFacilities(c *gin.Context) {
	facilities, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch facilities")
		return
	}

	c.JSON(http.StatusOK, facilities)
}

// @Summary      Get a facility
// @Tags         facilities
// @Produce      json
// @Security     BearerAuth
// @Param        facilityID path int true "Facility ID"
// @Success      200 {object} facility.Facility
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /facilities/{facilityID} [get]
func (h *Handler) GetFacility(c *gin.Context) {
	id, ok := facilityID(c)
	if !ok {
		return
	}

	f, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to fetch facility")
		return
	}

	c.JSON(http.StatusOK, f)
}

// @Summary      Create a facility
// @Description  Admin-only: add a court to the catalogue
// @Tags         admin,facilities
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body facility.FacilityRequest true "Facility payload"
// @Success      201 {object} facility.Facility
// @Failure      400 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/facilities [post]
func (h *Handler) CreateFacility(c *gin.Context) {
	var req FacilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, err)
		return
	}

	f, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to create facility")
		return
	}

	c.JSON(http.StatusCreated, f)
}

// @Summary      Update a facility
// @Tags         admin,facilities
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        facilityID path int true "Facility ID"
// @Param        request body facility.FacilityRequest true "Facility payload"
// @Success      200 {object} facility.Facility
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/facilities/{facilityID} [put]
func (h *Handler) UpdateFacility(c *gin.Context) {
	id, ok := facilityID(c)
	if !ok {
		return
	}

	var req FacilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, err)
		return
	}

	f, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err, "Failed to update facility")
		return
	}

	c.JSON(http.StatusOK, f)
}

// @Summary      Delete a facility
// @Description  Only facilities without bookings can be deleted; deactivate the rest.
// @Tags         admin,facilities
// @Produce      json
// @Security     BearerAuth
// @Param        facilityID path int true "Facility ID"
// @Success      200 {object} api.MessageResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/facilities/{facilityID} [delete]
func (h *Handler) DeleteFacility(c *gin.Context) {
	id, ok := facilityID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "Failed to delete facility")
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Facility deleted"})
}

// @Summary      Seed sample facilities
// @Tags         admin,facilities
// @Produce      json
// @Security     BearerAuth
// @Success      201 {array} facility.Facility
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/facilities/seed [post]
func (h *Handler) SeedFacilities(c *gin.Context) {
	created, err := h.service.Seed(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to seed facilities")
		return
	}

	c.JSON(http.StatusCreated, created)
}
