package dashboard

import (
	"errors"
	"net/http"
	"time"

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

func optionalTime(c *gin.Context, key string) (time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: key + " must be an RFC3339 timestamp"})
		return time.Time{}, false
	}
	return t, true
}

// GetStats godoc
// @Summary      Admin dashboard
// @Description  Facility and booking statistics. The range defaults to the current month.
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        from  query     string  false  "Range start (RFC3339)"
// @Param        to    query     string  false  "Range end (RFC3339)"
// @Success      200   {object}  Stats
// @Failure      400   {object}  api.ErrorResponse
// @Failure      500   {object}  api.ErrorResponse
// @Router       /admin/dashboard [get]
func (h *Handler) GetStats(c *gin.Context) {
	from, ok := optionalTime(c, "from")
	if !ok {
		return
	}
	to, ok := optionalTime(c, "to")
	if !ok {
		return
	}

	stats, err := h.service.Stats(c.Request.Context(), from, to)
	if err != nil {
		if errors.Is(err, ErrInvalidRange) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to build dashboard", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to load dashboard"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
