package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/heinthant2k4/sports-arena-booking/internal/api"
	"github.com/heinthant2k4/sports-arena-booking/internal/logger"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type Mailer interface {
	Send(ctx context.Context, to, name, subject, body string) error
}

// @Summary      Health check
// @Description  Pings the database and redis. Returns 503 when either is unreachable.
// @Tags         system
// @Produce      json
// @Success      200 {object} api.HealthResponse
// @Failure      503 {object} api.HealthResponse
// @Router       /health [get]
func Health(db Pinger, rdb redis.Cmdable) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		resp := api.HealthResponse{Status: "ok", Services: map[string]string{}}

		if db != nil {
			resp.Services["database"] = "ok"
			if err := db.PingContext(ctx); err != nil {
				logger.Warn("Database health check failed", "error", err)
				resp.Services["database"] = "down"
				resp.Status = "degraded"
			}
		}
		if rdb != nil {
			resp.Services["redis"] = "ok"
			if err := rdb.Ping(ctx).Err(); err != nil {
				logger.Warn("Redis health check failed", "error", err)
				resp.Services["redis"] = "down"
				resp.Status = "degraded"
			}
		}

		code := http.StatusOK
		if resp.Status != "ok" {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, resp)
	}
}

// @Summary      Queue a test email
// @Tags         admin,system
// @Security     BearerAuth
// @Produce      json
// @Param        email query string true "Recipient email"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/email/test [post]
func TestEmail(mailer Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		to := c.Query("email")
		if to == "" {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "email parameter required"})
			return
		}

		if err := mailer.Send(c.Request.Context(), to, "Arena Admin", "Test email from Sports Arena", "Email delivery is working."); err != nil {
			logger.Error("Failed to queue test email", "error", err)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to queue email"})
			return
		}

		c.JSON(http.StatusOK, api.MessageResponse{Message: "Email queued successfully"})
	}
}

// @Summary      Prometheus metrics
// @Description  Exposes Prometheus metrics in text format
// @Tags         system
// @Produce      text/plain
// @Success      200 {string} string
// @Router       /metrics [get]
func Metrics() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
