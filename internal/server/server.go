package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/heinthant2k4/sports-arena-booking/internal/auth"
	"github.com/heinthant2k4/sports-arena-booking/internal/booking"
	"github.com/heinthant2k4/sports-arena-booking/internal/config"
	"github.com/heinthant2k4/sports-arena-booking/internal/dashboard"
	"github.com/heinthant2k4/sports-arena-booking/internal/facility"
	"github.com/heinthant2k4/sports-arena-booking/internal/logger"
	"github.com/heinthant2k4/sports-arena-booking/internal/user"
)

// Deps are the collaborators the HTTP layer is wired from.
type Deps struct {
	Config     *config.Config
	DB         Pinger
	Redis      redis.Cmdable
	Mailer     Mailer
	Users      user.Service
	Facilities facility.Service
	Bookings   booking.Service
	Dashboard  dashboard.Service
}

type Server struct {
	router  *gin.Engine
	http    *http.Server
	limiter *RateLimiter
}

func New(deps Deps) *Server {
	cfg := deps.Config
	limiter := NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, 3*time.Minute)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		RequestIDMiddleware(),
		RequestLoggingMiddleware(),
		MetricsMiddleware(),
		corsMiddleware(),
		limiter.Middleware(),
	)

	userHandler := user.NewHandler(deps.Users)
	facilityHandler := facility.NewHandler(deps.Facilities)
	bookingHandler := booking.NewHandler(deps.Bookings)
	dashboardHandler := dashboard.NewHandler(deps.Dashboard)

	router.GET("/health", Health(deps.DB, deps.Redis))
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	public := router.Group("/auth")
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
		public.POST("/refresh", userHandler.RefreshToken)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)

		protected.GET("/facilities", facilityHandler.ListFacilities)
		protected.GET("/facilities/:facilityID", facilityHandler.GetFacility)
		protected.GET("/facilities/:facilityID/availability", bookingHandler.GetAvailability)
		protected.GET("/facilities/:facilityID/availability/check", bookingHandler.CheckInterval)

		protected.POST("/bookings", bookingHandler.CreateBooking)
		protected.GET("/bookings", bookingHandler.ListMyBookings)
		protected.GET("/bookings/:bookingID", bookingHandler.GetBooking)
		protected.PUT("/bookings/:bookingID", bookingHandler.UpdateBooking)
		protected.POST("/bookings/:bookingID/cancel", bookingHandler.CancelBooking)
	}

	admin := router.Group("/admin")
	admin.Use(authMiddleware, auth.RequireRole(auth.RoleAdmin))
	{
		admin.GET("/facilities", facilityHandler.ListAllFacilities)
		admin.POST("/facilities", facilityHandler.CreateFacility)
		admin.POST("/facilities/seed", facilityHandler.SeedFacilities)
		admin.PUT("/facilities/:facilityID", facilityHandler.UpdateFacility)
		admin.DELETE("/facilities/:facilityID", facilityHandler.DeleteFacility)
		admin.GET("/facilities/:facilityID/bookings", bookingHandler.ListFacilityBookings)

		admin.GET("/bookings", bookingHandler.ListBookings)
		admin.POST("/bookings/:bookingID/confirm", bookingHandler.ConfirmBooking)
		admin.POST("/bookings/:bookingID/complete", bookingHandler.CompleteBooking)

		admin.GET("/dashboard", dashboardHandler.GetStats)
		if deps.Mailer != nil {
			admin.POST("/email/test", TestEmail(deps.Mailer))
		}
	}

	return &Server{
		router:  router,
		limiter: limiter,
		http: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Start blocks until the server stops. A graceful shutdown is not an error.
func (s *Server) Start() error {
	logger.Info("HTTP server listening", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.Stop()
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Expose-Headers", RequestIDHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
