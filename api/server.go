package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	limiter "github.com/ulule/limiter/v3"
	ginlimiter "github.com/ulule/limiter/v3/drivers/middleware/gin"
	memory "github.com/ulule/limiter/v3/drivers/store/memory"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/airvista/travelsample/internal/accounts"
	"github.com/airvista/travelsample/internal/airports"
	"github.com/airvista/travelsample/internal/bookings"
	"github.com/airvista/travelsample/internal/flights"
	"github.com/airvista/travelsample/internal/hotels"
)

// Server represents the API server
type Server struct {
	router      *gin.Engine
	logger      *zap.Logger
	accounts    accounts.AccountService
	airports    airports.AirportService
	flights     flights.FlightService
	hotels      hotels.HotelService
	bookings    bookings.BookingService
	validator   *validator.Validate
	rateLimiter gin.HandlerFunc
}

// NewServer creates a new API server with injected service interfaces
func NewServer(
	logger *zap.Logger,
	accountsSvc accounts.AccountService,
	airportsSvc airports.AirportService,
	flightsSvc flights.FlightService,
	hotelsSvc hotels.HotelService,
	bookingsSvc bookings.BookingService,
) *Server {
	server := &Server{
		logger:   logger,
		accounts: accountsSvc,
		airports: airportsSvc,
		flights:  flightsSvc,
		hotels:   hotelsSvc,
		bookings: bookingsSvc,
	}

	router := gin.New()

	router.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	router.Use(ginzap.RecoveryWithZap(logger, true))
	router.Use(otelgin.Middleware("travelsample-api"))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Rate limiter (300 req/min per IP)
	store := memory.NewStore()
	rate, _ := limiter.NewRateFromFormatted("300-M")
	server.rateLimiter = ginlimiter.NewMiddleware(limiter.New(store, rate))
	server.validator = validator.New()

	server.router = router
	server.registerRoutes()
	return server
}

// Router returns the internal Gin engine for testing purposes
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Handler returns the router as an http.Handler for use with http.Server
func (s *Server) Handler() http.Handler {
	return s.router
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public routes
	public := s.router.Group("/api")
	public.Use(s.rateLimiter)
	{
		public.GET("/airports", s.searchAirports)
		public.GET("/flightPaths/:from/:to", s.findFlightPaths)
		public.GET("/hotels/:description/:location", s.searchHotels)
		public.GET("/hotels/:description", s.searchHotels)

		auth := public.Group("/user")
		{
			auth.POST("/signup", s.signup)
			auth.POST("/login", s.login)
		}
	}

	// Protected routes (require a token issued to the same user).
	// Kept under /api/users so the static /api/user/signup and /api/user/login
	// routes do not collide with the :username wildcard.
	protected := s.router.Group("/api/users")
	protected.Use(s.rateLimiter, s.authMiddleware())
	{
		protected.GET("/:username/flights", s.listBookings)
		protected.PUT("/:username/flights", s.bookFlights)
	}
}

// healthCheck handles the health check endpoint
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now(),
	})
}

// authMiddleware validates the bearer token and requires its subject to
// match the :username path parameter.
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization format"})
			c.Abort()
			return
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")

		username, err := s.accounts.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		if param := c.Param("username"); param != "" && param != username {
			c.JSON(http.StatusForbidden, gin.H{"error": "Token does not match requested user"})
			c.Abort()
			return
		}

		c.Set("username", username)
		c.Next()
	}
}
