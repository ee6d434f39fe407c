package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/airvista/travelsample/internal/accounts"
	"github.com/airvista/travelsample/internal/airports"
	"github.com/airvista/travelsample/internal/bookings"
	"github.com/airvista/travelsample/internal/flights"
	"github.com/airvista/travelsample/internal/hotels"
	"github.com/airvista/travelsample/pkg/models"
)

// writeError maps service errors onto HTTP status codes
func (s *Server) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, airports.ErrEmptySearch),
		errors.Is(err, airports.ErrSearchTooLong),
		errors.Is(err, flights.ErrBadDate),
		errors.Is(err, flights.ErrSameAirport),
		errors.Is(err, hotels.ErrBadSortField):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, flights.ErrUnknownAirport),
		errors.Is(err, accounts.ErrUserNotFound),
		errors.Is(err, bookings.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, accounts.ErrDuplicateUser):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, accounts.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		s.logger.Error("handler error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// searchAirports handles GET /api/airports?search=
func (s *Server) searchAirports(c *gin.Context) {
	term := c.Query("search")

	results, queryText, err := s.airports.Search(c.Request.Context(), term)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Envelope{
		Data:    results,
		Context: []string{queryText},
	})
}

// findFlightPaths handles GET /api/flightPaths/:from/:to?leave=MM/DD/YYYY
func (s *Server) findFlightPaths(c *gin.Context) {
	from := c.Param("from")
	to := c.Param("to")
	leave := c.Query("leave")

	paths, queries, err := s.flights.FindPaths(c.Request.Context(), from, to, leave)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Envelope{
		Data:    paths,
		Context: queries,
	})
}

// searchHotels handles GET /api/hotels/:description/:location
func (s *Server) searchHotels(c *gin.Context) {
	description := c.Param("description")
	location := c.Param("location")

	opts := hotels.SearchOptions{
		SortBy: c.Query("sort"),
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
			return
		}
		opts.Limit = n
	}
	if v := c.Query("skip"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "skip must be an integer"})
			return
		}
		opts.Skip = n
	}
	if v := c.Query("fields"); v != "" {
		opts.Fields = strings.Split(v, ",")
	}

	rows, searchContext, err := s.hotels.Search(c.Request.Context(), description, location, opts)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Envelope{
		Data:    rows,
		Context: searchContext,
	})
}

// signup handles POST /api/user/signup
func (s *Server) signup(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	user, token, err := s.accounts.Register(c.Request.Context(), &req)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.Envelope{
		Data:    gin.H{"token": token},
		Context: []string{"created user " + user.Username},
	})
}

// login handles POST /api/user/login
func (s *Server) login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	user, token, err := s.accounts.Login(c.Request.Context(), &req)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Envelope{
		Data:    gin.H{"token": token},
		Context: []string{"logged in user " + user.Username},
	})
}

// listBookings handles GET /api/users/:username/flights
func (s *Server) listBookings(c *gin.Context) {
	username := c.Param("username")

	booked, err := s.bookings.List(c.Request.Context(), username)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Envelope{
		Data:    booked,
		Context: []string{"bookings for user " + username},
	})
}

// bookFlights handles PUT /api/users/:username/flights
func (s *Server) bookFlights(c *gin.Context) {
	username := c.Param("username")

	var req models.BookFlightsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	booked, err := s.bookings.Book(c.Request.Context(), username, req.Flights)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Envelope{
		Data:    gin.H{"added": len(booked), "bookings": booked},
		Context: []string{"booked flights for user " + username},
	})
}
