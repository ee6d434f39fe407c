package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/airvista/travelsample/api"
	"github.com/airvista/travelsample/internal/hotels"
	"github.com/airvista/travelsample/pkg/models"
)

// Stub implementations of the service interfaces

type stubAccounts struct{}

func (s *stubAccounts) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, string, error) {
	return &models.User{Username: req.Username}, "signup-token", nil
}

func (s *stubAccounts) Login(ctx context.Context, req *models.LoginRequest) (*models.User, string, error) {
	return &models.User{Username: req.Username}, "login-token", nil
}

func (s *stubAccounts) ValidateToken(token string) (string, error) {
	if token != "valid-token" {
		return "", assert.AnError
	}
	return "alice", nil
}

func (s *stubAccounts) GetUser(ctx context.Context, username string) (*models.User, error) {
	return &models.User{Username: username}, nil
}

type stubAirports struct{}

func (s *stubAirports) Search(ctx context.Context, term string) ([]models.Airport, string, error) {
	return []models.Airport{{AirportName: "San Francisco Intl", FAA: "SFO"}},
		"SELECT airportname FROM airports WHERE faa = 'SFO'", nil
}

type stubFlights struct{}

func (s *stubFlights) FindPaths(ctx context.Context, from, to, leave string) ([]models.FlightPath, []string, error) {
	return []models.FlightPath{{Name: "United Airlines", Flight: "UA201"}}, []string{"q1", "q2", "q3"}, nil
}

type stubHotels struct{}

func (s *stubHotels) Search(ctx context.Context, description, location string, opts hotels.SearchOptions) ([]map[string]interface{}, []string, error) {
	return []map[string]interface{}{{"name": "Hotel Drisco"}}, []string{"hotel search"}, nil
}

type stubBookings struct{}

func (s *stubBookings) Book(ctx context.Context, username string, flights []models.FlightBooking) ([]models.Booking, error) {
	booked := make([]models.Booking, len(flights))
	for i, f := range flights {
		booked[i] = models.Booking{Username: username, Flight: f.Flight, Name: f.Name, Date: f.Date}
	}
	return booked, nil
}

func (s *stubBookings) List(ctx context.Context, username string) ([]models.Booking, error) {
	return []models.Booking{{Username: username, Flight: "UA201"}}, nil
}

// helper to set up router
func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	srv := api.NewServer(
		logger,
		&stubAccounts{},
		&stubAirports{},
		&stubFlights{},
		&stubHotels{},
		&stubBookings{},
	)
	return srv.Router()
}

func TestHealthCheck(t *testing.T) {
	router := setupRouter()
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp["status"])
}

func TestSearchAirports(t *testing.T) {
	router := setupRouter()
	req, _ := http.NewRequest(http.MethodGet, "/api/airports?search=SFO", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp models.Envelope
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	require.Len(t, resp.Context, 1)
	assert.Contains(t, resp.Context[0], "faa = 'SFO'")

	data, ok := resp.Data.([]interface{})
	require.True(t, ok)
	assert.Len(t, data, 1)
}

func TestFindFlightPaths(t *testing.T) {
	router := setupRouter()
	req, _ := http.NewRequest(http.MethodGet, "/api/flightPaths/SFO/JFK?leave=06/01/2026", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp models.Envelope
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Len(t, resp.Context, 3)
}

func TestSearchHotels(t *testing.T) {
	router := setupRouter()
	req, _ := http.NewRequest(http.MethodGet, "/api/hotels/swanky/san-francisco?limit=5", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp models.Envelope
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Context)
}

func TestSearchHotelsBadLimit(t *testing.T) {
	router := setupRouter()
	req, _ := http.NewRequest(http.MethodGet, "/api/hotels/swanky/london?limit=lots", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSignup(t *testing.T) {
	router := setupRouter()
	body := strings.NewReader(`{"user": "alice", "password": "password123"}`)
	req, _ := http.NewRequest(http.MethodPost, "/api/user/signup", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp models.Envelope
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "signup-token", data["token"])
}

func TestSignupMissingPassword(t *testing.T) {
	router := setupRouter()
	body := strings.NewReader(`{"user": "alice"}`)
	req, _ := http.NewRequest(http.MethodPost, "/api/user/signup", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin(t *testing.T) {
	router := setupRouter()
	body := strings.NewReader(`{"user": "alice", "password": "password123"}`)
	req, _ := http.NewRequest(http.MethodPost, "/api/user/login", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp models.Envelope
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "login-token", data["token"])
}

func TestListBookings_Unauthorized(t *testing.T) {
	router := setupRouter()
	req, _ := http.NewRequest(http.MethodGet, "/api/users/alice/flights", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListBookings_BadToken(t *testing.T) {
	router := setupRouter()
	req, _ := http.NewRequest(http.MethodGet, "/api/users/alice/flights", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListBookings_WrongUser(t *testing.T) {
	router := setupRouter()
	req, _ := http.NewRequest(http.MethodGet, "/api/users/mallory/flights", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestListBookings_Authorized(t *testing.T) {
	router := setupRouter()
	req, _ := http.NewRequest(http.MethodGet, "/api/users/alice/flights", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp models.Envelope
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	data, ok := resp.Data.([]interface{})
	require.True(t, ok)
	assert.Len(t, data, 1)
}

func TestBookFlights(t *testing.T) {
	router := setupRouter()
	body := strings.NewReader(`{"flights": [{"name": "United Airlines", "flight": "UA201", "date": "06/01/2026", "price": 415.20}]}`)
	req, _ := http.NewRequest(http.MethodPut, "/api/users/alice/flights", body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer valid-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp models.Envelope
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), data["added"])
}

func TestBookFlightsEmptyList(t *testing.T) {
	router := setupRouter()
	body := strings.NewReader(`{"flights": []}`)
	req, _ := http.NewRequest(http.MethodPut, "/api/users/alice/flights", body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer valid-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
