package models

import (
	"time"

	"github.com/google/uuid"
)

// Geo holds the coordinates of an airport or hotel
type Geo struct {
	Lat float64 `json:"lat" gorm:"column:geo_lat"`
	Lon float64 `json:"lon" gorm:"column:geo_lon"`
	Alt float64 `json:"alt" gorm:"column:geo_alt"`
}

// Airport represents an airport document from the travel sample dataset
type Airport struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	AirportName string `json:"airportname" gorm:"column:airportname;index" validate:"required"`
	City        string `json:"city"`
	Country     string `json:"country"`
	FAA         string `json:"faa" gorm:"column:faa;index" validate:"omitempty,len=3,uppercase"`
	ICAO        string `json:"icao" gorm:"column:icao;index" validate:"omitempty,len=4,uppercase"`
	TZ          string `json:"tz" gorm:"column:tz"`
	Geo         Geo    `json:"geo" gorm:"embedded"`
}

// ScheduleEntry is a single scheduled departure on a route.
// Day is the weekday, 0 = Sunday.
type ScheduleEntry struct {
	Day    int    `json:"day" validate:"min=0,max=6"`
	Flight string `json:"flight" validate:"required"`
	UTC    string `json:"utc" validate:"required"`
}

// Route represents an airline route between two airports
type Route struct {
	ID                 uint            `json:"id" gorm:"primaryKey"`
	Airline            string          `json:"airline"`
	AirlineID          string          `json:"airlineid" gorm:"column:airlineid"`
	SourceAirport      string          `json:"sourceairport" gorm:"column:sourceairport;index"`
	DestinationAirport string          `json:"destinationairport" gorm:"column:destinationairport;index"`
	Stops              int             `json:"stops"`
	Equipment          string          `json:"equipment"`
	Schedule           []ScheduleEntry `json:"schedule" gorm:"serializer:json"`
}

// Hotel represents a hotel document from the travel sample dataset
type Hotel struct {
	ID            uint    `json:"id" gorm:"primaryKey"`
	Name          string  `json:"name" gorm:"index" validate:"required"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Address       string  `json:"address"`
	City          string  `json:"city" gorm:"index"`
	State         string  `json:"state"`
	Country       string  `json:"country" gorm:"index"`
	Price         float64 `json:"price" validate:"min=0"`
	FreeBreakfast bool    `json:"free_breakfast"`
	FreeInternet  bool    `json:"free_internet"`
	FreeParking   bool    `json:"free_parking"`
	Geo           Geo     `json:"geo" gorm:"embedded"`
}

// User represents a registered account
type User struct {
	ID           uuid.UUID `json:"id" gorm:"primaryKey;type:uuid" validate:"required,uuid"`
	Username     string    `json:"username" gorm:"uniqueIndex" validate:"required,min=3,max=30"`
	PasswordHash string    `json:"-" gorm:"column:password_hash"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Booking represents a flight booked by a user
type Booking struct {
	ID                 uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	Username           string    `json:"username" gorm:"index" validate:"required"`
	Name               string    `json:"name" validate:"required"` // airline name
	Flight             string    `json:"flight" validate:"required"`
	SourceAirport      string    `json:"sourceairport"`
	DestinationAirport string    `json:"destinationairport"`
	Date               string    `json:"date" validate:"required"`
	Price              float64   `json:"price" validate:"min=0"`
	BookedOn           time.Time `json:"booked_on"`
}

// FlightPath is one priced flight option between two airports
type FlightPath struct {
	Name               string  `json:"name"`
	Flight             string  `json:"flight"`
	Equipment          string  `json:"equipment"`
	UTC                string  `json:"utc"`
	SourceAirport      string  `json:"sourceairport"`
	DestinationAirport string  `json:"destinationairport"`
	Price              float64 `json:"price"`
}

// RegisterRequest is the signup payload
type RegisterRequest struct {
	Username string `json:"user" binding:"required,min=3,max=30" validate:"required,min=3,max=30"`
	Password string `json:"password" binding:"required,min=6,max=128" validate:"required,min=6,max=128"`
}

// LoginRequest is the login payload
type LoginRequest struct {
	Username string `json:"user" binding:"required" validate:"required"`
	Password string `json:"password" binding:"required" validate:"required"`
}

// LoginResponse carries the issued token
type LoginResponse struct {
	Token string `json:"token"`
}

// FlightBooking is one flight in a booking request
type FlightBooking struct {
	Name               string  `json:"name" binding:"required" validate:"required"`
	Flight             string  `json:"flight" binding:"required" validate:"required"`
	SourceAirport      string  `json:"sourceairport"`
	DestinationAirport string  `json:"destinationairport"`
	Date               string  `json:"date" binding:"required" validate:"required"`
	Price              float64 `json:"price" binding:"min=0" validate:"min=0"`
}

// BookFlightsRequest is the payload for storing flight bookings
type BookFlightsRequest struct {
	Flights []FlightBooking `json:"flights" binding:"required,min=1,dive"`
}

// Envelope is the standard response shape: result rows plus the queries
// that produced them, surfaced for debugging in the demo UI.
type Envelope struct {
	Data    interface{} `json:"data"`
	Context []string    `json:"context"`
}
