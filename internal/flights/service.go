package flights

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/airvista/travelsample/pkg/metrics"
	"github.com/airvista/travelsample/pkg/models"
)

// Pricing constants: fare is distance-proportional with a minimum fare.
var (
	farePerKm = decimal.NewFromFloat(0.1)
	minFare   = decimal.NewFromInt(50)
)

// Sentinel errors surfaced to the API layer
var (
	ErrUnknownAirport = errors.New("unknown airport")
	ErrSameAirport    = errors.New("source and destination airports are the same")
	ErrBadDate        = errors.New("leave date must be in MM/DD/YYYY format")
)

// FlightService defines flight path search operations.
type FlightService interface {
	FindPaths(ctx context.Context, from, to, leave string) ([]models.FlightPath, []string, error)
}

// Service implements FlightService
type Service struct {
	logger *zap.Logger
	db     *gorm.DB
}

// NewService creates a new FlightService
func NewService(logger *zap.Logger, db *gorm.DB) (FlightService, error) {
	return &Service{logger: logger, db: db}, nil
}

// FindPaths returns priced flight options between two airports on the given
// travel date. Airports are resolved by name or FAA code; routes are filtered
// to schedule entries on the weekday of the travel date. The returned context
// strings record the queries that were executed.
func (s *Service) FindPaths(ctx context.Context, from, to, leave string) ([]models.FlightPath, []string, error) {
	leaveDate, err := time.Parse("01/02/2006", leave)
	if err != nil {
		return nil, nil, ErrBadDate
	}
	weekday := int(leaveDate.Weekday())

	start := time.Now()
	defer func() {
		metrics.QueryLatency.WithLabelValues("flights").Observe(time.Since(start).Seconds())
	}()

	src, err := s.resolveAirport(ctx, from)
	if err != nil {
		return nil, nil, err
	}
	dst, err := s.resolveAirport(ctx, to)
	if err != nil {
		return nil, nil, err
	}
	if src.FAA == dst.FAA {
		return nil, nil, ErrSameAirport
	}

	queries := []string{
		fmt.Sprintf("SELECT faa, geo FROM airports WHERE airportname = '%s'", src.AirportName),
		fmt.Sprintf("SELECT faa, geo FROM airports WHERE airportname = '%s'", dst.AirportName),
		fmt.Sprintf("SELECT airline, schedule FROM routes WHERE sourceairport = '%s' AND destinationairport = '%s'", src.FAA, dst.FAA),
	}

	var routes []models.Route
	if err := s.db.WithContext(ctx).
		Where("sourceairport = ? AND destinationairport = ?", src.FAA, dst.FAA).
		Find(&routes).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to query routes: %w", err)
	}

	price := fare(haversineKm(src.Geo, dst.Geo))

	var paths []models.FlightPath
	for _, route := range routes {
		for _, entry := range route.Schedule {
			if entry.Day != weekday {
				continue
			}
			paths = append(paths, models.FlightPath{
				Name:               route.Airline,
				Flight:             entry.Flight,
				Equipment:          route.Equipment,
				UTC:                entry.UTC,
				SourceAirport:      src.FAA,
				DestinationAirport: dst.FAA,
				Price:              price,
			})
		}
	}

	s.logger.Debug("Flight path search",
		zap.String("from", src.FAA),
		zap.String("to", dst.FAA),
		zap.Int("weekday", weekday),
		zap.Int("flights", len(paths)))

	return paths, queries, nil
}

// resolveAirport finds an airport by full name or FAA code
func (s *Service) resolveAirport(ctx context.Context, nameOrCode string) (*models.Airport, error) {
	nameOrCode = strings.TrimSpace(nameOrCode)
	if nameOrCode == "" {
		return nil, ErrUnknownAirport
	}

	var airport models.Airport
	err := s.db.WithContext(ctx).
		Where("airportname = ? OR faa = ?", nameOrCode, strings.ToUpper(nameOrCode)).
		First(&airport).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownAirport, nameOrCode)
		}
		return nil, fmt.Errorf("failed to resolve airport: %w", err)
	}
	return &airport, nil
}

// fare prices a flight from the great-circle distance, rounded to cents,
// never below the minimum fare.
func fare(distanceKm float64) float64 {
	price := decimal.NewFromFloat(distanceKm).Mul(farePerKm).Round(2)
	if price.LessThan(minFare) {
		price = minFare
	}
	f, _ := price.Float64()
	return f
}

const earthRadiusKm = 6371.0

// haversineKm computes the great-circle distance between two coordinates
func haversineKm(a, b models.Geo) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}
