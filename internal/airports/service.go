package airports

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/airvista/travelsample/pkg/metrics"
	"github.com/airvista/travelsample/pkg/models"
)

const maxSearchLen = 80

// Sentinel errors surfaced to the API layer
var (
	ErrEmptySearch   = errors.New("search term must not be empty")
	ErrSearchTooLong = errors.New("search term too long")
)

// AirportService defines airport lookup operations.
type AirportService interface {
	Search(ctx context.Context, term string) ([]models.Airport, string, error)
}

// Service implements AirportService
type Service struct {
	logger *zap.Logger
	db     *gorm.DB
}

// NewService creates a new AirportService
func NewService(logger *zap.Logger, db *gorm.DB) (AirportService, error) {
	return &Service{logger: logger, db: db}, nil
}

// Search looks up airports matching the given term. A 3-character term in a
// single case selects by FAA code, a 4-character one by ICAO code, anything
// else matches the airport name case-insensitively. It returns the matching
// airports along with the query text that was executed, which the demo UI
// shows for debugging.
func (s *Service) Search(ctx context.Context, term string) ([]models.Airport, string, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, "", ErrEmptySearch
	}
	if len(term) > maxSearchLen {
		return nil, "", ErrSearchTooLong
	}

	start := time.Now()
	defer func() {
		metrics.QueryLatency.WithLabelValues("airports").Observe(time.Since(start).Seconds())
	}()

	var (
		airports  []models.Airport
		queryText string
		kind      string
	)

	query := s.db.WithContext(ctx).Model(&models.Airport{})
	switch {
	case len(term) == 3 && singleCase(term):
		kind = "faa"
		code := strings.ToUpper(term)
		queryText = fmt.Sprintf("SELECT airportname FROM airports WHERE faa = '%s'", code)
		query = query.Where("faa = ?", code)
	case len(term) == 4 && singleCase(term):
		kind = "icao"
		code := strings.ToUpper(term)
		queryText = fmt.Sprintf("SELECT airportname FROM airports WHERE icao = '%s'", code)
		query = query.Where("icao = ?", code)
	default:
		kind = "name"
		queryText = fmt.Sprintf("SELECT airportname FROM airports WHERE LOWER(airportname) LIKE '%%%s%%'", strings.ToLower(term))
		query = query.Where("LOWER(airportname) LIKE ?", "%"+strings.ToLower(term)+"%")
	}

	if err := query.Order("airportname").Find(&airports).Error; err != nil {
		return nil, "", fmt.Errorf("failed to query airports: %w", err)
	}

	metrics.AirportSearches.WithLabelValues(kind).Inc()
	s.logger.Debug("Airport search",
		zap.String("term", term),
		zap.String("kind", kind),
		zap.Int("matches", len(airports)))

	return airports, queryText, nil
}

// singleCase reports whether the term is entirely upper or entirely lower
// case, which is what distinguishes an airport code from a name fragment.
func singleCase(term string) bool {
	return term == strings.ToUpper(term) || term == strings.ToLower(term)
}
