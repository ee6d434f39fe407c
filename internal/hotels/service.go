package hotels

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/airvista/travelsample/pkg/metrics"
	"github.com/airvista/travelsample/pkg/models"
)

const (
	defaultLimit = 100
	maxLimit     = 500
)

// ErrBadSortField is returned for an unsupported sort key
var ErrBadSortField = errors.New("sort must be one of: name, price")

// Fields a search may project. Requests asking for anything else get the
// default set.
var allowedFields = map[string]bool{
	"name": true, "title": true, "description": true, "address": true,
	"city": true, "state": true, "country": true, "price": true,
	"free_breakfast": true, "free_internet": true, "free_parking": true,
}

var defaultFields = []string{"name", "title", "description", "address", "city", "state", "country", "price"}

// SearchOptions mirror the option surface of the backing search service:
// result paging, sorting and field projection.
type SearchOptions struct {
	Limit  int
	Skip   int
	SortBy string
	Fields []string
}

// HotelService defines hotel search operations.
type HotelService interface {
	Search(ctx context.Context, description, location string, opts SearchOptions) ([]map[string]interface{}, []string, error)
}

// Service implements HotelService
type Service struct {
	logger    *zap.Logger
	db        *gorm.DB
	cache     *SearchCache
	sanitizer *bluemonday.Policy
}

// NewService creates a new HotelService. cache may be nil to disable caching.
func NewService(logger *zap.Logger, db *gorm.DB, cache *SearchCache) (HotelService, error) {
	return &Service{
		logger:    logger,
		db:        db,
		cache:     cache,
		sanitizer: bluemonday.StrictPolicy(),
	}, nil
}

// Search finds hotels whose description fields match the description term and
// whose location fields match the location term. Either term may be "*" or
// empty to match everything. Results are cached; cache failures fall through
// to the database and are never user-visible.
func (s *Service) Search(ctx context.Context, description, location string, opts SearchOptions) ([]map[string]interface{}, []string, error) {
	description = s.sanitizer.Sanitize(strings.TrimSpace(description))
	location = s.sanitizer.Sanitize(strings.TrimSpace(location))

	if opts.Limit <= 0 {
		opts.Limit = defaultLimit
	}
	if opts.Limit > maxLimit {
		opts.Limit = maxLimit
	}
	if opts.Skip < 0 {
		opts.Skip = 0
	}
	switch opts.SortBy {
	case "", "name", "price":
	default:
		return nil, nil, ErrBadSortField
	}
	fields := projectionFields(opts.Fields)

	searchContext := []string{
		fmt.Sprintf("hotel search - description: '%s' on (name, title, description)", orStar(description)),
		fmt.Sprintf("hotel search - location: '%s' on (country, city, state, address)", orStar(location)),
	}

	key := cacheKey(description, location, opts, fields)
	if rows, ok, err := s.cache.Get(ctx, key); err != nil {
		s.logger.Warn("Hotel cache read failed", zap.Error(err))
	} else if ok {
		metrics.HotelCacheHits.Inc()
		return rows, append(searchContext, "served from cache"), nil
	}
	metrics.HotelCacheMisses.Inc()

	start := time.Now()
	defer func() {
		metrics.QueryLatency.WithLabelValues("hotels").Observe(time.Since(start).Seconds())
	}()

	query := s.db.WithContext(ctx).Model(&models.Hotel{})
	if wildcard(location) {
		pattern := "%" + strings.ToLower(location) + "%"
		query = query.Where(
			"LOWER(country) LIKE ? OR LOWER(city) LIKE ? OR LOWER(state) LIKE ? OR LOWER(address) LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}
	if wildcard(description) {
		pattern := "%" + strings.ToLower(description) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(title) LIKE ? OR LOWER(description) LIKE ?",
			pattern, pattern, pattern,
		)
	}
	if opts.SortBy != "" {
		query = query.Order(opts.SortBy)
	} else {
		query = query.Order("name")
	}
	query = query.Offset(opts.Skip).Limit(opts.Limit)

	var hotels []models.Hotel
	if err := query.Find(&hotels).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to query hotels: %w", err)
	}

	rows := make([]map[string]interface{}, 0, len(hotels))
	for _, h := range hotels {
		rows = append(rows, project(h, fields))
	}

	if err := s.cache.Set(ctx, key, rows); err != nil {
		s.logger.Warn("Hotel cache write failed", zap.Error(err))
	}

	s.logger.Debug("Hotel search",
		zap.String("description", description),
		zap.String("location", location),
		zap.Int("matches", len(rows)))

	return rows, searchContext, nil
}

// wildcard reports whether the term narrows the search at all
func wildcard(term string) bool {
	return term != "" && term != "*"
}

func orStar(term string) string {
	if term == "" {
		return "*"
	}
	return term
}

// projectionFields validates a requested projection against the allowed set
func projectionFields(requested []string) []string {
	var fields []string
	for _, f := range requested {
		f = strings.ToLower(strings.TrimSpace(f))
		if allowedFields[f] {
			fields = append(fields, f)
		}
	}
	if len(fields) == 0 {
		return defaultFields
	}
	return fields
}

// project maps a hotel row down to the requested fields
func project(h models.Hotel, fields []string) map[string]interface{} {
	all := map[string]interface{}{
		"name":           h.Name,
		"title":          h.Title,
		"description":    h.Description,
		"address":        h.Address,
		"city":           h.City,
		"state":          h.State,
		"country":        h.Country,
		"price":          h.Price,
		"free_breakfast": h.FreeBreakfast,
		"free_internet":  h.FreeInternet,
		"free_parking":   h.FreeParking,
	}
	row := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		row[f] = all[f]
	}
	return row
}

// cacheKey builds a normalized key for a search request
func cacheKey(description, location string, opts SearchOptions, fields []string) string {
	return fmt.Sprintf("hotels:%s|%s|%d|%d|%s|%s",
		strings.ToLower(description),
		strings.ToLower(location),
		opts.Limit, opts.Skip, opts.SortBy,
		strings.Join(fields, ","))
}
