package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/airvista/travelsample/pkg/metrics"
	"github.com/airvista/travelsample/pkg/models"
)

// ErrUserNotFound is returned when booking for an unknown user
var ErrUserNotFound = errors.New("user not found")

// BookingService defines flight booking operations.
type BookingService interface {
	Book(ctx context.Context, username string, flights []models.FlightBooking) ([]models.Booking, error)
	List(ctx context.Context, username string) ([]models.Booking, error)
}

// Service implements BookingService
type Service struct {
	logger    *zap.Logger
	db        *gorm.DB
	publisher EventPublisher
}

// NewService creates a new BookingService. publisher may be nil when the
// event stream is disabled.
func NewService(logger *zap.Logger, db *gorm.DB, publisher EventPublisher) (BookingService, error) {
	return &Service{logger: logger, db: db, publisher: publisher}, nil
}

// Book stores the given flights as bookings for the user. Each stored booking
// emits an event when the publisher is configured; publish failures are
// logged and do not fail the request.
func (s *Service) Book(ctx context.Context, username string, flights []models.FlightBooking) ([]models.Booking, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check user: %w", err)
	}
	if count == 0 {
		return nil, ErrUserNotFound
	}

	bookings := make([]models.Booking, 0, len(flights))
	for _, f := range flights {
		bookings = append(bookings, models.Booking{
			ID:                 uuid.New(),
			Username:           username,
			Name:               f.Name,
			Flight:             f.Flight,
			SourceAirport:      f.SourceAirport,
			DestinationAirport: f.DestinationAirport,
			Date:               f.Date,
			Price:              f.Price,
			BookedOn:           time.Now(),
		})
	}

	if err := s.db.WithContext(ctx).Create(&bookings).Error; err != nil {
		return nil, fmt.Errorf("failed to store bookings: %w", err)
	}

	for i := range bookings {
		metrics.BookingsTotal.Inc()
		if s.publisher == nil {
			continue
		}
		if err := s.publisher.PublishBooking(ctx, &bookings[i]); err != nil {
			s.logger.Warn("Failed to publish booking event",
				zap.String("booking_id", bookings[i].ID.String()),
				zap.Error(err))
		}
	}

	s.logger.Info("Flights booked",
		zap.String("username", username),
		zap.Int("count", len(bookings)))

	return bookings, nil
}

// List returns the user's bookings, newest first
func (s *Service) List(ctx context.Context, username string) ([]models.Booking, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check user: %w", err)
	}
	if count == 0 {
		return nil, ErrUserNotFound
	}

	var bookings []models.Booking
	if err := s.db.WithContext(ctx).
		Where("username = ?", username).
		Order("booked_on DESC").
		Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}
