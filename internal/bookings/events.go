package bookings

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/airvista/travelsample/pkg/models"
)

// EventPublisher publishes booking events to the event stream.
type EventPublisher interface {
	PublishBooking(ctx context.Context, booking *models.Booking) error
	Close() error
}

// bookingEvent is the wire format of a booking event
type bookingEvent struct {
	BookingID string    `json:"booking_id"`
	Username  string    `json:"username"`
	Flight    string    `json:"flight"`
	From      string    `json:"sourceairport"`
	To        string    `json:"destinationairport"`
	Date      string    `json:"date"`
	Price     float64   `json:"price"`
	BookedOn  time.Time `json:"booked_on"`
}

// KafkaPublisher writes booking events to a Kafka topic
type KafkaPublisher struct {
	logger *zap.Logger
	writer *kafka.Writer
}

// NewKafkaPublisher creates a publisher for the given brokers and topic
func NewKafkaPublisher(logger *zap.Logger, brokers []string, topic string) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}
	return &KafkaPublisher{logger: logger, writer: writer}
}

// PublishBooking publishes one booking event keyed by username
func (p *KafkaPublisher) PublishBooking(ctx context.Context, booking *models.Booking) error {
	event := bookingEvent{
		BookingID: booking.ID.String(),
		Username:  booking.Username,
		Flight:    booking.Flight,
		From:      booking.SourceAirport,
		To:        booking.DestinationAirport,
		Date:      booking.Date,
		Price:     booking.Price,
		BookedOn:  booking.BookedOn,
	}
	raw, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal booking event: %w", err)
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(booking.Username),
		Value: raw,
	}); err != nil {
		return fmt.Errorf("failed to write booking event: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
