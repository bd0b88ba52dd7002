// Package messaging publishes ledger events to RabbitMQ.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"rideshare/internal/domain"
)

// TripRequestedRoutingKey is the routing key of trip.requested events.
const TripRequestedRoutingKey = "trip.requested"

// TripRequestedEvent is published after a trip has been dispatched.
type TripRequestedEvent struct {
	EventID     string    `json:"event_id"`
	TripID      int       `json:"trip_id"`
	DriverID    int       `json:"driver_id"`
	PassengerID int       `json:"passenger_id"`
	StartTime   time.Time `json:"start_time"`
}

// NewTripRequestedEvent builds the event for trip.
func NewTripRequestedEvent(trip *domain.Trip) TripRequestedEvent {
	return TripRequestedEvent{
		EventID:     uuid.New().String(),
		TripID:      trip.ID,
		DriverID:    trip.DriverID,
		PassengerID: trip.PassengerID,
		StartTime:   trip.StartTime,
	}
}

// Publisher publishes ledger events.
type Publisher interface {
	PublishTripRequested(ctx context.Context, trip *domain.Trip) error
	Close() error
}

// RabbitMQPublisher publishes events to a topic exchange.
type RabbitMQPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

// NewRabbitMQPublisher dials url and declares a durable topic exchange.
func NewRabbitMQPublisher(url, exchange string) (*RabbitMQPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	return &RabbitMQPublisher{
		conn:     conn,
		channel:  ch,
		exchange: exchange,
	}, nil
}

// PublishTripRequested publishes a trip.requested event for trip.
func (p *RabbitMQPublisher) PublishTripRequested(ctx context.Context, trip *domain.Trip) error {
	event := NewTripRequestedEvent(trip)
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(ctx, p.exchange, TripRequestedRoutingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.EventID,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish to rabbitmq: %w", err)
	}
	return nil
}

// Close closes the channel and the connection.
func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.channel.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}

// NoopPublisher drops every event. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishTripRequested(context.Context, *domain.Trip) error { return nil }

func (NoopPublisher) Close() error { return nil }

var (
	_ Publisher = (*RabbitMQPublisher)(nil)
	_ Publisher = NoopPublisher{}
)
