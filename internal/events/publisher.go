package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/heinthant2k4/sports-arena-booking/internal/logger"
)

const (
	RoutingBookingCreated   = "booking.created"
	RoutingBookingConfirmed = "booking.confirmed"
	RoutingBookingCompleted = "booking.completed"
	RoutingBookingMoved     = "booking.rescheduled"
)

type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
	Close() error
}

type BookingEvent struct {
	EventID    string    `json:"event_id"`
	Type       string    `json:"type"`
	BookingID  int       `json:"booking_id"`
	UserID     int       `json:"user_id"`
	FacilityID int       `json:"facility_id"`
	Status     string    `json:"status"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewBookingEvent(routingKey string, bookingID, userID, facilityID int, status string, start, end time.Time) BookingEvent {
	return BookingEvent{
		EventID:    uuid.NewString(),
		Type:       routingKey,
		BookingID:  bookingID,
		UserID:     userID,
		FacilityID: facilityID,
		Status:     status,
		StartTime:  start.UTC(),
		EndTime:    end.UTC(),
		OccurredAt: time.Now().UTC(),
	}
}

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

var ErrPublisherClosed = errors.New("publisher is closed")

// AMQPPublisher sends JSON messages to a durable topic exchange. When the
// broker drops the connection the next Publish dials again.
type AMQPPublisher struct {
	url      string
	exchange string
	dial     func(url, exchange string) (*amqp.Connection, channel, error)

	mu     sync.Mutex
	conn   *amqp.Connection
	ch     channel
	closed bool
}

func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	p := &AMQPPublisher{url: url, exchange: exchange, dial: dialExchange}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func dialExchange(url, exchange string) (*amqp.Connection, channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("declare exchange: %w", err)
	}
	return conn, ch, nil
}

// connect dials the broker. Callers hold p.mu once the publisher is shared.
func (p *AMQPPublisher) connect() error {
	conn, ch, err := p.dial(p.url, p.exchange)
	if err != nil {
		return err
	}
	p.conn, p.ch = conn, ch
	if conn != nil {
		go p.watch(conn.NotifyClose(make(chan *amqp.Error, 1)), ch)
	}
	return nil
}

// watch waits for the connection behind ch to end. A graceful Close ends it
// without an error and is not logged.
func (p *AMQPPublisher) watch(closed <-chan *amqp.Error, ch channel) {
	amqpErr, ok := <-closed
	if !ok || amqpErr == nil {
		return
	}
	logger.Warn("AMQP connection lost",
		"exchange", p.exchange,
		"code", amqpErr.Code,
		"reason", amqpErr.Reason,
	)
	p.drop(ch)
}

func (p *AMQPPublisher) drop(ch channel) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch == ch {
		p.ch = nil
		p.conn = nil
	}
}

func (p *AMQPPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", routingKey, err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	}
	if evt, ok := payload.(BookingEvent); ok {
		msg.MessageId = evt.EventID
	}

	ch, err := p.channel()
	if err != nil {
		return err
	}
	return ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg)
}

func (p *AMQPPublisher) channel() (channel, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrPublisherClosed
	}
	if p.ch == nil {
		if err := p.connect(); err != nil {
			return nil, fmt.Errorf("reconnect to broker: %w", err)
		}
		logger.Info("AMQP connection restored", "exchange", p.exchange)
	}
	return p.ch, nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		err := p.conn.Close()
		p.conn = nil
		return err
	}
	return nil
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }
func (NopPublisher) Close() error                               { return nil }
