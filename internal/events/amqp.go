package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/gastosfacil/backend/internal/models"
)

const publishTimeout = 5 * time.Second

// ErrPublisherClosed is returned when publishing after Close.
var ErrPublisherClosed = errors.New("publisher closed")

// AMQPPublisher publishes events to a durable topic exchange.
// A connection dropped by the broker is re-established on the next publish.
type AMQPPublisher struct {
	url        string
	exchange   string
	routingKey string

	mu      sync.Mutex
	conn    *amqp091.Connection
	channel *amqp091.Channel
	closed  bool
}

// NewAMQPPublisher dials the broker and declares the exchange.
func NewAMQPPublisher(url, exchange, routingKey string) (*AMQPPublisher, error) {
	p := &AMQPPublisher{
		url:        url,
		exchange:   exchange,
		routingKey: routingKey,
	}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

// connect dials and declares the exchange. Callers hold p.mu or own p exclusively.
func (p *AMQPPublisher) connect() error {
	conn, err := amqp091.Dial(p.url)
	if err != nil {
		return fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		p.exchange, // name
		"topic",    // type
		true,       // durable
		false,      // auto-deleted
		false,      // internal
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return fmt.Errorf("declare exchange: %w", err)
	}

	notify := conn.NotifyClose(make(chan *amqp091.Error, 1))
	go func() {
		// A nil receive means Close was called on our side.
		if amqpErr, ok := <-notify; ok && amqpErr != nil {
			slog.Warn("AMQP connection closed, will reconnect on next publish",
				"exchange", p.exchange,
				"code", amqpErr.Code,
				"reason", amqpErr.Reason,
			)
		}
	}()

	p.conn = conn
	p.channel = channel
	return nil
}

// ensureConnected reconnects if the broker dropped the connection. Requires p.mu.
func (p *AMQPPublisher) ensureConnected() error {
	if p.closed {
		return ErrPublisherClosed
	}
	if p.conn != nil && !p.conn.IsClosed() && p.channel != nil && !p.channel.IsClosed() {
		return nil
	}

	p.closeLocked()
	if err := p.connect(); err != nil {
		return fmt.Errorf("reconnect: %w", err)
	}
	slog.Info("AMQP connection re-established", "exchange", p.exchange)
	return nil
}

// PublishExpenseCreated publishes an expense.created message.
func (p *AMQPPublisher) PublishExpenseCreated(ctx context.Context, expense *models.Expense) error {
	body, err := NewExpenseCreated(expense).ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ensureConnected(); err != nil {
		return err
	}

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange,   // exchange
		p.routingKey, // routing key
		false,        // mandatory
		false,        // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    expense.ID,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	slog.DebugContext(ctx, "Published expense event",
		"expense_id", expense.ID,
		"exchange", p.exchange,
		"routing_key", p.routingKey,
	)
	return nil
}

// Close closes the channel and connection. Later publishes fail with ErrPublisherClosed.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	return p.closeLocked()
}

func (p *AMQPPublisher) closeLocked() error {
	var err error
	if p.channel != nil && !p.channel.IsClosed() {
		p.channel.Close()
	}
	if p.conn != nil && !p.conn.IsClosed() {
		err = p.conn.Close()
	}
	p.channel = nil
	p.conn = nil
	return err
}
