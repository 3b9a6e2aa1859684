package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// DonationEvent is published on donation lifecycle transitions. Consumers
// (mailer, push) fan out per the routing key: donation.created,
// donation.completed, donation.failed.
type DonationEvent struct {
	Kind        string    `json:"kind"`
	DonationID  string    `json:"donation_id"`
	UserID      int64     `json:"user_id"`
	CharityID   int64     `json:"charity_id"`
	AmountMinor int64     `json:"amount_minor_units"`
	Method      string    `json:"method"`
	Timestamp   time.Time `json:"timestamp"`
}

type Publisher struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
}

func NewPublisher(url, exchange string) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := channel.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &Publisher{conn: conn, channel: channel, exchange: exchange}, nil
}

// PublishDonationEvent is a no-op on a nil publisher so callers do not
// have to care whether AMQP is configured.
func (p *Publisher) PublishDonationEvent(ctx context.Context, ev DonationEvent) error {
	if p == nil {
		return nil
	}
	ev.Timestamp = time.Now().UTC()
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange,
		"donation."+ev.Kind,
		false,
		false,
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}
