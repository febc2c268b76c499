// internal/queue/queue.go
package queue

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/streadway/amqp"

	"github.com/AWD-Projects/xianna-campaign-service/internal/model"
)

// Publisher emits completed campaign reports for downstream consumers
// (analytics ingestion, audit). Publishing is best-effort: a broker outage
// must never fail a composition that already dispatched.
type Publisher interface {
	PublishReport(report *model.CampaignReport) error
	Close() error
}

// AMQPPublisher publishes reports as JSON to a durable queue.
type AMQPPublisher struct {
	conn      *amqp.Connection
	channel   *amqp.Channel
	queueName string
}

// NewAMQPPublisher connects to the broker and declares the report queue.
func NewAMQPPublisher(url, queueName string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connecting to broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("opening channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declaring queue %s: %w", queueName, err)
	}

	return &AMQPPublisher{conn: conn, channel: ch, queueName: queueName}, nil
}

func (p *AMQPPublisher) PublishReport(report *model.CampaignReport) error {
	body, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}

	return p.channel.Publish(
		"",          // default exchange
		p.queueName, // routing key
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

func (p *AMQPPublisher) Close() error {
	p.channel.Close()
	return p.conn.Close()
}

// InMemoryPublisher collects reports for tests and local runs without a
// broker.
type InMemoryPublisher struct {
	mu      sync.Mutex
	reports []model.CampaignReport
}

func NewInMemoryPublisher() *InMemoryPublisher {
	return &InMemoryPublisher{}
}

func (p *InMemoryPublisher) PublishReport(report *model.CampaignReport) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reports = append(p.reports, *report)
	return nil
}

func (p *InMemoryPublisher) Reports() []model.CampaignReport {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]model.CampaignReport, len(p.reports))
	copy(out, p.reports)
	return out
}

func (p *InMemoryPublisher) Close() error { return nil }

var (
	_ Publisher = (*AMQPPublisher)(nil)
	_ Publisher = (*InMemoryPublisher)(nil)
)
