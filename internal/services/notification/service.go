// Package notification publishes alert events to downstream consumers.
package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fraudwatch/internal/models"

	"github.com/nsqio/go-nsq"
	"github.com/sirupsen/logrus"
)

const (
	EventAlertCreated  = "alert.created"
	EventAlertReviewed = "alert.reviewed"
)

// AlertEvent is the message body published for alert changes.
type AlertEvent struct {
	Type          string             `json:"type"`
	AlertID       uint               `json:"alert_id"`
	TransactionID uint               `json:"transaction_id"`
	Level         models.RiskLevel   `json:"level"`
	Status        models.AlertStatus `json:"status"`
	AssignedTo    *uint              `json:"assigned_to,omitempty"`
	OccurredAt    time.Time          `json:"occurred_at"`
}

// NewAlertEvent builds an event of the given type from alert.
func NewAlertEvent(eventType string, alert *models.FraudAlert) AlertEvent {
	return AlertEvent{
		Type:          eventType,
		AlertID:       alert.ID,
		TransactionID: alert.TransactionID,
		Level:         alert.Level,
		Status:        alert.Status,
		AssignedTo:    alert.AssignedTo,
		OccurredAt:    time.Now().UTC(),
	}
}

// Publisher delivers alert events.
type Publisher interface {
	PublishAlert(ctx context.Context, event AlertEvent) error
	Close()
}

// NSQPublisher publishes alert events as JSON to one NSQ topic.
type NSQPublisher struct {
	producer *nsq.Producer
	topic    string
	log      *logrus.Logger
}

// NewNSQPublisher connects to nsqd at address and checks it is reachable.
func NewNSQPublisher(address, topic string, log *logrus.Logger) (*NSQPublisher, error) {
	config := nsq.NewConfig()
	producer, err := nsq.NewProducer(address, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create NSQ producer: %w", err)
	}
	producer.SetLoggerLevel(nsq.LogLevelWarning)

	if err := producer.Ping(); err != nil {
		producer.Stop()
		return nil, fmt.Errorf("failed to ping NSQ daemon: %w", err)
	}

	return &NSQPublisher{producer: producer, topic: topic, log: log}, nil
}

func (p *NSQPublisher) PublishAlert(ctx context.Context, event AlertEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	if err := p.producer.Publish(p.topic, body); err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	p.log.WithFields(logrus.Fields{
		"topic":    p.topic,
		"event":    event.Type,
		"alert_id": event.AlertID,
	}).Debug("published alert event")
	return nil
}

// Close gracefully stops the producer
func (p *NSQPublisher) Close() {
	p.producer.Stop()
}

// LogPublisher logs events instead of publishing them. It is used when no
// nsqd address is configured.
type LogPublisher struct {
	log *logrus.Logger
}

func NewLogPublisher(log *logrus.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) PublishAlert(_ context.Context, event AlertEvent) error {
	p.log.WithFields(logrus.Fields{
		"event":          event.Type,
		"alert_id":       event.AlertID,
		"transaction_id": event.TransactionID,
		"level":          event.Level,
		"status":         event.Status,
	}).Info("alert event")
	return nil
}

func (p *LogPublisher) Close() {}
