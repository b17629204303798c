// Package kafka publishes threshold alerts to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/smart-city-service/internal/config"
	"github.com/couchcryptid/smart-city-service/internal/domain"
)

// AlertWriter produces one message per alert to the configured alert topic.
type AlertWriter struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewAlertWriter creates a Kafka producer for the alert topic.
func NewAlertWriter(cfg *config.Config, logger *slog.Logger) *AlertWriter {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaAlertTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &AlertWriter{writer: w, logger: logger}
}

// Publish writes all alert events in a single WriteMessages call. Messages
// are keyed by city so alerts for one city keep their order.
func (w *AlertWriter) Publish(ctx context.Context, events []domain.AlertEvent) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(events))
	for i := range events {
		msg, err := alertMessage(events[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish %d alerts: %w", len(msgs), err)
	}
	w.logger.Debug("alerts published", "count", len(msgs), "topic", w.writer.Topic)
	return nil
}

func (w *AlertWriter) Close() error {
	return w.writer.Close()
}

func alertMessage(event domain.AlertEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize alert %s: %w", event.ID, err)
	}
	return kafkago.Message{
		Key:   []byte(event.City),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "alert_id", Value: []byte(event.ID)},
			{Key: "alert_type", Value: []byte(event.Alert.Type)},
			{Key: "metric", Value: []byte(event.Alert.Metric)},
			{Key: "raised_at", Value: []byte(event.RaisedAt.Format(time.RFC3339))},
		},
		Time: event.RaisedAt,
	}, nil
}
