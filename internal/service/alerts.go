package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/couchcryptid/smart-city-service/internal/domain"
)

const publishTimeout = 5 * time.Second

// Alerts evaluates the stored snapshot for cityName. An empty name yields
// no alerts.
func (s *Service) Alerts(cityName string) []domain.Alert {
	if cityName == "" {
		return []domain.Alert{}
	}
	return domain.CheckThresholdBreaches(cityName, s.cityMetrics(cityName))
}

// raise counts alerts and, when a publisher is configured, forwards them.
// Publishing outlives request cancellation but not publishTimeout, and its
// failures are only logged.
func (s *Service) raise(ctx context.Context, city string, alerts []domain.Alert) {
	for _, a := range alerts {
		s.metrics.AlertsRaised.WithLabelValues(string(a.Type)).Inc()
	}
	if s.publisher == nil || len(alerts) == 0 {
		return
	}

	now := s.clock.Now()
	events := make([]domain.AlertEvent, len(alerts))
	for i, a := range alerts {
		events[i] = domain.AlertEvent{
			ID:       uuid.NewString(),
			City:     city,
			Alert:    a,
			RaisedAt: now,
		}
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.publisher.Publish(ctx, events); err != nil {
		s.metrics.AlertsPublish.WithLabelValues("error").Inc()
		s.logger.Warn("alert publish failed", "city", city, "count", len(events), "error", err)
		return
	}
	s.metrics.AlertsPublish.WithLabelValues("success").Inc()
}
