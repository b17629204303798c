package service

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/couchcryptid/smart-city-service/internal/domain"
)

// CityPrediction is the full per-city report.
type CityPrediction struct {
	City        string            `json:"city"`
	Location    domain.Geo        `json:"location"`
	Metrics     ModelRun          `json:"metrics"`
	Score       float64           `json:"score"`
	Status      domain.StatusInfo `json:"status"`
	Insights    domain.Insights   `json:"insights"`
	Alerts      []domain.Alert    `json:"alerts"`
	LastUpdated time.Time         `json:"last_updated"`
}

// PredictCity resolves the location, runs every model, overwrites the
// stored snapshot and reports score, insights and alerts. Unresolvable
// locations return domain.ErrCityNotFound.
//
// The snapshot update is a read followed by a write; concurrent requests
// for the same city race and the last one wins.
func (s *Service) PredictCity(ctx context.Context, q LocationQuery, useAPI bool) (CityPrediction, error) {
	ctx, span := tracer.Start(ctx, "PredictCity", trace.WithAttributes(
		attribute.String("query.city", q.City),
		attribute.Bool("use_api", useAPI),
	))
	defer span.End()

	city, err := s.resolve(ctx, q)
	if err != nil {
		span.SetStatus(codes.Error, "location not resolved")
		return CityPrediction{}, err
	}

	run, err := s.RunModels(ctx, city, useAPI)
	if err != nil {
		span.RecordError(err)
		return CityPrediction{}, fmt.Errorf("run models for %s: %w", city.Name, err)
	}

	key := domain.CanonicalName(city.Name)
	m := s.cityMetrics(key)
	m.AirQuality = run.AirQuality
	m.AccidentRisk = run.AccidentRisk
	m.ParkingStatus = run.ParkingStatus
	m.ActivityLevel = run.ActivityLevel
	m.LastUpdated = s.clock.Now()
	if err := s.store.Put(key, m); err != nil {
		s.logger.Error("persist city metrics", "city", key, "error", err)
	}

	score := run.Score()
	alerts := domain.CheckThresholdBreaches(city.Name, m)
	s.raise(ctx, city.Name, alerts)

	return CityPrediction{
		City:        city.Name,
		Location:    city.Geo(),
		Metrics:     run,
		Score:       score,
		Status:      domain.CityStatus(score),
		Insights:    domain.GenerateInsights(city.Name, m),
		Alerts:      alerts,
		LastUpdated: m.LastUpdated,
	}, nil
}

// CityScore is the composite score report. Metrics holds a ModelRun when a
// city was resolved and the fixed sample inputs otherwise.
type CityScore struct {
	Score     float64           `json:"score"`
	Status    domain.StatusInfo `json:"status"`
	Timestamp string            `json:"timestamp"`
	Metrics   any               `json:"metrics"`
	City      string            `json:"city,omitempty"`
}

const timestampLayout = "2006-01-02 15:04:05"

// sampleInputs score a city nobody asked about.
var sampleInputs = ScoreInputs{
	AirQuality:    45,
	AccidentRisk:  domain.RiskMedium,
	ParkingStatus: domain.ParkingAvailable,
	ActivityLevel: domain.ActivityModerate,
}

// CityScore runs the models for the named city without touching its stored
// predictions. An empty or unresolvable name scores the sample inputs.
func (s *Service) CityScore(ctx context.Context, cityName string) CityScore {
	ctx, span := tracer.Start(ctx, "CityScore", trace.WithAttributes(attribute.String("query.city", cityName)))
	defer span.End()

	now := s.clock.Now()
	if cityName != "" {
		s.cityMetrics(cityName)
		city, err := s.resolver.Geocode(ctx, cityName)
		if err == nil {
			run, err := s.RunModels(ctx, city, true)
			if err == nil {
				score := run.Score()
				return CityScore{
					Score:     score,
					Status:    domain.CityStatus(score),
					Timestamp: now.Format(timestampLayout),
					Metrics:   run,
					City:      cityName,
				}
			}
			s.logger.Warn("city score fell back to sample", "city", cityName, "error", err)
		}
	}

	score := sampleInputs.Score()
	return CityScore{
		Score:     score,
		Status:    domain.CityStatus(score),
		Timestamp: now.Format(timestampLayout),
		Metrics:   sampleInputs,
	}
}

// Predict evaluates a single formula named by module.
func (s *Service) Predict(module string, fields domain.Fields) (domain.FormulaResult, error) {
	m, err := domain.ParseModule(module)
	if err != nil {
		return domain.FormulaResult{}, err
	}
	result, err := domain.Evaluate(m, fields)
	if err != nil {
		return domain.FormulaResult{}, err
	}
	s.metrics.Predictions.WithLabelValues(m.String()).Inc()
	return result, nil
}
