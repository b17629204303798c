package service

import (
	"context"

	"github.com/couchcryptid/smart-city-service/internal/domain"
)

// Heatmap maps a layer name to its points.
type Heatmap map[string][]domain.HeatPoint

// Heatmap scatters the four layers around the query location. A resolvable
// city name moves the center to the city and scales intensities by its
// stored snapshot; otherwise the coordinates (default New Delhi) are used
// with default intensities.
func (s *Service) Heatmap(ctx context.Context, q LocationQuery) Heatmap {
	center := domain.DefaultCenter
	if q.Coords != nil {
		center = *q.Coords
	}

	var snapshot *domain.CityMetrics
	if q.City != "" {
		if city, err := s.resolver.Geocode(ctx, q.City); err == nil {
			center = city.Geo()
		}
		m := s.cityMetrics(q.City)
		snapshot = &m
	}

	layers := domain.HeatmapLayers(snapshot)
	out := make(Heatmap, len(layers))
	for _, layer := range layers {
		out[layer.Name] = s.gen.Points(center, layer)
	}
	return out
}
