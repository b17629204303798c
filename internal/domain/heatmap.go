package domain

// IntensityRange bounds the intensity of generated heatmap points.
type IntensityRange struct {
	Min float64
	Max float64
}

// HeatmapLayer describes one point cloud.
type HeatmapLayer struct {
	Name      string
	Count     int
	RadiusKm  float64
	Intensity IntensityRange
}

// HeatPoint is a [lat, lng, intensity] triple.
type HeatPoint [3]float64

// DefaultCenter is used when a heatmap request names no location.
var DefaultCenter = Geo{Lat: 28.6139, Lon: 77.2090}

const heatmapRadiusKm = 5

var defaultIntensity = IntensityRange{Min: 0.1, Max: 1.0}

var (
	riskIntensity = map[RiskLevel]IntensityRange{
		RiskLow:    {0.2, 0.5},
		RiskMedium: {0.4, 0.7},
		RiskHigh:   {0.6, 1.0},
	}
	parkingIntensity = map[ParkingStatus]IntensityRange{
		ParkingAvailable: {0.3, 0.6},
		ParkingFull:      {0.7, 1.0},
	}
	activityIntensity = map[ActivityLevel]IntensityRange{
		ActivityLow:      {0.2, 0.5},
		ActivityModerate: {0.4, 0.7},
		ActivityHigh:     {0.6, 1.0},
	}
	fallbackIntensity = IntensityRange{Min: 0.4, Max: 0.7}
)

// HeatmapLayers returns the four layers in response order. With a nil
// snapshot every layer uses the default 0.1–1.0 intensity; otherwise the
// ranges follow the snapshot's predictions.
func HeatmapLayers(m *CityMetrics) []HeatmapLayer {
	layers := []HeatmapLayer{
		{Name: "accident_risk", Count: 100, RadiusKm: heatmapRadiusKm, Intensity: defaultIntensity},
		{Name: "air_quality", Count: 150, RadiusKm: heatmapRadiusKm, Intensity: defaultIntensity},
		{Name: "parking", Count: 50, RadiusKm: heatmapRadiusKm, Intensity: defaultIntensity},
		{Name: "crowd_density", Count: 200, RadiusKm: heatmapRadiusKm, Intensity: defaultIntensity},
	}
	if m == nil {
		return layers
	}

	layers[0].Intensity = lookupIntensity(riskIntensity, m.AccidentRisk)
	layers[1].Intensity = IntensityRange{Min: 0.3, Max: min(1.0, 0.3+(m.AirQuality/500)*0.7)}
	layers[2].Intensity = lookupIntensity(parkingIntensity, m.ParkingStatus)
	layers[3].Intensity = lookupIntensity(activityIntensity, m.ActivityLevel)
	return layers
}

func lookupIntensity[K comparable](table map[K]IntensityRange, key K) IntensityRange {
	if r, ok := table[key]; ok {
		return r
	}
	return fallbackIntensity
}
