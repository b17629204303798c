package domain

import "fmt"

// Insights is the narrative summary of a CityMetrics snapshot.
type Insights struct {
	Overview        string   `json:"overview"`
	Strengths       []string `json:"strengths"`
	Concerns        []string `json:"concerns"`
	Recommendations []string `json:"recommendations"`
}

const (
	energyConcernMW          = 4000
	congestionConcernPercent = 0.7
)

// GenerateInsights applies the fixed rule set to m. Rules run in order air
// quality, accident risk, parking, activity, energy, congestion, so the
// output order is stable for a given snapshot.
func GenerateInsights(cityName string, m CityMetrics) Insights {
	in := Insights{
		Strengths:       []string{},
		Concerns:        []string{},
		Recommendations: []string{},
	}

	switch {
	case m.AirQuality < 50:
		in.Strengths = append(in.Strengths, "Excellent air quality (AQI < 50)")
	case m.AirQuality < 100:
		in.Strengths = append(in.Strengths, "Good air quality (AQI < 100)")
	default:
		in.Concerns = append(in.Concerns, fmt.Sprintf("Poor air quality (AQI: %.1f)", m.AirQuality))
		in.Recommendations = append(in.Recommendations,
			"• Implement stricter emissions controls\n• Increase green spaces and urban forests\n• Promote electric vehicle adoption\n• Enhance public transportation")
	}

	switch m.AccidentRisk {
	case RiskLow:
		in.Strengths = append(in.Strengths, "Low accident risk - safe road conditions")
	case RiskHigh:
		in.Concerns = append(in.Concerns, "High accident risk areas detected")
		in.Recommendations = append(in.Recommendations,
			"• Improve road safety measures in high-risk areas\n• Install traffic calming measures\n• Enhance street lighting and visibility\n• Implement intelligent traffic management systems")
	case RiskMedium:
		in.Concerns = append(in.Concerns, "Moderate accident risk - monitoring required")
		in.Recommendations = append(in.Recommendations,
			"• Monitor traffic patterns closely\n• Consider preventive safety measures")
	}

	if m.ParkingStatus == ParkingAvailable {
		in.Strengths = append(in.Strengths, "Adequate parking availability")
	} else {
		in.Concerns = append(in.Concerns, "Parking spaces are full")
		in.Recommendations = append(in.Recommendations,
			"• Implement dynamic pricing for parking\n• Promote alternative transportation options\n• Expand parking capacity in high-demand areas\n• Develop smart parking guidance systems")
	}

	switch m.ActivityLevel {
	case ActivityHigh:
		in.Concerns = append(in.Concerns, "High crowd density detected")
		in.Recommendations = append(in.Recommendations,
			"• Monitor crowd flow patterns\n• Ensure adequate public facilities\n• Plan for peak hour management")
	case ActivityLow:
		in.Strengths = append(in.Strengths, "Low crowd density - comfortable urban environment")
	}

	if m.EnergyConsumption > energyConcernMW {
		in.Concerns = append(in.Concerns, fmt.Sprintf("High energy consumption (%.0f MW)", m.EnergyConsumption))
		in.Recommendations = append(in.Recommendations,
			"• Promote energy efficiency programs\n• Increase renewable energy sources\n• Implement smart grid technologies")
	}

	if m.TrafficCongestion > congestionConcernPercent {
		in.Concerns = append(in.Concerns, fmt.Sprintf("Severe traffic congestion (%.0f%%)", m.TrafficCongestion*100))
		in.Recommendations = append(in.Recommendations,
			"• Improve public transportation\n• Implement smart traffic management\n• Promote carpooling and ride-sharing")
	}

	switch {
	case len(in.Strengths) > 0 && len(in.Concerns) == 0:
		in.Overview = cityName + " is performing well across all major metrics. The city demonstrates strong urban management and sustainable practices."
	case len(in.Concerns) > 0 && len(in.Strengths) == 0:
		in.Overview = cityName + " has several areas that need immediate attention. Prioritize the recommended actions to improve overall city performance."
	default:
		in.Overview = cityName + " shows a mix of strengths and areas for improvement. Focus on addressing the concerns while maintaining current strengths."
	}

	return in
}
