// Command validate checks a city metrics file for integrity: every key is a
// canonical city name, category fields hold known values, numeric fields are
// in range, and each snapshot scores to a valid status.
//
// Usage:
//
//	go run ./cmd/validate -data data/city_data.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/couchcryptid/smart-city-service/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dataFile := flag.String("data", "", "path to the city metrics JSON file")
	flag.Parse()

	if *dataFile == "" {
		flag.Usage()
		os.Exit(1)
	}

	os.Exit(run(*dataFile, time.Now()))
}

func run(path string, now time.Time) int {
	fmt.Println("=== City Metrics Validation ===")
	fmt.Println()

	cities, err := load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load %s: %v\n", path, err)
		return 1
	}

	names := make([]string, 0, len(cities))
	for name := range cities {
		names = append(names, name)
	}
	slices.Sort(names)

	phases := []*phase{
		validateKeys(names),
		validateCategories(names, cities),
		validateRanges(names, cities, now),
		validateScores(names, cities),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Cities: %d\n", len(cities))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func load(path string) (map[string]domain.CityMetrics, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cities map[string]domain.CityMetrics
	if err := json.Unmarshal(data, &cities); err != nil {
		return nil, err
	}
	return cities, nil
}

// ── Phase 1: Keys ──

func validateKeys(names []string) *phase {
	p := &phase{name: "Phase 1: Keys (canonical city names)"}
	if len(names) == 0 {
		p.errorf("file holds no cities")
	}
	for _, name := range names {
		if canonical := domain.CanonicalName(name); canonical != name {
			p.errorf("key %q is not canonical (expected %q)", name, canonical)
		}
	}
	return p
}

// ── Phase 2: Categories ──

var (
	riskLevels     = []domain.RiskLevel{domain.RiskLow, domain.RiskMedium, domain.RiskHigh}
	parkingLevels  = []domain.ParkingStatus{domain.ParkingAvailable, domain.ParkingFull}
	activityLevels = []domain.ActivityLevel{domain.ActivityLow, domain.ActivityModerate, domain.ActivityHigh}
)

func validateCategories(names []string, cities map[string]domain.CityMetrics) *phase {
	p := &phase{name: "Phase 2: Categories (enum values)"}
	for _, name := range names {
		m := cities[name]
		if !slices.Contains(riskLevels, m.AccidentRisk) {
			p.errorf("%s: accident_risk %q not in {Low, Medium, High}", name, m.AccidentRisk)
		}
		if !slices.Contains(parkingLevels, m.ParkingStatus) {
			p.errorf("%s: parking_status %q not in {Available, Full}", name, m.ParkingStatus)
		}
		if !slices.Contains(activityLevels, m.ActivityLevel) {
			p.errorf("%s: activity_level %q not in {Low, Moderate, High}", name, m.ActivityLevel)
		}
	}
	return p
}

// ── Phase 3: Ranges ──

func validateRanges(names []string, cities map[string]domain.CityMetrics, now time.Time) *phase {
	p := &phase{name: "Phase 3: Ranges (numeric fields)"}
	for _, name := range names {
		m := cities[name]
		if m.AirQuality < 0 || m.AirQuality > 500 {
			p.errorf("%s: air_quality %g outside [0, 500]", name, m.AirQuality)
		}
		if m.EnergyConsumption < 0 {
			p.errorf("%s: energy_consumption %g is negative", name, m.EnergyConsumption)
		}
		if m.TrafficCongestion < 0 || m.TrafficCongestion > 1 {
			p.errorf("%s: traffic_congestion %g outside [0, 1]", name, m.TrafficCongestion)
		}
		if m.LastUpdated.IsZero() {
			p.errorf("%s: last_updated is zero", name)
		} else if m.LastUpdated.After(now) {
			p.errorf("%s: last_updated %s is in the future", name, m.LastUpdated.Format(time.RFC3339))
		}
	}
	return p
}

// ── Phase 4: Scores ──

func validateScores(names []string, cities map[string]domain.CityMetrics) *phase {
	p := &phase{name: "Phase 4: Scores (derived status)"}
	for _, name := range names {
		m := cities[name]
		score := domain.SmartCityScore(m.AirQuality, m.AccidentRisk, m.ParkingStatus, m.ActivityLevel)
		if score < 0 || score > 100 {
			p.errorf("%s: score %g outside [0, 100]", name, score)
		}
		if domain.CityStatus(score).Status == "" {
			p.errorf("%s: score %g has no status", name, score)
		}
	}
	return p
}
