// Command seed writes a city metrics file populated with synthetic
// predictions. It drives the real service flow with live providers disabled,
// so the snapshots match what the server would store for the same readings.
//
// Usage:
//
//	go run ./cmd/seed -out data/city_data.json -seed 42
//	go run ./cmd/seed -out data/city_data.json -cities "Pune,Chennai"
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/smart-city-service/internal/domain"
	"github.com/couchcryptid/smart-city-service/internal/gateway"
	"github.com/couchcryptid/smart-city-service/internal/observability"
	"github.com/couchcryptid/smart-city-service/internal/service"
	"github.com/couchcryptid/smart-city-service/internal/store"
)

var seededAt = time.Date(2026, time.January, 15, 9, 0, 0, 0, time.UTC)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the city metrics JSON file")
	cityList := flag.String("cities", "", "comma-separated city names (default: every built-in city)")
	seed := flag.Uint64("seed", 1, "synthetic data seed; 0 picks a random seed")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	// Start from an empty file so stale cities do not survive a reseed.
	if err := os.Remove(*out); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove previous output: %w", err)
	}

	logger := sharedobs.NewLogger("warn", "text")
	metrics := observability.NewMetrics()
	resolver := domain.NewResolver(nil, logger)
	synth := gateway.NewSynthesizer(*seed)
	st := store.Open(*out, logger, metrics)

	svc := service.New(service.Deps{
		Resolver:  resolver,
		Gateway:   gateway.New(gateway.Providers{}, synth, 0, logger, metrics),
		Store:     st,
		Generator: synth,
		Clock:     clockwork.NewFakeClockAt(seededAt),
		Logger:    logger,
		Metrics:   metrics,
	})

	names := parseCities(*cityList)
	if len(names) == 0 {
		for _, c := range resolver.Cities() {
			names = append(names, c.Name)
		}
	}

	ctx := context.Background()
	for _, name := range names {
		p, err := svc.PredictCity(ctx, service.LocationQuery{City: name}, false)
		if err != nil {
			return fmt.Errorf("predict %s: %w", name, err)
		}
		log.Printf("%-12s score=%5.1f %-9s alerts=%d", p.City, p.Score, p.Status.Status, len(p.Alerts))
	}

	log.Printf("wrote %d cities to %s", len(st.All()), *out)
	return nil
}

func parseCities(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if name := strings.TrimSpace(part); name != "" {
			out = append(out, name)
		}
	}
	return out
}
