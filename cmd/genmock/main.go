// Command genmock writes a deterministic forecast fixture for every US state
// using the synthetic generator, so the fixture source and the synthetic
// source agree for the same seed.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -seed 42 \
//	  -out data/mock/forecasts.json \
//	  -omit PR,GU
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/suitability-map/internal/adapter/fixture"
	"github.com/couchcryptid/suitability-map/internal/adapter/geo"
	"github.com/couchcryptid/suitability-map/internal/adapter/synthetic"
	"github.com/couchcryptid/suitability-map/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	seed := flag.Uint64("seed", 0, "generator seed")
	out := flag.String("out", "", "output path for the forecast fixture")
	omit := flag.String("omit", "", "comma-separated region codes to leave out (exercises no-data regions)")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	skip := map[string]bool{}
	for _, code := range strings.Split(*omit, ",") {
		if code = strings.ToUpper(strings.TrimSpace(code)); code != "" {
			skip[code] = true
		}
	}

	set := domain.ForecastSet{}
	for _, r := range geo.States() {
		if skip[r.Code] {
			continue
		}
		set[r.Code] = synthetic.Generate(*seed, r.Code)
	}
	log.Printf("generated %d regions (%d omitted)", len(set), len(geo.States())-len(set))

	if err := writeFixture(*out, set); err != nil {
		return fmt.Errorf("writing fixture: %w", err)
	}
	log.Printf("wrote fixture: %s", *out)

	printStats(set)
	return nil
}

func writeFixture(path string, set domain.ForecastSet) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fixture.Encode(f, set); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// printStats logs the day-0 tier distribution for each preference.
func printStats(set domain.ForecastSet) {
	for _, band := range domain.Preferences() {
		counts := map[domain.Tier]int{}
		for _, f := range set {
			counts[domain.Classify(domain.Score(&f[0], band)).Tier]++
		}
		parts := make([]string, 0, len(domain.Legend()))
		for _, c := range domain.Legend() {
			parts = append(parts, fmt.Sprintf("%s=%d", c.Tier, counts[c.Tier]))
		}
		log.Printf("day 0 %-5s %s", band.Key, strings.Join(parts, " "))
	}
}
